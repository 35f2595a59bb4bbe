package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newExerciseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "exercise",
		Aliases: []string{"ex"},
		Short:   "Work through training exercises",
		Long: `Open, inspect and act on training exercises.

Kinds: objection, simulator, quick_reply, fix_error, sell_product

Actions per kind:
  objection     submit --text, next, restart, check-text --text
  simulator     send --text, mood --mood, restart, check-text --text
  quick_reply   choose --option, timeout, custom --text, next
  fix_error     submit --text, next
  sell_product  choose --option`,
	}

	cmd.AddCommand(newExerciseListCmd())
	cmd.AddCommand(newExerciseOpenCmd())
	cmd.AddCommand(newExerciseShowCmd())
	cmd.AddCommand(newExerciseCloseCmd())
	cmd.AddCommand(newExerciseDoCmd())

	return cmd
}

func exercisePath(kind string) string {
	return "/api/v1/exercises/" + url.PathEscape(kind)
}

func newExerciseListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the exercise catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list ExerciseList
			if err := client.Get(cmd.Context(), "/api/v1/exercises", &list); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.Print(list)
			return nil
		},
	}
}

func newExerciseOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <kind>",
		Short: "Open an exercise, resuming saved progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var view ExerciseView
			if err := client.Post(cmd.Context(), exercisePath(args[0]), nil, &view); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.Print(view)
			return nil
		},
	}
}

func newExerciseShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <kind>",
		Short: "Show an open exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var view ExerciseView
			if err := client.Get(cmd.Context(), exercisePath(args[0]), &view); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.Print(view)
			return nil
		},
	}
}

func newExerciseCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <kind>",
		Short: "Close an exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), exercisePath(args[0])); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.PrintMessage(fmt.Sprintf("Closed %s", args[0]))
			return nil
		},
	}
}

func newExerciseDoCmd() *cobra.Command {
	var (
		text   string
		option int
		mood   string
	)

	cmd := &cobra.Command{
		Use:   "do <kind> <action>",
		Short: "Perform an action on an open exercise",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, action := args[0], args[1]
			path := exercisePath(kind) + "/" + url.PathEscape(action)

			body := map[string]any{}
			if cmd.Flags().Changed("text") {
				body["text"] = text
			}
			if cmd.Flags().Changed("option") {
				body["option"] = option
			}
			if cmd.Flags().Changed("mood") {
				body["mood"] = mood
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)

			if action == "check-text" {
				var check SpellCheck
				if err := client.Post(cmd.Context(), path, body, &check); err != nil {
					return err
				}
				out.Print(check)
				return nil
			}

			var view ExerciseView
			if err := client.Post(cmd.Context(), path, body, &view); err != nil {
				return err
			}
			out.Print(view)
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Answer or message text")
	cmd.Flags().IntVar(&option, "option", 0, "Zero-based option index")
	cmd.Flags().StringVar(&mood, "mood", "", "Client mood: Neutral, Irritated, Doubtful")

	return cmd
}
