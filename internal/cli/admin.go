package cli

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrator tools",
		Long:  `Administrator tools. Sign in with "academy login admin --password ..." first.`,
	}

	cmd.AddCommand(newAdminUsersCmd())
	cmd.AddCommand(newAdminUserCmd())
	cmd.AddCommand(newAdminResetCmd())
	cmd.AddCommand(newAdminResponsesCmd())
	cmd.AddCommand(newAdminStatsCmd())
	cmd.AddCommand(newAdminExportCmd())

	return cmd
}

func userPath(name string) string {
	return "/api/v1/admin/users/" + url.PathEscape(name)
}

func newAdminUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List every registered trainee",
		RunE: func(cmd *cobra.Command, args []string) error {
			var users []UserSummary
			if err := client.Get(cmd.Context(), "/api/v1/admin/users", &users); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.Print(users)
			return nil
		},
	}
}

func newAdminUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "user <name>",
		Short: "Show a trainee's registry entry and session history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entry map[string]any
			if err := client.Get(cmd.Context(), userPath(args[0]), &entry); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.Print(entry)
			return nil
		},
	}
}

func newAdminResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset <name>",
		Short: "Reset a trainee's XP and history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post(cmd.Context(), userPath(args[0])+"/reset", map[string]bool{"confirm": yes}, nil); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.PrintMessage(fmt.Sprintf("Reset %s", args[0]))
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")

	return cmd
}

func newAdminResponsesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "responses",
		Short: "List free-text quick-reply answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []CustomResponse
			if err := client.Get(cmd.Context(), "/api/v1/admin/responses", &list); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.Print(list)
			return nil
		},
	}
}

func newAdminStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show shop-wide totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			var stats ShopStats
			if err := client.Get(cmd.Context(), "/api/v1/admin/stats", &stats); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.Print(stats)
			return nil
		},
	}
}

func newAdminExportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the user registry as a spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := client.Download(cmd.Context(), "/api/v1/admin/export")
			if err != nil {
				return err
			}
			if err := os.WriteFile(file, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", file, err)
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.PrintMessage(fmt.Sprintf("Wrote %d bytes to %s", len(data), file))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "rbt-academy-users.xlsx", "Destination file")

	return cmd
}
