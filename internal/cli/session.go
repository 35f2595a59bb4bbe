package cli

import (
	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var store, avatar, password string

	cmd := &cobra.Command{
		Use:   "login <name>",
		Short: "Sign in as a trainee or administrator",
		Long: `Sign in on the server. A trainee who signed in before gets their
progress back; a new name creates a fresh profile.

A password is always required. Trainees may use any non-empty value;
signing in as "admin" needs the administrator password.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var identity Identity
			body := map[string]string{
				"name":     args[0],
				"store":    store,
				"avatar":   avatar,
				"password": password,
			}
			if err := client.Post(cmd.Context(), "/api/v1/session/login", body, &identity); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.Print(identity)
			return nil
		},
	}

	cmd.Flags().StringVar(&store, "store", "", "Store the trainee works at")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar emoji")
	cmd.Flags().StringVar(&password, "password", "", "Password")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out the current user",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The server refuses without confirmation
			if err := client.Post(cmd.Context(), "/api/v1/session/logout", map[string]bool{"confirm": yes}, nil); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.PrintMessage("Signed out")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm signing out")

	return cmd
}

func newMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var identity Identity
			if err := client.Get(cmd.Context(), "/api/v1/session/me", &identity); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.Print(identity)
			return nil
		},
	}
}

func newAvatarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "avatar <emoji>",
		Short: "Change the current user's avatar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var identity Identity
			if err := client.Put(cmd.Context(), "/api/v1/session/avatar", map[string]string{"avatar": args[0]}, &identity); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.Print(identity)
			return nil
		},
	}
}

func newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List stores, avatars and client moods",
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts Options
			if err := client.Get(cmd.Context(), "/api/v1/session/options", &opts); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.Print(opts)
			return nil
		},
	}
}
