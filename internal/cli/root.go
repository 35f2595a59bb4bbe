package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// Command groups shown in help
const (
	groupTrainee  = "trainee"
	groupTraining = "training"
	groupAdmin    = "admin"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "academy",
		Short: "Command-line client for the sales academy server",
		Long: `academy drives a sales academy server from the terminal.

Trainees sign in, check their dashboard and work through the exercises.
Administrators list and reset trainees, export the registry and follow
live registry changes.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			client = NewClient(cfg.ServerURL, cfg.Timeout)
			if cfg.Verbose {
				client.WithTrace(cmd.ErrOrStderr())
			}
			return nil
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: ACADEMY_SERVER)")
	flags.StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json (env: ACADEMY_OUTPUT)")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Per-request timeout (env: ACADEMY_TIMEOUT)")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Log each request to stderr")

	rootCmd.AddGroup(
		&cobra.Group{ID: groupTrainee, Title: "Trainee:"},
		&cobra.Group{ID: groupTraining, Title: "Training:"},
		&cobra.Group{ID: groupAdmin, Title: "Administration:"},
	)
	addGrouped(rootCmd, groupTrainee,
		newLoginCmd(), newLogoutCmd(), newMeCmd(), newAvatarCmd(), newOptionsCmd(),
		newDashboardCmd(), newLeaderboardCmd(), newAchievementsCmd())
	addGrouped(rootCmd, groupTraining, newExerciseCmd())
	addGrouped(rootCmd, groupAdmin, newAdminCmd(), newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

func addGrouped(root *cobra.Command, group string, cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.GroupID = group
		root.AddCommand(c)
	}
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
