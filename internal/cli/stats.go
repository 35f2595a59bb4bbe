package cli

import (
	"github.com/spf13/cobra"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the current user's progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			var dashboard Dashboard
			if err := client.Get(cmd.Context(), "/api/v1/dashboard", &dashboard); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.Print(dashboard)
			return nil
		},
	}
}

func newLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top trainees",
		RunE: func(cmd *cobra.Command, args []string) error {
			var board Leaderboard
			if err := client.Get(cmd.Context(), "/api/v1/leaderboard", &board); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.Print(board)
			return nil
		},
	}
}

func newAchievementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "List achievements and which are unlocked",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []Achievement
			if err := client.Get(cmd.Context(), "/api/v1/achievements", &list); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.Print(list)
			return nil
		},
	}
}
