package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// healthPollInterval is the retry spacing for health --wait
const healthPollInterval = 250 * time.Millisecond

// errJudgeOffline is returned by health --require-judge when answers would
// only get fallback scores
var errJudgeOffline = errors.New("judgement service offline")

func newHealthCmd() *cobra.Command {
	var (
		wait         time.Duration
		requireJudge bool
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the server and its judgement service",
		Long: `Check that the academy server answers and whether free-text answers
can be judged. With --wait the check is retried until the server comes up.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := checkHealth(cmd.Context(), wait)
			if err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			if requireJudge && !result.JudgeAvailable {
				return errJudgeOffline
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 0, "Keep retrying for up to this long while the server is unreachable")
	cmd.Flags().BoolVar(&requireJudge, "require-judge", false, "Fail when the judgement service is offline")
	return cmd
}

// checkHealth queries the health endpoint, retrying until wait elapses.
// API errors are returned at once; only transport failures are retried.
func checkHealth(ctx context.Context, wait time.Duration) (HealthResult, error) {
	deadline := time.Now().Add(wait)

	for {
		var result HealthResult
		err := client.Get(ctx, "/api/v1/health", &result)
		var apiErr *APIError
		switch {
		case err == nil, errors.As(err, &apiErr):
			return result, err
		case time.Now().After(deadline):
			if wait > 0 {
				return result, fmt.Errorf("server not healthy after %s: %w", wait, err)
			}
			return result, err
		}

		select {
		case <-ctx.Done():
			return HealthResult{}, fmt.Errorf("health check interrupted: %w", err)
		case <-time.After(healthPollInterval):
		}
	}
}
