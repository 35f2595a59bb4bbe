package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

const eventsPath = "/api/v1/admin/events"

func newEventsCmd() *cobra.Command {
	var (
		jsonOutput bool
		only       []string
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Stream registry change events",
		Long: `Follow the administrator event stream and print events as they arrive.

Events:
  connected         stream opened
  registry_changed  a trainee's registry entry was written
  user_reset        an administrator reset a trainee

Requires an administrator to be signed in. Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			jsonOutput = jsonOutput || cfg.Output == FormatJSON
			w := cmd.OutOrStdout()
			emit := func(e SSEEvent) {
				if len(only) > 0 && !slices.Contains(only, e.Event) {
					return
				}
				printEvent(w, e, jsonOutput)
			}
			if !jsonOutput {
				fmt.Fprintln(w, "Following registry events")
			}
			return streamEvents(ctx, emit)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print one JSON object per event (implied by --output json)")
	cmd.Flags().StringSliceVar(&only, "only", nil, "Print only these event names (comma separated)")
	return cmd
}

// SSEEvent is one received server-sent event
type SSEEvent struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Data  string    `json:"data"`
}

// registryEvent is the payload of registry_changed and user_reset
type registryEvent struct {
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

// streamEvents follows the admin event stream until ctx ends or the server
// closes it. Cancellation is a clean exit.
func streamEvents(ctx context.Context, emit func(SSEEvent)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(cfg.ServerURL, "/")+eventsPath, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// The shared client has a timeout; the stream needs none
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var errResp ErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error.Code != "" {
			return &errResp.Error
		}
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := readEvents(resp.Body, emit); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream error: %w", err)
	}
	return nil
}

// readEvents parses an SSE body, calling emit for each named event.
// Multi-line data is joined with newlines; comments and unnamed events are skipped.
func readEvents(r io.Reader, emit func(SSEEvent)) error {
	scanner := bufio.NewScanner(r)
	var (
		name string
		data []string
	)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if name != "" {
				emit(SSEEvent{Time: time.Now(), Event: name, Data: strings.Join(data, "\n")})
			}
			name, data = "", nil
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	return scanner.Err()
}

func printEvent(w io.Writer, e SSEEvent, jsonOutput bool) {
	if jsonOutput {
		line, _ := json.Marshal(e)
		fmt.Fprintln(w, string(line))
		return
	}

	stamp := e.Time.Format("15:04:05")
	var payload registryEvent
	if json.Unmarshal([]byte(e.Data), &payload) != nil {
		fmt.Fprintf(w, "[%s] %s\n", stamp, e.Event)
		return
	}
	who := payload.Name
	if who == "" {
		who = "(unknown trainee)"
	}
	switch e.Event {
	case "user_reset":
		fmt.Fprintf(w, "[%s] %s was reset\n", stamp, who)
	case "registry_changed":
		fmt.Fprintf(w, "[%s] %s updated\n", stamp, who)
	default:
		fmt.Fprintf(w, "[%s] %s\n", stamp, e.Event)
	}
}
