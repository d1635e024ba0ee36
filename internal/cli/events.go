package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// errStopStream ends a stream without reporting an error
var errStopStream = errors.New("stop stream")

func newEventsCmd() *cobra.Command {
	var jsonOutput bool
	var count int

	cmd := &cobra.Command{
		Use:   "events <id>",
		Short: "Stream live events from a game",
		Long: `Connect to the game's event stream and print events as they happen.

Events include:
  - connected: Stream opened
  - move: A mark was placed
  - round-complete: The round was won or tied
  - round-started: A new round began
  - settings-updated: Difficulty, mark or strategy changed
  - scores-reset: The score tally was zeroed
  - game-deleted: The game was deleted; the stream ends

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return streamEvents(ctx, cmd.OutOrStdout(), args[0], jsonOutput, count)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Exit after this many game events (0 streams until closed)")

	return cmd
}

// SSEEvent represents a parsed SSE event
type SSEEvent struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Data  string    `json:"data"`
}

func streamEvents(ctx context.Context, w io.Writer, gameID string, jsonOutput bool, count int) error {
	resp, err := client.Stream(ctx, gamePath(gameID, "/events"))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if !jsonOutput {
		_, _ = fmt.Fprintf(w, "Connected to game %s\n", gameID)
	}

	seen := 0
	err = readEvents(resp.Body, func(event, data string) error {
		printEvent(w, event, data, jsonOutput)
		if event == "connected" {
			return nil
		}
		seen++
		if event == "game-deleted" || (count > 0 && seen >= count) {
			return errStopStream
		}
		return nil
	})
	// Context cancellation is expected
	if err != nil && !errors.Is(err, errStopStream) && ctx.Err() == nil {
		return fmt.Errorf("stream error: %w", err)
	}

	if !jsonOutput {
		_, _ = fmt.Fprintln(w, "Disconnected")
	}
	return nil
}

// readEvents parses an event stream, calling fn once per complete event.
// Comment lines such as keepalives are skipped. Parsing stops at the first
// error returned by fn.
func readEvents(r io.Reader, fn func(event, data string) error) error {
	scanner := bufio.NewScanner(r)
	var currentEvent string
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, ":"):
			continue
		case strings.HasPrefix(line, "event: "):
			currentEvent = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case line == "":
			// End of event
			if currentEvent != "" {
				if err := fn(currentEvent, strings.Join(dataLines, "\n")); err != nil {
					return err
				}
			}
			currentEvent = ""
			dataLines = nil
		}
	}

	return scanner.Err()
}

func printEvent(w io.Writer, event, data string, jsonOutput bool) {
	now := time.Now()

	if jsonOutput {
		evt := SSEEvent{
			Time:  now,
			Event: event,
			Data:  data,
		}
		jsonData, _ := json.Marshal(evt)
		_, _ = fmt.Fprintln(w, string(jsonData))
	} else {
		timestamp := now.Format("2006-01-02 15:04:05")
		// Truncate data if it's too long for display
		displayData := data
		if len(displayData) > 100 {
			displayData = displayData[:100] + "..."
		}
		// Remove newlines for cleaner display
		displayData = strings.ReplaceAll(displayData, "\n", " ")
		_, _ = fmt.Fprintf(w, "[%s] %s: %s\n", timestamp, event, displayData)
	}
}

