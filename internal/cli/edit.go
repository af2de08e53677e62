package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"devdrawer/internal/autosave"
	"github.com/spf13/cobra"
)

const maxSnapshotLine = 16 << 20

func NewEditCommand(opts *RootOptions) *cobra.Command {
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Stream content snapshots to a planner with autosave",
		Long: `Reads one JSON document per line from stdin. Each line replaces the
planner's content locally; changes are saved after the debounce delay and once
more when stdin is closed. Unchanged content is never re-sent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			c, err := login(ctx, opts)
			if err != nil {
				return err
			}
			planner, err := c.GetPlanner(ctx, id)
			if err != nil {
				return err
			}

			var mu sync.Mutex
			current := json.RawMessage("null")
			if !planner.Content.IsNull() {
				current = json.RawMessage(planner.Content)
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			saves := 0
			syncer, err := autosave.New(
				func() (any, error) {
					mu.Lock()
					defer mu.Unlock()
					return current, nil
				},
				autosave.SaverFunc(func(ctx context.Context, snapshot []byte) error {
					if err := c.UpdateContent(ctx, id, snapshot); err != nil {
						return err
					}
					mu.Lock()
					saves++
					mu.Unlock()
					return nil
				}),
				autosave.Options{Delay: delay, Logger: logger, Baseline: current},
			)
			if err != nil {
				return err
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			scanner.Buffer(make([]byte, 0, 64<<10), maxSnapshotLine)
			line := 0
			for scanner.Scan() {
				line++
				raw := bytes.TrimSpace(scanner.Bytes())
				if len(raw) == 0 {
					continue
				}
				if !json.Valid(raw) {
					fmt.Fprintf(cmd.ErrOrStderr(), "line %d: not valid JSON, skipped\n", line)
					continue
				}
				mu.Lock()
				current = append(json.RawMessage(nil), raw...)
				mu.Unlock()
				syncer.Changed()
			}
			scanErr := scanner.Err()

			if err := syncer.Close(ctx); err != nil {
				return err
			}
			if scanErr != nil {
				return fmt.Errorf("read stdin: %w", scanErr)
			}

			mu.Lock()
			n := saves
			mu.Unlock()
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d save(s)\n", id, n)
			return err
		},
	}

	cmd.Flags().DurationVar(&delay, "delay", autosave.DefaultDelay, "debounce delay between the last change and a save")
	return cmd
}
