package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rio-labs/rioterm/pkg/host"
	"github.com/rio-labs/rioterm/pkg/recorder"
)

// replayCommand creates the replay command for playing recordings back into
// the terminal host.
func (c *CLI) replayCommand() *cobra.Command {
	var speed float64

	cmd := &cobra.Command{
		Use:   "replay <recording>",
		Short: "Play a recorded session back in the terminal",
		Long: `Play a recorded session back in the terminal.

Batches are applied with their original pacing (scaled by --speed); after
the last frame the final UI stays on screen until you quit with Ctrl+C.
There is no server behind a replay, so controls render but events go
nowhere.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReplay(cmd.Context(), args[0], speed)
		},
	}

	cmd.Flags().Float64Var(&speed, "speed", 1.0, "playback speed multiplier (0 applies all frames immediately)")

	return cmd
}

func (c *CLI) runReplay(ctx context.Context, path string, speed float64) error {
	if speed < 0 {
		return fmt.Errorf("speed must be >= 0, got %g", speed)
	}

	r, err := recorder.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	meta, err := r.Meta()
	if err != nil {
		return err
	}
	c.Logger.Info("replaying recording", "scene", meta.Scene, "recorded", meta.Created.Format(time.RFC3339))

	h, err := host.New(host.Options{Logger: c.Logger})
	if err != nil {
		return err
	}
	program := host.NewProgram(h)

	go func() {
		start := time.Now()
		err := r.Frames(func(f recorder.Frame) error {
			if speed > 0 {
				due := time.Duration(float64(f.Offset) / speed)
				if wait := due - time.Since(start); wait > 0 {
					select {
					case <-time.After(wait):
					case <-ctx.Done():
						return ctx.Err()
					}
				}
			}
			program.Send(host.BatchMsg{Batch: f.Batch})
			return nil
		})
		if err != nil && ctx.Err() == nil {
			c.Logger.Error("replay failed", "err", err)
			program.Send(host.DisconnectMsg{Err: err})
		}
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
