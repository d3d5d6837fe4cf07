package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rio-labs/rioterm/pkg/buildinfo"
	"github.com/rio-labs/rioterm/pkg/host"
	"github.com/rio-labs/rioterm/pkg/protocol"
	"github.com/rio-labs/rioterm/pkg/recorder"
	"github.com/rio-labs/rioterm/pkg/transport"
)

// runCommand creates the run command for hosting a server-driven UI.
func (c *CLI) runCommand() *cobra.Command {
	var (
		server    string
		sceneName string
		record    string
		threshold int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Connect to a scene server and host its UI in the terminal",
		Long: `Connect to a scene server and host its UI in the terminal.

The client opens a session, reports the terminal size, and renders every
update batch the server pushes. Tab cycles focus between controls; Ctrl+C
quits.

With --record, every incoming batch is teed into a recording file that the
'replay' and 'snapshot' commands can consume later.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRun(cmd.Context(), server, sceneName, record, threshold)
		},
	}

	cmd.Flags().StringVarP(&server, "server", "s", "", "scene server address (default from config)")
	cmd.Flags().StringVar(&sceneName, "scene", "", "scene to request (default: server's default scene)")
	cmd.Flags().StringVar(&record, "record", "", "tee incoming batches into a recording file")
	cmd.Flags().IntVar(&threshold, "anomaly-threshold", 0, "re-layout pass count that logs an anomaly (default from config)")

	return cmd
}

// runRun wires transport, host, and optional recorder, then hands the
// terminal to the UI until the session ends.
func (c *CLI) runRun(ctx context.Context, server, sceneName, record string, threshold int) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if server == "" {
		server = cfg.Client.Server
	}
	if sceneName == "" {
		sceneName = cfg.Client.Scene
	}
	if threshold == 0 {
		threshold = cfg.Layout.AnomalyThreshold
	}

	var rec *recorder.Writer
	if record != "" {
		rec, err = recorder.Create(record, sceneName)
		if err != nil {
			return err
		}
		defer rec.Close()
	}

	// The batch callback runs on the connection's read goroutine before the
	// program exists; the server only pushes batches after Hello, which is
	// sent once the program is up.
	var program *tea.Program
	client, err := transport.Dial(ctx, server, func(b protocol.UpdateBatch) {
		if rec != nil {
			if err := rec.Append(b); err != nil {
				c.Logger.Warn("record batch failed", "err", err)
			}
		}
		program.Send(host.BatchMsg{Batch: b})
	}, transport.WithClientLogger(c.Logger))
	if err != nil {
		return err
	}
	defer client.Close()

	h, err := host.New(host.Options{
		Upstream:         client,
		AnomalyThreshold: threshold,
		Logger:           c.Logger,
	})
	if err != nil {
		return err
	}
	program = host.NewProgram(h)

	go func() {
		<-client.DisconnectNotify()
		program.Send(host.DisconnectMsg{})
	}()
	go func() {
		res, err := client.Hello(ctx, protocol.HelloRequest{
			Scene:  sceneName,
			Client: appName + "/" + buildinfo.Version,
		})
		if err != nil {
			program.Send(host.DisconnectMsg{Err: err})
			return
		}
		c.Logger.Debug("session opened", "session", res.SessionID, "scene", res.Scene)
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	if rec != nil {
		printSuccess("Recording written")
		printFile(record)
		printNextStep("Replay it", appName+" replay "+record)
	}
	return nil
}
