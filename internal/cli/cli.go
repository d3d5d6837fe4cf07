package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rio-labs/rioterm/pkg/buildinfo"
	"github.com/rio-labs/rioterm/pkg/component"
	"github.com/rio-labs/rioterm/pkg/config"
	"github.com/rio-labs/rioterm/pkg/rendertree"
)

// appName is the application name used for directories and display.
const appName = "rioterm"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config override; empty means the default
	// location.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Rioterm runs server-driven UIs in the terminal",
		Long:         `Rioterm is the terminal client of a server-driven UI framework: a scene server ships declarative component trees over a persistent channel, and rioterm reconciles, lays out, and renders them incrementally. It also bundles the demo scene server and recording tools for offline debugging.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ~/.config/rioterm/config.toml)")

	// Register all subcommands
	root.AddCommand(c.runCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.scenesCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration honoring the --config flag.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// Component Catalog
// =============================================================================

// catalogTags returns the type tags of the built-in component set, the
// catalog scene files are validated against.
func catalogTags() ([]string, error) {
	lib := &component.Library{}
	reg := rendertree.NewRegistry()
	if err := lib.Register(reg); err != nil {
		return nil, fmt.Errorf("register components: %w", err)
	}
	return reg.Tags(), nil
}
