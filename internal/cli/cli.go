// Package cli implements the fx command-line interface.
package cli

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/gogpu/gg"
	"github.com/spf13/cobra"

	"github.com/Garsondee/portfolio-fx/internal/config"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a CLI whose logger writes to w. Command output goes to the
// command's own writer.
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
		Use:          "fx",
		Short:        "fx runs the portfolio landing page effects",
		Long:         `fx hosts the particle field, the distorted heading and the scramble reveal in a window, renders them to PNG frames, previews the reveal in the terminal and checks them headlessly.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			gg.SetLogger(slog.New(c.Logger))
			return nil
		},
	}

	root.AddCommand(c.runCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.scrambleCommand())
	root.AddCommand(c.reportCommand())

	return root
}

// loadConfig reads path, or the defaults when path is empty.
func loadConfig(logger *log.Logger, path string) (config.Config, error) {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return cfg, err
	}
	if path == "" {
		logger.Debug("using default config")
	} else {
		logger.Debug("loaded config", "path", path)
	}
	return cfg, nil
}

func addConfigFlag(cmd *cobra.Command, path *string) {
	cmd.Flags().StringVarP(path, "config", "c", "", "TOML config file (defaults when empty)")
}
