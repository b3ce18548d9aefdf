// Command scoreboard runs the kiosk scoreboard service.
//
//	scoreboard serve    -c config.yaml   poll, rotate, and serve the display
//	scoreboard validate -c config.yaml   load and validate the config file
//	scoreboard fetch    -c config.yaml core   poll one page once and print it
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// logLevel is shared by every handler the process installs so a config
// reload can change verbosity without rebuilding the logger.
var logLevel = new(slog.LevelVar)

type rootOptions struct {
	configPath string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "scoreboard",
		Short:         "Kiosk scoreboard fed by a spreadsheet",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.yaml", "path to config file")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newValidateCommand(opts))
	cmd.AddCommand(newFetchCommand(opts))
	return cmd
}

func installLogger(w io.Writer) {
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel})))
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		slog.Error("scoreboard: command failed", "err", err)
		os.Exit(1)
	}
}
