package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"usagestats/internal/config"
)

// set via -ldflags "-X main.version=..."
var version = "dev"

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath string
	logLevel   string
	stderr     io.Writer
}

// buildRootCmd constructs the command tree with output on the process streams.
func buildRootCmd() *cobra.Command { return buildRootCmdWith(&options{stderr: os.Stderr}) }

func buildRootCmdWith(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "usagestatsd",
		Short:         "Deployment telemetry and diagram metrics service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (.yaml, .yml, .json, .toml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")

	root.AddCommand(
		newServeCmd(opts),
		newMetricsCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version)
			},
		},
	)
	// cobra adds "completion" on its own.
	return root
}

// loadConfig reads --config when given and fills in defaults.
func (o *options) loadConfig() (config.Config, error) {
	var cfg config.Config
	if o.configPath != "" {
		c, err := config.Load(o.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = c
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	return cfg.WithDefaults(), nil
}

func (o *options) logger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level: %w", err)
	}
	w := o.stderr
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
