// Package cli defines the assistant command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/suPer8Hu/ai-assistant/internal/config"
)

var version = "dev" // set via ldflags at build time

type rootOptions struct {
	configFile string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "assistant",
		Short: "HTTP assistant over a local model runtime",
		Long: `assistant serves a chat API over a local Ollama runtime and keeps
sessions, messages and memories in SQLite or MySQL.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "TOML config file (overrides CONFIG_FILE)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "trace, debug, info, warn or error (overrides LOG_LEVEL)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newModelsCmd(opts))
	return cmd
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// load reads the config and builds the logger, honoring the persistent flags.
func (o *rootOptions) load(logOut io.Writer) (config.Config, *slog.Logger, error) {
	if o.configFile != "" {
		if err := os.Setenv("CONFIG_FILE", o.configFile); err != nil {
			return config.Config{}, nil, fmt.Errorf("set CONFIG_FILE: %w", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	logger, err := config.NewLogger(logOut, cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}
