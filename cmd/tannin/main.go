package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// configPath is shared by all subcommands via the root --config flag.
var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "tannin",
		Short: "Template interpolation with context-aware output escaping",
		Long: `Tannin renders templates with escaping selected for the target
output context (HTML, JSON, or none), decodes JSON-style string
literals, and manages a SQLite-backed template store.

Values marked safe by their producer are never re-escaped.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./tannin.json", "Path to the configuration file")

	rootCmd.AddCommand(
		escapeCmd(),
		unescapeCmd(),
		renderCmd(),
		templateCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger from its log level.
func setup() (*Config, *slog.Logger, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	var logLevel slog.Level
	switch strings.ToLower(config.LogLevel) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	return config, logger, nil
}
