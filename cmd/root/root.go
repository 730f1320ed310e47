// Package root contains the root command for the application
package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"pankki-csv/internal/config"
	"pankki-csv/internal/logging"
)

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// Cfg is the loaded application configuration, available to all
	// subcommands after PersistentPreRunE has run.
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "pankki-csv",
		Short: "Categorize and analyze bank transaction exports.",
		Long: `pankki-csv reads a semicolon-delimited bank transaction export,
assigns each transaction to an income or expense category, remembers every
description-to-category choice for later runs, and reports totals per
category.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to pankki-csv!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			Cfg = cfg

			Log = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
			logging.SetDefault(Log)
			return nil
		},
	}
)
