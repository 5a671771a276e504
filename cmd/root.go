// Package cmd defines and implements the CLI commands for the parl-scraper
// executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/polidle/parl-scraper/internal/config"
	"github.com/polidle/parl-scraper/internal/logging"
)

var (
	cfgFile string

	// Populated by the root PersistentPreRunE for subcommands.
	cfg    config.Config
	logger *zap.Logger
)

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parl-scraper",
		Short: "Scrapes French parliament member data and official portraits.",
		Long: `parl-scraper pulls public records for both chambers of the French
parliament (Assemblée nationale open data, senat.fr and data.senat.fr),
normalizes them into a single dataset shape, downloads each member's
official portrait and writes the results to local JSON files.`,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err = logging.New(cfg.Logging.Development)
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			return nil
		},

		PersistentPostRun: func(*cobra.Command, []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional; defaults plus SCRAPER_* env vars otherwise)")

	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newStatsCmd())

	return cmd
}

// Execute is the main entry point. Any error, including the zero-record
// hard stop, exits non-zero.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		if logger != nil {
			logger.Error("command failed", zap.Error(err))
			_ = logger.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
