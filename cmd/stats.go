package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/polidle/parl-scraper/internal/dataset"
)

// newStatsCmd creates the 'stats' subcommand, which reports the group
// distribution of an already-written dataset file.
func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [deputes|senateurs]",
		Short: "Prints the group distribution of a scraped dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  runStatsCommand,
	}
}

func runStatsCommand(_ *cobra.Command, args []string) error {
	chamber := args[0]
	if chamber != "deputes" && chamber != "senateurs" {
		return fmt.Errorf("unknown chamber %q (want deputes or senateurs)", chamber)
	}

	path := filepath.Join(cfg.Output.DataDir, chamber+".json")
	records, err := dataset.Read(path)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	dataset.LogDistribution(logger, chamber, records)
	return nil
}
