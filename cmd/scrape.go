package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/polidle/parl-scraper/internal/fetch"
	"github.com/polidle/parl-scraper/internal/photos"
	"github.com/polidle/parl-scraper/internal/pipeline"
)

// newScrapeCmd creates the 'scrape' subcommand, which runs the full ETL:
// fetch, normalize, download portraits, persist, report.
func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Fetches both chambers and writes the datasets",
		Long: `Fetches deputies from the Assemblée nationale open-data archive (with
the member API as fallback) and senators from senat.fr joined with the
data.senat.fr registry, downloads official portraits, and writes one JSON
dataset per chamber. Fails only when every source comes back empty.`,

		RunE: runScrapeCommand,
	}
}

func runScrapeCommand(cmd *cobra.Command, _ []string) error {
	fetcher := fetch.NewClient(cfg.HTTP.UserAgent)
	downloader := photos.NewDownloader(photos.Config{
		Timeout:   cfg.PhotoTimeout(),
		Retries:   cfg.Photos.Retries,
		RetryWait: cfg.RetryWait(),
		MinBytes:  cfg.Photos.MinBytes,
	}, logger)

	p := pipeline.New(cfg, fetcher, downloader, logger)
	if err := p.Run(cmd.Context()); err != nil {
		return fmt.Errorf("run scrape: %w", err)
	}
	return nil
}
