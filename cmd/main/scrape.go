package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"frelections/internal/fileio"
	"frelections/internal/report"
	"frelections/internal/scrape"
)

func newScrapeCmd(a *app) *cobra.Command {
	var since, out string
	var round, workers int

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Fetch per-commune results from the ministry site",
		Long: `Fetches resultatsT<round>/index.xml, every department listing and every
commune document. Failed documents are skipped and reported. With --since,
only departments whose extraction moved forward since that index are fetched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if round > 0 {
				cfg.Round = round
			}
			if workers > 0 {
				cfg.Concurrency = workers
			}
			log := a.logger.With().Str("cmd", "scrape").Logger()
			client := scrape.NewClient(cfg.Endpoint, cfg.Round, cfg.FetchTimeout, a.logger)
			log.Info().Str("endpoint", cfg.Endpoint).Int("round", cfg.Round).Msg("fetching index")

			raw, err := client.Acquire(cmd.Context(), client.IndexPath())
			if err != nil {
				return err
			}
			var idx scrape.Index
			if err := fileio.DecodeXML(bytes.NewReader(raw), &idx); err != nil {
				return fmt.Errorf("decode index: %w", err)
			}

			deps := idx.Departments
			if since != "" {
				prev, err := readIndex(since)
				if err != nil {
					return err
				}
				diff := scrape.DiffIndices(prev, idx)
				deps = scrape.Filter(deps, diff)
				log.Info().Int("departments", len(deps)).Int("regions", len(diff.Regions)).Str("since", since).Msg("index diff")
				if diff.Empty() {
					log.Info().Msg("nothing updated")
					return nil
				}
			}

			s := &scrape.Scraper{Client: client, Workers: cfg.Concurrency, Log: a.logger}
			res, rep := s.Run(cmd.Context(), deps)

			if err := a.writeJSON(a.dataPath(out, "results.json"), res); err != nil {
				return err
			}
			if err := a.writeJSON(a.dataPath("", "scrape-report.json"), rep); err != nil {
				return err
			}
			indexPath := a.dataPath("", "index.xml")
			if err := os.WriteFile(indexPath, raw, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", indexPath, err)
			}
			report.Scrape(cmd.OutOrStdout(), rep)
			return nil
		},
	}
	cmd.Flags().StringVar(&since, "since", "", "previous index.xml; only updated departments are fetched")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default <data>/results.json)")
	cmd.Flags().IntVar(&round, "round", 0, "election round (default from config)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent fetches (default from config)")
	return cmd
}

func readIndex(path string) (scrape.Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return scrape.Index{}, err
	}
	defer f.Close()
	var idx scrape.Index
	if err := fileio.DecodeXML(f, &idx); err != nil {
		return scrape.Index{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return idx, nil
}
