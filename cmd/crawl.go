package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/profile-cli/internal/crawler"
	"github.com/sells-group/profile-cli/internal/dataset"
	"github.com/sells-group/profile-cli/internal/extract"
	"github.com/sells-group/profile-cli/internal/merge"
	"github.com/sells-group/profile-cli/internal/report"
	"github.com/sells-group/profile-cli/internal/store"
)

var (
	crawlTargets   string
	crawlReference string
	crawlOutput    string
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl target sites and build the profile snapshot",
	Long: `Reads a CSV of target domains, fetches each homepage, extracts contact
facts, joins them with the reference name dataset and saves the merged
profiles as a snapshot.

Examples:
  # Crawl and save to the configured store
  profile-cli crawl --targets domains.csv --reference names.csv

  # Override the snapshot path
  profile-cli crawl --targets domains.csv --reference names.csv --output profiles.json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		targets, err := dataset.LoadTargets(ctx, crawlTargets)
		if err != nil {
			return eris.Wrap(err, "crawl: load targets")
		}
		if len(targets) == 0 {
			return eris.New("crawl: no targets in input")
		}

		reference, err := dataset.LoadReference(ctx, crawlReference)
		if err != nil {
			return eris.Wrap(err, "crawl: load reference")
		}

		c := crawler.New(crawler.Config{
			Workers:      cfg.Crawl.Workers,
			Timeout:      time.Duration(cfg.Crawl.TimeoutSecs) * time.Second,
			MaxBodyBytes: cfg.Crawl.MaxBodyBytes,
			UserAgents:   cfg.Crawl.UserAgents,
			HostRate:     rate.Limit(cfg.Crawl.RatePerHost),
		}, extract.New(cfg.Match.Region))

		start := time.Now()
		raws := c.Run(ctx, targets, func(done, total int) {
			if done%50 == 0 || done == total {
				zap.L().Info("crawl progress", zap.Int("done", done), zap.Int("total", total))
			}
		})

		profiles := merge.Profiles(raws, reference)
		summary := report.Compute(raws, profiles)

		zap.L().Info("crawl complete",
			zap.Int("targets", len(targets)),
			zap.Int("profiles", len(profiles)),
			zap.Duration("elapsed", time.Since(start)),
		)
		fmt.Fprintln(os.Stderr, summary.String())

		path := crawlOutput
		if path == "" {
			path = cfg.Store.Path
		}
		st, err := store.Open(cfg.Store.Driver, path)
		if err != nil {
			return eris.Wrap(err, "crawl: open store")
		}
		defer st.Close()

		snap := store.NewSnapshot(uuid.NewString(), profiles)
		if err := st.Save(ctx, snap); err != nil {
			return eris.Wrap(err, "crawl: save snapshot")
		}
		zap.L().Info("snapshot saved",
			zap.String("run_id", snap.RunID),
			zap.String("path", path),
			zap.String("driver", cfg.Store.Driver),
		)

		return nil
	},
}

func init() {
	crawlCmd.Flags().StringVar(&crawlTargets, "targets", "", "CSV of target domains (required)")
	crawlCmd.Flags().StringVar(&crawlReference, "reference", "", "CSV of reference company names (required)")
	crawlCmd.Flags().StringVar(&crawlOutput, "output", "", "snapshot path (default from config)")
	_ = crawlCmd.MarkFlagRequired("targets")
	_ = crawlCmd.MarkFlagRequired("reference")
	rootCmd.AddCommand(crawlCmd)
}
