package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/profile-cli/internal/evaluate"
	"github.com/sells-group/profile-cli/internal/match"
	"github.com/sells-group/profile-cli/internal/store"
)

var (
	batchQueries string
	batchOutput  string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Evaluate a CSV of lookup queries against the snapshot",
	Long: `Runs every query row from a CSV against the loaded snapshot and writes
per-query results plus an aggregate summary.

Example:
  profile-cli batch --queries sample.csv --output batch_results.csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := store.Open(cfg.Store.Driver, cfg.Store.Path)
		if err != nil {
			return eris.Wrap(err, "batch: open store")
		}
		defer st.Close()

		snap, err := st.Load(ctx)
		if err != nil {
			return eris.Wrap(err, "batch: load snapshot")
		}

		queries, err := evaluate.LoadQueries(ctx, batchQueries)
		if err != nil {
			return eris.Wrap(err, "batch: load queries")
		}
		if len(queries) == 0 {
			return eris.New("batch: no usable queries in input")
		}

		engine := match.NewEngine(cfg.Match.Weights, cfg.Match.Region)
		results := evaluate.Run(engine, snap.Profiles, queries)
		summary := evaluate.Summarize(results)

		zap.L().Info("batch complete",
			zap.Int("queries", summary.Queries),
			zap.Float64("avg_score", summary.AvgScore),
			zap.Float64("name_accuracy", summary.NameAccuracy),
		)
		fmt.Fprintf(os.Stderr, "queries=%d avg_score=%.3f name_accuracy=%.2f%%\n",
			summary.Queries, summary.AvgScore, summary.NameAccuracy*100)

		out := os.Stdout
		if batchOutput != "" {
			f, err := os.Create(batchOutput)
			if err != nil {
				return eris.Wrap(err, "batch: create output file")
			}
			defer f.Close() //nolint:errcheck
			out = f
		}
		if err := evaluate.WriteCSV(out, results); err != nil {
			return err
		}
		if batchOutput != "" {
			zap.L().Info("results written", zap.String("path", batchOutput))
		}

		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchQueries, "queries", "", "CSV of lookup queries (required)")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "write results CSV to file (default: stdout)")
	_ = batchCmd.MarkFlagRequired("queries")
	rootCmd.AddCommand(batchCmd)
}
