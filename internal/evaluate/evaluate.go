// Package evaluate runs a CSV of lookup queries against the match engine and
// reports aggregate accuracy.
package evaluate

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/profile-cli/internal/fetcher"
	"github.com/sells-group/profile-cli/internal/match"
	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/internal/normalize"
)

// Result is the outcome of one evaluated query.
type Result struct {
	InputName   string
	MatchedName string
	MatchScore  float64
}

// Summary aggregates a batch run.
type Summary struct {
	Queries  int
	AvgScore float64
	// NameAccuracy is the share of rows whose matched name agrees with the
	// input name on the first five letters, case insensitive.
	NameAccuracy float64
}

// LoadQueries reads lookup queries from a CSV file. Recognized columns are
// "input name", "input phone", "input website" and "input_facebook"; website
// values are reduced to a bare domain. Rows with no usable field are skipped.
func LoadQueries(ctx context.Context, path string) ([]model.MatchQuery, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "evaluate: open %s", path)
	}
	defer f.Close()

	header, rows, err := fetcher.ReadCSV(ctx, f, fetcher.CSVOptions{HasHeader: true, TrimSpace: true})
	if err != nil {
		return nil, eris.Wrap(err, "evaluate: read queries")
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var queries []model.MatchQuery
	for _, row := range rows {
		q := model.MatchQuery{
			Name:     field(row, cols, "input name"),
			Phone:    field(row, cols, "input phone"),
			Facebook: field(row, cols, "input_facebook"),
		}
		if website := field(row, cols, "input website"); website != "" {
			q.Domain = normalize.Domain(website)
		}
		if q.IsEmpty() {
			continue
		}
		queries = append(queries, q)
	}
	zap.L().Info("loaded evaluation queries",
		zap.String("path", path),
		zap.Int("queries", len(queries)),
	)
	return queries, nil
}

func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Run evaluates every query against the profile store.
func Run(engine *match.Engine, profiles map[string]model.CompanyProfile, queries []model.MatchQuery) []Result {
	results := make([]Result, 0, len(queries))
	for _, q := range queries {
		res := Result{InputName: q.Name}
		if m := engine.Search(q, profiles); m != nil {
			res.MatchedName = m.Profile.BestName()
			res.MatchScore = m.Score
		}
		results = append(results, res)
	}
	return results
}

// Summarize computes the average score and the five-letter name accuracy.
func Summarize(results []Result) Summary {
	s := Summary{Queries: len(results)}
	if len(results) == 0 {
		return s
	}
	var total float64
	var hits int
	for _, r := range results {
		total += r.MatchScore
		if namePrefixMatch(r.InputName, r.MatchedName) {
			hits++
		}
	}
	s.AvgScore = total / float64(len(results))
	s.NameAccuracy = float64(hits) / float64(len(results))
	return s
}

func namePrefixMatch(input, matched string) bool {
	if input == "" || matched == "" {
		return false
	}
	a := strings.ToLower(input)
	b := strings.ToLower(matched)
	if len(a) > 5 {
		a = a[:5]
	}
	if len(b) > 5 {
		b = b[:5]
	}
	return a == b
}

// WriteCSV writes per-query results in batch_results form.
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"input_name", "matched_name", "match_score"}); err != nil {
		return eris.Wrap(err, "evaluate: write header")
	}
	for _, r := range results {
		record := []string{
			r.InputName,
			r.MatchedName,
			strconv.FormatFloat(r.MatchScore, 'f', 3, 64),
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrap(err, "evaluate: write row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "evaluate: flush")
}
