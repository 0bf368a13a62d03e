// Package dataset loads the website list and the reference metadata table.
// Both are versionless external contracts: only a domain key and a few named
// columns matter, extra columns are ignored.
package dataset

import (
	"context"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/profile-cli/internal/fetcher"
	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/internal/normalize"
)

// websiteColumns are the column names accepted for the website list, in
// preference order. Falls back to the first column.
var websiteColumns = []string{"domain", "website", "url"}

// LoadTargets reads the website list. One URL per record; blank records are
// skipped, order is preserved.
func LoadTargets(ctx context.Context, path string) ([]string, error) {
	header, rows, err := readFile(ctx, path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read website list %s", path)
	}

	col := pickColumn(header, websiteColumns)
	var targets []string
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		target := strings.TrimSpace(row[col])
		if target == "" {
			continue
		}
		targets = append(targets, target)
	}

	zap.L().Info("dataset: website list loaded",
		zap.String("path", path),
		zap.Int("targets", len(targets)),
	)
	return targets, nil
}

// referenceColumns maps ReferenceRow fields to accepted column names.
var referenceColumns = map[string][]string{
	"domain":     {"domain", "website", "url"},
	"commercial": {"company_commercial_name", "commercial_name"},
	"legal":      {"company_legal_name", "legal_name"},
	"all":        {"company_all_available_names", "all_available_names"},
}

// LoadReference reads the reference metadata table. Rows without a usable
// domain are dropped.
func LoadReference(ctx context.Context, path string) ([]model.ReferenceRow, error) {
	header, rows, err := readFile(ctx, path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read reference table %s", path)
	}

	domainCol := pickColumn(header, referenceColumns["domain"])
	commercialCol := findColumn(header, referenceColumns["commercial"])
	legalCol := findColumn(header, referenceColumns["legal"])
	allCol := findColumn(header, referenceColumns["all"])

	var refs []model.ReferenceRow
	for _, row := range rows {
		ref := model.ReferenceRow{
			Domain:         normalize.Domain(field(row, domainCol)),
			CommercialName: field(row, commercialCol),
			LegalName:      field(row, legalCol),
			AllNames:       field(row, allCol),
		}
		if ref.Domain == "" {
			continue
		}
		refs = append(refs, ref)
	}

	zap.L().Info("dataset: reference table loaded",
		zap.String("path", path),
		zap.Int("rows", len(refs)),
	)
	return refs, nil
}

func readFile(ctx context.Context, path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	return fetcher.ReadCSV(ctx, f, fetcher.CSVOptions{HasHeader: true, TrimSpace: true})
}

// pickColumn returns the index of the first matching column name, or 0.
func pickColumn(header []string, names []string) int {
	if i := findColumn(header, names); i >= 0 {
		return i
	}
	return 0
}

// findColumn returns the index of the first matching column name, or -1.
func findColumn(header []string, names []string) int {
	for _, name := range names {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
	}
	return -1
}

func field(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
