package evaluate

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/profile-cli/internal/match"
	"github.com/sells-group/profile-cli/internal/model"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queries.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadQueries(t *testing.T) {
	path := writeTempCSV(t,
		"input name,input phone,input website,input_facebook\n"+
			"Acorn Law,555-123-4567,https://www.acornlawpc.com/contact,https://facebook.com/acornlaw\n"+
			"Globex,,globex.com,\n"+
			",,,\n")

	queries, err := LoadQueries(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, queries, 2)

	assert.Equal(t, "Acorn Law", queries[0].Name)
	assert.Equal(t, "555-123-4567", queries[0].Phone)
	assert.Equal(t, "acornlawpc.com", queries[0].Domain)
	assert.Equal(t, "https://facebook.com/acornlaw", queries[0].Facebook)

	assert.Equal(t, "Globex", queries[1].Name)
	assert.Equal(t, "globex.com", queries[1].Domain)
}

func TestLoadQueries_MalformedWebsite(t *testing.T) {
	path := writeTempCSV(t,
		"input name,input website\n"+
			"Initech,https//initech.io/about\n")

	queries, err := LoadQueries(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, queries, 1)
	assert.Equal(t, "initech.io", queries[0].Domain)
}

func TestLoadQueries_MissingFile(t *testing.T) {
	_, err := LoadQueries(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func storeFixture() map[string]model.CompanyProfile {
	return map[string]model.CompanyProfile{
		"acornlawpc.com": {
			Domain:         "acornlawpc.com",
			CommercialName: "Acorn Law",
			Phones:         []string{"+15551234567"},
			Status:         model.FetchOK,
		},
		"globex.com": {
			Domain:         "globex.com",
			CommercialName: "Globex Corporation",
			Status:         model.FetchOK,
		},
	}
}

func TestRunAndSummarize(t *testing.T) {
	engine := match.NewEngine(match.DefaultWeights(), "US")
	queries := []model.MatchQuery{
		{Name: "Acorn Law", Domain: "acornlawpc.com"},
		{Name: "Globex"},
	}

	results := Run(engine, storeFixture(), queries)
	require.Len(t, results, 2)
	assert.Equal(t, "Acorn Law", results[0].MatchedName)
	assert.Greater(t, results[0].MatchScore, 0.0)
	assert.Equal(t, "Globex Corporation", results[1].MatchedName)

	summary := Summarize(results)
	assert.Equal(t, 2, summary.Queries)
	assert.Greater(t, summary.AvgScore, 0.0)
	// Both matched names share the first five letters with their inputs.
	assert.InDelta(t, 1.0, summary.NameAccuracy, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0, summary.Queries)
	assert.Zero(t, summary.AvgScore)
	assert.Zero(t, summary.NameAccuracy)
}

func TestNamePrefixMatch(t *testing.T) {
	assert.True(t, namePrefixMatch("Acorn Law", "ACORN LAW P.C."))
	assert.True(t, namePrefixMatch("Glob", "glob"))
	assert.False(t, namePrefixMatch("Acorn Law", "Globex"))
	assert.False(t, namePrefixMatch("", "Globex"))
	assert.False(t, namePrefixMatch("Acorn", ""))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []Result{
		{InputName: "Acorn Law", MatchedName: "Acorn Law", MatchScore: 5.5},
		{InputName: "Globex", MatchedName: "", MatchScore: 0},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "input_name,matched_name,match_score", lines[0])
	assert.Equal(t, "Acorn Law,Acorn Law,5.500", lines[1])
	assert.Equal(t, "Globex,,0.000", lines[2])
}
