package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/profile-cli/internal/model"
)

func TestRatio(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("abc", "abc"))
	assert.Equal(t, 0.0, Ratio("", "abc"))
	assert.Equal(t, 0.0, Ratio("abc", ""))

	partial := Ratio("abc", "abd")
	assert.Greater(t, partial, 0.0)
	assert.Less(t, partial, 1.0)
}

func TestRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"acorn law", "acorn legal"},
		{"abcdef", "cdefab"},
		{"globex", "initech"},
	}
	for _, pair := range pairs {
		assert.Equal(t, Ratio(pair[0], pair[1]), Ratio(pair[1], pair[0]), "%q vs %q", pair[0], pair[1])
	}
}

func sampleStore() map[string]model.CompanyProfile {
	return map[string]model.CompanyProfile{
		"acornlawpc.com": {
			Domain:         "acornlawpc.com",
			CommercialName: "Acorn Law P.C.",
			Phones:         []string{"+15551234567"},
			Socials: map[model.Platform][]string{
				model.PlatformFacebook: {"https://facebook.com/acornlaw"},
			},
		},
		"globex.com": {
			Domain:         "globex.com",
			CommercialName: "Globex Corporation",
			Phones:         []string{"+14085550000"},
		},
		"initech.io": {
			Domain:         "initech.io",
			CommercialName: "Initech",
			LegalName:      "Initech LLC",
		},
	}
}

func defaultEngine() *Engine {
	return NewEngine(DefaultWeights(), "US")
}

func TestSearch_NameAndDomain(t *testing.T) {
	result := defaultEngine().Search(model.MatchQuery{
		Name:   "Acorn Law P.C.",
		Domain: "acornlawpc.com",
	}, sampleStore())

	require.NotNil(t, result)
	assert.Equal(t, "acornlawpc.com", result.Profile.Domain)

	// Completely different name and domain must score strictly lower.
	other := defaultEngine().Search(model.MatchQuery{
		Name:   "Acorn Law P.C.",
		Domain: "acornlawpc.com",
	}, map[string]model.CompanyProfile{
		"initech.io": sampleStore()["initech.io"],
	})
	require.NotNil(t, other)
	assert.Greater(t, result.Score, other.Score)
}

func TestSearch_PhoneExactAfterNormalization(t *testing.T) {
	w := DefaultWeights()
	result := NewEngine(w, "US").Search(model.MatchQuery{Phone: "555-123-4567"}, sampleStore())

	require.NotNil(t, result)
	assert.Equal(t, "acornlawpc.com", result.Profile.Domain)
	// Exact E.164 match contributes the full phone weight.
	assert.InDelta(t, w.Phone, result.Score, 1e-9)
}

func TestSearch_FacebookLink(t *testing.T) {
	result := defaultEngine().Search(model.MatchQuery{
		Facebook: "https://www.facebook.com/acornlaw/",
	}, sampleStore())

	require.NotNil(t, result)
	assert.Equal(t, "acornlawpc.com", result.Profile.Domain)
	assert.InDelta(t, DefaultWeights().Facebook, result.Score, 1e-9)
}

func TestSearch_EmptyStore(t *testing.T) {
	assert.Nil(t, defaultEngine().Search(model.MatchQuery{Name: "anyone"}, nil))
	assert.Nil(t, defaultEngine().Search(model.MatchQuery{}, map[string]model.CompanyProfile{}))
}

func TestSearch_EmptyQueryTieBreak(t *testing.T) {
	result := defaultEngine().Search(model.MatchQuery{}, sampleStore())

	require.NotNil(t, result)
	assert.Zero(t, result.Score)
	// All profiles tie at zero; smallest domain wins.
	assert.Equal(t, "acornlawpc.com", result.Profile.Domain)
}

func TestSearch_Deterministic(t *testing.T) {
	q := model.MatchQuery{Name: "globex"}
	first := defaultEngine().Search(q, sampleStore())
	require.NotNil(t, first)
	for range 10 {
		again := defaultEngine().Search(q, sampleStore())
		require.NotNil(t, again)
		assert.Equal(t, first.Profile.Domain, again.Profile.Domain)
		assert.Equal(t, first.Score, again.Score)
	}
}

func TestSearch_EveryNameFieldContributes(t *testing.T) {
	w := DefaultWeights()
	store := map[string]model.CompanyProfile{
		"zzzz.xyz": {
			Domain:         "zzzz.xyz",
			CommercialName: "Acorn Law Office",
			LegalName:      "Acorn Law Office",
			AllNames:       "Acorn Law Office",
		},
		"acornlaw.com": {
			Domain:         "acornlaw.com",
			CommercialName: "Completely Unrelated Inc",
		},
	}

	result := defaultEngine().Search(model.MatchQuery{
		Name:   "Acorn Law Office",
		Domain: "acornlaw.com",
	}, store)

	// Three perfect name fields (3 x name weight) must outrank a perfect
	// domain plus a weak name (domain weight + change).
	require.NotNil(t, result)
	assert.Equal(t, "zzzz.xyz", result.Profile.Domain)
	assert.Greater(t, result.Score, 3*w.Name-1e-9)
}

func TestSearch_LegalNameConsidered(t *testing.T) {
	result := defaultEngine().Search(model.MatchQuery{Name: "Initech LLC"}, sampleStore())

	require.NotNil(t, result)
	assert.Equal(t, "initech.io", result.Profile.Domain)
}
