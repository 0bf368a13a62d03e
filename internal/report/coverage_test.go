package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/profile-cli/internal/model"
)

func TestCompute(t *testing.T) {
	raws := []model.RawFacts{
		{Domain: "a.com", Status: model.FetchOK},
		{Domain: "b.com", Status: model.FetchTimeout},
		{Domain: "c.com", Status: model.FetchOK},
	}
	store := map[string]model.CompanyProfile{
		"a.com": {
			Domain:  "a.com",
			Phones:  []string{"+14085551234"},
			Socials: map[model.Platform][]string{model.PlatformFacebook: {"https://facebook.com/a"}},
			Address: "123 Main St",
		},
		"b.com": {Domain: "b.com"},
		"c.com": {Domain: "c.com"},
	}

	s := Compute(raws, store)

	assert.Equal(t, 3, s.Targets)
	assert.Equal(t, 3, s.Profiles)
	assert.InDelta(t, 2.0/3.0, s.Coverage, 0.01)
	assert.InDelta(t, 1.0/3.0, s.PhoneFill, 0.01)
	assert.InDelta(t, 1.0/3.0, s.SocialFill, 0.01)
	assert.InDelta(t, 1.0/3.0, s.AddressFill, 0.01)
}

func TestCompute_Empty(t *testing.T) {
	s := Compute(nil, nil)
	assert.Zero(t, s.Coverage)
	assert.Zero(t, s.PhoneFill)
	assert.NotEmpty(t, s.String())
}
