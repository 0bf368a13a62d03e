// Package report computes aggregate fill-rate and coverage statistics over a
// crawl batch and its merged profile store. Diagnostic only; nothing consumes
// it downstream.
package report

import (
	"fmt"

	"github.com/sells-group/profile-cli/internal/model"
)

// Summary holds the aggregate statistics for one pipeline run.
type Summary struct {
	Targets     int     `json:"targets"`
	Profiles    int     `json:"profiles"`
	Coverage    float64 `json:"coverage"`
	PhoneFill   float64 `json:"phone_fill"`
	SocialFill  float64 `json:"social_fill"`
	AddressFill float64 `json:"address_fill"`
}

// Compute aggregates the batch. Coverage is over crawl targets; fill rates
// are over merged profiles.
func Compute(raws []model.RawFacts, store map[string]model.CompanyProfile) Summary {
	s := Summary{
		Targets:  len(raws),
		Profiles: len(store),
	}

	if s.Targets > 0 {
		ok := 0
		for _, raw := range raws {
			if raw.Status == model.FetchOK {
				ok++
			}
		}
		s.Coverage = float64(ok) / float64(s.Targets)
	}

	if s.Profiles > 0 {
		var phones, socials, addresses int
		for _, p := range store {
			if len(p.Phones) > 0 {
				phones++
			}
			if len(p.Socials) > 0 {
				socials++
			}
			if p.Address != "" {
				addresses++
			}
		}
		n := float64(s.Profiles)
		s.PhoneFill = float64(phones) / n
		s.SocialFill = float64(socials) / n
		s.AddressFill = float64(addresses) / n
	}

	return s
}

// String renders the one-line analysis summary.
func (s Summary) String() string {
	return fmt.Sprintf("coverage %.2f%% | phones %.2f%% | socials %.2f%% | addresses %.2f%%",
		s.Coverage*100, s.PhoneFill*100, s.SocialFill*100, s.AddressFill*100)
}
