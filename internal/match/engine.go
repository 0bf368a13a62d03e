// Package match scores partial lookup queries against the profile store and
// selects the best-scoring profile.
package match

import (
	"sort"

	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/internal/normalize"
)

// Weights holds the fixed per-field scoring weights. Only the relative order
// matters; name ranks highest, social links lowest.
type Weights struct {
	Name     float64 `json:"name" yaml:"name" mapstructure:"name"`
	Domain   float64 `json:"domain" yaml:"domain" mapstructure:"domain"`
	Phone    float64 `json:"phone" yaml:"phone" mapstructure:"phone"`
	Facebook float64 `json:"facebook" yaml:"facebook" mapstructure:"facebook"`
}

// DefaultWeights returns the standard weight set.
func DefaultWeights() Weights {
	return Weights{Name: 2, Domain: 2, Phone: 1, Facebook: 1}
}

// Engine answers fuzzy lookup queries over an immutable profile store. Safe
// for concurrent use; it holds no mutable state.
type Engine struct {
	weights Weights
	region  string
}

// NewEngine creates an Engine with the given weights and default phone region.
func NewEngine(weights Weights, region string) *Engine {
	if region == "" {
		region = normalize.DefaultRegion
	}
	return &Engine{weights: weights, region: region}
}

// Search scores every profile and returns the best match, or nil when the
// store is empty. Missing query fields contribute nothing. Ties go to the
// lexicographically smallest domain, so repeated calls with the same inputs
// always return the same result.
func (e *Engine) Search(q model.MatchQuery, store map[string]model.CompanyProfile) *model.MatchResult {
	if len(store) == 0 {
		return nil
	}

	domains := make([]string, 0, len(store))
	for d := range store {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	folded := e.foldQuery(q)

	var best *model.MatchResult
	for _, d := range domains {
		profile := store[d]
		score := e.score(folded, profile)
		if best == nil || score > best.Score {
			best = &model.MatchResult{Profile: profile, Score: score}
		}
	}
	return best
}

// foldedQuery carries the query fields pre-normalized for comparison.
type foldedQuery struct {
	name     string
	domain   string
	phone    string // E.164 when the raw value parses, folded raw otherwise
	exact    bool   // phone is E.164
	facebook string
}

func (e *Engine) foldQuery(q model.MatchQuery) foldedQuery {
	f := foldedQuery{
		name:   normalize.Fold(q.Name),
		domain: normalize.Domain(q.Domain),
	}

	if q.Phone != "" {
		if p := normalize.Phone(q.Phone, e.region); p != "" {
			f.phone, f.exact = p, true
		} else {
			f.phone = normalize.Fold(q.Phone)
		}
	}

	if q.Facebook != "" {
		if s := normalize.Social(q.Facebook, model.PlatformFacebook); s != "" {
			f.facebook = normalize.Fold(s)
		} else {
			f.facebook = normalize.Fold(q.Facebook)
		}
	}
	return f
}

func (e *Engine) score(q foldedQuery, p model.CompanyProfile) float64 {
	var score float64

	if q.name != "" {
		// Every populated name field contributes, so a profile agreeing on
		// several name variants outranks one agreeing on a single field.
		for _, candidate := range []string{p.CommercialName, p.LegalName, p.AllNames} {
			if candidate == "" {
				continue
			}
			score += e.weights.Name * Ratio(q.name, normalize.Fold(candidate))
		}
	}

	if q.domain != "" {
		score += e.weights.Domain * Ratio(q.domain, p.Domain)
	}

	if q.phone != "" {
		sim := 0.0
		for _, phone := range p.Phones {
			if q.exact && phone == q.phone {
				sim = 1.0
				break
			}
			if s := Ratio(q.phone, normalize.Fold(phone)); s > sim {
				sim = s
			}
		}
		score += e.weights.Phone * sim
	}

	if q.facebook != "" {
		sim := 0.0
		for _, link := range p.Socials[model.PlatformFacebook] {
			if s := Ratio(q.facebook, normalize.Fold(link)); s > sim {
				sim = s
			}
		}
		score += e.weights.Facebook * sim
	}

	return score
}
