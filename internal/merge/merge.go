// Package merge joins crawl output with the reference metadata table into the
// domain-keyed profile store.
package merge

import (
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/internal/normalize"
)

// Profiles groups raw facts by normalized domain and left-joins the reference
// rows. Only crawled domains produce profiles; a crawled domain without a
// reference row keeps empty name fields. Deterministic: the same inputs always
// produce byte-identical profiles.
func Profiles(raws []model.RawFacts, refs []model.ReferenceRow) map[string]model.CompanyProfile {
	refByDomain := make(map[string]model.ReferenceRow, len(refs))
	for _, ref := range refs {
		domain := normalize.Domain(ref.Domain)
		if domain == "" {
			continue
		}
		// First row wins on duplicate reference domains.
		if _, ok := refByDomain[domain]; !ok {
			refByDomain[domain] = ref
		}
	}

	store := make(map[string]model.CompanyProfile)
	for _, raw := range raws {
		domain := raw.Domain
		if domain == "" {
			domain = normalize.Domain(raw.URL)
		}
		if domain == "" {
			zap.L().Warn("merge: dropping record without domain key",
				zap.String("url", raw.URL),
			)
			continue
		}

		profile, ok := store[domain]
		if !ok {
			profile = model.CompanyProfile{
				Domain: domain,
				Status: raw.Status,
			}
			if ref, found := refByDomain[domain]; found {
				profile.CommercialName = ref.CommercialName
				profile.LegalName = ref.LegalName
				profile.AllNames = ref.AllNames
			}
		}

		// One target per domain is the normal case; duplicates union their
		// contact sets and keep the first non-empty address.
		profile.Phones = unionSorted(profile.Phones, raw.Phones)
		profile.Socials = unionSocials(profile.Socials, raw.Socials)
		if profile.Address == "" {
			profile.Address = raw.Address
		}
		if raw.Status == model.FetchOK {
			profile.Status = model.FetchOK
		}
		store[domain] = profile
	}
	return store
}

func unionSorted(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(a)+len(b))
	for _, s := range a {
		seen[s] = true
	}
	for _, s := range b {
		seen[s] = true
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func unionSocials(a, b map[model.Platform][]string) map[model.Platform][]string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[model.Platform][]string)
	for platform, links := range a {
		out[platform] = unionSorted(out[platform], links)
	}
	for platform, links := range b {
		out[platform] = unionSorted(out[platform], links)
	}
	return out
}
