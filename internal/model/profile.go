// Package model defines the data types shared across the extraction and
// matching pipeline.
package model

// FetchStatus records the outcome of a single site fetch.
type FetchStatus string

const (
	FetchOK         FetchStatus = "ok"
	FetchTimeout    FetchStatus = "timeout"
	FetchHTTPError  FetchStatus = "http_error"
	FetchParseError FetchStatus = "parse_error"
)

// Platform is a supported social network.
type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformInstagram Platform = "instagram"
)

// AllPlatforms returns the platforms the extractor classifies, in a fixed order.
func AllPlatforms() []Platform {
	return []Platform{
		PlatformFacebook,
		PlatformTwitter,
		PlatformLinkedIn,
		PlatformInstagram,
	}
}

// RawFacts holds everything extracted from one crawl target. Produced exactly
// once per target and never mutated afterwards. Phones are E.164, sorted and
// deduplicated; social links are normalized per platform.
type RawFacts struct {
	URL     string                `json:"url"`
	Domain  string                `json:"domain"`
	Phones  []string              `json:"phones,omitempty"`
	Socials map[Platform][]string `json:"social_links,omitempty"`
	Address string                `json:"address,omitempty"`
	Status  FetchStatus           `json:"status"`
	Error   string                `json:"error,omitempty"`
}

// ReferenceRow is one row of the reference metadata table, keyed by domain.
// Extra columns in the source file are ignored.
type ReferenceRow struct {
	Domain         string `json:"domain"`
	CommercialName string `json:"company_commercial_name,omitempty"`
	LegalName      string `json:"company_legal_name,omitempty"`
	AllNames       string `json:"company_all_available_names,omitempty"`
}

// CompanyProfile is the merged record for one crawled domain. Domain is the
// sole identity key. Name fields stay empty when no reference row matched.
type CompanyProfile struct {
	Domain         string                `json:"domain"`
	CommercialName string                `json:"company_commercial_name,omitempty"`
	LegalName      string                `json:"company_legal_name,omitempty"`
	AllNames       string                `json:"company_all_available_names,omitempty"`
	Phones         []string              `json:"phones"`
	Socials        map[Platform][]string `json:"social_links"`
	Address        string                `json:"address,omitempty"`
	Status         FetchStatus           `json:"status"`
}

// BestName returns the most presentable name on the profile.
func (p CompanyProfile) BestName() string {
	if p.CommercialName != "" {
		return p.CommercialName
	}
	if p.LegalName != "" {
		return p.LegalName
	}
	return p.AllNames
}

// MatchQuery is a partial lookup against the profile store. All fields are
// optional; an empty query is legal and scores zero against every profile.
type MatchQuery struct {
	Name     string `json:"name,omitempty"`
	Domain   string `json:"domain,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Facebook string `json:"facebook,omitempty"`
}

// IsEmpty reports whether no query field is set.
func (q MatchQuery) IsEmpty() bool {
	return q.Name == "" && q.Domain == "" && q.Phone == "" && q.Facebook == ""
}

// MatchResult pairs the winning profile with its score.
type MatchResult struct {
	Profile CompanyProfile `json:"profile"`
	Score   float64        `json:"match_score"`
}
