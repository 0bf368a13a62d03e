// Package normalize converts raw scraped text into canonical phone, social
// link, and domain forms. All functions are pure; invalid input yields the
// zero value, never an error.
package normalize

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/profile-cli/internal/model"
)

// DefaultRegion is the fallback region for phone parsing when the caller
// does not configure one.
const DefaultRegion = "US"

// platformHosts maps each platform to the hosts it accepts, after the www.
// prefix has been stripped.
var platformHosts = map[model.Platform][]string{
	model.PlatformFacebook:  {"facebook.com", "fb.com"},
	model.PlatformTwitter:   {"twitter.com", "x.com"},
	model.PlatformLinkedIn:  {"linkedin.com"},
	model.PlatformInstagram: {"instagram.com"},
}

// Phone parses raw into E.164 using the given region for numbers without a
// country code. Returns "" when the input cannot be parsed into a plausible
// phone number. Plausibility is length-based; use StrictPhone when candidates
// come from noisy text.
func Phone(raw, region string) string {
	number := parsePhone(raw, region)
	if number == nil || !phonenumbers.IsPossibleNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

// StrictPhone is Phone with full region validation on top of plausibility.
// Text-scan candidates go through here; tel: targets and query phones do not,
// since those are already phone-shaped by construction.
func StrictPhone(raw, region string) string {
	number := parsePhone(raw, region)
	if number == nil || !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

func parsePhone(raw, region string) *phonenumbers.PhoneNumber {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if region == "" {
		region = DefaultRegion
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return nil
	}
	return number
}

// Social canonicalizes a social profile URL for the given platform: https
// scheme, lower-cased host without www., no query string, no fragment, no
// trailing slash. Returns "" when the host does not belong to the platform.
func Social(rawURL string, platform model.Platform) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")

	ok := false
	for _, h := range platformHosts[platform] {
		if host == h || strings.HasSuffix(host, "."+h) {
			ok = true
			break
		}
	}
	if !ok {
		return ""
	}

	path := strings.TrimSuffix(u.EscapedPath(), "/")
	if path == "" {
		// A bare host is not a profile link.
		return ""
	}
	return "https://" + host + path
}

// Domain reduces a URL or bare host to its normalized domain key: no scheme,
// no www. prefix, no port, no path, lower-cased.
func Domain(urlOrHost string) string {
	s := strings.ToLower(strings.TrimSpace(urlOrHost))
	if s == "" {
		return ""
	}
	// Malformed prefixes show up in query inputs ("https//", "http//").
	for _, prefix := range []string{"https://", "http://", "https//", "http//", "//"} {
		s = strings.TrimPrefix(s, prefix)
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, ":"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimPrefix(s, "www.")
	return strings.TrimSuffix(s, ".")
}

var spaceRe = regexp.MustCompile(`\s+`)

// Fold prepares a string for similarity comparison: NFKC normalization,
// lower-casing, and whitespace collapse.
func Fold(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(strings.TrimSpace(s))
	return spaceRe.ReplaceAllString(s, " ")
}
