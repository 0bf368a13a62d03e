// Package extract turns fetched page content into contact facts. Discovery
// runs as independent candidate-generating passes (tel: anchors, text scan,
// link classification, address heuristics) merged via deduplication.
package extract

import (
	"bytes"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/profile-cli/internal/model"
	"github.com/sells-group/profile-cli/internal/normalize"
)

// socialPatterns finds social profile URLs appearing in raw markup, covering
// links that are plain text rather than anchor targets.
var socialPatterns = map[model.Platform]*regexp.Regexp{
	model.PlatformFacebook:  regexp.MustCompile(`(?i)https?://(?:www\.)?facebook\.com/[\w\-/.]+`),
	model.PlatformTwitter:   regexp.MustCompile(`(?i)https?://(?:www\.)?(?:twitter|x)\.com/[\w\-/.]+`),
	model.PlatformLinkedIn:  regexp.MustCompile(`(?i)https?://(?:www\.)?linkedin\.com/[\w\-/.]+`),
	model.PlatformInstagram: regexp.MustCompile(`(?i)https?://(?:www\.)?instagram\.com/[\w\-/.]+`),
}

// phoneCandidateRe matches digit runs in visible text that resemble phone
// numbers. Candidates still have to survive region-aware validation.
var phoneCandidateRe = regexp.MustCompile(`\+?\(?\d[\d\s().\-/]{6,18}\d`)

var addressClassRe = regexp.MustCompile(`(?i)(address|location)`)

// Extractor produces RawFacts from fetched HTML.
type Extractor struct {
	region string
}

// New creates an Extractor using the given default phone region.
func New(region string) *Extractor {
	if region == "" {
		region = normalize.DefaultRegion
	}
	return &Extractor{region: region}
}

// Extract parses html fetched from sourceURL. It never fails: unparseable
// markup yields Status = parse_error and otherwise-empty facts.
func (e *Extractor) Extract(html []byte, sourceURL string) model.RawFacts {
	facts := model.RawFacts{
		URL:    sourceURL,
		Domain: normalize.Domain(sourceURL),
		Status: model.FetchOK,
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		zap.L().Debug("extract: unparseable markup",
			zap.String("url", sourceURL),
			zap.Error(err),
		)
		facts.Status = model.FetchParseError
		return facts
	}

	facts.Phones = e.phones(doc)
	facts.Socials = e.socials(string(html), doc)
	facts.Address = e.address(doc)
	return facts
}

// phones merges tel: anchor targets (high confidence) with a text-pattern
// scan of the visible page, keeping only numbers that validate.
func (e *Extractor) phones(doc *goquery.Document) []string {
	seen := make(map[string]bool)

	doc.Find(`a[href^="tel:"]`).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if p := normalize.Phone(strings.TrimPrefix(href, "tel:"), e.region); p != "" {
			seen[p] = true
		}
	})

	for _, candidate := range phoneCandidateRe.FindAllString(doc.Text(), -1) {
		if p := normalize.StrictPhone(candidate, e.region); p != "" {
			seen[p] = true
		}
	}

	if len(seen) == 0 {
		return nil
	}
	phones := make([]string, 0, len(seen))
	for p := range seen {
		phones = append(phones, p)
	}
	sort.Strings(phones)
	return phones
}

// socials classifies anchor targets by platform host and additionally scans
// the raw markup for plain-text profile URLs.
func (e *Extractor) socials(html string, doc *goquery.Document) map[model.Platform][]string {
	seen := make(map[model.Platform]map[string]bool)
	add := func(platform model.Platform, raw string) {
		link := normalize.Social(raw, platform)
		if link == "" {
			return
		}
		if seen[platform] == nil {
			seen[platform] = make(map[string]bool)
		}
		seen[platform][link] = true
	}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		for _, platform := range model.AllPlatforms() {
			add(platform, href)
		}
	})

	for platform, pattern := range socialPatterns {
		for _, m := range pattern.FindAllString(html, -1) {
			add(platform, m)
		}
	}

	if len(seen) == 0 {
		return nil
	}
	socials := make(map[model.Platform][]string, len(seen))
	for platform, links := range seen {
		list := make([]string, 0, len(links))
		for l := range links {
			list = append(list, l)
		}
		sort.Strings(list)
		socials[platform] = list
	}
	return socials
}

// address applies the structural heuristics in fixed order: footer text,
// <address> elements, then div/span nodes with address-ish class or id.
// First plausible hit wins. Best effort, not ground truth.
func (e *Extractor) address(doc *goquery.Document) string {
	if text := cleanText(doc.Find("footer").First()); plausibleAddress(text, 15) {
		return text
	}
	if text := cleanText(doc.Find("address").First()); plausibleAddress(text, 10) {
		return text
	}

	var found string
	doc.Find("div,span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		if !addressClassRe.MatchString(class) && !addressClassRe.MatchString(id) {
			return true
		}
		if text := cleanText(s); plausibleAddress(text, 10) {
			found = text
			return false
		}
		return true
	})
	return found
}

var multiSpaceRe = regexp.MustCompile(`\s+`)

func cleanText(s *goquery.Selection) string {
	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(s.Text(), " "))
}

func plausibleAddress(text string, minLen int) bool {
	return len(text) > minLen && len(text) < 250
}
