// Package score rates how well a search result matches an expected person.
//
// The score is a sum of independent signals (name placement, company token
// overlap, title token overlap, URL slug) so callers can set thresholds:
// 50+ is a confident match, 20+ is plausible, below 20 is noise.
package score

import (
	"strings"

	"github.com/dealflowhq/contactfinder/pkg/search"
)

// Signal weights. Maximum possible score is 95.
const (
	nameInTitlePoints  = 40
	nameAnywherePoints = 20
	companyTokenPoints = 10
	companyTokenCap    = 30
	companyExactPoints = 10
	titleTokenPoints   = 5
	titleTokenCap      = 15
	slugPoints         = 10
)

// nonProfilePaths are LinkedIn URL fragments that never point at an
// individual public profile.
var nonProfilePaths = []string{
	"/company/", "/posts/", "/pub/dir/", "/feed/", "/jobs/", "/school/",
}

// Result scores a search result against the expected person. It returns the
// total score and a human-readable note per matched signal, for audit trails.
func Result(r search.SearchResult, firstName, lastName, companyName, roleTitle string) (int, []string) {
	first := strings.ToLower(strings.TrimSpace(firstName))
	last := strings.ToLower(strings.TrimSpace(lastName))
	title := strings.ToLower(r.Title)
	combined := title + " " + strings.ToLower(r.Description)

	var score int
	var notes []string

	switch {
	case first != "" && last != "" && strings.Contains(title, first) && strings.Contains(title, last):
		score += nameInTitlePoints
		notes = append(notes, "name in result title")
	case first != "" && last != "" && strings.Contains(combined, first) && strings.Contains(combined, last):
		score += nameAnywherePoints
		notes = append(notes, "name in result text")
	}

	if company := strings.ToLower(strings.TrimSpace(companyName)); company != "" {
		var companyScore int
		var matched []string
		for _, tok := range strings.Fields(company) {
			if len(tok) <= 2 {
				continue
			}
			if strings.Contains(combined, tok) && companyScore < companyTokenCap {
				companyScore += companyTokenPoints
				matched = append(matched, tok)
			}
		}
		if strings.Contains(combined, company) {
			companyScore += companyExactPoints
			notes = append(notes, "company name verbatim")
		}
		if len(matched) > 0 {
			notes = append(notes, "company tokens: "+strings.Join(matched, " "))
		}
		score += companyScore
	}

	if roleTitle != "" {
		var titleScore int
		tokens := strings.FieldsFunc(strings.ToLower(roleTitle), func(r rune) bool {
			return r == ' ' || r == '\t' || r == ',' || r == '/'
		})
		for _, tok := range tokens {
			if len(tok) <= 2 {
				continue
			}
			if strings.Contains(combined, tok) && titleScore < titleTokenCap {
				titleScore += titleTokenPoints
			}
		}
		if titleScore > 0 {
			notes = append(notes, "title keywords present")
		}
		score += titleScore
	}

	if slug := Slug(r.URL); slug != "" && first != "" && last != "" {
		flatLast := strings.ReplaceAll(last, " ", "")
		if strings.Contains(slug, first) && strings.Contains(slug, flatLast) {
			score += slugPoints
			notes = append(notes, "name in profile URL")
		}
	}

	return score, notes
}

// IsProfileURL reports whether the URL points at an individual LinkedIn
// profile. Company pages, post permalinks, directory listings, job listings
// and anonymized "ACo" placeholders are rejected.
func IsProfileURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	if !strings.Contains(lower, "linkedin.com") || !strings.Contains(lower, "/in/") {
		return false
	}
	for _, p := range nonProfilePaths {
		if strings.Contains(lower, p) {
			return false
		}
	}
	// LinkedIn serves "/in/ACoAA..." member hashes to logged-out crawlers;
	// they are not stable public profile URLs.
	if strings.Contains(rawURL, "/in/ACo") {
		return false
	}
	return true
}

// NormalizeProfileURL strips query parameters and fragments and forces https.
func NormalizeProfileURL(rawURL string) string {
	s := rawURL
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSuffix(s, "/")
	if rest, ok := strings.CutPrefix(s, "http://"); ok {
		s = "https://" + rest
	}
	return s
}

// Slug extracts the lower-cased public identifier from a profile URL
// ("https://linkedin.com/in/jane-doe-123" -> "jane-doe-123").
// Returns empty string when the URL has no /in/ segment.
func Slug(rawURL string) string {
	lower := strings.ToLower(NormalizeProfileURL(rawURL))
	_, after, found := strings.Cut(lower, "/in/")
	if !found {
		return ""
	}
	if i := strings.IndexByte(after, '/'); i >= 0 {
		after = after[:i]
	}
	return after
}
