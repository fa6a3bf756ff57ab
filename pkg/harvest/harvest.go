// Package harvest finds a company's decision-makers by running role-targeted
// searches and parsing the people out of LinkedIn result titles.
package harvest

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/dealflowhq/contactfinder/pkg/identity"
	"github.com/dealflowhq/contactfinder/pkg/score"
	"github.com/dealflowhq/contactfinder/pkg/search"
	"github.com/dealflowhq/contactfinder/pkg/titles"
)

const (
	profileSite     = "site:linkedin.com/in"
	resultsPerQuery = 10
	defaultMax      = 10

	// Confidence signal weights. A fully corroborated contact scores 90.
	namePoints         = 20
	companyTokenPoints = 15
	companyTokenCap    = 30
	rolePresentPoints  = 20
	topTierPoints      = 20
	secondTierPoints   = 10
)

// Harvester extracts decision-maker contacts from company-wide searches.
type Harvester struct {
	searcher search.Searcher
	logger   *slog.Logger
}

// Option configures a Harvester.
type Option func(*Harvester)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harvester) { h.logger = logger }
}

// New creates a Harvester backed by the given search provider.
func New(searcher search.Searcher, opts ...Option) *Harvester {
	h := &Harvester{
		searcher: searcher,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Harvest searches for up to maxResults decision-makers at the company,
// highest confidence first. titleFilter narrows results to a role ("ceo",
// "cfo", ...) but is ignored when it would leave nothing. Per-query search
// failures are logged and skipped. companyDomain is optional.
func (h *Harvester) Harvest(ctx context.Context, companyName, companyDomain, titleFilter string, maxResults int) ([]identity.Contact, error) {
	company := strings.TrimSpace(companyName)
	if company == "" {
		return nil, identity.ErrMissingCompany
	}
	if maxResults <= 0 {
		maxResults = defaultMax
	}

	byName := make(map[string]identity.Contact)
	for _, q := range roleQueries(company, companyDomain, titleFilter) {
		results, err := h.searcher.Search(ctx, q, resultsPerQuery)
		if err != nil {
			h.logger.DebugContext(ctx, "harvest query failed", "query", q, "error", err)
			continue
		}
		for _, r := range results {
			c, ok := contactFromResult(r, company, companyDomain)
			if !ok {
				continue
			}
			merge(byName, c)
		}
	}

	contacts := make([]identity.Contact, 0, len(byName))
	for _, c := range byName {
		contacts = append(contacts, c)
	}
	sort.SliceStable(contacts, func(i, j int) bool {
		if contacts[i].Confidence != contacts[j].Confidence {
			return contacts[i].Confidence > contacts[j].Confidence
		}
		return contacts[i].FullName() < contacts[j].FullName()
	})

	if titleFilter != "" {
		var filtered []identity.Contact
		for _, c := range contacts {
			if titles.Matches(c.Title, []string{titleFilter}) {
				filtered = append(filtered, c)
			}
		}
		// An over-strict filter should not hide everyone found.
		if len(filtered) > 0 {
			contacts = filtered
		}
	}

	if len(contacts) > maxResults {
		contacts = contacts[:maxResults]
	}

	h.logger.InfoContext(ctx, "harvest complete", "company", company, "contacts", len(contacts))
	return contacts, nil
}

// roleQueries builds the fixed query battery for a company. All but the last
// are restricted to LinkedIn profile pages; when a domain is known it is
// added as an extra qualifier to cut down same-name companies.
func roleQueries(company, domain, titleFilter string) []string {
	qualifier := `"` + company + `"`
	if d := strings.TrimSpace(domain); d != "" {
		qualifier += ` "` + d + `"`
	}

	queries := []string{
		qualifier + " CEO OR owner OR founder " + profileSite,
		qualifier + " president OR chairman " + profileSite,
		qualifier + " partner OR principal " + profileSite,
		qualifier + ` "vice president" OR director ` + profileSite,
		qualifier + " contact email " + profileSite,
	}
	if f := strings.TrimSpace(titleFilter); f != "" {
		queries = append(queries, qualifier+` "`+f+`" `+profileSite)
	}
	return append(queries, `"`+company+`" leadership team linkedin`)
}

// contactFromResult parses one search hit into a contact. It rejects
// non-profile URLs, unparseable titles, and results whose text never
// mentions the company.
func contactFromResult(r search.SearchResult, company, domain string) (identity.Contact, bool) {
	if !score.IsProfileURL(r.URL) {
		return identity.Contact{}, false
	}

	first, last, role, _, ok := parseResultTitle(r.Title)
	if !ok {
		return identity.Contact{}, false
	}

	combined := strings.ToLower(r.Title + " " + r.Description)
	if !mentionsCompany(combined, company, domain) {
		return identity.Contact{}, false
	}

	return identity.Contact{
		FirstName:   first,
		LastName:    last,
		Title:       role,
		LinkedInURL: score.NormalizeProfileURL(r.URL),
		SourceURL:   r.URL,
		Confidence:  confidence(combined, role, company),
	}, true
}

// parseResultTitle decodes LinkedIn's search result title grammar:
//
//	"Jane Doe - CEO at Acme Corp | LinkedIn"
//	"Jane Doe - Acme Corp | LinkedIn"
//	"Jane Doe | LinkedIn"
//
// The headline after the dash is a "role at company" pair, or a bare role if
// it contains a role keyword, otherwise a bare company name.
func parseResultTitle(raw string) (first, last, role, company string, ok bool) {
	s := strings.TrimSpace(raw)
	for _, suffix := range []string{"| LinkedIn", "- LinkedIn", "– LinkedIn", "— LinkedIn"} {
		if trimmed, found := strings.CutSuffix(s, suffix); found {
			s = strings.TrimSpace(trimmed)
			break
		}
	}

	namePart := s
	var headline string
	for _, sep := range []string{" - ", " – ", " — "} {
		if before, after, found := strings.Cut(s, sep); found {
			namePart = strings.TrimSpace(before)
			headline = strings.TrimSpace(after)
			break
		}
	}

	fields := strings.Fields(namePart)
	// Two to five tokens covers real names; longer strings are article
	// headlines, not people.
	if len(fields) < 2 || len(fields) > 5 {
		return "", "", "", "", false
	}
	first = fields[0]
	last = fields[len(fields)-1]

	switch {
	case headline == "":
	case containsAtSeparator(headline):
		role, company = splitRoleCompany(headline)
	case titles.LooksLikeRole(headline):
		role = headline
	default:
		company = headline
	}

	return first, last, role, company, true
}

// containsAtSeparator reports whether the headline has a role/company
// separator. Only spaced forms count: a bare "@" is usually an email
// address, not a separator.
func containsAtSeparator(headline string) bool {
	lower := strings.ToLower(headline)
	return strings.Contains(lower, " at ") || strings.Contains(headline, " @ ")
}

// splitRoleCompany splits "CEO at Acme" (or "CEO @ Acme") into its parts.
func splitRoleCompany(headline string) (role, company string) {
	for _, sep := range []string{" at ", " At ", " @ "} {
		if before, after, found := strings.Cut(headline, sep); found {
			return strings.TrimSpace(before), strings.TrimSpace(after)
		}
	}
	return headline, ""
}

// mentionsCompany reports whether the result text contains any meaningful
// company name token, or the company domain.
func mentionsCompany(combined, company, domain string) bool {
	for _, tok := range strings.Fields(strings.ToLower(company)) {
		if len(tok) > 2 && strings.Contains(combined, tok) {
			return true
		}
	}
	if d := strings.ToLower(strings.TrimSpace(domain)); d != "" && strings.Contains(combined, d) {
		return true
	}
	return false
}

// confidence scores a parsed contact from 0 to 90.
func confidence(combined, role, company string) int {
	total := namePoints

	var companyScore int
	for _, tok := range strings.Fields(strings.ToLower(company)) {
		if len(tok) <= 2 {
			continue
		}
		if strings.Contains(combined, tok) && companyScore < companyTokenCap {
			companyScore += companyTokenPoints
		}
	}
	total += companyScore

	if role != "" {
		total += rolePresentPoints
		switch {
		case titles.IsTopTier(role):
			total += topTierPoints
		case titles.IsSecondTier(role):
			total += secondTierPoints
		}
	}
	return total
}

// merge deduplicates by case-insensitive name, keeping the higher-confidence
// record but always preferring the longer non-empty title seen.
func merge(byName map[string]identity.Contact, c identity.Contact) {
	key := strings.ToLower(c.FirstName) + "|" + strings.ToLower(c.LastName)
	existing, found := byName[key]
	if !found {
		byName[key] = c
		return
	}

	keep := existing
	if c.Confidence > existing.Confidence {
		keep = c
	}
	if len(c.Title) > len(keep.Title) {
		keep.Title = c.Title
	}
	if len(existing.Title) > len(keep.Title) {
		keep.Title = existing.Title
	}
	byName[key] = keep
}
