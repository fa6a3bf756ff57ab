// Package strategy builds the ordered search query list used to locate a
// person's LinkedIn profile. Queries run most-specific first so a confident
// early hit can stop the sequence before cheaper, noisier queries fire.
package strategy

import "strings"

const profileSite = "site:linkedin.com/in"

// noiseDomains are data-broker sites that mirror LinkedIn profile text and
// crowd out the canonical profile in search results.
var noiseDomains = []string{
	"rocketreach.co",
	"zoominfo.com",
	"signalhire.com",
	"apollo.io",
	"contactout.com",
}

// Query is one search attempt with a label for audit trails.
type Query struct {
	Text  string
	Label string
}

// Build returns the ordered query list for the given person. Name fields are
// required by callers; company, title and domain narrow the search when set.
func Build(firstName, lastName, companyName, roleTitle, companyDomain string) []Query {
	name := quote(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
	company := strings.TrimSpace(companyName)

	var queries []Query
	add := func(label string, parts ...string) {
		text := strings.Join(parts, " ") + exclusionClause()
		for _, q := range queries {
			if q.Text == text {
				return
			}
		}
		queries = append(queries, Query{Text: text, Label: label})
	}

	if company == "" {
		if t := strings.TrimSpace(roleTitle); t != "" {
			add("name+title", name, quote(t), profileSite)
		} else {
			add("name only", name, profileSite)
		}
		return queries
	}

	if d := strings.TrimSpace(companyDomain); d != "" {
		add("name+domain", name, quote(d), profileSite)
	}

	add("name+company", name, quote(company), profileSite)

	if kws := titleKeywords(roleTitle); len(kws) > 0 {
		add("name+company+title", append([]string{name, quote(company)}, append(kws, profileSite)...)...)
	}

	if partial := coreCompanyTokens(company); partial != "" && !strings.EqualFold(partial, company) {
		add("name+partial company", name, partial, profileSite)
	}

	add("name+company unrestricted", name, quote(company))

	return queries
}

func quote(s string) string {
	return `"` + s + `"`
}

func exclusionClause() string {
	var b strings.Builder
	for _, d := range noiseDomains {
		b.WriteString(" -site:")
		b.WriteString(d)
	}
	return b.String()
}

// titleKeywords returns up to two title tokens longer than two characters.
func titleKeywords(roleTitle string) []string {
	var kws []string
	for _, tok := range strings.Fields(roleTitle) {
		tok = strings.Trim(tok, ",/")
		if len(tok) <= 2 {
			continue
		}
		kws = append(kws, tok)
		if len(kws) == 2 {
			break
		}
	}
	return kws
}

// coreCompanyTokens returns the first two company tokens longer than three
// characters, unquoted, for a looser partial-name query. Empty when the
// company has no such tokens.
func coreCompanyTokens(company string) string {
	var toks []string
	for _, tok := range strings.Fields(company) {
		if len(tok) <= 3 {
			continue
		}
		toks = append(toks, tok)
		if len(toks) == 2 {
			break
		}
	}
	return strings.Join(toks, " ")
}
