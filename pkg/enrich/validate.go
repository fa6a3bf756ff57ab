package enrich

import "strings"

// Verdict is the outcome of cross-validating an enrichment result against
// the person who was actually asked about.
type Verdict struct {
	Valid        bool
	NameMatch    bool
	CompanyMatch bool
	Detail       string
}

// Validate checks that the provider returned data about the right person.
// The verdict is Valid when either the name or the company lines up: an
// enrichment hit for the right person at a stale employer is still useful,
// as is a hit for a colleague mailbox at the right company.
//
// Name matching: last name exact (case-insensitive), first name exact or a
// longer form sharing the expected 3-character prefix ("Jonathan P." for
// "Jonathan" passes; a bare truncation like "Jon" does not).
//
// Company matching: substring containment either way, or at least 40%
// (rounded up) of the expected company's >3-char tokens appearing in the
// returned company name.
func Validate(result *Result, expectedFirst, expectedLast, expectedCompany string) Verdict {
	if result == nil {
		return Verdict{Detail: "no result"}
	}

	v := Verdict{
		NameMatch:    firstNameMatch(result.FirstName, expectedFirst) && equalFold(result.LastName, expectedLast),
		CompanyMatch: companyMatch(result.Company, expectedCompany),
	}
	v.Valid = v.NameMatch || v.CompanyMatch

	switch {
	case v.NameMatch && v.CompanyMatch:
		v.Detail = "name and company match"
	case v.NameMatch:
		v.Detail = "name matches"
	case v.CompanyMatch:
		v.Detail = "company matches"
	default:
		v.Detail = "neither name nor company matches"
	}
	return v
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func firstNameMatch(actual, expected string) bool {
	a := strings.ToLower(strings.TrimSpace(actual))
	e := strings.ToLower(strings.TrimSpace(expected))
	if a == "" || e == "" {
		return false
	}
	if a == e {
		return true
	}
	// Providers format first names ("Jonathan P.") rather than shorten them,
	// so a longer variant with the same 3-char prefix counts but a bare
	// 3-char truncation does not.
	return len(e) >= 3 && len(a) > 3 && a[:3] == e[:3]
}

func companyMatch(actual, expected string) bool {
	a := strings.ToLower(strings.TrimSpace(actual))
	e := strings.ToLower(strings.TrimSpace(expected))
	if a == "" || e == "" {
		return false
	}
	if strings.Contains(a, e) || strings.Contains(e, a) {
		return true
	}

	var total, found int
	for _, tok := range strings.Fields(e) {
		if len(tok) <= 3 {
			continue
		}
		total++
		if strings.Contains(a, tok) {
			found++
		}
	}
	if total == 0 {
		return false
	}
	// 40% of tokens, rounded up.
	need := (total*2 + 4) / 5
	return found >= need
}
