// Package domains derives likely email domains from company names, for
// enrichment lookups when no website is on record.
package domains

import "strings"

// legalSuffixes are corporate designators stripped before guessing domains.
var legalSuffixes = []string{
	"incorporated", "corporation", "company", "holdings", "partners",
	"group", "corp", "inc", "llc", "ltd", "llp", "co",
}

// Infer returns the single most likely domain for a company name, or empty
// string when nothing can be guessed.
func Infer(company string) string {
	cands := Candidates(company)
	if len(cands) == 0 {
		return ""
	}
	return cands[0]
}

// Candidates returns likely domains for a company name, best guess first:
// the concatenated name, the hyphenated name, then the first word alone.
// Legal suffixes ("Inc", "LLC", ...) and punctuation are stripped first.
func Candidates(company string) []string {
	words := coreWords(company)
	if len(words) == 0 {
		return nil
	}

	var cands []string
	add := func(base string) {
		if base == "" {
			return
		}
		d := base + ".com"
		for _, c := range cands {
			if c == d {
				return
			}
		}
		cands = append(cands, d)
	}

	add(strings.Join(words, ""))
	if len(words) > 1 {
		add(strings.Join(words, "-"))
		add(words[0])
	}
	return cands
}

// coreWords lower-cases the company name, removes punctuation, and drops
// trailing legal suffixes.
func coreWords(company string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == '&', r == '+':
			return -1
		default:
			return ' '
		}
	}, company)

	words := strings.Fields(cleaned)
	for len(words) > 1 && isLegalSuffix(words[len(words)-1]) {
		words = words[:len(words)-1]
	}
	return words
}

func isLegalSuffix(word string) bool {
	for _, s := range legalSuffixes {
		if word == s {
			return true
		}
	}
	return false
}
