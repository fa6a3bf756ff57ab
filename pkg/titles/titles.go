// Package titles matches free-text job titles against canonical role filters.
//
// Filters are short keys like "ceo" or "vp"; each key expands to the phrases
// that count as that role. Matching is lower-cased substring containment, so
// "Senior Vice President of Sales" matches the "vp" filter via "vice president".
package titles

import "strings"

// DefaultAliases maps each canonical filter key to the title phrases that
// satisfy it. Phrases are matched as substrings without word boundaries.
var DefaultAliases = map[string][]string{
	"ceo":       {"ceo", "chief executive"},
	"cfo":       {"cfo", "chief financial"},
	"coo":       {"coo", "chief operating"},
	"cto":       {"cto", "chief technology"},
	"president": {"president"},
	"vp":        {"vp", "svp", "evp", "vice president"},
	"founder":   {"founder", "co-founder", "cofounder"},
	"owner":     {"owner", "proprietor"},
	"partner":   {"partner", "managing partner", "general partner"},
	"principal": {"principal"},
	"director":  {"director", "managing director"},
	"chairman":  {"chairman", "chair"},
	"manager":   {"manager", "general manager"},
}

// TopTierKeywords mark titles held by final decision-makers.
var TopTierKeywords = []string{
	"ceo", "chief executive", "president", "founder", "co-founder",
	"owner", "chairman", "partner", "principal",
}

// SecondTierKeywords mark senior but non-apex titles.
var SecondTierKeywords = []string{
	"vp", "vice president", "director", "manager", "chief",
}

// RoleKeywords are terms that identify a text fragment as a job title rather
// than a company name, used when a search headline has no "at" separator.
var RoleKeywords = []string{
	"ceo", "cfo", "coo", "cto", "chief", "president", "founder", "owner",
	"chairman", "partner", "principal", "director", "vice president", "vp",
	"manager", "executive", "head of",
}

// Matches reports whether title satisfies any of the filters using the
// default alias table. An unknown filter key is matched as a raw substring.
func Matches(title string, filters []string) bool {
	return MatchesWith(DefaultAliases, title, filters)
}

// MatchesWith is Matches with a caller-supplied alias table.
func MatchesWith(aliases map[string][]string, title string, filters []string) bool {
	lower := strings.ToLower(title)
	if lower == "" {
		return false
	}
	for _, f := range filters {
		key := strings.ToLower(strings.TrimSpace(f))
		if key == "" {
			continue
		}
		phrases, ok := aliases[key]
		if !ok {
			phrases = []string{key}
		}
		for _, p := range phrases {
			if strings.Contains(lower, p) {
				return true
			}
		}
	}
	return false
}

// IsTopTier reports whether the title contains a final decision-maker keyword.
func IsTopTier(title string) bool {
	return containsAny(title, TopTierKeywords)
}

// IsSecondTier reports whether the title contains a senior-leadership keyword.
func IsSecondTier(title string) bool {
	return containsAny(title, SecondTierKeywords)
}

// LooksLikeRole reports whether text reads as a job title.
func LooksLikeRole(text string) bool {
	return containsAny(text, RoleKeywords)
}

func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
