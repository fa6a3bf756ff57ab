package score

import (
	"testing"

	"github.com/dealflowhq/contactfinder/pkg/search"
)

func TestIsProfileURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.linkedin.com/in/jane-doe-12345", true},
		{"https://linkedin.com/in/johndoe", true},
		{"http://uk.linkedin.com/in/jane-doe", true},
		{"https://www.linkedin.com/company/acme-corp", false},
		{"https://www.linkedin.com/posts/jane-doe_update-activity-123", false},
		{"https://www.linkedin.com/pub/dir/Jane/Doe", false},
		{"https://www.linkedin.com/feed/update/urn:li:activity:123", false},
		{"https://www.linkedin.com/jobs/view/123456", false},
		{"https://www.linkedin.com/school/state-university", false},
		{"https://www.linkedin.com/in/ACoAAABCDEF123", false},
		{"https://rocketreach.co/jane-doe-email_123", false},
		{"https://example.com/in/jane", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := IsProfileURL(tt.url); got != tt.want {
				t.Errorf("IsProfileURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestNormalizeProfileURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.linkedin.com/in/jane-doe?trk=search", "https://www.linkedin.com/in/jane-doe"},
		{"https://www.linkedin.com/in/jane-doe#section", "https://www.linkedin.com/in/jane-doe"},
		{"http://linkedin.com/in/jane-doe/", "https://linkedin.com/in/jane-doe"},
		{"https://linkedin.com/in/jane-doe", "https://linkedin.com/in/jane-doe"},
	}

	for _, tt := range tests {
		if got := NormalizeProfileURL(tt.in); got != tt.want {
			t.Errorf("NormalizeProfileURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.linkedin.com/in/Jane-Doe-123", "jane-doe-123"},
		{"https://linkedin.com/in/jane-doe/details", "jane-doe"},
		{"https://linkedin.com/company/acme", ""},
	}

	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResultNamePlacement(t *testing.T) {
	inTitle := search.SearchResult{
		Title: "Jane Doe - CEO at Acme | LinkedIn",
		URL:   "https://linkedin.com/in/someone",
	}
	inDescription := search.SearchResult{
		Title:       "Leadership team | Acme",
		URL:         "https://linkedin.com/in/someone",
		Description: "Jane Doe leads the company",
	}

	titleScore, _ := Result(inTitle, "Jane", "Doe", "", "")
	descScore, _ := Result(inDescription, "Jane", "Doe", "", "")

	if titleScore != 40 {
		t.Errorf("name in title scored %d, want 40", titleScore)
	}
	if descScore != 20 {
		t.Errorf("name in description scored %d, want 20", descScore)
	}
	if titleScore <= descScore {
		t.Errorf("title placement (%d) must outrank description placement (%d)", titleScore, descScore)
	}
}

func TestResultCompanySignals(t *testing.T) {
	r := search.SearchResult{
		Title:       "Jane Doe - CEO | LinkedIn",
		URL:         "https://linkedin.com/in/someone",
		Description: "Jane Doe is the CEO of Acme Industrial Holdings",
	}

	// Name in title (+40), three company tokens capped at +30, verbatim +10.
	got, notes := Result(r, "Jane", "Doe", "Acme Industrial Holdings", "")
	if got != 80 {
		t.Errorf("score = %d, want 80 (notes: %v)", got, notes)
	}
}

func TestResultCompanyTokenFiltering(t *testing.T) {
	r := search.SearchResult{
		Title: "Jane Doe - Partner | LinkedIn",
		URL:   "https://linkedin.com/in/someone",
		// "of" from the company name must not score: too short.
		Description: "a firm of consultants",
	}

	got, _ := Result(r, "Jane", "Doe", "of counsel", "")
	if got != 40 {
		t.Errorf("score = %d, want 40 (short tokens must not count)", got)
	}
}

func TestResultTitleTokens(t *testing.T) {
	r := search.SearchResult{
		Title:       "Jane Doe | LinkedIn",
		URL:         "https://linkedin.com/in/someone",
		Description: "chief financial officer at a manufacturer",
	}

	// Name in title +40; "chief", "financial", "officer" tokens +5 each.
	got, _ := Result(r, "Jane", "Doe", "", "Chief Financial Officer")
	if got != 55 {
		t.Errorf("score = %d, want 55", got)
	}
}

func TestResultSlugBonus(t *testing.T) {
	with := search.SearchResult{
		Title: "Jane Doe - CEO | LinkedIn",
		URL:   "https://linkedin.com/in/jane-doe-8a13b2",
	}
	without := search.SearchResult{
		Title: "Jane Doe - CEO | LinkedIn",
		URL:   "https://linkedin.com/in/jd-8a13b2",
	}

	withScore, _ := Result(with, "Jane", "Doe", "", "")
	withoutScore, _ := Result(without, "Jane", "Doe", "", "")

	if withScore-withoutScore != 10 {
		t.Errorf("slug bonus = %d, want 10", withScore-withoutScore)
	}
}

func TestResultNoSignals(t *testing.T) {
	r := search.SearchResult{
		Title:       "Quarterly report roundup",
		URL:         "https://linkedin.com/in/unrelated",
		Description: "markets were mixed",
	}

	if got, _ := Result(r, "Jane", "Doe", "Acme", "CEO"); got != 0 {
		t.Errorf("score = %d, want 0", got)
	}
}
