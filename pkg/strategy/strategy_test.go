package strategy

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildFullInputs(t *testing.T) {
	queries := Build("Jane", "Doe", "Acme Industrial Holdings", "Chief Executive Officer", "acmeindustrial.com")

	labels := make([]string, len(queries))
	for i, q := range queries {
		labels[i] = q.Label
	}

	want := []string{
		"name+domain",
		"name+company",
		"name+company+title",
		"name+partial company",
		"name+company unrestricted",
	}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Errorf("query order mismatch (-want +got):\n%s", diff)
	}

	if got := queries[0].Text; !strings.Contains(got, `"acmeindustrial.com"`) {
		t.Errorf("domain query missing domain term: %q", got)
	}
	if got := queries[2].Text; !strings.Contains(got, "Chief Executive") {
		t.Errorf("title query missing title keywords: %q", got)
	}
	if got := queries[3].Text; !strings.Contains(got, "Acme Industrial") || strings.Contains(got, `"Acme Industrial Holdings"`) {
		t.Errorf("partial query should use unquoted core tokens: %q", got)
	}

	last := queries[len(queries)-1].Text
	if strings.Contains(last, "site:linkedin.com/in") {
		t.Errorf("final query must be unrestricted: %q", last)
	}
	for _, q := range queries[:len(queries)-1] {
		if !strings.Contains(q.Text, "site:linkedin.com/in") {
			t.Errorf("query %q missing profile site restriction: %q", q.Label, q.Text)
		}
	}
}

func TestBuildExclusionsOnEveryQuery(t *testing.T) {
	for _, q := range Build("Jane", "Doe", "Acme Corp", "", "") {
		for _, noisy := range []string{"rocketreach.co", "zoominfo.com", "signalhire.com", "apollo.io", "contactout.com"} {
			if !strings.Contains(q.Text, "-site:"+noisy) {
				t.Errorf("query %q missing exclusion for %s", q.Text, noisy)
			}
		}
	}
}

func TestBuildSkipsRedundantPartial(t *testing.T) {
	// A single-token company yields the same core tokens as the full name;
	// the partial strategy must be skipped, not duplicated.
	queries := Build("Jane", "Doe", "Initech", "", "")
	for _, q := range queries {
		if q.Label == "name+partial company" {
			t.Errorf("partial strategy should be skipped for %q", "Initech")
		}
	}
}

func TestBuildNoCompany(t *testing.T) {
	withTitle := Build("Jane", "Doe", "", "CFO", "")
	if len(withTitle) != 1 || withTitle[0].Label != "name+title" {
		t.Fatalf("want single name+title query, got %+v", withTitle)
	}
	if !strings.Contains(withTitle[0].Text, `"CFO"`) {
		t.Errorf("title not quoted in query: %q", withTitle[0].Text)
	}

	bare := Build("Jane", "Doe", "", "", "")
	if len(bare) != 1 || bare[0].Label != "name only" {
		t.Fatalf("want single name-only query, got %+v", bare)
	}
	if !strings.Contains(bare[0].Text, `"Jane Doe"`) {
		t.Errorf("name not quoted in query: %q", bare[0].Text)
	}
}

func TestBuildNoDomainNoTitle(t *testing.T) {
	queries := Build("Jane", "Doe", "Acme Industrial Holdings", "", "")

	labels := make([]string, len(queries))
	for i, q := range queries {
		labels[i] = q.Label
	}
	want := []string{"name+company", "name+partial company", "name+company unrestricted"}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Errorf("query order mismatch (-want +got):\n%s", diff)
	}
}
