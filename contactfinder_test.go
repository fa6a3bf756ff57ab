package contactfinder

import (
	"context"
	"testing"
	"time"

	"github.com/dealflowhq/contactfinder/pkg/enrich"
	"github.com/dealflowhq/contactfinder/pkg/identity"
	"github.com/dealflowhq/contactfinder/pkg/search"
)

type stubSearcher struct {
	results []search.SearchResult
	calls   int
}

func (s *stubSearcher) Search(_ context.Context, _ string, _ int) ([]search.SearchResult, error) {
	s.calls++
	return s.results, nil
}

type stubEnricher struct {
	result *enrich.Result
}

func (s *stubEnricher) Enrich(_ context.Context, req enrich.Request) (*enrich.Result, error) {
	if req.LinkedInURL == "" {
		return nil, nil
	}
	return s.result, nil
}

func newTestEngine(t *testing.T, s search.Searcher, e enrich.Enricher) *Engine {
	t.Helper()
	engine, err := New(
		WithSearcher(s),
		WithEnricher(e),
		WithoutCache(),
		WithBulkDelay(time.Millisecond),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return engine
}

func TestEngineResolveEndToEnd(t *testing.T) {
	searcher := &stubSearcher{results: []search.SearchResult{{
		Title:       "Jane Doe - CEO at Acme Industrial | LinkedIn",
		URL:         "https://linkedin.com/in/jane-doe",
		Description: "Acme Industrial leadership",
	}}}
	enricher := &stubEnricher{result: &enrich.Result{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@acmeindustrial.com",
		Company:   "Acme Industrial",
	}}

	res, err := newTestEngine(t, searcher, enricher).Resolve(context.Background(), identity.Person{
		FirstName:   "Jane",
		LastName:    "Doe",
		CompanyName: "Acme Industrial",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Found || res.Email != "jane@acmeindustrial.com" {
		t.Fatalf("got %+v", res)
	}
	if res.LinkedInURL != "https://linkedin.com/in/jane-doe" {
		t.Errorf("url = %q", res.LinkedInURL)
	}
}

func TestEngineResolveAllContinuesPastFailures(t *testing.T) {
	searcher := &stubSearcher{}
	engine := newTestEngine(t, searcher, &stubEnricher{})

	people := []identity.Person{
		{FirstName: "Jane"}, // invalid: no last name
		{FirstName: "Jane", LastName: "Doe"},
	}
	results := engine.ResolveAll(context.Background(), people)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0] != nil {
		t.Error("invalid person should yield a nil slot")
	}
	if results[1] == nil || results[1].Found {
		t.Errorf("valid person should resolve to a not-found result, got %+v", results[1])
	}
}

func TestEngineHarvest(t *testing.T) {
	searcher := &stubSearcher{results: []search.SearchResult{{
		Title: "Alice Apex - CEO at Acme Industrial | LinkedIn",
		URL:   "https://linkedin.com/in/alice-apex",
	}}}
	engine := newTestEngine(t, searcher, &stubEnricher{})

	contacts, err := engine.HarvestDecisionMakers(context.Background(), "Acme Industrial", "", "", 5)
	if err != nil {
		t.Fatalf("HarvestDecisionMakers: %v", err)
	}
	if len(contacts) != 1 || contacts[0].FirstName != "Alice" {
		t.Fatalf("got %+v", contacts)
	}
}
