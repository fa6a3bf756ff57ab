// Package enrich turns a known identity (a LinkedIn URL, or a name plus an
// email domain) into direct contact details, and cross-validates what the
// provider returns against the person actually being looked for.
package enrich

import "context"

// Request asks for contact details. Either LinkedInURL is set, or
// FirstName+LastName+Domain are.
type Request struct {
	FirstName   string
	LastName    string
	LinkedInURL string
	Domain      string
}

// Result holds what an enrichment provider knows about a person. Fields the
// provider has no data for are empty.
type Result struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Title       string
	Company     string
	LinkedInURL string
	Confidence  string
	Source      string
}

// Enricher resolves contact details from an external data provider.
// A (nil, nil) return means the provider had no data; errors are reserved
// for transport and authentication failures.
type Enricher interface {
	Enrich(ctx context.Context, req Request) (*Result, error)
}
