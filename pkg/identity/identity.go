// Package identity defines the shared types passed between the discovery,
// harvesting, enrichment and resolution packages.
package identity

import (
	"errors"
	"strings"
)

// Common errors returned by discovery and resolution operations.
var (
	// ErrMissingName indicates that a first or last name was not provided.
	ErrMissingName = errors.New("first and last name are required")
	// ErrMissingCompany indicates that a company name was not provided.
	ErrMissingCompany = errors.New("company name is required")
)

// Person describes who the engine is trying to locate. FirstName and
// LastName are required; everything else narrows the search when present.
type Person struct {
	FirstName     string
	LastName      string
	Title         string
	CompanyName   string
	CompanyDomain string
}

// FullName returns "First Last" with surrounding whitespace trimmed.
func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Validate checks that the required name fields are present.
func (p Person) Validate() error {
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return ErrMissingName
	}
	return nil
}

// Contact is one decision-maker extracted from company-wide search results.
// Confidence ranges from 0 to 90 based on how much of the search snippet
// corroborates the name, role, and company affiliation.
type Contact struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Title       string `json:"title,omitempty"`
	LinkedInURL string `json:"linkedin_url"`
	SourceURL   string `json:"source_url,omitempty"`
	Confidence  int    `json:"confidence"`
}

// FullName returns the contact's "First Last" display name.
func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
