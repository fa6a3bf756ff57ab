// Package resolve runs the multi-source fallback chain that turns a person
// query into a contact record with a usable email: CRM record first, then
// enrichment of a verified LinkedIn URL, then rediscovery, then name+domain
// guessing. Every stage appends to an audit trail so a reviewer can see why
// a contact was (or was not) found.
package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dealflowhq/contactfinder/pkg/discover"
	"github.com/dealflowhq/contactfinder/pkg/domains"
	"github.com/dealflowhq/contactfinder/pkg/enrich"
	"github.com/dealflowhq/contactfinder/pkg/identity"
	"github.com/dealflowhq/contactfinder/pkg/score"
)

// Source identifies which stage of the fallback chain produced the contact.
type Source string

// Resolution sources, in the order the chain attempts them.
const (
	SourceCRMExisting        Source = "crm_existing"
	SourceProspeoLinkedIn    Source = "prospeo_linkedin"
	SourceAutoPipeline       Source = "auto_pipeline"
	SourceNameDomainFallback Source = "name_domain_fallback"
	SourceNotFound           Source = "not_found"
)

// urlReplaceScore is the discovery score at which a freshly discovered URL
// is trusted over a stored one that disagrees with it.
const urlReplaceScore = 40

// Record is a CRM contact row.
type Record struct {
	ID            string
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Title         string
	CompanyName   string
	CompanyDomain string
	LinkedInURL   string
}

// RecordStore reads and writes CRM contact records. Lookups return
// (nil, nil) when no record matches.
type RecordStore interface {
	FindByName(ctx context.Context, firstName, lastName string) (*Record, error)
	FindByLinkedIn(ctx context.Context, urlFragment string) (*Record, error)
	UpdateFields(ctx context.Context, id string, fields map[string]string) error
	AppendAudit(ctx context.Context, recordID, stage, detail string) error
}

// Result is the outcome of a resolution run. Steps records every stage
// attempted, in order, including the ones that failed.
type Result struct {
	Found       bool     `json:"found"`
	Source      Source   `json:"source"`
	Name        string   `json:"name"`
	Email       string   `json:"email,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Title       string   `json:"title,omitempty"`
	Company     string   `json:"company,omitempty"`
	LinkedInURL string   `json:"linkedin_url,omitempty"`
	Confidence  string   `json:"confidence,omitempty"`
	CRMUpdated  bool     `json:"crm_updated"`
	Steps       []string `json:"steps"`
}

func (r *Result) step(format string, args ...any) {
	r.Steps = append(r.Steps, fmt.Sprintf(format, args...))
}

// Resolver orchestrates the fallback chain.
type Resolver struct {
	discoverer *discover.Discoverer
	enricher   enrich.Enricher
	store      RecordStore
	logger     *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStore attaches a CRM record store. Without one, resolution still runs
// but skips the CRM lookup and persists nothing.
func WithStore(store RecordStore) Option {
	return func(r *Resolver) { r.store = store }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// New creates a Resolver from a discoverer and an enrichment provider.
func New(discoverer *discover.Discoverer, enricher enrich.Enricher, opts ...Option) *Resolver {
	r := &Resolver{
		discoverer: discoverer,
		enricher:   enricher,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs the fallback chain for one person. It returns an error only
// for invalid input; every provider or store failure along the way is
// recorded in Steps and the chain moves to the next stage. A fully
// exhausted chain returns Found=false with whatever partial data turned up.
func (r *Resolver) Resolve(ctx context.Context, p identity.Person) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	res := &Result{Name: p.FullName(), Company: p.CompanyName}

	// Stage 1: an existing CRM record with an email wins outright.
	rec := r.lookupRecord(ctx, p, res)
	if rec != nil && rec.Email != "" {
		res.Found = true
		res.Source = SourceCRMExisting
		res.Email = rec.Email
		res.Phone = rec.Phone
		res.LinkedInURL = rec.LinkedInURL
		if rec.Title != "" {
			res.Title = rec.Title
		}
		if rec.CompanyName != "" {
			res.Company = rec.CompanyName
		}
		res.Confidence = "high"
		res.step("crm: record %s already has email", rec.ID)
		r.audit(ctx, rec, res)
		return res, nil
	}

	// The CRM record can fill in company details the caller didn't have.
	if p.CompanyName == "" && rec != nil && rec.CompanyName != "" {
		p.CompanyName = rec.CompanyName
		res.Company = rec.CompanyName
		res.step("crm: adopted company %q from record", rec.CompanyName)
	}
	if p.CompanyDomain == "" && rec != nil && rec.CompanyDomain != "" {
		p.CompanyDomain = rec.CompanyDomain
	}

	// Stage 2: verify any stored LinkedIn URL against fresh discovery.
	workingURL, verified, match := r.verifyStoredURL(ctx, p, rec, res)

	// Stage 3: enrich via the stored (possibly corrected) URL.
	if workingURL != "" {
		if done := r.enrichViaURL(ctx, p, rec, res, workingURL, verified, SourceProspeoLinkedIn); done {
			r.audit(ctx, rec, res)
			return res, nil
		}
	}

	// Stage 4: discover a profile URL from scratch and enrich through it.
	var discoveredURL string
	if found := r.rediscover(ctx, p, res, match); found != nil {
		discoveredURL = found.URL
		// A record may exist under a different name spelling but the same URL.
		if rec == nil {
			rec = r.lookupByLinkedIn(ctx, discoveredURL, res)
		}
		// A first discovery is always written back; overwriting a stored
		// URL still requires the replacement score.
		switch {
		case workingURL == "":
			r.persist(ctx, rec, res, map[string]string{"linkedin_url": discoveredURL})
		case discoveredURL != workingURL && found.Score >= urlReplaceScore:
			r.persist(ctx, rec, res, map[string]string{"linkedin_url": discoveredURL})
		}
		if discoveredURL != workingURL {
			trusted := found.Score >= urlReplaceScore
			if done := r.enrichViaURL(ctx, p, rec, res, discoveredURL, trusted, SourceAutoPipeline); done {
				r.audit(ctx, rec, res)
				return res, nil
			}
		}
	}

	// Stage 5: guess email domains from the company name.
	if done := r.nameDomainFallback(ctx, p, rec, res); done {
		r.audit(ctx, rec, res)
		return res, nil
	}

	// Exhausted. Surface any URL we did find so a human can pick up the trail.
	res.Found = false
	res.Source = SourceNotFound
	if res.LinkedInURL == "" {
		if discoveredURL != "" {
			res.LinkedInURL = discoveredURL
		} else {
			res.LinkedInURL = workingURL
		}
	}
	res.step("exhausted all sources")
	r.logger.InfoContext(ctx, "resolution exhausted", "person", p.FullName())
	r.audit(ctx, rec, res)
	return res, nil
}

// lookupRecord finds the CRM record for the person, tolerating store errors.
func (r *Resolver) lookupRecord(ctx context.Context, p identity.Person, res *Result) *Record {
	if r.store == nil {
		res.step("crm: no store configured")
		return nil
	}
	rec, err := r.store.FindByName(ctx, p.FirstName, p.LastName)
	if err != nil {
		res.step("crm: lookup failed: %v", err)
		r.logger.DebugContext(ctx, "crm lookup failed", "person", p.FullName(), "error", err)
		return nil
	}
	if rec == nil {
		res.step("crm: no record for %s", p.FullName())
		return nil
	}
	res.step("crm: found record %s", rec.ID)
	return rec
}

// verifyStoredURL checks a stored LinkedIn URL against fresh discovery.
// It returns the URL to enrich through, whether that URL was independently
// confirmed, and the discovery match (reused later to avoid repeat searches).
func (r *Resolver) verifyStoredURL(ctx context.Context, p identity.Person, rec *Record, res *Result) (workingURL string, verified bool, match *discover.Match) {
	if rec == nil || rec.LinkedInURL == "" {
		return "", false, nil
	}
	workingURL = rec.LinkedInURL

	match, err := r.discoverer.Discover(ctx, p)
	if err != nil || match == nil {
		res.step("verify: could not re-discover profile, keeping stored url")
		return workingURL, false, nil
	}

	if sameProfile(match.URL, workingURL) {
		res.step("verify: stored url confirmed (score %d)", match.Score)
		return workingURL, true, match
	}

	if match.Score >= urlReplaceScore {
		res.step("verify: replacing stored url %s with %s (score %d)", workingURL, match.URL, match.Score)
		r.persist(ctx, rec, res, map[string]string{"linkedin_url": match.URL})
		return match.URL, true, match
	}

	res.step("verify: discovery disagrees (score %d < %d), keeping stored url", match.Score, urlReplaceScore)
	return workingURL, false, match
}

// enrichViaURL enriches through a LinkedIn URL and, when the result survives
// cross-validation, finalizes the resolution. Returns true when resolved.
func (r *Resolver) enrichViaURL(ctx context.Context, p identity.Person, rec *Record, res *Result, url string, urlTrusted bool, source Source) bool {
	er, err := r.enricher.Enrich(ctx, enrich.Request{LinkedInURL: url})
	if err != nil {
		res.step("enrich %s: failed: %v", url, err)
		r.logger.DebugContext(ctx, "enrichment failed", "url", url, "error", err)
		return false
	}
	if er == nil || er.Email == "" {
		res.step("enrich %s: no email returned", url)
		return false
	}

	verdict := enrich.Validate(er, p.FirstName, p.LastName, p.CompanyName)
	if !verdict.Valid && !urlTrusted {
		res.step("enrich %s: discarded, %s", url, verdict.Detail)
		return false
	}
	if !verdict.Valid {
		res.step("enrich %s: accepted on trusted url despite mismatch (%s)", url, verdict.Detail)
	} else {
		res.step("enrich %s: accepted, %s", url, verdict.Detail)
	}

	r.accept(ctx, rec, res, er, source, url)
	return true
}

// rediscover returns the profile match found by search, reusing the match
// from the verification stage when one exists so the provider isn't queried
// twice for the same person.
func (r *Resolver) rediscover(ctx context.Context, p identity.Person, res *Result, prior *discover.Match) *discover.Match {
	match := prior
	if match == nil {
		m, err := r.discoverer.Discover(ctx, p)
		if err != nil {
			res.step("discover: %v", err)
			return nil
		}
		match = m
	}
	if match == nil {
		res.step("discover: no profile found")
		return nil
	}

	res.step("discover: found %s (score %d: %s)", match.URL, match.Score, strings.Join(match.Verification, "; "))
	if res.LinkedInURL == "" {
		res.LinkedInURL = match.URL
	}
	return match
}

// lookupByLinkedIn finds a CRM record by profile slug, tolerating store errors.
func (r *Resolver) lookupByLinkedIn(ctx context.Context, url string, res *Result) *Record {
	if r.store == nil {
		return nil
	}
	slug := score.Slug(url)
	if slug == "" {
		return nil
	}
	rec, err := r.store.FindByLinkedIn(ctx, slug)
	if err != nil {
		res.step("crm: linkedin lookup failed: %v", err)
		return nil
	}
	if rec == nil {
		return nil
	}
	res.step("crm: matched record %s by linkedin url", rec.ID)
	return rec
}

// nameDomainFallback tries enrichment against guessed company email domains.
func (r *Resolver) nameDomainFallback(ctx context.Context, p identity.Person, rec *Record, res *Result) bool {
	var cands []string
	if p.CompanyDomain != "" {
		cands = append(cands, p.CompanyDomain)
	}
	cands = append(cands, domains.Candidates(p.CompanyName)...)
	if len(cands) == 0 {
		res.step("domain fallback: no company to guess domains from")
		return false
	}

	for _, domain := range cands {
		er, err := r.enricher.Enrich(ctx, enrich.Request{
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Domain:    domain,
		})
		if err != nil {
			res.step("domain fallback %s: failed: %v", domain, err)
			continue
		}
		if er == nil || er.Email == "" {
			res.step("domain fallback %s: no email", domain)
			continue
		}
		res.step("domain fallback %s: found email", domain)
		r.accept(ctx, rec, res, er, SourceNameDomainFallback, "")
		return true
	}
	return false
}

// accept finalizes a successful resolution and writes it back to the CRM.
func (r *Resolver) accept(ctx context.Context, rec *Record, res *Result, er *enrich.Result, source Source, url string) {
	res.Found = true
	res.Source = source
	res.Email = er.Email
	res.Phone = er.Phone
	res.Confidence = er.Confidence
	if er.Title != "" {
		res.Title = er.Title
	}
	if er.Company != "" && res.Company == "" {
		res.Company = er.Company
	}
	switch {
	case url != "":
		res.LinkedInURL = url
	case er.LinkedInURL != "":
		res.LinkedInURL = er.LinkedInURL
	}

	fields := map[string]string{"email": er.Email}
	if er.Phone != "" {
		fields["phone"] = er.Phone
	}
	if res.LinkedInURL != "" {
		fields["linkedin_url"] = res.LinkedInURL
	}
	r.persist(ctx, rec, res, fields)

	r.logger.InfoContext(ctx, "contact resolved", "person", res.Name,
		"source", source, "email", er.Email)
}

// persist writes fields to the CRM record, tolerating store failures.
func (r *Resolver) persist(ctx context.Context, rec *Record, res *Result, fields map[string]string) {
	if r.store == nil || rec == nil {
		return
	}
	if err := r.store.UpdateFields(ctx, rec.ID, fields); err != nil {
		res.step("crm: update failed: %v", err)
		r.logger.DebugContext(ctx, "crm update failed", "record", rec.ID, "error", err)
		return
	}
	res.CRMUpdated = true
}

// audit writes the step trail to the CRM audit log, best effort.
func (r *Resolver) audit(ctx context.Context, rec *Record, res *Result) {
	if r.store == nil || rec == nil {
		return
	}
	detail := strings.Join(res.Steps, " | ")
	if err := r.store.AppendAudit(ctx, rec.ID, string(res.Source), detail); err != nil {
		r.logger.DebugContext(ctx, "audit append failed", "record", rec.ID, "error", err)
	}
}

// sameProfile compares two LinkedIn URLs by their public slug.
func sameProfile(a, b string) bool {
	as, bs := score.Slug(a), score.Slug(b)
	return as != "" && as == bs
}
