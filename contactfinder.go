// Package contactfinder locates and enriches decision-maker contacts for
// deal sourcing: it finds a person's LinkedIn profile through web search,
// harvests a company's leadership from search results, and resolves people
// to direct emails through a chain of CRM, enrichment and discovery
// fallbacks.
//
// Basic usage:
//
//	engine, err := contactfinder.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := engine.Resolve(ctx, identity.Person{
//	    FirstName:   "Jane",
//	    LastName:    "Doe",
//	    CompanyName: "Acme Industrial Holdings",
//	})
//
// API keys are read from BRAVE_API_KEY and PROSPEO_API_KEY (or ~/.brave and
// ~/.prospeo). Both providers can be swapped out with WithSearcher and
// WithEnricher for testing.
package contactfinder

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/dealflowhq/contactfinder/pkg/discover"
	"github.com/dealflowhq/contactfinder/pkg/enrich"
	"github.com/dealflowhq/contactfinder/pkg/harvest"
	"github.com/dealflowhq/contactfinder/pkg/httpcache"
	"github.com/dealflowhq/contactfinder/pkg/identity"
	"github.com/dealflowhq/contactfinder/pkg/resolve"
	"github.com/dealflowhq/contactfinder/pkg/search"
)

// Common errors.
var (
	// ErrNoSearchKey indicates no search provider was configured and no
	// Brave API key could be found.
	ErrNoSearchKey = errors.New("no search API key found (set BRAVE_API_KEY or ~/.brave)")
	// ErrNoEnrichKey indicates no enrichment provider was configured and no
	// Prospeo API key could be found.
	ErrNoEnrichKey = errors.New("no enrichment API key found (set PROSPEO_API_KEY or ~/.prospeo)")
)

// defaultBulkDelay paces consecutive people in a bulk run so the search
// provider's free tier is not exhausted by one batch.
const defaultBulkDelay = 2 * time.Second

// Option configures an Engine.
type Option func(*config)

type config struct {
	searcher  search.Searcher
	enricher  enrich.Enricher
	store     resolve.RecordStore
	cache     httpcache.Cacher
	logger    *slog.Logger
	bulkDelay time.Duration
	noCache   bool
}

// WithSearcher replaces the default Brave search client.
func WithSearcher(s search.Searcher) Option {
	return func(c *config) { c.searcher = s }
}

// WithEnricher replaces the default Prospeo enrichment client.
func WithEnricher(e enrich.Enricher) Option {
	return func(c *config) { c.enricher = e }
}

// WithRecordStore attaches a CRM record store for lookups and write-backs.
func WithRecordStore(s resolve.RecordStore) Option {
	return func(c *config) { c.store = s }
}

// WithCache sets the HTTP response cache shared by the API clients.
func WithCache(cache httpcache.Cacher) Option {
	return func(c *config) { c.cache = cache }
}

// WithoutCache disables response caching entirely.
func WithoutCache() Option {
	return func(c *config) { c.noCache = true }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithBulkDelay sets the minimum delay between people in bulk operations.
func WithBulkDelay(d time.Duration) Option {
	return func(c *config) { c.bulkDelay = d }
}

// Engine ties the discoverer, harvester and resolver together.
type Engine struct {
	discoverer *discover.Discoverer
	harvester  *harvest.Harvester
	resolver   *resolve.Resolver
	logger     *slog.Logger
	bulkDelay  time.Duration
}

// New creates an Engine. Without WithSearcher/WithEnricher it builds the
// default Brave and Prospeo clients from ambient API keys.
func New(opts ...Option) (*Engine, error) {
	cfg := &config{
		logger:    slog.Default(),
		bulkDelay: defaultBulkDelay,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.cache == nil && !cfg.noCache {
		cache, err := httpcache.New(search.SearchCacheTTL)
		if err != nil {
			cfg.logger.Warn("disk cache unavailable, running uncached", "error", err)
		} else {
			cfg.cache = cache
		}
	}

	if cfg.searcher == nil {
		key := search.LoadBraveAPIKey()
		if key == "" {
			return nil, ErrNoSearchKey
		}
		cfg.searcher = search.NewBraveSearcher(key,
			search.WithBraveCache(cfg.cache),
			search.WithBraveLogger(cfg.logger))
	}

	if cfg.enricher == nil {
		key := enrich.LoadProspeoAPIKey()
		if key == "" {
			return nil, ErrNoEnrichKey
		}
		cfg.enricher = enrich.NewProspeoClient(key,
			enrich.WithProspeoCache(cfg.cache),
			enrich.WithProspeoLogger(cfg.logger))
	}

	discoverer := discover.New(cfg.searcher, discover.WithLogger(cfg.logger))
	resolverOpts := []resolve.Option{resolve.WithLogger(cfg.logger)}
	if cfg.store != nil {
		resolverOpts = append(resolverOpts, resolve.WithStore(cfg.store))
	}

	return &Engine{
		discoverer: discoverer,
		harvester:  harvest.New(cfg.searcher, harvest.WithLogger(cfg.logger)),
		resolver:   resolve.New(discoverer, cfg.enricher, resolverOpts...),
		logger:     cfg.logger,
		bulkDelay:  cfg.bulkDelay,
	}, nil
}

// Resolve runs the full fallback chain for one person.
func (e *Engine) Resolve(ctx context.Context, p identity.Person) (*resolve.Result, error) {
	return e.resolver.Resolve(ctx, p)
}

// ResolveAll resolves people sequentially with a pacing delay between them.
// A failed person yields a nil slot; the run continues.
func (e *Engine) ResolveAll(ctx context.Context, people []identity.Person) []*resolve.Result {
	limiter := rate.NewLimiter(rate.Every(e.bulkDelay), 1)
	results := make([]*resolve.Result, len(people))
	for i, p := range people {
		if err := limiter.Wait(ctx); err != nil {
			e.logger.InfoContext(ctx, "bulk resolve canceled", "completed", i)
			return results
		}
		res, err := e.resolver.Resolve(ctx, p)
		if err != nil {
			e.logger.DebugContext(ctx, "resolve failed", "person", p.FullName(), "error", err)
			continue
		}
		results[i] = res
	}
	return results
}

// DiscoverProfile finds a person's LinkedIn profile URL. Returns (nil, nil)
// when nothing convincing is found.
func (e *Engine) DiscoverProfile(ctx context.Context, p identity.Person) (*discover.Match, error) {
	return e.discoverer.Discover(ctx, p)
}

// DiscoverProfiles discovers people sequentially with a pacing delay.
// Failed or unfound people leave nil slots.
func (e *Engine) DiscoverProfiles(ctx context.Context, people []identity.Person) []*discover.Match {
	limiter := rate.NewLimiter(rate.Every(e.bulkDelay), 1)
	matches := make([]*discover.Match, len(people))
	for i, p := range people {
		if err := limiter.Wait(ctx); err != nil {
			e.logger.InfoContext(ctx, "bulk discovery canceled", "completed", i)
			return matches
		}
		m, err := e.discoverer.Discover(ctx, p)
		if err != nil {
			e.logger.DebugContext(ctx, "discovery failed", "person", p.FullName(), "error", err)
			continue
		}
		matches[i] = m
	}
	return matches
}

// HarvestDecisionMakers finds a company's leadership, highest confidence
// first. titleFilter ("ceo", "cfo", ...) narrows results when it can.
func (e *Engine) HarvestDecisionMakers(ctx context.Context, companyName, companyDomain, titleFilter string, maxResults int) ([]identity.Contact, error) {
	return e.harvester.Harvest(ctx, companyName, companyDomain, titleFilter, maxResults)
}
