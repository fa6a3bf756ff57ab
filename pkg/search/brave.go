package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/dealflowhq/contactfinder/pkg/httpcache"
)

// SearchCacheTTL is the cache duration for search responses (7 days).
// Personnel listings go stale faster than profile pages, so this is kept short.
const SearchCacheTTL = 7 * 24 * time.Hour

// BraveSearcher implements Searcher using the Brave Search API.
// Free tier: 2,000 queries/month, 1 query/second.
// Get an API key at https://api.search.brave.com/
type BraveSearcher struct {
	httpClient *http.Client
	cache      httpcache.Cacher
	logger     *slog.Logger
	limiter    *rate.Limiter
	apiKey     string
}

// braveResponse represents the Brave Search API response.
type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// BraveOption configures a BraveSearcher.
type BraveOption func(*BraveSearcher)

// WithBraveCache sets a cache for storing search responses.
func WithBraveCache(cache httpcache.Cacher) BraveOption {
	return func(b *BraveSearcher) { b.cache = cache }
}

// WithBraveLogger sets a logger for the searcher.
func WithBraveLogger(logger *slog.Logger) BraveOption {
	return func(b *BraveSearcher) { b.logger = logger }
}

// WithBraveRateLimit overrides the default 1 req/sec pacing.
func WithBraveRateLimit(limiter *rate.Limiter) BraveOption {
	return func(b *BraveSearcher) { b.limiter = limiter }
}

// NewBraveSearcher creates a new Brave Search API client.
// apiKey is your Brave Search API subscription token.
func NewBraveSearcher(apiKey string, opts ...BraveOption) *BraveSearcher {
	b := &BraveSearcher{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// LoadBraveAPIKey loads the Brave API key from multiple sources (in priority order):
// 1. BRAVE_API_KEY environment variable
// 2. ~/.brave file (first line, trimmed)
//
// Returns empty string if no key is found.
func LoadBraveAPIKey() string {
	if key := os.Getenv("BRAVE_API_KEY"); key != "" {
		return key
	}

	if home, err := os.UserHomeDir(); err == nil {
		braveFile := filepath.Join(home, ".brave")
		if data, err := os.ReadFile(braveFile); err == nil {
			if key := strings.TrimSpace(string(data)); key != "" {
				return key
			}
		}
	}

	return ""
}

// Search performs a web search using the Brave Search API.
// count caps the number of results requested; values outside 1..20 are clamped.
func (b *BraveSearcher) Search(ctx context.Context, query string, count int) ([]SearchResult, error) {
	if count < 1 {
		count = 1
	}
	if count > 20 {
		count = 20
	}

	if b.cache != nil {
		cacheKey := "brave:" + httpcache.Key(query+"#"+strconv.Itoa(count))
		data, err := b.cache.GetSet(ctx, cacheKey, func(ctx context.Context) ([]byte, error) {
			return b.doSearch(ctx, query, count)
		}, SearchCacheTTL)
		if err != nil {
			return nil, err
		}
		return b.parseResults(data)
	}

	data, err := b.doSearch(ctx, query, count)
	if err != nil {
		return nil, err
	}
	return b.parseResults(data)
}

// doSearch performs the actual API call.
func (b *BraveSearcher) doSearch(ctx context.Context, query string, count int) ([]byte, error) {
	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	endpoint := "https://api.search.brave.com/res/v1/web/search"

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}

	q := u.Query()
	q.Set("q", query)
	q.Set("count", strconv.Itoa(count))
	u.RawQuery = q.Encode()

	if b.logger != nil {
		b.logger.DebugContext(ctx, "brave search", "query", query, "count", count)
	}

	return httpcache.Do(ctx, b.httpClient, b.logger, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Subscription-Token", b.apiKey)
		return req, nil
	})
}

// parseResults converts the raw JSON response to SearchResult slice.
func (*BraveSearcher) parseResults(data []byte) ([]SearchResult, error) {
	var br braveResponse
	if err := json.Unmarshal(data, &br); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]SearchResult, 0, len(br.Web.Results))
	for _, r := range br.Web.Results {
		results = append(results, SearchResult{
			Title:       r.Title,
			URL:         r.URL,
			Description: r.Description,
		})
	}

	return results, nil
}
