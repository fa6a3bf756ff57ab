package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/dealflowhq/contactfinder/pkg/httpcache"
)

// EnrichCacheTTL is the cache duration for enrichment responses (30 days).
const EnrichCacheTTL = 30 * 24 * time.Hour

const (
	prospeoSocialURLEndpoint   = "https://api.prospeo.io/social-url-enrichment"
	prospeoEmailFinderEndpoint = "https://api.prospeo.io/email-finder"
)

// ProspeoClient implements Enricher using the Prospeo API.
// Get an API key at https://prospeo.io/
type ProspeoClient struct {
	httpClient *http.Client
	cache      httpcache.Cacher
	logger     *slog.Logger
	limiter    *rate.Limiter
	apiKey     string
}

// ProspeoOption configures a ProspeoClient.
type ProspeoOption func(*ProspeoClient)

// WithProspeoCache sets a cache for storing enrichment responses.
func WithProspeoCache(cache httpcache.Cacher) ProspeoOption {
	return func(p *ProspeoClient) { p.cache = cache }
}

// WithProspeoLogger sets a logger for the client.
func WithProspeoLogger(logger *slog.Logger) ProspeoOption {
	return func(p *ProspeoClient) { p.logger = logger }
}

// WithProspeoRateLimit overrides the default 1 req/sec pacing.
func WithProspeoRateLimit(limiter *rate.Limiter) ProspeoOption {
	return func(p *ProspeoClient) { p.limiter = limiter }
}

// NewProspeoClient creates a new Prospeo API client.
func NewProspeoClient(apiKey string, opts ...ProspeoOption) *ProspeoClient {
	p := &ProspeoClient{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LoadProspeoAPIKey loads the Prospeo API key from multiple sources
// (in priority order):
// 1. PROSPEO_API_KEY environment variable
// 2. ~/.prospeo file (first line, trimmed)
//
// Returns empty string if no key is found.
func LoadProspeoAPIKey() string {
	if key := os.Getenv("PROSPEO_API_KEY"); key != "" {
		return key
	}

	if home, err := os.UserHomeDir(); err == nil {
		keyFile := filepath.Join(home, ".prospeo")
		if data, err := os.ReadFile(keyFile); err == nil {
			if key := strings.TrimSpace(string(data)); key != "" {
				return key
			}
		}
	}

	return ""
}

// prospeoResponse is the common envelope for Prospeo endpoints.
type prospeoResponse struct {
	Error    bool `json:"error"`
	Response struct {
		Email struct {
			Email  string `json:"email"`
			Status string `json:"status"`
		} `json:"email"`
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		JobTitle    string `json:"job_title"`
		Company     string `json:"company"`
		CompanyName string `json:"company_name"`
		LinkedInURL string `json:"linkedin_url"`
		Phone       string `json:"mobile"`
	} `json:"response"`
}

// Enrich looks up contact details. With a LinkedIn URL it calls the
// social-url-enrichment endpoint; with a name and domain it calls the
// email-finder endpoint. Returns (nil, nil) when the provider has no match.
func (p *ProspeoClient) Enrich(ctx context.Context, req Request) (*Result, error) {
	switch {
	case strings.TrimSpace(req.LinkedInURL) != "":
		return p.call(ctx, prospeoSocialURLEndpoint, map[string]string{
			"url": req.LinkedInURL,
		})
	case req.FirstName != "" && req.LastName != "" && req.Domain != "":
		return p.call(ctx, prospeoEmailFinderEndpoint, map[string]string{
			"first_name": req.FirstName,
			"last_name":  req.LastName,
			"company":    req.Domain,
		})
	default:
		return nil, fmt.Errorf("enrich request needs a linkedin url or name+domain")
	}
}

func (p *ProspeoClient) call(ctx context.Context, endpoint string, payload map[string]string) (*Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	var data []byte
	if p.cache != nil {
		cacheKey := "prospeo:" + httpcache.Key(endpoint+"#"+string(body))
		data, err = p.cache.GetSet(ctx, cacheKey, func(ctx context.Context) ([]byte, error) {
			return p.doCall(ctx, endpoint, body)
		}, EnrichCacheTTL)
	} else {
		data, err = p.doCall(ctx, endpoint, body)
	}
	if err != nil {
		// Prospeo answers 400/404 when it simply has no match.
		var httpErr *httpcache.HTTPError
		if errors.As(err, &httpErr) &&
			(httpErr.StatusCode == http.StatusBadRequest || httpErr.StatusCode == http.StatusNotFound) {
			p.logger.DebugContext(ctx, "prospeo: no match", "endpoint", endpoint)
			return nil, nil //nolint:nilnil // absence is a valid result
		}
		return nil, err
	}

	return p.parseResult(data)
}

func (p *ProspeoClient) doCall(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	p.logger.DebugContext(ctx, "prospeo call", "endpoint", endpoint)

	return httpcache.Do(ctx, p.httpClient, p.logger, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-KEY", p.apiKey)
		return req, nil
	})
}

func (*ProspeoClient) parseResult(data []byte) (*Result, error) {
	var pr prospeoResponse
	if err := json.Unmarshal(data, &pr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if pr.Error {
		return nil, nil //nolint:nilnil // provider reported no data
	}

	r := &Result{
		FirstName:   pr.Response.FirstName,
		LastName:    pr.Response.LastName,
		Email:       pr.Response.Email.Email,
		Phone:       pr.Response.Phone,
		Title:       pr.Response.JobTitle,
		Company:     pr.Response.Company,
		LinkedInURL: pr.Response.LinkedInURL,
		Confidence:  pr.Response.Email.Status,
		Source:      "prospeo",
	}
	if r.Company == "" {
		r.Company = pr.Response.CompanyName
	}
	if r.Email == "" && r.Phone == "" && r.FirstName == "" {
		return nil, nil //nolint:nilnil // empty payload, treat as no data
	}
	return r, nil
}
