// Package discover locates a person's LinkedIn profile URL by walking an
// ordered list of search queries and scoring every candidate result.
package discover

import (
	"context"
	"log/slog"

	"github.com/dealflowhq/contactfinder/pkg/identity"
	"github.com/dealflowhq/contactfinder/pkg/score"
	"github.com/dealflowhq/contactfinder/pkg/search"
	"github.com/dealflowhq/contactfinder/pkg/strategy"
)

const (
	// confidentScore stops the query sequence: no cheaper query can do better.
	confidentScore = 50
	// minScore is the floor below which a best candidate is treated as noise.
	minScore = 20
	// resultsPerQuery caps how many hits are scored from each search call.
	resultsPerQuery = 5
)

// Match is a discovered profile URL with its score and the matched signals.
type Match struct {
	URL          string
	Score        int
	Verification []string
}

// Discoverer runs profile discovery against a search provider.
type Discoverer struct {
	searcher search.Searcher
	logger   *slog.Logger
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Discoverer) { d.logger = logger }
}

// New creates a Discoverer backed by the given search provider.
func New(searcher search.Searcher, opts ...Option) *Discoverer {
	d := &Discoverer{
		searcher: searcher,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Discover searches for the person's LinkedIn profile. It returns nil with no
// error when nothing scores at least the minimum threshold: an unfound person
// is an expected outcome, not a failure. Search provider errors on individual
// queries are logged and skipped; only invalid input returns an error.
func (d *Discoverer) Discover(ctx context.Context, p identity.Person) (*Match, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	queries := strategy.Build(p.FirstName, p.LastName, p.CompanyName, p.Title, p.CompanyDomain)

	var best *Match
	for _, q := range queries {
		results, err := d.searcher.Search(ctx, q.Text, resultsPerQuery)
		if err != nil {
			d.logger.DebugContext(ctx, "search query failed", "label", q.Label, "error", err)
			continue
		}

		for _, r := range results {
			if !score.IsProfileURL(r.URL) {
				continue
			}
			pts, notes := score.Result(r, p.FirstName, p.LastName, p.CompanyName, p.Title)
			if best == nil || pts > best.Score {
				best = &Match{
					URL:          score.NormalizeProfileURL(r.URL),
					Score:        pts,
					Verification: notes,
				}
			}
		}

		if best != nil && best.Score >= confidentScore {
			d.logger.InfoContext(ctx, "profile found", "person", p.FullName(),
				"url", best.URL, "score", best.Score, "query", q.Label)
			return best, nil
		}
	}

	if best != nil && best.Score >= minScore {
		d.logger.InfoContext(ctx, "profile found (low confidence)", "person", p.FullName(),
			"url", best.URL, "score", best.Score)
		return best, nil
	}

	d.logger.InfoContext(ctx, "no profile found", "person", p.FullName())
	return nil, nil //nolint:nilnil // absence is a valid result
}
