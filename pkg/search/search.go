// Package search defines the web search interface used by the discovery
// packages, plus the Brave Search API implementation.
package search

import "context"

// SearchResult represents one web search hit.
type SearchResult struct {
	Title       string
	URL         string
	Description string
}

// Searcher performs web searches. Implementations should honor the count
// hint but may return fewer results.
type Searcher interface {
	Search(ctx context.Context, query string, count int) ([]SearchResult, error)
}
