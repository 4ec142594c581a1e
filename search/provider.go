// Package search defines the web-search capability used during evidence
// gathering, with a DuckDuckGo-backed provider and a scripted provider for
// tests.
package search

import (
	"context"
	"errors"
)

// ErrSearchFailed indicates the search backend could not be reached or
// returned an unusable response.
var ErrSearchFailed = errors.New("search: search failed")

// Result is a single web search hit.
type Result struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// Provider is the web-search capability.
type Provider interface {
	// Search runs the query and returns up to maxResults hits.
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
	// Name returns the provider name for logging.
	Name() string
}
