package search

import (
	"context"
	"sync"
)

// StaticProvider replays canned results for every query. Useful for tests
// and offline runs.
type StaticProvider struct {
	mu      sync.Mutex
	results []Result
	queries []string

	// Err, when set, is returned by every Search instead of results.
	Err error
}

// NewStaticProvider creates a provider that returns the given results.
func NewStaticProvider(results ...Result) *StaticProvider {
	return &StaticProvider{results: results}
}

// Search records the query and returns the canned results, truncated to
// maxResults.
func (p *StaticProvider) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.queries = append(p.queries, query)
	if p.Err != nil {
		return nil, p.Err
	}

	out := make([]Result, len(p.results))
	copy(out, p.results)
	if maxResults > 0 && len(out) > maxResults {
		out = out[:maxResults]
	}
	return out, nil
}

// Queries returns every query seen so far.
func (p *StaticProvider) Queries() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.queries))
	copy(out, p.queries)
	return out
}

// Name returns the provider name.
func (p *StaticProvider) Name() string {
	return "static"
}

// Ensure StaticProvider implements Provider.
var _ Provider = (*StaticProvider)(nil)
