package llm

import (
	"context"
	"sync"
)

// StaticProvider returns scripted completions in order, repeating the last
// one once the script is exhausted. Useful for tests and offline runs.
type StaticProvider struct {
	mu        sync.Mutex
	responses []string
	next      int

	// Err, when set, is returned by every Invoke instead of a completion.
	Err error
}

// NewStaticProvider creates a provider that replays the given completions.
func NewStaticProvider(responses ...string) *StaticProvider {
	if len(responses) == 0 {
		responses = []string{""}
	}
	return &StaticProvider{responses: responses}
}

// Invoke returns the next scripted completion.
func (p *StaticProvider) Invoke(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Err != nil {
		return "", p.Err
	}

	resp := p.responses[p.next]
	if p.next < len(p.responses)-1 {
		p.next++
	}
	return resp, nil
}

// Name returns the provider name.
func (p *StaticProvider) Name() string {
	return "static"
}

// Ensure StaticProvider implements Provider.
var _ Provider = (*StaticProvider)(nil)
