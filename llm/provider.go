// Package llm defines the opaque text-completion capability consumed by the
// research agents, together with an OpenAI-compatible HTTP provider and a
// scripted provider for tests and offline development.
package llm

import (
	"context"
	"errors"
)

// ErrProviderUnavailable indicates the completion capability could not be
// reached or refused the request. Agents let it propagate; the dispatch
// boundary converts it into a failed action response.
var ErrProviderUnavailable = errors.New("llm: provider unavailable")

// Provider is the text-completion capability: one prompt in, one completion
// out. Implementations must honour ctx cancellation.
type Provider interface {
	// Invoke sends the prompt and returns the completion text.
	Invoke(ctx context.Context, prompt string) (string, error)
	// Name returns the provider name for logging.
	Name() string
}
