package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIProvider_Invoke(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "refine this", req.Messages[0].Content)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "refined"}},
			},
		})
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(Config{BaseURL: srv.URL, APIKey: "test-key", Model: "gpt-4o-mini"})

	out, err := provider.Invoke(context.Background(), "refine this")
	require.NoError(t, err)
	assert.Equal(t, "refined", out)
}

func TestOpenAIProvider_Invoke_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(Config{BaseURL: srv.URL})

	_, err := provider.Invoke(context.Background(), "x")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestOpenAIProvider_Invoke_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(Config{BaseURL: srv.URL})

	_, err := provider.Invoke(context.Background(), "x")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestOpenAIProvider_Invoke_ConnectFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	provider := NewOpenAIProvider(Config{BaseURL: srv.URL})

	_, err := provider.Invoke(context.Background(), "x")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestStaticProvider_Invoke(t *testing.T) {
	provider := NewStaticProvider("one", "two")

	out, err := provider.Invoke(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "one", out)

	out, err = provider.Invoke(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "two", out)

	// The last completion repeats once exhausted.
	out, err = provider.Invoke(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "two", out)
}

func TestStaticProvider_Err(t *testing.T) {
	provider := NewStaticProvider("x")
	provider.Err = ErrProviderUnavailable

	_, err := provider.Invoke(context.Background(), "p")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}
