package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client defines the protocol operations a caller can perform against a
// remote agent endpoint.
type Client interface {
	// Send posts a message to the agent at baseURL and waits for the
	// response envelope.
	Send(ctx context.Context, baseURL string, msg *Message) (*Message, error)
	// Capabilities retrieves the agent's static capability listing.
	Capabilities(ctx context.Context, baseURL string) (*CapabilityListing, error)
	// Health checks whether the agent endpoint is reachable and healthy.
	Health(ctx context.Context, baseURL string) error
}

// CapabilityListing is the response shape of an agent's GET /capabilities.
type CapabilityListing struct {
	AgentID      string         `json:"agent_id"`
	Name         string         `json:"name"`
	Capabilities []Capability   `json:"capabilities"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// ClientConfig holds configuration for the HTTP protocol client.
type ClientConfig struct {
	// Timeout bounds every request round trip. Calls may include
	// external-capability latency on the agent side, so this is
	// deliberately generous.
	Timeout time.Duration
	// Headers are additional headers to include in requests.
	Headers map[string]string
}

// DefaultClientConfig returns a ClientConfig with sensible defaults.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Timeout: 120 * time.Second,
	}
}

// HTTPClient is the default Client implementation over HTTP.
type HTTPClient struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTPClient with the given configuration.
func NewHTTPClient(config *ClientConfig) *HTTPClient {
	if config == nil {
		config = DefaultClientConfig()
	}
	return &HTTPClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Send posts the message to POST {baseURL}/message and decodes the response
// envelope. Transport failures are wrapped in ErrAgentUnreachable; the caller
// treats them identically to a failed response.
func (c *HTTPClient) Send(ctx context.Context, baseURL string, msg *Message) (*Message, error) {
	if msg == nil {
		return nil, fmt.Errorf("%w: nil message", ErrInvalidMessage)
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	body, err := Encode(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/message", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAgentUnreachable, baseURL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: status %d, body: %s", ErrAgentUnreachable, baseURL, resp.StatusCode, string(respBody))
	}

	return Decode(respBody)
}

// Capabilities retrieves GET {baseURL}/capabilities.
func (c *HTTPClient) Capabilities(ctx context.Context, baseURL string) (*CapabilityListing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/capabilities", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAgentUnreachable, baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: status %d", ErrAgentUnreachable, baseURL, resp.StatusCode)
	}

	var listing CapabilityListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return &listing, nil
}

// Health checks GET {baseURL}/health.
func (c *HTTPClient) Health(ctx context.Context, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrAgentUnreachable, baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: status %d", ErrAgentUnreachable, baseURL, resp.StatusCode)
	}
	return nil
}

// Ensure HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)
