package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// DuckDuckGoConfig configures the DuckDuckGo provider.
type DuckDuckGoConfig struct {
	// BaseURL is the API root; override it to point at a test server.
	BaseURL string `yaml:"base_url"`
	// Timeout bounds each search round trip.
	Timeout time.Duration `yaml:"timeout"`
	// RatePerSecond caps outbound queries; 0 disables the limiter.
	RatePerSecond float64 `yaml:"rate_per_second"`
}

// DefaultDuckDuckGoConfig returns a Config with sensible defaults.
func DefaultDuckDuckGoConfig() DuckDuckGoConfig {
	return DuckDuckGoConfig{
		BaseURL:       "https://api.duckduckgo.com",
		Timeout:       15 * time.Second,
		RatePerSecond: 1,
	}
}

// DuckDuckGoProvider queries the DuckDuckGo Instant Answer API. The API is
// unauthenticated, so searches are rate limited client side to stay polite.
type DuckDuckGoProvider struct {
	config     DuckDuckGoConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewDuckDuckGoProvider creates a provider for the given configuration.
func NewDuckDuckGoProvider(config DuckDuckGoConfig) *DuckDuckGoProvider {
	defaults := DefaultDuckDuckGoConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	var limiter *rate.Limiter
	if config.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RatePerSecond), 1)
	}
	return &DuckDuckGoProvider{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    limiter,
	}
}

type instantAnswer struct {
	AbstractText  string         `json:"AbstractText"`
	AbstractURL   string         `json:"AbstractURL"`
	Heading       string         `json:"Heading"`
	RelatedTopics []relatedTopic `json:"RelatedTopics"`
}

type relatedTopic struct {
	Text     string         `json:"Text"`
	FirstURL string         `json:"FirstURL"`
	Topics   []relatedTopic `json:"Topics"`
}

// Search runs the query and returns up to maxResults hits.
func (p *DuckDuckGoProvider) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
		}
	}

	endpoint := fmt.Sprintf("%s/?q=%s&format=json&no_html=1&skip_disambig=1",
		p.config.BaseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrSearchFailed, resp.StatusCode)
	}

	var answer instantAnswer
	if err := json.Unmarshal(body, &answer); err != nil {
		return nil, fmt.Errorf("%w: invalid response: %v", ErrSearchFailed, err)
	}

	results := flattenAnswer(answer, maxResults)
	return results, nil
}

// flattenAnswer turns the instant-answer payload into a flat result list,
// abstract first, then related topics depth first.
func flattenAnswer(answer instantAnswer, maxResults int) []Result {
	results := make([]Result, 0, maxResults)
	if answer.AbstractText != "" {
		results = append(results, Result{
			Title: answer.Heading,
			Body:  answer.AbstractText,
			URL:   answer.AbstractURL,
		})
	}
	var walk func(topics []relatedTopic)
	walk = func(topics []relatedTopic) {
		for _, topic := range topics {
			if maxResults > 0 && len(results) >= maxResults {
				return
			}
			if len(topic.Topics) > 0 {
				walk(topic.Topics)
				continue
			}
			if topic.Text == "" {
				continue
			}
			results = append(results, Result{
				Title: topic.Text,
				Body:  topic.Text,
				URL:   topic.FirstURL,
			})
		}
	}
	walk(answer.RelatedTopics)
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// Name returns the provider name.
func (p *DuckDuckGoProvider) Name() string {
	return "duckduckgo"
}

// Ensure DuckDuckGoProvider implements Provider.
var _ Provider = (*DuckDuckGoProvider)(nil)
