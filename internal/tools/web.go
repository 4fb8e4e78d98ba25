package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultSearchEndpoint is the DuckDuckGo instant answer API.
	DefaultSearchEndpoint = "https://api.duckduckgo.com/"
	// DefaultSearchTimeout bounds one search request.
	DefaultSearchTimeout = 15 * time.Second
)

// SearchTool queries a web search endpoint and returns the raw response body.
type SearchTool struct {
	endpoint   string
	httpClient *http.Client
}

// NewSearchTool creates a SearchTool. Empty endpoint and non-positive timeout
// select the defaults.
func NewSearchTool(endpoint string, timeout time.Duration) *SearchTool {
	if endpoint == "" {
		endpoint = DefaultSearchEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultSearchTimeout
	}
	return &SearchTool{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (t *SearchTool) Name() ToolName { return ToolSearch }

// Execute issues GET <endpoint>?q=<query>&format=json. Failures are folded
// into the returned text so the model always gets something back.
func (t *SearchTool) Execute(ctx context.Context, query string) string {
	u, err := url.Parse(t.endpoint)
	if err != nil {
		return fmt.Sprintf("Failed to perform web search: %v", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Sprintf("Failed to perform web search: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Sprintf("Failed to perform web search: %v", err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := string(body)
		if readErr != nil {
			text = "Could not read body"
		}
		return fmt.Sprintf("Search API returned a non-success status: %s. Body: %s", resp.Status, text)
	}
	if readErr != nil {
		return fmt.Sprintf("Failed to perform web search: %v", readErr)
	}
	return string(body)
}
