package providers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/crystaldolphin/shellchat/internal/schema"
)

// DefaultTimeout bounds one model call.
const DefaultTimeout = 90 * time.Second

// Client sends histories to one configured backend.
type Client struct {
	cfg        schema.ProviderConfig
	adapter    Adapter
	httpClient *http.Client
}

// NewClient builds a Client for cfg. timeout <= 0 selects DefaultTimeout.
func NewClient(cfg schema.ProviderConfig, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		cfg:        cfg,
		adapter:    NewAdapter(cfg.Provider.Style()),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Config returns the provider selection this client was built with.
func (c *Client) Config() schema.ProviderConfig { return c.cfg }

// ModelName returns the configured model.
func (c *Client) ModelName() string { return c.cfg.ModelName }

// Complete sends history and returns the reply text.
//
// A transport failure or non-success status is an error; a body that cannot
// be parsed degrades to NoResponse.
func (c *Client) Complete(ctx context.Context, history []schema.Message) (string, error) {
	wire, err := c.adapter.BuildRequest(history, c.cfg)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, wire.Method, wire.URL, bytes.NewReader(wire.Body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header = wire.Header

	slog.Info("LLM call", "provider", c.cfg.Provider, "model", c.cfg.ModelName, "messages", len(history))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = redactURL(uerr.URL)
		}
		return "", fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := strings.TrimSpace(string(raw))
		if err != nil {
			body = "Could not read error body"
		}
		return "", &APIError{StatusCode: resp.StatusCode, Body: body}
	}
	if err != nil {
		slog.Warn("read response body", "err", err)
		raw = nil
	}

	return c.adapter.ParseReply(raw), nil
}

// redactURL hides the key query parameter used by Gemini-style auth.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "[redacted URL]"
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
