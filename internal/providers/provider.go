// Package providers converts a provider-neutral message history into each
// backend's wire format and extracts the reply text from its response.
//
// Two wire families exist: OpenAI-style (OpenAI, Sambanova) and Gemini-style.
// Adapters are pure; Client owns the HTTP round trip.
package providers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/crystaldolphin/shellchat/internal/schema"
)

// NoResponse is returned by ParseReply when the reply field is absent or the
// body is not valid JSON.
const NoResponse = "[No response]"

// ErrUnknownProvider is returned when a provider name is not in the registry.
var ErrUnknownProvider = errors.New("unknown provider")

// WireRequest is a fully built backend request, ready to send.
type WireRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Adapter builds requests for, and parses replies from, one wire family.
type Adapter interface {
	BuildRequest(history []schema.Message, cfg schema.ProviderConfig) (WireRequest, error)
	ParseReply(body []byte) string
}

// APIError is a non-success HTTP status from the model backend.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API Error: %s (%d %s)", e.Body, e.StatusCode, http.StatusText(e.StatusCode))
}

// NewAdapter returns the Adapter for the given wire style.
func NewAdapter(style schema.WireStyle) Adapter {
	if style == schema.StyleGemini {
		return GeminiAdapter{}
	}
	return OpenAIAdapter{}
}
