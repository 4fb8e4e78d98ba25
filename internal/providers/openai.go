package providers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/crystaldolphin/shellchat/internal/schema"
)

// Fixed sampling parameters. Low randomness keeps tool directives well formed.
const (
	openAITemperature = 0.1
	openAITopP        = 0.1
)

// OpenAIAdapter speaks the chat-completions shape shared by OpenAI and Sambanova.
type OpenAIAdapter struct{}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	TopP        float64         `json:"top_p"`
}

// BuildRequest maps every message 1:1 and authenticates with a bearer token.
func (OpenAIAdapter) BuildRequest(history []schema.Message, cfg schema.ProviderConfig) (WireRequest, error) {
	msgs := make([]openAIMessage, 0, len(history))
	for _, m := range history {
		msgs = append(msgs, openAIMessage{Role: string(m.Role), Content: m.Content})
	}

	data, err := json.Marshal(openAIRequest{
		Model:       cfg.ModelName,
		Messages:    msgs,
		Temperature: openAITemperature,
		TopP:        openAITopP,
	})
	if err != nil {
		return WireRequest{}, fmt.Errorf("marshal request: %w", err)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("Authorization", "Bearer "+cfg.APIKey)

	return WireRequest{
		Method: http.MethodPost,
		URL:    cfg.BaseURL,
		Header: header,
		Body:   data,
	}, nil
}

// ParseReply reads choices[0].message.content.
func (OpenAIAdapter) ParseReply(body []byte) string {
	return replyAt(body, "choices.0.message.content")
}

// replyAt extracts a string at path, degrading to NoResponse.
func replyAt(body []byte, path string) string {
	if !gjson.ValidBytes(body) {
		body = []byte("{}")
	}
	r := gjson.GetBytes(body, path)
	if !r.Exists() || r.Type != gjson.String {
		return NoResponse
	}
	return r.String()
}
