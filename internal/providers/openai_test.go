package providers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/crystaldolphin/shellchat/internal/schema"
)

func testOpenAIConfig() schema.ProviderConfig {
	return schema.ProviderConfig{
		Provider:  schema.ProviderOpenAI,
		APIKey:    "sk-test",
		BaseURL:   "https://api.openai.com/v1/chat/completions",
		ModelName: "gpt-4-turbo",
	}
}

func TestOpenAIBuildRequest(t *testing.T) {
	history := []schema.Message{
		schema.NewSystemMessage("You are an AI assistant powered by the gpt-4-turbo model."),
		schema.NewUserMessage("2+2?"),
		schema.NewAssistantMessage("4"),
	}

	wire, err := OpenAIAdapter{}.BuildRequest(history, testOpenAIConfig())
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	if wire.Method != http.MethodPost {
		t.Errorf("Method = %q, want POST", wire.Method)
	}
	if wire.URL != "https://api.openai.com/v1/chat/completions" {
		t.Errorf("URL = %q", wire.URL)
	}
	if got := wire.Header.Get("Authorization"); got != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer sk-test")
	}
	if got := wire.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}

	var body struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		Temperature float64 `json:"temperature"`
		TopP        float64 `json:"top_p"`
	}
	if err := json.Unmarshal(wire.Body, &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.Model != "gpt-4-turbo" {
		t.Errorf("model = %q", body.Model)
	}
	if body.Temperature != 0.1 || body.TopP != 0.1 {
		t.Errorf("sampling = (%v, %v), want (0.1, 0.1)", body.Temperature, body.TopP)
	}
	if len(body.Messages) != len(history) {
		t.Fatalf("got %d messages, want %d", len(body.Messages), len(history))
	}
	for i, m := range history {
		if body.Messages[i].Role != string(m.Role) || body.Messages[i].Content != m.Content {
			t.Errorf("message %d = %+v, want %+v", i, body.Messages[i], m)
		}
	}
}

func TestOpenAIBuildRequest_NoKeyInURL(t *testing.T) {
	wire, err := OpenAIAdapter{}.BuildRequest(nil, testOpenAIConfig())
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	if wire.URL != testOpenAIConfig().BaseURL {
		t.Errorf("URL = %q, key must only travel in the header", wire.URL)
	}
}

func TestOpenAIParseReply(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"content", `{"choices":[{"message":{"role":"assistant","content":"4"}}]}`, "4"},
		{"first choice wins", `{"choices":[{"message":{"content":"a"}},{"message":{"content":"b"}}]}`, "a"},
		{"empty choices", `{"choices":[]}`, NoResponse},
		{"missing message", `{"choices":[{}]}`, NoResponse},
		{"null content", `{"choices":[{"message":{"content":null}}]}`, NoResponse},
		{"non-string content", `{"choices":[{"message":{"content":42}}]}`, NoResponse},
		{"not json", `<html>oops</html>`, NoResponse},
		{"empty body", ``, NoResponse},
		{"gemini shape", `{"candidates":[{"content":{"parts":[{"text":"x"}]}}]}`, NoResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (OpenAIAdapter{}).ParseReply([]byte(tt.body)); got != tt.want {
				t.Errorf("ParseReply = %q, want %q", got, tt.want)
			}
		})
	}
}
