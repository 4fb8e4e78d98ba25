package providers

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/crystaldolphin/shellchat/internal/schema"
)

func testGeminiConfig() schema.ProviderConfig {
	return schema.ProviderConfig{
		Provider:  schema.ProviderGemini,
		APIKey:    "g-key",
		BaseURL:   "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent",
		ModelName: "gemini-2.0-flash",
	}
}

func TestGeminiContents_SystemBecomesExchange(t *testing.T) {
	got := geminiContents([]schema.Message{
		schema.NewSystemMessage("be terse"),
		schema.NewUserMessage("hi"),
		schema.NewAssistantMessage("hello"),
	})

	want := []geminiContent{
		{Role: "user", Parts: []geminiPart{{Text: "be terse"}}},
		{Role: "model", Parts: []geminiPart{{Text: "Understood."}}},
		{Role: "user", Parts: []geminiPart{{Text: "hi"}}},
		{Role: "model", Parts: []geminiPart{{Text: "hello"}}},
	}
	assertContents(t, got, want)
}

func TestGeminiContents_ToolResultMapsToUser(t *testing.T) {
	got := geminiContents([]schema.Message{
		schema.NewSystemMessage("sys"),
		schema.NewUserMessage("list files"),
		schema.NewAssistantMessage("[RUN_COMMAND ls]"),
		schema.NewSystemMessage("Command output:\na.txt\n"),
	})

	want := []geminiContent{
		{Role: "user", Parts: []geminiPart{{Text: "sys"}}},
		{Role: "model", Parts: []geminiPart{{Text: "Understood."}}},
		{Role: "user", Parts: []geminiPart{{Text: "list files"}}},
		{Role: "model", Parts: []geminiPart{{Text: "[RUN_COMMAND ls]"}}},
		{Role: "user", Parts: []geminiPart{{Text: "Command output:\na.txt\n"}}},
	}
	assertContents(t, got, want)
}

func TestGeminiContents_MergesAdjacentSameRole(t *testing.T) {
	// An aborted turn leaves two user messages next to each other.
	got := geminiContents([]schema.Message{
		schema.NewSystemMessage("sys"),
		schema.NewUserMessage("first"),
		schema.NewUserMessage("second"),
	})

	want := []geminiContent{
		{Role: "user", Parts: []geminiPart{{Text: "sys"}}},
		{Role: "model", Parts: []geminiPart{{Text: "Understood."}}},
		{Role: "user", Parts: []geminiPart{{Text: "first"}, {Text: "second"}}},
	}
	assertContents(t, got, want)
}

func TestGeminiContents_NoSystemKeepsFirstMessage(t *testing.T) {
	got := geminiContents([]schema.Message{
		schema.NewUserMessage("hi"),
	})
	want := []geminiContent{{Role: "user", Parts: []geminiPart{{Text: "hi"}}}}
	assertContents(t, got, want)
}

func TestGeminiContents_StrictAlternation(t *testing.T) {
	roles := []schema.Role{schema.RoleUser, schema.RoleAssistant, schema.RoleSystem}

	// Enumerate every history of length <= 5 after the leading system message.
	var histories [][]schema.Message
	var build func(prefix []schema.Message, depth int)
	build = func(prefix []schema.Message, depth int) {
		h := append([]schema.Message{schema.NewSystemMessage("sys")}, prefix...)
		histories = append(histories, h)
		if depth == 0 {
			return
		}
		for _, r := range roles {
			next := append(append([]schema.Message{}, prefix...), schema.Message{Role: r, Content: string(r)})
			build(next, depth-1)
		}
	}
	build(nil, 5)

	for _, h := range histories {
		out := geminiContents(h)
		if len(out) == 0 || out[0].Role != "user" {
			t.Fatalf("history %v: output must start with user, got %+v", h, out)
		}
		for i := 1; i < len(out); i++ {
			if out[i].Role == out[i-1].Role {
				t.Fatalf("history %v: roles %d and %d are both %q", h, i-1, i, out[i].Role)
			}
		}
	}
}

func TestGeminiBuildRequest(t *testing.T) {
	wire, err := GeminiAdapter{}.BuildRequest([]schema.Message{
		schema.NewSystemMessage("sys"),
		schema.NewUserMessage("hi"),
	}, testGeminiConfig())
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}

	u, err := url.Parse(wire.URL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if got := u.Query().Get("key"); got != "g-key" {
		t.Errorf("key query param = %q, want %q", got, "g-key")
	}
	if !strings.HasSuffix(u.Path, "gemini-2.0-flash:generateContent") {
		t.Errorf("path = %q", u.Path)
	}
	if wire.Header.Get("Authorization") != "" {
		t.Error("Gemini requests must not carry a bearer header")
	}

	var body struct {
		Contents []struct {
			Role  string `json:"role"`
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}
	if err := json.Unmarshal(wire.Body, &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if len(body.Contents) != 3 {
		t.Fatalf("got %d contents, want 3", len(body.Contents))
	}
	if body.Contents[2].Role != "user" || body.Contents[2].Parts[0].Text != "hi" {
		t.Errorf("last content = %+v", body.Contents[2])
	}
}

func TestGeminiParseReply(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"text", `{"candidates":[{"content":{"parts":[{"text":"Paris"}],"role":"model"}}]}`, "Paris"},
		{"no candidates", `{"candidates":[]}`, NoResponse},
		{"no parts", `{"candidates":[{"content":{"parts":[]}}]}`, NoResponse},
		{"blocked", `{"promptFeedback":{"blockReason":"SAFETY"}}`, NoResponse},
		{"not json", `garbage`, NoResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (GeminiAdapter{}).ParseReply([]byte(tt.body)); got != tt.want {
				t.Errorf("ParseReply = %q, want %q", got, tt.want)
			}
		})
	}
}

func assertContents(t *testing.T, got, want []geminiContent) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d contents, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].Role != want[i].Role {
			t.Errorf("content %d role = %q, want %q", i, got[i].Role, want[i].Role)
		}
		if len(got[i].Parts) != len(want[i].Parts) {
			t.Errorf("content %d has %d parts, want %d", i, len(got[i].Parts), len(want[i].Parts))
			continue
		}
		for j := range want[i].Parts {
			if got[i].Parts[j].Text != want[i].Parts[j].Text {
				t.Errorf("content %d part %d = %q, want %q", i, j, got[i].Parts[j].Text, want[i].Parts[j].Text)
			}
		}
	}
}
