package providers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/crystaldolphin/shellchat/internal/schema"
)

// geminiAck is the synthetic model turn that follows the system instruction.
const geminiAck = "Understood."

const (
	geminiRoleUser  = "user"
	geminiRoleModel = "model"
)

// GeminiAdapter speaks the generateContent shape. Gemini has no system role
// and requires user/model alternation.
type GeminiAdapter struct{}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

// BuildRequest converts history and passes the API key as a query parameter.
func (GeminiAdapter) BuildRequest(history []schema.Message, cfg schema.ProviderConfig) (WireRequest, error) {
	data, err := json.Marshal(geminiRequest{Contents: geminiContents(history)})
	if err != nil {
		return WireRequest{}, fmt.Errorf("marshal request: %w", err)
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return WireRequest{}, fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set("key", cfg.APIKey)
	u.RawQuery = q.Encode()

	header := http.Header{}
	header.Set("Content-Type", "application/json")

	return WireRequest{
		Method: http.MethodPost,
		URL:    u.String(),
		Header: header,
		Body:   data,
	}, nil
}

// ParseReply reads candidates[0].content.parts[0].text.
func (GeminiAdapter) ParseReply(body []byte) string {
	return replyAt(body, "candidates.0.content.parts.0.text")
}

// geminiContents applies the Gemini role transform:
//
//   - a leading system message becomes a user turn carrying its text followed
//     by a model turn "Understood.";
//   - assistant maps to model, every other role to user;
//   - adjacent entries with the same role are merged into one multi-part entry,
//     so the output always alternates.
func geminiContents(history []schema.Message) []geminiContent {
	out := make([]geminiContent, 0, len(history)+1)

	rest := history
	if len(history) > 0 && history[0].Role == schema.RoleSystem {
		out = append(out,
			geminiContent{Role: geminiRoleUser, Parts: []geminiPart{{Text: history[0].Content}}},
			geminiContent{Role: geminiRoleModel, Parts: []geminiPart{{Text: geminiAck}}},
		)
		rest = history[1:]
	}

	for _, m := range rest {
		role := geminiRoleUser
		if m.Role == schema.RoleAssistant {
			role = geminiRoleModel
		}
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Parts = append(out[n-1].Parts, geminiPart{Text: m.Content})
			continue
		}
		out = append(out, geminiContent{Role: role, Parts: []geminiPart{{Text: m.Content}}})
	}
	return out
}
