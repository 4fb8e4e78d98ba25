package schema

import "fmt"

// ProviderKind names a concrete LLM backend.
type ProviderKind string

const (
	ProviderOpenAI    ProviderKind = "openai"
	ProviderSambanova ProviderKind = "sambanova"
	ProviderGemini    ProviderKind = "gemini"
)

// WireStyle is the request/response family a backend belongs to.
type WireStyle int

const (
	StyleOpenAI WireStyle = iota
	StyleGemini
)

func (s WireStyle) String() string {
	switch s {
	case StyleOpenAI:
		return "openai"
	case StyleGemini:
		return "gemini"
	}
	return fmt.Sprintf("WireStyle(%d)", int(s))
}

// Style reports which wire family k uses. OpenAI and Sambanova share one.
func (k ProviderKind) Style() WireStyle {
	if k == ProviderGemini {
		return StyleGemini
	}
	return StyleOpenAI
}

// ProviderConfig is the resolved provider selection for one running process.
// It is built once and never mutated.
type ProviderConfig struct {
	Provider  ProviderKind
	APIKey    string
	BaseURL   string
	ModelName string
}

// String hides the API key so configs can be logged.
func (c ProviderConfig) String() string {
	return fmt.Sprintf("%s (%s @ %s)", c.Provider, c.ModelName, c.BaseURL)
}
