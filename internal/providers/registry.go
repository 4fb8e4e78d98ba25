package providers

import (
	"strings"

	"github.com/crystaldolphin/shellchat/internal/schema"
)

// ProviderSpec is the metadata record for one selectable backend.
type ProviderSpec struct {
	Kind           schema.ProviderKind
	DisplayName    string // shown in menus and `shellchat status`
	MenuKey        string // choice typed at the provider menu
	EnvKey         string // env var consulted when the config has no apiKey
	DefaultAPIBase string // full endpoint URL
	DefaultModel   string
}

// Label returns the menu line for the spec, e.g. "OpenAI (gpt-4-turbo)".
func (s ProviderSpec) Label() string {
	return s.DisplayName + " (" + s.DefaultModel + ")"
}

// Style reports the wire family of the spec.
func (s ProviderSpec) Style() schema.WireStyle { return s.Kind.Style() }

// PROVIDERS is the registry. Order = menu order.
var PROVIDERS = []ProviderSpec{
	{
		Kind:           schema.ProviderOpenAI,
		DisplayName:    "OpenAI",
		MenuKey:        "1",
		EnvKey:         "OPENAI_API_KEY",
		DefaultAPIBase: "https://api.openai.com/v1/chat/completions",
		DefaultModel:   "gpt-4-turbo",
	},
	{
		Kind:           schema.ProviderSambanova,
		DisplayName:    "Sambanova",
		MenuKey:        "2",
		EnvKey:         "SAMBANOVA_API_KEY",
		DefaultAPIBase: "https://api.sambanova.ai/v1/chat/completions",
		DefaultModel:   "Meta-Llama-3.2-1B-Instruct",
	},
	{
		Kind:           schema.ProviderGemini,
		DisplayName:    "Google Gemini",
		MenuKey:        "3",
		EnvKey:         "GEMINI_API_KEY",
		DefaultAPIBase: "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent",
		DefaultModel:   "gemini-2.0-flash",
	},
}

// FindByName returns the spec whose Kind equals name (case-insensitive).
func FindByName(name string) *ProviderSpec {
	name = strings.ToLower(strings.TrimSpace(name))
	for i := range PROVIDERS {
		if string(PROVIDERS[i].Kind) == name {
			return &PROVIDERS[i]
		}
	}
	return nil
}

// FindByMenuChoice returns the spec selected by a provider-menu answer.
// Both the menu number and the provider name are accepted.
func FindByMenuChoice(choice string) *ProviderSpec {
	choice = strings.TrimSpace(choice)
	for i := range PROVIDERS {
		if PROVIDERS[i].MenuKey == choice {
			return &PROVIDERS[i]
		}
	}
	return FindByName(choice)
}
