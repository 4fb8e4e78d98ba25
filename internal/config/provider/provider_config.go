package provider

const (
	ProviderOpenAI    = "openai"
	ProviderSambanova = "sambanova"
	ProviderGemini    = "gemini"
)

// ProviderConfig holds credentials and overrides for one LLM provider.
// Empty fields fall back to the environment and the provider registry.
type ProviderConfig struct {
	APIKey  string `json:"apiKey"`
	APIBase string `json:"apiBase,omitempty"`
	Model   string `json:"model,omitempty"`
}

// ProvidersConfig holds credentials for all supported LLM providers.
type ProvidersConfig struct {
	OpenAI    ProviderConfig `json:"openai"`
	Sambanova ProviderConfig `json:"sambanova"`
	Gemini    ProviderConfig `json:"gemini"`
}

func DefaultProvidersConfig() ProvidersConfig {
	return ProvidersConfig{}
}

// ByName returns a pointer to the ProviderConfig field matching the given
// registry name. Returns nil if the name is unknown.
func (p *ProvidersConfig) ByName(name string) *ProviderConfig {
	switch name {
	case ProviderOpenAI:
		return &p.OpenAI
	case ProviderSambanova:
		return &p.Sambanova
	case ProviderGemini:
		return &p.Gemini
	}
	return nil
}
