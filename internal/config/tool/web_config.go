package tool

// WebSearchConfig configures the web-search tool.
type WebSearchConfig struct {
	Endpoint       string `json:"endpoint"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

func DefaultWebSearchConfig() WebSearchConfig {
	return WebSearchConfig{
		Endpoint:       "https://api.duckduckgo.com/",
		TimeoutSeconds: 15,
	}
}

// WebToolsConfig groups web-related tool settings.
type WebToolsConfig struct {
	Search WebSearchConfig `json:"search"`
}

func DefaultWebToolsConfig() WebToolsConfig {
	return WebToolsConfig{Search: DefaultWebSearchConfig()}
}
