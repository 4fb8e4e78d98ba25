package agent

// WebSearch policies for new sessions.
const (
	WebSearchAsk    = "ask"
	WebSearchAlways = "always"
	WebSearchNever  = "never"
)

type AgentConfig struct {
	TimeoutSeconds int `json:"timeoutSeconds"`
	// WebSearch decides whether interactive sessions prompt for web search.
	WebSearch string `json:"webSearch"`
}

func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		TimeoutSeconds: 90,
		WebSearch:      WebSearchAsk,
	}
}
