package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/crystaldolphin/shellchat/internal/providers"
)

// ErrMissingAPIKey is returned when neither the config file nor the
// environment supplies a key for the chosen provider.
var ErrMissingAPIKey = errors.New("API key not set")

// getenv is replaced in tests.
var getenv = os.Getenv

// APIKey resolves the key for the named provider: config first, then the
// provider's environment variable.
func (c *Config) APIKey(name string) string {
	name = normalizeName(name)
	if p := c.Providers.ByName(name); p != nil && p.APIKey != "" {
		return p.APIKey
	}
	if spec := providers.FindByName(name); spec != nil {
		return getenv(spec.EnvKey)
	}
	return ""
}

// ProviderParams assembles the client parameters for the named provider.
// An empty name uses c.Provider.
func (c *Config) ProviderParams(name string) (providers.Params, error) {
	if name == "" {
		name = c.Provider
	}
	name = normalizeName(name)
	spec := providers.FindByName(name)
	if spec == nil {
		return providers.Params{}, fmt.Errorf("%w: %q", providers.ErrUnknownProvider, name)
	}

	key := c.APIKey(name)
	if key == "" {
		return providers.Params{}, fmt.Errorf("%w: set %s or providers.%s.apiKey", ErrMissingAPIKey, spec.EnvKey, name)
	}

	p := providers.Params{
		ProviderName: name,
		APIKey:       key,
		Timeout:      c.AgentTimeout(),
	}
	if pc := c.Providers.ByName(name); pc != nil {
		p.APIBase = pc.APIBase
		p.Model = pc.Model
	}
	return p, nil
}

// AgentTimeout is the per-call model timeout.
func (c *Config) AgentTimeout() time.Duration {
	if c.Agent.TimeoutSeconds <= 0 {
		return providers.DefaultTimeout
	}
	return time.Duration(c.Agent.TimeoutSeconds) * time.Second
}

// SearchTimeout is the per-request web search timeout.
func (c *Config) SearchTimeout() time.Duration {
	return time.Duration(c.Tools.Web.Search.TimeoutSeconds) * time.Second
}

// normalizeName lowercases a provider name so config sections match the
// case-insensitive registry lookup.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
