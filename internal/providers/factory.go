package providers

import (
	"fmt"
	"time"

	"github.com/crystaldolphin/shellchat/internal/schema"
)

// Params are the raw values needed to construct a Client.
// Extracted from config.Config by the caller to avoid an import cycle.
type Params struct {
	ProviderName string // registry name, e.g. "openai", "gemini"
	APIKey       string
	APIBase      string // empty = registry default
	Model        string // empty = registry default
	Timeout      time.Duration
}

// Resolve turns Params into an immutable ProviderConfig, filling registry defaults.
func Resolve(p Params) (schema.ProviderConfig, error) {
	spec := FindByName(p.ProviderName)
	if spec == nil {
		return schema.ProviderConfig{}, fmt.Errorf("%w: %q", ErrUnknownProvider, p.ProviderName)
	}
	cfg := schema.ProviderConfig{
		Provider:  spec.Kind,
		APIKey:    p.APIKey,
		BaseURL:   p.APIBase,
		ModelName: p.Model,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = spec.DefaultAPIBase
	}
	if cfg.ModelName == "" {
		cfg.ModelName = spec.DefaultModel
	}
	return cfg, nil
}

// New creates the Client for the given params.
func New(p Params) (*Client, error) {
	cfg, err := Resolve(p)
	if err != nil {
		return nil, err
	}
	return NewClient(cfg, p.Timeout), nil
}
