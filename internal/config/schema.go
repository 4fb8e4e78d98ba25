// Package config defines the configuration schema for shellchat.
//
// JSON keys use camelCase. Every field has a default so a missing or
// partial ~/.shellchat/config.json still yields a usable Config.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/crystaldolphin/shellchat/internal/config/agent"
	"github.com/crystaldolphin/shellchat/internal/config/provider"
	"github.com/crystaldolphin/shellchat/internal/config/store"
	"github.com/crystaldolphin/shellchat/internal/config/tool"
)

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string `json:"level"` // debug, info, warn, error
	File  string `json:"file"`  // empty = <data dir>/shellchat.log
}

func defaultLogConfig() LogConfig {
	return LogConfig{Level: "info"}
}

// ---- Root config -----------------------------------------------------------

// Config is the root configuration object, loaded from ~/.shellchat/config.json.
type Config struct {
	// Provider is the default provider name. Empty means ask interactively.
	Provider  string                   `json:"provider"`
	Providers provider.ProvidersConfig `json:"providers"`
	Agent     agent.AgentConfig        `json:"agent"`
	Tools     tool.ToolsConfig         `json:"tools"`
	Store     store.StoreConfig        `json:"store"`
	Log       LogConfig                `json:"log"`
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() Config {
	return Config{
		Providers: provider.DefaultProvidersConfig(),
		Agent:     agent.DefaultAgentConfig(),
		Tools:     tool.DefaultToolConfigs(),
		Store:     store.DefaultStoreConfig(),
		Log:       defaultLogConfig(),
	}
}

// StorePath returns the expanded absolute path to the session store.
func (c *Config) StorePath() string {
	p := c.Store.Path
	if p == "" {
		p = store.DefaultStoreConfig().Path
	}
	return expandHome(p)
}

// LogPath returns the expanded path of the log file.
func (c *Config) LogPath() string {
	if c.Log.File == "" {
		return filepath.Join(DataDir(), "shellchat.log")
	}
	return expandHome(c.Log.File)
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			p = filepath.Join(home, p[2:])
		}
	}
	return p
}
