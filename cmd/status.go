package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/shellchat/internal/config"
	"github.com/crystaldolphin/shellchat/internal/providers"
	"github.com/crystaldolphin/shellchat/internal/shared/llmutils"
	"github.com/crystaldolphin/shellchat/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show shellchat status",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := rootConfigPath
	if cfgPath == "" {
		cfgPath = config.ConfigPath()
	}

	fmt.Printf("shellchat %s status\n\n", version)
	fmt.Printf("Config:   %s %s\n", cfgPath, existsMark(cfgPath))
	fmt.Printf("Store:    %s %s (%s)\n", cfg.StorePath(), existsMark(cfg.StorePath()),
		llmutils.StringOrDefault(cfg.Store.Driver, store.DriverSQLite))
	fmt.Printf("Log file: %s\n", cfg.LogPath())

	fmt.Printf("Provider: %s\n", llmutils.StringOrDefault(cfg.Provider, "(ask at startup)"))
	fmt.Printf("Web search: %s\n\n", cfg.Agent.WebSearch)

	fmt.Println("Providers:")
	for _, spec := range providers.PROVIDERS {
		name := string(spec.Kind)
		model := spec.DefaultModel
		if pc := cfg.Providers.ByName(name); pc != nil && pc.Model != "" {
			model = pc.Model
		}
		label := fmt.Sprintf("%s (%s)", spec.DisplayName, model)
		if cfg.APIKey(name) != "" {
			fmt.Printf("  %-40s ✓\n", label)
		} else {
			fmt.Printf("  %-40s (set %s)\n", label, spec.EnvKey)
		}
	}
	return nil
}

func existsMark(path string) string {
	if _, err := os.Stat(path); err == nil {
		return "✓"
	}
	return "✗"
}
