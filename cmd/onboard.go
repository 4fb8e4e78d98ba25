package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/shellchat/internal/config"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize configuration and data directory",
	RunE:  runOnboard,
}

func runOnboard(_ *cobra.Command, _ []string) error {
	cfgPath := rootConfigPath
	if cfgPath == "" {
		cfgPath = config.ConfigPath()
	}

	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Printf("Config already exists at %s\n", cfgPath)
		fmt.Printf("Press Enter to refresh (keep existing values) or Ctrl+C to cancel: ")
		readLine()
		// cfg was loaded from cfgPath; saving it fills in new default keys.
		if err := config.Save(cfg, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Config refreshed at %s\n", cfgPath)
	} else {
		def := config.DefaultConfig()
		if err := config.Save(&def, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Created config at %s\n", cfgPath)
	}

	dataDir := config.DataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	fmt.Printf("✓ Data directory at %s\n", dataDir)

	fmt.Println("\nshellchat is ready!")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  1. Add an API key to %s\n", cfgPath)
	fmt.Println("     or export OPENAI_API_KEY, SAMBANOVA_API_KEY or GEMINI_API_KEY")
	fmt.Println("  2. Chat: shellchat chat -p openai -m \"Hello!\"")
	return nil
}
