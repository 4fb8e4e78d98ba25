// Package cmd implements the shellchat CLI using cobra.
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/shellchat/internal/config"
	"github.com/crystaldolphin/shellchat/internal/logging"
)

const version = "0.1.0"

var (
	rootConfigPath string
	rootLogs       bool
)

// cfg is loaded once in PersistentPreRunE.
var cfg *config.Config

// logCloser releases the log file opened by PersistentPreRunE.
var logCloser io.Closer = io.NopCloser(nil)

// stdin is shared by the menus and the chat prompt so buffered input is
// never lost between them.
var stdin = bufio.NewScanner(os.Stdin)

// rootCmd is the base command. Without a subcommand it opens the
// interactive main menu.
var rootCmd = &cobra.Command{
	Use:               "shellchat",
	Short:             "Terminal chat with OpenAI, Sambanova or Gemini, plus shell and web tools",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runMenu,
}

// Execute runs the root command and exits on error.
func Execute() {
	err := rootCmd.Execute()
	_ = logCloser.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Config file (default ~/.shellchat/config.json)")
	rootCmd.PersistentFlags().BoolVar(&rootLogs, "logs", false, "Write runtime logs to stderr")

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(cronCmd)
}

func setup(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(rootConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = loaded

	closer, err := logging.Setup(cfg.Log.Level, cfg.LogPath(), rootLogs)
	if err != nil {
		return err
	}
	logCloser = closer
	return nil
}

// readLine returns the next trimmed line from stdin, or false at EOF.
func readLine() (string, bool) {
	if !stdin.Scan() {
		return "", false
	}
	return strings.TrimSpace(stdin.Text()), true
}
