package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/shellchat/internal/agent"
	agentcfg "github.com/crystaldolphin/shellchat/internal/config/agent"
	"github.com/crystaldolphin/shellchat/internal/dependency"
	"github.com/crystaldolphin/shellchat/internal/ui"
)

var (
	chatMessage   string
	chatResume    string
	chatProvider  string
	chatWebSearch bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a chat session",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Send a single message and exit")
	chatCmd.Flags().StringVar(&chatResume, "resume", "", "Continue a stored session by ID")
	chatCmd.Flags().StringVarP(&chatProvider, "provider", "p", "", "Provider: openai, sambanova or gemini")
	chatCmd.Flags().BoolVar(&chatWebSearch, "web-search", false, "Enable web search without asking")
}

// chatOptions are the per-session choices of the chat command.
type chatOptions struct {
	message   string
	resume    string
	webSearch *bool // nil = follow agent.webSearch from config
}

func runChat(cmd *cobra.Command, _ []string) error {
	p := ui.NewPrinter(cmd.OutOrStdout())

	c, err := dependency.New(cfg, dependency.Options{Provider: chatProvider, Out: cmd.OutOrStdout()})
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, stop := interactiveContext()
	defer stop()

	opts := chatOptions{message: chatMessage, resume: chatResume}
	if cmd.Flags().Changed("web-search") {
		opts.webSearch = &chatWebSearch
	}
	return startChat(ctx, c, p, opts)
}

// startChat builds an engine for one session and runs it, either for a
// single message or as a read-eval loop on stdin.
func startChat(ctx context.Context, c *dependency.Container, p *ui.Printer, opts chatOptions) error {
	factory, err := c.EngineFactory()
	if err != nil {
		return err
	}

	if opts.resume != "" {
		s, err := c.Store()
		if err != nil {
			return err
		}
		if _, err := s.GetSession(ctx, opts.resume); err != nil {
			return fmt.Errorf("resume session %s: %w", opts.resume, err)
		}
	}

	webSearch := chooseWebSearch(p, opts)
	engine, err := factory.NewEngine(ctx, agent.SessionOptions{
		ID:        opts.resume,
		WebSearch: webSearch,
		Resume:    opts.resume != "",
	})
	if err != nil {
		return err
	}
	slog.Info("Chat session started",
		"session", engine.SessionID(), "model", factory.ModelName(), "webSearch", engine.WebSearch())

	if opts.message != "" {
		res, err := engine.Turn(ctx, opts.message)
		if _, err := reportTurn(p, res, err); err != nil {
			return err
		}
		if res.Status == agent.TurnFailed {
			return errors.New("model call failed")
		}
		return nil
	}

	if opts.resume != "" {
		p.Muted(fmt.Sprintf("Resumed session %s (%d stored messages)", engine.SessionID(), len(engine.History())-1))
	}
	return chatLoop(ctx, engine, p)
}

// chooseWebSearch applies the flag override, then the configured policy.
// Only an interactive session is asked.
func chooseWebSearch(p *ui.Printer, opts chatOptions) bool {
	if opts.webSearch != nil {
		return *opts.webSearch
	}
	switch cfg.Agent.WebSearch {
	case agentcfg.WebSearchAlways:
		return true
	case agentcfg.WebSearchNever:
		return false
	}
	if opts.message != "" {
		return false
	}

	p.Ask("Enable web search for this session? (y/n): ")
	answer, _ := readLine()
	return strings.EqualFold(answer, "y")
}

func chatLoop(ctx context.Context, engine *agent.Engine, p *ui.Printer) error {
	p.Title("New chat session started. Type 'exit' to quit.")
	p.Line("")

	for {
		p.Prompt()
		line, ok := readLine()
		if !ok {
			p.Title("Session ended.")
			return nil
		}

		res, err := engine.Turn(ctx, line)
		done, err := reportTurn(p, res, err)
		if done {
			return err
		}
	}
}

// reportTurn prints the outcome of one turn. done reports whether the
// session is over; a returned error is fatal for it.
func reportTurn(p *ui.Printer, res agent.TurnResult, err error) (done bool, _ error) {
	if err != nil {
		if errors.Is(err, agent.ErrPersist) || res.Status != agent.TurnFailed {
			return true, err
		}
		label := "API Error"
		if res.Tool.Detected() {
			label = "API Error after tool use"
		}
		cause := errors.Unwrap(err)
		if cause == nil {
			cause = err
		}
		p.APIError(label, cause)
		return false, nil
	}

	switch res.Status {
	case agent.TurnCompleted:
		p.Assistant(res.Reply)
	case agent.TurnExit:
		p.Title("Session ended.")
		return true, nil
	}
	return false, nil
}
