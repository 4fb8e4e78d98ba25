package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crystaldolphin/shellchat/internal/schema"
	"github.com/crystaldolphin/shellchat/internal/shared/llmutils"
	"github.com/crystaldolphin/shellchat/internal/tools"
)

// run is the body of one non-empty turn: user message, model call, at most
// one tool execution and one follow-up call. Caller holds e.mu.
func (e *Engine) run(ctx context.Context, input string) (TurnResult, error) {
	e.history.AddUser(input)
	if err := e.persist(ctx, schema.RoleUser, input); err != nil {
		return TurnResult{Status: TurnFailed}, err
	}

	e.setState(StateCallingModel)
	reply, err := e.model.Complete(ctx, e.history.Messages())
	if err != nil {
		slog.Error("LLM error", "session", e.sessionID, "err", err)
		return TurnResult{Status: TurnFailed}, fmt.Errorf("call model: %w", err)
	}

	out := e.dispatcher.Inspect(tools.WithToolStart(ctx, e.reporter.ToolStarting), reply, e.webSearch)
	switch out.Kind {
	case tools.KindInvalid:
		slog.Warn("Invalid tool directive", "session", e.sessionID, "reply", llmutils.Truncate(reply, 80))
		e.reporter.InvalidDirective(reply)
		return TurnResult{Status: TurnInvalid, Tool: out}, nil

	case tools.KindNone:
		return e.finalize(ctx, reply, out)
	}

	// The directive and the tool output stay in memory only.
	e.setState(StateExecutingTool)
	e.history.AddAssistant(out.Reply)
	e.history.Append(out.FollowUp())
	e.reporter.ToolExecuted(out)

	e.setState(StateCallingModelAgain)
	final, err := e.model.Complete(ctx, e.history.Messages())
	if err != nil {
		slog.Error("LLM error after tool", "session", e.sessionID, "tool", out.Kind, "err", err)
		return TurnResult{Status: TurnFailed, Tool: out}, fmt.Errorf("call model after %s: %w", out.Kind, err)
	}
	return e.finalize(ctx, final, out)
}

func (e *Engine) finalize(ctx context.Context, reply string, out tools.Outcome) (TurnResult, error) {
	e.setState(StateFinalized)
	e.history.AddAssistant(reply)
	if err := e.persist(ctx, schema.RoleAssistant, reply); err != nil {
		return TurnResult{Status: TurnFailed, Tool: out}, err
	}
	return TurnResult{Status: TurnCompleted, Reply: reply, Tool: out}, nil
}
