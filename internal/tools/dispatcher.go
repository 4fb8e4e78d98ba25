package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crystaldolphin/shellchat/internal/schema"
	"github.com/crystaldolphin/shellchat/internal/shared/llmutils"
)

// Outcome is the result of inspecting one assistant reply.
type Outcome struct {
	Kind   Kind
	Reply  string // the assistant reply as received
	Arg    string // command or query
	Result string // raw tool output
}

// Detected reports whether a tool ran and a follow-up model turn is due.
func (o Outcome) Detected() bool {
	return o.Kind == KindShell || o.Kind == KindSearch
}

// FollowUp returns the system message carrying the tool result back to the
// model. It is only meaningful when Detected() is true.
func (o Outcome) FollowUp() schema.Message {
	switch o.Kind {
	case KindSearch:
		return schema.NewSystemMessage(fmt.Sprintf("Web search results for '%s':\n%s", o.Arg, o.Result))
	default:
		return schema.NewSystemMessage("Command output:\n" + o.Result)
	}
}

// Dispatcher detects directives and runs the matching registered tool.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher creates a Dispatcher backed by registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Inspect classifies reply and, for a valid directive, executes the tool.
// A StartFunc set with WithToolStart is called right before execution.
// Tool failures never surface as errors; they are part of Result.
func (d *Dispatcher) Inspect(ctx context.Context, reply string, webSearchEnabled bool) Outcome {
	dir := ParseDirective(reply, webSearchEnabled)
	out := Outcome{Kind: dir.Kind, Reply: reply, Arg: dir.Arg}

	var name ToolName
	switch dir.Kind {
	case KindShell:
		name = ToolRunCommand
	case KindSearch:
		name = ToolSearch
	default:
		return out
	}

	slog.Info("Tool call", "name", name, "arg", llmutils.Truncate(dir.Arg, 200))
	toolStart(ctx)(dir.Kind, dir.Arg)

	if t := d.registry.GetTool(name); t != nil {
		out.Result = t.Execute(ctx, dir.Arg)
	} else {
		out.Result = fmt.Sprintf("Error: Tool '%s' not found", name)
	}
	return out
}
