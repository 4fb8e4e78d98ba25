// Package tools detects tool directives in assistant replies and runs the
// matching tool: a local shell command or a web search.
package tools

import "context"

// ToolName is the canonical name of a built-in tool.
type ToolName string

const (
	ToolRunCommand ToolName = "run_command"
	ToolSearch     ToolName = "search"
)

// Tool is a backend the dispatcher can hand a directive argument to.
// Execute never fails: every failure is folded into the returned text.
type Tool interface {
	Name() ToolName
	Execute(ctx context.Context, arg string) string
}

// Registry holds a set of named tools.
type Registry struct {
	tools map[ToolName]Tool
}

// GetTool returns the tool with the given name, or nil.
func (r *Registry) GetTool(name ToolName) Tool {
	if r == nil {
		return nil
	}
	return r.tools[name]
}
