package tools

import "context"

// StartFunc is told about a tool just before it runs.
type StartFunc func(kind Kind, arg string)

type startKey struct{}

// WithToolStart returns a child context whose tool executions announce
// themselves to fn first.
func WithToolStart(ctx context.Context, fn StartFunc) context.Context {
	return context.WithValue(ctx, startKey{}, fn)
}

// toolStart extracts the StartFunc from ctx, or a no-op if none was set.
func toolStart(ctx context.Context) StartFunc {
	if fn, ok := ctx.Value(startKey{}).(StartFunc); ok && fn != nil {
		return fn
	}
	return func(Kind, string) {}
}
