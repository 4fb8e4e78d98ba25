package agent

import (
	"context"

	"github.com/google/uuid"
)

// Model is a Completer that knows which model it talks to.
type Model interface {
	Completer
	ModelName() string
}

// SessionOptions select what one new engine does.
type SessionOptions struct {
	ID        string // empty = fresh random identifier
	WebSearch bool
	Resume    bool
}

// EngineFactory creates per-session Engines.
// It holds the process-wide dependencies; each Engine owns only its history.
type EngineFactory struct {
	model      Model
	dispatcher Inspector
	transcript Transcript
	reporter   Reporter
}

// NewFactory constructs an EngineFactory.
func NewFactory(model Model, dispatcher Inspector, transcript Transcript, reporter Reporter) *EngineFactory {
	return &EngineFactory{
		model:      model,
		dispatcher: dispatcher,
		transcript: transcript,
		reporter:   reporter,
	}
}

// ModelName returns the model every created engine talks to.
func (f *EngineFactory) ModelName() string { return f.model.ModelName() }

// NewEngine creates an Engine for one session.
func (f *EngineFactory) NewEngine(ctx context.Context, opts SessionOptions) (*Engine, error) {
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	return New(ctx, Options{
		SessionID: id,
		ModelName: f.model.ModelName(),
		WebSearch: opts.WebSearch,
		Resume:    opts.Resume,
	}, f.model, f.dispatcher, f.transcript, f.reporter)
}
