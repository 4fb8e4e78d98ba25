// Package agent runs one conversation: it keeps the history, calls the
// model, hands replies to the tool dispatcher and persists the transcript.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/crystaldolphin/shellchat/internal/schema"
	"github.com/crystaldolphin/shellchat/internal/tools"
)

var (
	// ErrSessionEnded is returned by Turn after the user has exited.
	ErrSessionEnded = errors.New("session ended")
	// ErrPersist marks a transcript write failure. The session cannot go on
	// after one.
	ErrPersist = errors.New("persist transcript")
)

// Completer sends a history to the model and returns its reply.
type Completer interface {
	Complete(ctx context.Context, history []schema.Message) (string, error)
}

// Transcript is the persistence the engine needs.
type Transcript interface {
	CreateSession(ctx context.Context, id string) error
	AppendMessage(ctx context.Context, id string, role schema.Role, content string) error
	LoadHistory(ctx context.Context, id string) ([]schema.Message, error)
}

// Inspector detects and executes tool directives.
type Inspector interface {
	Inspect(ctx context.Context, reply string, webSearchEnabled bool) tools.Outcome
}

// Reporter is told about tool activity a front end may want to show.
type Reporter interface {
	ToolStarting(kind tools.Kind, arg string)
	ToolExecuted(out tools.Outcome)
	InvalidDirective(reply string)
}

// State is the position of the engine in a turn.
type State int

const (
	StateAwaitingInput State = iota
	StateCallingModel
	StateExecutingTool
	StateCallingModelAgain
	StateFinalized
	StateSessionEnded
)

func (s State) String() string {
	switch s {
	case StateAwaitingInput:
		return "awaiting_input"
	case StateCallingModel:
		return "calling_model"
	case StateExecutingTool:
		return "executing_tool"
	case StateCallingModelAgain:
		return "calling_model_again"
	case StateFinalized:
		return "finalized"
	case StateSessionEnded:
		return "session_ended"
	}
	return "unknown"
}

// TurnStatus says how a turn ended.
type TurnStatus int

const (
	TurnSkipped   TurnStatus = iota // empty input
	TurnExit                        // exit / quit
	TurnInvalid                     // directive detected but unusable
	TurnCompleted                   // a final reply was produced
	TurnFailed                      // a model call failed
)

// TurnResult is what one Turn produced.
type TurnResult struct {
	Status TurnStatus
	Reply  string        // final assistant text when Status == TurnCompleted
	Tool   tools.Outcome // the directive outcome of the first reply
}

// Options configure a new Engine.
type Options struct {
	SessionID string
	ModelName string
	WebSearch bool
	Resume    bool // load the stored transcript after the system prompt
}

// Engine owns one session's history. Turn is safe to call from several
// goroutines but turns never overlap.
type Engine struct {
	mu sync.Mutex

	sessionID  string
	webSearch  bool
	model      Completer
	dispatcher Inspector
	transcript Transcript
	reporter   Reporter

	history schema.History
	state   State
}

// New creates the session row (idempotently) and seeds the history with the
// system prompt, followed by the stored transcript when opts.Resume is set.
func New(
	ctx context.Context,
	opts Options,
	model Completer,
	dispatcher Inspector,
	transcript Transcript,
	reporter Reporter,
) (*Engine, error) {
	if err := transcript.CreateSession(ctx, opts.SessionID); err != nil {
		return nil, fmt.Errorf("%w: create session: %w", ErrPersist, err)
	}
	if reporter == nil {
		reporter = nopReporter{}
	}

	e := &Engine{
		sessionID:  opts.SessionID,
		webSearch:  opts.WebSearch,
		model:      model,
		dispatcher: dispatcher,
		transcript: transcript,
		reporter:   reporter,
		history:    schema.NewHistory(schema.NewSystemMessage(BuildSystemPrompt(opts.ModelName, opts.WebSearch))),
	}

	if opts.Resume {
		stored, err := transcript.LoadHistory(ctx, opts.SessionID)
		if err != nil {
			return nil, fmt.Errorf("load history: %w", err)
		}
		e.history.Append(stored...)
		slog.Info("Session resumed", "session", opts.SessionID, "messages", len(stored))
	}
	return e, nil
}

// SessionID returns the identifier the transcript is stored under.
func (e *Engine) SessionID() string { return e.sessionID }

// WebSearch reports whether search directives are honoured.
func (e *Engine) WebSearch() bool { return e.webSearch }

// State returns the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// History returns a snapshot of the conversation so far.
func (e *Engine) History() []schema.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Messages()
}

// Turn processes one line of user input.
//
// A model failure returns TurnFailed with the error; the user message stays
// in the history and the session can go on. An error wrapping ErrPersist
// means the transcript could not be written.
func (e *Engine) Turn(ctx context.Context, input string) (TurnResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateSessionEnded {
		return TurnResult{Status: TurnExit}, ErrSessionEnded
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return TurnResult{Status: TurnSkipped}, nil
	}
	if IsExitCommand(input) {
		e.setState(StateSessionEnded)
		return TurnResult{Status: TurnExit}, nil
	}

	res, err := e.run(ctx, input)
	if e.state != StateSessionEnded {
		e.setState(StateAwaitingInput)
	}
	return res, err
}

// IsExitCommand reports whether input ends the session.
func IsExitCommand(input string) bool {
	s := strings.ToLower(strings.TrimSpace(input))
	return s == "exit" || s == "quit"
}

func (e *Engine) setState(s State) {
	if e.state == s {
		return
	}
	slog.Debug("Engine state", "session", e.sessionID, "from", e.state, "to", s)
	e.state = s
}

func (e *Engine) persist(ctx context.Context, role schema.Role, content string) error {
	if err := e.transcript.AppendMessage(ctx, e.sessionID, role, content); err != nil {
		slog.Error("Persist message failed", "session", e.sessionID, "role", role, "err", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

type nopReporter struct{}

func (nopReporter) ToolStarting(tools.Kind, string) {}
func (nopReporter) ToolExecuted(tools.Outcome)       {}
func (nopReporter) InvalidDirective(string)          {}
