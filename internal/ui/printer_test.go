package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/crystaldolphin/shellchat/internal/schema"
	"github.com/crystaldolphin/shellchat/internal/tools"
)

// A bytes.Buffer is not a terminal, so output carries no escape codes.

func TestPrinter_Message(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Message(schema.NewUserMessage("hi"))
	p.Message(schema.NewAssistantMessage("hello"))
	p.Message(schema.NewSystemMessage("note"))
	p.Message(schema.Message{Role: "tool", Content: "x"})

	want := "You: hi\nAssistant: hello\nSystem: note\ntool: x\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestPrinter_ToolExecuted(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.ToolStarting(tools.KindShell, "ls")
	p.ToolExecuted(tools.Outcome{Kind: tools.KindShell, Arg: "ls", Result: "a\n"})
	p.ToolStarting(tools.KindSearch, "go")
	p.ToolExecuted(tools.Outcome{Kind: tools.KindSearch, Arg: "go", Result: "{}"})

	want := "System: Running command: ls\nAssistant:\na\n\nSystem: Searching the web for: go\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestPrinter_Errors(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.InvalidDirective("[RUN_COMMAND ]")
	p.APIError("API Error", errors.New("API Error: bad key (401 Unauthorized)"))

	got := buf.String()
	if !strings.Contains(got, "No command provided for [RUN_COMMAND].") {
		t.Errorf("missing invalid directive warning: %q", got)
	}
	if !strings.Contains(got, "Assistant: API Error (API Error: bad key (401 Unauthorized))") {
		t.Errorf("missing api error line: %q", got)
	}
}
