package ui

import (
	"fmt"
	"io"

	"github.com/crystaldolphin/shellchat/internal/schema"
	"github.com/crystaldolphin/shellchat/internal/tools"
)

// Printer writes styled chat output. It also reports tool activity for
// the conversation engine.
type Printer struct {
	out   io.Writer
	theme theme
}

// NewPrinter creates a Printer writing to w. Colors are dropped when w is
// not a terminal.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{out: w, theme: newTheme(w)}
}

// Title prints a bold heading line.
func (p *Printer) Title(text string) {
	fmt.Fprintln(p.out, p.theme.title.Render(text))
}

// Line prints text unstyled.
func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Prompt prints the user prompt label without a newline.
func (p *Printer) Prompt() {
	fmt.Fprint(p.out, p.theme.user.Render("You:")+" ")
}

// Ask prints a plain question without a newline.
func (p *Printer) Ask(question string) {
	fmt.Fprint(p.out, question)
}

// Assistant prints a final reply.
func (p *Printer) Assistant(text string) {
	fmt.Fprintf(p.out, "%s %s\n\n", p.theme.assistant.Render("Assistant:"), p.theme.asstText.Render(text))
}

// System prints an informational line.
func (p *Printer) System(text string) {
	fmt.Fprintf(p.out, "%s %s\n", p.theme.system.Render("System:"), p.theme.sysText.Render(text))
}

// Error prints an error line.
func (p *Printer) Error(text string) {
	fmt.Fprintln(p.out, p.theme.errText.Render(text))
}

// APIError prints a failed model call.
func (p *Printer) APIError(label string, err error) {
	fmt.Fprintf(p.out, "Assistant: %s (%s)\n", p.theme.errText.Render(label), p.theme.errText.Render(err.Error()))
}

// Message prints one stored transcript entry, colored by role.
func (p *Printer) Message(m schema.Message) {
	switch m.Role {
	case schema.RoleUser:
		fmt.Fprintf(p.out, "%s %s\n", p.theme.user.Render("You:"), p.theme.userText.Render(m.Content))
	case schema.RoleAssistant:
		fmt.Fprintf(p.out, "%s %s\n", p.theme.assistant.Render("Assistant:"), p.theme.asstText.Render(m.Content))
	case schema.RoleSystem:
		fmt.Fprintf(p.out, "%s %s\n", p.theme.system.Render("System:"), p.theme.sysText.Render(m.Content))
	default:
		fmt.Fprintf(p.out, "%s: %s\n", m.Role, m.Content)
	}
}

// Muted prints de-emphasised text.
func (p *Printer) Muted(text string) {
	fmt.Fprintln(p.out, p.theme.muted.Render(text))
}

// ToolStarting announces a command or search before it runs.
func (p *Printer) ToolStarting(kind tools.Kind, arg string) {
	switch kind {
	case tools.KindShell:
		p.System("Running command: " + p.theme.sysText.Render(arg))
	case tools.KindSearch:
		p.System("Searching the web for: " + p.theme.sysText.Render(arg))
	}
}

// ToolExecuted prints a command's output.
func (p *Printer) ToolExecuted(out tools.Outcome) {
	if out.Kind == tools.KindShell {
		fmt.Fprintf(p.out, "%s\n%s\n", p.theme.assistant.Render("Assistant:"), p.theme.asstText.Render(out.Result))
	}
}

// InvalidDirective warns about a directive that could not be run.
func (p *Printer) InvalidDirective(string) {
	fmt.Fprintf(p.out, "%s %s\n", p.theme.system.Render("System:"), p.theme.errText.Render("No command provided for [RUN_COMMAND]."))
}
