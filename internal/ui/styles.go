// Package ui renders the interactive terminal output.
package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

type theme struct {
	title     lipgloss.Style
	user      lipgloss.Style
	userText  lipgloss.Style
	assistant lipgloss.Style
	asstText  lipgloss.Style
	system    lipgloss.Style
	sysText   lipgloss.Style
	errText   lipgloss.Style
	muted     lipgloss.Style
}

func newTheme(w io.Writer) theme {
	r := lipgloss.NewRenderer(w)

	yellow := lipgloss.Color("11")
	blue := lipgloss.Color("12")
	green := lipgloss.Color("10")
	magenta := lipgloss.Color("13")
	red := lipgloss.Color("9")

	return theme{
		title:     r.NewStyle().Foreground(yellow).Bold(true),
		user:      r.NewStyle().Foreground(blue).Bold(true),
		userText:  r.NewStyle().Foreground(blue),
		assistant: r.NewStyle().Foreground(green).Bold(true),
		asstText:  r.NewStyle().Foreground(green),
		system:    r.NewStyle().Foreground(magenta).Bold(true),
		sysText:   r.NewStyle().Foreground(magenta),
		errText:   r.NewStyle().Foreground(red),
		muted:     r.NewStyle().Faint(true),
	}
}
