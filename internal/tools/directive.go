package tools

import "strings"

const (
	runCommandPrefix = "[RUN_COMMAND"
	searchPrefix     = "[SEARCH:"
)

// quoteChars may enclose a directive, e.g. `[RUN_COMMAND ls]`.
const quoteChars = "'\"`"

// Kind classifies an assistant reply.
type Kind int

const (
	KindNone    Kind = iota // plain reply, final as-is
	KindShell               // [RUN_COMMAND <command>]
	KindSearch              // [SEARCH: <query>]
	KindInvalid             // directive detected but unusable (empty command)
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindShell:
		return "shell"
	case KindSearch:
		return "search"
	case KindInvalid:
		return "invalid"
	}
	return "unknown"
}

// Directive is the parsed form of an assistant reply.
type Directive struct {
	Kind Kind
	Arg  string // command or query; empty for KindNone / KindInvalid
}

// ParseDirective detects a tool directive in reply. Prefix matching is
// case-insensitive and applied after trimming whitespace and one enclosing
// quote character from each end. Search directives are only recognised
// when webSearchEnabled is set.
func ParseDirective(reply string, webSearchEnabled bool) Directive {
	text := normalize(reply)
	upper := strings.ToUpper(text)

	switch {
	case strings.HasPrefix(upper, runCommandPrefix):
		_, after, found := strings.Cut(text, " ")
		if !found {
			return Directive{Kind: KindInvalid}
		}
		command := strings.TrimSpace(strings.TrimSuffix(after, "]"))
		if command == "" {
			return Directive{Kind: KindInvalid}
		}
		return Directive{Kind: KindShell, Arg: command}

	case webSearchEnabled && strings.HasPrefix(upper, searchPrefix):
		_, after, _ := strings.Cut(text, ":")
		query := strings.TrimSpace(strings.TrimSuffix(after, "]"))
		return Directive{Kind: KindSearch, Arg: query}
	}

	return Directive{Kind: KindNone}
}

func normalize(reply string) string {
	text := strings.TrimSpace(reply)
	if text != "" && strings.ContainsRune(quoteChars, rune(text[0])) {
		text = text[1:]
	}
	if text != "" && strings.ContainsRune(quoteChars, rune(text[len(text)-1])) {
		text = text[:len(text)-1]
	}
	return text
}
