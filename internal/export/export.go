// Package export writes a stored transcript to a file.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/crystaldolphin/shellchat/internal/store"
)

// Format is an export file format.
type Format string

const (
	FormatText Format = "txt"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates s. Empty selects FormatText.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported export format %q (want txt, json or yaml)", s)
}

// Transcript is a session with its messages, as written by the json and
// yaml formats.
type Transcript struct {
	Session  store.SessionRecord   `json:"session" yaml:"session"`
	Messages []store.StoredMessage `json:"messages" yaml:"messages"`
}

// FileName returns session_<id>.<ext>.
func FileName(sessionID string, f Format) string {
	return fmt.Sprintf("session_%s.%s", sessionID, f)
}

// Write encodes t to w in format f.
func Write(w io.Writer, f Format, t Transcript) error {
	switch f {
	case FormatText:
		for _, m := range t.Messages {
			if _, err := fmt.Fprintf(w, "%s: %s\n", m.Role, m.Content); err != nil {
				return fmt.Errorf("write line: %w", err)
			}
		}
		return nil

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported export format %q", f)
}

// ToFile writes t into dir under FileName and returns the path written.
func ToFile(dir string, f Format, t Transcript) (string, error) {
	path := filepath.Join(dir, FileName(t.Session.ID, f))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := Write(file, f, t); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}
