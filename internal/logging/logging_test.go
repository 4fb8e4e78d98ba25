package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetup_File(t *testing.T) {
	orig := slog.Default()
	defer slog.SetDefault(orig)

	path := filepath.Join(t.TempDir(), "logs", "shellchat.log")
	closer, err := Setup("warn", path, false)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	slog.Info("dropped")
	slog.Warn("kept", "k", "v")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	got := string(data)
	if strings.Contains(got, "dropped") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(got, "msg=kept") || !strings.Contains(got, "k=v") {
		t.Errorf("expected warn record, got %q", got)
	}
}
