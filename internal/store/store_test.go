package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/crystaldolphin/shellchat/internal/schema"
)

// openers builds every backend so each test runs against all of them.
var openers = map[string]func(t *testing.T) Store{
	DriverSQLite: func(t *testing.T) Store {
		s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
		if err != nil {
			t.Fatalf("NewSQLiteStore: %v", err)
		}
		return s
	},
	DriverBolt: func(t *testing.T) Store {
		s, err := NewBoltStore(filepath.Join(t.TempDir(), "test.bolt"))
		if err != nil {
			t.Fatalf("NewBoltStore: %v", err)
		}
		return s
	},
}

func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	for name, open := range openers {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			t.Cleanup(func() { _ = s.Close() })
			fn(t, s)
		})
	}
}

// fixClock makes successive timestamps strictly increasing and predictable.
func fixClock(s Store, start time.Time) {
	tick := start
	next := func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	switch st := s.(type) {
	case *SQLiteStore:
		st.now = next
	case *BoltStore:
		st.now = next
	}
}

func TestCreateSession_Idempotent(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		for i := 0; i < 2; i++ {
			if err := s.CreateSession(ctx, "abc"); err != nil {
				t.Fatalf("CreateSession #%d: %v", i+1, err)
			}
		}
		sessions, err := s.ListSessions(ctx)
		if err != nil {
			t.Fatalf("ListSessions: %v", err)
		}
		if len(sessions) != 1 || sessions[0].ID != "abc" {
			t.Errorf("expected exactly one session, got %+v", sessions)
		}
	})
}

func TestCreateSession_KeepsOriginalTimestamp(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		fixClock(s, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
		_ = s.CreateSession(ctx, "abc")
		first, _ := s.GetSession(ctx, "abc")
		_ = s.CreateSession(ctx, "abc")
		second, _ := s.GetSession(ctx, "abc")
		if !first.CreatedAt.Equal(second.CreatedAt) {
			t.Errorf("created_at changed: %v -> %v", first.CreatedAt, second.CreatedAt)
		}
	})
}

func TestAppendAndLoadHistory_Order(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		_ = s.CreateSession(ctx, "s1")
		_ = s.CreateSession(ctx, "s2")

		want := []schema.Message{
			schema.NewUserMessage("hi"),
			schema.NewAssistantMessage("hello"),
			schema.NewUserMessage("ls please"),
			schema.NewAssistantMessage("done"),
		}
		for i, m := range want {
			if err := s.AppendMessage(ctx, "s1", m.Role, m.Content); err != nil {
				t.Fatalf("AppendMessage: %v", err)
			}
			// Interleave another session to prove isolation.
			if err := s.AppendMessage(ctx, "s2", schema.RoleUser, "other"); err != nil {
				t.Fatalf("AppendMessage s2 #%d: %v", i, err)
			}
		}

		got, err := s.LoadHistory(ctx, "s1")
		if err != nil {
			t.Fatalf("LoadHistory: %v", err)
		}
		if len(got) != len(want) {
			t.Fatalf("expected %d messages, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("message %d: expected %+v, got %+v", i, want[i], got[i])
			}
		}
	})
}

func TestLoadHistory_UnknownSession(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		got, err := s.LoadHistory(context.Background(), "nope")
		if err != nil {
			t.Fatalf("LoadHistory: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected empty history, got %v", got)
		}
	})
}

func TestLoadMessages_Timestamps(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		fixClock(s, start)
		_ = s.CreateSession(ctx, "s1")
		_ = s.AppendMessage(ctx, "s1", schema.RoleUser, "hi")

		msgs, err := s.LoadMessages(ctx, "s1")
		if err != nil {
			t.Fatalf("LoadMessages: %v", err)
		}
		if len(msgs) != 1 {
			t.Fatalf("expected 1 message, got %d", len(msgs))
		}
		if !msgs[0].CreatedAt.Equal(start.Add(2 * time.Second)) {
			t.Errorf("unexpected timestamp %v", msgs[0].CreatedAt)
		}
		if msgs[0].SessionID != "s1" {
			t.Errorf("unexpected session id %q", msgs[0].SessionID)
		}
	})
}

func TestListSessions_NewestFirst(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		fixClock(s, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
		for _, id := range []string{"a", "b", "c"} {
			if err := s.CreateSession(ctx, id); err != nil {
				t.Fatalf("CreateSession: %v", err)
			}
		}
		_ = s.AppendMessage(ctx, "b", schema.RoleUser, "x")
		_ = s.AppendMessage(ctx, "b", schema.RoleAssistant, "y")

		sessions, err := s.ListSessions(ctx)
		if err != nil {
			t.Fatalf("ListSessions: %v", err)
		}
		var ids []string
		for _, rec := range sessions {
			ids = append(ids, rec.ID)
		}
		if len(ids) != 3 || ids[0] != "c" || ids[1] != "b" || ids[2] != "a" {
			t.Errorf("expected [c b a], got %v", ids)
		}
		if sessions[1].MessageCount != 2 {
			t.Errorf("expected 2 messages for b, got %d", sessions[1].MessageCount)
		}
	})
}

func TestGetSession_NotFound(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		_, err := s.GetSession(context.Background(), "missing")
		if !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestReopen_PersistsData(t *testing.T) {
	for _, driver := range []string{DriverSQLite, DriverBolt} {
		t.Run(driver, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "chat.db")
			ctx := context.Background()

			s, err := Open(driver, path)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			_ = s.CreateSession(ctx, "keep")
			_ = s.AppendMessage(ctx, "keep", schema.RoleUser, "remember me")
			if err := s.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}

			s, err = Open(driver, path)
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			defer s.Close()
			got, err := s.LoadHistory(ctx, "keep")
			if err != nil {
				t.Fatalf("LoadHistory: %v", err)
			}
			if len(got) != 1 || got[0].Content != "remember me" {
				t.Errorf("unexpected history after reopen: %v", got)
			}
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open("postgres", filepath.Join(t.TempDir(), "x")); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestMigrations_RunOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	var version int
	if err := s.db.QueryRow("SELECT version FROM schema_version").Scan(&version); err != nil {
		t.Fatalf("read version: %v", err)
	}
	if version != migrations[len(migrations)-1].version {
		t.Errorf("expected version %d, got %d", migrations[len(migrations)-1].version, version)
	}
	_ = s.Close()

	// Re-running against a migrated database must be a no-op.
	s, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	_ = s.Close()
}
