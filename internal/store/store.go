// Package store persists chat sessions and their transcripts.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crystaldolphin/shellchat/internal/schema"
)

const timeFormat = time.RFC3339Nano

// Supported drivers.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// ErrSessionNotFound is returned by lookups of an unknown session.
var ErrSessionNotFound = errors.New("session not found")

// SessionRecord describes one stored session.
type SessionRecord struct {
	ID           string    `json:"id" yaml:"id"`
	CreatedAt    time.Time `json:"createdAt" yaml:"createdAt"`
	MessageCount int       `json:"messageCount" yaml:"messageCount"`
}

// StoredMessage is one persisted transcript entry.
type StoredMessage struct {
	SessionID string      `json:"sessionId" yaml:"sessionId"`
	Role      schema.Role `json:"role" yaml:"role"`
	Content   string      `json:"content" yaml:"content"`
	CreatedAt time.Time   `json:"createdAt" yaml:"createdAt"`
}

// Message converts the entry back into a conversation message.
func (m StoredMessage) Message() schema.Message {
	return schema.Message{Role: m.Role, Content: m.Content}
}

// Store is an append-only session and transcript store.
type Store interface {
	// CreateSession records id. Creating an existing session is a no-op.
	CreateSession(ctx context.Context, id string) error
	// AppendMessage adds one message to the end of the session's transcript.
	AppendMessage(ctx context.Context, id string, role schema.Role, content string) error
	// LoadHistory returns the transcript in insertion order. Unknown
	// sessions have an empty transcript.
	LoadHistory(ctx context.Context, id string) ([]schema.Message, error)
	// LoadMessages is LoadHistory with timestamps.
	LoadMessages(ctx context.Context, id string) ([]StoredMessage, error)
	// ListSessions returns all sessions, newest first.
	ListSessions(ctx context.Context) ([]SessionRecord, error)
	// GetSession returns ErrSessionNotFound for an unknown id.
	GetSession(ctx context.Context, id string) (SessionRecord, error)
	Close() error
}

// Open opens the store for driver at path. An empty driver selects SQLite.
func Open(driver, path string) (Store, error) {
	switch driver {
	case "", DriverSQLite:
		return NewSQLiteStore(path)
	case DriverBolt:
		return NewBoltStore(path)
	}
	return nil, fmt.Errorf("unknown store driver %q", driver)
}

func toMessages(stored []StoredMessage) []schema.Message {
	out := make([]schema.Message, len(stored))
	for i, m := range stored {
		out[i] = m.Message()
	}
	return out
}
