package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/crystaldolphin/shellchat/internal/schema"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps appends strictly ordered.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if err := runMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) CreateSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO sessions (id, created_at) VALUES (?, ?)",
		id, s.now().UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AppendMessage(ctx context.Context, id string, role schema.Role, content string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO messages (session_id, role, content, created_at) VALUES (?, ?, ?, ?)",
		id, string(role), content, s.now().UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadHistory(ctx context.Context, id string) ([]schema.Message, error) {
	stored, err := s.LoadMessages(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMessages(stored), nil
}

func (s *SQLiteStore) LoadMessages(ctx context.Context, id string) ([]StoredMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, role, content, created_at
		FROM messages
		WHERE session_id = ?
		ORDER BY id ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	out := []StoredMessage{}
	for rows.Next() {
		var m StoredMessage
		var role, created string
		if err := rows.Scan(&m.SessionID, &role, &m.Content, &created); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		m.Role = schema.ParseRole(role)
		m.CreatedAt, _ = time.Parse(timeFormat, created)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate message rows: %w", err)
	}
	return out, nil
}

const sessionColumns = `
	SELECT s.id, s.created_at,
	       (SELECT COUNT(*) FROM messages m WHERE m.session_id = s.id)
	FROM sessions s`

func (s *SQLiteStore) ListSessions(ctx context.Context) ([]SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx, sessionColumns+" ORDER BY s.created_at DESC, s.rowid DESC")
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session rows: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (SessionRecord, error) {
	rec, err := scanSession(s.db.QueryRowContext(ctx, sessionColumns+" WHERE s.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRecord{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return rec, err
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(r rowScanner) (SessionRecord, error) {
	var rec SessionRecord
	var created string
	if err := r.Scan(&rec.ID, &created, &rec.MessageCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("scan session row: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(timeFormat, created)
	return rec, nil
}
