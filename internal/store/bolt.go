package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/crystaldolphin/shellchat/internal/schema"
)

var (
	bucketSessions = []byte("sessions")
	bucketMessages = []byte("messages")
)

type boltSession struct {
	Seq       uint64 `json:"seq"`
	CreatedAt string `json:"createdAt"`
}

type boltMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// BoltStore implements Store in a single BoltDB file. Each session's
// transcript is a nested bucket keyed by a big-endian sequence number.
type BoltStore struct {
	db  *bolt.DB
	now func() time.Time
}

// NewBoltStore opens (or creates) the BoltDB file at path.
func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketSessions, bucketMessages} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}
	return &BoltStore{db: db, now: time.Now}, nil
}

func (s *BoltStore) CreateSession(_ context.Context, id string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		if b.Get([]byte(id)) != nil {
			return nil
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		enc, err := json.Marshal(boltSession{Seq: seq, CreatedAt: s.now().UTC().Format(timeFormat)})
		if err != nil {
			return err
		}
		return b.Put([]byte(id), enc)
	})
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *BoltStore) AppendMessage(_ context.Context, id string, role schema.Role, content string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket(bucketMessages).CreateBucketIfNotExists([]byte(id))
		if err != nil {
			return err
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		enc, err := json.Marshal(boltMessage{
			Role:      string(role),
			Content:   content,
			CreatedAt: s.now().UTC().Format(timeFormat),
		})
		if err != nil {
			return err
		}
		return b.Put(seqKey(seq), enc)
	})
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *BoltStore) LoadHistory(ctx context.Context, id string) ([]schema.Message, error) {
	stored, err := s.LoadMessages(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMessages(stored), nil
}

func (s *BoltStore) LoadMessages(_ context.Context, id string) ([]StoredMessage, error) {
	out := []StoredMessage{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMessages).Bucket([]byte(id))
		if b == nil {
			return nil
		}
		// Keys are big-endian, so ForEach walks them in insertion order.
		return b.ForEach(func(_, v []byte) error {
			var m boltMessage
			if err := json.Unmarshal(v, &m); err != nil {
				return err
			}
			created, _ := time.Parse(timeFormat, m.CreatedAt)
			out = append(out, StoredMessage{
				SessionID: id,
				Role:      schema.ParseRole(m.Role),
				Content:   m.Content,
				CreatedAt: created,
			})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	return out, nil
}

func (s *BoltStore) ListSessions(_ context.Context) ([]SessionRecord, error) {
	type entry struct {
		rec SessionRecord
		seq uint64
	}
	var entries []entry
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSessions).ForEach(func(k, v []byte) error {
			rec, seq, err := decodeSession(tx, k, v)
			if err != nil {
				return err
			}
			entries = append(entries, entry{rec: rec, seq: seq})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	slices.SortFunc(entries, func(a, b entry) int {
		if c := b.rec.CreatedAt.Compare(a.rec.CreatedAt); c != 0 {
			return c
		}
		if a.seq > b.seq {
			return -1
		}
		if a.seq < b.seq {
			return 1
		}
		return 0
	})

	out := make([]SessionRecord, len(entries))
	for i, e := range entries {
		out[i] = e.rec
	}
	return out, nil
}

func (s *BoltStore) GetSession(_ context.Context, id string) (SessionRecord, error) {
	var rec SessionRecord
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketSessions).Get([]byte(id))
		if v == nil {
			return nil
		}
		found = true
		var err error
		rec, _, err = decodeSession(tx, []byte(id), v)
		return err
	})
	if err != nil {
		return SessionRecord{}, fmt.Errorf("get session: %w", err)
	}
	if !found {
		return SessionRecord{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return rec, nil
}

// Close closes the BoltDB file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func decodeSession(tx *bolt.Tx, k, v []byte) (SessionRecord, uint64, error) {
	var bs boltSession
	if err := json.Unmarshal(v, &bs); err != nil {
		return SessionRecord{}, 0, fmt.Errorf("decode session %s: %w", k, err)
	}
	rec := SessionRecord{ID: string(k)}
	rec.CreatedAt, _ = time.Parse(timeFormat, bs.CreatedAt)
	if mb := tx.Bucket(bucketMessages).Bucket(k); mb != nil {
		rec.MessageCount = mb.Stats().KeyN
	}
	return rec, bs.Seq, nil
}

func seqKey(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}
