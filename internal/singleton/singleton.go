// Package singleton guards the session store against a second writer.
package singleton

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned by Acquire when another process holds the lock.
var ErrLocked = errors.New("store is in use by another shellchat process")

// Lock represents an acquired lock on a store path.
type Lock struct {
	flock *flock.Flock
}

// TryAcquire attempts to lock the store at dbPath. It returns the lock and
// true if acquired, or nil and false if another process holds it.
func TryAcquire(dbPath string) (*Lock, bool, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, false, fmt.Errorf("singleton: create lock directory: %w", err)
	}
	lockPath := dbPath + ".lock"

	fl := flock.New(lockPath)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, false, fmt.Errorf("singleton: try lock %s: %w", lockPath, err)
	}
	if !locked {
		return nil, false, nil
	}
	return &Lock{flock: fl}, true, nil
}

// Acquire is TryAcquire that reports a held lock as ErrLocked.
func Acquire(dbPath string) (*Lock, error) {
	lock, ok, err := TryAcquire(dbPath)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLocked
	}
	return lock, nil
}

// Release releases the lock.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	return l.flock.Unlock()
}
