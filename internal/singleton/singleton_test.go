package singleton

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func TestTryAcquireAndRelease(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chat.db")

	lock, ok, err := TryAcquire(dbPath)
	if err != nil {
		t.Fatalf("TryAcquire: %v", err)
	}
	if !ok || lock == nil {
		t.Fatal("expected to acquire the lock")
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}

	lock2, ok, err := TryAcquire(dbPath)
	if err != nil || !ok {
		t.Fatalf("re-acquire: ok=%v err=%v", ok, err)
	}
	defer func() { _ = lock2.Release() }()
}

func TestAcquireCreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "chat.db")
	lock, err := Acquire(dbPath)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer func() { _ = lock.Release() }()
}

func TestReleaseNil(t *testing.T) {
	var l *Lock
	if err := l.Release(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

// TestAcquireHeldByOtherProcess starts a child test process that holds the
// lock and checks that this process is refused.
func TestAcquireHeldByOtherProcess(t *testing.T) {
	if os.Getenv("SHELLCHAT_HOLD_LOCK") == "1" {
		dbPath := os.Getenv("SHELLCHAT_DB_PATH")
		lock, err := Acquire(dbPath)
		if err != nil {
			os.Exit(2)
		}
		defer func() { _ = lock.Release() }()
		_ = os.WriteFile(dbPath+".ready", []byte("1"), 0o600)
		buf := make([]byte, 1)
		_, _ = os.Stdin.Read(buf)
		return
	}

	dbPath := filepath.Join(t.TempDir(), "chat.db")
	cmd := exec.Command(os.Args[0], "-test.run=^TestAcquireHeldByOtherProcess$")
	cmd.Env = append(os.Environ(), "SHELLCHAT_HOLD_LOCK=1", "SHELLCHAT_DB_PATH="+dbPath)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		t.Fatalf("stdin pipe: %v", err)
	}
	if err := cmd.Start(); err != nil {
		t.Fatalf("start subprocess: %v", err)
	}
	defer func() {
		_ = stdin.Close()
		_ = cmd.Wait()
	}()

	waitForFile(t, dbPath+".ready")

	if _, err := Acquire(dbPath); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func waitForFile(t *testing.T, path string) {
	t.Helper()
	deadline := time.After(10 * time.Second)
	for {
		if _, err := os.Stat(path); err == nil {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %s", path)
		default:
			time.Sleep(50 * time.Millisecond)
		}
	}
}
