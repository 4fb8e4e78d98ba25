package dependency

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/crystaldolphin/shellchat/internal/config"
	"github.com/crystaldolphin/shellchat/internal/providers"
	"github.com/crystaldolphin/shellchat/internal/singleton"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Store.Path = filepath.Join(t.TempDir(), "chat.db")
	cfg.Providers.OpenAI.APIKey = "sk-test"
	return &cfg
}

func TestContainer_BuildsEngineFactory(t *testing.T) {
	cfg := testConfig(t)
	c, err := New(cfg, Options{Provider: "openai", Out: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	f, err := c.EngineFactory()
	if err != nil {
		t.Fatalf("EngineFactory: %v", err)
	}
	if f.ModelName() != "gpt-4-turbo" {
		t.Errorf("expected registry default model, got %q", f.ModelName())
	}

	// Singletons: the store behind the factory is the one Store() returns.
	s1, _ := c.Store()
	s2, _ := c.Store()
	if s1 != s2 {
		t.Error("expected the same store instance")
	}
}

func TestContainer_StoreWithoutProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.Providers.OpenAI.APIKey = ""
	c, err := New(cfg, Options{Provider: "nope"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if _, err := c.Store(); err != nil {
		t.Fatalf("Store should not need a provider: %v", err)
	}
	if _, err := c.EngineFactory(); !errors.Is(err, providers.ErrUnknownProvider) {
		t.Errorf("expected ErrUnknownProvider, got %v", err)
	}
}

func TestContainer_CloseReleasesLock(t *testing.T) {
	cfg := testConfig(t)
	c, err := New(cfg, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Store(); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	lock, err := singleton.Acquire(cfg.StorePath())
	if err != nil {
		t.Fatalf("expected lock to be free after Close: %v", err)
	}
	_ = lock.Release()
}

func TestContainer_JobStoreWithoutProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.Providers.OpenAI.APIKey = ""
	c, err := New(cfg, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	j1, err := c.JobStore()
	if err != nil {
		t.Fatalf("JobStore should not need a provider: %v", err)
	}
	j2, _ := c.JobStore()
	if j1 != j2 {
		t.Error("expected the same job store instance")
	}
}
