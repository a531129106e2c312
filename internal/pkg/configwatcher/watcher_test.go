package configwatcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/metropolia-apps/faq-core/internal/config"
)

func TestWatch_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("upstream:\n  model: gpt-4o-mini\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var got string
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		Watch(ctx, zap.NewNop(), path, func(cfg *config.AppConfig) {
			mu.Lock()
			got = cfg.Upstream.Model
			mu.Unlock()
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(path, []byte("upstream:\n  model: gpt-4o\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		mu.Lock()
		model := got
		mu.Unlock()
		if model == "gpt-4o" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("reload not observed, last model %q", model)
		}
		time.Sleep(50 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on context cancel")
	}
}

func TestWatch_KeepsPreviousConfigOnParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("upstream:\n  model: gpt-4o-mini\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	reloads := 0
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, zap.NewNop(), path, func(cfg *config.AppConfig) {
		mu.Lock()
		reloads++
		mu.Unlock()
	})

	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(path, []byte("port: [broken\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Wait past the debounce; the broken file must not trigger a reload.
	time.Sleep(2 * time.Second)
	mu.Lock()
	count := reloads
	mu.Unlock()
	if count != 0 {
		t.Errorf("expected no reloads for a broken file, got %d", count)
	}
}

func TestWatch_MissingFile(t *testing.T) {
	err := Watch(context.Background(), zap.NewNop(), filepath.Join(t.TempDir(), "absent.yml"), func(*config.AppConfig) {})
	if err == nil {
		t.Fatal("expected error when the watched file does not exist")
	}
}
