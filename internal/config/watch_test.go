package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type reload struct {
	cfg Config
	err error
}

func startWatcherForTest(t *testing.T, path string) <-chan reload {
	t.Helper()
	reloads := make(chan reload, 16)
	w, err := NewWatcher(path, func(cfg Config, err error) {
		select {
		case reloads <- reload{cfg, err}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		_ = w.Close()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Error("watcher did not stop")
		}
	})
	return reloads
}

func waitForReload(t *testing.T, reloads <-chan reload, timeout time.Duration) reload {
	t.Helper()
	select {
	case r := <-reloads:
		return r
	case <-time.After(timeout):
		t.Fatal("timed out waiting for reload")
		return reload{}
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extent.toml")
	if err := os.WriteFile(path, []byte("[handles]\nsize = 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	reloads := startWatcherForTest(t, path)
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(path, []byte("[handles]\nsize = 16\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := waitForReload(t, reloads, 2*time.Second)
	if r.err != nil {
		t.Fatal(r.err)
	}
	if r.cfg.Handles.SizePixels != 16 {
		t.Errorf("handle size %v after reload, want 16", r.cfg.Handles.SizePixels)
	}
}

func TestWatcherReportsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extent.toml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	reloads := startWatcherForTest(t, path)
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(path, []byte("[handles\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if r := waitForReload(t, reloads, 2*time.Second); r.err == nil {
		t.Error("malformed file reloaded without error")
	}
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extent.toml")
	reloads := startWatcherForTest(t, path)
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case r := <-reloads:
		t.Errorf("unexpected reload %+v", r)
	case <-time.After(250 * time.Millisecond):
	}
}

func TestWatcherLogsErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extent.toml")
	w, err := NewWatcher(path, func(Config, error) {})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	logged := make(chan string, 1)
	w.logf = func(format string, args ...any) {
		select {
		case logged <- fmt.Sprintf(format, args...):
		default:
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		_ = w.Close()
		<-done
	}()

	w.watcher.Errors <- errors.New("event queue overflow")
	select {
	case msg := <-logged:
		if !strings.Contains(msg, "event queue overflow") {
			t.Errorf("logged %q, want the watcher error", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher error was not logged")
	}
}
