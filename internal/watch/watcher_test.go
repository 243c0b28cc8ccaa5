package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"desksort/internal/desk"
)

func TestWatcher_Run(t *testing.T) {
	t.Run("fires once after a burst of changes", func(t *testing.T) {
		dir := t.TempDir()
		var calls atomic.Int32
		fired := make(chan struct{}, 10)

		w := New(dir, Options{Debounce: 100 * time.Millisecond}, desk.NewNopLogger(), func(context.Context) {
			calls.Add(1)
			fired <- struct{}{}
		})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan error, 1)
		go func() { done <- w.Run(ctx) }()

		// Give the watcher time to register before writing.
		time.Sleep(50 * time.Millisecond)
		for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
			if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644); err != nil {
				t.Fatal(err)
			}
		}

		select {
		case <-fired:
		case <-time.After(5 * time.Second):
			t.Fatal("callback not fired")
		}
		time.Sleep(300 * time.Millisecond)
		if n := calls.Load(); n != 1 {
			t.Errorf("callback fired %d times, want 1", n)
		}

		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Run() error = %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Run() did not return after cancel")
		}
	})

	t.Run("ignored names do not fire", func(t *testing.T) {
		dir := t.TempDir()
		fired := make(chan struct{}, 1)
		w := New(dir, Options{
			Debounce: 50 * time.Millisecond,
			Ignore:   func(name string) bool { return strings.HasPrefix(name, ".") },
		}, desk.NewNopLogger(), func(context.Context) { fired <- struct{}{} })

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		time.Sleep(50 * time.Millisecond)
		if err := os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}

		select {
		case <-fired:
			t.Error("callback fired for ignored file")
		case <-time.After(300 * time.Millisecond):
		}
	})

	t.Run("interval fires without events", func(t *testing.T) {
		fired := make(chan struct{}, 1)
		w := New(t.TempDir(), Options{Debounce: time.Second, Interval: 50 * time.Millisecond}, desk.NewNopLogger(), func(context.Context) {
			select {
			case fired <- struct{}{}:
			default:
			}
		})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		select {
		case <-fired:
		case <-time.After(2 * time.Second):
			t.Fatal("interval callback not fired")
		}
	})

	t.Run("missing directory is an error", func(t *testing.T) {
		w := New(filepath.Join(t.TempDir(), "missing"), Options{Debounce: time.Millisecond}, desk.NewNopLogger(), func(context.Context) {})
		if err := w.Run(context.Background()); err == nil {
			t.Error("Run() expected error for missing directory")
		}
	})
}
