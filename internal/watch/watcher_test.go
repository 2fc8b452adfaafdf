package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"tidy-go/internal/tidy"
	"tidy-go/internal/watch"
)

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()

	var calls atomic.Int32
	w := watch.New(dir, 200*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	}, tidy.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)

	// A burst of creates should coalesce into a single pass.
	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, "file"+string(rune('a'+i))+".txt")
		if err := os.WriteFile(name, []byte("x"), 0644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	deadline := time.After(3 * time.Second)
	for calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("organize was never triggered")
		case <-time.After(50 * time.Millisecond):
		}
	}

	// Allow any stray second trigger to land before asserting.
	time.Sleep(400 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("organize triggered %d times, want 1", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run() returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on cancellation")
	}
}
