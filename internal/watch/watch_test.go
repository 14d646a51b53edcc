package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_TriggersApplyOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docker-compose.yml")
	require.NoError(t, os.WriteFile(path, []byte("services: {}\n"), 0644))

	applied := make(chan struct{}, 8)
	w := New([]string{path}, func(ctx context.Context) error {
		applied <- struct{}{}
		return nil
	})
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher a moment to register before writing
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("services: {x: {}}\n"), 0644))

	select {
	case <-applied:
	case <-time.After(5 * time.Second):
		t.Fatal("apply was not triggered by a document change")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func TestWatcher_SkipsAbsentDirectories(t *testing.T) {
	// An install without the dashboard has no dashboard/ directory, but the
	// documents that do exist must still be watched.
	dir := t.TempDir()
	manifest := filepath.Join(dir, "docker-compose.yml")
	dashboard := filepath.Join(dir, "dashboard", "settings.json")
	require.NoError(t, os.WriteFile(manifest, []byte("services: {}\n"), 0644))

	applied := make(chan struct{}, 8)
	w := New([]string{manifest, dashboard}, func(ctx context.Context) error {
		applied <- struct{}{}
		return nil
	})
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(200 * time.Millisecond)
	select {
	case err := <-done:
		t.Fatalf("watcher exited instead of watching: %v", err)
	default:
	}

	require.NoError(t, os.WriteFile(manifest, []byte("services: {x: {}}\n"), 0644))
	select {
	case <-applied:
	case <-time.After(5 * time.Second):
		t.Fatal("apply was not triggered by a document change")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func TestWatcher_AllDirectoriesAbsent(t *testing.T) {
	dir := t.TempDir()
	w := New([]string{filepath.Join(dir, "gone", "docker-compose.yml")}, func(ctx context.Context) error {
		return nil
	})

	err := w.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the document directories exist")
}

func TestWatcher_IgnoresUnwatchedFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "docker-compose.yml")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(watched, []byte("services: {}\n"), 0644))

	var applies atomic.Int32
	w := New([]string{watched}, func(ctx context.Context) error {
		applies.Add(1)
		return nil
	})
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(other, []byte("scratch"), 0644))
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, int32(0), applies.Load(), "a sibling file must not trigger an apply")

	cancel()
	<-done
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "application.yml")
	require.NoError(t, os.WriteFile(path, []byte("server: {}\n"), 0644))

	var applies atomic.Int32
	w := New([]string{path}, func(ctx context.Context) error {
		applies.Add(1)
		return nil
	})
	w.debounce = 200 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(200 * time.Millisecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("server: {}\n"), 0644))
		time.Sleep(20 * time.Millisecond)
	}
	time.Sleep(600 * time.Millisecond)

	assert.Equal(t, int32(1), applies.Load(), "a burst of writes collapses into one apply")

	cancel()
	<-done
}
