package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchDebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "model.scad")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(watched, []byte("cube(1);"), 0o644))

	fw, err := NewFileWatcher(50*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	defer fw.Close()
	require.NoError(t, fw.Watch(watched))
	assert.Equal(t, 1, fw.Files())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan string, 10)
	go fw.Run(ctx, func(path string) {
		changes <- path
	})

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(watched, []byte("cube(2);"), 0o644))
	}

	select {
	case path := <-changes:
		assert.Equal(t, "model.scad", filepath.Base(path))
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case path := <-changes:
		t.Fatalf("unexpected second change for %s", path)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	fw, err := NewFileWatcher(time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	defer fw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, fw.Run(ctx, func(string) {}), context.Canceled)
}

func TestRemoveAll(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a.stl")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	fw, err := NewFileWatcher(time.Millisecond, zerolog.Nop())
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, fw.Watch(file))
	require.NoError(t, fw.RemoveAll())
	assert.Equal(t, 0, fw.Files())
}
