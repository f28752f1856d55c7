package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/glaze/internal/adapters/watcher"
	"go.trai.ch/glaze/internal/core/ports"
	"go.trai.ch/glaze/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func startWatcher(t *testing.T, root string) <-chan ports.WatchEvent {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx, root))
	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
	})

	out := make(chan ports.WatchEvent, 32)
	go func() {
		for ev := range w.Events() {
			out <- ev
		}
	}()
	return out
}

func nextEvent(t *testing.T, events <-chan ports.WatchEvent) ports.WatchEvent {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch event")
		return ports.WatchEvent{}
	}
}

func TestWatcher_FileRoot(t *testing.T) {
	dir := t.TempDir()
	material := filepath.Join(dir, "material.yaml")
	require.NoError(t, os.WriteFile(material, []byte("nodes: []\n"), 0o600))

	events := startWatcher(t, material)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(material, []byte("nodes: [a]\n"), 0o600))

	ev := nextEvent(t, events)
	assert.Equal(t, material, ev.Path)
	assert.Contains(t, []ports.WatchOp{ports.OpWrite, ports.OpCreate}, ev.Operation)
}

func TestWatcher_DirectoryRoot(t *testing.T) {
	dir := t.TempDir()
	events := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "glass.yml"), []byte("x"), 0o600))

	ev := nextEvent(t, events)
	assert.Equal(t, filepath.Join(dir, "glass.yml"), ev.Path)
}

func TestWatcher_MissingRoot(t *testing.T) {
	ctrl := gomock.NewController(t)
	w, err := watcher.NewWatcher(mocks.NewMockLogger(ctrl))
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	err = w.Start(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to stat watch root")
}
