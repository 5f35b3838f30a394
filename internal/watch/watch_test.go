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
	"go.uber.org/zap"
)

func startWatcher(t *testing.T, dbPath string) *atomic.Int32 {
	t.Helper()
	w, err := New(dbPath, zap.NewNop())
	require.NoError(t, err)
	w.Debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var calls atomic.Int32
	go w.Run(ctx, func() { calls.Add(1) })
	return &calls
}

func TestWatcherCoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "paddock.db")
	calls := startWatcher(t, dbPath)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(dbPath, []byte{byte(i)}, 0o644))
		require.NoError(t, os.WriteFile(dbPath+"-wal", []byte{byte(i)}, 0o644))
	}

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	calls := startWatcher(t, filepath.Join(dir, "paddock.db"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "paddock.db-shm"), []byte("x"), 0o644))

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestRunStopsOnCancel(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "paddock.db"), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func() {}) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
