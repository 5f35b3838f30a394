// Package watch notifies the dashboard when the league database changes on
// disk, for example after `paddock seed` or a join from another terminal.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces the burst of writes a single transaction
// produces in WAL mode.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reports changes to one SQLite database file.
type Watcher struct {
	watcher *fsnotify.Watcher
	logger  *zap.Logger

	dbPath  string
	walPath string

	// Debounce is the quiet period before notify runs. Set before Run.
	Debounce time.Duration

	mu        sync.Mutex
	timer     *time.Timer
	closed    bool
	closeOnce sync.Once
}

// New watches the directory holding path. The file itself may not exist
// yet; SQLite recreates the -wal file on every checkpoint, so watching the
// directory is the only way to keep seeing it.
func New(path string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		watcher:  fw,
		logger:   logger,
		dbPath:   abs,
		walPath:  abs + "-wal",
		Debounce: DefaultDebounce,
	}, nil
}

// Run delivers debounced change notifications until ctx is cancelled or
// the watcher is closed. notify runs on a timer goroutine.
func (w *Watcher) Run(ctx context.Context, notify func()) error {
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				w.schedule(notify)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("database watcher error", zap.Error(err))
		}
	}
}

// Close stops the watcher and drops any pending notification.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		if w.timer != nil {
			w.timer.Stop()
			w.timer = nil
		}
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	name := filepath.Clean(event.Name)
	if name != w.dbPath && name != w.walPath {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

func (w *Watcher) schedule(notify func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Reset(w.Debounce)
		return
	}
	w.timer = time.AfterFunc(w.Debounce, func() {
		w.mu.Lock()
		if w.closed {
			w.mu.Unlock()
			return
		}
		w.timer = nil
		w.mu.Unlock()

		w.logger.Debug("database changed", zap.String("path", w.dbPath))
		notify()
	})
}
