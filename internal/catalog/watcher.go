package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/scholard/internal/logging"
)

// DefaultDebounce is how long the watcher waits after the last write before reloading.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a catalog file when it changes and hands every valid
// snapshot to its subscribers. Invalid edits are logged and skipped.
type Watcher struct {
	path     string
	debounce time.Duration

	mu          sync.RWMutex
	current     *Catalog
	subscribers []func(*Catalog)
}

// NewWatcher loads path and returns a watcher for it.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("catalog watcher requires a file path")
	}
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{path: path, debounce: debounce, current: c}, nil
}

// Current returns the most recent valid snapshot.
func (w *Watcher) Current() *Catalog {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnReload registers fn to be called with every reloaded snapshot.
func (w *Watcher) OnReload(fn func(*Catalog)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.subscribers = append(w.subscribers, fn)
}

// Run watches the catalog until ctx is cancelled. The parent directory is
// watched so editors that replace the file by rename are still seen.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating catalog watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}

	log := logging.FromContext(ctx)
	log.Info(ctx, "watching catalog", zap.String("path", w.path))

	base := filepath.Base(w.path)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				timer.Reset(w.debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn(ctx, "catalog watcher error", zap.Error(err))

		case <-timer.C:
			w.reload(ctx)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	log := logging.FromContext(ctx)

	c, err := Load(w.path)
	if err != nil {
		log.Warn(ctx, "catalog reload rejected", zap.String("path", w.path), zap.Error(err))
		return
	}

	w.mu.Lock()
	w.current = c
	subs := slices.Clone(w.subscribers)
	w.mu.Unlock()

	for _, fn := range subs {
		fn(c)
	}
	log.Info(ctx, "catalog reloaded",
		zap.Int("papers", len(c.Papers)),
		zap.Int("researchers", len(c.Researchers)),
	)
}
