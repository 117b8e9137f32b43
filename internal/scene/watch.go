package scene

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a scene file must stay quiet before a reload.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads a scene file when it changes on disk. Editors often
// replace files instead of writing them in place, so the parent directory is
// watched and events are filtered by name.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	logger   *zap.Logger
	debounce time.Duration
	onLoad   func(*Scene, error)

	pending time.Time
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithWatchLogger sets the watcher logger.
func WithWatchLogger(l *zap.Logger) WatchOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher creates a watcher for path. onLoad receives every reload
// result, including parse failures, on the watcher goroutine.
func NewWatcher(path string, onLoad func(*Scene, error), opts ...WatchOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scene path: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &Watcher{
		watcher:  fw,
		path:     abs,
		logger:   zap.NewNop(),
		debounce: DefaultDebounce,
		onLoad:   onLoad,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}
	w.running = true
	w.logger.Debug("scene watcher started", zap.String("path", w.path))
	go w.run(ctx)
	return nil
}

// Stop ends the watch loop and releases the file watcher. It is safe to
// call more than once and without Start.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		select {
		case <-w.stopCh:
		default:
			close(w.stopCh)
		}
		<-w.doneCh
	}
	return w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := time.NewTicker(w.debounce / 4)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("scene watcher error", zap.Error(err))
		case now := <-tick.C:
			w.flush(now)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
		return
	}
	w.logger.Debug("scene changed", zap.String("op", event.Op.String()))
	w.pending = time.Now()
}

func (w *Watcher) flush(now time.Time) {
	if w.pending.IsZero() || now.Sub(w.pending) < w.debounce {
		return
	}
	w.pending = time.Time{}
	s, err := Load(w.path)
	if err != nil {
		w.logger.Warn("scene reload failed", zap.Error(err))
	} else {
		w.logger.Info("scene reloaded", zap.String("path", w.path))
	}
	if w.onLoad != nil {
		w.onLoad(s, err)
	}
}
