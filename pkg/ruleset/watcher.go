package ruleset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dmitrymomot/formcheck/pkg/logger"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads rule sets when rule files change. Bursts of events, such
// as an editor writing a temp file and renaming it, trigger one reload.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	fsw      *fsnotify.Watcher

	mu      sync.Mutex
	running bool
	timer   *time.Timer
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets the watcher logger. Nil loggers are ignored.
func WithWatcherLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWatcher watches path, a rule file or a directory of rule files.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		path:     path,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		fsw:      fsw,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch blocks until ctx is cancelled or Stop is called, calling onReload
// after each settled burst of rule file changes. Reload errors are logged
// and watching continues.
func (w *Watcher) Watch(ctx context.Context, onReload func() error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return ErrWatcherRunning
	}
	w.running = true
	w.mu.Unlock()
	defer close(w.doneCh)

	// Watching the parent directory survives editors that replace files.
	info, err := os.Stat(w.path)
	if err != nil {
		return fmt.Errorf("watch rules: %w", err)
	}
	dir := w.path
	if !info.IsDir() {
		dir = filepath.Dir(w.path)
	}
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch rules: %w", err)
	}

	w.logger.InfoContext(ctx, "watching rule files", logger.Path(w.path), logger.Duration(w.debounce))

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return nil
		case <-w.stopCh:
			w.cancelPending()
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("fsnotify events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.DebugContext(ctx, "rule file changed", logger.Path(event.Name), slog.String("op", event.Op.String()))
			w.schedule(ctx, onReload)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("fsnotify errors channel closed")
			}
			w.logger.ErrorContext(ctx, "rule watcher error", logger.Error(err))
		}
	}
}

// Stop ends a running Watch and releases the fsnotify watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()

	if running {
		select {
		case <-w.stopCh:
		default:
			close(w.stopCh)
		}
		<-w.doneCh
	}
	return w.fsw.Close()
}

func (w *Watcher) schedule(ctx context.Context, onReload func() error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		default:
		}
		if err := onReload(); err != nil {
			w.logger.ErrorContext(ctx, "rule reload failed", logger.Path(w.path), logger.Error(err))
		}
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	if !slices.Contains(Extensions, strings.ToLower(filepath.Ext(base))) {
		return false
	}

	// A single watched file ignores its siblings.
	if info, err := os.Stat(w.path); err == nil && !info.IsDir() {
		return filepath.Clean(event.Name) == filepath.Clean(w.path)
	}
	return true
}
