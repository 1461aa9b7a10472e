// Package watcher re-runs extraction when reStructuredText documents change.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mvp-joe/restuml2code/internal/discovery"
)

// DefaultDebounce is the quiet period before a batch of changes is delivered.
const DefaultDebounce = 300 * time.Millisecond

// Option configures a DocWatcher.
type Option func(*DocWatcher)

// WithDebounce overrides the quiet period.
func WithDebounce(d time.Duration) Option {
	return func(w *DocWatcher) { w.debounce = d }
}

// WithLogger sets the logger for watch errors.
func WithLogger(l *slog.Logger) Option {
	return func(w *DocWatcher) { w.logger = l }
}

// DocWatcher watches a directory tree and reports changed documents in
// debounced batches. Only paths accepted by the matcher are reported.
type DocWatcher struct {
	watcher  *fsnotify.Watcher
	root     string
	matcher  *discovery.Matcher
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	fireCh  chan struct{}

	stopOnce sync.Once
	cancel   context.CancelFunc
	doneCh   chan struct{}
}

// New creates a watcher rooted at root. Directories rejected by the matcher's
// ignore patterns are not watched.
func New(root string, matcher *discovery.Matcher, opts ...Option) (*DocWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &DocWatcher{
		watcher:  fsw,
		root:     root,
		matcher:  matcher,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		pending:  make(map[string]struct{}),
		fireCh:   make(chan struct{}, 1),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Start delivers batches of changed document paths (relative to the root,
// sorted) to fn until ctx is cancelled or Stop is called.
func (w *DocWatcher) Start(ctx context.Context, fn func(changed []string)) {
	ctx, w.cancel = context.WithCancel(ctx)
	go w.loop(ctx, fn)
}

// Stop ends watching. It is safe to call more than once.
func (w *DocWatcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.doneCh
		}
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}

func (w *DocWatcher) loop(ctx context.Context, fn func([]string)) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case <-w.fireCh:
			if batch := w.drain(); len(batch) > 0 {
				fn(batch)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *DocWatcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
			}
			return
		}
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || !w.matcher.Match(filepath.ToSlash(rel)) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[filepath.ToSlash(rel)] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.fireCh <- struct{}{}:
		default:
		}
	})
}

func (w *DocWatcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	batch := make([]string, 0, len(w.pending))
	for p := range w.pending {
		batch = append(batch, p)
	}
	clear(w.pending)
	slices.Sort(batch)
	return batch
}

func (w *DocWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			w.logger.Warn("error accessing path", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if rel, relErr := filepath.Rel(w.root, path); relErr == nil && rel != "." &&
			w.matcher.Ignored(filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			w.logger.Warn("failed to watch directory", "dir", path, "error", err)
		}
		return nil
	})
}
