// Package filewatch turns filesystem notifications for one file into a
// debounced stream of changes.
package filewatch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/axiom/pkg/log"
)

// DefaultDebounce is the quiet period after the last event before a change
// is reported.
const DefaultDebounce = 100 * time.Millisecond

// Change reports that the watched file was written, created, renamed or removed.
type Change struct {
	Path string
	Op   fsnotify.Op
	At   time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce delay. Zero reports every event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets a logger for watcher errors.
func WithLogger(logger log.Logger) Option {
	return func(w *Watcher) {
		w.logger = log.OrNoop(logger)
	}
}

// Watcher watches a single file through its parent directory, so editors
// that replace the file on save are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   log.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending fsnotify.Op
}

// New creates a Watcher for path.
func New(path string, opts ...Option) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
		logger:   log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Path returns the watched file path.
func (w *Watcher) Path() string { return w.path }

// Watch starts watching and returns the change stream. The stream is closed
// when ctx is done or the underlying watcher fails.
func (w *Watcher) Watch(ctx context.Context) (<-chan Change, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	out := make(chan Change)
	go w.loop(ctx, fw, out)
	return out, nil
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, out chan<- Change) {
	defer close(out)
	defer fw.Close()
	defer w.stopTimer()

	fire := make(chan fsnotify.Op, 1)
	name := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.schedule(event.Op, fire)

		case op := <-fire:
			select {
			case out <- Change{Path: w.path, Op: op, At: time.Now()}:
			case <-ctx.Done():
				return
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", log.String("path", w.path), log.Err(err))
		}
	}
}

// schedule restarts the debounce timer. Ops seen within one window are merged.
func (w *Watcher) schedule(op fsnotify.Op, fire chan fsnotify.Op) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending |= op
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		op := w.pending
		w.pending = 0
		w.mu.Unlock()
		if op == 0 {
			return
		}
		select {
		case fire <- op:
		default:
			// A change is already waiting to be reported.
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
