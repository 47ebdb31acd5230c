// Package dropzone turns files landing in a watched folder into drop events.
package dropzone

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must stay quiet before it counts as dropped.
const DefaultDebounce = 400 * time.Millisecond

// EventKind distinguishes the start of a drop from its completion.
type EventKind int

const (
	// Incoming fires once when the first file of a new batch appears.
	Incoming EventKind = iota
	// Settled carries every file of the batch after writes stop.
	Settled
)

// Event is emitted on the watcher's channel.
type Event struct {
	Kind  EventKind
	Paths []string
}

// Watcher watches a single directory (non-recursively).
type Watcher struct {
	mu       sync.Mutex
	dir      string
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	debounce time.Duration
	pending  map[string]time.Time
	events   chan Event
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// New prepares a watcher for dir. Nothing is watched until Start.
func New(dir string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("drop directory must not be empty")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		dir:      dir,
		watcher:  fsw,
		logger:   logger.Named("dropzone"),
		debounce: debounce,
		pending:  make(map[string]time.Time),
		events:   make(chan Event, 8),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Dir is the watched folder.
func (w *Watcher) Dir() string { return w.dir }

// Events delivers drop events until the watcher stops.
func (w *Watcher) Events() <-chan Event { return w.events }

// Start creates the folder if needed and begins watching in the background.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	// Stop waits on the run loop only once it exists.
	w.running = true
	w.logger.Info("watching drop folder", zap.String("dir", w.dir))

	go w.run(ctx)
	return nil
}

// Stop ends the watch loop and closes the event channel.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("close watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer close(w.events)

	ticker := time.NewTicker(w.debounce / 4)
	defer ticker.Stop()

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
			if !w.handle(ctx, event) {
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("drop folder error", zap.Error(err))
		case now := <-ticker.C:
			if !w.flush(ctx, now) {
				return
			}
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 || ignored(event.Name) {
		return true
	}
	w.logger.Debug("drop folder event", zap.String("path", event.Name), zap.String("op", event.Op.String()))

	first := len(w.pending) == 0
	w.pending[event.Name] = time.Now()
	if first {
		return w.emit(ctx, Event{Kind: Incoming})
	}
	return true
}

func (w *Watcher) flush(ctx context.Context, now time.Time) bool {
	if len(w.pending) == 0 {
		return true
	}
	for _, last := range w.pending {
		if now.Sub(last) < w.debounce {
			return true
		}
	}
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		paths = append(paths, path)
	}
	w.pending = make(map[string]time.Time)
	sort.Strings(paths)
	w.logger.Info("drop folder batch", zap.Int("files", len(paths)))
	return w.emit(ctx, Event{Kind: Settled, Paths: paths})
}

func (w *Watcher) emit(ctx context.Context, event Event) bool {
	select {
	case w.events <- event:
		return true
	case <-ctx.Done():
		return false
	case <-w.stopCh:
		return false
	}
}

// ignored skips hidden files and in-progress downloads.
func ignored(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return true
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".part", ".crdownload", ".download", ".tmp":
		return true
	}
	return false
}
