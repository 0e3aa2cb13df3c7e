// Package watch reports changes to model files, coalescing the burst of
// events an editor produces on save into one callback per file.
package watch

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/internal/logger"
)

// DefaultDebounce is the quiet period after the last event before the
// callback runs.
const DefaultDebounce = 500 * time.Millisecond

// ErrClosed is returned when using a closed watcher.
var ErrClosed = errors.New("watcher closed")

// Callback receives the path of a changed file.
type Callback func(path string)

// FileWatcher watches individual files. Their parent directories are watched
// so files replaced by rename-on-save keep being tracked.
type FileWatcher struct {
	debounce time.Duration
	w        *fsnotify.Watcher
	log      *zap.Logger

	mu       sync.Mutex
	files    map[string]Callback
	dirs     map[string]bool
	timers   map[string]*time.Timer
	started  bool
	closed   bool
	done     chan struct{}
	finished chan struct{}
}

// NewFileWatcher creates a watcher with the given debounce window
// (DefaultDebounce when not positive).
func NewFileWatcher(debounce time.Duration) (*FileWatcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	return &FileWatcher{
		debounce: debounce,
		w:        w,
		log:      logger.Named("watch"),
		files:    make(map[string]Callback),
		dirs:     make(map[string]bool),
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}, nil
}

// Watch registers paths, calling cb after each settles following a change.
func (fw *FileWatcher) Watch(paths []string, cb Callback) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.closed {
		return ErrClosed
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", p, err)
		}
		dir := filepath.Dir(abs)
		if !fw.dirs[dir] {
			if err := fw.w.Add(dir); err != nil {
				return fmt.Errorf("watching %s: %w", dir, err)
			}
			fw.dirs[dir] = true
		}
		fw.files[abs] = cb
		fw.log.Debug("watching file", zap.String("path", abs))
	}
	return nil
}

// Files returns the number of watched files.
func (fw *FileWatcher) Files() int {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return len(fw.files)
}

// Start begins delivering events on a background goroutine. Calling it more
// than once has no effect.
func (fw *FileWatcher) Start() {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.started || fw.closed {
		return
	}
	fw.started = true
	go fw.loop()
}

func (fw *FileWatcher) loop() {
	defer close(fw.finished)
	for {
		select {
		case <-fw.done:
			return
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			fw.handle(ev)
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			fw.log.Warn("watch error", zap.Error(err))
		}
	}
}

func (fw *FileWatcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return
	}
	path, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	cb, ok := fw.files[path]
	if !ok || fw.closed {
		return
	}
	if t, pending := fw.timers[path]; pending {
		t.Reset(fw.debounce)
		return
	}
	fw.timers[path] = time.AfterFunc(fw.debounce, func() {
		fw.mu.Lock()
		delete(fw.timers, path)
		closed := fw.closed
		fw.mu.Unlock()
		if closed {
			return
		}
		fw.log.Info("file changed", zap.String("path", path))
		cb(path)
	})
}

// Close stops the watcher. Pending callbacks are dropped.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	if fw.closed {
		fw.mu.Unlock()
		return nil
	}
	fw.closed = true
	for p, t := range fw.timers {
		t.Stop()
		delete(fw.timers, p)
	}
	started := fw.started
	close(fw.done)
	fw.mu.Unlock()

	err := fw.w.Close()
	if started {
		<-fw.finished
	}
	return err
}
