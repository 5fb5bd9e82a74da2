package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"webwright/internal/logging"
)

// FileChangeHandler receives the absolute path of a file once its
// change burst has settled.
type FileChangeHandler func(path string)

// Config controls the sandbox watcher.
type Config struct {
	Enabled    bool
	DebounceMs int
}

// Watcher monitors the sandbox for changes made outside the write tool
// so derived artifacts can be refreshed in the background.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	root       string
	debounceMs int
	onChange   FileChangeHandler
	pending    map[string]time.Time
	mu         sync.Mutex
	done       chan struct{}
	running    bool
	stopOnce   sync.Once
}

// New creates a watcher for the sandbox root. A disabled config yields
// an inert watcher whose Start and Stop are no-ops.
func New(root string, cfg Config) (*Watcher, error) {
	if !cfg.Enabled {
		return &Watcher{}, nil
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	debounceMs := cfg.DebounceMs
	if debounceMs <= 0 {
		debounceMs = 500
	}

	return &Watcher{
		fsWatcher:  fsWatcher,
		root:       root,
		debounceMs: debounceMs,
		pending:    make(map[string]time.Time),
		done:       make(chan struct{}),
	}, nil
}

// SetOnChange sets the callback for settled file changes.
func (w *Watcher) SetOnChange(handler FileChangeHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = handler
}

// Start begins watching the sandbox tree.
func (w *Watcher) Start() error {
	if w.fsWatcher == nil {
		return nil
	}

	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.addDirectories(); err != nil {
		return err
	}

	go w.processEvents()
	go w.processDebounce()

	return nil
}

// Stop stops watching.
func (w *Watcher) Stop() error {
	if w.fsWatcher == nil {
		return nil
	}

	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	w.stopOnce.Do(func() {
		close(w.done)
	})
	return w.fsWatcher.Close()
}

// skipDir reports directories that never need watching.
func skipDir(name string) bool {
	return name == ".git" || name == "node_modules" || name == "dist" || name == "build"
}

// addDirectories registers every directory under the root.
func (w *Watcher) addDirectories() error {
	return filepath.Walk(w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if skipDir(info.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			logging.Debug("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// processEvents drains raw fsnotify events.
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			logging.Debug("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	// Skip editor temp files
	base := filepath.Base(path)
	if len(base) > 0 && (base[0] == '.' || base[0] == '#' || base[len(base)-1] == '~') {
		return
	}

	// Watch directories as they appear
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !skipDir(info.Name()) {
				_ = w.fsWatcher.Add(path)
			}
			return
		}
	}

	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

// processDebounce flushes settled events on a half-debounce tick.
func (w *Watcher) processDebounce() {
	interval := time.Duration(w.debounceMs/2) * time.Millisecond
	if interval < time.Millisecond {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.flushPending()
		}
	}
}

// flushPending delivers paths that have been stable for the debounce
// window.
func (w *Watcher) flushPending() {
	w.mu.Lock()
	handler := w.onChange
	if handler == nil || len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}

	now := time.Now()
	debounce := time.Duration(w.debounceMs) * time.Millisecond
	var toSend []string

	for path, eventTime := range w.pending {
		if now.Sub(eventTime) >= debounce {
			toSend = append(toSend, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range toSend {
		handler(path)
	}
}

// IsRunning reports whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
