// Package watch notifies about changes to individual files, such as the
// configuration file, using fsnotify.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"albumview/internal/log"
)

// Change is a modification of a watched file.
type Change struct {
	Path      string
	Timestamp time.Time
	Op        fsnotify.Op
}

// Removed reports whether the file went away.
func (c Change) Removed() bool {
	return c.Op.Has(fsnotify.Remove) || c.Op.Has(fsnotify.Rename)
}

// Watcher monitors files for changes. It watches the parent directory of
// each file so that editors which save by rename are still noticed.
type Watcher struct {
	// Absolute paths of the watched files
	files map[string]bool

	// Parent directories registered with fsnotify
	dirs map[string]bool

	changes  chan Change
	stopChan chan struct{}

	fsWatcher *fsnotify.Watcher

	mutex   sync.RWMutex
	running bool
}

// New creates a new file watcher
func New() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		files:     make(map[string]bool),
		dirs:      make(map[string]bool),
		changes:   make(chan Change, 10),
		stopChan:  make(chan struct{}),
		fsWatcher: fsWatcher,
	}, nil
}

// AddFile starts watching path. The file itself need not exist yet, but
// its directory must.
func (w *Watcher) AddFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("error resolving %s: %w", path, err)
	}
	dir := filepath.Dir(abs)

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()
	if !w.dirs[dir] {
		if err := w.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	w.files[abs] = true
	log.LogWithFields(log.F("file", abs)).Debug("Watching file")
	return nil
}

// Changes returns the channel that delivers changes to watched files.
// It is closed once the watcher has stopped.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start begins delivering changes.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	stop := w.stopChan
	w.mutex.Unlock()

	go w.loop(stop)
	return nil
}

func (w *Watcher) loop(stop <-chan struct{}) {
	defer close(w.changes)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			w.mutex.RLock()
			watched := w.files[abs]
			w.mutex.RUnlock()
			if !watched {
				continue
			}

			change := Change{Path: abs, Timestamp: time.Now(), Op: event.Op}
			select {
			case w.changes <- change:
			case <-stop:
				return
			default:
				log.LogWithFields(log.F("file", abs)).Warn("Change channel is full, dropped event")
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-stop:
			return
		}
	}
}

// Stop halts the watcher and closes the change channel.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.running {
		return
	}
	close(w.stopChan)
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	w.running = false
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// Files returns the watched file paths.
func (w *Watcher) Files() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	return out
}
