package server

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"resumescore/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// TaxonomyWatcher watches the taxonomy file and triggers reloads
type TaxonomyWatcher struct {
	mu sync.RWMutex

	file        string
	lastModTime time.Time

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	reloadCallback func()
	logger         *errors.Logger

	running bool
}

// NewTaxonomyWatcher creates a watcher for file. Bursts of events within
// debounceDelay trigger a single reload.
func NewTaxonomyWatcher(file string, debounceDelay time.Duration, reloadCallback func(), logger *errors.Logger) (*TaxonomyWatcher, error) {
	if file == "" {
		return nil, fmt.Errorf("taxonomy file path is required")
	}
	if reloadCallback == nil {
		return nil, fmt.Errorf("reload callback is required")
	}
	if debounceDelay == 0 {
		debounceDelay = time.Second
	}

	return &TaxonomyWatcher{
		file:           file,
		debounceDelay:  debounceDelay,
		reloadChan:     make(chan struct{}, 1),
		reloadCallback: reloadCallback,
		logger:         logger,
	}, nil
}

// Start begins watching the taxonomy file
func (tw *TaxonomyWatcher) Start() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.running {
		return fmt.Errorf("taxonomy watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	if stat, err := os.Stat(tw.file); err == nil {
		tw.lastModTime = stat.ModTime()
	} else if !os.IsNotExist(err) {
		_ = watcher.Close()
		return fmt.Errorf("failed to stat file %s: %w", tw.file, err)
	}

	// Editors and config management replace files with a rename, which drops
	// a watch on the file itself. Watching the directory catches both.
	dir := filepath.Dir(tw.file)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	tw.fsWatcher = watcher
	tw.stopChan = make(chan struct{})
	tw.running = true
	go tw.watchLoop(watcher, tw.stopChan)

	if tw.logger != nil {
		tw.logger.Info("Taxonomy file watcher started",
			"file", tw.file,
			"debounce_delay", tw.debounceDelay)
	}
	return nil
}

// Stop stops the watcher. Stopping a stopped watcher is a no-op.
func (tw *TaxonomyWatcher) Stop() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if !tw.running {
		return nil
	}

	close(tw.stopChan)
	if tw.debounceTimer != nil {
		tw.debounceTimer.Stop()
	}
	tw.running = false

	if err := tw.fsWatcher.Close(); err != nil {
		if tw.logger != nil {
			tw.logger.LogError(err, "Failed to close file system watcher")
		}
		return err
	}

	if tw.logger != nil {
		tw.logger.Info("Taxonomy file watcher stopped")
	}
	return nil
}

// IsRunning returns whether the watcher is currently running
func (tw *TaxonomyWatcher) IsRunning() bool {
	tw.mu.RLock()
	defer tw.mu.RUnlock()
	return tw.running
}

// File returns the watched path
func (tw *TaxonomyWatcher) File() string {
	return tw.file
}

func (tw *TaxonomyWatcher) watchLoop(watcher *fsnotify.Watcher, stop <-chan struct{}) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if tw.shouldProcessEvent(event) {
				tw.scheduleReload()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if tw.logger != nil {
				tw.logger.LogError(err, "File watcher error")
			}

		case <-tw.reloadChan:
			if tw.hasFileChanged() {
				if tw.logger != nil {
					tw.logger.Info("Taxonomy file changed, triggering reload", "file", tw.file)
				}
				tw.reloadCallback()
			}

		case <-stop:
			return
		}
	}
}

func (tw *TaxonomyWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(tw.file) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// hasFileChanged reports whether the file exists with a newer mtime than the
// last reload. A deleted file never triggers a reload.
func (tw *TaxonomyWatcher) hasFileChanged() bool {
	stat, err := os.Stat(tw.file)
	if err != nil {
		return false
	}

	tw.mu.Lock()
	defer tw.mu.Unlock()
	if stat.ModTime().Equal(tw.lastModTime) {
		return false
	}
	tw.lastModTime = stat.ModTime()
	return true
}

func (tw *TaxonomyWatcher) scheduleReload() {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.debounceTimer != nil {
		tw.debounceTimer.Stop()
	}

	tw.debounceTimer = time.AfterFunc(tw.debounceDelay, func() {
		select {
		case tw.reloadChan <- struct{}{}:
		default:
		}
	})
}
