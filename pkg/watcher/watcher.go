package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// FileWatcher reports changes to a set of files. Bursts of events are
// debounced into a single callback carrying the last changed path.
//
// The parent directories are watched rather than the files themselves so
// editors that save by replacing the file keep being observed.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	files    map[string]bool
	dirs     map[string]bool
	debounce time.Duration
	timer    *time.Timer
	log      zerolog.Logger
}

// NewFileWatcher creates a new file watcher
func NewFileWatcher(debounce time.Duration, log zerolog.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  watcher,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		debounce: debounce,
		log:      log,
	}, nil
}

// Watch adds files to the watched set
func (fw *FileWatcher) Watch(files ...string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}

		dir := filepath.Dir(absPath)
		if !fw.dirs[dir] {
			if err := fw.watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			fw.dirs[dir] = true
		}
		fw.files[absPath] = true
	}

	return nil
}

// Files returns the number of watched files
func (fw *FileWatcher) Files() int {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return len(fw.files)
}

// Run delivers debounced changes to callback until ctx is done
func (fw *FileWatcher) Run(ctx context.Context, callback func(string)) error {
	for {
		select {
		case <-ctx.Done():
			fw.mu.Lock()
			if fw.timer != nil {
				fw.timer.Stop()
			}
			fw.mu.Unlock()
			return ctx.Err()

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				fw.handleFileChange(event.Name, callback)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

// handleFileChange restarts the debounce timer for a watched file
func (fw *FileWatcher) handleFileChange(filePath string, callback func(string)) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if !fw.files[filepath.Clean(filePath)] {
		return
	}
	fw.log.Debug().Str("file", filePath).Msg("file changed")

	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.debounce, func() {
		callback(filePath)
	})
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}

// RemoveAll forgets every watched file
func (fw *FileWatcher) RemoveAll() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for dir := range fw.dirs {
		if err := fw.watcher.Remove(dir); err != nil {
			return err
		}
	}

	fw.files = make(map[string]bool)
	fw.dirs = make(map[string]bool)
	return nil
}
