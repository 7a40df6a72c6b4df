// Package watch re-runs a callback when declaration files change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDelay is how long a burst of changes must settle before the
// callback runs
const DefaultDelay = 100 * time.Millisecond

// FileWatcher monitors a fixed set of files. It watches their directories so
// files replaced by rename (as most editors save) keep being tracked.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	files     map[string]struct{}
	dirs      []string
	logger    *zap.Logger
}

// NewFileWatcher creates a watcher for files. onChange receives the changed
// paths, sorted, as they were given to NewFileWatcher.
func NewFileWatcher(files []string, delay time.Duration, logger *zap.Logger, onChange func([]string)) (*FileWatcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	watched := make(map[string]struct{}, len(files))
	byAbs := make(map[string]string, len(files))
	dirSet := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		watched[abs] = struct{}{}
		byAbs[abs] = f
		dirSet[filepath.Dir(abs)] = struct{}{}
	}
	dirs := make([]string, 0, len(dirSet))
	for d := range dirSet {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	debouncer := NewDebouncer(delay)
	debouncer.SetCallback(func(changed []string) {
		names := make([]string, len(changed))
		for i, abs := range changed {
			names[i] = byAbs[abs]
		}
		sort.Strings(names)
		onChange(names)
	})

	return &FileWatcher{
		watcher:   fsw,
		debouncer: debouncer,
		files:     watched,
		dirs:      dirs,
		logger:    logger,
	}, nil
}

// Run watches until ctx is done. It returns nil on cancellation.
func (fw *FileWatcher) Run(ctx context.Context) error {
	defer fw.debouncer.Stop()
	defer fw.watcher.Close()

	for _, dir := range fw.dirs {
		if err := fw.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		fw.logger.Debug("watching directory", zap.String("dir", dir))
	}

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if !fw.relevant(event) {
				continue
			}
			fw.logger.Debug("file changed",
				zap.String("file", event.Name),
				zap.Stringer("op", event.Op))
			fw.debouncer.Add(event.Name)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.logger.Warn("watch error", zap.Error(err))

		case <-ctx.Done():
			return nil
		}
	}
}

func (fw *FileWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	_, ok := fw.files[filepath.Clean(event.Name)]
	return ok
}

// Debouncer collects file changes and triggers callbacks after a delay
type Debouncer struct {
	duration time.Duration
	timer    *time.Timer
	files    map[string]struct{}
	mutex    sync.Mutex
	callback func([]string)
	stopped  bool
}

// NewDebouncer creates a new debouncer instance
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
		files:    make(map[string]struct{}),
	}
}

// Add records a change and restarts the delay
func (d *Debouncer) Add(file string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.stopped {
		return
	}
	d.files[file] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, d.flush)
}

// flush hands the accumulated files to the callback, outside the lock
func (d *Debouncer) flush() {
	d.mutex.Lock()
	if d.stopped || len(d.files) == 0 {
		d.mutex.Unlock()
		return
	}
	files := make([]string, 0, len(d.files))
	for file := range d.files {
		files = append(files, file)
	}
	sort.Strings(files)
	d.files = make(map[string]struct{})
	callback := d.callback
	d.mutex.Unlock()

	if callback != nil {
		callback(files)
	}
}

// SetCallback sets the callback function
func (d *Debouncer) SetCallback(callback func([]string)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = callback
}

// Stop drops pending changes. It is safe to call more than once.
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.stopped = true
}
