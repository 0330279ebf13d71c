// Package watcher requests early poll cycles when task files change on disk.
package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces bursts of events, such as an editor's
// write-rename-chmod sequence, into one notification.
const debounceDelay = 100 * time.Millisecond

// relevantOps are the operations that can change the parsed snapshot.
const relevantOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// Watcher watches a single task directory (not its subdirectories) and
// invokes a callback, debounced, when a markdown file in it changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	dir      string
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
}

// New creates a Watcher for dir.
func New(dir string, callback func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return &Watcher{
		fsw:      fsw,
		dir:      dir,
		callback: callback,
	}, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Run processes events until ctx is canceled or the watcher is closed.
// Errors from fsnotify are handed to errFn when it is non-nil.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if Relevant(event) {
				w.debounce()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

// Relevant reports whether event can affect the task snapshot: a create,
// write, remove or rename of a *.md file.
func Relevant(event fsnotify.Event) bool {
	if event.Op&relevantOps == 0 {
		return false
	}
	return strings.HasSuffix(filepath.Base(event.Name), ".md")
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) debounce() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceDelay, w.callback)
}
