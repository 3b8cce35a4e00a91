package texcache

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher queues tracked files that change on disk. It watches the parent
// directory of each tracked file, so editors that replace files by rename
// are seen too. The event goroutine only appends to the queue; callers
// drain it from their own loop with Drain.
type Watcher struct {
	fs   *fsnotify.Watcher
	done chan struct{}
	wg   sync.WaitGroup

	mu      sync.Mutex
	tracked map[string]bool
	dirs    map[string]int
	queued  map[string]bool
	pending []string
	closed  bool
}

// NewWatcher starts an fsnotify watcher with nothing tracked.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("texcache: watcher: %w", err)
	}
	w := &Watcher{
		fs:      fw,
		done:    make(chan struct{}),
		tracked: make(map[string]bool),
		dirs:    make(map[string]int),
		queued:  make(map[string]bool),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Track starts reporting changes to path.
func (w *Watcher) Track(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("texcache: watch %s: %w", path, err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("texcache: watcher closed")
	}
	if w.tracked[abs] {
		return nil
	}
	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("texcache: watch %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.tracked[abs] = true
	return nil
}

// Untrack stops reporting changes to path.
func (w *Watcher) Untrack(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.tracked[abs] {
		return
	}
	delete(w.tracked, abs)
	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		if !w.closed {
			_ = w.fs.Remove(dir)
		}
	}
}

// Tracked reports whether path is being watched.
func (w *Watcher) Tracked(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tracked[abs]
}

// Drain returns the absolute paths changed since the last call, in the
// order they first changed, and empties the queue.
func (w *Watcher) Drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.pending
	w.pending = nil
	clear(w.queued)
	return out
}

// Close stops the event goroutine and releases the fsnotify handle.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()
	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if e.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.enqueue(filepath.Clean(e.Name))
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger().Error("watcher", "err", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) enqueue(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.tracked[path] || w.queued[path] {
		return
	}
	w.queued[path] = true
	w.pending = append(w.pending, path)
	logger().Debug("file changed", "path", path)
}
