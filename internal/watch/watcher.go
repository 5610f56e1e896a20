// Package watch keeps headers current while files change, by batching
// filesystem events and handing the touched paths to a callback.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceDelay is the quiet period before a batch is flushed.
const DefaultDebounceDelay = 300 * time.Millisecond

// Handler receives each batch of changed files, sorted.
type Handler func(ctx context.Context, paths []string)

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet period before a batch is flushed
	Debounce time.Duration
	// SkipDir reports whether a directory, given relative to the root with
	// forward slashes, must not be watched
	SkipDir func(rel string) bool
	// SkipFile reports whether a changed file, relative to the root, is ignored
	SkipFile func(rel string) bool
	// OnError receives watcher errors; they never stop the watch
	OnError func(err error)
}

// Watcher watches a directory tree for written or created files.
type Watcher struct {
	watcher *fsnotify.Watcher
	root    string
	opts    Options

	mu      sync.Mutex
	pending map[string]struct{}
}

// New creates a Watcher on root and all its subdirectories.
func New(root string, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounceDelay
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher: fw,
		root:    root,
		opts:    opts,
		pending: make(map[string]struct{}),
	}
	if err := w.addRecursive(root); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// Root returns the absolute watched directory.
func (w *Watcher) Root() string {
	return w.root
}

// addRecursive adds dir and all its subdirectories to the watcher.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) || os.IsPermission(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.skipDir(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			if os.IsPermission(err) {
				return nil
			}
			return err
		}
		return nil
	})
}

func (w *Watcher) rel(path string) (string, bool) {
	r, err := filepath.Rel(w.root, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(r), true
}

func (w *Watcher) skipDir(path string) bool {
	if w.opts.SkipDir == nil {
		return false
	}
	rel, ok := w.rel(path)
	return !ok || w.opts.SkipDir(rel)
}

// Run processes events until ctx is done, calling handle with each debounced
// batch. It closes the underlying watcher before returning.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	armed := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(event) {
				timer.Reset(w.opts.Debounce)
				armed = true
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if w.opts.OnError != nil {
				w.opts.OnError(err)
			}

		case <-timer.C:
			if !armed {
				continue
			}
			armed = false
			if batch := w.drain(); len(batch) > 0 {
				handle(ctx, batch)
			}
		}
	}
}

// handleEvent records a changed file and reports whether the batch grew.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addRecursive(path); err != nil && w.opts.OnError != nil {
				w.opts.OnError(err)
			}
			return false
		}
	}

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	rel, ok := w.rel(path)
	if !ok || (w.opts.SkipFile != nil && w.opts.SkipFile(rel)) {
		return false
	}

	w.mu.Lock()
	w.pending[path] = struct{}{}
	w.mu.Unlock()
	return true
}

// drain returns and clears the pending paths.
func (w *Watcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	batch := make([]string, 0, len(w.pending))
	for p := range w.pending {
		batch = append(batch, p)
	}
	w.pending = make(map[string]struct{})
	sort.Strings(batch)
	return batch
}

// Close stops the watcher without running it.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
