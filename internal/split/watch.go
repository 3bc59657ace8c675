package split

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-runs a split job whenever the watched source file changes. Each
// run starts from a full re-parse; nothing from the previous run is reused.
type Watcher struct {
	sourceFile string
	rerun      func() error

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	watching bool
	stop     chan struct{}
}

// NewWatcher creates a watcher for sourceFile. rerun is invoked after each
// debounced change batch.
func NewWatcher(sourceFile string, rerun func() error) *Watcher {
	return &Watcher{sourceFile: sourceFile, rerun: rerun}
}

// Start begins watching. Events on the source file are debounced so editors
// that write in several syscalls trigger a single re-run.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return fmt.Errorf("already watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the containing directory; many editors replace the file on
	// save, which drops a direct file watch.
	if err := watcher.Add(filepath.Dir(w.sourceFile)); err != nil {
		watcher.Close()
		w.mu.Unlock()
		return fmt.Errorf("failed to watch %s: %w", w.sourceFile, err)
	}

	w.watcher = watcher
	w.watching = true
	w.stop = make(chan struct{})
	w.mu.Unlock()

	var debounce *time.Timer

	go func() {
		for {
			select {
			case <-w.stop:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(w.sourceFile) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(500*time.Millisecond, func() {
					if _, err := os.Stat(w.sourceFile); err != nil {
						fmt.Fprintf(os.Stderr, "Warning: source file gone: %v\n", err)
						return
					}
					if err := w.rerun(); err != nil {
						fmt.Fprintf(os.Stderr, "Warning: split re-run failed: %v\n", err)
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
			}
		}
	}()

	return nil
}

// Stop ends watching and releases the underlying watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.watching {
		return
	}
	close(w.stop)
	w.watcher.Close()
	w.watching = false
}
