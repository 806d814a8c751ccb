// Package watch reports changes to a single file.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before a change is reported
const DefaultDebounce = 100 * time.Millisecond

// Watcher sends on Updates once a burst of changes to the file settles.
// Watch errors are sent on Updates as well; a nil value means the file changed.
type Watcher struct {
	watcher  *fsnotify.Watcher
	filename string
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer

	updates chan error
	Updates <-chan error
	done    chan struct{}
}

// WatchFile starts watching filename. The parent directory is watched so
// that editors replacing the file by rename are noticed.
func WatchFile(filename string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	abs, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", filename, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filename, err)
	}

	updates := make(chan error, 1)
	w := &Watcher{
		watcher:  fw,
		filename: abs,
		debounce: debounce,
		updates:  updates,
		Updates:  updates,
		done:     make(chan struct{}),
	}

	go w.process()

	return w, nil
}

// Close stops watching. Updates is not closed.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) process() {
	defer close(w.done)
	for {
		select {
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(err)
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.filename {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.debounceUpdate()
			}
		}
	}
}

func (w *Watcher) debounceUpdate() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.send(nil)
	})
}

// send never blocks; a pending update already covers this one
func (w *Watcher) send(err error) {
	select {
	case w.updates <- err:
	default:
	}
}
