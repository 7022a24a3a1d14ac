package fence

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dixieflatline76/Fences/util/log"
)

// DebounceDelay is how long a fence folder must be quiet before its change is reported.
const DebounceDelay = 150 * time.Millisecond

// Watcher reports changes to fence folders. Bursts of events for one folder are collapsed into a
// single callback, which runs on its own goroutine.
type Watcher struct {
	fs       *fsnotify.Watcher
	onChange func(folder string)
	delay    time.Duration

	mu      sync.Mutex
	folders map[string]string // lower-cased key to folder as registered
	timers  map[string]*time.Timer
	paused  bool
	closed  bool

	done chan struct{}
}

// NewWatcher starts a watcher that calls onChange with the folder that changed.
func NewWatcher(onChange func(folder string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating folder watcher: %w", err)
	}
	w := &Watcher{
		fs:       fsw,
		onChange: onChange,
		delay:    DebounceDelay,
		folders:  make(map[string]string),
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Watch adds a fence folder. Watching a folder twice is a no-op.
func (w *Watcher) Watch(folder string) error {
	key := folderKey(folder)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("watching %s: watcher closed", folder)
	}
	if _, ok := w.folders[key]; ok {
		return nil
	}
	if err := w.fs.Add(folder); err != nil {
		return fmt.Errorf("watching %s: %w", folder, err)
	}
	w.folders[key] = folder
	return nil
}

// Unwatch removes a fence folder and drops any pending change for it.
func (w *Watcher) Unwatch(folder string) {
	key := folderKey(folder)

	w.mu.Lock()
	defer w.mu.Unlock()
	registered, ok := w.folders[key]
	if !ok {
		return
	}
	delete(w.folders, key)
	if t := w.timers[key]; t != nil {
		t.Stop()
		delete(w.timers, key)
	}
	if err := w.fs.Remove(registered); err != nil {
		log.Debugf("[Fence] unwatching %s: %v", registered, err)
	}
}

// SetPaused drops events while paused, so the app's own writes do not trigger reloads.
func (w *Watcher) SetPaused(paused bool) {
	w.mu.Lock()
	w.paused = paused
	w.mu.Unlock()
}

// Close stops the watcher. Pending callbacks are cancelled.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for key, t := range w.timers {
		t.Stop()
		delete(w.timers, key)
	}
	w.mu.Unlock()

	err := w.fs.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("[Fence] watch error: %v", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod || strings.HasSuffix(strings.ToLower(ev.Name), ".tmp") {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.paused || w.closed {
		return
	}

	key := folderKey(filepath.Dir(ev.Name))
	folder, ok := w.folders[key]
	if !ok {
		// the folder itself was removed or renamed
		key = folderKey(ev.Name)
		if folder, ok = w.folders[key]; !ok {
			return
		}
	}

	if t := w.timers[key]; t != nil {
		t.Reset(w.delay)
		return
	}
	w.timers[key] = time.AfterFunc(w.delay, func() {
		w.mu.Lock()
		delete(w.timers, key)
		_, still := w.folders[key]
		closed := w.closed
		w.mu.Unlock()
		if still && !closed {
			w.onChange(folder)
		}
	})
}

func folderKey(folder string) string {
	return strings.ToLower(filepath.Clean(folder))
}
