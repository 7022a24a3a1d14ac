// Package hotkey binds the global shortcut that toggles desktop icons.
package hotkey

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dixieflatline76/Fences/util/log"
)

// ErrUnsupported is returned by Start where global hotkeys are unavailable.
var ErrUnsupported = errors.New("global hotkeys are not supported on this platform")

// ToggleCombo is the shortcut that toggles desktop icons.
const ToggleCombo = "Ctrl+Alt+D"

// repeatGuard drops presses that follow an accepted one too closely, such as key auto-repeat.
const repeatGuard = 200 * time.Millisecond

// Key is a registrable global shortcut.
type Key interface {
	Register() error
	Unregister() error
	// Pressed delivers one value per key press.
	Pressed() <-chan struct{}
}

// Listener runs an action each time its key is pressed.
type Listener struct {
	key    Key
	name   string
	action func()
	now    func() time.Time

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewToggleListener returns a listener for Ctrl+Alt+D.
func NewToggleListener(action func()) *Listener {
	return NewListener(newToggleKey(), ToggleCombo, action)
}

// NewListener returns a listener running action when key is pressed.
func NewListener(key Key, name string, action func()) *Listener {
	return &Listener{key: key, name: name, action: action, now: time.Now}
}

// Start registers the key. Starting a running listener is a no-op.
func (l *Listener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stop != nil {
		return nil
	}
	if err := l.key.Register(); err != nil {
		return fmt.Errorf("registering hotkey %s: %w", l.name, err)
	}
	log.Printf("[Hotkey] registered %s", l.name)

	l.stop = make(chan struct{})
	l.done = make(chan struct{})
	go l.listen(l.stop, l.done)
	return nil
}

// Stop unregisters the key and waits for a running action to return.
func (l *Listener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stop == nil {
		return
	}
	close(l.stop)
	<-l.done
	l.stop, l.done = nil, nil

	if err := l.key.Unregister(); err != nil {
		log.Printf("[Hotkey] unregistering %s: %v", l.name, err)
	}
}

// Running reports whether the key is registered.
func (l *Listener) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stop != nil
}

func (l *Listener) listen(stop, done chan struct{}) {
	defer close(done)
	var last time.Time
	pressed := l.key.Pressed()
	for {
		select {
		case <-stop:
			return
		case _, ok := <-pressed:
			if !ok {
				return
			}
			now := l.now()
			if !last.IsZero() && now.Sub(last) < repeatGuard {
				continue
			}
			last = now
			log.Debugf("[Hotkey] %s pressed", l.name)
			l.run()
		}
	}
}

func (l *Listener) run() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Hotkey] action for %s panicked: %v", l.name, r)
		}
	}()
	l.action()
}
