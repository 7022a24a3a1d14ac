//go:build windows

package hotkey

import (
	"golang.design/x/hotkey"
)

const (
	modCtrl = hotkey.ModCtrl
	modAlt  = hotkey.ModAlt

	keyD = hotkey.KeyD
)

// libKey adapts a golang.design hotkey to Key.
type libKey struct {
	hk      *hotkey.Hotkey
	pressed chan struct{}
	quit    chan struct{}
}

func newToggleKey() Key {
	return &libKey{
		hk:      hotkey.New([]hotkey.Modifier{modCtrl, modAlt}, keyD),
		pressed: make(chan struct{}, 1),
	}
}

func (k *libKey) Register() error {
	if err := k.hk.Register(); err != nil {
		return err
	}
	k.quit = make(chan struct{})
	go k.forward(k.hk.Keydown(), k.quit)
	return nil
}

func (k *libKey) Unregister() error {
	if k.quit != nil {
		close(k.quit)
		k.quit = nil
	}
	return k.hk.Unregister()
}

func (k *libKey) Pressed() <-chan struct{} {
	return k.pressed
}

func (k *libKey) forward(in <-chan hotkey.Event, quit chan struct{}) {
	for {
		select {
		case <-quit:
			return
		case _, ok := <-in:
			if !ok {
				return
			}
			select {
			case k.pressed <- struct{}{}:
			default:
			}
		}
	}
}
