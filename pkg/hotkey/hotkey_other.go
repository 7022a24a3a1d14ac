//go:build !windows

package hotkey

type unsupportedKey struct{}

func newToggleKey() Key { return unsupportedKey{} }

func (unsupportedKey) Register() error          { return ErrUnsupported }
func (unsupportedKey) Unregister() error        { return nil }
func (unsupportedKey) Pressed() <-chan struct{} { return nil }
