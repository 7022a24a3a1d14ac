//go:build !windows

package shortcut

import "errors"

var errNoShell = errors.New("shell links require Windows")

type unsupportedBackend struct{}

func newNativeBackend() Backend {
	return unsupportedBackend{}
}

func (unsupportedBackend) Save(string, Descriptor) error { return errNoShell }
func (unsupportedBackend) Load(string) (Descriptor, error) {
	return Descriptor{}, errNoShell
}
