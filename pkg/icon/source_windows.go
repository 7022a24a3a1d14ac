//go:build windows

package icon

import (
	"image"
	"os"

	"github.com/dixieflatline76/Fences/pkg/shortcut"
	"github.com/dixieflatline76/Fences/pkg/win32"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

type nativeSource struct{}

func newNativeSource() Source {
	return nativeSource{}
}

func (nativeSource) FileIcon(file string, index int32) (image.Image, error) {
	if expanded, err := registry.ExpandString(file); err == nil {
		file = expanded
	}
	return withCOM(func() (image.Image, error) {
		return toImage(win32.ExtractIcon(file, index))
	})
}

func (nativeSource) LinkIcon(link string) (image.Image, error) {
	var img image.Image
	err := shortcut.ReadIDList(link, func(pidl uintptr) error {
		var err error
		img, err = toImage(win32.IDListIcon(pidl))
		return err
	})
	return img, err
}

func (nativeSource) ShellIcon(pathOrToken string) (image.Image, error) {
	return withCOM(func() (image.Image, error) {
		if shortcut.IsVirtual(pathOrToken) {
			pidl, err := win32.ParseDisplayName(pathOrToken)
			if err != nil {
				return nil, err
			}
			defer win32.FreeIDList(pidl)
			return toImage(win32.IDListIcon(pidl))
		}
		_, statErr := os.Stat(pathOrToken)
		return toImage(win32.FileIcon(pathOrToken, statErr == nil))
	})
}

func withCOM(fn func() (image.Image, error)) (image.Image, error) {
	release, err := win32.ComInit()
	if err != nil {
		return nil, err
	}
	defer release()
	return fn()
}

// toImage copies an icon into an RGBA image and destroys the icon.
func toImage(h windows.Handle) (image.Image, error) {
	if h == 0 {
		return nil, ErrNoIcon
	}
	defer win32.DestroyIcon(h)

	size := win32.SystemMetric(win32.SM_CXICON)
	if size <= 0 {
		size = 32
	}
	bgra, mask, err := win32.RenderIcon(h, size)
	if err != nil {
		return nil, err
	}
	return fromBGRA(bgra, mask, int(size)), nil
}
