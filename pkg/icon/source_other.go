//go:build !windows

package icon

import "image"

type inertSource struct{}

func newNativeSource() Source {
	return inertSource{}
}

func (inertSource) FileIcon(string, int32) (image.Image, error) { return nil, ErrNoIcon }
func (inertSource) LinkIcon(string) (image.Image, error)        { return nil, ErrNoIcon }
func (inertSource) ShellIcon(string) (image.Image, error)       { return nil, ErrNoIcon }
