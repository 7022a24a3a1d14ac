//go:build windows

package shell

import (
	"fmt"
	"path/filepath"

	"github.com/dixieflatline76/Fences/pkg/shortcut"
	"github.com/dixieflatline76/Fences/pkg/win32"
)

// Open launches a fence item the way Explorer would.
func (s *Service) Open(path string) error {
	dir := filepath.Dir(path)
	if shortcut.IsVirtual(path) {
		dir = ""
	}
	if err := win32.ShellExecute(path, "", dir); err != nil {
		return fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	return nil
}
