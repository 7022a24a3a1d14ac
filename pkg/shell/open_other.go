//go:build !windows

package shell

import "fmt"

// Open is unavailable without the Windows shell.
func (s *Service) Open(path string) error {
	return fmt.Errorf("opening %s: %w", path, ErrUnsupported)
}
