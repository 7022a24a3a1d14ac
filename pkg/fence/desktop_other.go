//go:build !windows

package fence

import (
	"os"
	"path/filepath"
)

// DesktopDir returns ~/Desktop.
func DesktopDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Desktop")
}
