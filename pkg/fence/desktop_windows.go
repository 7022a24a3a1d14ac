//go:build windows

package fence

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/windows"
)

// DesktopDir returns the user's Desktop folder.
func DesktopDir() string {
	if dir, err := windows.KnownFolderPath(windows.FOLDERID_Desktop, windows.KF_FLAG_DEFAULT); err == nil && dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Desktop")
}
