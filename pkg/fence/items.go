package fence

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dixieflatline76/Fences/config"
)

// Item is one entry of a fence folder.
type Item struct {
	Path string
	// Name is the file name without its extension.
	Name string
}

// Items lists the files of a fence folder by name. In-progress writes (*.tmp) and the shell's
// desktop.ini are skipped.
func Items(folder string) ([]Item, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("reading fence folder: %w", err)
	}

	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || skipEntry(e.Name()) {
			continue
		}
		items = append(items, Item{
			Path: filepath.Join(folder, e.Name()),
			Name: strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items, nil
}

func skipEntry(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".tmp") || lower == "desktop.ini"
}

// DefaultRoot is the folder holding every fence folder, <Desktop>/Fences.
func DefaultRoot() string {
	return filepath.Join(DesktopDir(), config.FencesSubDir)
}
