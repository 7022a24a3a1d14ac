package fence

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dixieflatline76/Fences/pkg/shortcut"
	"github.com/dixieflatline76/Fences/util/log"
)

// SystemShortcut is a shell location offered as a ready-made shortcut.
type SystemShortcut struct {
	Name   string
	Target string
}

// SystemShortcuts returns the shell locations added by AddSystemShortcuts. The user's home folder
// is included when it can be determined.
func SystemShortcuts() []SystemShortcut {
	list := []SystemShortcut{
		{Name: "This PC", Target: "::{20D04FE0-3AEA-1069-A2D8-08002B30309D}"},
		{Name: "Control Panel", Target: "shell:ControlPanelFolder"},
		{Name: "Network", Target: "::{F02C1A0D-BE21-4350-88B0-7367FC96EF3C}"},
		{Name: "Recycle Bin", Target: "::{645FF040-5081-101B-9F08-00AA002F954E}"},
	}
	if home, err := os.UserHomeDir(); err == nil {
		list = append(list, SystemShortcut{Name: filepath.Base(home), Target: home})
	}
	return list
}

// Layout of the fences created by AutoImport.
const (
	AppsFence      = "Apps"
	DocumentsFence = "Documents"
	SystemFence    = "System"
)

var (
	appExts = extSet(".exe", ".url", ".appref-ms", ".msi", ".bat", ".cmd", ".ps1")
	// executable link targets
	runnableExts = extSet(".exe", ".bat", ".cmd", ".ps1", ".msi", ".appref-ms")
)

func extSet(exts ...string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		set[e] = true
	}
	return set
}

// ImportResult counts the shortcuts AutoImport created per fence.
type ImportResult struct {
	Apps      int
	Documents int
	System    int
}

// AddPaths creates a shortcut in folder for each path. Links are copied as they are; a name already
// in use gets a numeric suffix.
func (m *Manager) AddPaths(folder string, paths []string) (int, error) {
	if err := os.MkdirAll(folder, 0755); err != nil {
		return 0, fmt.Errorf("creating fence folder: %w", err)
	}

	var errs []error
	added := 0
	for _, p := range paths {
		p = filepath.Clean(p)
		if shortcut.IsLink(p) {
			if err := copyFile(p, freeLinkPath(folder, linkName(p))); err != nil {
				errs = append(errs, err)
				continue
			}
			added++
			continue
		}
		dest := freeLinkPath(folder, linkName(p))
		if err := m.links.Create(shortcut.Descriptor{LinkPath: dest, Target: p}); err != nil {
			errs = append(errs, err)
			continue
		}
		added++
	}
	return added, errors.Join(errs...)
}

// AddSystemShortcuts adds This PC, Control Panel, Network, Recycle Bin and the user's home folder to
// folder, skipping any that already exist.
func (m *Manager) AddSystemShortcuts(folder string) (int, error) {
	if err := os.MkdirAll(folder, 0755); err != nil {
		return 0, fmt.Errorf("creating fence folder: %w", err)
	}

	var errs []error
	added := 0
	for _, s := range SystemShortcuts() {
		ok, err := m.createIfMissing(folder, s.Name, s.Target)
		if err != nil {
			errs = append(errs, err)
		}
		if ok {
			added++
		}
	}
	return added, errors.Join(errs...)
}

// AutoImport sorts the entries of desktopDir into Apps, Documents and System fences, creating the
// fences when missing. The originals stay where they are.
func (m *Manager) AutoImport(desktopDir string) (ImportResult, error) {
	var res ImportResult

	apps, err := m.ensure(AppsFence, DefaultLeft, DefaultTop)
	if err != nil {
		return res, err
	}
	docs, err := m.ensure(DocumentsFence, 520, DefaultTop)
	if err != nil {
		return res, err
	}
	system, err := m.ensure(SystemFence, DefaultLeft, 380)
	if err != nil {
		return res, err
	}

	entries, err := os.ReadDir(desktopDir)
	if err != nil {
		return res, fmt.Errorf("reading desktop: %w", err)
	}

	var errs []error
	for _, e := range entries {
		p := filepath.Join(desktopDir, e.Name())
		if samePath(p, m.root) || skipEntry(e.Name()) {
			continue
		}

		ext := strings.ToLower(filepath.Ext(p))
		var added bool
		switch {
		case ext == shortcut.Ext:
			target, _ := m.links.ResolveTarget(p)
			dest := apps.FolderPath
			if !runnableExts[strings.ToLower(filepath.Ext(target))] {
				dest = docs.FolderPath
			}
			added, err = copyIfMissing(p, filepath.Join(dest, e.Name()))
			if added && dest == apps.FolderPath {
				res.Apps++
			} else if added {
				res.Documents++
			}
			if err != nil {
				errs = append(errs, err)
			}
			continue
		case !e.IsDir() && appExts[ext]:
			added, err = m.createIfMissing(apps.FolderPath, linkName(p), p)
			if added {
				res.Apps++
			}
		default:
			added, err = m.createIfMissing(docs.FolderPath, linkName(p), p)
			if added {
				res.Documents++
			}
		}
		if err != nil {
			errs = append(errs, err)
		}
	}

	res.System, err = m.AddSystemShortcuts(system.FolderPath)
	if err != nil {
		errs = append(errs, err)
	}

	log.Printf("[Fence] auto-import: %d apps, %d documents, %d system", res.Apps, res.Documents, res.System)
	return res, errors.Join(errs...)
}

func (m *Manager) createIfMissing(folder, name, target string) (bool, error) {
	dest := filepath.Join(folder, name+shortcut.Ext)
	if _, err := os.Stat(dest); err == nil {
		return false, nil
	}
	if err := m.links.Create(shortcut.Descriptor{LinkPath: dest, Target: target}); err != nil {
		return false, err
	}
	return true, nil
}

// linkName is the shortcut name for a path: folders keep their full name, files lose the extension.
func linkName(p string) string {
	base := filepath.Base(p)
	if info, err := os.Stat(p); err == nil && info.IsDir() {
		return base
	}
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
		return name
	}
	return base
}

// freeLinkPath returns folder/name.lnk, or folder/name (N).lnk for the first free N.
func freeLinkPath(folder, name string) string {
	p := filepath.Join(folder, name+shortcut.Ext)
	for n := 2; ; n++ {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return p
		}
		p = filepath.Join(folder, fmt.Sprintf("%s (%d)%s", name, n, shortcut.Ext))
	}
}

func copyIfMissing(src, dest string) (bool, error) {
	if _, err := os.Stat(dest); err == nil {
		return false, nil
	}
	if err := copyFile(src, dest); err != nil {
		return false, err
	}
	return true, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filepath.Base(src), err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(dest), err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("copying %s: %w", filepath.Base(src), err)
	}
	return out.Close()
}
