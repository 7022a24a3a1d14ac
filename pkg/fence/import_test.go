package fence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dixieflatline76/Fences/pkg/desktop"
)

func TestAddPaths(t *testing.T) {
	m, _, links := newTestManager(t)
	src := t.TempDir()
	doc := filepath.Join(src, "report.docx")
	folder := filepath.Join(src, "Projects.v2")
	link := filepath.Join(src, "Tool.lnk")
	touch(t, doc)
	touch(t, link)
	require.NoError(t, os.Mkdir(folder, 0755))

	dest := filepath.Join(m.Root(), "Work")
	n, err := m.AddPaths(dest, []string{doc, folder, link, doc})
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.FileExists(t, filepath.Join(dest, "report.lnk"))
	assert.FileExists(t, filepath.Join(dest, "report (2).lnk"))
	assert.FileExists(t, filepath.Join(dest, "Projects.v2.lnk"), "folders keep their full name")
	assert.FileExists(t, filepath.Join(dest, "Tool.lnk"))
	assert.Len(t, links.created, 3, "links are copied, not recreated")
	assert.Equal(t, doc, links.created[0].Target)
}

func TestAddPathsCollectsErrors(t *testing.T) {
	m, _, links := newTestManager(t)
	links.createErr = errDisk
	src := t.TempDir()
	touch(t, filepath.Join(src, "a.txt"))
	touch(t, filepath.Join(src, "b.lnk"))

	n, err := m.AddPaths(filepath.Join(m.Root(), "Work"), []string{
		filepath.Join(src, "a.txt"),
		filepath.Join(src, "b.lnk"),
		filepath.Join(src, "missing.lnk"),
	})
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, errDisk)
}

func TestAddSystemShortcutsSkipsExisting(t *testing.T) {
	m, _, links := newTestManager(t)
	dest := filepath.Join(m.Root(), "System")

	n, err := m.AddSystemShortcuts(dest)
	require.NoError(t, err)
	assert.Equal(t, len(SystemShortcuts()), n)
	assert.FileExists(t, filepath.Join(dest, "This PC.lnk"))
	assert.FileExists(t, filepath.Join(dest, "Recycle Bin.lnk"))

	targets := map[string]string{}
	for _, d := range links.created {
		targets[filepath.Base(d.LinkPath)] = d.Target
	}
	assert.Equal(t, "shell:ControlPanelFolder", targets["Control Panel.lnk"])
	assert.Equal(t, "::{F02C1A0D-BE21-4350-88B0-7367FC96EF3C}", targets["Network.lnk"])

	n, err = m.AddSystemShortcuts(dest)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAutoImport(t *testing.T) {
	desktopDir := t.TempDir()
	store := &memStore{}
	links := newFakeLinks()
	m := NewManager(store, links, filepath.Join(desktopDir, "Fences"))

	game := filepath.Join(desktopDir, "Game.lnk")
	notes := filepath.Join(desktopDir, "Notes.lnk")
	for _, name := range []string{"Game.lnk", "Notes.lnk", "setup.exe", "run.CMD", "report.docx", "desktop.ini", "half.tmp"} {
		touch(t, filepath.Join(desktopDir, name))
	}
	require.NoError(t, os.Mkdir(filepath.Join(desktopDir, "Projects"), 0755))
	links.targets[game] = `C:\Games\game.EXE`
	links.targets[notes] = `C:\Users\me\notes.txt`

	res, err := m.AutoImport(desktopDir)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Apps: 3, Documents: 3, System: len(SystemShortcuts())}, res)

	apps, ok := m.Get(AppsFence)
	require.True(t, ok)
	docs, ok := m.Get(DocumentsFence)
	require.True(t, ok)
	system, ok := m.Get(SystemFence)
	require.True(t, ok)

	assert.Equal(t, []float64{DefaultLeft, DefaultTop}, []float64{apps.Left, apps.Top})
	assert.Equal(t, []float64{520, DefaultTop}, []float64{docs.Left, docs.Top})
	assert.Equal(t, []float64{DefaultLeft, 380}, []float64{system.Left, system.Top})

	assert.Equal(t, []string{"Game", "run", "setup"}, itemNames(t, apps.FolderPath))
	assert.Equal(t, []string{"Notes", "Projects", "report"}, itemNames(t, docs.FolderPath))
	assert.FileExists(t, game, "originals stay on the desktop")
	assert.NoFileExists(t, filepath.Join(docs.FolderPath, "Fences.lnk"))

	again, err := m.AutoImport(desktopDir)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{}, again)
	assert.Len(t, store.Snapshot(), 3)
}

func TestAutoImportKeepsExistingFence(t *testing.T) {
	desktopDir := t.TempDir()
	m := NewManager(&memStore{}, newFakeLinks(), filepath.Join(desktopDir, "Fences"))
	_, err := m.Create("apps", desktop.LogicalRect{X: 5, Y: 5})
	require.NoError(t, err)

	_, err = m.AutoImport(desktopDir)
	require.NoError(t, err)

	assert.Len(t, m.Fences(), 3)
	f, _ := m.Get(AppsFence)
	assert.Equal(t, "apps", f.Name)
	assert.Equal(t, 5.0, f.Left)
}

func TestAutoImportMissingDesktop(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.AutoImport(filepath.Join(t.TempDir(), "gone"))
	assert.Error(t, err)
}

func itemNames(t *testing.T, folder string) []string {
	t.Helper()
	items, err := Items(folder)
	require.NoError(t, err)
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names
}
