package fence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dixieflatline76/Fences/config"
	"github.com/dixieflatline76/Fences/pkg/desktop"
)

func TestCreateDefault(t *testing.T) {
	m, store, _ := newTestManager(t)

	first, err := m.CreateDefault()
	require.NoError(t, err)
	second, err := m.CreateDefault()
	require.NoError(t, err)

	assert.Equal(t, "Fence 1", first.Name)
	assert.Equal(t, "Fence 2", second.Name)
	assert.Equal(t, filepath.Join(m.Root(), "Fence 1"), first.FolderPath)
	assert.DirExists(t, first.FolderPath)
	assert.Equal(t, []float64{DefaultLeft, DefaultTop, DefaultWidth, DefaultHeight},
		[]float64{first.Left, first.Top, first.Width, first.Height})
	assert.Equal(t, config.DefaultFenceOpacity, first.BackgroundOpacity)
	assert.Len(t, store.Snapshot(), 2)
}

func TestCreateEnforcesMinimumSize(t *testing.T) {
	m, _, _ := newTestManager(t)

	f, err := m.Create("Tiny", desktop.LogicalRect{X: 10, Y: 20, Width: 30, Height: 40})
	require.NoError(t, err)
	assert.Equal(t, 10.0, f.Left)
	assert.Equal(t, 20.0, f.Top)
	assert.Equal(t, MinWidth, f.Width)
	assert.Equal(t, MinHeight, f.Height)
}

func TestCreateRejectsNames(t *testing.T) {
	m, store, _ := newTestManager(t)
	_, err := m.Create("Work", desktop.LogicalRect{})
	require.NoError(t, err)

	_, err = m.Create("WORK", desktop.LogicalRect{})
	assert.ErrorIs(t, err, ErrNameTaken)

	_, err = m.Create("a/b", desktop.LogicalRect{})
	assert.ErrorIs(t, err, ErrInvalidName)

	assert.Len(t, store.Snapshot(), 1)
}

func TestCreateStoreFailure(t *testing.T) {
	m, store, _ := newTestManager(t)
	store.updateErr = errDisk

	_, err := m.CreateDefault()
	assert.ErrorIs(t, err, errDisk)
	assert.Empty(t, store.Snapshot())
}

func TestUniqueNameSkipsTaken(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.Create("fence 1", desktop.LogicalRect{})
	require.NoError(t, err)

	assert.Equal(t, "Fence 2", m.UniqueName())
}

func TestRenameMovesFolder(t *testing.T) {
	m, _, _ := newTestManager(t)
	f, err := m.Create("Old", desktop.LogicalRect{})
	require.NoError(t, err)
	touch(t, filepath.Join(f.FolderPath, "a.lnk"))

	renamed, err := m.Rename("old", "New")
	require.NoError(t, err)

	assert.Equal(t, "New", renamed.Name)
	assert.Equal(t, filepath.Join(m.Root(), "New"), renamed.FolderPath)
	assert.FileExists(t, filepath.Join(renamed.FolderPath, "a.lnk"))
	assert.NoDirExists(t, f.FolderPath)

	got, ok := m.Get("NEW")
	require.True(t, ok)
	assert.Equal(t, renamed, got)
}

func TestRenameAdoptsExistingFolder(t *testing.T) {
	m, _, _ := newTestManager(t)
	f, err := m.Create("Old", desktop.LogicalRect{})
	require.NoError(t, err)
	touch(t, filepath.Join(m.Root(), "Existing", "kept.lnk"))

	renamed, err := m.Rename("Old", "Existing")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(renamed.FolderPath, "kept.lnk"))
	assert.DirExists(t, f.FolderPath, "the old folder is left alone")
}

func TestRenameCaseOnly(t *testing.T) {
	m, _, _ := newTestManager(t)
	f, err := m.Create("work", desktop.LogicalRect{})
	require.NoError(t, err)

	renamed, err := m.Rename("work", "Work")
	require.NoError(t, err)
	assert.Equal(t, "Work", renamed.Name)
	assert.Equal(t, f.FolderPath, renamed.FolderPath)
}

func TestRenameErrors(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.Create("A", desktop.LogicalRect{})
	require.NoError(t, err)
	_, err = m.Create("B", desktop.LogicalRect{})
	require.NoError(t, err)

	_, err = m.Rename("A", "b")
	assert.ErrorIs(t, err, ErrNameTaken)

	_, err = m.Rename("missing", "C")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.Rename("A", "CON")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestDelete(t *testing.T) {
	m, store, _ := newTestManager(t)
	keep, err := m.Create("Keep", desktop.LogicalRect{})
	require.NoError(t, err)
	drop, err := m.Create("Drop", desktop.LogicalRect{})
	require.NoError(t, err)

	require.NoError(t, m.Delete("keep", false))
	assert.DirExists(t, keep.FolderPath)

	require.NoError(t, m.Delete("Drop", true))
	_, statErr := os.Stat(drop.FolderPath)
	assert.True(t, os.IsNotExist(statErr))

	assert.Empty(t, store.Snapshot())
	assert.ErrorIs(t, m.Delete("Drop", true), ErrNotFound)
}

func TestSetGeometryAndCollapsed(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.CreateDefault()
	require.NoError(t, err)

	require.NoError(t, m.SetGeometry("Fence 1", desktop.LogicalRect{X: -300, Y: 50, Width: 10, Height: 500}))
	require.NoError(t, m.SetCollapsed("fence 1", true))

	f, ok := m.Get("Fence 1")
	require.True(t, ok)
	assert.Equal(t, -300.0, f.Left)
	assert.Equal(t, 50.0, f.Top)
	assert.Equal(t, MinWidth, f.Width)
	assert.Equal(t, 500.0, f.Height)
	assert.True(t, f.Collapsed)

	assert.ErrorIs(t, m.SetCollapsed("nope", true), ErrNotFound)
}

func TestSetOpacity(t *testing.T) {
	m, _, _ := newTestManager(t)
	_, err := m.CreateDefault()
	require.NoError(t, err)

	for _, tc := range []struct {
		in, want float64
	}{
		{0.75, 0.75},
		{0, 0.2},
		{3, 1},
	} {
		require.NoError(t, m.SetOpacity("Fence 1", tc.in))
		f, _ := m.Get("Fence 1")
		assert.Equal(t, tc.want, f.BackgroundOpacity)
	}
	assert.ErrorIs(t, m.SetOpacity("nope", 1), ErrNotFound)
}
