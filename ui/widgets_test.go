package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"

	"github.com/dixieflatline76/Fences/pkg/fence"
)

func TestItemTile(t *testing.T) {
	test.NewTempApp(t)
	item := fence.Item{Path: `C:\Fences\Apps\Editor.lnk`, Name: "Editor"}

	var opened, menued []fence.Item
	tile := newItemTile(item, theme.FileIcon(),
		func(i fence.Item) { opened = append(opened, i) },
		func(i fence.Item, _ *fyne.PointEvent) { menued = append(menued, i) },
	)
	test.NewTempWindow(t, tile)

	assert.Equal(t, "Editor", tile.label.Text)

	test.Tap(tile)
	assert.Equal(t, []fence.Item{item}, opened)

	test.TapSecondary(tile)
	assert.Equal(t, []fence.Item{item}, menued)

	tile.setIcon(theme.FolderIcon())
	assert.Equal(t, theme.FolderIcon(), tile.icon.Resource)
}

func TestDragHandle(t *testing.T) {
	test.NewTempApp(t)

	var moved fyne.Delta
	ended := 0
	h := newDragHandle(widget.NewLabel("title"), func(e *fyne.DragEvent) {
		moved.DX += e.Dragged.DX
		moved.DY += e.Dragged.DY
	}, func() { ended++ })
	w := test.NewTempWindow(t, h)

	test.Drag(w.Canvas(), fyne.NewPos(5, 5), 20, 10)
	assert.Equal(t, fyne.NewDelta(20, 10), moved)
	assert.Equal(t, 1, ended)
}
