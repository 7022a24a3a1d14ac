package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/dixieflatline76/Fences/pkg/fence"
)

// dragHandle wraps content and reports drags over it, such as a title bar or a resize grip.
// Taps fall through to buttons inside content.
type dragHandle struct {
	widget.BaseWidget
	content fyne.CanvasObject

	onDrag      func(*fyne.DragEvent)
	onDragEnd   func()
	onSecondary func(*fyne.PointEvent)
}

func newDragHandle(content fyne.CanvasObject, onDrag func(*fyne.DragEvent), onDragEnd func()) *dragHandle {
	h := &dragHandle{content: content, onDrag: onDrag, onDragEnd: onDragEnd}
	h.ExtendBaseWidget(h)
	return h
}

func (h *dragHandle) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(h.content)
}

func (h *dragHandle) Dragged(e *fyne.DragEvent) {
	if h.onDrag != nil {
		h.onDrag(e)
	}
}

func (h *dragHandle) DragEnd() {
	if h.onDragEnd != nil {
		h.onDragEnd()
	}
}

func (h *dragHandle) TappedSecondary(e *fyne.PointEvent) {
	if h.onSecondary != nil {
		h.onSecondary(e)
	}
}

// itemTile shows one fence item. A tap opens it and a secondary tap asks for its menu.
type itemTile struct {
	widget.BaseWidget
	item  fence.Item
	icon  *widget.Icon
	label *widget.Label

	onOpen func(fence.Item)
	onMenu func(fence.Item, *fyne.PointEvent)
}

func newItemTile(item fence.Item, placeholder fyne.Resource, onOpen func(fence.Item), onMenu func(fence.Item, *fyne.PointEvent)) *itemTile {
	t := &itemTile{
		item:   item,
		icon:   widget.NewIcon(placeholder),
		label:  itemCaption(item.Name),
		onOpen: onOpen,
		onMenu: onMenu,
	}
	t.ExtendBaseWidget(t)
	return t
}

func (t *itemTile) CreateRenderer() fyne.WidgetRenderer {
	icon := container.NewCenter(container.NewGridWrap(fyne.NewSquareSize(itemIconSize), t.icon))
	return widget.NewSimpleRenderer(container.NewBorder(nil, t.label, nil, nil, icon))
}

func (t *itemTile) Tapped(*fyne.PointEvent) {
	if t.onOpen != nil {
		t.onOpen(t.item)
	}
}

func (t *itemTile) TappedSecondary(e *fyne.PointEvent) {
	if t.onMenu != nil {
		t.onMenu(t.item, e)
	}
}

func (t *itemTile) setIcon(res fyne.Resource) {
	t.icon.SetResource(res)
}
