package ui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fynedesktop "fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/sync/errgroup"

	"github.com/dixieflatline76/Fences/config"
	"github.com/dixieflatline76/Fences/pkg/desktop"
	"github.com/dixieflatline76/Fences/pkg/fence"
	"github.com/dixieflatline76/Fences/util/log"
)

var (
	fenceBackground = color.NRGBA{R: 0x1c, G: 0x1e, B: 0x24, A: 0xff}
	titleBackground = color.NRGBA{R: 0x2b, G: 0x2e, B: 0x38, A: 0xff}
)

// fenceWindow is the borderless window showing one fence. Its methods run on the fyne thread.
type fenceWindow struct {
	app  *FencesApp
	name string
	win  fyne.Window
	hwnd desktop.HWND

	title    *widget.Label
	collapse *widget.Button
	grid     *fyne.Container
	body     fyne.CanvasObject

	dragging   bool
	grab       fyne.Position
	cancelLoad context.CancelFunc
}

func newFenceWindow(a *FencesApp, f config.FenceConfig) *fenceWindow {
	fw := &fenceWindow{app: a, name: f.Name}
	if drv, ok := a.app.Driver().(fynedesktop.Driver); ok {
		fw.win = drv.CreateSplashWindow()
	} else {
		fw.win = a.app.NewWindow(f.Name)
	}
	fw.win.SetTitle(f.Name)
	fw.win.SetContent(fw.build(f))
	fw.win.SetOnDropped(fw.dropped)
	fw.win.SetCloseIntercept(fw.win.Hide)
	r := placement(f)
	fw.win.Resize(fyne.NewSize(float32(r.Width), float32(r.Height)))
	return fw
}

func (fw *fenceWindow) build(f config.FenceConfig) fyne.CanvasObject {
	fw.title = widget.NewLabelWithStyle(f.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	fw.title.Truncation = fyne.TextTruncateEllipsis

	fw.collapse = widget.NewButtonWithIcon("", collapseIcon(f.Collapsed), fw.toggleCollapsed)
	fw.collapse.Importance = widget.LowImportance

	var menuButton *widget.Button
	menuButton = widget.NewButtonWithIcon("", theme.MoreVerticalIcon(), func() {
		widget.ShowPopUpMenuAtRelativePosition(fw.menu(), fw.win.Canvas(), fyne.NewPos(0, menuButton.Size().Height), menuButton)
	})
	menuButton.Importance = widget.LowImportance

	bar := container.NewStack(
		canvas.NewRectangle(titleBackground),
		container.NewBorder(nil, nil, nil, container.NewHBox(fw.collapse, menuButton), fw.title),
	)
	titleBar := newDragHandle(bar, fw.dragTitle, fw.dragDone)
	titleBar.onSecondary = func(e *fyne.PointEvent) {
		widget.ShowPopUpMenuAtPosition(fw.menu(), fw.win.Canvas(), e.AbsolutePosition)
	}

	grip := newDragHandle(
		container.NewGridWrap(fyne.NewSquareSize(theme.IconInlineSize()), widget.NewIcon(theme.ViewFullScreenIcon())),
		fw.resizeBy, fw.dragDone,
	)

	fw.grid = container.NewGridWrap(fyne.NewSize(itemTileWidth, itemTileHeight))
	fw.body = container.NewBorder(nil, container.NewHBox(layout.NewSpacer(), grip), nil, nil, container.NewVScroll(fw.grid))
	if f.Collapsed {
		fw.body.Hide()
	}

	return container.NewStack(
		canvas.NewRectangle(fenceBackground),
		container.NewBorder(titleBar, nil, nil, nil, fw.body),
	)
}

func collapseIcon(collapsed bool) fyne.Resource {
	if collapsed {
		return theme.MenuDropDownIcon()
	}
	return theme.MenuDropUpIcon()
}

func (fw *fenceWindow) config() (config.FenceConfig, bool) {
	return fw.app.fences.Get(fw.name)
}

func (fw *fenceWindow) show() {
	fw.win.Show()
	fw.place()
	fw.reload()
}

func (fw *fenceWindow) hide() {
	fw.win.Hide()
}

func (fw *fenceWindow) close() {
	if fw.cancelLoad != nil {
		fw.cancelLoad()
	}
	fw.win.Close()
}

// place styles the native window, moves it to the stored geometry and pushes it below the
// application windows. Without a native handle only the size is applied.
func (fw *fenceWindow) place() {
	f, ok := fw.config()
	if !ok {
		return
	}
	r := placement(f)
	found := withNativeHandle(fw.win, func(h desktop.HWND) {
		fw.hwnd = h
		desktop.StyleAsFence(h, f.BackgroundOpacity)
		desktop.MoveWindow(h, fw.app.shell.ScalerFor(r).ToPhysical(r))
		fw.app.shell.AnchorWindowBelowApps(uintptr(h))
	})
	if !found {
		fw.win.Resize(fyne.NewSize(float32(r.Width), float32(r.Height)))
	}
}

func (fw *fenceWindow) anchor() {
	if fw.hwnd != 0 {
		fw.app.shell.AnchorWindowBelowApps(uintptr(fw.hwnd))
	}
}

// dragTitle moves the window so the pointer stays where it grabbed the title bar.
func (fw *fenceWindow) dragTitle(e *fyne.DragEvent) {
	if fw.hwnd == 0 {
		return
	}
	if !fw.dragging {
		fw.dragging = true
		fw.grab = e.Position.Subtract(e.Dragged)
	}
	bounds, ok := desktop.WindowBounds(fw.hwnd)
	if !ok {
		return
	}
	moved := e.Position.Subtract(fw.grab)
	desktop.MoveWindow(fw.hwnd, offsetRect(bounds, fyne.NewDelta(moved.X, moved.Y), fw.win.Canvas().Scale()))
}

func (fw *fenceWindow) resizeBy(e *fyne.DragEvent) {
	if fw.hwnd == 0 {
		return
	}
	bounds, ok := desktop.WindowBounds(fw.hwnd)
	if !ok {
		return
	}
	fw.dragging = true
	least := minPixels(fw.app.shell.ScalerAt(topLeft(bounds)).Scale)
	desktop.MoveWindow(fw.hwnd, growRect(bounds, e.Dragged, fw.win.Canvas().Scale(), least))
}

// dragDone stores the geometry reached by a move or resize.
func (fw *fenceWindow) dragDone() {
	if !fw.dragging {
		return
	}
	fw.dragging = false

	f, ok := fw.config()
	bounds, found := desktop.WindowBounds(fw.hwnd)
	if !ok || !found {
		return
	}
	if err := fw.app.fences.SetGeometry(fw.name, storedGeometry(bounds, fw.app.shell.ScalerAt(topLeft(bounds)), f)); err != nil {
		log.Printf("[UI] saving geometry of %q: %v", fw.name, err)
	}
	fw.anchor()
}

func (fw *fenceWindow) toggleCollapsed() {
	f, ok := fw.config()
	if !ok {
		return
	}
	collapsed := !f.Collapsed
	if err := fw.app.fences.SetCollapsed(fw.name, collapsed); err != nil {
		log.Printf("[UI] collapsing %q: %v", fw.name, err)
		return
	}
	if collapsed {
		fw.body.Hide()
	} else {
		fw.body.Show()
	}
	fw.collapse.SetIcon(collapseIcon(collapsed))
	fw.place()
}

// reload lists the fence folder again and loads the item icons in the background. A reload
// cancels the icon loading of the previous one.
func (fw *fenceWindow) reload() {
	f, ok := fw.config()
	if !ok {
		return
	}
	items, err := fence.Items(f.FolderPath)
	if err != nil {
		log.Printf("[UI] listing %q: %v", fw.name, err)
	}

	if fw.cancelLoad != nil {
		fw.cancelLoad()
	}
	ctx, cancel := context.WithCancel(context.Background())
	fw.cancelLoad = cancel

	tiles := make([]*itemTile, len(items))
	objects := make([]fyne.CanvasObject, len(items))
	for i, item := range items {
		tiles[i] = newItemTile(item, theme.FileIcon(), fw.open, fw.showItemMenu)
		objects[i] = tiles[i]
	}
	fw.grid.Objects = objects
	fw.grid.Refresh()

	fw.loadIcons(ctx, tiles)
}

func (fw *fenceWindow) loadIcons(ctx context.Context, tiles []*itemTile) {
	shell := fw.app.shell
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(iconLoadLimit)

	go func() {
		for _, t := range tiles {
			t := t // per-iteration copy; go.mod targets go1.21 loop semantics
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				res := shell.IconResource(t.item.Path)
				if res == nil {
					return nil
				}
				fyne.Do(func() {
					if ctx.Err() == nil {
						t.setIcon(res)
					}
				})
				return nil
			})
		}
		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[UI] loading icons of %q: %v", fw.name, err)
		}
	}()
}

func (fw *fenceWindow) open(item fence.Item) {
	if err := fw.app.shell.Open(item.Path); err != nil {
		dialog.ShowError(err, fw.win)
	}
}

func (fw *fenceWindow) showItemMenu(item fence.Item, e *fyne.PointEvent) {
	menu := fyne.NewMenu("",
		fyne.NewMenuItem("Open", func() { fw.open(item) }),
		fyne.NewMenuItem("Open file location", func() { fw.openLocation(item) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Remove from fence", func() { fw.removeItem(item) }),
	)
	widget.ShowPopUpMenuAtPosition(menu, fw.win.Canvas(), e.AbsolutePosition)
}

// openLocation opens the folder holding the shortcut's target, or the fence folder for targets
// that are not files.
func (fw *fenceWindow) openLocation(item fence.Item) {
	dir := filepath.Dir(item.Path)
	if target, ok := fw.app.shell.ResolveShortcutTarget(item.Path); ok && target != "" {
		dir = filepath.Dir(target)
	}
	if err := fw.app.shell.Open(dir); err != nil {
		dialog.ShowError(err, fw.win)
	}
}

func (fw *fenceWindow) removeItem(item fence.Item) {
	msg := fmt.Sprintf("Remove %q from %s?\nOnly the shortcut is deleted.", item.Name, fw.name)
	dialog.ShowConfirm("Remove shortcut", msg, func(ok bool) {
		if !ok {
			return
		}
		if err := os.Remove(item.Path); err != nil {
			dialog.ShowError(err, fw.win)
			return
		}
		fw.app.shell.ForgetIcon(item.Path)
		fw.reload()
	}, fw.win)
}

func (fw *fenceWindow) menu() *fyne.Menu {
	return fyne.NewMenu(fw.name,
		fyne.NewMenuItem("Rename…", fw.rename),
		fyne.NewMenuItem("Add files…", fw.addFiles),
		fyne.NewMenuItem("Add folder…", fw.addFolder),
		fyne.NewMenuItem("Add system shortcuts", fw.addSystemShortcuts),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open fence folder", fw.openFolder),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Delete fence…", fw.confirmDelete),
	)
}

func (fw *fenceWindow) rename() {
	entry := widget.NewEntry()
	entry.SetText(fw.name)
	entry.Validator = fence.ValidateName
	items := []*widget.FormItem{widget.NewFormItem("Name", entry)}
	dialog.ShowForm("Rename fence", "Rename", "Cancel", items, func(ok bool) {
		if ok {
			fw.app.renameFence(fw, entry.Text)
		}
	}, fw.win)
}

// renamed updates the window after its fence was renamed.
func (fw *fenceWindow) renamed(name string) {
	fw.name = name
	fw.title.SetText(name)
	fw.win.SetTitle(name)
}

func (fw *fenceWindow) addFiles() {
	pickFiles(fw.win, "Add to "+fw.name, fw.addPaths)
}

func (fw *fenceWindow) addFolder() {
	pickFolder(fw.win, "Add a folder to "+fw.name, func(p string) {
		fw.addPaths([]string{p})
	})
}

func (fw *fenceWindow) dropped(_ fyne.Position, uris []fyne.URI) {
	var paths []string
	for _, u := range uris {
		if u.Scheme() == "file" {
			paths = append(paths, u.Path())
		}
	}
	if len(paths) > 0 {
		fw.addPaths(paths)
	}
}

func (fw *fenceWindow) addPaths(paths []string) {
	f, ok := fw.config()
	if !ok {
		return
	}
	n, err := fw.app.fences.AddPaths(f.FolderPath, paths)
	if err != nil {
		dialog.ShowError(err, fw.win)
	}
	log.Debugf("[UI] added %d of %d paths to %q", n, len(paths), fw.name)
	fw.reload()
}

func (fw *fenceWindow) addSystemShortcuts() {
	f, ok := fw.config()
	if !ok {
		return
	}
	if _, err := fw.app.fences.AddSystemShortcuts(f.FolderPath); err != nil {
		dialog.ShowError(err, fw.win)
	}
	fw.reload()
}

func (fw *fenceWindow) openFolder() {
	f, ok := fw.config()
	if !ok {
		return
	}
	if err := fw.app.shell.Open(f.FolderPath); err != nil {
		dialog.ShowError(err, fw.win)
	}
}

func (fw *fenceWindow) confirmDelete() {
	removeFolder := widget.NewCheck("Also delete the fence folder and its shortcuts", nil)
	content := container.NewVBox(
		widget.NewLabel(fmt.Sprintf("Delete the fence %q?", fw.name)),
		removeFolder,
	)
	dialog.ShowCustomConfirm("Delete fence", "Delete", "Cancel", content, func(ok bool) {
		if ok {
			fw.app.deleteFence(fw, removeFolder.Checked)
		}
	}, fw.win)
}
