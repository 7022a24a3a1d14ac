package desktop

import (
	"sync"
	"time"
)

type fakeWindow struct {
	class   string
	title   string
	parent  HWND
	visible bool
	pid     uint32
}

// fakeSystem is an in-memory window tree standing in for user32.
type fakeSystem struct {
	mu sync.Mutex

	windows map[HWND]*fakeWindow
	zorder  []HWND // top-level windows, topmost first
	pid     uint32

	at        map[Point]HWND
	items     map[Point]bool
	itemCalls int

	ignoreCommands int
	posted         []uintptr
	spawns         int
	enumerations   int
	placements     [][2]HWND
}

const (
	shellPID = 100
	selfPID  = 200
	appPID   = 300
)

func newFakeSystem() *fakeSystem {
	return &fakeSystem{
		windows: map[HWND]*fakeWindow{},
		pid:     selfPID,
		at:      map[Point]HWND{},
		items:   map[Point]bool{},
	}
}

func (f *fakeSystem) add(h HWND, w fakeWindow) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w.pid == 0 {
		w.pid = shellPID
	}
	f.windows[h] = &w
	if w.parent == 0 {
		f.zorder = append(f.zorder, h)
	}
}

func (f *fakeSystem) destroy(h HWND) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.windows, h)
	for i, z := range f.zorder {
		if z == h {
			f.zorder = append(f.zorder[:i], f.zorder[i+1:]...)
			break
		}
	}
}

// Handles used by the standard layouts below.
const (
	hApp      HWND = 10
	hFence    HWND = 20
	hWorker   HWND = 30
	hDefView  HWND = 31
	hIconList HWND = 32
	hProgman  HWND = 40
	hWallWork HWND = 50
)

// newModernDesktop lays out the chain seen after the worker spawn message: an app window on top,
// a WorkerW hosting the desktop view, Progman, and the bare wallpaper WorkerW at the bottom.
func newModernDesktop() *fakeSystem {
	f := newFakeSystem()
	f.add(hApp, fakeWindow{class: "Notepad", visible: true, pid: appPID})
	f.add(hWorker, fakeWindow{class: WorkerClass, visible: true})
	f.add(hDefView, fakeWindow{class: ViewClass, parent: hWorker, visible: true})
	f.add(hIconList, fakeWindow{class: IconListClass, parent: hDefView, visible: true})
	f.add(hProgman, fakeWindow{class: ShellClass, title: ShellTitle, visible: true})
	f.add(hWallWork, fakeWindow{class: WorkerClass, visible: true})
	return f
}

// newLegacyDesktop keeps the desktop view directly under Progman.
func newLegacyDesktop() *fakeSystem {
	f := newFakeSystem()
	f.add(hProgman, fakeWindow{class: ShellClass, title: ShellTitle, visible: true})
	f.add(hDefView, fakeWindow{class: ViewClass, parent: hProgman, visible: true})
	f.add(hIconList, fakeWindow{class: IconListClass, parent: hDefView, visible: true})
	return f
}

func (f *fakeSystem) FindWindow(class, title string) HWND {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, h := range f.zorder {
		w := f.windows[h]
		if w.class == class && (title == "" || w.title == title) {
			return h
		}
	}
	return 0
}

func (f *fakeSystem) TopLevelWindows() []HWND {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enumerations++
	return append([]HWND(nil), f.zorder...)
}

func (f *fakeSystem) isDescendant(h, ancestor HWND) bool {
	for p := f.windows[h].parent; p != 0; {
		if p == ancestor {
			return true
		}
		w, ok := f.windows[p]
		if !ok {
			return false
		}
		p = w.parent
	}
	return false
}

func (f *fakeSystem) FindDescendant(parent HWND, class string) HWND {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best HWND
	for h, w := range f.windows {
		if w.class == class && f.isDescendant(h, parent) && (best == 0 || h < best) {
			best = h
		}
	}
	return best
}

func (f *fakeSystem) ClassName(h HWND) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.windows[h]; ok {
		return w.class
	}
	return ""
}

func (f *fakeSystem) Parent(h HWND) HWND {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.windows[h]; ok {
		return w.parent
	}
	return 0
}

func (f *fakeSystem) IsWindow(h HWND) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.windows[h]
	return ok
}

func (f *fakeSystem) IsVisible(h HWND) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.windows[h]
	return ok && w.visible
}

func (f *fakeSystem) Show(h HWND, visible bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.windows[h]; ok {
		w.visible = visible
	}
}

// PostCommand emulates the desktop view acting on the toggle command, unless told to ignore it.
func (f *fakeSystem) PostCommand(h HWND, id uintptr) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posted = append(f.posted, id)
	if f.ignoreCommands > 0 {
		f.ignoreCommands--
		return true
	}
	if id == toggleIconsCommand {
		for _, w := range f.windows {
			if w.class == IconListClass && w.parent == h {
				w.visible = !w.visible
			}
		}
	}
	return true
}

func (f *fakeSystem) SpawnWorkers(HWND) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spawns++
	return true
}

func (f *fakeSystem) PrevWindow(h HWND) HWND {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, z := range f.zorder {
		if z == h && i > 0 {
			return f.zorder[i-1]
		}
	}
	return 0
}

func (f *fakeSystem) PlaceAfter(h, after HWND) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.placements = append(f.placements, [2]HWND{h, after})
	for i, z := range f.zorder {
		if z == h {
			f.zorder = append(f.zorder[:i], f.zorder[i+1:]...)
			break
		}
	}
	for i, z := range f.zorder {
		if z == after {
			f.zorder = append(f.zorder[:i+1], append([]HWND{h}, f.zorder[i+1:]...)...)
			return true
		}
	}
	return false
}

func (f *fakeSystem) WindowAt(pt Point) HWND {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.at[pt]
}

func (f *fakeSystem) ItemAt(pt Point) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.itemCalls++
	return f.items[pt]
}

func (f *fakeSystem) ProcessID(h HWND) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.windows[h]; ok {
		return w.pid
	}
	return 0
}

func (f *fakeSystem) CurrentProcessID() uint32 {
	return f.pid
}

func (f *fakeSystem) Metrics() Metrics {
	return Metrics{Scale: 1, DoubleClickTime: 500 * time.Millisecond, DoubleClickWidth: 4, DoubleClickHeight: 4}
}
