package gesture

import (
	"time"

	"github.com/dixieflatline76/Fences/pkg/desktop"
)

const (
	hEmpty    desktop.HWND = 1
	hApp      desktop.HWND = 2
	hIconList desktop.HWND = 3
	hView     desktop.HWND = 4
)

// fakeDesktop reports every point as blank wallpaper unless it is listed in busy or iconArea.
// Points in icons have a desktop icon under them.
type fakeDesktop struct {
	metrics   desktop.Metrics
	busy      map[desktop.Point]bool
	iconArea  map[desktop.Point]bool
	icons     map[desktop.Point]bool
	itemCalls int
	panics    bool
}

func newFakeDesktop() *fakeDesktop {
	return &fakeDesktop{
		metrics: desktop.Metrics{
			Scale:             1,
			VirtualScreen:     desktop.Rect{Right: 1920, Bottom: 1080},
			DoubleClickTime:   500 * time.Millisecond,
			DoubleClickWidth:  4,
			DoubleClickHeight: 4,
		},
		busy:     map[desktop.Point]bool{},
		iconArea: map[desktop.Point]bool{},
		icons:    map[desktop.Point]bool{},
	}
}

func (f *fakeDesktop) WindowAt(pt desktop.Point) desktop.HWND {
	if f.panics {
		panic("window lookup failed")
	}
	switch {
	case f.busy[pt]:
		return hApp
	case f.iconArea[pt]:
		return hIconList
	}
	return hEmpty
}

func (f *fakeDesktop) ClassName(h desktop.HWND) string {
	switch h {
	case hEmpty:
		return desktop.WorkerClass
	case hIconList:
		return desktop.IconListClass
	case hView:
		return desktop.ViewClass
	}
	return "Notepad"
}

func (f *fakeDesktop) Parent(h desktop.HWND) desktop.HWND {
	if h == hIconList {
		return hView
	}
	return 0
}

func (f *fakeDesktop) ItemAt(pt desktop.Point) bool {
	f.itemCalls++
	return f.icons[pt]
}

func (f *fakeDesktop) ProcessID(desktop.HWND) uint32 { return 100 }
func (f *fakeDesktop) CurrentProcessID() uint32      { return 200 }
func (f *fakeDesktop) Metrics() desktop.Metrics      { return f.metrics }

func (f *fakeDesktop) FindWindow(string, string) desktop.HWND           { return 0 }
func (f *fakeDesktop) TopLevelWindows() []desktop.HWND                  { return nil }
func (f *fakeDesktop) FindDescendant(desktop.HWND, string) desktop.HWND { return 0 }
func (f *fakeDesktop) IsWindow(h desktop.HWND) bool                     { return h != 0 }
func (f *fakeDesktop) IsVisible(desktop.HWND) bool                      { return true }
func (f *fakeDesktop) Show(desktop.HWND, bool)                          {}
func (f *fakeDesktop) PostCommand(desktop.HWND, uintptr) bool           { return true }
func (f *fakeDesktop) SpawnWorkers(desktop.HWND) bool                   { return true }
func (f *fakeDesktop) PrevWindow(desktop.HWND) desktop.HWND             { return 0 }
func (f *fakeDesktop) PlaceAfter(desktop.HWND, desktop.HWND) bool       { return true }

type recordingOverlay struct {
	shows   int
	closes  int
	visible bool
	scaler  desktop.Scaler
	updates []desktop.LogicalRect
}

func (o *recordingOverlay) Show(_ desktop.Rect, scaler desktop.Scaler) {
	o.shows++
	o.visible = true
	o.scaler = scaler
}

func (o *recordingOverlay) Update(sel desktop.LogicalRect) {
	o.updates = append(o.updates, sel)
}

func (o *recordingOverlay) Close() {
	o.closes++
	o.visible = false
}

type scriptedMenu struct {
	answer bool
	asked  []desktop.LogicalRect
	at     []desktop.Point
	closes int
}

func (m *scriptedMenu) Confirm(pt desktop.Point, sel desktop.LogicalRect) bool {
	m.asked = append(m.asked, sel)
	m.at = append(m.at, pt)
	return m.answer
}

func (m *scriptedMenu) Close() { m.closes++ }

type fakeInstaller struct {
	handler    func(Event) bool
	err        error
	installs   int
	uninstalls int
}

func (i *fakeInstaller) Install(handler func(Event) bool) error {
	if i.err != nil {
		return i.err
	}
	i.installs++
	i.handler = handler
	return nil
}

func (i *fakeInstaller) Uninstall() {
	i.uninstalls++
	i.handler = nil
}

func pt(x, y int32) desktop.Point { return desktop.Point{X: x, Y: y} }

func down(p desktop.Point) Event     { return Event{Kind: RightDown, Pt: p} }
func up(p desktop.Point) Event       { return Event{Kind: RightUp, Pt: p} }
func move(p desktop.Point) Event     { return Event{Kind: Move, Pt: p} }
func leftDown(p desktop.Point) Event { return Event{Kind: LeftDown, Pt: p} }
func click(p desktop.Point, ms uint32) Event {
	return Event{Kind: LeftDown, Pt: p, Time: ms}
}
