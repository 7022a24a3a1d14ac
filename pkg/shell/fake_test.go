package shell

import (
	"encoding/json"
	"image"
	"os"
	"sync"
	"time"

	"github.com/dixieflatline76/Fences/pkg/desktop"
	"github.com/dixieflatline76/Fences/pkg/gesture"
	"github.com/dixieflatline76/Fences/pkg/icon"
	"github.com/dixieflatline76/Fences/pkg/shortcut"
)

const (
	hProgman desktop.HWND = 1
	hWorker  desktop.HWND = 2
	hView    desktop.HWND = 3
	hIcons   desktop.HWND = 4
	hApp     desktop.HWND = 5
	hFence   desktop.HWND = 6

	ownPID   = 200
	otherPID = 100
)

// fakeDesktop is a fixed desktop chain with one application window and one fence window.
type fakeDesktop struct {
	mu      sync.Mutex
	zorder  []desktop.HWND
	visible map[desktop.HWND]bool
	posted  int
	ignore  int
	busy    map[desktop.Point]bool
}

func newFakeDesktop() *fakeDesktop {
	return &fakeDesktop{
		zorder:  []desktop.HWND{hApp, hFence, hWorker, hProgman},
		visible: map[desktop.HWND]bool{hIcons: true},
		busy:    map[desktop.Point]bool{},
	}
}

var classes = map[desktop.HWND]string{
	hProgman: desktop.ShellClass,
	hWorker:  desktop.WorkerClass,
	hView:    desktop.ViewClass,
	hIcons:   desktop.IconListClass,
	hApp:     "Notepad",
	hFence:   "GLFW30",
}

func (f *fakeDesktop) FindWindow(class, _ string) desktop.HWND {
	if class == desktop.ShellClass {
		return hProgman
	}
	return 0
}

func (f *fakeDesktop) TopLevelWindows() []desktop.HWND {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]desktop.HWND(nil), f.zorder...)
}

func (f *fakeDesktop) FindDescendant(parent desktop.HWND, class string) desktop.HWND {
	switch {
	case parent == hWorker && class == desktop.ViewClass:
		return hView
	case parent == hView && class == desktop.IconListClass:
		return hIcons
	}
	return 0
}

func (f *fakeDesktop) ClassName(h desktop.HWND) string { return classes[h] }

func (f *fakeDesktop) Parent(h desktop.HWND) desktop.HWND {
	switch h {
	case hView:
		return hWorker
	case hIcons:
		return hView
	}
	return 0
}

func (f *fakeDesktop) IsWindow(h desktop.HWND) bool {
	_, ok := classes[h]
	return ok
}

func (f *fakeDesktop) IsVisible(h desktop.HWND) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible[h]
}

func (f *fakeDesktop) Show(h desktop.HWND, visible bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible[h] = visible
}

func (f *fakeDesktop) PostCommand(h desktop.HWND, _ uintptr) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posted++
	if f.ignore > 0 {
		f.ignore--
		return true
	}
	if h == hView {
		f.visible[hIcons] = !f.visible[hIcons]
	}
	return true
}

func (f *fakeDesktop) SpawnWorkers(desktop.HWND) bool { return true }

func (f *fakeDesktop) PrevWindow(h desktop.HWND) desktop.HWND {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, w := range f.zorder {
		if w == h && i > 0 {
			return f.zorder[i-1]
		}
	}
	return 0
}

func (f *fakeDesktop) PlaceAfter(h, after desktop.HWND) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	order := make([]desktop.HWND, 0, len(f.zorder))
	for _, w := range f.zorder {
		if w != h {
			order = append(order, w)
		}
	}
	for i, w := range order {
		if w == after {
			order = append(order[:i+1], append([]desktop.HWND{h}, order[i+1:]...)...)
			break
		}
	}
	f.zorder = order
	return true
}

func (f *fakeDesktop) WindowAt(pt desktop.Point) desktop.HWND {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy[pt] {
		return hApp
	}
	return hWorker
}

func (f *fakeDesktop) ItemAt(desktop.Point) bool { return false }

func (f *fakeDesktop) ProcessID(h desktop.HWND) uint32 {
	if h == hFence {
		return ownPID
	}
	return otherPID
}

func (f *fakeDesktop) CurrentProcessID() uint32 { return ownPID }

func (f *fakeDesktop) Metrics() desktop.Metrics {
	return desktop.Metrics{
		Scale:             1,
		VirtualScreen:     desktop.Rect{Right: 1920, Bottom: 1080},
		DoubleClickTime:   500 * time.Millisecond,
		DoubleClickWidth:  4,
		DoubleClickHeight: 4,
	}
}

type fakeInstaller struct {
	mu         sync.Mutex
	handler    func(gesture.Event) bool
	installErr error
	installs   int
}

func (i *fakeInstaller) Install(handler func(gesture.Event) bool) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.installErr != nil {
		return i.installErr
	}
	i.installs++
	i.handler = handler
	return nil
}

func (i *fakeInstaller) Uninstall() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.handler = nil
}

func (i *fakeInstaller) send(ev gesture.Event) bool {
	i.mu.Lock()
	h := i.handler
	i.mu.Unlock()
	if h == nil {
		return false
	}
	return h(ev)
}

type nopOverlay struct{ closes int }

func (o *nopOverlay) Show(desktop.Rect, desktop.Scaler) {}
func (o *nopOverlay) Update(desktop.LogicalRect)        {}
func (o *nopOverlay) Close()                            { o.closes++ }

type answerMenu struct{ answer bool }

func (m *answerMenu) Confirm(desktop.Point, desktop.LogicalRect) bool { return m.answer }
func (m *answerMenu) Close()                                          {}

// jsonBackend keeps descriptors as JSON files; like the shell it keeps no path for virtual targets.
type jsonBackend struct{}

func (jsonBackend) Save(path string, d shortcut.Descriptor) error {
	if shortcut.IsVirtual(d.Target) {
		d.Target = ""
	}
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (jsonBackend) Load(path string) (shortcut.Descriptor, error) {
	var d shortcut.Descriptor
	data, err := os.ReadFile(path)
	if err != nil {
		return d, err
	}
	return d, json.Unmarshal(data, &d)
}

// idListSource has an icon for every link's IDList and nothing else.
type idListSource struct{}

func (idListSource) FileIcon(string, int32) (image.Image, error) { return nil, icon.ErrNoIcon }
func (idListSource) ShellIcon(string) (image.Image, error)       { return nil, icon.ErrNoIcon }
func (idListSource) LinkIcon(string) (image.Image, error) {
	return image.NewNRGBA(image.Rect(0, 0, 32, 32)), nil
}
