// Package desktop locates the shell's desktop window chain and manipulates it: icon visibility,
// z-order anchoring of fence windows and the empty-desktop hit test used by the gesture hook.
package desktop

import "time"

// HWND is an opaque native window handle.
type HWND uintptr

// Window classes of the shell's desktop chain.
const (
	ShellClass    = "Progman"
	ShellTitle    = "Program Manager"
	WorkerClass   = "WorkerW"
	ViewClass     = "SHELLDLL_DefView"
	IconListClass = "SysListView32"
)

// Monitor is one display in physical pixels with its own scale factor.
type Monitor struct {
	Bounds Rect
	Scale  float64
}

// Metrics describes the display and input configuration the gesture code depends on.
type Metrics struct {
	// Scale is the system scale factor, 1.0 at 96 DPI. It applies wherever no monitor is known.
	Scale float64
	// Monitors may be empty; conversions then use Scale everywhere.
	Monitors []Monitor
	// VirtualScreen spans every monitor, in physical pixels.
	VirtualScreen Rect
	// DoubleClickTime is the maximum interval between the two clicks of a double-click.
	DoubleClickTime time.Duration
	// DoubleClickWidth and DoubleClickHeight bound the distance between the two clicks.
	DoubleClickWidth, DoubleClickHeight int32
}

// Scaler returns the converter for the system scale.
func (m Metrics) Scaler() Scaler {
	return Scaler{Scale: m.Scale, Origin: Point{X: m.VirtualScreen.Left, Y: m.VirtualScreen.Top}}
}

// ScalerAt returns the converter of the monitor under pt, or the system converter off every monitor.
func (m Metrics) ScalerAt(pt Point) Scaler {
	for _, mon := range m.Monitors {
		if mon.Bounds.Contains(pt) {
			return m.monitorScaler(mon)
		}
	}
	return m.Scaler()
}

// ScalerFor returns the converter of the monitor l lands on, the inverse of ScalerAt for the
// top-left corner of l.
func (m Metrics) ScalerFor(l LogicalRect) Scaler {
	for _, mon := range m.Monitors {
		sc := m.monitorScaler(mon)
		r := sc.ToPhysical(l)
		if mon.Bounds.Contains(Point{X: r.Left, Y: r.Top}) {
			return sc
		}
	}
	return m.Scaler()
}

// monitorScaler converts with the monitor's own scale. The monitor's top-left corner keeps its
// system-scale logical position, so the logical ranges of neighbouring monitors never overlap.
func (m Metrics) monitorScaler(mon Monitor) Scaler {
	corner := Point{X: mon.Bounds.Left, Y: mon.Bounds.Top}
	at := m.Scaler().ToLogical(Rect{Left: corner.X, Top: corner.Y, Right: corner.X, Bottom: corner.Y})
	return Scaler{Scale: mon.Scale, Origin: corner, AnchorX: at.X, AnchorY: at.Y}
}

// WindowSystem is the slice of the native window manager the desktop integration talks to.
type WindowSystem interface {
	FindWindow(class, title string) HWND
	TopLevelWindows() []HWND
	// FindDescendant returns the first window of the given class below parent, at any depth.
	FindDescendant(parent HWND, class string) HWND
	ClassName(h HWND) string
	Parent(h HWND) HWND
	IsWindow(h HWND) bool
	IsVisible(h HWND) bool
	Show(h HWND, visible bool)
	// PostCommand posts WM_COMMAND with the given id and never waits for the target.
	PostCommand(h HWND, id uintptr) bool
	// SpawnWorkers asks the shell window to create its worker hosts, giving up after a bounded wait.
	SpawnWorkers(shell HWND) bool
	// PrevWindow returns the window directly above h in z-order.
	PrevWindow(h HWND) HWND
	// PlaceAfter moves h directly below after in z-order without moving, sizing or activating it.
	PlaceAfter(h, after HWND) bool
	WindowAt(pt Point) HWND
	// ItemAt reports whether pt is over an item of a list control, such as a desktop icon. The
	// answer comes from the process owning the control, so it must not run inside the mouse hook.
	ItemAt(pt Point) bool
	ProcessID(h HWND) uint32
	CurrentProcessID() uint32
	Metrics() Metrics
}
