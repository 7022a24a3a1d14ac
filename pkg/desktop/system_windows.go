//go:build windows

package desktop

import (
	"math"
	"time"
	"unsafe"

	"github.com/dixieflatline76/Fences/pkg/win32"
	"github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"
)

// spawnWorkersMessage is the undocumented Progman message that creates the WorkerW hosts.
const spawnWorkersMessage = 0x052C

const spawnWorkersTimeout = 1000 // ms

var (
	oleacc                        = windows.NewLazySystemDLL("oleacc.dll")
	procAccessibleObjectFromPoint = oleacc.NewProc("AccessibleObjectFromPoint")
)

type nativeSystem struct {
	pid uint32
}

// NewWindowSystem returns the WindowSystem backed by user32.
func NewWindowSystem() WindowSystem {
	return &nativeSystem{pid: windows.GetCurrentProcessId()}
}

func (s *nativeSystem) FindWindow(class, title string) HWND {
	return HWND(win32.FindWindow(class, title))
}

func (s *nativeSystem) TopLevelWindows() []HWND {
	var out []HWND
	win32.EnumWindows(func(h windows.HWND) bool {
		out = append(out, HWND(h))
		return true
	})
	return out
}

func (s *nativeSystem) FindDescendant(parent HWND, class string) HWND {
	var found HWND
	win32.EnumChildWindows(windows.HWND(parent), func(h windows.HWND) bool {
		if win32.ClassName(h) == class {
			found = HWND(h)
			return false
		}
		return true
	})
	return found
}

func (s *nativeSystem) ClassName(h HWND) string {
	return win32.ClassName(windows.HWND(h))
}

func (s *nativeSystem) Parent(h HWND) HWND {
	return HWND(win32.Parent(windows.HWND(h)))
}

func (s *nativeSystem) IsWindow(h HWND) bool {
	return win32.IsWindow(windows.HWND(h))
}

func (s *nativeSystem) IsVisible(h HWND) bool {
	return win32.IsWindowVisible(windows.HWND(h))
}

func (s *nativeSystem) Show(h HWND, visible bool) {
	cmd := int32(win32.SW_HIDE)
	if visible {
		cmd = win32.SW_SHOW
	}
	win32.ShowWindow(windows.HWND(h), cmd)
}

func (s *nativeSystem) PostCommand(h HWND, id uintptr) bool {
	return win32.PostMessage(windows.HWND(h), win32.WM_COMMAND, id, 0)
}

func (s *nativeSystem) SpawnWorkers(shell HWND) bool {
	return win32.SendMessageTimeout(windows.HWND(shell), spawnWorkersMessage, 0, 0,
		win32.SMTO_ABORTIFHUNG, spawnWorkersTimeout)
}

func (s *nativeSystem) PrevWindow(h HWND) HWND {
	return HWND(win32.PrevWindow(windows.HWND(h)))
}

func (s *nativeSystem) PlaceAfter(h, after HWND) bool {
	return win32.SetWindowPos(windows.HWND(h), windows.HWND(after), 0, 0, 0, 0,
		win32.SWP_NOMOVE|win32.SWP_NOSIZE|win32.SWP_NOACTIVATE|win32.SWP_NOOWNERZORDER|win32.SWP_NOSENDCHANGING)
}

func (s *nativeSystem) WindowAt(pt Point) HWND {
	return HWND(win32.WindowFromPoint(win32.POINT{X: pt.X, Y: pt.Y}))
}

// ItemAt asks the accessibility proxy of the control under pt for the child there. List views
// report CHILDID_SELF over blank space and the 1-based item index over an item. The calling thread
// must have initialized COM.
func (s *nativeSystem) ItemAt(pt Point) bool {
	if procAccessibleObjectFromPoint.Find() != nil {
		return false
	}
	var acc *ole.IUnknown
	var child ole.VARIANT
	packed := uintptr(uint32(pt.X)) | uintptr(uint32(pt.Y))<<32
	hr, _, _ := procAccessibleObjectFromPoint.Call(packed,
		uintptr(unsafe.Pointer(&acc)), uintptr(unsafe.Pointer(&child)))
	if hr != 0 || acc == nil {
		return false
	}
	defer acc.Release()
	defer ole.VariantClear(&child)
	return child.VT == ole.VT_I4 && child.Val != 0
}

func (s *nativeSystem) ProcessID(h HWND) uint32 {
	return win32.WindowProcessID(windows.HWND(h))
}

func (s *nativeSystem) CurrentProcessID() uint32 {
	return s.pid
}

func (s *nativeSystem) Metrics() Metrics {
	left := win32.SystemMetric(win32.SM_XVIRTUALSCREEN)
	top := win32.SystemMetric(win32.SM_YVIRTUALSCREEN)
	var monitors []Monitor
	for _, d := range win32.DisplayMonitors() {
		monitors = append(monitors, Monitor{
			Bounds: Rect{Left: d.Bounds.Left, Top: d.Bounds.Top, Right: d.Bounds.Right, Bottom: d.Bounds.Bottom},
			Scale:  float64(d.DPI) / 96,
		})
	}
	return Metrics{
		Scale:    float64(win32.SystemDPI()) / 96,
		Monitors: monitors,
		VirtualScreen: Rect{
			Left:   left,
			Top:    top,
			Right:  left + win32.SystemMetric(win32.SM_CXVIRTUALSCREEN),
			Bottom: top + win32.SystemMetric(win32.SM_CYVIRTUALSCREEN),
		},
		DoubleClickTime:   time.Duration(win32.DoubleClickTime()) * time.Millisecond,
		DoubleClickWidth:  win32.SystemMetric(win32.SM_CXDOUBLECLK),
		DoubleClickHeight: win32.SystemMetric(win32.SM_CYDOUBLECLK),
	}
}

// MoveWindow positions h at r without activating it or changing its z-order.
func MoveWindow(h HWND, r Rect) bool {
	return win32.SetWindowPos(windows.HWND(h), 0, r.Left, r.Top, r.Width(), r.Height(),
		win32.SWP_NOZORDER|win32.SWP_NOACTIVATE|win32.SWP_NOOWNERZORDER)
}

// WindowBounds returns the screen rectangle of h.
func WindowBounds(h HWND) (Rect, bool) {
	r, ok := win32.WindowRect(windows.HWND(h))
	return Rect{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom}, ok
}

// EnableDPIAwareness opts the process into per-monitor DPI awareness.
func EnableDPIAwareness() bool {
	return win32.EnableDPIAwareness()
}

// StyleAsFence hides h from the taskbar and Alt+Tab and applies the given opacity, 0 to 1.
func StyleAsFence(h HWND, opacity float64) bool {
	if h == 0 {
		return false
	}
	win32.AddExStyle(windows.HWND(h), win32.WS_EX_TOOLWINDOW|win32.WS_EX_LAYERED)
	alpha := byte(math.Round(math.Max(0.2, math.Min(1, opacity)) * 255))
	win32.SetLayeredAttributes(windows.HWND(h), 0, alpha, win32.LWA_ALPHA)
	return true
}
