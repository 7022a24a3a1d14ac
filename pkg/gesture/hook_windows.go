//go:build windows

package gesture

import (
	"runtime"
	"sync/atomic"
	"unsafe"

	"github.com/dixieflatline76/Fences/pkg/desktop"
	"github.com/dixieflatline76/Fences/pkg/win32"
	"golang.org/x/sys/windows"
)

var (
	activeHandler atomic.Pointer[func(Event) bool]
	mouseCallback = windows.NewCallback(mouseProc)
)

// mouseProc is the WH_MOUSE_LL procedure. Only one hook is active per process.
func mouseProc(nCode int, wParam, lParam uintptr) uintptr {
	if nCode == win32.HC_ACTION {
		if handler := activeHandler.Load(); handler != nil {
			if kind, ok := eventKind(wParam); ok {
				info := (*win32.MSLLHOOKSTRUCT)(unsafe.Pointer(lParam))
				ev := Event{Kind: kind, Pt: desktop.Point{X: info.Pt.X, Y: info.Pt.Y}, Time: info.Time}
				if (*handler)(ev) {
					return 1
				}
			}
		}
	}
	return win32.CallNextHook(nCode, wParam, lParam)
}

func eventKind(msg uintptr) (EventKind, bool) {
	switch msg {
	case win32.WM_MOUSEMOVE:
		return Move, true
	case win32.WM_LBUTTONDOWN:
		return LeftDown, true
	case win32.WM_LBUTTONUP:
		return LeftUp, true
	case win32.WM_RBUTTONDOWN:
		return RightDown, true
	case win32.WM_RBUTTONUP:
		return RightUp, true
	}
	return 0, false
}

// nativeInstaller runs the hook on its own locked thread so that a busy UI thread cannot stall input.
type nativeInstaller struct {
	threadID uint32
	done     chan struct{}
}

// NewInstaller returns the WH_MOUSE_LL installer.
func NewInstaller() Installer {
	return &nativeInstaller{}
}

func (n *nativeInstaller) Install(handler func(Event) bool) error {
	ready := make(chan error, 1)
	done := make(chan struct{})

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(done)

		win32.EnsureMessageQueue()

		activeHandler.Store(&handler)
		hook, err := win32.SetMouseHook(mouseCallback)
		if err != nil {
			activeHandler.Store(nil)
			ready <- err
			return
		}
		n.threadID = windows.GetCurrentThreadId()
		ready <- nil

		win32.RunMessageLoop()
		win32.Unhook(hook)
		activeHandler.Store(nil)
	}()

	if err := <-ready; err != nil {
		return err
	}
	n.done = done
	return nil
}

func (n *nativeInstaller) Uninstall() {
	if n.done == nil {
		return
	}
	win32.PostThreadMessage(n.threadID, win32.WM_QUIT)
	<-n.done
	n.done = nil
}

// Overlay colors, 0x00BBGGRR.
const (
	overlayKey   = 0x00FF00FF
	overlayFill  = 0x00D77800
	overlayFrame = 0x00FFFFFF
	overlayAlpha = 96
)

var (
	overlayClass    *uint16
	overlayClassErr error
	overlayShown    *nativeOverlay // UI thread only
	overlayWndProc  = windows.NewCallback(func(hwnd uintptr, msg uint32, wParam, lParam uintptr) uintptr {
		if msg == win32.WM_PAINT && overlayShown != nil {
			overlayShown.paint(hwnd)
			return 0
		}
		return win32.DefWindowProc(hwnd, msg, wParam, lParam)
	})
)

// nativeOverlay is a click-through layered window spanning the virtual screen. Everything in the
// key color is invisible, so only the translucent selection shows.
type nativeOverlay struct {
	hwnd   windows.HWND
	scaler desktop.Scaler
	origin desktop.Point
	sel    win32.RECT
	key    windows.Handle
	fill   windows.Handle
	frame  windows.Handle
}

// NewOverlay returns the layered-window overlay.
func NewOverlay() Overlay {
	return &nativeOverlay{}
}

func (o *nativeOverlay) Show(screen desktop.Rect, scaler desktop.Scaler) {
	if o.hwnd != 0 {
		return
	}
	if overlayClass == nil && overlayClassErr == nil {
		overlayClass, overlayClassErr = win32.RegisterClass("FencesSelectionOverlay", overlayWndProc)
	}
	if overlayClassErr != nil {
		return
	}

	hwnd, err := win32.CreateWindow(
		win32.WS_EX_LAYERED|win32.WS_EX_TRANSPARENT|win32.WS_EX_TOOLWINDOW|win32.WS_EX_NOACTIVATE,
		overlayClass, win32.WS_POPUP,
		screen.Left, screen.Top, screen.Width(), screen.Height(), 0)
	if err != nil {
		return
	}
	o.hwnd = hwnd
	o.scaler = scaler
	o.origin = desktop.Point{X: screen.Left, Y: screen.Top}
	o.sel = win32.RECT{}
	o.key = win32.CreateSolidBrush(overlayKey)
	o.fill = win32.CreateSolidBrush(overlayFill)
	o.frame = win32.CreateSolidBrush(overlayFrame)
	overlayShown = o

	win32.SetLayeredAttributes(hwnd, overlayKey, overlayAlpha, win32.LWA_COLORKEY|win32.LWA_ALPHA)
	win32.ShowWindow(hwnd, win32.SW_SHOWNOACTIVATE)
}

func (o *nativeOverlay) Update(selection desktop.LogicalRect) {
	if o.hwnd == 0 {
		return
	}
	// Client coordinates start at the virtual screen origin.
	r := o.scaler.ToPhysical(selection)
	o.sel = win32.RECT{
		Left:   r.Left - o.origin.X,
		Top:    r.Top - o.origin.Y,
		Right:  r.Right - o.origin.X,
		Bottom: r.Bottom - o.origin.Y,
	}
	win32.Invalidate(o.hwnd)
}

func (o *nativeOverlay) paint(hwnd uintptr) {
	var ps win32.PAINTSTRUCT
	hdc := win32.BeginPaint(hwnd, &ps)
	defer win32.EndPaint(hwnd, &ps)

	win32.FillRect(hdc, &ps.RcPaint, o.key)
	if o.sel.Right > o.sel.Left && o.sel.Bottom > o.sel.Top {
		win32.FillRect(hdc, &o.sel, o.fill)
		win32.FrameRect(hdc, &o.sel, o.frame)
	}
}

func (o *nativeOverlay) Close() {
	if o.hwnd == 0 {
		return
	}
	win32.DestroyWindow(o.hwnd)
	o.hwnd = 0
	for _, b := range []windows.Handle{o.key, o.fill, o.frame} {
		win32.DeleteObject(b)
	}
	if overlayShown == o {
		overlayShown = nil
	}
}

// Menu command ids.
const (
	menuCreate = 1
	menuCancel = 2
)

type nativeMenu struct {
	owner func() windows.HWND
}

// NewMenu returns the popup confirmation menu. It is owned by the UI thread's window when the
// dispatcher exposes one.
func NewMenu(ui any) Menu {
	m := &nativeMenu{owner: func() windows.HWND { return 0 }}
	if o, ok := ui.(interface{ Owner() uintptr }); ok {
		m.owner = func() windows.HWND { return windows.HWND(o.Owner()) }
	}
	return m
}

func (m *nativeMenu) Confirm(pt desktop.Point, _ desktop.LogicalRect) bool {
	owner := m.owner()
	if owner == 0 {
		return false
	}
	items := []win32.MenuItem{
		{ID: menuCreate, Label: createLabel},
		{Separator: true},
		{ID: menuCancel, Label: cancelLabel},
	}
	return win32.PopupMenu(owner, win32.POINT{X: pt.X, Y: pt.Y}, items) == menuCreate
}

func (m *nativeMenu) Close() {
	win32.EndMenu()
}
