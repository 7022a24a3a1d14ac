//go:build windows

// Package win32 holds the user32/gdi32 bindings shared by the desktop, dispatch and gesture packages.
package win32

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	gdi32    = windows.NewLazySystemDLL("gdi32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")
	shcore   = windows.NewLazySystemDLL("shcore.dll")

	procFindWindowW              = user32.NewProc("FindWindowW")
	procEnumWindows              = user32.NewProc("EnumWindows")
	procEnumChildWindows         = user32.NewProc("EnumChildWindows")
	procGetClassNameW            = user32.NewProc("GetClassNameW")
	procGetAncestor              = user32.NewProc("GetAncestor")
	procGetParent                = user32.NewProc("GetParent")
	procGetWindow                = user32.NewProc("GetWindow")
	procIsWindow                 = user32.NewProc("IsWindow")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procShowWindow               = user32.NewProc("ShowWindow")
	procPostMessageW             = user32.NewProc("PostMessageW")
	procSendMessageTimeoutW      = user32.NewProc("SendMessageTimeoutW")
	procSetWindowPos             = user32.NewProc("SetWindowPos")
	procGetWindowRect            = user32.NewProc("GetWindowRect")
	procWindowFromPoint          = user32.NewProc("WindowFromPoint")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procGetSystemMetrics         = user32.NewProc("GetSystemMetrics")
	procGetDoubleClickTime       = user32.NewProc("GetDoubleClickTime")
	procGetDpiForSystem          = user32.NewProc("GetDpiForSystem")
	procEnumDisplayMonitors      = user32.NewProc("EnumDisplayMonitors")
	procGetDpiForMonitor         = shcore.NewProc("GetDpiForMonitor")
	procSetProcessDpiAwarenessCt = user32.NewProc("SetProcessDpiAwarenessContext")
	procSetForegroundWindow      = user32.NewProc("SetForegroundWindow")
	procGetWindowLongPtrW        = user32.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtrW        = user32.NewProc("SetWindowLongPtrW")

	procRegisterClassExW = user32.NewProc("RegisterClassExW")
	procCreateWindowExW  = user32.NewProc("CreateWindowExW")
	procDefWindowProcW   = user32.NewProc("DefWindowProcW")
	procDestroyWindow    = user32.NewProc("DestroyWindow")
	procGetMessageW      = user32.NewProc("GetMessageW")
	procPeekMessageW     = user32.NewProc("PeekMessageW")
	procTranslateMessage = user32.NewProc("TranslateMessage")
	procDispatchMessageW = user32.NewProc("DispatchMessageW")
	procPostQuitMessage  = user32.NewProc("PostQuitMessage")
	procPostThreadMsgW   = user32.NewProc("PostThreadMessageW")

	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")

	procInvalidateRect             = user32.NewProc("InvalidateRect")
	procBeginPaint                 = user32.NewProc("BeginPaint")
	procEndPaint                   = user32.NewProc("EndPaint")
	procFillRect                   = user32.NewProc("FillRect")
	procFrameRect                  = user32.NewProc("FrameRect")
	procSetLayeredWindowAttributes = user32.NewProc("SetLayeredWindowAttributes")
	procCreatePopupMenu            = user32.NewProc("CreatePopupMenu")
	procAppendMenuW                = user32.NewProc("AppendMenuW")
	procTrackPopupMenu             = user32.NewProc("TrackPopupMenu")
	procDestroyMenu                = user32.NewProc("DestroyMenu")
	procEndMenu                    = user32.NewProc("EndMenu")

	procCreateSolidBrush = gdi32.NewProc("CreateSolidBrush")
	procDeleteObject     = gdi32.NewProc("DeleteObject")

	procGetModuleHandleW = kernel32.NewProc("GetModuleHandleW")
)

// Window messages and styles used across the application.
const (
	WM_NULL        = 0x0000
	WM_DESTROY     = 0x0002
	WM_CLOSE       = 0x0010
	WM_PAINT       = 0x000F
	WM_QUIT        = 0x0012
	WM_COMMAND     = 0x0111
	WM_MOUSEMOVE   = 0x0200
	WM_LBUTTONDOWN = 0x0201
	WM_LBUTTONUP   = 0x0202
	WM_RBUTTONDOWN = 0x0204
	WM_RBUTTONUP   = 0x0205
	WM_APP         = 0x8000

	WS_POPUP          = 0x80000000
	WS_EX_TOPMOST     = 0x00000008
	WS_EX_TRANSPARENT = 0x00000020
	WS_EX_TOOLWINDOW  = 0x00000080
	WS_EX_LAYERED     = 0x00080000
	WS_EX_NOACTIVATE  = 0x08000000

	SW_HIDE           = 0
	SW_SHOW           = 5
	SW_SHOWNOACTIVATE = 4

	SWP_NOSIZE         = 0x0001
	SWP_NOMOVE         = 0x0002
	SWP_NOZORDER       = 0x0004
	SWP_NOACTIVATE     = 0x0010
	SWP_FRAMECHANGED   = 0x0020
	SWP_SHOWWINDOW     = 0x0040
	SWP_NOOWNERZORDER  = 0x0200
	SWP_NOSENDCHANGING = 0x0400

	GWL_EXSTYLE = -20

	GA_ROOT     = 2
	GW_HWNDPREV = 3

	SMTO_ABORTIFHUNG = 0x0002

	SM_CXICON          = 11
	SM_CXDOUBLECLK     = 36
	SM_CYDOUBLECLK     = 37
	SM_XVIRTUALSCREEN  = 76
	SM_YVIRTUALSCREEN  = 77
	SM_CXVIRTUALSCREEN = 78
	SM_CYVIRTUALSCREEN = 79

	WH_MOUSE_LL = 14
	HC_ACTION   = 0

	PM_NOREMOVE = 0x0000

	LWA_COLORKEY = 0x00000001
	LWA_ALPHA    = 0x00000002

	MF_STRING    = 0x00000000
	MF_SEPARATOR = 0x00000800

	TPM_RIGHTBUTTON = 0x0002
	TPM_RETURNCMD   = 0x0100
	TPM_NONOTIFY    = 0x0080
)

// HWND_MESSAGE is the parent for message-only windows.
const HWND_MESSAGE = ^uintptr(2)

// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2 as passed to SetProcessDpiAwarenessContext.
const dpiAwarenessPerMonitorV2 = ^uintptr(3)

// POINT mirrors the Win32 POINT structure.
type POINT struct {
	X, Y int32
}

// RECT mirrors the Win32 RECT structure.
type RECT struct {
	Left, Top, Right, Bottom int32
}

// MSG mirrors the Win32 MSG structure.
type MSG struct {
	HWnd    windows.HWND
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      POINT
}

// MSLLHOOKSTRUCT is the payload of a WH_MOUSE_LL event.
type MSLLHOOKSTRUCT struct {
	Pt          POINT
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

// WNDCLASSEX mirrors the Win32 WNDCLASSEXW structure.
type WNDCLASSEX struct {
	CbSize        uint32
	Style         uint32
	LpfnWndProc   uintptr
	CbClsExtra    int32
	CbWndExtra    int32
	HInstance     windows.Handle
	HIcon         windows.Handle
	HCursor       windows.Handle
	HbrBackground windows.Handle
	LpszMenuName  *uint16
	LpszClassName *uint16
	HIconSm       windows.Handle
}

// PAINTSTRUCT mirrors the Win32 PAINTSTRUCT structure.
type PAINTSTRUCT struct {
	Hdc         windows.Handle
	FErase      int32
	RcPaint     RECT
	FRestore    int32
	FIncUpdate  int32
	RgbReserved [32]byte
}

// FindWindow returns the top-level window with the given class and title, or 0.
func FindWindow(class, title string) windows.HWND {
	c, _ := windows.UTF16PtrFromString(class)
	var t *uint16
	if title != "" {
		t, _ = windows.UTF16PtrFromString(title)
	}
	h, _, _ := procFindWindowW.Call(uintptr(unsafe.Pointer(c)), uintptr(unsafe.Pointer(t)))
	return windows.HWND(h)
}

var (
	enumMu       sync.Mutex
	enumNext     uintptr
	enumVisitors = map[uintptr]func(windows.HWND) bool{}

	// NewCallback slots are never released, so a single trampoline serves every enumeration.
	enumCallback = windows.NewCallback(func(hwnd, lparam uintptr) uintptr {
		enumMu.Lock()
		visit := enumVisitors[lparam]
		enumMu.Unlock()
		if visit != nil && visit(windows.HWND(hwnd)) {
			return 1
		}
		return 0
	})
)

func registerVisitor(visit func(windows.HWND) bool) uintptr {
	enumMu.Lock()
	defer enumMu.Unlock()
	enumNext++
	enumVisitors[enumNext] = visit
	return enumNext
}

func releaseVisitor(id uintptr) {
	enumMu.Lock()
	delete(enumVisitors, id)
	enumMu.Unlock()
}

// EnumWindows calls visit for each top-level window until it returns false.
func EnumWindows(visit func(windows.HWND) bool) {
	id := registerVisitor(visit)
	defer releaseVisitor(id)
	procEnumWindows.Call(enumCallback, id)
}

// EnumChildWindows calls visit for every descendant of parent until it returns false.
func EnumChildWindows(parent windows.HWND, visit func(windows.HWND) bool) {
	id := registerVisitor(visit)
	defer releaseVisitor(id)
	procEnumChildWindows.Call(uintptr(parent), enumCallback, id)
}

// ClassName returns the window class name of hwnd.
func ClassName(hwnd windows.HWND) string {
	var buf [256]uint16
	n, _, _ := procGetClassNameW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}

// Parent returns the parent or owner of hwnd.
func Parent(hwnd windows.HWND) windows.HWND {
	h, _, _ := procGetParent.Call(uintptr(hwnd))
	return windows.HWND(h)
}

// Ancestor wraps GetAncestor.
func Ancestor(hwnd windows.HWND, flags uint32) windows.HWND {
	h, _, _ := procGetAncestor.Call(uintptr(hwnd), uintptr(flags))
	return windows.HWND(h)
}

// PrevWindow returns the window directly above hwnd in z-order.
func PrevWindow(hwnd windows.HWND) windows.HWND {
	h, _, _ := procGetWindow.Call(uintptr(hwnd), GW_HWNDPREV)
	return windows.HWND(h)
}

// IsWindow reports whether hwnd identifies an existing window.
func IsWindow(hwnd windows.HWND) bool {
	r, _, _ := procIsWindow.Call(uintptr(hwnd))
	return r != 0
}

// IsWindowVisible reports the WS_VISIBLE state of hwnd.
func IsWindowVisible(hwnd windows.HWND) bool {
	r, _, _ := procIsWindowVisible.Call(uintptr(hwnd))
	return r != 0
}

// ShowWindow wraps ShowWindow and returns the previous visibility.
func ShowWindow(hwnd windows.HWND, cmd int32) bool {
	r, _, _ := procShowWindow.Call(uintptr(hwnd), uintptr(cmd))
	return r != 0
}

// PostMessage queues a message for hwnd without waiting.
func PostMessage(hwnd windows.HWND, msg uint32, wParam, lParam uintptr) bool {
	r, _, _ := procPostMessageW.Call(uintptr(hwnd), uintptr(msg), wParam, lParam)
	return r != 0
}

// SendMessageTimeout sends a message and gives up after timeoutMs.
func SendMessageTimeout(hwnd windows.HWND, msg uint32, wParam, lParam uintptr, flags, timeoutMs uint32) bool {
	var result uintptr
	r, _, _ := procSendMessageTimeoutW.Call(uintptr(hwnd), uintptr(msg), wParam, lParam,
		uintptr(flags), uintptr(timeoutMs), uintptr(unsafe.Pointer(&result)))
	return r != 0
}

// SetWindowPos wraps SetWindowPos.
func SetWindowPos(hwnd, insertAfter windows.HWND, x, y, cx, cy int32, flags uint32) bool {
	r, _, _ := procSetWindowPos.Call(uintptr(hwnd), uintptr(insertAfter),
		uintptr(x), uintptr(y), uintptr(cx), uintptr(cy), uintptr(flags))
	return r != 0
}

// WindowRect returns the screen rectangle of hwnd.
func WindowRect(hwnd windows.HWND) (RECT, bool) {
	var r RECT
	ok, _, _ := procGetWindowRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&r)))
	return r, ok != 0
}

// WindowFromPoint returns the deepest window at pt.
func WindowFromPoint(pt POINT) windows.HWND {
	// POINT is passed by value, packed into a single register on amd64 and arm64.
	packed := uintptr(uint32(pt.X)) | uintptr(uint32(pt.Y))<<32
	h, _, _ := procWindowFromPoint.Call(packed)
	return windows.HWND(h)
}

// WindowProcessID returns the id of the process owning hwnd.
func WindowProcessID(hwnd windows.HWND) uint32 {
	var pid uint32
	procGetWindowThreadProcessId.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&pid)))
	return pid
}

// SystemMetric wraps GetSystemMetrics.
func SystemMetric(index int32) int32 {
	r, _, _ := procGetSystemMetrics.Call(uintptr(index))
	return int32(r)
}

// DoubleClickTime returns the double-click interval in milliseconds.
func DoubleClickTime() uint32 {
	r, _, _ := procGetDoubleClickTime.Call()
	return uint32(r)
}

// SystemDPI returns the system DPI, or 96 when the API is unavailable.
func SystemDPI() uint32 {
	if procGetDpiForSystem.Find() != nil {
		return 96
	}
	r, _, _ := procGetDpiForSystem.Call()
	if r == 0 {
		return 96
	}
	return uint32(r)
}

const mdtEffectiveDPI = 0

// DisplayMonitor is one monitor's rectangle in virtual-screen pixels and its effective DPI.
type DisplayMonitor struct {
	Bounds RECT
	DPI    uint32
}

var (
	monitorMu    sync.Mutex
	monitorFound []DisplayMonitor

	monitorCallback = windows.NewCallback(func(hmon, hdc, rect, lparam uintptr) uintptr {
		bounds := *(*RECT)(unsafe.Pointer(rect))
		monitorFound = append(monitorFound, DisplayMonitor{Bounds: bounds, DPI: MonitorDPI(hmon)})
		return 1
	})
)

// DisplayMonitors lists the attached monitors.
func DisplayMonitors() []DisplayMonitor {
	monitorMu.Lock()
	defer monitorMu.Unlock()
	monitorFound = nil
	procEnumDisplayMonitors.Call(0, 0, monitorCallback, 0)
	found := monitorFound
	monitorFound = nil
	return found
}

// MonitorDPI returns the effective DPI of a monitor, or the system DPI before Windows 8.1.
func MonitorDPI(hmon uintptr) uint32 {
	if procGetDpiForMonitor.Find() != nil {
		return SystemDPI()
	}
	var x, y uint32
	hr, _, _ := procGetDpiForMonitor.Call(hmon, mdtEffectiveDPI, uintptr(unsafe.Pointer(&x)), uintptr(unsafe.Pointer(&y)))
	if hr != 0 || x == 0 {
		return SystemDPI()
	}
	return x
}

// EnableDPIAwareness opts the process into per-monitor DPI awareness so hook coordinates are physical pixels.
func EnableDPIAwareness() bool {
	// Load shcore now; MonitorDPI later runs inside the mouse hook.
	_ = procGetDpiForMonitor.Find()
	if procSetProcessDpiAwarenessCt.Find() != nil {
		return false
	}
	r, _, _ := procSetProcessDpiAwarenessCt.Call(dpiAwarenessPerMonitorV2)
	return r != 0
}

// SetForegroundWindow wraps SetForegroundWindow.
func SetForegroundWindow(hwnd windows.HWND) bool {
	r, _, _ := procSetForegroundWindow.Call(uintptr(hwnd))
	return r != 0
}

// ModuleHandle returns the instance handle of the running executable.
func ModuleHandle() windows.Handle {
	h, _, _ := procGetModuleHandleW.Call(0)
	return windows.Handle(h)
}

// RegisterClass registers a window class with the given procedure and returns the class name pointer.
func RegisterClass(name string, wndProc uintptr) (*uint16, error) {
	className, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, err
	}
	wc := WNDCLASSEX{
		LpfnWndProc:   wndProc,
		HInstance:     ModuleHandle(),
		LpszClassName: className,
	}
	wc.CbSize = uint32(unsafe.Sizeof(wc))
	atom, _, callErr := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc)))
	if atom == 0 {
		return nil, callErr
	}
	return className, nil
}

// CreateWindow wraps CreateWindowExW.
func CreateWindow(exStyle uint32, className *uint16, style uint32, x, y, w, h int32, parent uintptr) (windows.HWND, error) {
	hwnd, _, err := procCreateWindowExW.Call(
		uintptr(exStyle),
		uintptr(unsafe.Pointer(className)),
		0,
		uintptr(style),
		uintptr(x), uintptr(y), uintptr(w), uintptr(h),
		parent, 0,
		uintptr(ModuleHandle()),
		0,
	)
	if hwnd == 0 {
		return 0, err
	}
	return windows.HWND(hwnd), nil
}

// DefWindowProc forwards a message to the default window procedure.
func DefWindowProc(hwnd uintptr, msg uint32, wParam, lParam uintptr) uintptr {
	r, _, _ := procDefWindowProcW.Call(hwnd, uintptr(msg), wParam, lParam)
	return r
}

// DestroyWindow wraps DestroyWindow.
func DestroyWindow(hwnd windows.HWND) {
	procDestroyWindow.Call(uintptr(hwnd))
}

// EnsureMessageQueue forces the calling thread to own a message queue.
func EnsureMessageQueue() {
	var msg MSG
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, WM_APP, WM_APP, PM_NOREMOVE)
}

// RunMessageLoop pumps messages for the calling thread until WM_QUIT.
func RunMessageLoop() {
	var msg MSG
	for {
		r, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		if int32(r) <= 0 {
			return
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&msg)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&msg)))
	}
}

// PostQuitMessage ends the message loop of the calling thread.
func PostQuitMessage() {
	procPostQuitMessage.Call(0)
}

// PostThreadMessage queues a message on another thread's queue.
func PostThreadMessage(threadID uint32, msg uint32) bool {
	r, _, _ := procPostThreadMsgW.Call(uintptr(threadID), uintptr(msg), 0, 0)
	return r != 0
}

// SetMouseHook installs a WH_MOUSE_LL hook bound to the calling thread's message loop.
func SetMouseHook(callback uintptr) (windows.Handle, error) {
	h, _, err := procSetWindowsHookExW.Call(WH_MOUSE_LL, callback, 0, 0)
	if h == 0 {
		return 0, err
	}
	return windows.Handle(h), nil
}

// CallNextHook passes a hook event down the chain.
func CallNextHook(nCode int, wParam, lParam uintptr) uintptr {
	r, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return r
}

// Unhook removes a hook installed with SetMouseHook.
func Unhook(h windows.Handle) {
	procUnhookWindowsHookEx.Call(uintptr(h))
}

// Invalidate schedules a repaint of the whole client area.
func Invalidate(hwnd windows.HWND) {
	procInvalidateRect.Call(uintptr(hwnd), 0, 1)
}

// BeginPaint wraps BeginPaint.
func BeginPaint(hwnd uintptr, ps *PAINTSTRUCT) windows.Handle {
	hdc, _, _ := procBeginPaint.Call(hwnd, uintptr(unsafe.Pointer(ps)))
	return windows.Handle(hdc)
}

// EndPaint wraps EndPaint.
func EndPaint(hwnd uintptr, ps *PAINTSTRUCT) {
	procEndPaint.Call(hwnd, uintptr(unsafe.Pointer(ps)))
}

// FillRect paints r with brush.
func FillRect(hdc windows.Handle, r *RECT, brush windows.Handle) {
	procFillRect.Call(uintptr(hdc), uintptr(unsafe.Pointer(r)), uintptr(brush))
}

// FrameRect outlines r with brush.
func FrameRect(hdc windows.Handle, r *RECT, brush windows.Handle) {
	procFrameRect.Call(uintptr(hdc), uintptr(unsafe.Pointer(r)), uintptr(brush))
}

// CreateSolidBrush creates a GDI brush for a 0x00BBGGRR color.
func CreateSolidBrush(color uint32) windows.Handle {
	h, _, _ := procCreateSolidBrush.Call(uintptr(color))
	return windows.Handle(h)
}

// DeleteObject frees a GDI object.
func DeleteObject(h windows.Handle) {
	procDeleteObject.Call(uintptr(h))
}

// AddExStyle sets extra extended style bits on hwnd and reports whether the style changed.
func AddExStyle(hwnd windows.HWND, bits uint32) bool {
	index := int32(GWL_EXSTYLE)
	old, _, _ := procGetWindowLongPtrW.Call(uintptr(hwnd), uintptr(index))
	if uint32(old)&bits == bits {
		return false
	}
	procSetWindowLongPtrW.Call(uintptr(hwnd), uintptr(index), old|uintptr(bits))
	SetWindowPos(hwnd, 0, 0, 0, 0, 0, SWP_NOMOVE|SWP_NOSIZE|SWP_NOZORDER|SWP_NOACTIVATE|SWP_FRAMECHANGED)
	return true
}

// SetLayeredAttributes sets the color key and alpha of a layered window.
func SetLayeredAttributes(hwnd windows.HWND, colorKey uint32, alpha byte, flags uint32) {
	procSetLayeredWindowAttributes.Call(uintptr(hwnd), uintptr(colorKey), uintptr(alpha), uintptr(flags))
}

// PopupMenu shows a context menu at pt owned by owner and returns the chosen item id, or 0.
func PopupMenu(owner windows.HWND, pt POINT, items []MenuItem) uint32 {
	menu, _, _ := procCreatePopupMenu.Call()
	if menu == 0 {
		return 0
	}
	defer procDestroyMenu.Call(menu)

	for _, it := range items {
		if it.Separator {
			procAppendMenuW.Call(menu, MF_SEPARATOR, 0, 0)
			continue
		}
		label, _ := windows.UTF16PtrFromString(it.Label)
		procAppendMenuW.Call(menu, MF_STRING, uintptr(it.ID), uintptr(unsafe.Pointer(label)))
	}

	// Without foreground, the menu does not close when the user clicks elsewhere.
	SetForegroundWindow(owner)
	cmd, _, _ := procTrackPopupMenu.Call(menu, TPM_RETURNCMD|TPM_RIGHTBUTTON|TPM_NONOTIFY,
		uintptr(pt.X), uintptr(pt.Y), 0, uintptr(owner), 0)
	PostMessage(owner, WM_NULL, 0, 0)
	return uint32(cmd)
}

// EndMenu closes the menu shown by the calling thread, if any.
func EndMenu() {
	procEndMenu.Call()
}

// MenuItem describes one entry of a popup menu.
type MenuItem struct {
	ID        uint32
	Label     string
	Separator bool
}
