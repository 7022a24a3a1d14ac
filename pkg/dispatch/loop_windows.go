//go:build windows

package dispatch

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/dixieflatline76/Fences/pkg/win32"
	"github.com/dixieflatline76/Fences/util/log"
	"github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"
)

const wmRunQueued = win32.WM_APP + 1

var (
	loops       sync.Map // windows.HWND -> *Loop
	classOnce   sync.Once
	loopClass   *uint16
	classErr    error
	loopWndProc = windows.NewCallback(func(hwnd uintptr, msg uint32, wParam, lParam uintptr) uintptr {
		switch msg {
		case wmRunQueued:
			if l, ok := loops.Load(windows.HWND(hwnd)); ok {
				l.(*Loop).drain()
			}
			return 0
		case win32.WM_CLOSE:
			win32.DestroyWindow(windows.HWND(hwnd))
			return 0
		case win32.WM_DESTROY:
			if l, ok := loops.Load(windows.HWND(hwnd)); ok {
				l.(*Loop).drain()
			}
			loops.Delete(windows.HWND(hwnd))
			win32.PostQuitMessage()
			return 0
		}
		return win32.DefWindowProc(hwnd, msg, wParam, lParam)
	})
)

// Loop is a Dispatcher bound to a dedicated, locked OS thread that pumps Win32 messages.
// Windows created from posted closures (overlays, popup menus) belong to that thread.
type Loop struct {
	fifo
	hwnd windows.HWND
	done chan struct{}
}

// NewLoop starts the UI thread and returns once its owner window exists.
func NewLoop() (*Loop, error) {
	classOnce.Do(func() {
		loopClass, classErr = win32.RegisterClass("FencesDispatchWindow", loopWndProc)
	})
	if classErr != nil {
		return nil, fmt.Errorf("registering dispatch window class: %w", classErr)
	}

	l := &Loop{done: make(chan struct{})}
	ready := make(chan error, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(l.done)

		// Icon hit tests from the gestures use accessibility COM objects on this thread.
		if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err == nil {
			defer ole.CoUninitialize()
		}
		win32.EnsureMessageQueue()
		// A hidden tool window rather than a message-only one, so it can own popup menus and take foreground.
		hwnd, err := win32.CreateWindow(win32.WS_EX_TOOLWINDOW, loopClass, win32.WS_POPUP, 0, 0, 0, 0, 0)
		if err != nil {
			ready <- fmt.Errorf("creating dispatch window: %w", err)
			return
		}
		l.hwnd = hwnd
		loops.Store(hwnd, l)
		ready <- nil

		win32.RunMessageLoop()
		log.Debugf("[Dispatch] UI thread message loop exited")
	}()

	if err := <-ready; err != nil {
		return nil, err
	}
	return l, nil
}

// Post implements Dispatcher.
func (l *Loop) Post(fn func()) bool {
	if !l.push(fn) {
		return false
	}
	// PostMessage crosses modal loops such as TrackPopupMenu, unlike PostThreadMessage.
	return win32.PostMessage(l.hwnd, wmRunQueued, 0, 0)
}

// AfterFunc implements Dispatcher.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	return afterFunc(l.Post, d, fn)
}

// Sync implements Dispatcher.
func (l *Loop) Sync(fn func()) {
	syncVia(l.Post, fn)
}

// Owner returns the handle of the loop's hidden window.
func (l *Loop) Owner() uintptr {
	return uintptr(l.hwnd)
}

// Close drains the queue, destroys the owner window and waits for the thread to exit.
func (l *Loop) Close() {
	if l.close() {
		win32.PostMessage(l.hwnd, win32.WM_CLOSE, 0, 0)
	}
	<-l.done
}

// NewUIThread starts the platform UI thread.
func NewUIThread() (UIThread, error) {
	return NewLoop()
}
