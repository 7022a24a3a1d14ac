package ui

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"

	"github.com/dixieflatline76/Fences/pkg/desktop"
)

// withNativeHandle runs fn with the Win32 handle behind w. It returns false when the driver has no
// native window, which is the case before the window is first shown and on other platforms.
func withNativeHandle(w fyne.Window, fn func(desktop.HWND)) bool {
	nw, ok := w.(driver.NativeWindow)
	if !ok {
		return false
	}
	var (
		found bool
		wg    sync.WaitGroup
	)
	wg.Add(1)
	nw.RunNative(func(ctx any) {
		defer wg.Done()
		winCtx, ok := ctx.(driver.WindowsWindowContext)
		if !ok || winCtx.HWND == 0 {
			return
		}
		found = true
		fn(desktop.HWND(winCtx.HWND))
	})
	wg.Wait()
	return found
}
