package gesture

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/dixieflatline76/Fences/pkg/desktop"
	"github.com/dixieflatline76/Fences/pkg/dispatch"
	"github.com/dixieflatline76/Fences/util/log"
)

// Options wires a Hook to the desktop and the UI thread.
type Options struct {
	System desktop.WindowSystem
	UI     dispatch.Dispatcher

	// Installer, Overlay and Menu default to the native implementations when nil.
	Installer Installer
	Overlay   Overlay
	Menu      Menu

	// ToggleIcons runs on the UI thread after an accepted double-click.
	ToggleIcons func()
	// CreateFence runs on the UI thread with a confirmed selection in logical units.
	CreateFence func(desktop.LogicalRect)
}

// Hook owns the global mouse hook and feeds its events to both gestures.
type Hook struct {
	installer Installer
	ui        dispatch.Dispatcher
	overlay   Overlay
	menu      Menu

	Drag        *DragSelector
	DoubleClick *DoubleClickMonitor

	mu      sync.Mutex
	running bool
}

// NewHook builds a stopped hook.
func NewHook(opts Options) *Hook {
	if opts.Installer == nil {
		opts.Installer = NewInstaller()
	}
	if opts.Overlay == nil {
		opts.Overlay = NewOverlay()
	}
	if opts.Menu == nil {
		opts.Menu = NewMenu(opts.UI)
	}
	toggle := opts.ToggleIcons
	if toggle == nil {
		toggle = func() {}
	}

	return &Hook{
		installer:   opts.Installer,
		ui:          opts.UI,
		overlay:     opts.Overlay,
		menu:        opts.Menu,
		Drag:        NewDragSelector(opts.System, opts.UI, opts.Overlay, opts.Menu, opts.CreateFence),
		DoubleClick: NewDoubleClickMonitor(opts.System, opts.UI, toggle),
	}
}

// Start installs the hook. Calling it while running does nothing.
func (h *Hook) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return nil
	}
	if err := h.installer.Install(h.handle); err != nil {
		return fmt.Errorf("installing mouse hook: %w", err)
	}
	h.running = true
	log.Print("[Gesture] mouse hook installed")
	return nil
}

// Stop removes the hook, resets both gestures and tears down any overlay or menu before returning.
// It must not be called from the UI thread.
func (h *Hook) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.running {
		return
	}
	h.installer.Uninstall()
	h.running = false

	h.Drag.reset()
	h.DoubleClick.resetHook()
	h.ui.Sync(func() {
		h.overlay.Close()
		h.menu.Close()
		h.DoubleClick.resetUI()
	})
	log.Print("[Gesture] mouse hook removed")
}

// Running reports whether the hook is installed.
func (h *Hook) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}

// handle is the installer callback. A failure inside a gesture must never swallow input.
func (h *Hook) handle(ev Event) (suppress bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Gesture] recovered from panic in mouse hook: %v\n%s", r, debug.Stack())
			suppress = false
		}
	}()

	if ev.Kind == LeftDown {
		h.DoubleClick.LeftDown(ev)
	}
	return h.Drag.Handle(ev)
}
