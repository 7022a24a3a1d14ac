// Package shell is the desktop integration service the application talks to. It owns the window
// locator, icon visibility, z-order anchoring, the global gesture hook, shortcut I/O and icon
// resolution, and runs them against one UI dispatcher.
package shell

import (
	"errors"
	"image"
	"sync"

	"fyne.io/fyne/v2"

	"github.com/dixieflatline76/Fences/pkg/desktop"
	"github.com/dixieflatline76/Fences/pkg/dispatch"
	"github.com/dixieflatline76/Fences/pkg/gesture"
	"github.com/dixieflatline76/Fences/pkg/icon"
	"github.com/dixieflatline76/Fences/pkg/shortcut"
	"github.com/dixieflatline76/Fences/util/log"
)

// ErrUnsupported is returned by operations that need the Windows shell.
var ErrUnsupported = errors.New("operation requires the Windows shell")

// Options selects the collaborators of a Service. Zero fields use the native implementations.
type Options struct {
	System desktop.WindowSystem
	// UI runs posted work. When nil the service starts its own UI thread and closes it on Stop.
	UI dispatch.Dispatcher

	LinkBackend shortcut.Backend
	IconSource  icon.Source

	Installer gesture.Installer
	Overlay   gesture.Overlay
	Menu      gesture.Menu
}

// Service is the desktop integration facade.
type Service struct {
	ws      desktop.WindowSystem
	ui      dispatch.Dispatcher
	closeUI func()

	locator  *desktop.Locator
	icons    *desktop.IconVisibility
	anchor   *desktop.Anchor
	links    *shortcut.Service
	resolver *icon.Resolver
	opts     Options

	mu          sync.Mutex
	started     bool
	hook        *gesture.Hook
	doubleClick bool
	rightDrag   bool
}

// New builds a stopped service.
func New(opts Options) (*Service, error) {
	s := &Service{doubleClick: true, rightDrag: true}

	if opts.System == nil {
		opts.System = desktop.NewWindowSystem()
	}
	if opts.UI == nil {
		thread, err := dispatch.NewUIThread()
		if err != nil {
			return nil, err
		}
		opts.UI = thread
		s.closeUI = thread.Close
	}

	s.ws = opts.System
	s.ui = opts.UI
	s.opts = opts

	s.locator = desktop.NewLocator(s.ws)
	s.icons = desktop.NewIconVisibility(s.locator, s.ws, s.ui)
	s.anchor = desktop.NewAnchor(s.locator, s.ws)

	if opts.LinkBackend != nil {
		s.links = shortcut.NewServiceWithBackend(opts.LinkBackend)
	} else {
		s.links = shortcut.NewService()
	}
	if opts.IconSource != nil {
		s.resolver = icon.NewResolverWithSource(opts.IconSource, s.links)
	} else {
		s.resolver = icon.NewResolver(s.links)
	}
	return s, nil
}

// Start makes the process DPI aware and discovers the desktop chain. It is idempotent.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	if !desktop.EnableDPIAwareness() {
		log.Debugf("[Desktop] per-monitor DPI awareness unavailable")
	}
	h := s.locator.Locate()
	if h.Complete() {
		log.Printf("[Desktop] desktop found: shell=%#x host=%#x view=%#x icons=%#x", h.Shell, h.Wallpaper, h.View, h.Icons)
	} else {
		log.Printf("[Desktop] desktop chain incomplete, icon toggling disabled until it appears")
	}
}

// Stop removes the gesture hook, makes desktop icons visible again and closes an owned UI thread.
// It must not be called from the UI thread.
func (s *Service) Stop() {
	s.StopGestureHook()

	s.mu.Lock()
	started := s.started
	s.started = false
	closeUI := s.closeUI
	s.closeUI = nil
	s.mu.Unlock()

	if started {
		s.icons.RestoreVisible()
	}
	if closeUI != nil {
		closeUI()
	}
}

// UI returns the dispatcher the service schedules its UI work on.
func (s *Service) UI() dispatch.Dispatcher {
	return s.ui
}

// Links returns the shortcut service.
func (s *Service) Links() *shortcut.Service {
	return s.links
}

// ScalerAt converts between physical pixels and the logical units fences are stored in, using the
// monitor under pt.
func (s *Service) ScalerAt(pt desktop.Point) desktop.Scaler {
	return s.ws.Metrics().ScalerAt(pt)
}

// ScalerFor returns the converter of the monitor the logical rectangle l is placed on.
func (s *Service) ScalerFor(l desktop.LogicalRect) desktop.Scaler {
	return s.ws.Metrics().ScalerFor(l)
}

// LocateDesktopHandles returns the current, validated desktop chain.
func (s *Service) LocateDesktopHandles() desktop.Handles {
	return s.locator.Locate()
}

func (s *Service) IsIconsVisible() bool      { return s.icons.IsVisible() }
func (s *Service) SetIconsVisible(show bool) { s.icons.SetVisible(show) }
func (s *Service) ToggleIcons()              { s.icons.Toggle() }

// AnchorWindowBelowApps keeps a fence window above the desktop and below application windows.
func (s *Service) AnchorWindowBelowApps(hwnd uintptr) bool {
	return s.anchor.AnchorBelowNormalWindows(desktop.HWND(hwnd))
}

// StartGestureHook installs the global mouse hook. onCreate runs on the UI thread with each
// confirmed selection. Starting while installed does nothing.
func (s *Service) StartGestureHook(onCreate func(desktop.LogicalRect)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hook != nil {
		return nil
	}

	hook := gesture.NewHook(gesture.Options{
		System:      s.ws,
		UI:          s.ui,
		Installer:   s.opts.Installer,
		Overlay:     s.opts.Overlay,
		Menu:        s.opts.Menu,
		ToggleIcons: s.icons.Toggle,
		CreateFence: onCreate,
	})
	hook.DoubleClick.SetEnabled(s.doubleClick)
	hook.Drag.SetEnabled(s.rightDrag)
	if err := hook.Start(); err != nil {
		return err
	}
	s.hook = hook
	return nil
}

// StopGestureHook removes the hook and tears down any overlay or menu. It is idempotent and must
// not be called from the UI thread.
func (s *Service) StopGestureHook() {
	s.mu.Lock()
	hook := s.hook
	s.hook = nil
	s.mu.Unlock()

	if hook != nil {
		hook.Stop()
	}
}

// GestureHookRunning reports whether the hook is installed.
func (s *Service) GestureHookRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hook != nil && s.hook.Running()
}

// SetDoubleClickToggle enables toggling icons by double-clicking empty desktop.
func (s *Service) SetDoubleClickToggle(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doubleClick = enabled
	if s.hook != nil {
		s.hook.DoubleClick.SetEnabled(enabled)
	}
}

// SetRightDragCreate enables drawing new fences by right-dragging on empty desktop.
func (s *Service) SetRightDragCreate(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rightDrag = enabled
	if s.hook != nil {
		s.hook.Drag.SetEnabled(enabled)
	}
}

func (s *Service) CreateShortcut(d shortcut.Descriptor) error { return s.links.Create(d) }

// ResolveShortcutTarget returns the concrete target of a link, or false for virtual links.
func (s *Service) ResolveShortcutTarget(linkPath string) (string, bool) {
	return s.links.ResolveTarget(linkPath)
}

// ResolveIcon returns the icon for a path, link or shell token. It never returns nil.
func (s *Service) ResolveIcon(pathOrToken string) image.Image {
	return s.resolver.Resolve(pathOrToken)
}

// IconResource returns the cached 48 px PNG resource for a path.
func (s *Service) IconResource(pathOrToken string) fyne.Resource {
	return s.resolver.Resource(pathOrToken)
}

// ForgetIcon drops a cached icon resource so the next lookup resolves it again.
func (s *Service) ForgetIcon(pathOrToken string) {
	s.resolver.Forget(pathOrToken)
}
