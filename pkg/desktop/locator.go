package desktop

import (
	"sync"
	"time"

	"github.com/dixieflatline76/Fences/util/log"
	"golang.org/x/time/rate"
)

// Handles are the native windows of the desktop chain. Any of them may be 0 when unobtainable and
// any of them may go stale when the shell restarts.
type Handles struct {
	// Shell is the root shell window (Progman).
	Shell HWND
	// Wallpaper is the worker window that hosts the desktop view, when the shell uses one.
	Wallpaper HWND
	// View is the desktop view host (SHELLDLL_DefView).
	View HWND
	// Icons is the icon list (SysListView32).
	Icons HWND
}

// Complete reports whether the view and icon list were both found.
func (h Handles) Complete() bool {
	return h.Shell != 0 && h.View != 0 && h.Icons != 0
}

// RediscoveryInterval bounds how often an incomplete chain is searched for again.
const RediscoveryInterval = 500 * time.Millisecond

// Locator discovers and caches the desktop chain. It is safe for concurrent use.
type Locator struct {
	ws WindowSystem

	mu         sync.Mutex
	cached     Handles
	discovered bool
	spawnedFor HWND
	retry      *rate.Limiter
}

// NewLocator returns a Locator that discovers lazily on first use.
func NewLocator(ws WindowSystem) *Locator {
	return &Locator{
		ws:    ws,
		retry: rate.NewLimiter(rate.Every(RediscoveryInterval), 1),
	}
}

// Locate returns the current handles, re-validating the cache and rediscovering when a handle died.
func (l *Locator) Locate() Handles {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.discovered && l.alive(l.cached) {
		if l.cached.Complete() || !l.retry.Allow() {
			return l.cached
		}
	}
	l.cached = l.discover()
	l.discovered = true
	return l.cached
}

// alive reports whether every non-zero handle still names a window.
func (l *Locator) alive(h Handles) bool {
	for _, w := range []HWND{h.Shell, h.Wallpaper, h.View, h.Icons} {
		if w != 0 && !l.ws.IsWindow(w) {
			return false
		}
	}
	return true
}

func (l *Locator) discover() Handles {
	shell := l.ws.FindWindow(ShellClass, ShellTitle)
	if shell == 0 {
		log.Debugf("[Desktop] shell window not found")
		return Handles{}
	}

	// The worker hosts only exist once the shell has been asked for them. Asking again after a shell
	// restart is required, asking on every rediscovery is not.
	if shell != l.spawnedFor {
		if !l.ws.SpawnWorkers(shell) {
			log.Debugf("[Desktop] shell did not answer the worker spawn request in time")
		}
		l.spawnedFor = shell
	}

	h := Handles{Shell: shell}
	for _, w := range l.ws.TopLevelWindows() {
		if l.ws.ClassName(w) != WorkerClass {
			continue
		}
		if view := l.ws.FindDescendant(w, ViewClass); view != 0 {
			h.Wallpaper, h.View = w, view
			break
		}
	}
	if h.View == 0 {
		h.View = l.ws.FindDescendant(shell, ViewClass)
	}
	if h.View != 0 {
		h.Icons = l.ws.FindDescendant(h.View, IconListClass)
	}

	log.Debugf("[Desktop] discovered shell=%#x wallpaper=%#x view=%#x icons=%#x", h.Shell, h.Wallpaper, h.View, h.Icons)
	return h
}
