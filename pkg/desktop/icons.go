package desktop

import (
	"sync"
	"time"

	"github.com/dixieflatline76/Fences/pkg/dispatch"
	"github.com/dixieflatline76/Fences/util/log"
)

// toggleIconsCommand is the desktop view's "Show desktop icons" menu command.
const toggleIconsCommand = 0x7402

// VerifyDelay is how long the shell gets to act on a posted toggle before the state is forced.
const VerifyDelay = 120 * time.Millisecond

// restoreWait is how long RestoreVisible lets the shell act before forcing the state.
var restoreWait = VerifyDelay

// IconVisibility shows and hides the desktop icon layer.
type IconVisibility struct {
	loc *Locator
	ws  WindowSystem
	ui  dispatch.Dispatcher

	mu     sync.Mutex
	verify dispatch.Timer
}

// NewIconVisibility returns an IconVisibility that schedules its verification on ui.
func NewIconVisibility(loc *Locator, ws WindowSystem, ui dispatch.Dispatcher) *IconVisibility {
	return &IconVisibility{loc: loc, ws: ws, ui: ui}
}

// IsVisible reports whether the icon list is currently shown. It is false when the list cannot be found.
func (v *IconVisibility) IsVisible() bool {
	h := v.loc.Locate()
	return h.Icons != 0 && v.ws.IsVisible(h.Icons)
}

// SetVisible requests the given state without blocking. The request is posted to the shell and
// verified after VerifyDelay; if the shell ignored it the icon list is shown or hidden directly.
func (v *IconVisibility) SetVisible(show bool) {
	h := v.loc.Locate()
	if h.View == 0 || h.Icons == 0 {
		log.Printf("[Desktop] icon layer unavailable, ignoring visibility change")
		return
	}

	if v.ws.IsVisible(h.Icons) != show {
		if !v.ws.PostCommand(h.View, toggleIconsCommand) {
			log.Debugf("[Desktop] posting icon toggle failed, will force")
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.verify != nil {
		v.verify.Stop()
	}
	v.verify = v.ui.AfterFunc(VerifyDelay, func() { v.enforce(show) })
}

// Toggle flips the icon layer.
func (v *IconVisibility) Toggle() {
	v.SetVisible(!v.IsVisible())
}

// RestoreVisible shows the icon layer and returns once the state has been verified. It is meant for
// shutdown, when a scheduled verification might never run, and must not be called on the UI thread.
func (v *IconVisibility) RestoreVisible() {
	v.mu.Lock()
	if v.verify != nil {
		v.verify.Stop()
		v.verify = nil
	}
	v.mu.Unlock()

	h := v.loc.Locate()
	if h.Icons == 0 || v.ws.IsVisible(h.Icons) {
		return
	}
	v.ws.PostCommand(h.View, toggleIconsCommand)
	time.Sleep(restoreWait)
	v.ui.Sync(func() { v.enforce(true) })
	log.Print("[Desktop] desktop icons restored")
}

func (v *IconVisibility) enforce(show bool) {
	h := v.loc.Locate()
	if h.Icons == 0 {
		return
	}
	if v.ws.IsVisible(h.Icons) != show {
		log.Debugf("[Desktop] shell ignored icon toggle, forcing visible=%v", show)
		v.ws.Show(h.Icons, show)
	}
}
