package gesture

import (
	"time"

	"github.com/dixieflatline76/Fences/pkg/desktop"
	"github.com/dixieflatline76/Fences/pkg/dispatch"
	"github.com/dixieflatline76/Fences/util"
	"github.com/dixieflatline76/Fences/util/log"
)

// Double-click timing.
const (
	// DefaultToggleDelay lets the shell finish processing the click before the icons change.
	DefaultToggleDelay = 200 * time.Millisecond
	// DefaultToggleCooldown keeps a burst of clicks from toggling more than once.
	DefaultToggleCooldown = 900 * time.Millisecond
)

// DoubleClickMonitor detects left double-clicks on empty desktop and runs the toggle on the UI thread.
type DoubleClickMonitor struct {
	ws      desktop.WindowSystem
	ui      dispatch.Dispatcher
	toggle  func()
	enabled *util.SafeFlag

	delay    time.Duration
	cooldown time.Duration

	// hook thread
	last     desktop.Point
	lastTime uint32
	armed    bool

	// UI thread
	busy   bool
	timers []dispatch.Timer
}

// NewDoubleClickMonitor returns an enabled monitor that calls toggle for each accepted double-click.
func NewDoubleClickMonitor(ws desktop.WindowSystem, ui dispatch.Dispatcher, toggle func()) *DoubleClickMonitor {
	return &DoubleClickMonitor{
		ws:       ws,
		ui:       ui,
		toggle:   toggle,
		enabled:  util.NewSafeBoolWithValue(true),
		delay:    DefaultToggleDelay,
		cooldown: DefaultToggleCooldown,
	}
}

// SetEnabled turns the gesture on or off. It is safe to call from any goroutine.
func (d *DoubleClickMonitor) SetEnabled(enabled bool) {
	d.enabled.Set(enabled)
}

// LeftDown feeds one left-button press. It runs on the hook thread and never blocks.
func (d *DoubleClickMonitor) LeftDown(ev Event) {
	m := d.ws.Metrics()
	double := d.armed &&
		time.Duration(ev.Time-d.lastTime)*time.Millisecond <= m.DoubleClickTime &&
		abs32(ev.Pt.X-d.last.X) <= m.DoubleClickWidth/2 &&
		abs32(ev.Pt.Y-d.last.Y) <= m.DoubleClickHeight/2

	d.last, d.lastTime, d.armed = ev.Pt, ev.Time, true
	if !double || !d.enabled.Value() {
		return
	}
	surface := desktop.ClassifyPoint(d.ws, ev.Pt)
	if surface == desktop.NotDesktop {
		return
	}
	// The icon lookup asks the shell process, so it waits for the UI thread.
	at := ev.Pt
	d.ui.Post(func() {
		if surface == desktop.IconArea && d.ws.ItemAt(at) {
			log.Debug("[Gesture] double-click on a desktop icon")
			return
		}
		d.accept()
	})
}

// accept schedules the toggle unless one is already pending or cooling down.
func (d *DoubleClickMonitor) accept() {
	if d.busy {
		log.Debug("[Gesture] double-click ignored, toggle already in progress")
		return
	}
	d.busy = true
	d.timers = append(d.timers[:0], d.ui.AfterFunc(d.delay, func() {
		d.toggle()
		d.timers = append(d.timers[:0], d.ui.AfterFunc(d.cooldown, func() {
			d.busy = false
			d.timers = d.timers[:0]
		}))
	}))
}

// resetHook forgets the previous click. Only called once the hook can no longer deliver events.
func (d *DoubleClickMonitor) resetHook() {
	d.armed = false
}

// resetUI cancels a pending toggle and releases the guard. Runs on the UI thread.
func (d *DoubleClickMonitor) resetUI() {
	for _, t := range d.timers {
		t.Stop()
	}
	d.timers = d.timers[:0]
	d.busy = false
}
