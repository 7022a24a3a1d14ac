package gesture

import (
	"sync"
	"sync/atomic"

	"github.com/dixieflatline76/Fences/pkg/desktop"
	"github.com/dixieflatline76/Fences/pkg/dispatch"
	"github.com/dixieflatline76/Fences/util"
	"github.com/dixieflatline76/Fences/util/log"
)

// State is the phase of a right-button drag.
type State int

// Drag phases.
const (
	// Idle waits for a right-button press on empty desktop.
	Idle State = iota
	// DragArmed has seen the press but the pointer has not travelled far enough yet.
	DragArmed
	// Dragging shows the overlay and follows the pointer.
	Dragging
	// WaitingConfirm has released with a usable rectangle and shows the confirmation menu.
	WaitingConfirm
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case DragArmed:
		return "DragArmed"
	case Dragging:
		return "Dragging"
	case WaitingConfirm:
		return "WaitingConfirm"
	}
	return "Unknown"
}

// Drag tuning.
const (
	// DefaultDragThreshold is the travel in physical pixels, on either axis, that turns a press into a drag.
	DefaultDragThreshold int32 = 16
	// DefaultMinSize is the smallest width and height, in logical units, offered as a fence.
	DefaultMinSize = 16.0
)

// DragSelector is the right-drag state machine. Handle runs on the hook thread and is the only
// code touching the drag state; overlay and menu work is posted to the UI thread.
type DragSelector struct {
	ws        desktop.WindowSystem
	ui        dispatch.Dispatcher
	overlay   Overlay
	menu      Menu
	onConfirm func(desktop.LogicalRect)
	enabled   *util.SafeFlag

	threshold int32
	minSize   float64

	state  State
	origin desktop.Point
	last   desktop.Point
	scaler desktop.Scaler
	screen desktop.Rect

	pending selectionMailbox

	// presses is counted on the hook thread. target holds presses<<2 | the icon check result for
	// that press, written by the UI thread.
	presses uint64
	target  atomic.Uint64
}

// Results of the icon check for the press that armed the drag.
const (
	targetPending uint64 = iota
	targetClear
	targetOnIcon
	targetMask uint64 = 3
)

// NewDragSelector returns an enabled selector. onConfirm runs on the UI thread with the chosen rectangle.
func NewDragSelector(ws desktop.WindowSystem, ui dispatch.Dispatcher, overlay Overlay, menu Menu, onConfirm func(desktop.LogicalRect)) *DragSelector {
	return &DragSelector{
		ws:        ws,
		ui:        ui,
		overlay:   overlay,
		menu:      menu,
		onConfirm: onConfirm,
		enabled:   util.NewSafeBoolWithValue(true),
		threshold: DefaultDragThreshold,
		minSize:   DefaultMinSize,
	}
}

// SetEnabled turns the gesture on or off. It is safe to call from any goroutine.
func (s *DragSelector) SetEnabled(enabled bool) {
	s.enabled.Set(enabled)
}

// State returns the current phase. Only meaningful on the hook thread or while the hook is stopped.
func (s *DragSelector) State() State {
	return s.state
}

// Handle advances the state machine and reports whether the native handling of ev must be suppressed.
func (s *DragSelector) Handle(ev Event) bool {
	switch ev.Kind {
	case RightDown:
		s.abandon()
		s.press(ev)
	case LeftDown:
		s.abandon()
	case Move:
		s.move(ev)
	case RightUp:
		return s.release(ev)
	}
	return false
}

// abandon drops whatever drag is in progress. A press while the menu is up means it was dismissed.
func (s *DragSelector) abandon() {
	if s.state == Dragging {
		s.ui.Post(s.overlay.Close)
	}
	s.state = Idle
}

func (s *DragSelector) press(ev Event) {
	if !s.enabled.Value() {
		return
	}
	surface := desktop.ClassifyPoint(s.ws, ev.Pt)
	if surface == desktop.NotDesktop {
		return
	}
	s.presses++
	id := s.presses
	if surface == desktop.BareDesktop {
		s.target.Store(id<<2 | targetClear)
	} else {
		s.target.Store(id<<2 | targetPending)
		at := ev.Pt
		s.ui.Post(func() {
			result := targetClear
			if s.ws.ItemAt(at) {
				result = targetOnIcon
			}
			s.target.CompareAndSwap(id<<2|targetPending, id<<2|result)
		})
	}

	m := s.ws.Metrics()
	s.state = DragArmed
	s.origin, s.last = ev.Pt, ev.Pt
	s.scaler = m.ScalerAt(ev.Pt)
	s.screen = m.VirtualScreen
}

func (s *DragSelector) move(ev Event) {
	switch s.state {
	case DragArmed:
		dx, dy := abs32(ev.Pt.X-s.origin.X), abs32(ev.Pt.Y-s.origin.Y)
		if dx < s.threshold && dy < s.threshold {
			return
		}
		switch s.target.Load() & targetMask {
		case targetPending:
			// Decided on a later move once the icon check is back.
			return
		case targetOnIcon:
			s.state = Idle
			return
		}
		s.state = Dragging
		s.last = ev.Pt
		screen, scaler := s.screen, s.scaler
		s.ui.Post(func() { s.overlay.Show(screen, scaler) })
		s.publish()
	case Dragging:
		s.last = ev.Pt
		s.publish()
	}
}

func (s *DragSelector) release(ev Event) bool {
	switch s.state {
	case DragArmed:
		s.state = Idle
		return false
	case Dragging:
	default:
		return false
	}

	s.last = ev.Pt
	sel := s.selection()
	if sel.Width < s.minSize || sel.Height < s.minSize {
		log.Debugf("[Gesture] selection %.0fx%.0f too small, passing right-click through", sel.Width, sel.Height)
		s.state = Idle
		s.ui.Post(s.overlay.Close)
		return false
	}

	s.state = WaitingConfirm
	at := ev.Pt
	// One closure keeps the order: the overlay is gone before the menu can take the next click.
	s.ui.Post(func() {
		s.overlay.Close()
		if s.menu.Confirm(at, sel) && s.onConfirm != nil {
			s.onConfirm(sel)
		}
	})
	return true
}

func (s *DragSelector) selection() desktop.LogicalRect {
	return s.scaler.ToLogical(desktop.RectFromPoints(s.origin, s.last))
}

// publish hands the current selection to the overlay, posting at most one repaint at a time.
func (s *DragSelector) publish() {
	if s.pending.put(s.selection()) {
		s.ui.Post(func() { s.overlay.Update(s.pending.take()) })
	}
}

// reset returns to Idle. Only called once the hook can no longer deliver events.
func (s *DragSelector) reset() {
	s.state = Idle
	s.pending.take()
}

// selectionMailbox coalesces overlay repaints: the hook overwrites the latest rectangle and only
// posts when no repaint is outstanding, the UI thread always paints the newest value.
type selectionMailbox struct {
	mu     sync.Mutex
	latest desktop.LogicalRect
	posted bool
}

func (m *selectionMailbox) put(r desktop.LogicalRect) (needsPost bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest = r
	if m.posted {
		return false
	}
	m.posted = true
	return true
}

func (m *selectionMailbox) take() desktop.LogicalRect {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posted = false
	return m.latest
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
