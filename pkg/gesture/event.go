// Package gesture turns raw global mouse input into desktop gestures: double-click on empty desktop
// to toggle the icons and right-button drag on empty desktop to draw a new fence.
package gesture

import (
	"errors"

	"github.com/dixieflatline76/Fences/pkg/desktop"
)

// ErrUnsupported is returned by Start on platforms without a global mouse hook.
var ErrUnsupported = errors.New("global mouse hook not supported on this platform")

// EventKind classifies a low-level mouse event.
type EventKind int

// Mouse events the gestures react to.
const (
	Move EventKind = iota
	LeftDown
	LeftUp
	RightDown
	RightUp
)

func (k EventKind) String() string {
	switch k {
	case Move:
		return "Move"
	case LeftDown:
		return "LeftDown"
	case LeftUp:
		return "LeftUp"
	case RightDown:
		return "RightDown"
	case RightUp:
		return "RightUp"
	}
	return "Unknown"
}

// Event is one low-level mouse event in physical screen coordinates.
type Event struct {
	Kind EventKind
	Pt   desktop.Point
	// Time is the system tick count of the event in milliseconds. It wraps around.
	Time uint32
}

// Installer registers the process-wide mouse hook. The handler runs on a thread owned by the
// installer and returns true to swallow the event.
type Installer interface {
	Install(handler func(Event) bool) error
	// Uninstall removes the hook and returns once no further handler call can happen.
	Uninstall()
}

// Overlay draws the rubber band rectangle while dragging. Its methods run on the UI thread.
type Overlay interface {
	// Show covers screen, the virtual desktop in physical pixels, and maps logical units with scaler.
	Show(screen desktop.Rect, scaler desktop.Scaler)
	Update(selection desktop.LogicalRect)
	// Close hides and destroys the overlay. It is a no-op when nothing is shown.
	Close()
}

// Menu asks the user what to do with a finished selection. Its methods run on the UI thread.
type Menu interface {
	// Confirm shows "Create fence here" and "Cancel" at pt and reports whether create was chosen.
	Confirm(pt desktop.Point, selection desktop.LogicalRect) bool
	// Close dismisses a menu that is currently shown.
	Close()
}
