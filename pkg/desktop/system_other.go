//go:build !windows

package desktop

import (
	"os"
	"time"
)

// inertSystem finds no desktop chain. Every operation degrades to a no-op.
type inertSystem struct{}

// NewWindowSystem returns a WindowSystem with no shell behind it.
func NewWindowSystem() WindowSystem {
	return inertSystem{}
}

func (inertSystem) FindWindow(string, string) HWND   { return 0 }
func (inertSystem) TopLevelWindows() []HWND          { return nil }
func (inertSystem) FindDescendant(HWND, string) HWND { return 0 }
func (inertSystem) ClassName(HWND) string            { return "" }
func (inertSystem) Parent(HWND) HWND                 { return 0 }
func (inertSystem) IsWindow(HWND) bool               { return false }
func (inertSystem) IsVisible(HWND) bool              { return false }
func (inertSystem) Show(HWND, bool)                  {}
func (inertSystem) PostCommand(HWND, uintptr) bool   { return false }
func (inertSystem) SpawnWorkers(HWND) bool           { return false }
func (inertSystem) PrevWindow(HWND) HWND             { return 0 }
func (inertSystem) PlaceAfter(HWND, HWND) bool       { return false }
func (inertSystem) WindowAt(Point) HWND              { return 0 }
func (inertSystem) ItemAt(Point) bool                { return false }
func (inertSystem) ProcessID(HWND) uint32            { return 0 }
func (inertSystem) CurrentProcessID() uint32         { return uint32(os.Getpid()) }

func (inertSystem) Metrics() Metrics {
	return Metrics{Scale: 1, DoubleClickTime: 500 * time.Millisecond, DoubleClickWidth: 4, DoubleClickHeight: 4}
}

// MoveWindow is unsupported outside Windows.
func MoveWindow(HWND, Rect) bool { return false }

// WindowBounds is unsupported outside Windows.
func WindowBounds(HWND) (Rect, bool) { return Rect{}, false }

// EnableDPIAwareness is a no-op outside Windows.
func EnableDPIAwareness() bool { return false }

// StyleAsFence is unsupported outside Windows.
func StyleAsFence(HWND, float64) bool { return false }
