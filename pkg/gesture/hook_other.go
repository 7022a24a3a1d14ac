//go:build !windows

package gesture

import "github.com/dixieflatline76/Fences/pkg/desktop"

type unsupportedInstaller struct{}

// NewInstaller returns an installer that always fails with ErrUnsupported.
func NewInstaller() Installer { return unsupportedInstaller{} }

func (unsupportedInstaller) Install(func(Event) bool) error { return ErrUnsupported }
func (unsupportedInstaller) Uninstall()                     {}

type inertOverlay struct{}

// NewOverlay returns an overlay that draws nothing.
func NewOverlay() Overlay { return inertOverlay{} }

func (inertOverlay) Show(desktop.Rect, desktop.Scaler) {}
func (inertOverlay) Update(desktop.LogicalRect)        {}
func (inertOverlay) Close()                            {}

type inertMenu struct{}

// NewMenu returns a menu that always declines.
func NewMenu(any) Menu { return inertMenu{} }

func (inertMenu) Confirm(desktop.Point, desktop.LogicalRect) bool { return false }
func (inertMenu) Close()                                          {}
