package ui

import (
	"math"

	"fyne.io/fyne/v2"

	"github.com/dixieflatline76/Fences/config"
	"github.com/dixieflatline76/Fences/pkg/desktop"
	"github.com/dixieflatline76/Fences/pkg/fence"
)

// placement is where a fence window belongs, in logical units. A collapsed fence keeps only its
// title bar.
func placement(f config.FenceConfig) desktop.LogicalRect {
	r := desktop.LogicalRect{
		X:      f.Left,
		Y:      f.Top,
		Width:  math.Max(fence.MinWidth, f.Width),
		Height: math.Max(fence.MinHeight, f.Height),
	}
	if f.Collapsed {
		r.Height = titleBarHeight
	}
	return r
}

// offsetRect moves r by d canvas units, converted to pixels with the canvas scale.
func offsetRect(r desktop.Rect, d fyne.Delta, scale float32) desktop.Rect {
	dx, dy := toPixels(d.DX, scale), toPixels(d.DY, scale)
	return desktop.Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// growRect moves the bottom-right corner of r by d canvas units, never smaller than least pixels.
func growRect(r desktop.Rect, d fyne.Delta, scale float32, least desktop.Point) desktop.Rect {
	r.Right += toPixels(d.DX, scale)
	r.Bottom += toPixels(d.DY, scale)
	if r.Width() < least.X {
		r.Right = r.Left + least.X
	}
	if r.Height() < least.Y {
		r.Bottom = r.Top + least.Y
	}
	return r
}

// minPixels is the smallest fence in pixels at the given scale.
func minPixels(scale float64) desktop.Point {
	if scale <= 0 {
		scale = 1
	}
	return desktop.Point{
		X: int32(math.Ceil(fence.MinWidth * scale)),
		Y: int32(math.Ceil(fence.MinHeight * scale)),
	}
}

// storedGeometry converts the window bounds back to the persisted rectangle. The stored height of a
// collapsed fence is kept so expanding restores it.
func storedGeometry(bounds desktop.Rect, sc desktop.Scaler, f config.FenceConfig) desktop.LogicalRect {
	r := sc.ToLogical(bounds)
	if f.Collapsed {
		r.Height = f.Height
	}
	return r
}

func topLeft(r desktop.Rect) desktop.Point {
	return desktop.Point{X: r.Left, Y: r.Top}
}

func toPixels(v, scale float32) int32 {
	if scale <= 0 {
		scale = 1
	}
	return int32(math.Round(float64(v * scale)))
}
