package desktop

import "math"

// Point is a screen position in physical pixels.
type Point struct {
	X, Y int32
}

// Rect is a screen rectangle in physical pixels. Right and Bottom are exclusive.
type Rect struct {
	Left, Top, Right, Bottom int32
}

// RectFromPoints returns the normalized rectangle spanning a and b.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		Left:   min(a.X, b.X),
		Top:    min(a.Y, b.Y),
		Right:  max(a.X, b.X),
		Bottom: max(a.Y, b.Y),
	}
}

// Width returns the horizontal extent of r.
func (r Rect) Width() int32 { return r.Right - r.Left }

// Height returns the vertical extent of r.
func (r Rect) Height() int32 { return r.Bottom - r.Top }

// Contains reports whether pt lies inside r.
func (r Rect) Contains(pt Point) bool {
	return pt.X >= r.Left && pt.X < r.Right && pt.Y >= r.Top && pt.Y < r.Bottom
}

// LogicalRect is a rectangle in DPI independent units, as stored in the fence layout.
type LogicalRect struct {
	X, Y, Width, Height float64
}

// Scaler converts between physical pixels and logical units for one display configuration.
type Scaler struct {
	// Scale is the display scale factor, 1.0 at 96 DPI.
	Scale float64
	// Origin is the physical point that maps to the logical anchor. For the system converter it
	// is the top-left corner of the virtual screen and the anchor is zero.
	Origin Point
	// AnchorX and AnchorY are the logical position of Origin.
	AnchorX, AnchorY float64
}

func (s Scaler) factor() float64 {
	if s.Scale <= 0 || math.IsNaN(s.Scale) {
		return 1
	}
	return s.Scale
}

// ToLogical converts r to logical units relative to the virtual screen origin.
func (s Scaler) ToLogical(r Rect) LogicalRect {
	f := s.factor()
	return LogicalRect{
		X:      s.AnchorX + float64(r.Left)/f - float64(s.Origin.X)/f,
		Y:      s.AnchorY + float64(r.Top)/f - float64(s.Origin.Y)/f,
		Width:  float64(r.Width()) / f,
		Height: float64(r.Height()) / f,
	}
}

// ToPhysical is the inverse of ToLogical, rounded to whole pixels.
func (s Scaler) ToPhysical(l LogicalRect) Rect {
	f := s.factor()
	left := int32(math.Round((l.X-s.AnchorX)*f)) + s.Origin.X
	top := int32(math.Round((l.Y-s.AnchorY)*f)) + s.Origin.Y
	return Rect{
		Left:   left,
		Top:    top,
		Right:  left + int32(math.Round(l.Width*f)),
		Bottom: top + int32(math.Round(l.Height*f)),
	}
}
