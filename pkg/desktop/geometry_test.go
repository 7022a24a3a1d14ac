package desktop

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectFromPoints(t *testing.T) {
	want := Rect{Left: 10, Top: 20, Right: 110, Bottom: 220}
	assert.Equal(t, want, RectFromPoints(Point{10, 20}, Point{110, 220}))
	assert.Equal(t, want, RectFromPoints(Point{110, 220}, Point{10, 20}))
	assert.Equal(t, want, RectFromPoints(Point{10, 220}, Point{110, 20}))
	assert.Equal(t, int32(100), want.Width())
	assert.Equal(t, int32(200), want.Height())
}

func TestScalerToLogical(t *testing.T) {
	origin := Point{X: -1920, Y: -120}
	r := Rect{Left: -1000, Top: 37, Right: 513, Bottom: 911}

	for _, scale := range []float64{1.0, 1.25, 1.5, 2.0} {
		t.Run(fmt.Sprintf("Scale %.2f", scale), func(t *testing.T) {
			got := Scaler{Scale: scale, Origin: origin}.ToLogical(r)

			assert.Equal(t, float64(r.Left)/scale-float64(origin.X)/scale, got.X)
			assert.Equal(t, float64(r.Top)/scale-float64(origin.Y)/scale, got.Y)
			assert.Equal(t, float64(r.Width())/scale, got.Width)
			assert.Equal(t, float64(r.Height())/scale, got.Height)
		})
	}
}

func TestScalerRoundTrip(t *testing.T) {
	s := Scaler{Scale: 1.5, Origin: Point{X: -2560, Y: 0}}
	r := Rect{Left: -2000, Top: 300, Right: -1400, Bottom: 750}

	assert.Equal(t, r, s.ToPhysical(s.ToLogical(r)))
}

func TestScalerZeroScale(t *testing.T) {
	got := Scaler{}.ToLogical(Rect{Right: 10, Bottom: 20})
	assert.Equal(t, LogicalRect{Width: 10, Height: 20}, got)
}

func mixedDPIMetrics() Metrics {
	return Metrics{
		Scale:         1,
		VirtualScreen: Rect{Right: 4800, Bottom: 1620},
		Monitors: []Monitor{
			{Bounds: Rect{Right: 1920, Bottom: 1080}, Scale: 1},
			{Bounds: Rect{Left: 1920, Right: 4800, Bottom: 1620}, Scale: 1.5},
		},
	}
}

func TestMetricsScalerAt(t *testing.T) {
	m := mixedDPIMetrics()

	got := m.ScalerAt(Point{X: 2100, Y: 300}).ToLogical(Rect{Left: 2100, Top: 300, Right: 2400, Bottom: 600})
	assert.Equal(t, LogicalRect{X: 2040, Y: 200, Width: 200, Height: 200}, got,
		"the secondary monitor converts at 150% from its own corner")

	primary := m.ScalerAt(Point{X: 100, Y: 100})
	assert.Equal(t, 1.0, primary.Scale)
	assert.Equal(t, LogicalRect{X: 100, Y: 100, Width: 50, Height: 50},
		primary.ToLogical(Rect{Left: 100, Top: 100, Right: 150, Bottom: 150}))

	assert.Equal(t, m.Scaler(), m.ScalerAt(Point{X: -10, Y: -10}), "off every monitor the system scale applies")
}

func TestMetricsScalerForRoundTrip(t *testing.T) {
	m := mixedDPIMetrics()

	tests := []struct {
		name string
		r    Rect
	}{
		{"Primary", Rect{Left: 100, Top: 100, Right: 500, Bottom: 340}},
		{"Secondary", Rect{Left: 2100, Top: 300, Right: 2400, Bottom: 600}},
		{"Secondary Far Corner", Rect{Left: 4500, Top: 1300, Right: 4800, Bottom: 1620}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := m.ScalerAt(Point{X: tt.r.Left, Y: tt.r.Top}).ToLogical(tt.r)
			assert.Equal(t, tt.r, m.ScalerFor(l).ToPhysical(l))
		})
	}

	l := LogicalRect{X: 10, Y: 10, Width: 100, Height: 100}
	assert.Equal(t, Metrics{Scale: 2}.Scaler(), Metrics{Scale: 2}.ScalerFor(l), "no monitor data keeps the system scale")
}
