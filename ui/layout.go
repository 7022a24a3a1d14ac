package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// Share of a split row's width given to its first widget.
const (
	OneThird  float32 = 1.0 / 3
	TwoThirds float32 = 2.0 / 3
)

// splitLayout puts two widgets side by side, the first taking ratio of the width. When opposed,
// the second widget is pushed against the right edge at its minimum width.
type splitLayout struct {
	ratio   float32
	opposed bool
}

func (s *splitLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var size fyne.Size
	for _, o := range objects {
		m := o.MinSize()
		size.Width += m.Width
		size.Height = fyne.Max(size.Height, m.Height)
	}
	return size
}

func (s *splitLayout) Layout(objects []fyne.CanvasObject, containerSize fyne.Size) {
	if len(objects) != 2 {
		return
	}
	first, second := objects[0], objects[1]

	firstWidth := containerSize.Width * s.ratio
	secondWidth := containerSize.Width - firstWidth
	secondX := firstWidth
	if s.opposed {
		secondWidth = fyne.Min(secondWidth, second.MinSize().Width)
		secondX = containerSize.Width - secondWidth
	}

	first.Resize(fyne.NewSize(firstWidth, first.MinSize().Height))
	first.Move(fyne.NewPos(0, 0))
	second.Resize(fyne.NewSize(secondWidth, second.MinSize().Height))
	second.Move(fyne.NewPos(secondX, 0))
}

// NewSplitRow lays out first and second left to right, first taking ratio of the width.
func NewSplitRow(first, second fyne.CanvasObject, ratio float32) *fyne.Container {
	return container.New(&splitLayout{ratio: ratio}, first, second)
}

// NewOpposedSplitRow is NewSplitRow with second aligned to the right edge.
func NewOpposedSplitRow(first, second fyne.CanvasObject, ratio float32) *fyne.Container {
	return container.New(&splitLayout{ratio: ratio, opposed: true}, first, second)
}
