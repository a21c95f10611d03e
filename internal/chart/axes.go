package chart

import (
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/format"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/geometry"
)

// Label offsets from the plot area, in pixels.
const (
	valueLabelGap    = 8
	categoryLabelGap = 16
)

// horizontalGrid returns evenly spaced lines from the top to the bottom
// padding boundary.
func horizontalGrid(cfg Config) []Segment {
	inner := cfg.Height - 2*cfg.Padding
	out := make([]Segment, gridLines)
	for k := range gridLines {
		y := cfg.Padding + float64(k)*inner/(gridLines-1)
		out[k] = Segment{X1: cfg.Padding, Y1: y, X2: cfg.Width - cfg.Padding, Y2: y}
	}
	return out
}

// verticalGrid returns evenly spaced lines from the left to the right
// padding boundary.
func verticalGrid(cfg Config) []Segment {
	inner := cfg.Width - 2*cfg.Padding
	out := make([]Segment, gridLines)
	for k := range gridLines {
		x := cfg.Padding + float64(k)*inner/(gridLines-1)
		out[k] = Segment{X1: x, Y1: cfg.Padding, X2: x, Y2: cfg.Height - cfg.Padding}
	}
	return out
}

// valueAxisLabels shows the domain max at the top and min at the bottom.
func valueAxisLabels(m geometry.Mapper, cfg Config) []Text {
	lo, hi := m.Domain()
	x := cfg.Padding - valueLabelGap
	return []Text{
		{X: x, Y: cfg.Padding, Value: format.Value(hi), Anchor: AnchorEnd},
		{X: x, Y: cfg.Height - cfg.Padding, Value: format.Value(lo), Anchor: AnchorEnd},
	}
}

// categoryLabel places a truncated label under the plot area at x.
func categoryLabel(x float64, label string, cfg Config) Text {
	t := Text{
		X:      x,
		Y:      cfg.Height - cfg.Padding + categoryLabelGap,
		Value:  format.Truncate(label, labelRuneBudget),
		Anchor: AnchorMiddle,
	}
	if t.Value != label {
		t.Title = label
	}
	return t
}
