// Package geometry maps a numeric series onto a padded pixel viewport for
// Cartesian charts.
//
// A Mapper is an immutable value: all methods are pure, so one Mapper may be
// shared by concurrent render passes.
package geometry

import "math"

// barFill is the share of a category slot occupied by a bar.
// The remaining 0.2 is split evenly on both sides as spacing.
const barFill = 0.8

// Mapper converts category indexes and values into pixel coordinates.
//
// The value axis spans [min(0, minOfSeries), maxOfSeries]. A zero-width range
// (all-equal values, single point) is widened to 1 so Y never divides by zero.
// The y coordinate grows downwards, so the maximum value maps to the top
// padding boundary.
type Mapper struct {
	n       int
	width   float64
	height  float64
	padding float64
	min     float64
	max     float64
	scale   float64
}

// NewMapper builds a Mapper for values drawn into a width x height viewport
// with padding on every side.
//
// An empty values slice yields a degenerate Mapper whose methods return
// in-bounds constants; deciding what to draw is left to the caller.
// values must be finite.
func NewMapper(values []float64, width, height, padding float64) Mapper {
	m := Mapper{
		n:       len(values),
		width:   width,
		height:  height,
		padding: padding,
	}
	if m.n == 0 {
		return m
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	m.min = math.Min(0, lo)
	m.max = hi

	// Values near the float64 limits overflow max-min; Y then works on
	// values divided by the largest magnitude.
	m.scale = 1
	if math.IsInf(m.max-m.min, 0) {
		m.scale = math.Max(math.Abs(m.min), math.Abs(m.max))
	}
	return m
}

// Len returns the number of category positions.
func (m Mapper) Len() int { return m.n }

// Empty reports whether the Mapper was built from an empty series.
func (m Mapper) Empty() bool { return m.n == 0 }

// Domain returns the value-axis range before the zero-width substitution.
func (m Mapper) Domain() (lo, hi float64) { return m.min, m.max }

// InnerWidth returns the horizontal extent between the paddings.
func (m Mapper) InnerWidth() float64 { return m.width - 2*m.padding }

// InnerHeight returns the vertical extent between the paddings.
func (m Mapper) InnerHeight() float64 { return m.height - 2*m.padding }

// X returns the horizontal pixel position of category index i.
// Positions are evenly spaced from the left to the right padding boundary.
// A single-point series is centered.
func (m Mapper) X(i int) float64 {
	switch m.n {
	case 0:
		return m.padding
	case 1:
		return m.width / 2
	}
	step := m.InnerWidth() / float64(m.n-1)
	return m.padding + float64(i)*step
}

// Y returns the vertical pixel position of value v, clamped to the padded
// interior.
func (m Mapper) Y(v float64) float64 {
	if m.n == 0 {
		return m.height - m.padding
	}
	if math.IsNaN(v) {
		v = 0
	}
	lo, hi := m.min/m.scale, m.max/m.scale
	span := hi - lo
	if span == 0 {
		span = 1
	}
	y := m.height - m.padding - (v/m.scale-lo)/span*m.InnerHeight()
	return clamp(y, m.padding, m.height-m.padding)
}

// Baseline returns the pixel position of the zero value.
// It is where bars start; for an all-negative series it clamps to the top.
func (m Mapper) Baseline() float64 {
	return m.Y(0)
}

// Band returns the left edge and width of the bar drawn in slot i.
// The inner width is divided into Len equal slots and the bar takes the
// centered 80% of its slot.
func (m Mapper) Band(i int) (x, width float64) {
	if m.n == 0 {
		return m.padding, 0
	}
	slot := m.InnerWidth() / float64(m.n)
	width = slot * barFill
	x = m.padding + float64(i)*slot + (slot-width)/2
	return x, width
}

// SlotCenter returns the horizontal center of slot i, used for bar labels.
func (m Mapper) SlotCenter(i int) float64 {
	x, w := m.Band(i)
	return x + w/2
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
