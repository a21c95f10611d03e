package chart

// Scene is the drawable output of a renderer, sized exactly Width x Height.
//
// An empty-state scene has a non-nil Placeholder and no other elements.
// Elements are drawn in field order: grid, shapes, labels, legend.
type Scene struct {
	Kind   Kind
	Width  float64
	Height float64

	Grid    []Segment
	Line    *Polyline
	Markers []Marker
	Bars    []Rect
	Sectors []Sector
	Labels  []Text
	Legend  []LegendEntry

	Placeholder *Placeholder
}

// Empty reports whether the scene is the empty-state placeholder.
func (s Scene) Empty() bool { return s.Placeholder != nil }

// Segment is a straight reference line (grid).
type Segment struct {
	X1, Y1, X2, Y2 float64
}

// Polyline is the connected path of a line chart.
type Polyline struct {
	Path   Path
	Color  string
	Points []MappedPoint
}

// MappedPoint is a series point transformed into pixel space.
type MappedPoint struct {
	X, Y  float64
	Label string
	Value float64
}

// Marker is the dot drawn on each line-chart point.
type Marker struct {
	X, Y, R float64
	Color   string
	Tooltip string // "{category}: {value}"
}

// Rect is one rectangle of a bar chart.
type Rect struct {
	X, Y, Width, Height float64
	Color               string
	Tooltip             string
}

// Sector is one annular slice of a donut chart.
// Angles are in radians, 0 at twelve o'clock, growing clockwise.
type Sector struct {
	StartAngle  float64
	EndAngle    float64
	InnerRadius float64
	OuterRadius float64
	Color       string
	Label       string
	Value       float64
	Percentage  float64 // value/total*100
	LargeArc    int     // SVG large-arc flag: 1 when the span exceeds pi
	Path        Path
}

// Span returns the angular extent of the sector.
func (s Sector) Span() float64 { return s.EndAngle - s.StartAngle }

// Anchor is the horizontal alignment of a text label.
type Anchor string

// Text anchors, matching SVG text-anchor values.
const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Text is a positioned label.
type Text struct {
	X, Y   float64
	Value  string
	Anchor Anchor
	Title  string // full label when Value was truncated
}

// LegendEntry is one donut legend row: "label: 25.0%".
type LegendEntry struct {
	X, Y       float64
	Color      string
	Label      string
	Percentage float64
	Text       string
}

// Placeholder is the empty-state drawing.
type Placeholder struct {
	Width, Height float64
	Message       string
}

// emptyScene returns the placeholder scene for the given viewport.
func emptyScene(kind Kind, cfg Config) Scene {
	return Scene{
		Kind:   kind,
		Width:  cfg.Width,
		Height: cfg.Height,
		Placeholder: &Placeholder{
			Width:   cfg.Width,
			Height:  cfg.Height,
			Message: EmptyMessage,
		},
	}
}
