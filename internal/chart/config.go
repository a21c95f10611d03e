package chart

import (
	"fmt"
	"strings"
)

// Default chart dimensions in pixels.
const (
	DefaultWidth     = 400
	DefaultHeight    = 200
	DefaultPadding   = 40
	DefaultThickness = 40
)

// Legibility thresholds for category-axis labels and their rune budget.
const (
	maxLineCategoryLabels = 6
	maxBarCategoryLabels  = 8
	labelRuneBudget       = 10
	gridLines             = 5
	markerRadius          = 4
)

// EmptyMessage is the text of the empty-state placeholder.
const EmptyMessage = "No data available"

// DefaultPalette is used when Config.Palette is empty.
var DefaultPalette = []string{
	"#3b82f6", // blue
	"#10b981", // emerald
	"#f59e0b", // amber
	"#ef4444", // red
	"#8b5cf6", // violet
	"#06b6d4", // cyan
	"#ec4899", // pink
	"#84cc16", // lime
}

// Config holds display options for every chart kind.
//
// Zero or negative numeric fields and an empty Palette are replaced by the
// defaults at render time. When 2*Padding does not fit inside the smaller
// dimension, Padding is reduced to a quarter of it. ShowGrid and ShowLegend
// are plain booleans: start from DefaultConfig to get them enabled.
type Config struct {
	Width     float64
	Height    float64
	Padding   float64
	Thickness float64 // donut ring thickness
	Palette   []string

	ShowGrid   bool
	ShowLegend bool // donut only
}

// DefaultConfig returns the documented defaults: 400x200, padding 40,
// thickness 40, DefaultPalette, grid and legend shown.
func DefaultConfig() Config {
	return Config{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Padding:    DefaultPadding,
		Thickness:  DefaultThickness,
		Palette:    DefaultPalette,
		ShowGrid:   true,
		ShowLegend: true,
	}
}

// normalize substitutes defaults for omitted or invalid fields.
func (c *Config) normalize() {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Padding <= 0 {
		c.Padding = DefaultPadding
	}
	if c.Thickness <= 0 {
		c.Thickness = DefaultThickness
	}
	if len(c.Palette) == 0 {
		c.Palette = DefaultPalette
	}
	if side := min(c.Width, c.Height); 2*c.Padding >= side {
		c.Padding = side / 4
	}
}

// color returns the palette entry for index i, cycling through the palette.
func (c Config) color(i int) string {
	return c.Palette[i%len(c.Palette)]
}

// Kind identifies a chart renderer.
type Kind string

// Supported chart kinds.
const (
	KindLine  Kind = "line"
	KindBar   Kind = "bar"
	KindDonut Kind = "donut"
)

// Kinds lists every supported chart kind.
var Kinds = []Kind{KindLine, KindBar, KindDonut}

// ParseKind validates a chart kind name (case-insensitive).
// Returns ErrUnknownKind if the name is not recognized.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindLine, KindBar, KindDonut:
		return k, nil
	}
	return "", fmt.Errorf("unknown chart kind %q (valid: line, bar, donut): %w", s, ErrUnknownKind)
}
