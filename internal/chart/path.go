package chart

import (
	"math"
	"strconv"
	"strings"

	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/format"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/geometry"
)

// fullCircleEpsilon is the tolerance under which a sector is treated as a whole ring.
const fullCircleEpsilon = 1e-9

// PathCommand is one SVG path instruction: M, L, A or Z.
type PathCommand struct {
	Op   byte
	Args []float64
}

// Path is an ordered list of drawing commands.
type Path []PathCommand

// D returns the SVG path data. Coordinates are rounded to two decimals so
// the output is stable across platforms.
func (p Path) D() string {
	var b strings.Builder
	for i, c := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(c.Op)
		for j, a := range c.Args {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(num(a))
		}
	}
	return b.String()
}

func (p *Path) moveTo(x, y float64) { *p = append(*p, PathCommand{Op: 'M', Args: []float64{x, y}}) }
func (p *Path) lineTo(x, y float64) { *p = append(*p, PathCommand{Op: 'L', Args: []float64{x, y}}) }
func (p *Path) close()              { *p = append(*p, PathCommand{Op: 'Z'}) }

// arcTo appends an elliptical arc with equal radii.
func (p *Path) arcTo(r float64, largeArc, sweep int, x, y float64) {
	*p = append(*p, PathCommand{Op: 'A', Args: []float64{r, r, 0, float64(largeArc), float64(sweep), x, y}})
}

// num formats a coordinate with at most two decimals and no negative zero.
func num(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// tooltip is the hover label of a point: "{category}: {value}".
func tooltip(label string, v float64) string {
	return label + ": " + strconv.FormatFloat(v, 'f', -1, 64)
}

// ---------------------------------------------------------------------------
// Line
// ---------------------------------------------------------------------------

// mapPoints projects the series through m.
func mapPoints(s Series, m geometry.Mapper) []MappedPoint {
	pts := make([]MappedPoint, len(s))
	for i, p := range s {
		pts[i] = MappedPoint{X: m.X(i), Y: m.Y(p.Value), Label: p.Label, Value: p.Value}
	}
	return pts
}

// linePath connects consecutive points.
func linePath(pts []MappedPoint) Path {
	var p Path
	for i, pt := range pts {
		if i == 0 {
			p.moveTo(pt.X, pt.Y)
			continue
		}
		p.lineTo(pt.X, pt.Y)
	}
	return p
}

// markers emits one dot per point carrying its tooltip.
func markers(pts []MappedPoint, color string) []Marker {
	out := make([]Marker, len(pts))
	for i, pt := range pts {
		out[i] = Marker{X: pt.X, Y: pt.Y, R: markerRadius, Color: color, Tooltip: tooltip(pt.Label, pt.Value)}
	}
	return out
}

// ---------------------------------------------------------------------------
// Bar
// ---------------------------------------------------------------------------

// bars builds one rectangle per point between the mapped value and the
// mapped zero baseline.
func bars(s Series, m geometry.Mapper, cfg Config) []Rect {
	base := m.Baseline()
	out := make([]Rect, len(s))
	for i, p := range s {
		x, w := m.Band(i)
		y := m.Y(p.Value)
		top, h := y, base-y
		if h < 0 {
			top, h = base, -h
		}
		out[i] = Rect{X: x, Y: top, Width: w, Height: h, Color: cfg.color(i), Tooltip: tooltip(p.Label, p.Value)}
	}
	return out
}

// ---------------------------------------------------------------------------
// Donut
// ---------------------------------------------------------------------------

// legendRowHeight is the vertical distance between donut legend rows.
const legendRowHeight = 18

// ring describes where a donut is drawn.
type ring struct {
	cx, cy       float64
	outer, inner float64
	legendBelow  bool
}

// polar returns the point at angle a on a circle of radius r.
func (g ring) polar(r, a float64) (x, y float64) {
	return g.cx + r*math.Sin(a), g.cy - r*math.Cos(a)
}

// sectors splits the ring proportionally to the series values.
// Negative values count as zero. It returns nil when the total is zero so
// the caller can emit the empty state.
func sectors(s Series, g ring, cfg Config) []Sector {
	var total, largest float64
	for _, p := range s {
		v := math.Max(p.Value, 0)
		total += v
		largest = math.Max(largest, v)
	}
	if len(s) == 0 || total <= 0 {
		return nil
	}

	// A total past the float64 limit is recomputed on scaled values so the
	// angles stay finite.
	scale := 1.0
	if math.IsInf(total, 0) {
		scale = largest
		total = 0
		for _, p := range s {
			total += math.Max(p.Value, 0) / scale
		}
	}

	out := make([]Sector, len(s))
	var cum float64
	for i, p := range s {
		v := math.Max(p.Value, 0) / scale
		start := 2 * math.Pi * cum / total
		cum += v
		end := 2 * math.Pi * cum / total

		sec := Sector{
			StartAngle:  start,
			EndAngle:    end,
			InnerRadius: g.inner,
			OuterRadius: g.outer,
			Color:       cfg.color(i),
			Label:       p.Label,
			Value:       p.Value,
			Percentage:  v / total * 100,
		}
		if end-start > math.Pi {
			sec.LargeArc = 1
		}
		if end > start {
			sec.Path = sectorPath(g, start, end, sec.LargeArc)
		}
		out[i] = sec
	}
	return out
}

// sectorPath draws outer arc, line to the inner radius, inner arc back, close.
// A full ring is drawn as two half arcs because an SVG arc whose end point
// equals its start point renders nothing.
func sectorPath(g ring, start, end float64, largeArc int) Path {
	var p Path
	if end-start >= 2*math.Pi-fullCircleEpsilon {
		mid := start + math.Pi
		p.moveTo(g.polar(g.outer, start))
		x, y := g.polar(g.outer, mid)
		p.arcTo(g.outer, 0, 1, x, y)
		x, y = g.polar(g.outer, start)
		p.arcTo(g.outer, 0, 1, x, y)
		if g.inner > 0 {
			x, y = g.polar(g.inner, start)
			p.moveTo(x, y)
			x, y = g.polar(g.inner, mid)
			p.arcTo(g.inner, 0, 0, x, y)
			x, y = g.polar(g.inner, start)
			p.arcTo(g.inner, 0, 0, x, y)
		}
		p.close()
		return p
	}

	p.moveTo(g.polar(g.outer, start))
	x, y := g.polar(g.outer, end)
	p.arcTo(g.outer, largeArc, 1, x, y)
	if g.inner > 0 {
		x, y = g.polar(g.inner, end)
		p.lineTo(x, y)
		x, y = g.polar(g.inner, start)
		p.arcTo(g.inner, largeArc, 0, x, y)
	} else {
		p.lineTo(g.cx, g.cy)
	}
	p.close()
	return p
}

// legend lays out one row per sector, to the right of the ring or, for
// viewports that are not wider than tall, below it.
func legend(secs []Sector, g ring, cfg Config) []LegendEntry {
	x := g.cx + g.outer + cfg.Padding/2
	y := g.cy - float64(len(secs)-1)*legendRowHeight/2
	if g.legendBelow {
		x = cfg.Padding
		y = g.cy + g.outer + cfg.Padding/2 + legendRowHeight/2
	}
	out := make([]LegendEntry, len(secs))
	for i, s := range secs {
		out[i] = LegendEntry{
			X:          x,
			Y:          y + float64(i)*legendRowHeight,
			Color:      s.Color,
			Label:      s.Label,
			Percentage: s.Percentage,
			Text:       s.Label + ": " + format.Percent(s.Percentage),
		}
	}
	return out
}
