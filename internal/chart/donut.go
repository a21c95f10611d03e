package chart

import (
	"math"

	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/format"
)

// Donut renders s as annular sectors proportional to each value's share of
// the total, with an optional legend. An empty or zero-total series yields
// the placeholder scene.
func Donut(s Series, cfg Config) Scene {
	cfg.normalize()
	s = s.sanitized()

	g := donutRing(cfg, len(s))
	secs := sectors(s, g, cfg)
	if secs == nil {
		return emptyScene(KindDonut, cfg)
	}

	scene := Scene{
		Kind:    KindDonut,
		Width:   cfg.Width,
		Height:  cfg.Height,
		Sectors: secs,
		Labels: []Text{
			{X: g.cx, Y: g.cy, Value: format.Value(math.Min(s.Total(), math.MaxFloat64)), Anchor: AnchorMiddle},
		},
	}
	if cfg.ShowLegend {
		scene.Legend = legend(secs, g, cfg)
	}
	return scene
}

// donutRing centers the ring in the viewport. With a legend, the ring is
// left-aligned when the viewport is wider than tall; otherwise it shrinks
// and moves up to leave rows legend rows below it.
func donutRing(cfg Config, rows int) ring {
	outer := min(cfg.Width, cfg.Height)/2 - cfg.Padding
	g := ring{cx: cfg.Width / 2, cy: cfg.Height / 2, outer: outer}
	switch {
	case !cfg.ShowLegend:
	case cfg.Width > cfg.Height:
		g.cx = cfg.Padding + outer
	default:
		free := cfg.Height - 2*cfg.Padding - cfg.Padding/2 - float64(rows)*legendRowHeight
		g.outer = math.Max(min(cfg.Width-2*cfg.Padding, free)/2, 0)
		g.cy = cfg.Padding + g.outer
		g.legendBelow = true
	}
	g.inner = math.Max(g.outer-cfg.Thickness, 0)
	return g
}
