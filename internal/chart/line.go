package chart

import (
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/geometry"
)

// Line renders s as a polyline with one marker per point.
// An empty series yields the placeholder scene.
func Line(s Series, cfg Config) Scene {
	cfg.normalize()
	if len(s) == 0 {
		return emptyScene(KindLine, cfg)
	}
	s = s.sanitized()

	m := geometry.NewMapper(s.Values(), cfg.Width, cfg.Height, cfg.Padding)
	pts := mapPoints(s, m)
	color := cfg.color(0)

	scene := Scene{
		Kind:    KindLine,
		Width:   cfg.Width,
		Height:  cfg.Height,
		Line:    &Polyline{Path: linePath(pts), Color: color, Points: pts},
		Markers: markers(pts, color),
	}
	if cfg.ShowGrid {
		scene.Grid = append(horizontalGrid(cfg), verticalGrid(cfg)...)
	}
	scene.Labels = valueAxisLabels(m, cfg)
	if len(s) <= maxLineCategoryLabels {
		for i, p := range s {
			scene.Labels = append(scene.Labels, categoryLabel(m.X(i), p.Label, cfg))
		}
	}
	return scene
}
