package chart

import (
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/geometry"
)

// Bar renders s as one rectangle per point rising from the zero baseline.
// An empty series yields the placeholder scene.
func Bar(s Series, cfg Config) Scene {
	cfg.normalize()
	if len(s) == 0 {
		return emptyScene(KindBar, cfg)
	}
	s = s.sanitized()

	m := geometry.NewMapper(s.Values(), cfg.Width, cfg.Height, cfg.Padding)
	scene := Scene{
		Kind:   KindBar,
		Width:  cfg.Width,
		Height: cfg.Height,
		Bars:   bars(s, m, cfg),
	}
	if cfg.ShowGrid {
		scene.Grid = horizontalGrid(cfg)
	}
	scene.Labels = valueAxisLabels(m, cfg)
	if len(s) <= maxBarCategoryLabels {
		for i, p := range s {
			scene.Labels = append(scene.Labels, categoryLabel(m.SlotCenter(i), p.Label, cfg))
		}
	}
	return scene
}
