package chart

import (
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/metrics"
)

// Render dispatches to the renderer for kind and records the render in
// metrics. An unknown kind renders as a line chart; validate user input
// with ParseKind first.
func Render(kind Kind, s Series, cfg Config) Scene {
	var scene Scene
	switch kind {
	case KindBar:
		scene = Bar(s, cfg)
	case KindDonut:
		scene = Donut(s, cfg)
	default:
		scene = Line(s, cfg)
	}

	state := "drawn"
	if scene.Empty() {
		state = "empty"
	}
	metrics.ChartRenders.WithLabelValues(string(scene.Kind), state).Inc()
	return scene
}
