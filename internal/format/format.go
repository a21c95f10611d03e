package format

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// Ellipsis marks a truncated label.
const Ellipsis = "…"

// maxRounded bounds the values Value rounds to cents; past it v*100 can
// overflow and float64 keeps no fractional digits anyway.
const maxRounded = 1e15

// Value formats a chart value for axis labels and summaries.
// Thousands are comma separated and at most two decimals are kept.
// Examples: "1,500", "0.25", "-3,200.5"
func Value(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	if math.Abs(v) < maxRounded {
		v = math.Round(v*100) / 100
	}
	return humanize.CommafWithDigits(v, 2)
}

// Percent formats a percentage (0-100) with one decimal place.
// Examples: "25.0%", "100.0%"
func Percent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		p = 0
	}
	return fmt.Sprintf("%.1f%%", p)
}

// Truncate shortens s to at most limit runes, appending Ellipsis when
// anything was cut. A non-positive limit returns s unchanged.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + Ellipsis
}

// DurationHuman formats a duration for human display.
// Examples: "2h", "30m", "1h30m", "45s", "250ms"
func DurationHuman(d time.Duration) string {
	if d >= time.Hour {
		hours := d / time.Hour
		minutes := (d % time.Hour) / time.Minute
		if minutes > 0 {
			return fmt.Sprintf("%dh%dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	}
	if d >= time.Minute {
		return fmt.Sprintf("%dm", d/time.Minute)
	}
	if d >= time.Second {
		return fmt.Sprintf("%ds", d/time.Second)
	}
	return fmt.Sprintf("%dms", d/time.Millisecond)
}
