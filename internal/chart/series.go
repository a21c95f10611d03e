package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Point is one labeled value of a Series.
type Point struct {
	Label string
	Value float64
}

// Series is an ordered list of points. Order is the x-axis order for line
// and bar charts and the legend order for donut charts.
type Series []Point

// Values returns the point values in series order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Total returns the sum of all values.
func (s Series) Total() float64 {
	var t float64
	for _, p := range s {
		t += p.Value
	}
	return t
}

// sanitized returns a copy with every non-finite value replaced by 0.
func (s Series) sanitized() Series {
	out := make(Series, len(s))
	for i, p := range s {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			p.Value = 0
		}
		out[i] = p
	}
	return out
}

// FromRecords builds a Series from decoded JSON or YAML records.
// categoryKey names the label field and valueKey the numeric field.
//
// Values may be numbers or numeric strings. Missing or unparseable values
// become 0 and non-string labels are printed with fmt; a malformed record
// never fails the conversion.
func FromRecords(records []map[string]any, categoryKey, valueKey string) Series {
	s := make(Series, 0, len(records))
	for _, r := range records {
		s = append(s, Point{
			Label: labelOf(r[categoryKey]),
			Value: numberOf(r[valueKey]),
		})
	}
	return s
}

func labelOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// float64er matches json.Number from encoding/json and goccy/go-json.
type float64er interface {
	Float64() (float64, error)
}

func numberOf(v any) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case uint64:
		f = float64(t)
	case uint:
		f = float64(t)
	case float64er:
		n, err := t.Float64()
		if err != nil {
			return 0
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = n
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
