package dashboard

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/chart"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/format"
)

// Summary holds the headline statistics shown above the charts.
type Summary struct {
	TotalRevenue         float64 `json:"total_revenue"`
	TotalBookings        float64 `json:"total_bookings"`
	AvgRevenuePerBooking float64 `json:"avg_revenue_per_booking"`

	// RevenueGrowth is the last month's revenue change against the month
	// before, in percent. Only meaningful when HasGrowth is set.
	RevenueGrowth float64 `json:"revenue_growth"`
	HasGrowth     bool    `json:"has_growth"`
	GrowthPeriod  string  `json:"growth_period,omitempty"`

	TopCategory      string  `json:"top_category,omitempty"`
	TopCategoryShare float64 `json:"top_category_share"`
}

// Summarize derives the summary from the three series. Any of them may be
// empty.
func Summarize(revenue, bookings, categories chart.Series) Summary {
	s := Summary{
		TotalRevenue:  sumFinite(revenue),
		TotalBookings: sumFinite(bookings),
	}
	if s.TotalBookings > 0 {
		s.AvgRevenuePerBooking = s.TotalRevenue / s.TotalBookings
	}

	if n := len(revenue); n >= 2 {
		prev, last := revenue[n-2], revenue[n-1]
		if prev.Value != 0 && finite(prev.Value) && finite(last.Value) {
			s.RevenueGrowth = (last.Value - prev.Value) / math.Abs(prev.Value) * 100
			s.HasGrowth = true
			s.GrowthPeriod = fmt.Sprintf("%s vs %s", last.Label, prev.Label)
		}
	}

	// Shares follow the donut: non-positive counts take no part.
	var total float64
	top := -1
	for i, p := range categories {
		if !finite(p.Value) || p.Value <= 0 {
			continue
		}
		total += p.Value
		if top < 0 || p.Value > categories[top].Value {
			top = i
		}
	}
	if top >= 0 {
		s.TopCategory = categories[top].Label
		s.TopCategoryShare = categories[top].Value / total * 100
	}
	return s
}

// Lines renders the summary as label/value rows for terminal output.
func (s Summary) Lines() [][2]string {
	rows := [][2]string{
		{"Total revenue", format.Value(s.TotalRevenue)},
		{"Total bookings", humanize.Comma(int64(math.Round(s.TotalBookings)))},
		{"Avg revenue per booking", format.Value(s.AvgRevenuePerBooking)},
	}
	if s.HasGrowth {
		rows = append(rows, [2]string{"Revenue growth", fmt.Sprintf("%+.1f%% (%s)", s.RevenueGrowth, s.GrowthPeriod)})
	} else {
		rows = append(rows, [2]string{"Revenue growth", "n/a"})
	}
	if s.TopCategory != "" {
		rows = append(rows, [2]string{"Top category", fmt.Sprintf("%s (%s)", s.TopCategory, format.Percent(s.TopCategoryShare))})
	} else {
		rows = append(rows, [2]string{"Top category", "n/a"})
	}
	return rows
}

func sumFinite(s chart.Series) float64 {
	var t float64
	for _, p := range s {
		if finite(p.Value) {
			t += p.Value
		}
	}
	return t
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
