// Package dashboard loads the analytics series through the fetch pipeline,
// renders one chart per endpoint and derives the summary statistics shown
// above the charts.
package dashboard

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/chart"
)

// Endpoint names.
const (
	Revenue    = "revenue"
	Bookings   = "bookings"
	Categories = "categories"
)

// Endpoint describes one analytics series and how to chart it.
type Endpoint struct {
	Name        string
	Title       string
	Path        string
	CategoryKey string
	ValueKey    string
	Kind        chart.Kind
}

// Source is the analytics API: a base URL and its endpoints, in display order.
type Source struct {
	BaseURL   string
	Endpoints []Endpoint
}

// DefaultSource returns the three standard analytics endpoints under baseURL.
func DefaultSource(baseURL string) Source {
	return Source{
		BaseURL: baseURL,
		Endpoints: []Endpoint{
			{Name: Revenue, Title: "Revenue by month", Path: "/analytics/revenue", CategoryKey: "month", ValueKey: "revenue", Kind: chart.KindLine},
			{Name: Bookings, Title: "Bookings by month", Path: "/analytics/bookings", CategoryKey: "month", ValueKey: "bookings", Kind: chart.KindBar},
			{Name: Categories, Title: "Bookings by tour category", Path: "/analytics/categories", CategoryKey: "category", ValueKey: "count", Kind: chart.KindDonut},
		},
	}
}

// Endpoint returns the endpoint named name.
func (s Source) Endpoint(name string) (Endpoint, bool) {
	for _, e := range s.Endpoints {
		if e.Name == name {
			return e, true
		}
	}
	return Endpoint{}, false
}

// URL resolves e against the base URL.
func (s Source) URL(e Endpoint) (string, error) {
	base := strings.TrimSpace(s.BaseURL)
	if base == "" {
		return "", ErrNoBaseURL
	}
	u, err := url.JoinPath(base, e.Path)
	if err != nil {
		return "", fmt.Errorf("resolve %s endpoint: %w", e.Name, err)
	}
	return u, nil
}
