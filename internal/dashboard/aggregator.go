package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"

	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/chart"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/fetch"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/logging"
)

// Fetcher retrieves a JSON payload. *fetch.Client implements it.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Compile-time interface check.
var _ Fetcher = (*fetch.Client)(nil)

// Panel is one chart of the dashboard. A panel whose fetch failed carries
// Err and an empty-state Scene.
type Panel struct {
	Endpoint Endpoint
	Series   chart.Series
	Scene    chart.Scene
	Err      error
}

// Snapshot is the result of one dashboard load.
type Snapshot struct {
	Panels     []Panel
	Summary    Summary
	FetchedAt  time.Time
	Generation uint64
}

// Panel returns the panel for the endpoint named name.
func (s Snapshot) Panel(name string) (Panel, bool) {
	for _, p := range s.Panels {
		if p.Endpoint.Name == name {
			return p, true
		}
	}
	return Panel{}, false
}

// Err joins the errors of all failed panels, or returns nil.
func (s Snapshot) Err() error {
	var errs []error
	for _, p := range s.Panels {
		if p.Err != nil {
			errs = append(errs, p.Err)
		}
	}
	return errors.Join(errs...)
}

// Aggregator loads every endpoint of a Source and renders its charts.
// An Aggregator is safe for concurrent use.
type Aggregator struct {
	source   Source
	fetcher  Fetcher
	chartCfg chart.Config
	breakers map[string]*gobreaker.CircuitBreaker[[]byte]
	now      func() time.Time
}

// Option configures an Aggregator.
type Option func(*aggregatorOptions)

type aggregatorOptions struct {
	chartCfg chart.Config
	breaker  BreakerSettings
	now      func() time.Time
}

// WithChartConfig sets the configuration used for every chart.
func WithChartConfig(cfg chart.Config) Option {
	return func(o *aggregatorOptions) { o.chartCfg = cfg }
}

// WithBreakerSettings configures the per-endpoint circuit breakers.
func WithBreakerSettings(s BreakerSettings) Option {
	return func(o *aggregatorOptions) { o.breaker = s }
}

// WithNow replaces the clock used for Snapshot.FetchedAt.
func WithNow(now func() time.Time) Option {
	return func(o *aggregatorOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// NewAggregator creates an Aggregator for src backed by f.
func NewAggregator(src Source, f Fetcher, opts ...Option) *Aggregator {
	o := aggregatorOptions{chartCfg: chart.DefaultConfig(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	breakers := make(map[string]*gobreaker.CircuitBreaker[[]byte], len(src.Endpoints))
	for _, e := range src.Endpoints {
		breakers[e.Name] = newBreaker(e.Name, o.breaker)
	}

	return &Aggregator{
		source:   src,
		fetcher:  f,
		chartCfg: o.chartCfg,
		breakers: breakers,
		now:      o.now,
	}
}

// Source returns the aggregator's analytics source.
func (a *Aggregator) Source() Source {
	return a.source
}

// Load fetches all endpoints concurrently and renders their charts.
// Failed endpoints keep an empty-state panel; the returned error joins
// their failures, each prefixed with the endpoint name.
func (a *Aggregator) Load(ctx context.Context) (Snapshot, error) {
	if strings.TrimSpace(a.source.BaseURL) == "" {
		return Snapshot{}, ErrNoBaseURL
	}

	panels := make([]Panel, len(a.source.Endpoints))

	var g errgroup.Group
	for i, e := range a.source.Endpoints {
		g.Go(func() error {
			panels[i] = a.loadPanel(ctx, e)
			return nil
		})
	}
	_ = g.Wait()

	snap := Snapshot{Panels: panels, FetchedAt: a.now()}
	snap.Summary = Summarize(
		seriesOf(snap, Revenue),
		seriesOf(snap, Bookings),
		seriesOf(snap, Categories),
	)
	return snap, snap.Err()
}

func (a *Aggregator) loadPanel(ctx context.Context, e Endpoint) Panel {
	log := logging.Ctx(ctx)

	series, err := a.loadSeries(ctx, e)
	if err != nil {
		err = fmt.Errorf("%s: %w", e.Name, err)
		log.Warn().Str("endpoint", e.Name).Str("class", fetch.Classify(err)).Err(err).Msg("analytics endpoint failed")
		series = nil
	} else {
		log.Debug().Str("endpoint", e.Name).Int("points", len(series)).Msg("analytics endpoint loaded")
	}

	return Panel{
		Endpoint: e,
		Series:   series,
		Scene:    chart.Render(e.Kind, series, a.chartCfg),
		Err:      err,
	}
}

func (a *Aggregator) loadSeries(ctx context.Context, e Endpoint) (chart.Series, error) {
	u, err := a.source.URL(e)
	if err != nil {
		return nil, err
	}

	data, err := guard(a.breakers[e.Name], func() ([]byte, error) {
		return a.fetcher.Get(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array of records: %w", fetch.ErrInvalidResponseFormat, err)
	}
	return chart.FromRecords(records, e.CategoryKey, e.ValueKey), nil
}

func seriesOf(s Snapshot, name string) chart.Series {
	p, _ := s.Panel(name)
	return p.Series
}
