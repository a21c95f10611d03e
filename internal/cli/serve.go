package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/chart"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/dashboard"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/logging"
)

// Server timeouts.
const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// serveOptions holds the flag values of the serve command.
type serveOptions struct {
	fetchFlags
	Addr            string
	RefreshInterval time.Duration
}

// ServeCmd creates the serve command.
// The env parameter provides injectable dependencies for testing.
func ServeCmd(env *Env) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard charts over HTTP",
		Long: `Serve the dashboard charts over HTTP.

Routes:
  GET  /charts/{name}.svg   revenue, bookings or categories chart
  GET  /summary             summary statistics and panel notices (JSON)
  POST /refresh             fetch the analytics again (manual retry)
  GET  /healthz             liveness and refresh generation
  GET  /metrics             Prometheus metrics

The dashboard is fetched once at startup and again on every POST /refresh,
or periodically with --refresh-interval. A refresh that completes after a
newer one has started is discarded.`,
		Example: `  tourviz serve --api-url http://localhost:8080/api
  tourviz serve --addr :9090 --refresh-interval 5m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), env, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.Addr, "addr", "127.0.0.1:8787", "Listen address")
	cmd.Flags().DurationVar(&opts.RefreshInterval, "refresh-interval", 0, "Refresh periodically (0 disables)")

	return cmd
}

// runServe runs the preview server until ctx is canceled.
func runServe(ctx context.Context, env *Env, opts serveOptions) error {
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	settings, err := resolveFetchSettings(env, cfg, opts.fetchFlags)
	if err != nil {
		return err
	}
	if opts.RefreshInterval < 0 {
		return fmt.Errorf("--refresh-interval must not be negative, got %s", opts.RefreshInterval)
	}

	loader := newDashboardLoader(env, settings, chart.DefaultConfig())

	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("cannot listen on %s: %w", opts.Addr, err)
	}

	srv := &http.Server{
		Handler:           newServer(loader).routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	fmt.Fprintf(env.Stderr, "Serving dashboard on http://%s\n", ln.Addr())

	// Initial load; failures are reported by the notifier and served as
	// placeholders until the next refresh.
	_, _ = loader.Refresh(ctx)

	if opts.RefreshInterval > 0 {
		go refreshEvery(ctx, loader, opts.RefreshInterval)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	fmt.Fprintln(env.Stderr, "Server stopped.")
	return ctx.Err()
}

// refreshEvery refreshes the loader on every tick until ctx is canceled.
func refreshEvery(ctx context.Context, loader *dashboard.Loader, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = loader.Refresh(ctx)
		}
	}
}

// ---------------------------------------------------------------------------
// HTTP handlers
// ---------------------------------------------------------------------------

// server exposes a dashboard.Loader over HTTP.
type server struct {
	loader *dashboard.Loader
}

func newServer(loader *dashboard.Loader) *server {
	return &server{loader: loader}
}

// routes builds the chi router.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(correlationID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Get("/summary", s.summary)
	r.Post("/refresh", s.refresh)
	r.Get("/charts/{name}.svg", s.chart)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// panelStatus is the JSON view of one dashboard panel.
type panelStatus struct {
	Name   string            `json:"name"`
	Title  string            `json:"title"`
	Kind   chart.Kind        `json:"kind"`
	Points int               `json:"points"`
	Notice *dashboard.Notice `json:"notice,omitempty"`
}

// snapshotView is the JSON body of /summary and /refresh.
type snapshotView struct {
	Generation uint64            `json:"generation"`
	FetchedAt  time.Time         `json:"fetched_at"`
	Summary    dashboard.Summary `json:"summary"`
	Panels     []panelStatus     `json:"panels"`
	Notice     *dashboard.Notice `json:"notice,omitempty"`
}

func newSnapshotView(snap dashboard.Snapshot) snapshotView {
	v := snapshotView{
		Generation: snap.Generation,
		FetchedAt:  snap.FetchedAt,
		Summary:    snap.Summary,
		Panels:     make([]panelStatus, 0, len(snap.Panels)),
	}
	for _, p := range snap.Panels {
		ps := panelStatus{Name: p.Endpoint.Name, Title: p.Endpoint.Title, Kind: p.Endpoint.Kind, Points: len(p.Series)}
		if p.Err != nil {
			n := dashboard.Describe(p.Err)
			ps.Notice = &n
		}
		v.Panels = append(v.Panels, ps)
	}
	if err := snap.Err(); err != nil {
		n := dashboard.Describe(err)
		v.Notice = &n
	}
	return v
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":     "ok",
		"generation": s.loader.Generation(),
	})
}

func (s *server) summary(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.loader.Last()
	if !ok {
		writeNotice(w, r, http.StatusServiceUnavailable, dashboard.Notice{
			Level:    dashboard.LevelInfo,
			Title:    "Dashboard not loaded yet",
			CanRetry: true,
		})
		return
	}
	writeJSON(w, r, http.StatusOK, newSnapshotView(snap))
}

func (s *server) refresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.loader.Refresh(r.Context())
	switch {
	case errors.Is(err, dashboard.ErrSuperseded):
		writeNotice(w, r, http.StatusConflict, dashboard.Notice{
			Level:  dashboard.LevelInfo,
			Title:  "Refresh superseded",
			Detail: "A newer refresh started before this one completed.",
		})
	case err != nil && len(snap.Panels) == 0:
		writeNotice(w, r, http.StatusBadGateway, dashboard.Describe(err))
	default:
		// Partial failures are still a rendered dashboard; notices say
		// which panels are empty.
		writeJSON(w, r, http.StatusOK, newSnapshotView(snap))
	}
}

func (s *server) chart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	snap, ok := s.loader.Last()
	if !ok {
		http.Error(w, "dashboard not loaded yet", http.StatusServiceUnavailable)
		return
	}
	p, ok := snap.Panel(name)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	if err := chart.WriteSVG(w, p.Scene); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("chart", name).Msg("write chart")
	}
}

func writeNotice(w http.ResponseWriter, r *http.Request, status int, n dashboard.Notice) {
	writeJSON(w, r, status, map[string]any{"notice": n})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("write response")
	}
}

// ---------------------------------------------------------------------------
// Middleware
// ---------------------------------------------------------------------------

// correlationID uses the chi request ID as the logging correlation ID.
func correlationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := chimiddleware.GetReqID(ctx); id != "" {
			ctx = logging.WithCorrelationID(ctx, id)
		} else {
			ctx = logging.EnsureCorrelationID(ctx)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLogger logs every request at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logging.Ctx(r.Context()).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}
