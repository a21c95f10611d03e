package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/chart"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/config"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/dashboard"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/fetch"
)

// fetchFlags holds the analytics API flags shared by dashboard and serve.
// Zero Timeout and negative MaxRetries mean "use config".
type fetchFlags struct {
	APIURL     string
	Timeout    time.Duration
	MaxRetries int
}

func (f *fetchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.APIURL, "api-url", "", "Analytics API base URL (default: config api-url)")
	cmd.Flags().DurationVar(&f.Timeout, "timeout", 0, "Per-attempt request timeout (default: config timeout or 10s)")
	cmd.Flags().IntVar(&f.MaxRetries, "max-retries", -1, "Retries after a failed attempt, 0-10 (default: config max-retries or 3)")
}

// fetchSettings is the resolved analytics API access.
type fetchSettings struct {
	BaseURL string
	Policy  fetch.Policy
	Headers map[string]string
}

// resolveFetchSettings merges flags over config over environment.
// Precedence: flag > config file > environment variable > default.
func resolveFetchSettings(env *Env, cfg config.Config, flags fetchFlags) (fetchSettings, error) {
	baseURL := strings.TrimSpace(flags.APIURL)
	if baseURL == "" {
		baseURL = cfg.APIURL
	}
	if baseURL == "" {
		baseURL = strings.TrimSpace(env.Getenv(config.EnvAPIURL))
	}
	if baseURL == "" {
		return fetchSettings{}, fmt.Errorf("%w (set it with: tourviz config set %s <url>, or export %s=<url>)",
			ErrAPIURLMissing, config.KeyAPIURL, config.EnvAPIURL)
	}
	if err := config.Validate(config.KeyAPIURL, baseURL); err != nil {
		return fetchSettings{}, err
	}

	policy := fetch.DefaultPolicy()
	if cfg.Timeout > 0 {
		policy.Timeout = cfg.Timeout
	}
	if cfg.MaxRetries >= 0 {
		policy.MaxRetries = cfg.MaxRetries
	}
	if flags.Timeout != 0 {
		if err := config.Validate(config.KeyTimeout, flags.Timeout.String()); err != nil {
			return fetchSettings{}, err
		}
		policy.Timeout = flags.Timeout
	}
	if flags.MaxRetries >= 0 {
		if err := config.Validate(config.KeyMaxRetries, fmt.Sprint(flags.MaxRetries)); err != nil {
			return fetchSettings{}, err
		}
		policy.MaxRetries = flags.MaxRetries
	}

	token := cfg.APIToken
	if token == "" {
		token = strings.TrimSpace(env.Getenv(config.EnvAPIToken))
	}
	var headers map[string]string
	if token != "" {
		headers = map[string]string{"Authorization": "Bearer " + token}
	}

	return fetchSettings{BaseURL: baseURL, Policy: policy, Headers: headers}, nil
}

// newDashboardLoader wires the fetcher, aggregator and loader for s.
func newDashboardLoader(env *Env, s fetchSettings, chartCfg chart.Config) *dashboard.Loader {
	fetcher := env.FetcherFactory.NewFetcher(s.Policy, s.Headers)
	agg := dashboard.NewAggregator(dashboard.DefaultSource(s.BaseURL), fetcher,
		dashboard.WithChartConfig(chartCfg),
		dashboard.WithNow(env.Now))
	return dashboard.NewLoader(agg, env.notifier())
}

// dashboardOptions holds the flag values of the dashboard command.
type dashboardOptions struct {
	fetchFlags
	OutputDir string
}

// DashboardCmd creates the dashboard command.
// The env parameter provides injectable dependencies for testing.
func DashboardCmd(env *Env) *cobra.Command {
	var opts dashboardOptions

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Fetch analytics and render the dashboard charts",
		Long: `Fetch revenue, bookings and category analytics and render the dashboard.

Each endpoint is fetched concurrently with a per-attempt timeout and retried
with exponential backoff (1s, 2s, 4s) on timeouts and network failures.
Access denied and malformed responses are not retried.

Writes revenue.svg (line), bookings.svg (bar) and categories.svg (donut) to
the output directory, replacing earlier versions, then prints a summary.
A failed endpoint still produces its chart as a "No data available" placeholder.

The bearer token is read from TOURVIZ_API_TOKEN.`,
		Example: `  tourviz dashboard --api-url https://api.example.com
  tourviz dashboard --out-dir ~/reports --timeout 5s --max-retries 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd.Context(), env, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.OutputDir, "out-dir", "", "Directory for the chart files (default: config output-dir or current directory)")

	return cmd
}

// runDashboard executes one dashboard refresh.
// Validation order: API URL -> policy -> output dir
func runDashboard(ctx context.Context, env *Env, opts dashboardOptions) error {
	// === VALIDATION (fail-fast) ===

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	settings, err := resolveFetchSettings(env, cfg, opts.fetchFlags)
	if err != nil {
		return err
	}

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = cfg.OutputDir
	}
	if outDir == "" {
		outDir = "."
	}
	outDir = config.ExpandPath(outDir)
	if err := config.EnsureOutputDir(outDir); err != nil {
		return fmt.Errorf("invalid output directory: %w", err)
	}

	// === FETCH ===

	fmt.Fprintf(env.Stderr, "Fetching analytics from %s...\n", settings.BaseURL)
	start := env.Now()

	loader := newDashboardLoader(env, settings, chart.DefaultConfig())
	snap, loadErr := loader.Refresh(ctx)
	if len(snap.Panels) == 0 {
		return loadErr
	}

	// === OUTPUT ===

	for _, p := range snap.Panels {
		path := filepath.Join(outDir, p.Endpoint.Name+".svg")
		if err := replaceFile(path, chart.SVG(p.Scene)); err != nil {
			return err
		}
		status := "ok"
		if p.Err != nil {
			status = "no data: " + fetch.Classify(p.Err)
		}
		fmt.Fprintf(env.Stderr, "  %-12s %s (%s)\n", p.Endpoint.Title, path, status)
	}

	if err := writeSummary(env.Stdout, snap.Summary); err != nil {
		return err
	}
	fmt.Fprintf(env.Stderr, "Done in %s (fetched %s)\n",
		env.Now().Sub(start).Round(time.Millisecond), humanize.RelTime(snap.FetchedAt, env.Now(), "ago", "from now"))

	if loadErr != nil {
		if n := dashboard.Describe(loadErr); n.CanRetry && !errors.Is(loadErr, context.Canceled) {
			fmt.Fprintln(env.Stderr, "Run the command again to retry.")
		}
		return loadErr
	}
	return nil
}

// writeSummary prints the summary statistics as an aligned table.
func writeSummary(w io.Writer, s dashboard.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, line := range s.Lines() {
		fmt.Fprintf(tw, "%s\t%s\n", line[0], line[1])
	}
	return tw.Flush()
}
