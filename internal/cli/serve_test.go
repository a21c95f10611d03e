package cli

// Coverage Notes:
// - Handlers are exercised through the chi router with httptest; runServe
//   is exercised once on a real listener bound to port 0.
// - The superseded-refresh test holds the first refresh inside the fetcher
//   until a second refresh has completed.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/chart"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/dashboard"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/fetch"
)

// newTestServer returns an httptest server over a loader backed by f.
func newTestServer(t *testing.T, f dashboard.Fetcher) (*httptest.Server, *dashboard.Loader) {
	t.Helper()
	agg := dashboard.NewAggregator(dashboard.DefaultSource(testAPIURL), f)
	loader := dashboard.NewLoader(agg, &mockNotifier{})
	ts := httptest.NewServer(newServer(loader).routes())
	t.Cleanup(ts.Close)
	return ts, loader
}

func doRequest(t *testing.T, method, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, url, nil)
	if err != nil {
		t.Fatalf("http.NewRequest() unexpected error: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s unexpected error: %v", method, url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

type snapshotBody struct {
	Generation uint64            `json:"generation"`
	Summary    dashboard.Summary `json:"summary"`
	Panels     []struct {
		Name   string `json:"name"`
		Points int    `json:"points"`
		Notice *struct {
			Title    string `json:"title"`
			Level    string `json:"level"`
			CanRetry bool   `json:"can_retry"`
		} `json:"notice"`
	} `json:"panels"`
}

// ---------------------------------------------------------------------------
// TestServer_Routes
// ---------------------------------------------------------------------------

func TestServer_Routes(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t, &mockFetcher{})

	// Nothing loaded yet.
	resp, _ := doRequest(t, http.MethodGet, ts.URL+"/summary")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("GET /summary before refresh = %d, want 503", resp.StatusCode)
	}
	resp, _ = doRequest(t, http.MethodGet, ts.URL+"/charts/revenue.svg")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("GET chart before refresh = %d, want 503", resp.StatusCode)
	}

	// Manual refresh.
	resp, body := doRequest(t, http.MethodPost, ts.URL+"/refresh")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /refresh = %d, want 200: %s", resp.StatusCode, body)
	}
	var snap snapshotBody
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatalf("decode /refresh body: %v", err)
	}
	if snap.Generation != 1 || len(snap.Panels) != 3 || snap.Summary.TotalRevenue != 2500 {
		t.Errorf("/refresh body = %+v, want generation 1, 3 panels, revenue 2500", snap)
	}

	// Summary reflects the stored snapshot.
	resp, body = doRequest(t, http.MethodGet, ts.URL+"/summary")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"top_category":"Cultural"`) {
		t.Errorf("GET /summary = %d %s", resp.StatusCode, body)
	}

	// Charts.
	for _, name := range []string{dashboard.Revenue, dashboard.Bookings, dashboard.Categories} {
		resp, body := doRequest(t, http.MethodGet, ts.URL+"/charts/"+name+".svg")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET /charts/%s.svg = %d, want 200", name, resp.StatusCode)
			continue
		}
		if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
			t.Errorf("GET /charts/%s.svg Content-Type = %q", name, ct)
		}
		if !strings.HasPrefix(string(body), "<svg") || strings.Contains(string(body), chart.EmptyMessage) {
			t.Errorf("GET /charts/%s.svg body is not a drawn chart", name)
		}
	}
	resp, _ = doRequest(t, http.MethodGet, ts.URL+"/charts/visitors.svg")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET unknown chart = %d, want 404", resp.StatusCode)
	}

	// Health and metrics.
	resp, body = doRequest(t, http.MethodGet, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"generation":1`) {
		t.Errorf("GET /healthz = %d %s", resp.StatusCode, body)
	}
	resp, body = doRequest(t, http.MethodGet, ts.URL+"/metrics")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "tourviz_chart_renders_total") {
		t.Errorf("GET /metrics = %d, missing chart render counter", resp.StatusCode)
	}

	// Wrong method.
	resp, _ = doRequest(t, http.MethodGet, ts.URL+"/refresh")
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /refresh = %d, want 405", resp.StatusCode)
	}
}

func TestServer_RefreshReportsFailedPanels(t *testing.T) {
	t.Parallel()

	f := &mockFetcher{GetFunc: func(_ context.Context, url string) ([]byte, error) {
		if strings.HasSuffix(url, dashboard.Bookings) {
			return nil, fmt.Errorf("%w after 4 attempts: %w", fetch.ErrRetriesExhausted, fetch.ErrNetwork)
		}
		return []byte(analyticsPayloads[url[strings.LastIndex(url, "/")+1:]]), nil
	}}
	ts, _ := newTestServer(t, f)

	resp, body := doRequest(t, http.MethodPost, ts.URL+"/refresh")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /refresh = %d, want 200 (partial dashboard)", resp.StatusCode)
	}
	var snap snapshotBody
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatalf("decode /refresh body: %v", err)
	}
	for _, p := range snap.Panels {
		failed := p.Name == dashboard.Bookings
		if failed != (p.Notice != nil) {
			t.Errorf("panel %s notice = %+v, want notice only on bookings", p.Name, p.Notice)
		}
		if failed && (p.Notice.Level != "error" || !p.Notice.CanRetry) {
			t.Errorf("bookings notice = %+v, want retryable error", p.Notice)
		}
	}

	resp, body = doRequest(t, http.MethodGet, ts.URL+"/charts/bookings.svg")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), chart.EmptyMessage) {
		t.Errorf("failed panel chart = %d, want placeholder SVG", resp.StatusCode)
	}
}

func TestServer_SupersededRefreshIsConflict(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		calls   int
		started = make(chan struct{}, 3)
		release = make(chan struct{})
	)
	f := &mockFetcher{GetFunc: func(ctx context.Context, url string) ([]byte, error) {
		mu.Lock()
		calls++
		first := calls <= 3
		mu.Unlock()
		if first {
			started <- struct{}{}
			select {
			case <-release:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		return []byte(analyticsPayloads[url[strings.LastIndex(url, "/")+1:]]), nil
	}}
	ts, loader := newTestServer(t, f)

	type result struct {
		status int
		body   string
	}
	slow := make(chan result, 1)
	go func() {
		resp, err := http.Post(ts.URL+"/refresh", "", nil) //nolint:noctx // test request
		if err != nil {
			slow <- result{body: err.Error()}
			return
		}
		defer func() { _ = resp.Body.Close() }()
		body, _ := io.ReadAll(resp.Body)
		slow <- result{resp.StatusCode, string(body)}
	}()
	for range 3 {
		<-started
	}

	resp, _ := doRequest(t, http.MethodPost, ts.URL+"/refresh")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second refresh = %d, want 200", resp.StatusCode)
	}
	close(release)

	got := <-slow
	if got.status != http.StatusConflict {
		t.Errorf("first refresh = %d %s, want 409", got.status, got.body)
	}
	if snap, ok := loader.Last(); !ok || snap.Generation != 2 {
		t.Errorf("stored generation = %d, want 2 (newest wins)", snap.Generation)
	}
}

// ---------------------------------------------------------------------------
// TestRunServe
// ---------------------------------------------------------------------------

func TestRunServe(t *testing.T) {
	t.Parallel()

	env, mocks := testEnv()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- runServe(ctx, env, serveOptions{fetchFlags: fetchFlags{MaxRetries: -1}, Addr: "127.0.0.1:0"})
	}()

	var base string
	deadline := time.Now().Add(5 * time.Second)
	for base == "" && time.Now().Before(deadline) {
		out := stderrOf(env)
		if i := strings.Index(out, "http://"); i >= 0 && strings.Contains(out[i:], "\n") {
			base = strings.TrimSpace(out[i : i+strings.Index(out[i:], "\n")])
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if base == "" {
		t.Fatalf("server did not start; stderr = %q", stderrOf(env))
	}

	// The initial refresh runs before the listener serves requests.
	resp, body := doRequest(t, http.MethodGet, base+"/healthz")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"generation":1`) {
		t.Errorf("GET /healthz = %d %s, want generation 1", resp.StatusCode, body)
	}
	if got := len(mocks.fetcher.GetCalls()); got != 3 {
		t.Errorf("initial fetches = %d, want 3", got)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("runServe() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runServe() did not stop after cancel")
	}
}

func TestRunServe_RejectsNegativeInterval(t *testing.T) {
	t.Parallel()

	env, _ := testEnv()
	err := runServe(context.Background(), env, serveOptions{
		fetchFlags:      fetchFlags{MaxRetries: -1},
		Addr:            "127.0.0.1:0",
		RefreshInterval: -time.Second,
	})
	if err == nil || !strings.Contains(err.Error(), "refresh-interval") {
		t.Errorf("runServe() error = %v, want refresh-interval error", err)
	}
}
