package dashboard_test

import (
	"context"
	"strings"
	"sync"

	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/dashboard"
)

// ---------------------------------------------------------------------------
// Mock Fetcher
// ---------------------------------------------------------------------------

// mockFetcher answers by URL path suffix.
type mockFetcher struct {
	GetFunc func(ctx context.Context, url string) ([]byte, error)

	mu    sync.Mutex
	calls map[string]int
}

func (m *mockFetcher) Get(ctx context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[endpointOf(url)]++
	m.mu.Unlock()

	if m.GetFunc != nil {
		return m.GetFunc(ctx, url)
	}
	return []byte(payloads[endpointOf(url)]), nil
}

func (m *mockFetcher) Calls(endpoint string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[endpoint]
}

func endpointOf(url string) string {
	return url[strings.LastIndex(url, "/")+1:]
}

var payloads = map[string]string{
	dashboard.Revenue:    `[{"month":"Jan","revenue":1000},{"month":"Feb","revenue":1500}]`,
	dashboard.Bookings:   `[{"month":"Jan","bookings":10},{"month":"Feb","bookings":15}]`,
	dashboard.Categories: `[{"category":"Adventure","count":25},{"category":"Cultural","count":75}]`,
}

// ---------------------------------------------------------------------------
// Mock SnapshotLoader
// ---------------------------------------------------------------------------

type mockSnapshotLoader struct {
	LoadFunc func(ctx context.Context) (dashboard.Snapshot, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockSnapshotLoader) Load(ctx context.Context) (dashboard.Snapshot, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return dashboard.Snapshot{}, nil
}

func (m *mockSnapshotLoader) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// ---------------------------------------------------------------------------
// Mock Notifier
// ---------------------------------------------------------------------------

type mockNotifier struct {
	mu      sync.Mutex
	notices []dashboard.Notice
}

func (m *mockNotifier) Notify(_ context.Context, n dashboard.Notice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, n)
}

func (m *mockNotifier) Notices() []dashboard.Notice {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]dashboard.Notice(nil), m.notices...)
}
