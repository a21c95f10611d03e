package cli

import (
	"context"
	"maps"
	"strings"
	"sync"

	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/config"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/dashboard"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/fetch"
)

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{MaxRetries: -1}, nil
}

func (m *mockConfigLoader) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// ---------------------------------------------------------------------------
// Mock FetcherFactory + Fetcher
// ---------------------------------------------------------------------------

type newFetcherCall struct {
	Policy  fetch.Policy
	Headers map[string]string
}

type mockFetcherFactory struct {
	NewFetcherFunc func(policy fetch.Policy, headers map[string]string) dashboard.Fetcher

	mu              sync.Mutex
	newFetcherCalls []newFetcherCall
	mockFetcher     *mockFetcher
}

func (m *mockFetcherFactory) NewFetcher(policy fetch.Policy, headers map[string]string) dashboard.Fetcher {
	m.mu.Lock()
	m.newFetcherCalls = append(m.newFetcherCalls, newFetcherCall{Policy: policy, Headers: maps.Clone(headers)})
	m.mu.Unlock()

	if m.NewFetcherFunc != nil {
		return m.NewFetcherFunc(policy, headers)
	}
	if m.mockFetcher != nil {
		return m.mockFetcher
	}
	return &mockFetcher{}
}

func (m *mockFetcherFactory) NewFetcherCalls() []newFetcherCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]newFetcherCall(nil), m.newFetcherCalls...)
}

// analyticsPayloads are the default responses of mockFetcher, keyed by the
// last URL path segment.
var analyticsPayloads = map[string]string{
	dashboard.Revenue:    `[{"month":"Jan","revenue":1000},{"month":"Feb","revenue":1500}]`,
	dashboard.Bookings:   `[{"month":"Jan","bookings":10},{"month":"Feb","bookings":15}]`,
	dashboard.Categories: `[{"category":"Adventure","count":25},{"category":"Cultural","count":75}]`,
}

type mockFetcher struct {
	GetFunc func(ctx context.Context, url string) ([]byte, error)

	mu       sync.Mutex
	getCalls []string
}

func (m *mockFetcher) Get(ctx context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	m.getCalls = append(m.getCalls, url)
	m.mu.Unlock()

	if m.GetFunc != nil {
		return m.GetFunc(ctx, url)
	}
	return []byte(analyticsPayloads[url[strings.LastIndex(url, "/")+1:]]), nil
}

func (m *mockFetcher) GetCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.getCalls...)
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

// Compile-time interface verification.
var (
	_ ConfigLoader       = (*mockConfigLoader)(nil)
	_ FetcherFactory     = (*mockFetcherFactory)(nil)
	_ dashboard.Fetcher  = (*mockFetcher)(nil)
	_ dashboard.Notifier = (*mockNotifier)(nil)
)
