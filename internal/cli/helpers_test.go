package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/config"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// testMocks - convenience struct for grouping all mocks
// ---------------------------------------------------------------------------

type testMocks struct {
	configLoader *mockConfigLoader
	fetchers     *mockFetcherFactory
	fetcher      *mockFetcher
	notifier     *mockNotifier
}

func newTestMocks() *testMocks {
	fetcher := &mockFetcher{}
	return &testMocks{
		configLoader: &mockConfigLoader{},
		fetchers:     &mockFetcherFactory{mockFetcher: fetcher},
		fetcher:      fetcher,
		notifier:     &mockNotifier{},
	}
}

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

// testEnvOptions configures a test environment.
type testEnvOptions struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
	now    func() time.Time
	mocks  *testMocks
}

// testEnvOption configures testEnv.
type testEnvOption func(*testEnvOptions)

func withTestStdin(r io.Reader) testEnvOption {
	return func(o *testEnvOptions) { o.stdin = r }
}

func withTestGetenv(fn func(string) string) testEnvOption {
	return func(o *testEnvOptions) { o.getenv = fn }
}

func withTestMocks(m *testMocks) testEnvOption {
	return func(o *testEnvOptions) { o.mocks = m }
}

// testEnv creates a test Env with all dependencies mocked.
// Returns the Env and the mocks for assertions.
func testEnv(opts ...testEnvOption) (*Env, *testMocks) {
	options := &testEnvOptions{
		stdin:  strings.NewReader(""),
		stdout: &syncBuffer{},
		stderr: &syncBuffer{},
		getenv: defaultTestEnv,
		now: func() time.Time {
			return time.Date(2026, 1, 26, 14, 30, 52, 0, time.UTC)
		},
		mocks: newTestMocks(),
	}

	for _, opt := range opts {
		opt(options)
	}

	env := &Env{
		Stdin:          options.stdin,
		Stdout:         options.stdout,
		Stderr:         options.stderr,
		Getenv:         options.getenv,
		Now:            options.now,
		ConfigLoader:   options.mocks.configLoader,
		FetcherFactory: options.mocks.fetchers,
		Notifier:       options.mocks.notifier,
	}

	return env, options.mocks
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// testAPIURL is the analytics base URL returned by defaultTestEnv.
const testAPIURL = "http://analytics.test/api"

// staticEnv returns a getenv function that returns values from the given map.
func staticEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

// defaultTestEnv configures the analytics API URL and nothing else.
func defaultTestEnv(key string) string {
	if key == config.EnvAPIURL {
		return testAPIURL
	}
	return ""
}

// stdoutOf returns what the command wrote to env.Stdout.
func stdoutOf(env *Env) string {
	return env.Stdout.(*syncBuffer).String()
}

// stderrOf returns what the command wrote to env.Stderr.
func stderrOf(env *Env) string {
	return env.Stderr.(*syncBuffer).String()
}

// writeTestFile creates a file with content in a temp dir and returns its path.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

// configWithOutputDir returns a ConfigLoader that returns a config with the given output directory.
func configWithOutputDir(outputDir string) *mockConfigLoader {
	return &mockConfigLoader{
		LoadFunc: func() (config.Config, error) {
			return config.Config{OutputDir: outputDir, MaxRetries: -1}, nil
		},
	}
}
