package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/config"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/dashboard"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/fetch"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Now    func() time.Time

	// Factories for domain objects
	ConfigLoader   ConfigLoader
	FetcherFactory FetcherFactory

	// Notifier receives dashboard failure notices. Nil means the notices
	// are printed to Stderr.
	Notifier dashboard.Notifier
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// FetcherFactory creates fetchers for the analytics API.
type FetcherFactory interface {
	NewFetcher(policy fetch.Policy, headers map[string]string) dashboard.Fetcher
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdin sets the stdin reader.
func WithStdin(r io.Reader) EnvOption {
	return func(e *Env) {
		e.Stdin = r
	}
}

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) {
		e.Now = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithFetcherFactory sets the fetcher factory.
func WithFetcherFactory(f FetcherFactory) EnvOption {
	return func(e *Env) {
		e.FetcherFactory = f
	}
}

// WithNotifier sets the dashboard notifier.
func WithNotifier(n dashboard.Notifier) EnvOption {
	return func(e *Env) {
		e.Notifier = n
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdin:          os.Stdin,
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		Getenv:         os.Getenv,
		Now:            time.Now,
		ConfigLoader:   &defaultConfigLoader{},
		FetcherFactory: &defaultFetcherFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// notifier returns env.Notifier, or a notifier printing to env.Stderr.
func (e *Env) notifier() dashboard.Notifier {
	if e.Notifier != nil {
		return e.Notifier
	}
	return &stderrNotifier{w: e.Stderr}
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultFetcherFactory implements FetcherFactory using the fetch package.
type defaultFetcherFactory struct{}

func (defaultFetcherFactory) NewFetcher(policy fetch.Policy, headers map[string]string) dashboard.Fetcher {
	return fetch.NewClient(fetch.WithPolicy(policy), fetch.WithHeaders(headers))
}

// stderrNotifier prints notices as plain text.
type stderrNotifier struct {
	w io.Writer
}

func (n *stderrNotifier) Notify(_ context.Context, notice dashboard.Notice) {
	if notice.Level == dashboard.LevelNone {
		return
	}
	_, _ = fmt.Fprintf(n.w, "%s: %s\n", notice.Level, notice.Title)
	if notice.Detail != "" {
		_, _ = fmt.Fprintf(n.w, "  %s\n", notice.Detail)
	}
}

// Compile-time interface verification.
var (
	_ ConfigLoader       = (*defaultConfigLoader)(nil)
	_ FetcherFactory     = (*defaultFetcherFactory)(nil)
	_ dashboard.Notifier = (*stderrNotifier)(nil)
)
