package config

import (
	"bufio"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Config keys.
const (
	KeyAPIURL     = "api-url"
	KeyOutputDir  = "output-dir"
	KeyTimeout    = "timeout"
	KeyMaxRetries = "max-retries"
)

// Keys lists every valid config key in display order.
var Keys = []string{KeyAPIURL, KeyOutputDir, KeyTimeout, KeyMaxRetries}

// Environment variable fallbacks.
const (
	EnvAPIURL     = "TOURVIZ_API_URL"
	EnvAPIToken   = "TOURVIZ_API_TOKEN" // env only, never written to the config file
	EnvOutputDir  = "TOURVIZ_OUTPUT_DIR"
	EnvTimeout    = "TOURVIZ_TIMEOUT"
	EnvMaxRetries = "TOURVIZ_MAX_RETRIES"
)

// Sentinel errors for config validation.
var (
	// ErrInvalidValue indicates a config value that does not parse for its key.
	ErrInvalidValue = errors.New("invalid config value")

	// ErrNotDirectory indicates an output-dir that exists but is a file.
	ErrNotDirectory = errors.New("not a directory")

	// ErrNotWritable indicates an output-dir the user cannot write to.
	ErrNotWritable = errors.New("directory is not writable")

	// ErrInvalidKey indicates a key that cannot be stored in the file format.
	ErrInvalidKey = errors.New("invalid config key")

	// ErrInvalidSyntax indicates a config file line without "=".
	ErrInvalidSyntax = errors.New("invalid config syntax")
)

// Config holds user configuration loaded from ~/.config/tourviz/config.
// Zero Timeout and negative MaxRetries mean "not configured".
type Config struct {
	APIURL     string
	APIToken   string
	OutputDir  string
	Timeout    time.Duration
	MaxRetries int
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/tourviz.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tourviz"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "tourviz"), nil
}

// path returns the full path to the config file.
func path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config"), nil
}

// Load reads the configuration file and environment variables.
// Precedence: config file values, then environment variable fallbacks.
// Returns a Config with nothing set if the file doesn't exist (not an error).
func Load() (Config, error) {
	cfg := Config{MaxRetries: -1}

	p, err := path()
	if err != nil {
		return cfg, err
	}

	data, err := parseFile(p)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	// Environment variable fallback (only if not set in config).
	lookup := func(key, env string) string {
		if v := data[key]; v != "" {
			return v
		}
		return strings.TrimSpace(os.Getenv(env))
	}

	cfg.APIURL = lookup(KeyAPIURL, EnvAPIURL)
	cfg.OutputDir = lookup(KeyOutputDir, EnvOutputDir)
	cfg.APIToken = strings.TrimSpace(os.Getenv(EnvAPIToken))

	if v := lookup(KeyTimeout, EnvTimeout); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return cfg, err
		}
		cfg.Timeout = d
	}
	if v := lookup(KeyMaxRetries, EnvMaxRetries); v != "" {
		n, err := parseMaxRetries(v)
		if err != nil {
			return cfg, err
		}
		cfg.MaxRetries = n
	}

	return cfg, nil
}

// Validate checks that value is acceptable for key.
func Validate(key, value string) error {
	switch key {
	case KeyAPIURL:
		return validateAPIURL(value)
	case KeyOutputDir:
		return EnsureOutputDir(value)
	case KeyTimeout:
		_, err := parseTimeout(value)
		return err
	case KeyMaxRetries:
		_, err := parseMaxRetries(value)
		return err
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
}

func validateAPIURL(v string) error {
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s must be an http(s) URL, got %q", ErrInvalidValue, KeyAPIURL, v)
	}
	return nil
}

func parseTimeout(v string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive duration like 10s, got %q", ErrInvalidValue, KeyTimeout, v)
	}
	return d, nil
}

func parseMaxRetries(v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 || n > 10 {
		return 0, fmt.Errorf("%w: %s must be an integer between 0 and 10, got %q", ErrInvalidValue, KeyMaxRetries, v)
	}
	return n, nil
}

// parseFile reads a key=value config file.
// Format: one key=value per line, # comments, empty lines ignored.
func parseFile(p string) (map[string]string, error) {
	f, err := os.Open(p) // #nosec G304 -- config path is constructed from home dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse key=value.
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("%w at line %d: %q", ErrInvalidSyntax, lineNum, line)
		}
		data[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return data, nil
}

// Save writes a single key=value to the config file.
// Creates the config directory and file if they don't exist.
// Preserves existing key=value pairs but discards comments.
func Save(key, value string) error {
	if key == "" || strings.ContainsAny(key, "=\n\r#") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	p, err := path()
	if err != nil {
		return err
	}

	// Ensure config directory exists.
	d := filepath.Dir(p)
	if err := os.MkdirAll(d, 0750); err != nil { // #nosec G301 -- user config dir
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	// Read existing config (if any).
	existing, _ := parseFile(p)
	if existing == nil {
		existing = make(map[string]string)
	}

	existing[key] = value

	return writeFile(p, existing)
}

// writeFile writes the config map to a file, keys sorted.
func writeFile(p string, data map[string]string) error {
	// #nosec G302 G304 -- config file with standard permissions, path from home dir
	f, err := os.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	for _, key := range slices.Sorted(maps.Keys(data)) {
		if _, err := fmt.Fprintf(f, "%s=%s\n", key, data[key]); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	return nil
}

// Get reads a single value from the config file.
// Returns empty string if the key doesn't exist.
func Get(key string) (string, error) {
	p, err := path()
	if err != nil {
		return "", err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	return data[key], nil
}

// List returns all config values as a map.
func List() (map[string]string, error) {
	p, err := path()
	if err != nil {
		return nil, err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}

	return data, nil
}

// ResolveOutputPath resolves the final output path using the following precedence:
//  1. If output is absolute, use it as-is
//  2. If output is relative and outputDir is set, join them
//  3. If output is empty, use defaultName in outputDir (or cwd if no outputDir)
//
// outputDir can come from config or flag.
func ResolveOutputPath(output, outputDir, defaultName string) string {
	if output != "" && filepath.IsAbs(output) {
		return filepath.Clean(output)
	}

	if output != "" {
		if outputDir != "" {
			return filepath.Clean(filepath.Join(outputDir, output))
		}
		return filepath.Clean(output)
	}

	if outputDir != "" {
		return filepath.Clean(filepath.Join(outputDir, defaultName))
	}
	return filepath.Clean(defaultName)
}

// EnsureOutputDir checks that d is usable as output-dir, creating it when
// missing.
func EnsureOutputDir(d string) error {
	if d == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrInvalidValue, KeyOutputDir)
	}

	d = ExpandPath(d)

	info, err := os.Stat(d)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(d, 0750); err != nil { // #nosec G301 -- user output dir
				return fmt.Errorf("cannot create directory: %w", err)
			}
			return nil
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, d)
	}

	// Check if writable by attempting to create a temp file.
	testFile := filepath.Join(d, ".tourviz-write-test")
	f, err := os.Create(testFile) // #nosec G304 -- path is constructed from validated dir
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotWritable, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(testFile)
		return fmt.Errorf("%w: %w", ErrNotWritable, err)
	}
	_ = os.Remove(testFile)

	return nil
}

// ExpandPath expands a leading "~" or "~/" to the user's home directory.
// "~user" forms are returned unchanged.
func ExpandPath(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
}

// Dir returns the configuration directory path (exported for testing).
func Dir() (string, error) {
	return dir()
}

// ParseFile reads a key=value config file (exported for testing).
func ParseFile(p string) (map[string]string, error) {
	return parseFile(p)
}
