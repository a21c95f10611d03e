package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/config"
)

// ---------------------------------------------------------------------------
// Unit tests for helper functions
// ---------------------------------------------------------------------------

func TestIsValidConfigKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      string
		expected bool
	}{
		{"valid api url", config.KeyAPIURL, true},
		{"valid output dir", config.KeyOutputDir, true},
		{"valid timeout", config.KeyTimeout, true},
		{"valid max retries", config.KeyMaxRetries, true},
		{"token is env only", "api-token", false},
		{"invalid random key", "random-key", false},
		{"empty string", "", false},
		{"wrong format with underscore", "output_dir", false}, // Wrong format (underscore vs dash)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := IsValidConfigKey(tt.key)
			if result != tt.expected {
				t.Errorf("IsValidConfigKey(%q) = %v, want %v", tt.key, result, tt.expected)
			}
		})
	}
}

func TestValidConfigKeys_HaveEnvFallbacks(t *testing.T) {
	t.Parallel()

	for _, key := range ValidConfigKeys {
		if envFallbacks[key] == "" {
			t.Errorf("config key %q has no environment fallback", key)
		}
	}
}

// configTestEnv returns an Env for config commands reading the real
// environment through getenv.
func configTestEnv(getenv func(string) string) *Env {
	return &Env{
		Stdout: &syncBuffer{},
		Stderr: &syncBuffer{},
		Getenv: getenv,
	}
}

// ---------------------------------------------------------------------------
// Tests for runConfigSet
// ---------------------------------------------------------------------------

func TestRunConfigSet_ValidKey(t *testing.T) {
	// Note: This test modifies the real config file
	// We use t.Setenv to redirect config to temp dir
	// Cannot use t.Parallel() with t.Setenv()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	outputDir := t.TempDir()
	env := configTestEnv(os.Getenv)

	err := RunConfigSet(env, config.KeyOutputDir, outputDir)
	if err != nil {
		t.Fatalf("RunConfigSet(%q, %q) unexpected error: %v", config.KeyOutputDir, outputDir, err)
	}

	// Verify success message
	output := stderrOf(env)
	if !strings.Contains(output, "Set") || !strings.Contains(output, config.KeyOutputDir) {
		t.Errorf("RunConfigSet(%q, %q) output = %q, want containing 'Set output-dir'", config.KeyOutputDir, outputDir, output)
	}

	// Verify config was saved
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() unexpected error: %v", err)
	}
	if cfg.OutputDir != outputDir {
		t.Errorf("config.Load().OutputDir = %q, want %q", cfg.OutputDir, outputDir)
	}
}

func TestRunConfigSet_FetchSettings(t *testing.T) {
	// Cannot use t.Parallel() with t.Setenv()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(config.EnvTimeout, "")
	t.Setenv(config.EnvMaxRetries, "")
	env := configTestEnv(os.Getenv)

	for key, value := range map[string]string{
		config.KeyAPIURL:     "https://api.example.com/v1",
		config.KeyTimeout:    "5s",
		config.KeyMaxRetries: "2",
	} {
		if err := RunConfigSet(env, key, value); err != nil {
			t.Fatalf("RunConfigSet(%q, %q) unexpected error: %v", key, value, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() unexpected error: %v", err)
	}
	if cfg.APIURL != "https://api.example.com/v1" || cfg.Timeout.String() != "5s" || cfg.MaxRetries != 2 {
		t.Errorf("config.Load() = %+v, want saved fetch settings", cfg)
	}
}

func TestRunConfigSet_InvalidKey(t *testing.T) {
	t.Parallel()

	err := RunConfigSet(configTestEnv(os.Getenv), "invalid-key", "value")
	if err == nil {
		t.Fatal("RunConfigSet(\"invalid-key\", \"value\") expected error, got nil")
	}
	if !strings.Contains(err.Error(), "unknown") {
		t.Errorf("RunConfigSet(\"invalid-key\", \"value\") error = %q, want containing %q", err.Error(), "unknown")
	}
}

func TestRunConfigSet_InvalidValues(t *testing.T) {
	// Cannot use t.Parallel() with t.Setenv()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	tests := []struct {
		key   string
		value string
	}{
		{config.KeyAPIURL, "ftp://example.com"},
		{config.KeyAPIURL, "not a url"},
		{config.KeyTimeout, "forever"},
		{config.KeyTimeout, "-1s"},
		{config.KeyMaxRetries, "11"},
		{config.KeyMaxRetries, "many"},
	}

	for _, tt := range tests {
		err := RunConfigSet(configTestEnv(os.Getenv), tt.key, tt.value)
		if err == nil {
			t.Errorf("RunConfigSet(%q, %q) expected error, got nil", tt.key, tt.value)
			continue
		}
		if !strings.Contains(err.Error(), "invalid "+tt.key) {
			t.Errorf("RunConfigSet(%q, %q) error = %q, want containing %q", tt.key, tt.value, err, "invalid "+tt.key)
		}
	}

	if data, _ := config.List(); len(data) != 0 {
		t.Errorf("invalid values were saved: %v", data)
	}
}

func TestRunConfigSet_InvalidOutputDir(t *testing.T) {
	// Cannot use t.Parallel() with t.Setenv()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// Create a file (not directory) to cause validation failure
	filePath := writeTestFile(t, "not-a-dir", "file")

	err := RunConfigSet(configTestEnv(os.Getenv), config.KeyOutputDir, filePath)
	if err == nil {
		t.Fatalf("RunConfigSet(%q, %q) expected error, got nil", config.KeyOutputDir, filePath)
	}
	if !strings.Contains(err.Error(), "invalid output-dir") {
		t.Errorf("RunConfigSet(%q, %q) error = %q, want containing %q", config.KeyOutputDir, filePath, err.Error(), "invalid output-dir")
	}
}

// ---------------------------------------------------------------------------
// Tests for runConfigGet
// ---------------------------------------------------------------------------

func TestRunConfigGet_ValidKey(t *testing.T) {
	// Cannot use t.Parallel() with t.Setenv()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	outputDir := t.TempDir()
	if err := config.Save(config.KeyOutputDir, outputDir); err != nil {
		t.Fatalf("config.Save(%q, %q) unexpected error: %v", config.KeyOutputDir, outputDir, err)
	}

	env := configTestEnv(os.Getenv)
	if err := RunConfigGet(env, config.KeyOutputDir); err != nil {
		t.Fatalf("RunConfigGet(%q) unexpected error: %v", config.KeyOutputDir, err)
	}
	if got := stdoutOf(env); got != outputDir+"\n" {
		t.Errorf("RunConfigGet(%q) stdout = %q, want %q", config.KeyOutputDir, got, outputDir+"\n")
	}
}

func TestRunConfigGet_InvalidKey(t *testing.T) {
	t.Parallel()

	err := RunConfigGet(configTestEnv(os.Getenv), "invalid-key")
	if err == nil {
		t.Fatal("RunConfigGet(\"invalid-key\") expected error, got nil")
	}
	if !strings.Contains(err.Error(), "unknown") {
		t.Errorf("RunConfigGet(\"invalid-key\") error = %q, want containing %q", err.Error(), "unknown")
	}
}

func TestRunConfigGet_EnvFallback(t *testing.T) {
	// Cannot use t.Parallel() with t.Setenv()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	env := configTestEnv(staticEnv(map[string]string{
		config.EnvAPIURL: "http://from-env.test",
	}))

	// No config file - should use env fallback
	if err := RunConfigGet(env, config.KeyAPIURL); err != nil {
		t.Fatalf("RunConfigGet(%q) unexpected error: %v", config.KeyAPIURL, err)
	}
	if got := stdoutOf(env); got != "http://from-env.test\n" {
		t.Errorf("RunConfigGet(%q) stdout = %q, want env value", config.KeyAPIURL, got)
	}
}

func TestRunConfigGet_Unset(t *testing.T) {
	// Cannot use t.Parallel() with t.Setenv()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	env := configTestEnv(staticEnv(nil))
	if err := RunConfigGet(env, config.KeyTimeout); err != nil {
		t.Fatalf("RunConfigGet(%q) unexpected error: %v", config.KeyTimeout, err)
	}
	if got := stdoutOf(env); got != "" {
		t.Errorf("RunConfigGet(%q) stdout = %q, want empty", config.KeyTimeout, got)
	}
}

// ---------------------------------------------------------------------------
// Tests for runConfigList
// ---------------------------------------------------------------------------

func TestRunConfigList_WithConfig(t *testing.T) {
	// Cannot use t.Parallel() with t.Setenv()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := config.Save(config.KeyTimeout, "5s"); err != nil {
		t.Fatalf("config.Save() unexpected error: %v", err)
	}
	if err := config.Save(config.KeyAPIURL, "http://api.test"); err != nil {
		t.Fatalf("config.Save() unexpected error: %v", err)
	}

	env := configTestEnv(staticEnv(nil))
	if err := RunConfigList(env); err != nil {
		t.Fatalf("RunConfigList() unexpected error: %v", err)
	}

	want := "api-url=http://api.test\ntimeout=5s\n"
	if got := stdoutOf(env); got != want {
		t.Errorf("RunConfigList() stdout = %q, want %q (sorted)", got, want)
	}
}

func TestRunConfigList_EmptyConfig(t *testing.T) {
	// Cannot use t.Parallel() with t.Setenv()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	env := configTestEnv(func(string) string { return "" }) // No env vars
	if err := RunConfigList(env); err != nil {
		t.Fatalf("RunConfigList() unexpected error: %v", err)
	}

	out := stdoutOf(env)
	if !strings.Contains(out, "No configuration set.") {
		t.Errorf("RunConfigList() stdout = %q, want 'No configuration set.'", out)
	}
	for _, key := range ValidConfigKeys {
		if !strings.Contains(out, key) {
			t.Errorf("RunConfigList() stdout missing available key %q", key)
		}
	}
}

func TestRunConfigList_WithEnvOverride(t *testing.T) {
	// Cannot use t.Parallel() with t.Setenv()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	envOutputDir := t.TempDir()
	env := configTestEnv(staticEnv(map[string]string{
		config.EnvOutputDir:  envOutputDir,
		config.EnvMaxRetries: "1",
	}))

	if err := RunConfigList(env); err != nil {
		t.Fatalf("RunConfigList() unexpected error: %v", err)
	}

	out := stdoutOf(env)
	if !strings.Contains(out, "output-dir="+envOutputDir+" (from env)") {
		t.Errorf("RunConfigList() stdout = %q, want output-dir from env", out)
	}
	if !strings.Contains(out, "max-retries=1 (from env)") {
		t.Errorf("RunConfigList() stdout = %q, want max-retries from env", out)
	}
}

// ---------------------------------------------------------------------------
// Tests for ConfigCmd (Cobra integration)
// ---------------------------------------------------------------------------

func TestConfigCmd_HasSubcommands(t *testing.T) {
	t.Parallel()

	env, _ := testEnv()
	cmd := ConfigCmd(env)

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}

	for _, name := range []string{"set", "get", "list"} {
		if !subcommands[name] {
			t.Errorf("expected subcommand %q", name)
		}
	}
}

func TestConfigCmd_ArgCounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"set without args", []string{"set"}},
		{"set without value", []string{"set", "key"}},
		{"get without key", []string{"get"}},
		{"list with args", []string{"list", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _ := testEnv()
			cmd := ConfigCmd(env)
			cmd.SetArgs(tt.args)
			cmd.SetOut(&syncBuffer{})
			cmd.SetErr(&syncBuffer{})

			if err := cmd.Execute(); err == nil {
				t.Fatalf("ConfigCmd.Execute() with args %q expected error, got nil", tt.args)
			}
		})
	}
}

func TestConfigCmd_ListNoArgs(t *testing.T) {
	// Cannot use t.Parallel() with t.Setenv()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	env, _ := testEnv()
	cmd := ConfigCmd(env)
	cmd.SetArgs([]string{"list"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("ConfigCmd.Execute() with args [\"list\"] unexpected error: %v", err)
	}
	if !strings.Contains(stdoutOf(env), "api-url="+testAPIURL+" (from env)") {
		t.Errorf("config list stdout = %q, want api-url from env", stdoutOf(env))
	}
}

func TestConfigCmd_SetPathIsAbsolute(t *testing.T) {
	// Cannot use t.Parallel() with t.Setenv()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dir := t.TempDir()
	env := configTestEnv(os.Getenv)
	if err := RunConfigSet(env, config.KeyOutputDir, dir); err != nil {
		t.Fatalf("RunConfigSet() unexpected error: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() unexpected error: %v", err)
	}
	if !filepath.IsAbs(cfg.OutputDir) {
		t.Errorf("config.Load().OutputDir = %q, want absolute path", cfg.OutputDir)
	}
}
