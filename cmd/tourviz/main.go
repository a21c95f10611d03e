package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/chart"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/cli"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/config"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/dashboard"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/fetch"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/interrupt"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/logging"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK           = 0
	ExitGeneral      = 1
	ExitUsage        = 2
	ExitSetup        = 3
	ExitValidation   = 4
	ExitAccessDenied = 5
	ExitFetch        = 6
	ExitInterrupt    = interrupt.ExitInterrupt
)

// Logging environment variables.
const (
	EnvLogLevel  = "TOURVIZ_LOG_LEVEL"
	EnvLogFormat = "TOURVIZ_LOG_FORMAT"
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	logging.Init(logging.Config{
		Level:  os.Getenv(EnvLogLevel),
		Format: os.Getenv(EnvLogFormat),
		Output: os.Stderr,
	})

	// First Ctrl+C cancels the context, a second one forces exit.
	handler, ctx := interrupt.NewHandler(context.Background())
	defer handler.Stop()

	// Create the CLI environment with production defaults.
	env := cli.DefaultEnv()

	if err := newRootCmd(env).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		handler.Stop()
		os.Exit(exitCode(err))
	}
}

// newRootCmd builds the root command and its subcommands.
func newRootCmd(env *cli.Env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "tourviz",
		Short:   "Render tourism analytics charts and dashboards",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(cli.RenderCmd(env))
	rootCmd.AddCommand(cli.DashboardCmd(env))
	rootCmd.AddCommand(cli.ServeCmd(env))
	rootCmd.AddCommand(cli.ConfigCmd(env))

	return rootCmd
}

// exitCode maps errors to process exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	// Check for context cancellation (interrupt).
	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	// Setup errors (ExitSetup = 3).
	if errors.Is(err, cli.ErrAPIURLMissing) || errors.Is(err, dashboard.ErrNoBaseURL) {
		return ExitSetup
	}

	// Validation errors (ExitValidation = 4).
	if errors.Is(err, chart.ErrUnknownKind) || errors.Is(err, cli.ErrInvalidSeries) ||
		errors.Is(err, cli.ErrUnsupportedFormat) || errors.Is(err, cli.ErrFileNotFound) ||
		errors.Is(err, cli.ErrOutputExists) || errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrNotDirectory) || errors.Is(err, config.ErrNotWritable) {
		return ExitValidation
	}

	// Access denied (ExitAccessDenied = 5), ahead of other fetch failures
	// so a joined dashboard error reports the credential problem.
	if errors.Is(err, fetch.ErrAccessDenied) {
		return ExitAccessDenied
	}

	// Fetch failures (ExitFetch = 6).
	if errors.Is(err, fetch.ErrRetriesExhausted) || errors.Is(err, fetch.ErrTimeout) ||
		errors.Is(err, fetch.ErrNetwork) || errors.Is(err, fetch.ErrServer) ||
		errors.Is(err, fetch.ErrInvalidResponseFormat) || errors.Is(err, dashboard.ErrCircuitOpen) {
		return ExitFetch
	}

	// Usage errors (ExitUsage = 2): Cobra flag/arg parsing errors.
	// Cobra doesn't expose typed errors, so we check for known error message
	// patterns. Checked last: a server error carries the response body, which
	// may contain any of these phrases.
	if isCobraUsageError(err) {
		return ExitUsage
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings that indicate Cobra usage errors.
// Cobra doesn't expose typed errors, so string matching is the only reliable approach.
var cobraUsageErrorPatterns = []string{
	"required flag",             // Missing required flag
	"unknown flag",              // Flag doesn't exist
	"unknown shorthand",         // Short flag doesn't exist
	"unknown command",           // Subcommand doesn't exist
	"flag needs an argument",    // Flag provided without value
	"invalid argument",          // Invalid flag value type
	"if any flags in the group", // Mutually exclusive flag violation
	"accepts ",                  // Wrong number of arguments (e.g., "accepts 1 arg(s)")
	"requires at least",         // Too few arguments
	"requires at most",          // Too many arguments
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
