package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/config"
)

// validConfigKeys lists all supported configuration keys.
var validConfigKeys = config.Keys

// envFallbacks maps each config key to its environment variable.
var envFallbacks = map[string]string{
	config.KeyAPIURL:     config.EnvAPIURL,
	config.KeyOutputDir:  config.EnvOutputDir,
	config.KeyTimeout:    config.EnvTimeout,
	config.KeyMaxRetries: config.EnvMaxRetries,
}

// ConfigCmd creates the config command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Configuration is stored in ~/.config/tourviz/config.
Settings can also be overridden via environment variables.

Supported settings:
  api-url       Analytics API base URL (env: TOURVIZ_API_URL)
  output-dir    Default directory for output files (env: TOURVIZ_OUTPUT_DIR)
  timeout       Per-attempt request timeout, e.g. 10s (env: TOURVIZ_TIMEOUT)
  max-retries   Retries after a failed attempt, 0-10 (env: TOURVIZ_MAX_RETRIES)

The API token is read from TOURVIZ_API_TOKEN only and never stored.`,
		Example: `  tourviz config set api-url https://api.example.com
  tourviz config set output-dir ~/Documents/charts
  tourviz config get timeout
  tourviz config list`,
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))

	return cmd
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

Supported keys:
  api-url       Analytics API base URL (http or https)
  output-dir    Default directory for output files
  timeout       Per-attempt request timeout
  max-retries   Retries after a failed attempt

The output directory will be created if it doesn't exist.`,
		Example: `  tourviz config set api-url http://localhost:8080/api
  tourviz config set max-retries 5`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			return runConfigSet(env, key, value)
		},
	}
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value.

Prints the value to stdout, or nothing if not set.`,
		Example: `  tourviz config get api-url`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(env, args[0])
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List all configuration values.

Shows both values from the config file and environment variable overrides.`,
		Example: `  tourviz config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(env)
		},
	}
}

// runConfigSet handles the "config set" command.
func runConfigSet(env *Env, key, value string) error {
	if !isValidConfigKey(key) {
		return fmt.Errorf("unknown config key %q (valid keys: %v)", key, validConfigKeys)
	}

	// Store the expanded path for consistency.
	if key == config.KeyOutputDir {
		value = config.ExpandPath(value)
	}

	if err := config.Validate(key, value); err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}

	if err := config.Save(key, value); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Set %s = %s\n", key, value)
	return nil
}

// runConfigGet handles the "config get" command.
func runConfigGet(env *Env, key string) error {
	if !isValidConfigKey(key) {
		return fmt.Errorf("unknown config key %q (valid keys: %v)", key, validConfigKeys)
	}

	value, err := config.Get(key)
	if err != nil {
		return err
	}

	if value == "" {
		value = env.Getenv(envFallbacks[key])
	}

	if value != "" {
		fmt.Fprintln(env.Stdout, value)
	}

	return nil
}

// runConfigList handles the "config list" command.
func runConfigList(env *Env) error {
	data, err := config.List()
	if err != nil {
		return err
	}

	// Add environment variable values for completeness.
	for _, key := range validConfigKeys {
		if _, ok := data[key]; ok {
			continue
		}
		if envVal := env.Getenv(envFallbacks[key]); envVal != "" {
			data[key] = envVal + " (from env)"
		}
	}

	if len(data) == 0 {
		fmt.Fprintln(env.Stdout, "No configuration set.")
		fmt.Fprintln(env.Stdout, "\nAvailable settings:")
		for _, key := range validConfigKeys {
			fmt.Fprintf(env.Stdout, "  %s\n", key)
		}
		return nil
	}

	for _, key := range slices.Sorted(maps.Keys(data)) {
		fmt.Fprintf(env.Stdout, "%s=%s\n", key, data[key])
	}

	return nil
}

// isValidConfigKey checks if a key is a valid configuration key.
func isValidConfigKey(key string) bool {
	return slices.Contains(validConfigKeys, key)
}
