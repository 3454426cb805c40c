package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// RegisterFlags registers all CLI flags to a cobra command.
func RegisterFlags(cmd *cobra.Command) {
	configureFlags(cmd.Flags())
}

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stressforge",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Core request flags
	flags.String("target", "", "Target URL to load test (http:// or https://)")
	flags.StringSlice("header", nil, "Additional request header in key=value form (repeatable)")
	flags.String("user-agent", defaultUserAgent, "User-Agent header for outgoing requests")
	flags.Bool("follow-redirects", true, "Follow HTTP redirects")

	// Load profile flags
	flags.IntP("users", "u", 10, "Number of concurrent virtual users (1-100)")
	flags.IntP("requests-per-user", "n", 5, "Requests issued per user (1-50)")
	flags.Duration("timeout", 10*time.Second, "Per-request timeout (1s-30s)")
	flags.Duration("delay", 100*time.Millisecond, "Delay injected before each request (0-1s)")
	flags.Int("pool-limit", 100, "Ceiling on concurrent outbound connections")
	flags.IntP("rate", "r", 0, "Requests per second limit (0 means unlimited)")

	// Output flags
	flags.Bool("json-output", false, "Emit the summary as JSON")
	flags.Bool("log-errors", false, "Log each failed request to stderr")
	flags.Bool("no-progress", false, "Disable the live progress line")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")

	// Threshold flags
	flags.StringSlice("threshold", nil, "Performance thresholds (repeatable, e.g. 'latency:p95 < 500')")

	// Tracing flags
	flags.String("otlp-endpoint", "", "OTLP endpoint for span export (enables tracing)")
	flags.String("otlp-protocol", "grpc", "OTLP transport: 'grpc' or 'http'")
	flags.Float64("trace-sample-rate", 1.0, "Trace sampling rate between 0.0 and 1.0")
	flags.Bool("otlp-insecure", false, "Skip TLS for the OTLP exporter")
	flags.Bool("trace-propagate", false, "Inject W3C trace headers into requests")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n\nFlags:\n", cmd.UseLine())
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config,
// overriding values from the config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("target") {
		val, err := fs.GetString("target")
		if err != nil {
			return err
		}
		cfg.TargetURL = strings.TrimSpace(val)
	}
	if fs.Changed("header") {
		vals, err := fs.GetStringSlice("header")
		if err != nil {
			return err
		}
		headers, err := parseHeaderFlags(vals)
		if err != nil {
			return err
		}
		for key, value := range headers {
			cfg.Headers[key] = value
		}
	}
	if fs.Changed("user-agent") {
		val, err := fs.GetString("user-agent")
		if err != nil {
			return err
		}
		cfg.UserAgent = val
	}
	if fs.Changed("follow-redirects") {
		val, err := fs.GetBool("follow-redirects")
		if err != nil {
			return err
		}
		cfg.FollowRedirects = val
	}
	if fs.Changed("users") {
		val, err := fs.GetInt("users")
		if err != nil {
			return err
		}
		cfg.ConcurrentUsers = val
	}
	if fs.Changed("requests-per-user") {
		val, err := fs.GetInt("requests-per-user")
		if err != nil {
			return err
		}
		cfg.RequestsPerUser = val
	}
	if fs.Changed("timeout") {
		val, err := fs.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = val
	}
	if fs.Changed("delay") {
		val, err := fs.GetDuration("delay")
		if err != nil {
			return err
		}
		cfg.Delay = val
	}
	if fs.Changed("pool-limit") {
		val, err := fs.GetInt("pool-limit")
		if err != nil {
			return err
		}
		cfg.PoolLimit = val
	}
	if fs.Changed("rate") {
		val, err := fs.GetInt("rate")
		if err != nil {
			return err
		}
		cfg.Rate = val
	}
	if fs.Changed("json-output") {
		val, err := fs.GetBool("json-output")
		if err != nil {
			return err
		}
		cfg.JSONOutput = val
	}
	if fs.Changed("log-errors") {
		val, err := fs.GetBool("log-errors")
		if err != nil {
			return err
		}
		cfg.LogErrors = val
	}
	if fs.Changed("no-progress") {
		val, err := fs.GetBool("no-progress")
		if err != nil {
			return err
		}
		cfg.NoProgress = val
	}
	if fs.Changed("threshold") {
		vals, err := fs.GetStringSlice("threshold")
		if err != nil {
			return err
		}
		cfg.Thresholds = vals
	}
	if fs.Changed("otlp-endpoint") {
		val, err := fs.GetString("otlp-endpoint")
		if err != nil {
			return err
		}
		cfg.Tracing.Endpoint = strings.TrimSpace(val)
	}
	if fs.Changed("otlp-protocol") {
		val, err := fs.GetString("otlp-protocol")
		if err != nil {
			return err
		}
		cfg.Tracing.Protocol = val
	}
	if fs.Changed("trace-sample-rate") {
		val, err := fs.GetFloat64("trace-sample-rate")
		if err != nil {
			return err
		}
		cfg.Tracing.SampleRate = val
	}
	if fs.Changed("otlp-insecure") {
		val, err := fs.GetBool("otlp-insecure")
		if err != nil {
			return err
		}
		cfg.Tracing.Insecure = val
	}
	if fs.Changed("trace-propagate") {
		val, err := fs.GetBool("trace-propagate")
		if err != nil {
			return err
		}
		cfg.Tracing.Propagate = val
	}
	return nil
}

// parseHeaderFlags converts repeated key=value flags into a header map.
func parseHeaderFlags(values []string) (map[string]string, error) {
	headers := make(map[string]string, len(values))
	for _, raw := range values {
		key, value, found := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("invalid header %q (expected key=value)", raw)
		}
		headers[key] = strings.TrimSpace(value)
	}
	return headers, nil
}
