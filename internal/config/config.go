package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Bounds on the load profile. These mirror the limits the configuration
// surface has always exposed; Validate enforces them on behalf of the
// engine, which assumes a pre-validated config.
const (
	MaxConcurrentUsers = 100
	MaxRequestsPerUser = 50
	MaxTimeout         = 30 * time.Second
	MaxDelay           = time.Second

	// highLoadWarning is the total-request count above which a warning is
	// printed before the run.
	highLoadWarning = 500
)

type Config struct {
	TargetURL       string            `mapstructure:"target"`
	ConcurrentUsers int               `mapstructure:"users"`
	RequestsPerUser int               `mapstructure:"requests_per_user"`
	Timeout         time.Duration     `mapstructure:"timeout"`
	Delay           time.Duration     `mapstructure:"delay"`
	FollowRedirects bool              `mapstructure:"follow_redirects"`
	PoolLimit       int               `mapstructure:"pool_limit"`
	Rate            int               `mapstructure:"rate"`
	Headers         map[string]string `mapstructure:"headers"`
	UserAgent       string            `mapstructure:"user_agent"`
	JSONOutput      bool              `mapstructure:"json_output"`
	LogErrors       bool              `mapstructure:"log_errors"`
	NoProgress      bool              `mapstructure:"no_progress"`
	Thresholds      []string          `mapstructure:"thresholds"`
	Tracing         TracingConfig     `mapstructure:"tracing"`
	ConfigFile      string            `mapstructure:"-"`
}

// TracingConfig controls optional OpenTelemetry span export.
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"` // "grpc" or "http"
	ServiceName string  `mapstructure:"service_name"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	Insecure    bool    `mapstructure:"insecure"`
	Propagate   bool    `mapstructure:"propagate"`
}

// Enabled reports whether tracing was requested at all.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != "" || t.Propagate
}

// ShouldPropagate reports whether W3C trace headers should be injected into
// outgoing requests.
func (t TracingConfig) ShouldPropagate() bool {
	return t.Propagate
}

// TotalRequests is the number of executions a run dispatches. It is always
// derived from the two factors and never stored independently.
func (c Config) TotalRequests() int {
	return c.ConcurrentUsers * c.RequestsPerUser
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

// Validate checks the load profile before a run. The engine itself performs
// no input validation; rejecting a bad config here is the caller's job.
func (c Config) Validate() error {
	var issues []string

	target := strings.TrimSpace(c.TargetURL)
	switch {
	case target == "":
		issues = append(issues, "target is required (use --help for usage information)")
	case !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://"):
		issues = append(issues, fmt.Sprintf("target %q must start with http:// or https://", target))
	}

	if c.ConcurrentUsers < 1 || c.ConcurrentUsers > MaxConcurrentUsers {
		issues = append(issues, fmt.Sprintf("users must be between 1 and %d", MaxConcurrentUsers))
	}
	if c.RequestsPerUser < 1 || c.RequestsPerUser > MaxRequestsPerUser {
		issues = append(issues, fmt.Sprintf("requests-per-user must be between 1 and %d", MaxRequestsPerUser))
	}
	if c.Timeout < time.Second || c.Timeout > MaxTimeout {
		issues = append(issues, fmt.Sprintf("timeout must be between 1s and %s", MaxTimeout))
	}
	if c.Delay < 0 || c.Delay > MaxDelay {
		issues = append(issues, fmt.Sprintf("delay must be between 0 and %s", MaxDelay))
	}
	if c.PoolLimit < 1 {
		issues = append(issues, "pool-limit must be >= 1")
	}
	if c.Rate < 0 {
		issues = append(issues, "rate must be >= 0")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		issues = append(issues, "tracing sample_rate must be between 0.0 and 1.0")
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}

	if c.TotalRequests() > highLoadWarning {
		fmt.Fprintf(os.Stderr, "WARNING: High load test (%d requests). Ensure you have permission to test the target server.\n", c.TotalRequests())
	}

	return nil
}
