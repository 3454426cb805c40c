package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const defaultUserAgent = "stressforge/1.0"

// Loader handles loading configuration from files and command-line arguments.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help flag.
var ErrHelpRequested = errors.New("help requested")

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments and an optional configuration file to
// produce a Config. Flags override file settings.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}

	configPath := flagSet.Lookup("config").Value.String()
	if len(args) == 0 && configPath == "" {
		displayHelp(cmd)
		return nil, ErrHelpRequested
	}

	cfgViper := viper.New()
	if configPath != "" {
		cfgViper.SetConfigFile(configPath)
		if err := cfgViper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := defaultConfig()
	cfg.ConfigFile = configPath

	if err := applyConfigSettings(cfg, cfgViper.AllSettings()); err != nil {
		return nil, err
	}

	if err := applyFlagOverrides(cfg, flagSet); err != nil {
		return nil, err
	}

	cfg.TargetURL = strings.TrimSpace(cfg.TargetURL)
	if cfg.Headers == nil {
		cfg.Headers = map[string]string{}
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		ConcurrentUsers: 10,
		RequestsPerUser: 5,
		Timeout:         10 * time.Second,
		Delay:           100 * time.Millisecond,
		FollowRedirects: true,
		PoolLimit:       100,
		Headers:         map[string]string{},
		UserAgent:       defaultUserAgent,
		Tracing: TracingConfig{
			Protocol:   "grpc",
			SampleRate: 1.0,
		},
	}
}

// applyConfigSettings folds file settings into the config. Keys match the
// mapstructure tags on Config; lookups are case-insensitive and accept a few
// spelling variants for convenience.
func applyConfigSettings(cfg *Config, settings map[string]interface{}) error {
	if len(settings) == 0 {
		return nil
	}

	if val, ok := lookupSetting(settings, "target", "url"); ok {
		s, err := asString(val)
		if err != nil {
			return fmt.Errorf("target: %w", err)
		}
		cfg.TargetURL = s
	}
	if val, ok := lookupSetting(settings, "users", "concurrent_users"); ok {
		n, err := asInt(val)
		if err != nil {
			return fmt.Errorf("users: %w", err)
		}
		cfg.ConcurrentUsers = n
	}
	if val, ok := lookupSetting(settings, "requests_per_user", "requestsPerUser"); ok {
		n, err := asInt(val)
		if err != nil {
			return fmt.Errorf("requests_per_user: %w", err)
		}
		cfg.RequestsPerUser = n
	}
	if val, ok := lookupSetting(settings, "timeout"); ok {
		d, err := asDuration(val)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if val, ok := lookupSetting(settings, "delay"); ok {
		d, err := asDuration(val)
		if err != nil {
			return fmt.Errorf("delay: %w", err)
		}
		cfg.Delay = d
	}
	if val, ok := lookupSetting(settings, "follow_redirects", "followRedirects"); ok {
		b, err := asBool(val)
		if err != nil {
			return fmt.Errorf("follow_redirects: %w", err)
		}
		cfg.FollowRedirects = b
	}
	if val, ok := lookupSetting(settings, "pool_limit", "poolLimit"); ok {
		n, err := asInt(val)
		if err != nil {
			return fmt.Errorf("pool_limit: %w", err)
		}
		cfg.PoolLimit = n
	}
	if val, ok := lookupSetting(settings, "rate"); ok {
		n, err := asInt(val)
		if err != nil {
			return fmt.Errorf("rate: %w", err)
		}
		cfg.Rate = n
	}
	if val, ok := lookupSetting(settings, "headers"); ok {
		headers, err := asStringMap(val)
		if err != nil {
			return fmt.Errorf("headers: %w", err)
		}
		for key, value := range headers {
			cfg.Headers[key] = value
		}
	}
	if val, ok := lookupSetting(settings, "user_agent", "userAgent"); ok {
		s, err := asString(val)
		if err != nil {
			return fmt.Errorf("user_agent: %w", err)
		}
		cfg.UserAgent = s
	}
	if val, ok := lookupSetting(settings, "json_output", "jsonOutput"); ok {
		b, err := asBool(val)
		if err != nil {
			return fmt.Errorf("json_output: %w", err)
		}
		cfg.JSONOutput = b
	}
	if val, ok := lookupSetting(settings, "log_errors", "logErrors"); ok {
		b, err := asBool(val)
		if err != nil {
			return fmt.Errorf("log_errors: %w", err)
		}
		cfg.LogErrors = b
	}
	if val, ok := lookupSetting(settings, "no_progress", "noProgress"); ok {
		b, err := asBool(val)
		if err != nil {
			return fmt.Errorf("no_progress: %w", err)
		}
		cfg.NoProgress = b
	}
	if val, ok := lookupSetting(settings, "thresholds"); ok {
		list, err := asStringSlice(val)
		if err != nil {
			return fmt.Errorf("thresholds: %w", err)
		}
		cfg.Thresholds = list
	}
	if val, ok := lookupSetting(settings, "tracing"); ok {
		if err := applyTracingSettings(&cfg.Tracing, val); err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
	}

	return nil
}

func applyTracingSettings(cfg *TracingConfig, value interface{}) error {
	section, ok := value.(map[string]interface{})
	if !ok {
		return fmt.Errorf("expected a mapping, got %T", value)
	}

	if val, ok := lookupSetting(section, "endpoint"); ok {
		s, err := asString(val)
		if err != nil {
			return fmt.Errorf("endpoint: %w", err)
		}
		cfg.Endpoint = s
	}
	if val, ok := lookupSetting(section, "protocol"); ok {
		s, err := asString(val)
		if err != nil {
			return fmt.Errorf("protocol: %w", err)
		}
		cfg.Protocol = s
	}
	if val, ok := lookupSetting(section, "service_name", "serviceName"); ok {
		s, err := asString(val)
		if err != nil {
			return fmt.Errorf("service_name: %w", err)
		}
		cfg.ServiceName = s
	}
	if val, ok := lookupSetting(section, "sample_rate", "sampleRate"); ok {
		f, err := asFloat64(val)
		if err != nil {
			return fmt.Errorf("sample_rate: %w", err)
		}
		cfg.SampleRate = f
	}
	if val, ok := lookupSetting(section, "insecure"); ok {
		b, err := asBool(val)
		if err != nil {
			return fmt.Errorf("insecure: %w", err)
		}
		cfg.Insecure = b
	}
	if val, ok := lookupSetting(section, "propagate"); ok {
		b, err := asBool(val)
		if err != nil {
			return fmt.Errorf("propagate: %w", err)
		}
		cfg.Propagate = b
	}
	return nil
}
