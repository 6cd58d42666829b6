package common

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variables read by LoadConfig.
const (
	EnvUpstreamURL     = "RANDOM_USER_API_URL"
	EnvUpstreamToken   = "RANDOM_USER_TOKEN"
	EnvUpstreamTimeout = "CONTACTS_UPSTREAM_TIMEOUT"
	EnvBatchSize       = "CONTACTS_BATCH_SIZE"
	EnvAddr            = "CONTACTS_ADDR"
	EnvDefaultLimit    = "CONTACTS_DEFAULT_LIMIT"
	EnvLogLevel        = "CONTACTS_LOG_LEVEL"
	EnvLogFormat       = "CONTACTS_LOG_FORMAT"
)

// Defaults applied when neither env nor flags provide a value.
const (
	DefaultAddr        = ":3000"
	DefaultBatchSize   = 100
	DefaultPageLimit   = 10
	DefaultUserAgent   = "nexusbook-contacts/1.0"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	MaxUpstreamBatch   = 5000
	defaultMetricsPath = "/metrics"
	defaultHealthzPath = "/healthz"
)

// Config holds process configuration.
//
// UpstreamURL may be empty: the directory reports ErrUpstreamConfigMissing
// on the first load attempt rather than refusing to start.
type Config struct {
	UpstreamURL     string
	UpstreamToken   string
	UpstreamTimeout time.Duration
	UserAgent       string
	BatchSize       int
	Addr            string
	DefaultLimit    int
	LogLevel        string
	LogFormat       string
	MetricsPath     string
	HealthzPath     string
}

// DefaultConfig returns a Config with every default applied and no upstream URL.
func DefaultConfig() Config {
	return Config{
		UpstreamTimeout: DefaultTimeout,
		UserAgent:       DefaultUserAgent,
		BatchSize:       DefaultBatchSize,
		Addr:            DefaultAddr,
		DefaultLimit:    DefaultPageLimit,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
		MetricsPath:     defaultMetricsPath,
		HealthzPath:     defaultHealthzPath,
	}
}

// LoadConfig returns DefaultConfig overlaid with any values found in the environment.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	cfg.UpstreamURL = os.Getenv(EnvUpstreamURL)
	cfg.UpstreamToken = os.Getenv(EnvUpstreamToken)

	if env := os.Getenv(EnvAddr); env != "" {
		cfg.Addr = env
	}
	if env := os.Getenv(EnvLogLevel); env != "" {
		cfg.LogLevel = env
	}
	if env := os.Getenv(EnvLogFormat); env != "" {
		cfg.LogFormat = env
	}
	if env := os.Getenv(EnvUpstreamTimeout); env != "" {
		d, err := time.ParseDuration(env)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvUpstreamTimeout, err)
		}
		cfg.UpstreamTimeout = d
	}

	var err error
	if cfg.BatchSize, err = intFromEnv(EnvBatchSize, cfg.BatchSize); err != nil {
		return cfg, err
	}
	if cfg.DefaultLimit, err = intFromEnv(EnvDefaultLimit, cfg.DefaultLimit); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the numeric settings. A missing upstream URL is not an error here.
func (c Config) Validate() error {
	var errs []error
	if c.BatchSize < 1 || c.BatchSize > MaxUpstreamBatch {
		errs = append(errs, fmt.Errorf("batch size must be between 1 and %d, got %d", MaxUpstreamBatch, c.BatchSize))
	}
	if c.DefaultLimit < 1 {
		errs = append(errs, fmt.Errorf("default limit must be positive, got %d", c.DefaultLimit))
	}
	if c.UpstreamTimeout <= 0 {
		errs = append(errs, fmt.Errorf("upstream timeout must be positive, got %s", c.UpstreamTimeout))
	}
	if c.Addr == "" {
		errs = append(errs, errors.New("listen address is required"))
	}
	return errors.Join(errs...)
}

func intFromEnv(key string, fallback int) (int, error) {
	env := os.Getenv(key)
	if env == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(env)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
