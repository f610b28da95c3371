// Package config loads the dashboard server configuration from a YAML file and environment variables.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values for the dashboard server.
type Config struct {
	// HTTP server port
	HTTPPort int

	// debug, info, warn or error
	LogLevel string

	// Load sample data at startup; SeedFile overrides the built-in set
	SeedEnabled bool
	SeedFile    string

	// Serve the legacy route aliases (/api/metrics, /api/pipeline/current, ...)
	LegacyRoutes bool

	CORSAllowedOrigins []string

	// Requests per second across the whole server; 0 means unlimited
	RateLimit      float64
	RateLimitBurst int

	MetricsEnabled bool

	// OTLP gRPC collector address; empty disables tracing
	OTELEndpoint     string
	ServiceName      string
	TraceSampleRatio float64

	ShutdownTimeout time.Duration
}

var logLevels = []string{"debug", "info", "warn", "error"}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"http_port":            "PORT",
	"log_level":            "LOG_LEVEL",
	"seed_enabled":         "SEED_ENABLED",
	"seed_file":            "SEED_FILE",
	"legacy_routes":        "LEGACY_ROUTES",
	"cors_allowed_origins": "CORS_ALLOWED_ORIGINS",
	"rate_limit":           "RATE_LIMIT",
	"rate_limit_burst":     "RATE_LIMIT_BURST",
	"metrics_enabled":      "METRICS_ENABLED",
	"otel_endpoint":        "OTEL_EXPORTER_OTLP_ENDPOINT",
	"service_name":         "SERVICE_NAME",
	"trace_sample_ratio":   "OTEL_TRACES_SAMPLER_ARG",
	"shutdown_timeout":     "SHUTDOWN_TIMEOUT",
}

// Load reads configuration with precedence env > file > defaults.
// An empty path looks for devsecboard.yaml in the working directory and tolerates its absence;
// an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("http_port", 5000)
	v.SetDefault("log_level", "info")
	v.SetDefault("seed_enabled", true)
	v.SetDefault("seed_file", "")
	v.SetDefault("legacy_routes", true)
	v.SetDefault("cors_allowed_origins", []string{"*"})
	v.SetDefault("rate_limit", 0)
	v.SetDefault("rate_limit_burst", 20)
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("otel_endpoint", "")
	v.SetDefault("service_name", "devsecboard")
	v.SetDefault("trace_sample_ratio", 1.0)
	v.SetDefault("shutdown_timeout", 10*time.Second)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("devsecboard")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{
		HTTPPort:           v.GetInt("http_port"),
		LogLevel:           strings.ToLower(v.GetString("log_level")),
		SeedEnabled:        v.GetBool("seed_enabled"),
		SeedFile:           v.GetString("seed_file"),
		LegacyRoutes:       v.GetBool("legacy_routes"),
		CORSAllowedOrigins: splitList(v.GetStringSlice("cors_allowed_origins")),
		RateLimit:          v.GetFloat64("rate_limit"),
		RateLimitBurst:     v.GetInt("rate_limit_burst"),
		MetricsEnabled:     v.GetBool("metrics_enabled"),
		OTELEndpoint:       v.GetString("otel_endpoint"),
		ServiceName:        v.GetString("service_name"),
		TraceSampleRatio:   v.GetFloat64("trace_sample_ratio"),
		ShutdownTimeout:    v.GetDuration("shutdown_timeout"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("http_port must be between 1 and 65535 (env: PORT), got %d", c.HTTPPort)
	}
	if !slices.Contains(logLevels, c.LogLevel) {
		return fmt.Errorf("log_level must be one of %s (env: LOG_LEVEL), got %q", strings.Join(logLevels, ", "), c.LogLevel)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative (env: RATE_LIMIT)")
	}
	if c.RateLimit > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("rate_limit_burst must be positive when rate_limit is set (env: RATE_LIMIT_BURST)")
	}
	if c.TraceSampleRatio < 0 || c.TraceSampleRatio > 1 {
		return fmt.Errorf("trace_sample_ratio must be between 0 and 1 (env: OTEL_TRACES_SAMPLER_ARG)")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive (env: SHUTDOWN_TIMEOUT)")
	}
	return nil
}

// splitList accepts both YAML lists and comma separated env values.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
