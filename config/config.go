package config

import (
	"time"

	"github.com/kbukum/injex/logger"
	"github.com/kbukum/injex/validation"
)

// Environments accepted by Config.Environment.
var Environments = []string{"development", "staging", "production"}

// Config is the configuration of a service built around an injex registry.
//
// Projects extend it by embedding:
//
//	type MyConfig struct {
//	    config.Config `yaml:",inline" mapstructure:",squash"`
//	    Database DatabaseConfig `yaml:"database" mapstructure:"database"`
//	}
type Config struct {
	Name        string          `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string          `yaml:"environment" mapstructure:"environment"`
	Version     string          `yaml:"version" mapstructure:"version"`
	Debug       bool            `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config   `yaml:"logging" mapstructure:"logging"`
	Registry    RegistryConfig  `yaml:"registry" mapstructure:"registry"`
	Telemetry   TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// RegistryConfig configures the process-wide registry.
type RegistryConfig struct {
	// Name labels the registry in logs, metrics and spans.
	Name string `yaml:"name" mapstructure:"name"`
	// Metrics enables the registry's OpenTelemetry counters.
	Metrics bool `yaml:"metrics" mapstructure:"metrics"`
	// Tracing enables spans around lazy construction and field binding.
	Tracing bool `yaml:"tracing" mapstructure:"tracing"`
}

// TelemetryConfig configures OTLP export. Export is disabled when Endpoint is empty.
type TelemetryConfig struct {
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64       `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	MetricInterval time.Duration `yaml:"metric_interval" mapstructure:"metric_interval" validate:"gte=0"`
}

// Enabled reports whether an OTLP endpoint is configured.
func (c *TelemetryConfig) Enabled() bool {
	return c.Endpoint != ""
}

// GetConfig returns the base Config.
// When embedded in a larger config struct, this method is promoted.
func (c *Config) GetConfig() *Config {
	return c
}

// ApplyDefaults applies default values to the configuration.
// Override this in embedding structs and call c.Config.ApplyDefaults() first.
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Registry.Name == "" {
		c.Registry.Name = "default"
	}
	if c.Telemetry.Endpoint != "" {
		if c.Telemetry.SampleRate == 0 {
			c.Telemetry.SampleRate = 1.0
		}
		if c.Telemetry.MetricInterval == 0 {
			c.Telemetry.MetricInterval = 15 * time.Second
		}
	}
	c.Logging.ApplyDefaults()
	if c.Debug && c.Logging.Level == "info" {
		c.Logging.Level = "debug"
	}
}

// Validate validates the configuration.
// Returns an *errors.AppError with code INVALID_CONFIG listing every failing field.
func (c *Config) Validate() error {
	v := validation.New()
	v.Merge("", validation.Validate(c))
	v.OneOf("environment", c.Environment, Environments)
	if c.Registry.Metrics || c.Registry.Tracing {
		v.Check(c.Telemetry.Enabled(), "telemetry.endpoint", "is required when registry metrics or tracing is enabled")
	}
	return v.Validate()
}
