package observability

import (
	"time"

	"github.com/kbukum/gokit-di/validation"
)

// Config is the "observability" section of a config file. Tracing and
// metrics export over OTLP/HTTP to the same endpoint.
type Config struct {
	Tracing bool `yaml:"tracing" mapstructure:"tracing"`
	Metrics bool `yaml:"metrics" mapstructure:"metrics"`
	// Endpoint is the OTLP HTTP collector host:port.
	Endpoint   string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64       `yaml:"sample_rate" mapstructure:"sample_rate"`
	Interval   time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults applies default values for unset fields. A zero SampleRate
// means "unset" and becomes 1; use a tiny positive rate to sample rarely.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

// Validate checks sample rate and export interval.
func (c *Config) Validate() error {
	v := validation.New().
		Custom(c.SampleRate >= 0 && c.SampleRate <= 1, "sample_rate", "must be between 0 and 1").
		Custom(c.Interval >= 0, "interval", "must not be negative")
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Enabled reports whether any exporter is configured.
func (c *Config) Enabled() bool { return c.Tracing || c.Metrics }

// Service identifies the process in exported telemetry.
type Service struct {
	Name        string
	Version     string
	Environment string
}
