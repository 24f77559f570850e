package di

import (
	"github.com/kbukum/gokit-di/validation"
)

// Async policies for the blocking call path under an active scheduler.
const (
	AsyncPolicyFail   = "fail"
	AsyncPolicyDetach = "detach"
)

// Config holds resolver settings loadable from a configuration file.
type Config struct {
	// AsyncPolicy is "fail" (default) or "detach". See WithDetachedAsync.
	AsyncPolicy string `yaml:"async_policy" mapstructure:"async_policy"`
	// Tracing enables a span per injection and per build.
	Tracing bool `yaml:"tracing" mapstructure:"tracing"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.AsyncPolicy == "" {
		c.AsyncPolicy = AsyncPolicyFail
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	v := validation.New().OneOf("async_policy", c.AsyncPolicy, []string{AsyncPolicyFail, AsyncPolicyDetach})
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Options converts the configuration into resolver options.
func (c *Config) Options() []Option {
	var opts []Option
	if c.AsyncPolicy == AsyncPolicyDetach {
		opts = append(opts, WithDetachedAsync())
	}
	if c.Tracing {
		opts = append(opts, WithTracing())
	}
	return opts
}
