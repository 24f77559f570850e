package config

import (
	"github.com/kbukum/gokit-di/logger"
	"github.com/kbukum/gokit-di/validation"
)

// Environments accepted by ServiceConfig.
var Environments = []string{"development", "staging", "production"}

// ServiceConfig contains the fields every config file carries. Files embed
// it next to their own sections.
//
// Example:
//
//	type File struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    DI recipes.Section `yaml:"di" mapstructure:"di"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values to the base configuration.
// Embedding structs call c.ServiceConfig.ApplyDefaults() first.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the base configuration fields.
func (c *ServiceConfig) Validate() error {
	v := validation.New().
		Required("name", c.Name).
		Required("environment", c.Environment).
		OneOf("environment", c.Environment, Environments).
		Merge("logging", c.Logging.Validate())
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
