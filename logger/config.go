package logger

import "github.com/kbukum/gokit-di/validation"

// Accepted values for Config.Level, Config.Format and Config.Output.
var (
	Levels  = []string{"trace", "debug", "info", "warn", "error", "disabled"}
	Formats = []string{FormatJSON, FormatConsole}
	Outputs = []string{"stdout", "stderr"}
)

// Config contains logging configuration, read from the "logging" section.
type Config struct {
	Level   string `yaml:"level" mapstructure:"level"`
	Format  string `yaml:"format" mapstructure:"format"`
	Output  string `yaml:"output" mapstructure:"output"`
	NoColor bool   `yaml:"no_color" mapstructure:"no_color"`
	Caller  bool   `yaml:"caller" mapstructure:"caller"`
}

// ApplyDefaults applies default values to logging configuration.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatConsole
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
}

// Validate checks level, format and output against the accepted values.
func (c *Config) Validate() error {
	v := validation.New().
		OneOf("level", c.Level, Levels).
		OneOf("format", c.Format, Formats).
		OneOf("output", c.Output, Outputs)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
