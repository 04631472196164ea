package logger

// Config contains logging configuration.
type Config struct {
	Level     string `yaml:"level" mapstructure:"level" validate:"omitempty,oneof=trace debug info warn error fatal"`
	Format    string `yaml:"format" mapstructure:"format" validate:"omitempty,oneof=json console pretty"`
	Output    string `yaml:"output" mapstructure:"output" validate:"omitempty,oneof=stdout stderr"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller"`
}

// ApplyDefaults fills in an info-level console logger on stdout with
// timestamps.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatConsole
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	c.Timestamp = true
}
