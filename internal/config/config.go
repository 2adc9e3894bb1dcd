// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration for cssbox. It is loaded once by the
// CLI and then treated as read-only.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Layout LayoutConfig `mapstructure:"layout" yaml:"layout"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level" validate:"log_level"`
	Format      string      `mapstructure:"format" yaml:"format" validate:"oneof=console json"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name" validate:"required"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size" validate:"gte=0"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups" validate:"gte=0"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age" validate:"gte=0"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the terminal color used for each log level.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug" validate:"omitempty,color_name"`
	Info   string `mapstructure:"info" yaml:"info" validate:"omitempty,color_name"`
	Warn   string `mapstructure:"warn" yaml:"warn" validate:"omitempty,color_name"`
	Error  string `mapstructure:"error" yaml:"error" validate:"omitempty,color_name"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic" validate:"omitempty,color_name"`
	Panic  string `mapstructure:"panic" yaml:"panic" validate:"omitempty,color_name"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal" validate:"omitempty,color_name"`
}

// LayoutConfig configures the layout engine and the initial containing block.
type LayoutConfig struct {
	ViewportWidth  float64 `mapstructure:"viewport_width" yaml:"viewport_width" validate:"gt=0"`
	ViewportHeight float64 `mapstructure:"viewport_height" yaml:"viewport_height" validate:"gte=0"`
	// StrictUnits aborts a layout pass on a width unit other than px or %.
	StrictUnits bool `mapstructure:"strict_units" yaml:"strict_units"`
	// Concurrency bounds how many documents are laid out in parallel.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency" validate:"gte=1"`
}

// OutputConfig selects the report format and destination. An empty path
// means stdout.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json yaml xml"`
	Path   string `mapstructure:"path" yaml:"path"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Defaults always decode.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults registers every default with viper so that config files and
// environment variables only need to override what they change.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "cssbox")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Layout --
	v.SetDefault("layout.viewport_width", 800.0)
	v.SetDefault("layout.viewport_height", 600.0)
	v.SetDefault("layout.strict_units", false)
	v.SetDefault("layout.concurrency", 4)

	// -- Output --
	v.SetDefault("output.format", "text")
	v.SetDefault("output.path", "")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := validatorInstance().Struct(c); err != nil {
		return convertValidationError(err)
	}
	if c.Logger.LogFile != "" && c.Logger.MaxSize == 0 {
		return fmt.Errorf("logger.max_size must be positive when logger.log_file is set")
	}
	return nil
}

// EnvPrefix is prepended to every environment override, e.g.
// CSSBOX_LAYOUT_STRICT_UNITS.
const EnvPrefix = "CSSBOX"

// BindEnvironment lets environment variables override any key that has a
// default.
func BindEnvironment(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}
