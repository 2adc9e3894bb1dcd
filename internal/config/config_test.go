// File: internal/config/config_test.go
package config

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "cssbox", cfg.Logger.ServiceName)
	assert.Empty(t, cfg.Logger.LogFile)
	assert.Equal(t, "green", cfg.Logger.Colors.Info)
	assert.Equal(t, 800.0, cfg.Layout.ViewportWidth)
	assert.Equal(t, 600.0, cfg.Layout.ViewportHeight)
	assert.False(t, cfg.Layout.StrictUnits)
	assert.Equal(t, 4, cfg.Layout.Concurrency)
	assert.Equal(t, "text", cfg.Output.Format)

	assert.NoError(t, cfg.Validate(), "defaults must always validate")
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"Zero viewport width", func(c *Config) { c.Layout.ViewportWidth = 0 }, "layout.viewport_width failed validation for tag 'gt=0'"},
		{"Negative viewport height", func(c *Config) { c.Layout.ViewportHeight = -1 }, "layout.viewport_height"},
		{"No concurrency", func(c *Config) { c.Layout.Concurrency = 0 }, "layout.concurrency"},
		{"Unknown output format", func(c *Config) { c.Output.Format = "pdf" }, "output.format failed validation for tag 'oneof=text json yaml xml'"},
		{"Unknown log format", func(c *Config) { c.Logger.Format = "logfmt" }, "logger.format"},
		{"Unknown log level", func(c *Config) { c.Logger.Level = "verbose" }, "logger.level failed validation for tag 'log_level'"},
		{"Missing service name", func(c *Config) { c.Logger.ServiceName = "" }, "logger.service_name"},
		{"Unknown color", func(c *Config) { c.Logger.Colors.Warn = "orange" }, "logger.colors.warn"},
		{"Log file without size", func(c *Config) {
			c.Logger.LogFile = "cssbox.log"
			c.Logger.MaxSize = 0
		}, "logger.max_size must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("Empty colors are allowed", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Logger.Colors = ColorConfig{}
		assert.NoError(t, cfg.Validate())
	})
}

// -- Viper Integration Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("YAML overrides defaults", func(t *testing.T) {
		yamlInput := []byte(`
logger:
  level: debug
  log_file: /var/log/cssbox.log
layout:
  viewport_width: 1024
  strict_units: true
output:
  format: json
`)
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlInput)))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.Logger.Level)
		assert.Equal(t, "/var/log/cssbox.log", cfg.Logger.LogFile)
		assert.Equal(t, 1024.0, cfg.Layout.ViewportWidth)
		assert.True(t, cfg.Layout.StrictUnits)
		assert.Equal(t, "json", cfg.Output.Format)
		// Untouched keys keep their defaults.
		assert.Equal(t, 600.0, cfg.Layout.ViewportHeight)
	})

	t.Run("Validation Failure", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("layout.concurrency", 0)

		cfg, err := NewConfigFromViper(v)
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "layout.concurrency")
	})

	t.Run("Environment Variable Binding", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBufferString("output:\n  format: yaml\n")))

		t.Setenv("CSSBOX_OUTPUT_FORMAT", "xml")
		t.Setenv("CSSBOX_LAYOUT_VIEWPORT_WIDTH", "320")
		t.Setenv("CSSBOX_LAYOUT_STRICT_UNITS", "true")
		BindEnvironment(v)

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		// Environment beats the config file.
		assert.Equal(t, "xml", cfg.Output.Format)
		assert.Equal(t, 320.0, cfg.Layout.ViewportWidth)
		assert.True(t, cfg.Layout.StrictUnits)
	})
}
