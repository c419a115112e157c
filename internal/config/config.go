// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Layout() LayoutConfig
	Render() RenderConfig

	// Layout Setters
	SetViewport(width, height float64)
	SetUserAgentStylesheet(bool)

	// Render Setters
	SetRenderFormat(string)
	SetRenderOutput(string)
	SetRenderConcurrency(int)
	AddRenderStylesheets(paths ...string)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg LoggerConfig `mapstructure:"logger" yaml:"logger"`
	LayoutCfg LayoutConfig `mapstructure:"layout" yaml:"layout"`
	RenderCfg RenderConfig `mapstructure:"render" yaml:"render"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig { return c.LoggerCfg }
func (c *Config) Layout() LayoutConfig { return c.LayoutCfg }
func (c *Config) Render() RenderConfig { return c.RenderCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetViewport(width, height float64) {
	c.LayoutCfg.ViewportWidth = width
	c.LayoutCfg.ViewportHeight = height
}
func (c *Config) SetUserAgentStylesheet(b bool) { c.LayoutCfg.UserAgentStylesheet = b }

func (c *Config) SetRenderFormat(f string)   { c.RenderCfg.Format = f }
func (c *Config) SetRenderOutput(o string)   { c.RenderCfg.Output = o }
func (c *Config) SetRenderConcurrency(n int) { c.RenderCfg.Concurrency = n }
func (c *Config) AddRenderStylesheets(paths ...string) {
	c.RenderCfg.Stylesheets = append(c.RenderCfg.Stylesheets, paths...)
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// LayoutConfig controls the initial containing block and the default sheet.
type LayoutConfig struct {
	ViewportWidth  float64 `mapstructure:"viewport_width" yaml:"viewport_width"`
	ViewportHeight float64 `mapstructure:"viewport_height" yaml:"viewport_height"`
	// UserAgentStylesheet puts the built-in sheet in front of author sheets.
	UserAgentStylesheet bool `mapstructure:"user_agent_stylesheet" yaml:"user_agent_stylesheet"`
}

// RenderConfig controls how render results are written.
type RenderConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	// Output is a file path. Empty means stdout.
	Output      string   `mapstructure:"output" yaml:"output"`
	Concurrency int      `mapstructure:"concurrency" yaml:"concurrency"`
	Stylesheets []string `mapstructure:"stylesheets" yaml:"stylesheets"`
}

// Formats accepted by render.format.
var Formats = []string{"text", "json", "xml"}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "tinybrowser")
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
	v.SetDefault("layout.user_agent_stylesheet", true)

	// -- Render --
	v.SetDefault("render.format", "text")
	v.SetDefault("render.output", "")
	v.SetDefault("render.concurrency", 4)
	v.SetDefault("render.stylesheets", []string{})
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// expandPaths resolves a leading ~ in file paths.
func (c *Config) expandPaths() error {
	var errs error
	for i, p := range c.RenderCfg.Stylesheets {
		expanded, err := homedir.Expand(p)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("render.stylesheets[%d]: %w", i, err))
			continue
		}
		c.RenderCfg.Stylesheets[i] = expanded
	}
	if c.RenderCfg.Output != "" {
		expanded, err := homedir.Expand(c.RenderCfg.Output)
		if err != nil {
			return multierr.Append(errs, fmt.Errorf("render.output: %w", err))
		}
		c.RenderCfg.Output = expanded
	}
	return errs
}

// Validate checks the configuration for sane values. Every problem found is
// reported, not just the first.
func (c *Config) Validate() error {
	var errs error
	if c.LayoutCfg.ViewportWidth <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("layout.viewport_width must be positive"))
	}
	if c.LayoutCfg.ViewportHeight <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("layout.viewport_height must be positive"))
	}
	if c.RenderCfg.Concurrency <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("render.concurrency must be a positive integer"))
	}
	if !validFormat(c.RenderCfg.Format) {
		errs = multierr.Append(errs, fmt.Errorf("render.format must be one of %s, got %q", strings.Join(Formats, ", "), c.RenderCfg.Format))
	}
	return errs
}

func validFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}
