// Package config handles configuration loading, validation, and hot reload
// for the emojikbd hosts.
//
// The configuration covers presentation and plumbing only: keyboard row
// layout, window, logging and IBus registration. The letter to glyph table
// is fixed and deliberately not configurable.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"emojikbd/internal/glyph"
	"emojikbd/internal/logging"
)

// Version is the current configuration schema version.
const Version = 1

// Config holds the complete configuration.
type Config struct {
	// Version is the configuration schema version.
	Version int `toml:"version" json:"version" yaml:"version"`

	// Keyboard configures the on-screen keyboard.
	Keyboard KeyboardConfig `toml:"keyboard" json:"keyboard" yaml:"keyboard"`

	// Window configures the desktop widget window.
	Window WindowConfig `toml:"window" json:"window" yaml:"window"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`

	// IBus configures the Linux input method engine.
	IBus IBusConfig `toml:"ibus" json:"ibus" yaml:"ibus"`

	// mu protects concurrent access to the config.
	mu sync.RWMutex `toml:"-" json:"-" yaml:"-"`
}

// KeyboardConfig holds on-screen keyboard settings.
type KeyboardConfig struct {
	// Layout is the row arrangement: "azerty", "qwerty" or "alphabetical".
	Layout string `toml:"layout" json:"layout" yaml:"layout"`

	// ShowLetters prints the letter under each glyph on the key caps.
	ShowLetters bool `toml:"show_letters" json:"show_letters" yaml:"show_letters"`
}

// WindowConfig holds desktop window settings.
type WindowConfig struct {
	// Title is the window title.
	Title string `toml:"title" json:"title" yaml:"title"`

	// Width and Height are the initial window size in dp.
	Width  int `toml:"width" json:"width" yaml:"width"`
	Height int `toml:"height" json:"height" yaml:"height"`

	// Theme is "light", "dark" or "system".
	Theme string `toml:"theme" json:"theme" yaml:"theme"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is "text" or "json".
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output is "stdout", "stderr", "file" or "both".
	Output string `toml:"output" json:"output" yaml:"output"`

	// FilePath is the log file when Output includes a file.
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`

	// MaxSizeMB is the size at which the log file rotates.
	MaxSizeMB int `toml:"max_size_mb" json:"max_size_mb" yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files kept.
	MaxBackups int `toml:"max_backups" json:"max_backups" yaml:"max_backups"`

	// MaxAgeDays is how long rotated files are kept.
	MaxAgeDays int `toml:"max_age_days" json:"max_age_days" yaml:"max_age_days"`

	// Compress gzips rotated files.
	Compress bool `toml:"compress" json:"compress" yaml:"compress"`
}

// IBusConfig holds input method engine settings.
type IBusConfig struct {
	// BusName is the well-known D-Bus name the engine claims.
	BusName string `toml:"bus_name" json:"bus_name" yaml:"bus_name"`

	// EngineName is the engine name registered with IBus.
	EngineName string `toml:"engine_name" json:"engine_name" yaml:"engine_name"`

	// Address overrides IBus bus discovery.
	Address string `toml:"address" json:"address" yaml:"address"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: Version,
		Keyboard: KeyboardConfig{
			Layout:      glyph.DefaultLayout,
			ShowLetters: false,
		},
		Window: WindowConfig{
			Title:  "Emoji Translator",
			Width:  560,
			Height: 640,
			Theme:  "light",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "file",
			FilePath:   filepath.Join(PlatformLogDir(), "emojikbd.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 14,
			Compress:   true,
		},
		IBus: IBusConfig{
			BusName:    "org.emojikbd.IBus",
			EngineName: "emojikbd",
		},
	}
}

// ConfigDir returns the configuration directory.
// EMOJIKBD_CONFIG_DIR overrides the platform default.
func ConfigDir() string {
	if envDir := os.Getenv("EMOJIKBD_CONFIG_DIR"); envDir != "" {
		return envDir
	}
	return PlatformConfigDir()
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ValidateConfig(c)
}

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables are prefixed with EMOJIKBD_.
func (c *Config) ApplyEnvOverrides() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v := os.Getenv("EMOJIKBD_LAYOUT"); v != "" {
		c.Keyboard.Layout = v
	}
	if v := os.Getenv("EMOJIKBD_THEME"); v != "" {
		c.Window.Theme = v
	}
	if v := os.Getenv("EMOJIKBD_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("EMOJIKBD_LOG_PATH"); v != "" {
		c.Logging.FilePath = v
	}
	if v := os.Getenv("EMOJIKBD_IBUS_ADDRESS"); v != "" {
		c.IBus.Address = v
	}
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return &Config{
		Version:  c.Version,
		Keyboard: c.Keyboard,
		Window:   c.Window,
		Logging:  c.Logging,
		IBus:     c.IBus,
	}
}

// Rows returns the keyboard rows for the configured layout, falling back
// to the default layout.
func (c *Config) Rows() [][]rune {
	c.mu.RLock()
	name := c.Keyboard.Layout
	c.mu.RUnlock()

	if rows, ok := glyph.Layout(name); ok {
		return rows
	}
	rows, _ := glyph.Layout(glyph.DefaultLayout)
	return rows
}

// LoggerConfig converts the logging section for a component.
func (c *LoggingConfig) LoggerConfig(component string) (*logging.Config, error) {
	level, err := logging.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(c.Format)
	if err != nil {
		return nil, err
	}

	cfg := logging.DefaultConfig()
	cfg.Level = level
	cfg.Format = format
	cfg.Output = c.Output
	cfg.Component = component
	if c.FilePath != "" {
		cfg.FilePath = c.FilePath
	}
	if c.MaxSizeMB > 0 {
		cfg.MaxSize = int64(c.MaxSizeMB)
	}
	if c.MaxBackups > 0 {
		cfg.MaxBackups = c.MaxBackups
	}
	if c.MaxAgeDays > 0 {
		cfg.MaxAge = c.MaxAgeDays
	}
	cfg.Compress = c.Compress
	return cfg, nil
}

// NewLogger builds a logger from the logging section.
func (c *Config) NewLogger(component string) (*logging.Logger, error) {
	c.mu.RLock()
	lc := c.Logging
	c.mu.RUnlock()

	cfg, err := lc.LoggerConfig(component)
	if err != nil {
		return nil, fmt.Errorf("logging config: %w", err)
	}
	return logging.New(cfg)
}
