// Package config provides configuration management for Brewdesk.
// Configurations are loaded from TOML files with XDG-compliant paths;
// the backend origin may be overridden from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
)

// EnvBaseURL is the environment variable that overrides the configured
// backend base URL, taking precedence over any config file value.
const EnvBaseURL = "BREWDESK_BASE_URL"

// Config holds the complete application configuration.
type Config struct {
	Backend BackendConfig `toml:"backend"`
	Session SessionConfig `toml:"session"`
	Display DisplayConfig `toml:"display"`
	Logging LoggingConfig `toml:"logging"`
}

// BackendConfig identifies the REST API the console talks to.
type BackendConfig struct {
	// BaseURL is the API origin, e.g. "https://api.example.com".
	// No path, no trailing slash.
	BaseURL string `toml:"base_url"`
}

// SessionConfig controls where the bearer token is persisted.
type SessionConfig struct {
	Path string `toml:"path"`
}

// DisplayConfig controls TUI appearance.
type DisplayConfig struct {
	ColorScheme ColorScheme `toml:"color_scheme"`
	DateFormat  string      `toml:"date_format"`
	TimeFormat  string      `toml:"time_format"`
	PageSize    int         `toml:"page_size"`
}

// ColorScheme defines the terminal color palette.
type ColorScheme string

const (
	ColorSchemeGreenPhosphor ColorScheme = "green_phosphor"
	ColorSchemeAmber         ColorScheme = "amber"
	ColorSchemeWhite         ColorScheme = "white"
)

// LoggingConfig controls application logging.
type LoggingConfig struct {
	Level LogLevel `toml:"level"`
	File  string   `toml:"file"`
}

// LogLevel defines logging verbosity.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Backend.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("backend: %w", err))
	}

	if err := c.Session.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("session: %w", err))
	}

	if err := c.Display.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("display: %w", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks that the backend configuration is valid.
func (b *BackendConfig) Validate() error {
	var errs []error

	if b.BaseURL == "" {
		errs = append(errs, errors.New("base_url is required"))
	} else {
		u, err := url.Parse(b.BaseURL)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid base_url: %w", err))
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errs = append(errs, fmt.Errorf("base_url must be http or https, got %q", b.BaseURL))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks that the session configuration is valid.
func (s *SessionConfig) Validate() error {
	if s.Path == "" {
		return errors.New("path is required")
	}
	return nil
}

// Validate checks that the display configuration is valid.
func (d *DisplayConfig) Validate() error {
	var errs []error

	validSchemes := map[ColorScheme]bool{
		ColorSchemeGreenPhosphor: true,
		ColorSchemeAmber:         true,
		ColorSchemeWhite:         true,
	}

	if !validSchemes[d.ColorScheme] && d.ColorScheme != "" {
		errs = append(errs, fmt.Errorf("invalid color_scheme: %s", d.ColorScheme))
	}

	if d.PageSize < 1 || d.PageSize > 100 {
		errs = append(errs, errors.New("page_size must be between 1 and 100"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks that the logging configuration is valid.
func (l *LoggingConfig) Validate() error {
	validLevels := map[LogLevel]bool{
		LogLevelDebug: true,
		LogLevelInfo:  true,
		LogLevelWarn:  true,
		LogLevelError: true,
	}

	if !validLevels[l.Level] && l.Level != "" {
		return fmt.Errorf("invalid log level: %s", l.Level)
	}

	return nil
}

// Default returns a configuration with sensible default values.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL: "http://localhost:8080",
		},
		Session: SessionConfig{
			Path: "session.db",
		},
		Display: DisplayConfig{
			ColorScheme: ColorSchemeGreenPhosphor,
			DateFormat:  "2006-01-02",
			TimeFormat:  "15:04:05",
			PageSize:    10,
		},
		Logging: LoggingConfig{
			Level: LogLevelInfo,
			File:  "logs/brewdesk.log",
		},
	}
}
