// Package config handles all configuration management for commitlint.
//
// Configuration is loaded from multiple sources in order of precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables (COMMITLINT_*)
// 3. Configuration file (.commitlintrc.yaml)
// 4. The embedded project configuration and default values (lowest priority)
package config

import (
	"regexp"

	"github.com/JNZader/commitlint/internal/logger"
)

// Config is the main configuration structure for commitlint.
type Config struct {
	// Extends lists presets or rule files the rules overlay applies to.
	Extends []string `mapstructure:"extends" yaml:"extends"`

	// Rules is the overlay, keyed by rule identifier.
	Rules map[string]interface{} `mapstructure:"rules" yaml:"rules"`

	// Ignores are regular expressions; matching messages are not linted.
	Ignores []string `mapstructure:"ignores" yaml:"ignores,omitempty"`

	// DefaultIgnores skips merge, revert and fixup messages.
	DefaultIgnores bool `mapstructure:"default_ignores" yaml:"default_ignores"`

	// HelpURL is printed next to failed messages.
	HelpURL string `mapstructure:"help_url" yaml:"help_url,omitempty"`

	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Lint    LintConfig    `mapstructure:"lint" yaml:"lint"`
	History HistoryConfig `mapstructure:"history" yaml:"history"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// OutputConfig configures output formatting.
type OutputConfig struct {
	// Format is the output format: "text", "json", "markdown"
	Format string `mapstructure:"format" yaml:"format"`

	// Color enables colored output (for terminal)
	Color bool `mapstructure:"color" yaml:"color"`

	// Verbose also reports messages without problems
	Verbose bool `mapstructure:"verbose" yaml:"verbose"`

	// Quiet suppresses all output except errors
	Quiet bool `mapstructure:"quiet" yaml:"quiet"`
}

// LintConfig configures lint behavior.
type LintConfig struct {
	// Strict fails the run on warnings too
	Strict bool `mapstructure:"strict" yaml:"strict"`

	// MaxConcurrency is the maximum parallel message lints (0 = auto)
	MaxConcurrency int `mapstructure:"max_concurrency" yaml:"max_concurrency"`
}

// HistoryConfig configures the lint history store.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// LogConfig configures diagnostics logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level" yaml:"level"`
}

var validFormats = map[string]bool{"text": true, "json": true, "markdown": true, "md": true}

// Validate validates the configuration and returns an error if invalid.
// Rule entries are checked when the rule set is resolved.
func (c *Config) Validate() error {
	for _, source := range c.Extends {
		if source == "" {
			return &ValidationError{Field: "extends", Message: "entries must not be empty"}
		}
	}

	for _, pattern := range c.Ignores {
		if _, err := regexp.Compile(pattern); err != nil {
			return &ValidationError{Field: "ignores", Message: "invalid pattern " + pattern + ": " + err.Error()}
		}
	}

	if !validFormats[c.Output.Format] {
		return &ValidationError{Field: "output.format", Message: "invalid format, must be one of: text, json, markdown"}
	}

	if c.Lint.MaxConcurrency < 0 {
		return &ValidationError{Field: "lint.max_concurrency", Message: "must not be negative"}
	}

	if c.History.Enabled && c.History.Path == "" {
		return &ValidationError{Field: "history.path", Message: "history path is required when history is enabled"}
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return &ValidationError{Field: "log.level", Message: err.Error()}
	}

	return nil
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "config validation error: " + e.Field + ": " + e.Message
}
