package config

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the name `commitlint init` writes.
const FileName = ".commitlintrc.yaml"

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v           *viper.Viper
	usedDefault bool
}

// NewLoader creates a new configuration loader searching the current and
// home directories.
func NewLoader() *Loader {
	v := viper.New()

	v.SetConfigName(".commitlintrc")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")

	v.SetEnvPrefix("COMMITLINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// SetConfigFile sets a specific config file to use. A missing file is an
// error rather than a fallback to the embedded configuration.
func (l *Loader) SetConfigFile(path string) {
	l.v.SetConfigFile(path)
}

// Load loads the configuration from all sources.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()
	l.setDefaults(cfg)

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := l.v.ReadConfig(bytes.NewReader(defaultFile)); err != nil {
			return nil, fmt.Errorf("error reading embedded config: %w", err)
		}
		l.usedDefault = true
	}

	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults sets all default values in viper. Rules and extends have no
// default so that a config file replaces them instead of merging.
func (l *Loader) setDefaults(cfg *Config) {
	l.v.SetDefault("ignores", cfg.Ignores)
	l.v.SetDefault("default_ignores", cfg.DefaultIgnores)
	l.v.SetDefault("help_url", cfg.HelpURL)

	l.v.SetDefault("output.format", cfg.Output.Format)
	l.v.SetDefault("output.color", cfg.Output.Color)
	l.v.SetDefault("output.verbose", cfg.Output.Verbose)
	l.v.SetDefault("output.quiet", cfg.Output.Quiet)

	l.v.SetDefault("lint.strict", cfg.Lint.Strict)
	l.v.SetDefault("lint.max_concurrency", cfg.Lint.MaxConcurrency)

	l.v.SetDefault("history.enabled", cfg.History.Enabled)
	l.v.SetDefault("history.path", cfg.History.Path)

	l.v.SetDefault("log.level", cfg.Log.Level)
}

// ConfigFileUsed returns the path of the config file used, or "" when the
// embedded configuration applied.
func (l *Loader) ConfigFileUsed() string {
	if l.usedDefault {
		return ""
	}
	return l.v.ConfigFileUsed()
}

// BaseDir is the directory relative extends paths resolve against.
func (l *Loader) BaseDir() string {
	if used := l.ConfigFileUsed(); used != "" {
		return filepath.Dir(used)
	}
	return "."
}

// GetViper returns the underlying viper instance so flags can be bound.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// LoadFromFile loads configuration from a specific file.
func LoadFromFile(path string) (*Config, error) {
	loader := NewLoader()
	loader.SetConfigFile(path)
	return loader.Load()
}

// LoadDefault loads configuration with default search paths.
func LoadDefault() (*Config, error) {
	return NewLoader().Load()
}
