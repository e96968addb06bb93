package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JNZader/commitlint/internal/rules"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.DefaultIgnores)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.False(t, cfg.History.Enabled)
	assert.True(t, strings.HasSuffix(cfg.History.Path, "history.db"))
	assert.Empty(t, cfg.Rules)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"valid default config", func(c *Config) {}, ""},
		{"empty extends entry", func(c *Config) { c.Extends = []string{"conventional", ""} }, "extends"},
		{"bad ignore pattern", func(c *Config) { c.Ignores = []string{"("} }, "ignores"},
		{"invalid format", func(c *Config) { c.Output.Format = "sarif" }, "output.format"},
		{"negative concurrency", func(c *Config) { c.Lint.MaxConcurrency = -1 }, "lint.max_concurrency"},
		{"history without path", func(c *Config) {
			c.History.Enabled = true
			c.History.Path = ""
		}, "history.path"},
		{"invalid log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, FileName, `
extends: [conventional]
rules:
  header-max-length: [1, always, 72]
ignores: ["^release "]
output:
  format: json
lint:
  strict: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"conventional"}, cfg.Extends)
	assert.Equal(t, []string{"^release "}, cfg.Ignores)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, cfg.Lint.Strict)
	assert.True(t, cfg.DefaultIgnores)
	assert.Contains(t, cfg.Rules, "header-max-length")
	assert.NotContains(t, cfg.Rules, "type-enum")
}

func TestLoadFromMissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), FileName, "output:\n  format: xml\n")

	_, err := LoadFromFile(path)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "output.format", verr.Field)
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	loader := NewLoader()
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Empty(t, loader.ConfigFileUsed())
	assert.Equal(t, ".", loader.BaseDir())
	assert.Equal(t, []string{"conventional"}, cfg.Extends)
	assert.Len(t, cfg.Rules, 6)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv("COMMITLINT_LINT_STRICT", "true")
	t.Setenv("COMMITLINT_OUTPUT_FORMAT", "markdown")

	cfg, err := LoadDefault()
	require.NoError(t, err)
	assert.True(t, cfg.Lint.Strict)
	assert.Equal(t, "markdown", cfg.Output.Format)
}

func TestResolveEmbeddedConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := LoadDefault()
	require.NoError(t, err)

	set, err := Resolve(cfg, ".")
	require.NoError(t, err)

	assert.Equal(t, rules.IntValue(200), set["body-max-line-length"].Value)
	assert.Equal(t, rules.IntValue(100), set["header-max-length"].Value)
	assert.Equal(t, rules.SeverityDisabled, set["scope-enum"].Severity)
	assert.Equal(t, rules.SeverityDisabled, set["scope-empty"].Severity)
	assert.Equal(t, rules.Never, set["subject-case"].Applicability)
	assert.Equal(t, []string{"upper-case", "pascal-case", "camel-case"}, set["subject-case"].Value.List)
	assert.Contains(t, set["type-enum"].Value.List, "wip")

	// Untouched preset rules survive the overlay.
	assert.Equal(t, rules.SeverityWarning, set["footer-leading-blank"].Severity)
	assert.Equal(t, rules.IntValue(100), set["footer-max-line-length"].Value)
}

func TestResolveRelativeExtends(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "team.yaml", "extends: [conventional]\nrules:\n  subject-min-length: [2, always, 10]\n")
	path := writeFile(t, dir, FileName, "extends: [./team.yaml]\nrules:\n  type-empty: [0, never]\n")

	loader := NewLoader()
	loader.SetConfigFile(path)
	cfg, err := loader.Load()
	require.NoError(t, err)

	set, err := Resolve(cfg, loader.BaseDir())
	require.NoError(t, err)
	assert.Equal(t, rules.IntValue(10), set["subject-min-length"].Value)
	assert.Equal(t, rules.SeverityDisabled, set["type-empty"].Severity)
	assert.Contains(t, set, "type-enum")
}

func TestResolveMalformedOverlay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules = map[string]interface{}{"header-max-length": []interface{}{2, "sometimes", 100}}

	_, err := Resolve(cfg, ".")
	assert.ErrorIs(t, err, rules.ErrMalformedRule)
}

func TestDefaultFileIsCopy(t *testing.T) {
	data := DefaultFile()
	require.NotEmpty(t, data)
	data[0] = 'X'
	assert.NotEqual(t, byte('X'), DefaultFile()[0])
}
