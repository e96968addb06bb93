package config

import (
	_ "embed"
	"os"
	"path/filepath"
)

// DefaultHelpURL points at the Conventional Commits summary.
const DefaultHelpURL = "https://www.conventionalcommits.org/"

//go:embed commitlintrc.yaml
var defaultFile []byte

// DefaultFile returns the configuration used when no .commitlintrc.yaml is
// found. `commitlint init` writes it out.
func DefaultFile() []byte {
	out := make([]byte, len(defaultFile))
	copy(out, defaultFile)
	return out
}

// DefaultConfig returns a Config with default values and no rules.
func DefaultConfig() *Config {
	return &Config{
		DefaultIgnores: true,
		HelpURL:        DefaultHelpURL,
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		History: HistoryConfig{
			Path: filepath.Join(defaultDataDir(), "history.db"),
		},
		Log: LogConfig{Level: "warn"},
	}
}

// defaultDataDir returns the default directory for commitlint state.
func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".cache", "commitlint")
}
