package config

import (
	"fmt"

	"github.com/JNZader/commitlint/internal/rules"
)

// Resolve builds the effective rule set: the extended presets and files
// merged in order, then the rules overlay on top. Relative extends paths
// resolve against baseDir.
func Resolve(cfg *Config, baseDir string) (rules.RuleSet, error) {
	base, err := rules.NewLoader(baseDir).Resolve(cfg.Extends)
	if err != nil {
		return nil, fmt.Errorf("resolving extends: %w", err)
	}

	overlay, err := rules.ParseRuleSet(cfg.Rules)
	if err != nil {
		return nil, err
	}

	return rules.Merge(base, overlay)
}
