package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JNZader/commitlint/internal/config"
	"github.com/JNZader/commitlint/internal/rules"
)

var printConfigCmd = &cobra.Command{
	Use:   "print-config",
	Short: "Print the effective rule set",
	Long: `Print the rule set after the extended presets and the rules overlay
have been merged. Every rule is shown as [level, applicability, value].

Examples:
  commitlint print-config
  commitlint print-config --rule subject-case
  commitlint print-config --json`,
	Args: cobra.NoArgs,
	RunE: runPrintConfig,
}

var (
	printConfigRule string
	printConfigJSON bool
)

func init() {
	rootCmd.AddCommand(printConfigCmd)

	printConfigCmd.Flags().StringVar(&printConfigRule, "rule", "", "print a single rule")
	printConfigCmd.Flags().BoolVar(&printConfigJSON, "json", false, "output as JSON")
}

// effectiveConfig is the printed form of the resolved configuration.
type effectiveConfig struct {
	Extends []string      `yaml:"extends,omitempty" json:"extends,omitempty"`
	Rules   rules.RuleSet `yaml:"rules" json:"rules"`
}

func runPrintConfig(cmd *cobra.Command, args []string) error {
	cfg, baseDir, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	set, err := config.Resolve(cfg, baseDir)
	if err != nil {
		return err
	}

	if printConfigRule != "" {
		rule, ok := set[printConfigRule]
		if !ok {
			return fmt.Errorf("rule %s is not configured", printConfigRule)
		}
		set = rules.RuleSet{printConfigRule: rule}
	}

	doc := effectiveConfig{Extends: cfg.Extends, Rules: set}

	if printConfigJSON {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprintln(out(cmd), string(data))
		return nil
	}

	enc := yaml.NewEncoder(out(cmd))
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		_ = enc.Close()
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
