package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JNZader/commitlint/internal/config"
	"github.com/JNZader/commitlint/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the known rule identifiers",
	Long: `List every rule identifier commitlint understands with the parameter
it takes. Use --enabled to list only the rules active in the effective
configuration, and --errors-only to drop the ones that only warn.

Examples:
  commitlint rules
  commitlint rules --enabled
  commitlint rules --enabled --errors-only`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

var (
	rulesEnabled    bool
	rulesErrorsOnly bool
)

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().BoolVar(&rulesEnabled, "enabled", false, "only rules enabled in the effective configuration")
	rulesCmd.Flags().BoolVar(&rulesErrorsOnly, "errors-only", false, "with --enabled, only rules at error level")
}

func runRules(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(out(cmd), 0, 0, 2, ' ', 0)

	if rulesEnabled {
		cfg, baseDir, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		set, err := config.Resolve(cfg, baseDir)
		if err != nil {
			return err
		}

		minLevel := rules.SeverityWarning
		if rulesErrorsOnly {
			minLevel = rules.SeverityError
		}

		fmt.Fprintln(w, "RULE\tLEVEL\tWHEN\tVALUE")
		for _, rule := range rules.BySeverity(set, minLevel) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rule.Name, rule.Severity, rule.Applicability, formatValue(rule.Value))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		counts := rules.Count(set)
		fmt.Fprintf(out(cmd), "\n%d error, %d warning, %d disabled\n",
			counts[rules.SeverityError], counts[rules.SeverityWarning], counts[rules.SeverityDisabled])
		return nil
	}

	fmt.Fprintln(w, "RULE\tVALUE\tDESCRIPTION")
	for _, name := range rules.Names() {
		shape := rules.Shapes[name]
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, formatKinds(shape), shape.Description)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out(cmd), "\nBuilt-in presets: %s\n", strings.Join(rules.Presets(), ", "))
	return nil
}

func formatKinds(shape rules.Shape) string {
	kinds := make([]string, 0, len(shape.Kinds))
	for _, k := range shape.Kinds {
		kinds = append(kinds, k.String())
	}
	s := strings.Join(kinds, "|")
	if shape.Optional {
		s += "?"
	}
	return s
}

func formatValue(v rules.Value) string {
	switch v.Kind {
	case rules.ValueInt:
		return fmt.Sprint(v.Int)
	case rules.ValueString:
		return fmt.Sprintf("%q", v.Str)
	case rules.ValueList:
		return "[" + strings.Join(v.List, ", ") + "]"
	default:
		return "-"
	}
}
