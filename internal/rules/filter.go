package rules

// Enabled returns the rules that participate in linting, sorted by
// identifier.
func Enabled(set RuleSet) []Rule {
	var enabled []Rule
	for _, name := range set.Names() {
		rule := set[name]
		if !rule.Enabled() {
			continue
		}
		if rule.Name == "" {
			rule.Name = name
		}
		enabled = append(enabled, rule)
	}
	return enabled
}

// BySeverity returns rules at or above minSeverity, sorted by identifier.
func BySeverity(set RuleSet, minSeverity Severity) []Rule {
	var filtered []Rule
	for _, name := range set.Names() {
		rule := set[name]
		if rule.Severity >= minSeverity {
			if rule.Name == "" {
				rule.Name = name
			}
			filtered = append(filtered, rule)
		}
	}
	return filtered
}

// Count reports how many rules of a set sit at each severity.
func Count(set RuleSet) map[Severity]int {
	counts := map[Severity]int{
		SeverityDisabled: 0,
		SeverityWarning:  0,
		SeverityError:    0,
	}
	for _, rule := range set {
		counts[rule.Severity]++
	}
	return counts
}
