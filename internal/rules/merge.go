package rules

import "sort"

// Merge overlays rules on a base set. An overlay rule replaces the base rule
// with the same identifier wholesale; base-only rules pass through. Neither
// input is modified.
func Merge(base, overlay RuleSet) (RuleSet, error) {
	if err := ValidateSet(base); err != nil {
		return nil, err
	}
	if err := ValidateSet(overlay); err != nil {
		return nil, err
	}

	merged := base.Clone()
	for name, rule := range overlay {
		merged[name] = rule
	}
	return merged, nil
}

// MergeAll merges sets left to right, later sets taking precedence.
func MergeAll(sets ...RuleSet) (RuleSet, error) {
	merged := RuleSet{}
	for _, set := range sets {
		next, err := Merge(merged, set)
		if err != nil {
			return nil, err
		}
		merged = next
	}
	return merged, nil
}

// ValidateSet validates every rule of a set in identifier order, so the
// reported error is deterministic.
func ValidateSet(set RuleSet) error {
	for _, name := range set.Names() {
		rule := set[name]
		if rule.Name == "" {
			rule.Name = name
		}
		if rule.Name != name {
			return malformed(name, "registered under %q", rule.Name)
		}
		if err := Validate(rule); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the identifiers of the set sorted.
func (s RuleSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
