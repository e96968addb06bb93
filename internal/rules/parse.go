package rules

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// ParseRule converts a raw [level, when, value] entry, as decoded by yaml.v3
// or viper, into a validated Rule.
func ParseRule(name string, raw interface{}) (Rule, error) {
	items, ok := toSlice(raw)
	if !ok {
		return Rule{}, malformed(name, "expected [level, when, value], got %T", raw)
	}
	if len(items) == 0 {
		return Rule{}, malformed(name, "empty rule configuration")
	}
	if len(items) > 3 {
		return Rule{}, malformed(name, "expected at most 3 elements, got %d", len(items))
	}

	level, ok := toInt(items[0])
	if !ok {
		return Rule{}, malformed(name, "severity must be 0, 1 or 2, got %v", items[0])
	}

	rule := Rule{
		Name:          name,
		Severity:      Severity(level),
		Applicability: Always,
	}

	if len(items) > 1 && items[1] != nil {
		when, ok := items[1].(string)
		if !ok {
			return Rule{}, malformed(name, "applicability must be \"always\" or \"never\", got %v", items[1])
		}
		rule.Applicability = Applicability(when)
	}

	if len(items) > 2 {
		value, err := parseValue(name, items[2])
		if err != nil {
			return Rule{}, err
		}
		rule.Value = value
	}

	if err := Validate(rule); err != nil {
		return Rule{}, err
	}
	return rule, nil
}

// ParseRuleSet parses every entry of a raw rules mapping.
func ParseRuleSet(raw map[string]interface{}) (RuleSet, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	set := make(RuleSet, len(raw))
	for _, name := range names {
		rule, err := ParseRule(name, raw[name])
		if err != nil {
			return nil, err
		}
		set[name] = rule
	}
	return set, nil
}

// Validate checks a rule against the registry.
func Validate(rule Rule) error {
	if !rule.Severity.Valid() {
		return malformed(rule.Name, "severity must be 0, 1 or 2, got %d", int(rule.Severity))
	}
	if !rule.Applicability.Valid() {
		return malformed(rule.Name, "applicability must be \"always\" or \"never\", got %q", rule.Applicability)
	}

	shape, ok := Shapes[rule.Name]
	if !ok {
		return malformed(rule.Name, "unknown rule")
	}

	if rule.Value.Kind == ValueNone {
		if shape.Optional || shape.accepts(ValueNone) || !rule.Enabled() {
			return nil
		}
		return malformed(rule.Name, "missing %s parameter", shape.Kinds[0])
	}

	if !shape.accepts(rule.Value.Kind) {
		return malformed(rule.Name, "parameter must be %s, got %s", shape.Kinds[0], rule.Value.Kind)
	}

	if rule.Value.Kind == ValueInt && rule.Value.Int < 0 {
		return malformed(rule.Name, "bound must not be negative, got %d", rule.Value.Int)
	}

	if shape.Cases {
		for _, c := range rule.Value.Strings() {
			if !CaseNames[c] {
				return malformed(rule.Name, "unknown case %q", c)
			}
		}
	}

	return nil
}

func parseValue(name string, raw interface{}) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Value{}, nil
	case string:
		return StringValue(v), nil
	case bool:
		return Value{}, malformed(name, "unsupported parameter %v", v)
	}

	if n, ok := toInt(raw); ok {
		return IntValue(n), nil
	}

	if items, ok := toSlice(raw); ok {
		list := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return Value{}, malformed(name, "list items must be strings, got %T", item)
			}
			list = append(list, s)
		}
		return ListValue(list...), nil
	}

	return Value{}, malformed(name, "unsupported parameter type %T", raw)
}

func toSlice(raw interface{}) ([]interface{}, bool) {
	switch v := raw.(type) {
	case []interface{}:
		return v, true
	case []string:
		out := make([]interface{}, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func toInt(raw interface{}) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case float32:
		return toInt(float64(v))
	case string:
		// Environment overrides arrive as strings.
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// MustParseRule is ParseRule for static tables; it panics on error.
func MustParseRule(name string, raw interface{}) Rule {
	rule, err := ParseRule(name, raw)
	if err != nil {
		panic(fmt.Sprintf("rules: %v", err))
	}
	return rule
}
