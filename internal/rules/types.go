package rules

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Severity indicates how a rule violation affects the run outcome.
type Severity int

const (
	SeverityDisabled Severity = 0
	SeverityWarning  Severity = 1
	SeverityError    Severity = 2
)

func (s Severity) String() string {
	switch s {
	case SeverityDisabled:
		return "disabled"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Valid reports whether s is one of the three recognized levels.
func (s Severity) Valid() bool {
	return s >= SeverityDisabled && s <= SeverityError
}

// Applicability decides whether a rule's parameter is required or forbidden.
type Applicability string

const (
	Always Applicability = "always"
	Never  Applicability = "never"
)

// Valid reports whether a is always or never.
func (a Applicability) Valid() bool {
	return a == Always || a == Never
}

// ValueKind tags the shape of a rule parameter.
type ValueKind int

const (
	ValueNone ValueKind = iota
	ValueList
	ValueInt
	ValueString
)

func (k ValueKind) String() string {
	switch k {
	case ValueNone:
		return "none"
	case ValueList:
		return "list"
	case ValueInt:
		return "integer"
	case ValueString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a rule-specific parameter.
type Value struct {
	Kind ValueKind
	List []string
	Int  int
	Str  string
}

// ListValue builds a list parameter.
func ListValue(items ...string) Value {
	if items == nil {
		items = []string{}
	}
	return Value{Kind: ValueList, List: items}
}

// IntValue builds an integer parameter.
func IntValue(n int) Value {
	return Value{Kind: ValueInt, Int: n}
}

// StringValue builds a string parameter.
func StringValue(s string) Value {
	return Value{Kind: ValueString, Str: s}
}

// Strings returns the parameter as a list, promoting a single string.
func (v Value) Strings() []string {
	switch v.Kind {
	case ValueList:
		return v.List
	case ValueString:
		return []string{v.Str}
	default:
		return nil
	}
}

func (v Value) raw() interface{} {
	switch v.Kind {
	case ValueList:
		out := make([]string, len(v.List))
		copy(out, v.List)
		return out
	case ValueInt:
		return v.Int
	case ValueString:
		return v.Str
	default:
		return nil
	}
}

// Rule is a configured commit message rule.
type Rule struct {
	Name          string
	Severity      Severity
	Applicability Applicability
	Value         Value
}

// Enabled reports whether the rule participates in linting.
func (r Rule) Enabled() bool {
	return r.Severity != SeverityDisabled
}

// MarshalYAML renders the rule in the [level, when, value] form.
func (r Rule) MarshalYAML() (interface{}, error) {
	out := []interface{}{int(r.Severity), string(r.Applicability)}
	if r.Value.Kind != ValueNone {
		out = append(out, r.Value.raw())
	}
	return out, nil
}

// MarshalJSON uses the same form as MarshalYAML.
func (r Rule) MarshalJSON() ([]byte, error) {
	out, _ := r.MarshalYAML()
	return json.Marshal(out)
}

// RuleSet maps rule identifiers to rules.
type RuleSet map[string]Rule

// Clone returns a shallow copy of the set.
func (s RuleSet) Clone() RuleSet {
	out := make(RuleSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// ErrMalformedRule matches every *MalformedRuleError.
var ErrMalformedRule = errors.New("malformed rule")

// MalformedRuleError reports a rule with a bad severity, applicability or
// parameter shape.
type MalformedRuleError struct {
	Rule   string
	Reason string
}

func (e *MalformedRuleError) Error() string {
	return fmt.Sprintf("malformed rule %q: %s", e.Rule, e.Reason)
}

// Is lets errors.Is match ErrMalformedRule.
func (e *MalformedRuleError) Is(target error) bool {
	return target == ErrMalformedRule
}

func malformed(rule, format string, args ...interface{}) error {
	return &MalformedRuleError{Rule: rule, Reason: fmt.Sprintf(format, args...)}
}
