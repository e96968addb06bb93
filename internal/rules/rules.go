// Package rules provides the commit message rule registry, rule parsing and
// the overlay merge that turns a preset plus project overrides into the
// effective rule set.
package rules

import "sort"

// Shape describes the parameter a rule identifier accepts.
type Shape struct {
	// Kinds lists the accepted parameter kinds.
	Kinds []ValueKind

	// Cases restricts list/string values to known case names.
	Cases bool

	// Optional allows the parameter to be omitted.
	Optional bool

	Description string
}

func (s Shape) accepts(k ValueKind) bool {
	for _, kind := range s.Kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// Case names understood by the *-case rules.
const (
	CaseLower    = "lower-case"
	CaseUpper    = "upper-case"
	CaseCamel    = "camel-case"
	CaseKebab    = "kebab-case"
	CasePascal   = "pascal-case"
	CaseSentence = "sentence-case"
	CaseSnake    = "snake-case"
	CaseStart    = "start-case"
)

// CaseNames is the set of recognized case names.
var CaseNames = map[string]bool{
	CaseLower:    true,
	CaseUpper:    true,
	CaseCamel:    true,
	CaseKebab:    true,
	CasePascal:   true,
	CaseSentence: true,
	CaseSnake:    true,
	CaseStart:    true,
}

var (
	none      = Shape{Kinds: []ValueKind{ValueNone}}
	bound     = Shape{Kinds: []ValueKind{ValueInt}}
	enum      = Shape{Kinds: []ValueKind{ValueList}}
	casing    = Shape{Kinds: []ValueKind{ValueString, ValueList}, Cases: true}
	character = Shape{Kinds: []ValueKind{ValueString}}
)

func describe(s Shape, d string) Shape {
	s.Description = d
	return s
}

// Shapes is the registry of known rule identifiers.
var Shapes = map[string]Shape{
	"body-case":            describe(casing, "body is in the given case"),
	"body-empty":           describe(none, "body is empty"),
	"body-full-stop":       describe(character, "body ends with the given character"),
	"body-leading-blank":   describe(none, "body begins with a blank line"),
	"body-max-length":      describe(bound, "body has at most N characters"),
	"body-max-line-length": describe(bound, "body lines have at most N characters"),
	"body-min-length":      describe(bound, "body has at least N characters"),

	"footer-empty":           describe(none, "footer is empty"),
	"footer-leading-blank":   describe(none, "footer begins with a blank line"),
	"footer-max-length":      describe(bound, "footer has at most N characters"),
	"footer-max-line-length": describe(bound, "footer lines have at most N characters"),
	"footer-min-length":      describe(bound, "footer has at least N characters"),

	"header-case":       describe(casing, "header is in the given case"),
	"header-full-stop":  describe(character, "header ends with the given character"),
	"header-max-length": describe(bound, "header has at most N characters"),
	"header-min-length": describe(bound, "header has at least N characters"),
	"header-trim":       describe(none, "header has no surrounding whitespace"),

	"references-empty": describe(none, "message references no issues"),

	"scope-case":       describe(casing, "scope is in the given case"),
	"scope-empty":      describe(none, "scope is empty"),
	"scope-enum":       describe(enum, "scope is one of the given values"),
	"scope-max-length": describe(bound, "scope has at most N characters"),
	"scope-min-length": describe(bound, "scope has at least N characters"),

	"signed-off-by": {
		Kinds:       []ValueKind{ValueNone, ValueString},
		Optional:    true,
		Description: "message has a Signed-off-by trailer",
	},

	"subject-case":             describe(casing, "subject is in the given case"),
	"subject-empty":            describe(none, "subject is empty"),
	"subject-exclamation-mark": describe(none, "header has a ! before the colon"),
	"subject-full-stop":        describe(character, "subject ends with the given character"),
	"subject-max-length":       describe(bound, "subject has at most N characters"),
	"subject-min-length":       describe(bound, "subject has at least N characters"),

	"trailer-exists": describe(character, "message has the given trailer"),

	"type-case":       describe(casing, "type is in the given case"),
	"type-empty":      describe(none, "type is empty"),
	"type-enum":       describe(enum, "type is one of the given values"),
	"type-max-length": describe(bound, "type has at most N characters"),
	"type-min-length": describe(bound, "type has at least N characters"),
}

// Names returns the registry identifiers sorted.
func Names() []string {
	names := make([]string, 0, len(Shapes))
	for name := range Shapes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
