package lint

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/JNZader/commitlint/internal/commit"
	"github.com/JNZader/commitlint/internal/rules"
)

// check evaluates one rule against a parsed commit and returns whether it
// passed and, if not, the diagnostic.
type check func(c *commit.Commit, when rules.Applicability, v rules.Value) (bool, string)

// field selects part of a commit.
type field func(c *commit.Commit) string

func header(c *commit.Commit) string  { return c.Header }
func typ(c *commit.Commit) string     { return c.Type }
func scope(c *commit.Commit) string   { return c.Scope }
func subject(c *commit.Commit) string { return c.Subject }
func body(c *commit.Commit) string    { return c.Body }
func footer(c *commit.Commit) string  { return c.Footer }

var checks = map[string]check{
	"body-case":            caseCheck(body, "body"),
	"body-empty":           emptyCheck(body, "body"),
	"body-full-stop":       fullStopCheck(body, "body"),
	"body-leading-blank":   bodyLeadingBlank,
	"body-max-length":      maxLengthCheck(body, "body"),
	"body-max-line-length": maxLineLengthCheck(body, "body"),
	"body-min-length":      minLengthCheck(body, "body"),

	"footer-empty":           emptyCheck(footer, "footer"),
	"footer-leading-blank":   footerLeadingBlank,
	"footer-max-length":      maxLengthCheck(footer, "footer"),
	"footer-max-line-length": maxLineLengthCheck(footer, "footer"),
	"footer-min-length":      minLengthCheck(footer, "footer"),

	"header-case":       caseCheck(header, "header"),
	"header-full-stop":  fullStopCheck(header, "header"),
	"header-max-length": maxLengthCheck(header, "header"),
	"header-min-length": minLengthCheck(header, "header"),
	"header-trim":       headerTrim,

	"references-empty": referencesEmpty,

	"scope-case":       scopeCase,
	"scope-empty":      emptyCheck(scope, "scope"),
	"scope-enum":       enumCheck(func(c *commit.Commit) []string { return c.Scopes() }, "scope", false),
	"scope-max-length": maxLengthCheck(scope, "scope"),
	"scope-min-length": minLengthCheck(scope, "scope"),

	"signed-off-by": trailerCheck("Signed-off-by:", "message", "be signed off"),

	"subject-case":             caseCheck(subject, "subject"),
	"subject-empty":            emptyCheck(subject, "subject"),
	"subject-exclamation-mark": exclamationMark,
	"subject-full-stop":        fullStopCheck(subject, "subject"),
	"subject-max-length":       maxLengthCheck(subject, "subject"),
	"subject-min-length":       minLengthCheck(subject, "subject"),

	"trailer-exists": trailerCheck("", "message", "have trailer"),

	"type-case":       caseCheck(typ, "type"),
	"type-empty":      emptyCheck(typ, "type"),
	"type-enum":       enumCheck(func(c *commit.Commit) []string { return nonEmpty(c.Type) }, "type", true),
	"type-max-length": maxLengthCheck(typ, "type"),
	"type-min-length": minLengthCheck(typ, "type"),
}

// Supported reports whether the linter implements a rule identifier.
func Supported(name string) bool {
	_, ok := checks[name]
	return ok
}

func negate(when rules.Applicability) string {
	if when == rules.Never {
		return "not "
	}
	return ""
}

// holds applies applicability to a condition: always requires it, never
// forbids it.
func holds(when rules.Applicability, cond bool) bool {
	if when == rules.Never {
		return !cond
	}
	return cond
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

func caseCheck(f field, label string) check {
	return func(c *commit.Commit, when rules.Applicability, v rules.Value) (bool, string) {
		text := f(c)
		if text == "" {
			return true, ""
		}
		names := v.Strings()
		if holds(when, matchesAnyCase(text, names)) {
			return true, ""
		}
		return false, fmt.Sprintf("%s must %sbe %s", label, negate(when), strings.Join(names, ", "))
	}
}

func scopeCase(c *commit.Commit, when rules.Applicability, v rules.Value) (bool, string) {
	names := v.Strings()
	for _, s := range c.Scopes() {
		if !holds(when, matchesAnyCase(s, names)) {
			return false, fmt.Sprintf("scope must %sbe %s", negate(when), strings.Join(names, ", "))
		}
	}
	return true, ""
}

func emptyCheck(f field, label string) check {
	return func(c *commit.Commit, when rules.Applicability, _ rules.Value) (bool, string) {
		if holds(when, strings.TrimSpace(f(c)) == "") {
			return true, ""
		}
		if when == rules.Never {
			return false, label + " may not be empty"
		}
		return false, label + " must be empty"
	}
}

// enumCheck treats an empty list as unrestricted.
func enumCheck(values func(c *commit.Commit) []string, label string, foldCase bool) check {
	return func(c *commit.Commit, when rules.Applicability, v rules.Value) (bool, string) {
		allowed := v.Strings()
		if len(allowed) == 0 {
			return true, ""
		}
		for _, value := range values(c) {
			if !holds(when, contains(allowed, value, foldCase)) {
				return false, fmt.Sprintf("%s must %sbe one of [%s]", label, negate(when), strings.Join(allowed, ", "))
			}
		}
		return true, ""
	}
}

func contains(list []string, s string, foldCase bool) bool {
	for _, item := range list {
		if item == s || foldCase && strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

func maxLengthCheck(f field, label string) check {
	return func(c *commit.Commit, _ rules.Applicability, v rules.Value) (bool, string) {
		n := utf8.RuneCountInString(f(c))
		if n <= v.Int {
			return true, ""
		}
		return false, fmt.Sprintf("%s must not be longer than %d characters, current length is %d", label, v.Int, n)
	}
}

func minLengthCheck(f field, label string) check {
	return func(c *commit.Commit, _ rules.Applicability, v rules.Value) (bool, string) {
		text := f(c)
		n := utf8.RuneCountInString(text)
		if text == "" || n >= v.Int {
			return true, ""
		}
		return false, fmt.Sprintf("%s must not be shorter than %d characters, current length is %d", label, v.Int, n)
	}
}

func maxLineLengthCheck(f field, label string) check {
	return func(c *commit.Commit, _ rules.Applicability, v rules.Value) (bool, string) {
		for _, line := range strings.Split(f(c), "\n") {
			if utf8.RuneCountInString(line) > v.Int {
				return false, fmt.Sprintf("%s's lines must not be longer than %d characters", label, v.Int)
			}
		}
		return true, ""
	}
}

func fullStopCheck(f field, label string) check {
	return func(c *commit.Commit, when rules.Applicability, v rules.Value) (bool, string) {
		text := strings.TrimRight(f(c), " \t")
		if text == "" || holds(when, strings.HasSuffix(text, v.Str)) {
			return true, ""
		}
		if when == rules.Never {
			return false, label + " may not end with full stop"
		}
		return false, label + " must end with full stop"
	}
}

func bodyLeadingBlank(c *commit.Commit, when rules.Applicability, _ rules.Value) (bool, string) {
	if c.Body == "" && c.Footer == "" {
		return true, ""
	}
	if holds(when, c.BodyLeadingBlank) {
		return true, ""
	}
	return false, fmt.Sprintf("body must %shave leading blank line", negate(when))
}

func footerLeadingBlank(c *commit.Commit, when rules.Applicability, _ rules.Value) (bool, string) {
	if c.Footer == "" {
		return true, ""
	}
	if holds(when, c.FooterLeadingBlank) {
		return true, ""
	}
	return false, fmt.Sprintf("footer must %shave leading blank line", negate(when))
}

func headerTrim(c *commit.Commit, when rules.Applicability, _ rules.Value) (bool, string) {
	if holds(when, strings.TrimSpace(c.Header) == c.Header) {
		return true, ""
	}
	if when == rules.Never {
		return false, "header must be surrounded by whitespace"
	}
	return false, "header must not be surrounded by whitespace"
}

func referencesEmpty(c *commit.Commit, when rules.Applicability, _ rules.Value) (bool, string) {
	if holds(when, len(c.References) == 0) {
		return true, ""
	}
	if when == rules.Never {
		return false, "references may not be empty"
	}
	return false, "references must be empty"
}

func exclamationMark(c *commit.Commit, when rules.Applicability, _ rules.Value) (bool, string) {
	if holds(when, c.Bang) {
		return true, ""
	}
	return false, fmt.Sprintf("subject must %shave an exclamation mark in the subject to identify a breaking change", negate(when))
}

// trailerCheck looks for a trailer token, falling back to def when the rule
// has no parameter.
func trailerCheck(def, label, verb string) check {
	return func(c *commit.Commit, when rules.Applicability, v rules.Value) (bool, string) {
		token := def
		if v.Kind == rules.ValueString && v.Str != "" {
			token = v.Str
		}
		if holds(when, c.HasTrailer(token)) {
			return true, ""
		}
		msg := fmt.Sprintf("%s must %s%s", label, negate(when), verb)
		if def == "" {
			msg += " " + token
		}
		return false, msg
	}
}
