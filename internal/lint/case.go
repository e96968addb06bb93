package lint

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/JNZader/commitlint/internal/rules"
)

// Casers are stateful, so each check builds its own.
func lower(s string) string { return cases.Lower(language.Und).String(s) }
func upper(s string) string { return cases.Upper(language.Und).String(s) }
func title(s string) string { return cases.Title(language.Und).String(s) }

var (
	camelPattern = regexp.MustCompile(`^\p{Ll}[\p{Ll}\p{N}]*(?:\p{Lu}[\p{L}\p{N}]*)+$`)
	kebabPattern = regexp.MustCompile(`^[\p{Ll}\p{N}]+(?:-[\p{Ll}\p{N}]+)*$`)
	snakePattern = regexp.MustCompile(`^[\p{Ll}\p{N}]+(?:_[\p{Ll}\p{N}]+)*$`)

	pascalWordPattern = regexp.MustCompile(`^(?:\p{Lu}[\p{Ll}\p{N}]+)+$`)
)

// IsCase reports whether s is written in the named case.
func IsCase(s, name string) bool {
	switch name {
	case rules.CaseLower:
		return lower(s) == s
	case rules.CaseUpper:
		return hasLetter(s) && upper(s) == s
	case rules.CaseCamel:
		return camelPattern.MatchString(s)
	case rules.CaseKebab:
		return kebabPattern.MatchString(s)
	case rules.CaseSnake:
		return snakePattern.MatchString(s)
	case rules.CasePascal:
		return isPascal(s)
	case rules.CaseStart:
		return hasLetter(s) && title(s) == s
	case rules.CaseSentence:
		return isSentence(s)
	default:
		return false
	}
}

// matchesAnyCase reports whether s is in at least one of the named cases.
func matchesAnyCase(s string, names []string) bool {
	for _, name := range names {
		if IsCase(s, name) {
			return true
		}
	}
	return false
}

// isPascal holds when every word is made of capitalized segments:
// "FixThing" and "Fix Thing" qualify, "FIX", "Fix thing" and
// "Update README" do not.
func isPascal(s string) bool {
	words := strings.Fields(s)
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if !pascalWordPattern.MatchString(w) {
			return false
		}
	}
	return true
}

func isSentence(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	if !unicode.IsUpper(r) {
		return false
	}
	rest := s[size:]
	return lower(rest) == rest
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
