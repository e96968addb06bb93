package lint

import (
	"testing"

	"github.com/JNZader/commitlint/internal/rules"
)

func TestIsCase(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"fix thing", []string{rules.CaseLower}},
		{"FIX THING", []string{rules.CaseUpper}},
		{"Fix Thing", []string{rules.CasePascal, rules.CaseStart}},
		{"FixThing", []string{rules.CasePascal}},
		{"fixThing", []string{rules.CaseCamel}},
		{"fix-thing", []string{rules.CaseLower, rules.CaseKebab}},
		{"fix_thing", []string{rules.CaseLower, rules.CaseSnake}},
		{"Fix thing", []string{rules.CaseSentence}},
		{"fix", []string{rules.CaseLower, rules.CaseKebab, rules.CaseSnake}},
		{"Fix", []string{rules.CasePascal, rules.CaseStart, rules.CaseSentence}},
		{"handle empty input", []string{rules.CaseLower}},
		{"Update README", nil},
		{"Parse JSONBody", nil},
	}

	all := []string{
		rules.CaseLower, rules.CaseUpper, rules.CaseCamel, rules.CaseKebab,
		rules.CasePascal, rules.CaseSentence, rules.CaseSnake, rules.CaseStart,
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			want := make(map[string]bool, len(tt.want))
			for _, c := range tt.want {
				want[c] = true
			}
			for _, c := range all {
				if got := IsCase(tt.input, c); got != want[c] {
					t.Errorf("IsCase(%q, %s) = %v, want %v", tt.input, c, got, want[c])
				}
			}
		})
	}
}

func TestIsCaseUnknown(t *testing.T) {
	if IsCase("anything", "shouting-case") {
		t.Error("unknown case names never match")
	}
}
