package lint

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JNZader/commitlint/internal/metrics"
	"github.com/JNZader/commitlint/internal/rules"
)

func effectiveRules(t *testing.T) rules.RuleSet {
	t.Helper()

	base, err := rules.NewLoader("").Resolve([]string{"conventional"})
	require.NoError(t, err)

	overlay, err := rules.ParseRuleSet(map[string]interface{}{
		"body-max-line-length": []interface{}{2, "always", 200},
		"header-max-length":    []interface{}{2, "always", 100},
		"subject-case":         []interface{}{2, "never", []interface{}{"upper-case", "pascal-case", "camel-case"}},
		"type-enum": []interface{}{2, "always", []interface{}{
			"build", "chore", "ci", "docs", "feat", "fix", "perf",
			"refactor", "revert", "style", "test", "wip",
		}},
		"scope-enum":  []interface{}{0, "always", []interface{}{}},
		"scope-empty": []interface{}{0, "never"},
	})
	require.NoError(t, err)

	set, err := rules.Merge(base, overlay)
	require.NoError(t, err)
	return set
}

func newLinter(t *testing.T, opts ...Option) *Linter {
	t.Helper()
	l, err := New(opts...)
	require.NoError(t, err)
	return l
}

func failedRules(failures []ValidationFailure) []string {
	names := make([]string, 0, len(failures))
	for _, f := range failures {
		names = append(names, f.Rule)
	}
	return names
}

func TestLintPascalCaseSubject(t *testing.T) {
	outcome, err := newLinter(t).Lint(context.Background(), "WIP: Fix Thing", effectiveRules(t))
	require.NoError(t, err)

	assert.False(t, outcome.Valid)
	assert.Contains(t, failedRules(outcome.Errors), "subject-case")
	assert.NotContains(t, failedRules(outcome.Errors), "type-enum")
	assert.Equal(t, 1, Summarize([]*Outcome{outcome}).ExitCode(false))

	for _, f := range outcome.Errors {
		if f.Rule == "subject-case" {
			assert.Equal(t, rules.SeverityError, f.Severity)
			assert.Equal(t, "subject must not be upper-case, pascal-case, camel-case", f.Message)
		}
	}
}

func TestLintAcronymSubjectIsNotPascal(t *testing.T) {
	outcome, err := newLinter(t).Lint(context.Background(), "docs: Update README", effectiveRules(t))
	require.NoError(t, err)

	assert.True(t, outcome.Valid)
	assert.Empty(t, outcome.Errors)
}

func TestLintLongBodyLine(t *testing.T) {
	msg := "fix: handle long line\n\n" + strings.Repeat("a", 250)

	outcome, err := newLinter(t).Lint(context.Background(), msg, effectiveRules(t))
	require.NoError(t, err)

	assert.False(t, outcome.Valid)
	assert.Equal(t, []string{"body-max-line-length"}, failedRules(outcome.Errors))
	assert.Equal(t, "body's lines must not be longer than 200 characters", outcome.Errors[0].Message)
}

func TestLintProseParagraphStaysInBody(t *testing.T) {
	l := newLinter(t)
	set := effectiveRules(t)

	outcome, err := l.Lint(context.Background(), "fix: handle thing\n\nDetails: "+strings.Repeat("a", 150), set)
	require.NoError(t, err)
	assert.True(t, outcome.Valid)
	assert.Empty(t, outcome.Errors)

	outcome, err = l.Lint(context.Background(), "fix: handle thing\n\nNote: "+strings.Repeat("a", 250), set)
	require.NoError(t, err)
	assert.Equal(t, []string{"body-max-line-length"}, failedRules(outcome.Errors))
}

func TestLintUnknownType(t *testing.T) {
	outcome, err := newLinter(t).Lint(context.Background(), "feature: add login", effectiveRules(t))
	require.NoError(t, err)

	assert.False(t, outcome.Valid)
	assert.Equal(t, []string{"type-enum"}, failedRules(outcome.Errors))
	assert.True(t, strings.HasPrefix(outcome.Errors[0].Message, "type must be one of [build, chore"))
}

func TestLintWellFormed(t *testing.T) {
	msg := "fix(parser): handle empty input\n\nThe tokenizer returned nil for empty files.\n\nCloses #12"

	outcome, err := newLinter(t).Lint(context.Background(), msg, effectiveRules(t))
	require.NoError(t, err)

	assert.True(t, outcome.Valid)
	assert.Empty(t, outcome.Errors)
	assert.Empty(t, outcome.Warnings)
	assert.Equal(t, 0, Summarize([]*Outcome{outcome}).ExitCode(true))
}

func TestLintDisabledScopeRules(t *testing.T) {
	set := effectiveRules(t)
	l := newLinter(t)

	for _, header := range []string{
		"fix: handle input",
		"fix(parser): handle input",
		"fix(Any Scope): handle input",
		"fix(api,web/cli): handle input",
	} {
		outcome, err := l.Lint(context.Background(), header, set)
		require.NoError(t, err)
		assert.True(t, outcome.Valid, header)
		for _, f := range append(outcome.Errors, outcome.Warnings...) {
			assert.False(t, strings.HasPrefix(f.Rule, "scope-"), header)
		}
	}
}

func TestLintWarningsDoNotFail(t *testing.T) {
	outcome, err := newLinter(t).Lint(context.Background(), "fix: handle input\nno blank line above", effectiveRules(t))
	require.NoError(t, err)

	assert.True(t, outcome.Valid)
	assert.Equal(t, []string{"body-leading-blank"}, failedRules(outcome.Warnings))

	summary := Summarize([]*Outcome{outcome})
	assert.Equal(t, 0, summary.ExitCode(false))
	assert.Equal(t, 1, summary.ExitCode(true))
}

func TestLintHeaderTooLong(t *testing.T) {
	msg := "feat: " + strings.Repeat("x", 120)

	outcome, err := newLinter(t).Lint(context.Background(), msg, effectiveRules(t))
	require.NoError(t, err)

	require.Equal(t, []string{"header-max-length"}, failedRules(outcome.Errors))
	assert.Equal(t, "header must not be longer than 100 characters, current length is 126", outcome.Errors[0].Message)
}

func TestLintEmptyMessage(t *testing.T) {
	outcome, err := newLinter(t).Lint(context.Background(), "", effectiveRules(t))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"subject-empty", "type-empty"}, failedRules(outcome.Errors))
}

func TestLintIgnores(t *testing.T) {
	set := effectiveRules(t)

	tests := []struct {
		name    string
		message string
		opts    []Option
		ignored bool
	}{
		{"merge branch", "Merge branch 'main' into feature", nil, true},
		{"merge pull request", "Merge pull request #12 from org/branch", nil, true},
		{"git revert", `Revert "feat: add thing"`, nil, true},
		{"fixup", "fixup! feat: add thing", nil, true},
		{"defaults off", "Merge branch 'main' into feature", []Option{WithDefaultIgnores(false)}, false},
		{"custom pattern", "release 1.2.3", []Option{WithIgnores(`^release \d`)}, true},
		{"conventional revert type", "revert: undo thing", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := newLinter(t, tt.opts...).Lint(context.Background(), tt.message, set)
			require.NoError(t, err)
			assert.Equal(t, tt.ignored, outcome.Ignored)
			if tt.ignored {
				assert.True(t, outcome.Valid)
				assert.Empty(t, outcome.Errors)
			}
		})
	}
}

func TestNewRejectsBadIgnore(t *testing.T) {
	_, err := New(WithIgnores("("))
	require.Error(t, err)
}

func TestLintMalformedRuleSet(t *testing.T) {
	set := effectiveRules(t)
	set["header-max-length"] = rules.Rule{
		Name:          "header-max-length",
		Severity:      rules.SeverityError,
		Applicability: rules.Always,
		Value:         rules.StringValue("wide"),
	}

	outcome, err := newLinter(t).Lint(context.Background(), "fix: x", set)
	require.ErrorIs(t, err, rules.ErrMalformedRule)
	assert.Nil(t, outcome)
}

func TestLintAll(t *testing.T) {
	inputs := []Input{
		{ID: "a1", Message: "fix(parser): handle empty input"},
		{ID: "b2", Message: "feature: add login"},
		{ID: "c3", Message: "Merge branch 'main' into dev"},
		{ID: "d4", Message: "WIP: Fix Thing"},
	}

	outcomes, err := newLinter(t, WithWorkers(2)).LintAll(context.Background(), inputs, effectiveRules(t))
	require.NoError(t, err)
	require.Len(t, outcomes, len(inputs))

	for i, o := range outcomes {
		assert.Equal(t, inputs[i].ID, o.ID)
	}
	assert.True(t, outcomes[0].Valid)
	assert.False(t, outcomes[1].Valid)
	assert.True(t, outcomes[2].Ignored)
	assert.False(t, outcomes[3].Valid)

	summary := Summarize(outcomes)
	assert.Equal(t, 4, summary.Messages)
	assert.Equal(t, 1, summary.Ignored)
	assert.True(t, summary.Failed(false))
}

func TestLintAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newLinter(t).LintAll(ctx, []Input{{ID: "x", Message: "fix: x"}}, effectiveRules(t))
	require.ErrorIs(t, err, context.Canceled)
}

func TestEveryRegisteredRuleIsImplemented(t *testing.T) {
	for _, name := range rules.Names() {
		assert.True(t, Supported(name), name)
	}
	for name := range checks {
		_, ok := rules.Shapes[name]
		assert.True(t, ok, name)
	}
}

func TestValidationFailureError(t *testing.T) {
	f := ValidationFailure{Rule: "type-enum", Severity: rules.SeverityError, Message: "type must be one of [fix]"}
	assert.Equal(t, "type must be one of [fix] [type-enum]", f.Error())
}

func TestLintMetrics(t *testing.T) {
	c := metrics.NewCollector()
	l := newLinter(t, WithMetrics(c))
	set := effectiveRules(t)

	inputs := []Input{
		{ID: "a", Message: "feature: add login"},
		{ID: "b", Message: "fix: handle input\nno blank line above"},
		{ID: "c", Message: "Merge branch 'main' into dev"},
	}
	_, err := l.LintAll(context.Background(), inputs, set)
	require.NoError(t, err)

	assert.Equal(t, int64(3), c.Counter(metrics.MessagesTotal).Value())
	assert.Equal(t, int64(1), c.Counter(metrics.MessagesIgnored).Value())
	assert.Equal(t, int64(1), c.Counter(metrics.RuleFailures, "rule", "type-enum", "level", "error").Value())
	assert.Equal(t, int64(1), c.Counter(metrics.RuleFailures, "rule", "body-leading-blank", "level", "warning").Value())
	assert.Equal(t, 3, c.Timer(metrics.LintDuration).Stats().Count)
}
