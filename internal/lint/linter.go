// Package lint applies an effective rule set to commit messages.
package lint

import (
	"context"
	"fmt"
	"regexp"

	"github.com/JNZader/commitlint/internal/commit"
	"github.com/JNZader/commitlint/internal/logger"
	"github.com/JNZader/commitlint/internal/metrics"
	"github.com/JNZader/commitlint/internal/rules"
	"github.com/JNZader/commitlint/internal/worker"
)

// Patterns of messages git or hosting services generate on their own.
var defaultIgnores = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^(Merge pull request .*|Merge (.*?) into (.*?)|Merge branch (.*?))(?:\r?\n)*$`),
	regexp.MustCompile(`^(R|r)evert (.*)`),
	regexp.MustCompile(`^(amend|fixup|squash)!`),
	regexp.MustCompile(`^(Merged (.*?)(in|into) (.*)|Merged PR (.*): (.*))`),
	regexp.MustCompile(`^Merge remote-tracking branch(\s*)(.*)`),
	regexp.MustCompile(`^Automatic merge(.*)`),
	regexp.MustCompile(`^Auto-merged (.*?) into (.*)`),
}

// Linter lints commit messages.
type Linter struct {
	ignores        []*regexp.Regexp
	defaultIgnores bool
	helpURL        string
	workers        int
	log            *logger.Logger
	metrics        *metrics.Collector
}

// Option configures a Linter.
type Option func(*Linter) error

// WithIgnores adds regular expressions; matching messages are not linted.
func WithIgnores(patterns ...string) Option {
	return func(l *Linter) error {
		for _, p := range patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return fmt.Errorf("compiling ignore pattern %q: %w", p, err)
			}
			l.ignores = append(l.ignores, re)
		}
		return nil
	}
}

// WithDefaultIgnores toggles the built-in merge/revert/fixup ignores.
func WithDefaultIgnores(enabled bool) Option {
	return func(l *Linter) error {
		l.defaultIgnores = enabled
		return nil
	}
}

// WithHelpURL sets the URL printed alongside failed outcomes.
func WithHelpURL(url string) Option {
	return func(l *Linter) error {
		l.helpURL = url
		return nil
	}
}

// WithWorkers bounds parallelism for LintAll.
func WithWorkers(n int) Option {
	return func(l *Linter) error {
		l.workers = n
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(l *Linter) error {
		l.log = log
		return nil
	}
}

// WithMetrics sets the collector that counts linted messages and failures.
func WithMetrics(c *metrics.Collector) Option {
	return func(l *Linter) error {
		l.metrics = c
		return nil
	}
}

// New creates a Linter.
func New(opts ...Option) (*Linter, error) {
	l := &Linter{
		defaultIgnores: true,
		log:            logger.Default(),
		metrics:        metrics.Global(),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Input is one message to lint, identified by a commit hash or a label.
type Input struct {
	ID      string
	Message string
}

// Lint checks one message against an effective rule set. A malformed rule
// set fails before any rule is applied.
func (l *Linter) Lint(ctx context.Context, message string, set rules.RuleSet) (*Outcome, error) {
	if err := l.prepare(set); err != nil {
		return nil, err
	}
	return l.lint(ctx, Input{Message: message}, rules.Enabled(set))
}

// LintAll lints several messages in parallel. Outcomes keep input order.
func (l *Linter) LintAll(ctx context.Context, inputs []Input, set rules.RuleSet) ([]*Outcome, error) {
	if err := l.prepare(set); err != nil {
		return nil, err
	}
	enabled := rules.Enabled(set)

	outcomes := make([]*Outcome, len(inputs))
	tasks := make([]worker.Task, len(inputs))
	for i, in := range inputs {
		tasks[i] = &lintTask{
			linter:  l,
			input:   in,
			enabled: enabled,
			out:     &outcomes[i],
		}
	}

	pool := worker.NewPool(worker.Config{Workers: l.workers})
	results, err := pool.Run(ctx, tasks)
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		if r.Error != nil {
			return nil, fmt.Errorf("linting %s: %w", r.TaskID, r.Error)
		}
	}

	l.log.Debug("linted %d messages (%s)", len(inputs), pool.Stats())
	return outcomes, nil
}

func (l *Linter) prepare(set rules.RuleSet) error {
	if err := rules.ValidateSet(set); err != nil {
		return err
	}
	for _, name := range set.Names() {
		if !Supported(name) {
			return &rules.MalformedRuleError{Rule: name, Reason: "no implementation"}
		}
	}
	return nil
}

func (l *Linter) lint(ctx context.Context, in Input, enabled []rules.Rule) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer l.metrics.Timer(metrics.LintDuration).Start().Stop()
	l.metrics.Counter(metrics.MessagesTotal).Inc()

	parsed := commit.Parse(in.Message)
	outcome := &Outcome{
		ID:      in.ID,
		Input:   parsed.Raw,
		Header:  parsed.Header,
		Valid:   true,
		HelpURL: l.helpURL,
	}

	if l.ignored(parsed.Raw) {
		outcome.Ignored = true
		l.metrics.Counter(metrics.MessagesIgnored).Inc()
		l.log.Debug("ignoring %q", parsed.Header)
		return outcome, nil
	}

	for _, rule := range enabled {
		ok, msg := checks[rule.Name](parsed, rule.Applicability, rule.Value)
		if ok {
			continue
		}

		failure := ValidationFailure{Rule: rule.Name, Severity: rule.Severity, Message: msg}
		switch rule.Severity {
		case rules.SeverityError:
			outcome.Errors = append(outcome.Errors, failure)
			outcome.Valid = false
		case rules.SeverityWarning:
			outcome.Warnings = append(outcome.Warnings, failure)
		}
		l.metrics.Counter(metrics.RuleFailures, "rule", rule.Name, "level", rule.Severity.String()).Inc()
		l.log.WithField("rule", rule.Name).Debug("%s", msg)
	}

	return outcome, nil
}

func (l *Linter) ignored(message string) bool {
	if l.defaultIgnores {
		for _, re := range defaultIgnores {
			if re.MatchString(message) {
				return true
			}
		}
	}
	for _, re := range l.ignores {
		if re.MatchString(message) {
			return true
		}
	}
	return false
}

type lintTask struct {
	linter  *Linter
	input   Input
	enabled []rules.Rule
	out     **Outcome
}

func (t *lintTask) ID() string {
	if t.input.ID != "" {
		return t.input.ID
	}
	return "message"
}

func (t *lintTask) Execute(ctx context.Context) error {
	outcome, err := t.linter.lint(ctx, t.input, t.enabled)
	if err != nil {
		return err
	}
	*t.out = outcome
	return nil
}
