package lint

import (
	"fmt"

	"github.com/JNZader/commitlint/internal/rules"
)

// ValidationFailure is a rule that rejected a commit message.
type ValidationFailure struct {
	Rule     string         `json:"name"`
	Severity rules.Severity `json:"level"`
	Message  string         `json:"message"`
}

func (f ValidationFailure) Error() string {
	return fmt.Sprintf("%s [%s]", f.Message, f.Rule)
}

// Outcome is the result of linting one message.
type Outcome struct {
	ID       string              `json:"id,omitempty"`
	Input    string              `json:"input"`
	Header   string              `json:"-"`
	Valid    bool                `json:"valid"`
	Ignored  bool                `json:"ignored,omitempty"`
	Errors   []ValidationFailure `json:"errors"`
	Warnings []ValidationFailure `json:"warnings"`
	HelpURL  string              `json:"-"`
}

// Summary aggregates outcomes of a run.
type Summary struct {
	Messages int `json:"messages"`
	Ignored  int `json:"ignored"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// Summarize counts failures across outcomes.
func Summarize(outcomes []*Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		s.Messages++
		if o.Ignored {
			s.Ignored++
		}
		s.Errors += len(o.Errors)
		s.Warnings += len(o.Warnings)
	}
	return s
}

// Failed reports whether the run should exit non-zero. Strict mode also
// fails on warnings.
func (s Summary) Failed(strict bool) bool {
	return s.Errors > 0 || strict && s.Warnings > 0
}

// ExitCode maps the summary to a process exit status.
func (s Summary) ExitCode(strict bool) int {
	if s.Failed(strict) {
		return 1
	}
	return 0
}
