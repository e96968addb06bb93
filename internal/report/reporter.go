// Package report renders lint outcomes.
package report

import (
	"fmt"
	"io"

	"github.com/JNZader/commitlint/internal/lint"
)

// Report is the rendered view of a lint run.
type Report struct {
	Valid    bool            `json:"valid"`
	Summary  lint.Summary    `json:"summary"`
	Outcomes []*lint.Outcome `json:"results"`
}

// NewReport builds a report from outcomes. Strict mode treats warnings as
// failures.
func NewReport(outcomes []*lint.Outcome, strict bool) *Report {
	summary := lint.Summarize(outcomes)
	return &Report{
		Valid:    !summary.Failed(strict),
		Summary:  summary,
		Outcomes: outcomes,
	}
}

// Reporter defines the interface for generating lint reports.
type Reporter interface {
	// Generate creates a report string.
	Generate(r *Report) (string, error)

	// Write writes the report to a writer.
	Write(r *Report, w io.Writer) error

	// Format returns the format name.
	Format() string
}

// Options tune the reporters that support them.
type Options struct {
	// Verbose also prints valid messages.
	Verbose bool

	// Color enables ANSI colors in text output.
	Color bool
}

// NewReporter creates a reporter for the given format.
func NewReporter(format string, opts Options) (Reporter, error) {
	switch format {
	case "text", "":
		return &TextReporter{Verbose: opts.Verbose, Color: opts.Color}, nil
	case "json":
		return &JSONReporter{Indent: true}, nil
	case "markdown", "md":
		return &MarkdownReporter{}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// AvailableFormats returns the list of supported formats.
func AvailableFormats() []string {
	return []string{"text", "json", "markdown"}
}
