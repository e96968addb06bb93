package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/JNZader/commitlint/internal/lint"
)

const (
	iconInput   = "⧗"
	iconError   = "✖"
	iconWarning = "⚠"
	iconOK      = "✔"
	iconHelp    = "ⓘ"

	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiGreen  = "\x1b[32m"
	ansiGray   = "\x1b[90m"
	ansiReset  = "\x1b[0m"
)

// TextReporter prints one block per message in the style of a terminal
// linter.
type TextReporter struct {
	Verbose bool
	Color   bool
}

func (r *TextReporter) Format() string { return "text" }

func (r *TextReporter) Generate(rep *Report) (string, error) {
	var sb strings.Builder
	if err := r.Write(rep, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (r *TextReporter) Write(rep *Report, w io.Writer) error {
	for _, o := range rep.Outcomes {
		if o.Ignored {
			continue
		}
		clean := len(o.Errors) == 0 && len(o.Warnings) == 0
		if clean && !r.Verbose {
			continue
		}
		if err := r.writeOutcome(w, o); err != nil {
			return err
		}
	}
	return nil
}

func (r *TextReporter) writeOutcome(w io.Writer, o *lint.Outcome) error {
	var sb strings.Builder

	input := o.Header
	if o.ID != "" {
		input = shortHash(o.ID) + " " + input
	}
	fmt.Fprintf(&sb, "%s   input: %s\n", r.paint(ansiGray, iconInput), input)

	for _, f := range o.Errors {
		fmt.Fprintf(&sb, "%s   %s\n", r.paint(ansiRed, iconError), f.Error())
	}
	for _, f := range o.Warnings {
		fmt.Fprintf(&sb, "%s   %s\n", r.paint(ansiYellow, iconWarning), f.Error())
	}

	sb.WriteString("\n")

	icon := r.paint(ansiGreen, iconOK)
	switch {
	case len(o.Errors) > 0:
		icon = r.paint(ansiRed, iconError)
	case len(o.Warnings) > 0:
		icon = r.paint(ansiYellow, iconWarning)
	}
	fmt.Fprintf(&sb, "%s   found %d problems, %d warnings\n", icon, len(o.Errors), len(o.Warnings))

	if !o.Valid && o.HelpURL != "" {
		fmt.Fprintf(&sb, "%s   Get help: %s\n", iconHelp, o.HelpURL)
	}
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func (r *TextReporter) paint(color, s string) string {
	if !r.Color {
		return s
	}
	return color + s + ansiReset
}

func shortHash(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
