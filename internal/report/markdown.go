package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/JNZader/commitlint/internal/lint"
)

// MarkdownReporter generates Markdown reports, suited to pull request
// comments.
type MarkdownReporter struct{}

func (r *MarkdownReporter) Format() string { return "markdown" }

func (r *MarkdownReporter) Generate(rep *Report) (string, error) {
	var sb strings.Builder
	_ = r.Write(rep, &sb)
	return sb.String(), nil
}

func (r *MarkdownReporter) Write(rep *Report, w io.Writer) error {
	var sb strings.Builder

	sb.WriteString("# Commit Lint Report\n\n")

	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- **Messages:** %d\n", rep.Summary.Messages)
	fmt.Fprintf(&sb, "- **Ignored:** %d\n", rep.Summary.Ignored)
	fmt.Fprintf(&sb, "- **Errors:** %d\n", rep.Summary.Errors)
	fmt.Fprintf(&sb, "- **Warnings:** %d\n", rep.Summary.Warnings)
	sb.WriteString("\n")

	if rep.Summary.Errors == 0 && rep.Summary.Warnings == 0 {
		sb.WriteString("No problems found.\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	sb.WriteString("## Problems\n\n")
	for _, o := range rep.Outcomes {
		if len(o.Errors) == 0 && len(o.Warnings) == 0 {
			continue
		}
		r.writeOutcome(&sb, o)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func (r *MarkdownReporter) writeOutcome(sb *strings.Builder, o *lint.Outcome) {
	title := "`" + o.Header + "`"
	if o.ID != "" {
		title = shortHash(o.ID) + " " + title
	}
	fmt.Fprintf(sb, "### %s\n\n", title)

	sb.WriteString("| Level | Rule | Message |\n")
	sb.WriteString("|---|---|---|\n")
	for _, f := range o.Errors {
		fmt.Fprintf(sb, "| :x: error | `%s` | %s |\n", f.Rule, escapePipes(f.Message))
	}
	for _, f := range o.Warnings {
		fmt.Fprintf(sb, "| :warning: warning | `%s` | %s |\n", f.Rule, escapePipes(f.Message))
	}
	sb.WriteString("\n")
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
