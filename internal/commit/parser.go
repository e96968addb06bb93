package commit

import (
	"regexp"
	"strings"
)

const scissors = "# ------------------------ >8 ------------------------"

var (
	headerPattern    = regexp.MustCompile(`^(\w*)(?:\(([^\r\n]*)\))?(!)?: (.*)$`)
	notePattern      = regexp.MustCompile(`^(BREAKING[ -]CHANGE): ?(.*)$`)
	actionPattern    = regexp.MustCompile(`(?i)^(close[sd]?|fix(?:e[sd])?|resolve[sd]?) #(.*)$`)
	trailerPattern   = regexp.MustCompile(`^(\w+(?:-\w+)+|\w+): (.*)$`)
	referencePattern = regexp.MustCompile(`(?:^|[\s(,])#(\d+)\b`)
)

// Single-word tokens that open a footer. Hyphenated tokens such as
// Signed-off-by always do; other "Word: text" lines are prose.
var footerTokens = map[string]bool{
	"bug":        true,
	"cc":         true,
	"closes":     true,
	"fixes":      true,
	"issue":      true,
	"link":       true,
	"ref":        true,
	"references": true,
	"refs":       true,
	"resolves":   true,
	"see":        true,
}

// matchTrailer recognizes a footer line: a breaking change note, a
// reference action such as "Closes #12", or a git trailer.
func matchTrailer(line string) (Trailer, bool) {
	if m := notePattern.FindStringSubmatch(line); m != nil {
		return Trailer{Token: m[1], Value: strings.TrimSpace(m[2])}, true
	}
	if m := actionPattern.FindStringSubmatch(line); m != nil {
		return Trailer{Token: m[1], Value: strings.TrimSpace(m[2])}, true
	}
	m := trailerPattern.FindStringSubmatch(line)
	if m == nil {
		return Trailer{}, false
	}
	if !strings.Contains(m[1], "-") && !footerTokens[strings.ToLower(m[1])] {
		return Trailer{}, false
	}
	return Trailer{Token: m[1], Value: strings.TrimSpace(m[2])}, true
}

func isTrailer(line string) bool {
	_, ok := matchTrailer(line)
	return ok
}

// Parse splits a raw commit message into its parts. Git comment lines and
// everything below the scissors line are dropped.
func Parse(message string) *Commit {
	lines := clean(message)

	c := &Commit{
		Raw:                strings.Join(lines, "\n"),
		BodyLeadingBlank:   true,
		FooterLeadingBlank: true,
	}
	if len(lines) == 0 {
		return c
	}

	c.Header = lines[0]
	parseHeader(c, strings.TrimSpace(c.Header))

	rest := lines[1:]
	if len(rest) > 0 && strings.TrimSpace(rest[0]) != "" {
		c.BodyLeadingBlank = false
	}
	rest = trimBlank(rest)

	bodyLines, footerLines, footerBlank := splitFooter(rest)
	c.Body = strings.Join(bodyLines, "\n")
	c.Footer = strings.Join(footerLines, "\n")
	c.FooterLeadingBlank = footerBlank

	c.Trailers = parseTrailers(footerLines)
	for _, t := range c.Trailers {
		if strings.HasPrefix(t.Token, "BREAKING") {
			c.Breaking = true
		}
	}
	if c.Bang {
		c.Breaking = true
	}

	c.References = findReferences(c.Body + "\n" + c.Footer)
	return c
}

func parseHeader(c *Commit, header string) {
	m := headerPattern.FindStringSubmatch(header)
	if m == nil {
		c.Subject = ""
		return
	}
	c.Type = m[1]
	c.Scope = m[2]
	c.Bang = m[3] == "!"
	c.Subject = m[4]
}

func clean(message string) []string {
	message = strings.ReplaceAll(message, "\r\n", "\n")

	if idx := strings.Index(message, scissors); idx >= 0 {
		message = message[:idx]
	}

	var lines []string
	for _, line := range strings.Split(message, "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, strings.TrimRight(line, "\r"))
	}

	return trimBlank(lines)
}

func trimBlank(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}

// splitFooter finds the trailing run of trailer lines in the last paragraph.
// footerBlank is false when that run does not start its own paragraph.
func splitFooter(lines []string) (body, footer []string, footerBlank bool) {
	if len(lines) == 0 {
		return nil, nil, true
	}

	last := 0
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) == "" {
			last = i + 1
			break
		}
	}

	start := -1
scan:
	for i := len(lines) - 1; i >= last; i-- {
		switch line := lines[i]; {
		case isTrailer(line):
			start = i
		case isContinuation(line):
			// Folded trailer value.
		default:
			break scan
		}
	}

	if start == -1 || !allTrailers(lines[start:]) {
		return lines, nil, true
	}

	body = trimBlank(lines[:start])
	return body, lines[start:], start == last
}

func isContinuation(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

func allTrailers(lines []string) bool {
	if len(lines) == 0 || !isTrailer(lines[0]) {
		return false
	}
	for _, line := range lines[1:] {
		if !isTrailer(line) && !isContinuation(line) {
			return false
		}
	}
	return true
}

func parseTrailers(lines []string) []Trailer {
	var trailers []Trailer
	for _, line := range lines {
		t, ok := matchTrailer(line)
		if !ok {
			if isContinuation(line) && len(trailers) > 0 {
				last := &trailers[len(trailers)-1]
				last.Value += " " + strings.TrimSpace(line)
			}
			continue
		}
		trailers = append(trailers, t)
	}
	return trailers
}

func findReferences(text string) []string {
	matches := referencePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		ref := "#" + m[1]
		if seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	return refs
}
