// Package commit parses commit messages into conventional commit parts.
package commit

import (
	"regexp"
	"strings"
)

// Commit is a parsed commit message.
type Commit struct {
	// Raw is the message after comment and scissors stripping.
	Raw string `json:"raw"`

	Header   string `json:"header"`
	Type     string `json:"type,omitempty"`
	Scope    string `json:"scope,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Breaking bool   `json:"breaking,omitempty"`

	// Bang is set when the header carries a ! before the colon.
	Bang bool `json:"bang,omitempty"`

	Body   string `json:"body,omitempty"`
	Footer string `json:"footer,omitempty"`

	// BodyLeadingBlank is false when the body starts right after the header.
	BodyLeadingBlank bool `json:"-"`

	// FooterLeadingBlank is false when the footer follows the body directly.
	FooterLeadingBlank bool `json:"-"`

	Trailers   []Trailer `json:"trailers,omitempty"`
	References []string  `json:"references,omitempty"`
}

// Trailer is a "Token: value" footer line.
type Trailer struct {
	Token string `json:"token"`
	Value string `json:"value"`
}

// Scopes splits a multi-scope such as "api,web" into its parts.
func (c *Commit) Scopes() []string {
	if c.Scope == "" {
		return nil
	}
	parts := scopeDelimiters.Split(c.Scope, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// HasTrailer reports whether a trailer line starts with token, compared
// case-insensitively and ignoring a trailing colon.
func (c *Commit) HasTrailer(token string) bool {
	token = strings.TrimSuffix(strings.TrimSpace(token), ":")
	for _, t := range c.Trailers {
		if strings.EqualFold(t.Token, token) {
			return true
		}
	}
	return false
}

// String rebuilds the header from its parts.
func (c *Commit) String() string {
	var sb strings.Builder
	sb.WriteString(c.Type)
	if c.Scope != "" {
		sb.WriteString("(" + c.Scope + ")")
	}
	if c.Bang {
		sb.WriteString("!")
	}
	sb.WriteString(": ")
	sb.WriteString(c.Subject)
	return sb.String()
}

var scopeDelimiters = regexp.MustCompile(`[,/\\]`)
