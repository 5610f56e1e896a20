// Package header renders and places the single-line path comment that
// path-comment keeps at the top of every supported file.
//
// Everything in this package is pure: functions take decoded text and return
// new text, they never touch the filesystem and never fail.
package header

import (
	"path"
	"strings"
	"unicode"
)

// PathPlaceholder marks where the relative path goes in a custom template.
const PathPlaceholder = "{_path_}"

// Template is the resolved comment style for one file. The zero value means
// the file has no supported dialect.
type Template struct {
	before string
	after  string
}

// Prefix returns a template rendering "<prefix> <path>".
func Prefix(prefix string) Template {
	if prefix == "" {
		return Template{}
	}
	return Template{before: prefix + " "}
}

// Custom returns a template from a pattern containing PathPlaceholder, such
// as "/* {_path_} */". A pattern without the placeholder is treated as a bare
// prefix.
func Custom(pattern string) Template {
	before, after, found := strings.Cut(pattern, PathPlaceholder)
	if !found {
		return Prefix(strings.TrimSpace(pattern))
	}
	if before == "" && after == "" {
		return Template{}
	}
	return Template{before: before, after: after}
}

// IsZero reports whether t is the unsupported template.
func (t Template) IsZero() bool {
	return t.before == "" && t.after == ""
}

// String returns the template in placeholder form.
func (t Template) String() string {
	if t.IsZero() {
		return ""
	}
	return t.before + PathPlaceholder + t.after
}

// Render returns the header text for rel, without a line ending.
func (t Template) Render(rel string) string {
	return t.before + rel + t.after
}

// For binds the template to a slash-separated relative path.
func (t Template) For(rel string) Header {
	return Header{Text: t.Render(rel), tmpl: t, rel: rel}
}

// IsPriorHeader reports whether line has the shape of a header this template
// could have produced: the template text around a single relative path.
// Lines such as "# -*- coding: utf-8 -*-", "# https://example.com/x.html" or
// "set -e" are not headers.
func (t Template) IsPriorHeader(line string) bool {
	_, ok := t.priorPath(line)
	return ok
}

// priorPath returns the path named by a header-shaped line.
func (t Template) priorPath(line string) (string, bool) {
	if t.IsZero() {
		return "", false
	}
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, t.before) || !strings.HasSuffix(line, t.after) {
		return "", false
	}
	if len(line) < len(t.before)+len(t.after) {
		return "", false
	}
	token := line[len(t.before) : len(line)-len(t.after)]
	if !isRelativePath(token) {
		return "", false
	}
	return token, true
}

// isRelativePath reports whether s could be a slash-separated path relative
// to a project root. URLs, absolute and home paths and ".." segments are not.
func isRelativePath(s string) bool {
	if s == "" || strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return false
	}
	if !strings.ContainsAny(s, "./") {
		return false
	}
	if strings.HasPrefix(s, "/") || strings.HasPrefix(s, "~") || strings.Contains(s, "\\") {
		return false
	}
	if strings.Contains(s, "://") || hasScheme(s) {
		return false
	}
	for _, seg := range strings.Split(s, "/") {
		if seg == ".." || seg == "" {
			return false
		}
	}
	return true
}

// hasScheme reports whether s starts with "scheme:" as in "mailto:a@b.c".
func hasScheme(s string) bool {
	i := strings.IndexByte(s, ':')
	if i <= 0 {
		return false
	}
	for j, r := range s[:i] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case j > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// Header is a rendered header bound to its template.
type Header struct {
	// Text is the header line without its line ending.
	Text string
	tmpl Template
	rel  string
}

// matches reports whether line occupies the header slot: either the exact
// expected text or a stale header in the same dialect naming a file with the
// same base name.
func (h Header) matches(line string) bool {
	if line == h.Text {
		return true
	}
	prior, ok := h.tmpl.priorPath(line)
	return ok && path.Base(prior) == path.Base(h.rel)
}
