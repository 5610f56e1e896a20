package header

import "strings"

// DirectivePrefix starts an interpreter directive line.
const DirectivePrefix = "#!"

// slot splits text around the header position: line 1, or line 2 when line 1
// is an interpreter directive.
type slot struct {
	directive    string // directive line including its ending, "" if none
	hasDirective bool
	line         string // candidate header line without its ending
	ending       string // "\n", "\r\n" or "" at end of text
	present      bool   // false when the text ends before the slot
	rest         string // everything after the candidate line
}

func locate(text string) slot {
	var s slot
	body := text
	if strings.HasPrefix(text, DirectivePrefix) {
		line, ending, rest := splitLine(text)
		s.hasDirective = true
		s.directive = line + ending
		body = rest
	}
	if body == "" {
		return s
	}
	s.line, s.ending, s.rest = splitLine(body)
	s.present = true
	return s
}

// splitLine returns the first line of text without its ending, the ending
// itself, and the remainder.
func splitLine(text string) (line, ending, rest string) {
	i := strings.IndexByte(text, '\n')
	if i < 0 {
		return text, "", ""
	}
	line, rest = text[:i], text[i+1:]
	if strings.HasSuffix(line, "\r") {
		return line[:len(line)-1], "\r\n", rest
	}
	return line, "\n", rest
}

// Check reports whether text needs a change to carry h using line ending eol.
// It never builds the new content.
func Check(text string, h Header, eol string) bool {
	s := locate(text)
	return !(s.present && s.line == h.Text && s.ending == eol)
}

// Ensure places h at the header slot of text.
//
// Without a directive the previous first line is pushed down, never dropped,
// unless it already is the header text and only its line ending is wrong.
// After a directive the old second line is replaced only when it looks like a
// stale header; ordinary code is pushed down instead.
func Ensure(text string, h Header, eol string) (bool, string) {
	if !Check(text, h, eol) {
		return false, text
	}
	s := locate(text)
	line := h.Text + eol

	if !s.hasDirective {
		if s.present && s.line == h.Text {
			return true, line + s.rest
		}
		return true, line + text
	}

	directive := s.directive
	if !strings.HasSuffix(directive, "\n") {
		directive += eol
	}
	if !s.present {
		return true, directive + line
	}
	if h.matches(s.line) {
		return true, directive + line + s.rest
	}
	return true, directive + line + s.line + s.ending + s.rest
}

// Remove deletes the header at the header slot of text when it is the
// expected header or a stale one.
func Remove(text string, h Header) (bool, string) {
	s := locate(text)
	if !s.present || !h.matches(s.line) {
		return false, text
	}
	return true, s.directive + s.rest
}
