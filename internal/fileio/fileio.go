// Package fileio reads target files into decoded text and writes them back
// atomically in the encoding, byte order mark and permissions they had.
package fileio

import (
	"io/fs"
	"os"
	"strings"

	"github.com/harrison/pathcomment/internal/filelock"
)

// LineEnding is a file's newline convention.
type LineEnding int

const (
	// LF is "\n", the default for files without any newline.
	LF LineEnding = iota
	// CRLF is "\r\n".
	CRLF
)

// Sequence returns the bytes of the line ending.
func (le LineEnding) Sequence() string {
	if le == CRLF {
		return "\r\n"
	}
	return "\n"
}

// String returns "LF" or "CRLF".
func (le LineEnding) String() string {
	if le == CRLF {
		return "CRLF"
	}
	return "LF"
}

// Content is one file's decoded text and the facts needed to write it back.
type Content struct {
	Text       string
	Encoding   string
	LineEnding LineEnding
	BOM        bool
}

// DetectLineEnding reports the ending of the first line of text.
func DetectLineEnding(text string) LineEnding {
	i := strings.IndexByte(text, '\n')
	if i > 0 && text[i-1] == '\r' {
		return CRLF
	}
	return LF
}

// Read loads and decodes path.
func Read(path string) (*Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewError("read", path, err)
	}

	text, label, bom, err := decode(data)
	if err != nil {
		return nil, &Error{Op: "read", Path: path, Kind: KindEncoding, Err: err}
	}

	return &Content{
		Text:       text,
		Encoding:   label,
		LineEnding: DetectLineEnding(text),
		BOM:        bom,
	}, nil
}

// Write re-encodes c and atomically replaces path with it, keeping the
// current permission bits of path.
func Write(path string, c *Content) error {
	data, err := encode(c.Text, c.Encoding, c.BOM)
	if err != nil {
		return &Error{Op: "write", Path: path, Kind: KindEncoding, Err: err}
	}

	perm := fs.FileMode(0o644)
	info, err := os.Stat(path)
	switch {
	case err == nil:
		perm = info.Mode().Perm()
	case !os.IsNotExist(err):
		return NewError("write", path, err)
	}

	if err := filelock.AtomicWrite(path, data, perm); err != nil {
		return NewError("write", path, err)
	}
	return nil
}
