// Package dialect decides which comment syntax a file uses, or that it has
// none, from its content and name.
package dialect

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/harrison/pathcomment/internal/fileio"
	"github.com/harrison/pathcomment/internal/header"
)

// sniffLimit bounds how much of a file is read for classification.
const sniffLimit = 8192

// Classifier maps files to header templates.
type Classifier struct {
	overrides map[string]header.Template
}

// New returns a Classifier. overrides maps extensions (".py") to custom
// header templates and takes precedence over the built-in table.
func New(overrides map[string]string) *Classifier {
	c := &Classifier{overrides: make(map[string]header.Template, len(overrides))}
	for ext, pattern := range overrides {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.overrides[ext] = header.Custom(pattern)
	}
	return c
}

// Classify returns the header template for path. The zero template means the
// file is unsupported: binary, or of no known dialect. A missing file is an
// error, never "unsupported".
func (c *Classifier) Classify(path string) (header.Template, error) {
	head, err := readHead(path)
	if err != nil {
		return header.Template{}, err
	}
	return c.ClassifyContent(path, head), nil
}

// ClassifyContent classifies using an already-read head of the file.
func (c *Classifier) ClassifyContent(path string, head []byte) header.Template {
	if IsBinary(head) {
		return header.Template{}
	}

	if t, ok := c.overrides[strings.ToLower(filepath.Ext(path))]; ok && !t.IsZero() {
		return t
	}

	if tag := TagFromDirective(firstLine(head)); tag != "" {
		if prefix, ok := PrefixFor(tag); ok {
			return header.Prefix(prefix)
		}
	}

	for _, tag := range TagsFromName(path) {
		if prefix, ok := PrefixFor(tag); ok {
			return header.Prefix(prefix)
		}
	}
	return header.Template{}
}

// IsBinary reports whether head looks like binary data. Anything whose
// detected type does not descend from text/plain counts as binary.
func IsBinary(head []byte) bool {
	if len(head) == 0 {
		return false
	}
	for mt := mimetype.Detect(head); mt != nil; mt = mt.Parent() {
		if mt.Is("text/plain") {
			return false
		}
	}
	return true
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func readHead(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fileio.NewError("classify", path, err)
	}
	defer f.Close()

	buf := make([]byte, sniffLimit)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fileio.NewError("classify", path, err)
	}
	return buf[:n], nil
}

// firstLine returns the first line of head without a UTF-8 byte order mark,
// matching the decoded text the header engine sees.
func firstLine(head []byte) string {
	head = bytes.TrimPrefix(head, utf8BOM)
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	return strings.TrimSuffix(string(head), "\r")
}
