package fileio

import (
	"errors"
	"fmt"
	"io/fs"
)

// Kind classifies a file handling failure.
type Kind int

const (
	// KindIO covers read and write failures other than the ones below.
	KindIO Kind = iota
	// KindNotFound means the path did not exist.
	KindNotFound
	// KindPermission means the OS refused access.
	KindPermission
	// KindEncoding means the text could not be decoded or re-encoded.
	KindEncoding
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindPermission:
		return "permission denied"
	case KindEncoding:
		return "encoding"
	default:
		return "io"
	}
}

// Error is returned for every failure touching a target file.
type Error struct {
	Op   string // "read", "write", "resolve", "classify"
	Path string
	Kind Kind
	Err  error
}

// NewError wraps err for path, deriving Kind from the underlying cause.
func NewError(op, path string, err error) *Error {
	kind := KindIO
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = KindNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = KindPermission
	}
	return &Error{Op: op, Path: path, Kind: kind, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Kind == KindNotFound {
		return fmt.Sprintf("file does not exist: %s", e.Path)
	}
	if e.Err == nil {
		return fmt.Sprintf("failed to %s file %s", e.Op, e.Path)
	}
	return fmt.Sprintf("failed to %s file %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a file handling error for a missing path.
func IsNotFound(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == KindNotFound
}
