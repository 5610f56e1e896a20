// Package processor applies the header rules to files: one file at a time
// through Processor, or a whole batch through ProcessAll.
package processor

import (
	"fmt"
	"strings"
)

// Mode selects whether files are only checked or also rewritten.
type Mode int

const (
	// ModeVerify reports what would change without writing.
	ModeVerify Mode = iota
	// ModeApply rewrites files whose header is missing or wrong.
	ModeApply
)

// String returns the canonical mode name.
func (m Mode) String() string {
	if m == ModeApply {
		return "apply"
	}
	return "verify"
}

// ParseMode accepts "verify", "check", "apply" and "fix".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "verify", "check":
		return ModeVerify, nil
	case "apply", "fix":
		return ModeApply, nil
	default:
		return ModeVerify, fmt.Errorf("invalid mode %q, must be one of: apply, verify", s)
	}
}

// Operation selects what happens to the header.
type Operation int

const (
	// OpEnsure inserts or corrects the header.
	OpEnsure Operation = iota
	// OpRemove deletes the header.
	OpRemove
)

// String returns the operation name.
func (o Operation) String() string {
	if o == OpRemove {
		return "remove"
	}
	return "ensure"
}

// Outcome is the result of processing one file.
type Outcome int

const (
	// Unchanged means the file already had the correct header.
	Unchanged Outcome = iota
	// Rewritten means the header was inserted or corrected, or would be in
	// verify mode.
	Rewritten
	// Skipped means the file was unsupported, excluded or failed.
	Skipped
	// Removed means the header was deleted, or would be in verify mode.
	Removed
)

// String returns the status label used in reports.
func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "OK"
	case Rewritten:
		return "CHANGED"
	case Skipped:
		return "SKIPPED"
	case Removed:
		return "REMOVED"
	default:
		return "UNKNOWN"
	}
}

// FileTask is one unit of work. It is a plain value and is never shared
// mutably between workers.
type FileTask struct {
	Path string
	Root string
	Mode Mode
	Op   Operation
}

// Result is the outcome for one FileTask.
type Result struct {
	Path    string
	Outcome Outcome
	// Err is set when processing failed; Outcome is then Skipped.
	Err error
	// Before and After hold the text around a change when the processor
	// captures content.
	Before string
	After  string
}

// Failed reports whether the result carries an error.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Changed reports whether the file was, or would be, modified.
func (r Result) Changed() bool {
	return r.Outcome == Rewritten || r.Outcome == Removed
}

// PoolError reports that a batch could not start at all. It is distinct from
// per-file errors, which are carried on each Result.
type PoolError struct {
	Reason string
	Err    error
}

// Error implements the error interface for PoolError.
func (e *PoolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("worker pool setup failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("worker pool setup failed: %s", e.Reason)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *PoolError) Unwrap() error {
	return e.Err
}
