// Package report renders processing results for people and for tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/harrison/pathcomment/internal/processor"
)

// Action returns the line printed for a result, or "" when nothing happened
// worth reporting.
func Action(r processor.Result, mode processor.Mode) string {
	if r.Failed() {
		return fmt.Sprintf("Error processing %s: %v", r.Path, r.Err)
	}
	switch r.Outcome {
	case processor.Rewritten:
		if mode == processor.ModeVerify {
			return "Would update " + r.Path
		}
		return "Updated " + r.Path
	case processor.Removed:
		if mode == processor.ModeVerify {
			return "Would remove header from " + r.Path
		}
		return "Removed header from " + r.Path
	}
	return ""
}

// Text writes one line per changed or failed file, with a unified diff after
// each change when diff is set and the result carries content.
func Text(w io.Writer, results []processor.Result, mode processor.Mode, diff bool) error {
	fail := color.New(color.FgRed)
	for _, r := range results {
		line := Action(r, mode)
		if line == "" {
			continue
		}
		if r.Failed() {
			line = fail.Sprint(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if diff && r.Changed() {
			text, err := Diff(r)
			if err != nil {
				return err
			}
			if _, err := io.WriteString(w, text); err != nil {
				return err
			}
		}
	}
	return nil
}

// Diff returns a unified diff between the before and after text of r.
func Diff(r processor.Result) (string, error) {
	if r.Before == r.After {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(r.Before),
		B:        difflib.SplitLines(r.After),
		FromFile: "a/" + r.Path,
		ToFile:   "b/" + r.Path,
		Context:  3,
	})
}

// FileEntry is one file in a JSON report.
type FileEntry struct {
	Path    string `json:"path"`
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`
	Diff    string `json:"diff,omitempty"`
}

// Document is the JSON report of a run.
type Document struct {
	RunID      string          `json:"run_id"`
	Mode       string          `json:"mode"`
	Operation  string          `json:"operation"`
	StartedAt  time.Time       `json:"started_at"`
	DurationMS int64           `json:"duration_ms"`
	Stats      processor.Stats `json:"stats"`
	Files      []FileEntry     `json:"files"`
	ExitCode   int             `json:"exit_code"`
}

// NewDocument builds the report of a finished run.
func NewDocument(results []processor.Result, mode processor.Mode, op processor.Operation, started time.Time, elapsed time.Duration) (*Document, error) {
	stats := processor.Collect(results)
	doc := &Document{
		RunID:      uuid.NewString(),
		Mode:       mode.String(),
		Operation:  op.String(),
		StartedAt:  started.UTC(),
		DurationMS: elapsed.Milliseconds(),
		Stats:      stats,
		Files:      make([]FileEntry, 0, len(results)),
		ExitCode:   stats.ExitCode(mode),
	}
	for _, r := range results {
		entry := FileEntry{Path: r.Path, Outcome: r.Outcome.String()}
		if r.Failed() {
			entry.Error = r.Err.Error()
		}
		if r.Changed() && r.Before != r.After {
			d, err := Diff(r)
			if err != nil {
				return nil, err
			}
			entry.Diff = d
		}
		doc.Files = append(doc.Files, entry)
	}
	return doc, nil
}

// JSON writes doc as indented JSON.
func JSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
