package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/harrison/pathcomment/internal/processor"
)

// Warning is a user-facing notice printed after a run.
type Warning struct {
	Title      string
	Message    string
	Files      []string
	Suggestion string
}

// Display writes the warning, in yellow when color is enabled.
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		if len(w.Files) == 1 {
			b.WriteString("    Affected file:\n")
		} else {
			b.WriteString("    Affected files:\n")
		}
		for i, file := range w.Files {
			fmt.Fprintf(&b, "      %d. %s\n", i+1, file)
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	fmt.Fprint(out, color.New(color.FgYellow).Sprint(b.String()))
}

// SkippedWarning reports files that were skipped without an error, or nil
// when there are none.
func SkippedWarning(results []processor.Result) *Warning {
	var files []string
	for _, r := range results {
		if r.Outcome == processor.Skipped && !r.Failed() {
			files = append(files, r.Path)
		}
	}
	if len(files) == 0 {
		return nil
	}
	return &Warning{
		Title:      fmt.Sprintf("%d file(s) skipped", len(files)),
		Message:    "These files are binary, excluded, or have no known comment style.",
		Files:      files,
		Suggestion: "Map the extension to a template under custom_comment_map in .path-comment.yaml",
	}
}
