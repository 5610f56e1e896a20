package processor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/harrison/pathcomment/internal/fileio"
	"github.com/harrison/pathcomment/internal/header"
)

// Classifier resolves the header template for a file.
type Classifier interface {
	Classify(path string) (header.Template, error)
}

// ExcludeFunc reports whether a slash-separated path relative to the project
// root must be left alone.
type ExcludeFunc func(rel string) bool

// Processor runs the classify, read, transform and write pipeline for a
// single file. It holds no per-file state and is safe for concurrent use.
type Processor struct {
	classifier Classifier
	exclude    ExcludeFunc

	// CaptureContent keeps Before/After text on results that change, so
	// callers can render diffs. Verify mode then builds the new content too.
	CaptureContent bool
}

// New returns a Processor. exclude may be nil.
func New(classifier Classifier, exclude ExcludeFunc) *Processor {
	return &Processor{classifier: classifier, exclude: exclude}
}

// Process handles one task. It never panics and never returns an error:
// failures become a Skipped result carrying the cause.
func (p *Processor) Process(task FileTask) (res Result) {
	res = Result{Path: task.Path}
	defer func() {
		if r := recover(); r != nil {
			res = Result{
				Path:    task.Path,
				Outcome: Skipped,
				Err:     fmt.Errorf("panic while processing %s: %v", task.Path, r),
			}
		}
	}()

	abs, rel, err := Resolve(task.Path, task.Root)
	if err != nil {
		return skipped(task, err)
	}

	if p.exclude != nil && p.exclude(rel) {
		res.Outcome = Skipped
		return res
	}

	tmpl, err := p.classifier.Classify(abs)
	if err != nil {
		return skipped(task, err)
	}
	if tmpl.IsZero() {
		res.Outcome = Skipped
		return res
	}

	content, err := fileio.Read(abs)
	if err != nil {
		return skipped(task, err)
	}

	h := tmpl.For(rel)
	eol := content.LineEnding.Sequence()

	var (
		changed bool
		next    string
		outcome = Rewritten
	)
	switch task.Op {
	case OpRemove:
		outcome = Removed
		changed, next = header.Remove(content.Text, h)
	default:
		if task.Mode == ModeVerify && !p.CaptureContent {
			if header.Check(content.Text, h, eol) {
				res.Outcome = Rewritten
			}
			return res
		}
		changed, next = header.Ensure(content.Text, h, eol)
	}

	if !changed {
		res.Outcome = Unchanged
		return res
	}

	if p.CaptureContent {
		res.Before, res.After = content.Text, next
	}

	if task.Mode == ModeApply {
		updated := *content
		updated.Text = next
		if err := fileio.Write(abs, &updated); err != nil {
			return skipped(task, err)
		}
	}

	res.Outcome = outcome
	return res
}

func skipped(task FileTask, err error) Result {
	return Result{Path: task.Path, Outcome: Skipped, Err: err}
}

// Resolve normalizes path and root, resolving symlinks and "..", and returns
// the absolute file path together with its forward-slash path relative to
// root. A relative path is taken relative to root.
func Resolve(path, root string) (abs, rel string, err error) {
	if root == "" {
		root = "."
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", "", fileio.NewError("resolve", root, err)
	}
	rootAbs, err = filepath.EvalSymlinks(rootAbs)
	if err != nil {
		return "", "", fileio.NewError("resolve", root, err)
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(rootAbs, path)
	}
	abs, err = filepath.EvalSymlinks(filepath.Clean(path))
	if err != nil {
		return "", "", fileio.NewError("resolve", path, err)
	}

	r, err := filepath.Rel(rootAbs, abs)
	if err != nil {
		return "", "", fileio.NewError("resolve", path, err)
	}
	rel = filepath.ToSlash(r)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", "", &fileio.Error{
			Op:   "resolve",
			Path: path,
			Kind: fileio.KindIO,
			Err:  fmt.Errorf("outside project root %s", rootAbs),
		}
	}
	return abs, rel, nil
}
