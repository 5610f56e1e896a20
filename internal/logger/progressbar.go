package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/pathcomment/internal/processor"
)

// ProgressBar represents an ASCII progress bar with color support
type ProgressBar struct {
	current     int
	total       int
	width       int
	enableColor bool
	prefix      string
	mu          sync.RWMutex
}

// NewProgressBar creates a new progress bar
func NewProgressBar(total, width int, enableColor bool) *ProgressBar {
	if width < 1 {
		width = 10
	}
	return &ProgressBar{total: total, width: width, enableColor: enableColor}
}

// Update sets the current progress value
func (pb *ProgressBar) Update(current int) {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.current = current
}

// Increment increments the current progress by 1
func (pb *ProgressBar) Increment() {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.current++
}

// Current returns the current progress value
func (pb *ProgressBar) Current() int {
	pb.mu.RLock()
	defer pb.mu.RUnlock()
	return pb.current
}

// Percentage returns the progress percentage (0-100)
func (pb *ProgressBar) Percentage() int {
	pb.mu.RLock()
	defer pb.mu.RUnlock()
	return pb.percentage()
}

func (pb *ProgressBar) percentage() int {
	if pb.total == 0 {
		return 0
	}
	return max(0, min(100, pb.current*100/pb.total))
}

// SetPrefix sets a custom prefix for the progress bar
func (pb *ProgressBar) SetPrefix(prefix string) {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.prefix = prefix
}

// Render generates the bar, e.g. "[=====     ] 5/10 (50%)".
func (pb *ProgressBar) Render() string {
	pb.mu.RLock()
	defer pb.mu.RUnlock()

	perc := pb.percentage()
	filled := perc * pb.width / 100

	var b strings.Builder
	b.WriteString(pb.prefix)
	b.WriteByte('[')
	b.WriteString(strings.Repeat("=", filled))
	b.WriteString(strings.Repeat(" ", pb.width-filled))
	b.WriteByte(']')
	fmt.Fprintf(&b, " %d/%d (%d%%)", pb.current, pb.total, perc)

	if !pb.enableColor {
		return b.String()
	}
	c := color.New(color.FgCyan)
	if perc == 100 {
		c = color.New(color.FgGreen)
	}
	c.EnableColor()
	return c.Sprint(b.String())
}

// ProgressReporter draws a ProgressBar as files finish. On a terminal the bar
// is redrawn in place; otherwise only the final state is printed.
type ProgressReporter struct {
	w           io.Writer
	bar         *ProgressBar
	interactive bool
}

// NewProgressReporter creates a reporter for total files writing to w.
func NewProgressReporter(w io.Writer, total int) *ProgressReporter {
	interactive := isTTY(w)
	bar := NewProgressBar(total, 30, interactive && !color.NoColor)
	bar.SetPrefix("Processing ")
	return &ProgressReporter{w: w, bar: bar, interactive: interactive}
}

// Observe satisfies processor.Observer.
func (pr *ProgressReporter) Observe(done, total int, _ processor.Result) {
	pr.bar.Update(done)
	if pr.interactive {
		fmt.Fprintf(pr.w, "\r%s", pr.bar.Render())
	}
	if done == total {
		if pr.interactive {
			fmt.Fprintln(pr.w)
		} else {
			fmt.Fprintln(pr.w, pr.bar.Render())
		}
	}
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
