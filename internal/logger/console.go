// Package logger provides the diagnostic output of path-comment.
//
// Loggers are injected into the command layer; the processing packages never
// write to a console. Implementations are thread-safe.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/harrison/pathcomment/internal/processor"
)

// Level orders log messages by severity.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}

// String returns the upper-case tag printed in log lines.
func (l Level) String() string {
	if l < LevelTrace || l > LevelError {
		return "INFO"
	}
	return levelNames[l]
}

// ParseLevel maps trace, debug, info, warn and error (any case) to a Level.
// Anything else is LevelInfo.
func ParseLevel(s string) Level {
	s = strings.TrimSpace(s)
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i)
		}
	}
	return LevelInfo
}

// Logger is the diagnostic sink used by the commands.
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogResult(result processor.Result)
	LogSummary(stats processor.Stats, mode processor.Mode, elapsed time.Duration)
}

// ConsoleLogger logs to a writer with [HH:MM:SS] timestamps.
// Color output is enabled for terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer      io.Writer
	level       Level
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded. logLevel is parsed with
// ParseLevel.
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		level:       ParseLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	if w == os.Stdout || w == os.Stderr {
		// false when NO_COLOR is set or the stream is not a TTY
		return !color.NoColor
	}
	return false
}

// Enabled reports whether messages at l are written.
func (cl *ConsoleLogger) Enabled(l Level) bool {
	return cl.writer != nil && l >= cl.level
}

// LogTrace logs a trace-level message.
func (cl *ConsoleLogger) LogTrace(message string) { cl.log(LevelTrace, message) }

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) { cl.log(LevelDebug, message) }

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) { cl.log(LevelInfo, message) }

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) { cl.log(LevelWarn, message) }

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) { cl.log(LevelError, message) }

func (cl *ConsoleLogger) log(l Level, message string) {
	if !cl.Enabled(l) {
		return
	}

	tag := l.String()
	if cl.colorOutput {
		tag = levelColors[l].Sprint(tag)
	}
	line := fmt.Sprintf("[%s] [%s] %s\n", timestamp(), tag, message)

	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	io.WriteString(cl.writer, line)
}

var levelColors = map[Level]*color.Color{
	LevelTrace: color.New(color.FgHiBlack),
	LevelDebug: color.New(color.FgCyan),
	LevelInfo:  color.New(color.FgBlue),
	LevelWarn:  color.New(color.FgYellow),
	LevelError: color.New(color.FgRed),
}

// LogResult logs one file's outcome: failures at WARN, everything else at
// DEBUG.
func (cl *ConsoleLogger) LogResult(result processor.Result) {
	if result.Failed() {
		cl.LogWarn(fmt.Sprintf("%s: %v", result.Path, result.Err))
		return
	}
	cl.LogDebug(fmt.Sprintf("%s: %s", result.Path, result.Outcome))
}

// LogSummary logs the processing statistics at INFO level.
func (cl *ConsoleLogger) LogSummary(stats processor.Stats, mode processor.Mode, elapsed time.Duration) {
	if !cl.Enabled(LevelInfo) {
		return
	}
	scheme := newColorScheme(cl.colorOutput)

	lines := []string{
		fmt.Sprintf("=== Processing Summary (%s mode) ===", mode),
		scheme.metric("Total files", stats.Total, scheme.label),
		scheme.metric("OK", stats.Unchanged, scheme.success),
		scheme.metric("Changed", stats.Rewritten, scheme.changeColor(stats.Rewritten)),
	}
	if stats.Removed > 0 {
		lines = append(lines, scheme.metric("Removed", stats.Removed, scheme.changeColor(stats.Removed)))
	}
	lines = append(lines,
		scheme.metric("Skipped", stats.Skipped, scheme.label),
		scheme.metric("Errors", stats.Errors, scheme.errorColor(stats.Errors)),
		fmt.Sprintf("Duration: %s", formatDuration(elapsed)),
	)
	for _, line := range lines {
		cl.LogInfo(line)
	}
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a time.Duration to a short readable string.
// Examples: "850ms", "5s", "1m30s"
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	default:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}

// NoOpLogger is a Logger implementation that discards all log messages.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// LogDebug is a no-op implementation.
func (n *NoOpLogger) LogDebug(message string) {}

// LogInfo is a no-op implementation.
func (n *NoOpLogger) LogInfo(message string) {}

// LogWarn is a no-op implementation.
func (n *NoOpLogger) LogWarn(message string) {}

// LogError is a no-op implementation.
func (n *NoOpLogger) LogError(message string) {}

// LogResult is a no-op implementation.
func (n *NoOpLogger) LogResult(result processor.Result) {}

// LogSummary is a no-op implementation.
func (n *NoOpLogger) LogSummary(stats processor.Stats, mode processor.Mode, elapsed time.Duration) {}
