package logging

import (
	"fmt"
	"os"
)

// Logger provides quiet/verbose-aware console logging
type Logger struct {
	quiet   bool
	verbose bool
}

// NewLogger creates a new logger
func NewLogger(quiet, verbose bool) *Logger {
	return &Logger{quiet: quiet, verbose: verbose}
}

// Info logs an info message to stdout
func (l *Logger) Info(format string, args ...interface{}) {
	if !l.quiet {
		fmt.Printf(format+"\n", args...)
	}
}

// Warn logs a non-fatal warning to stderr
func (l *Logger) Warn(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "WARN: "+format+"\n", args...)
}

// Error logs an error message to stderr
func (l *Logger) Error(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "ERROR: "+format+"\n", args...)
}

// Debug logs a per-item trace message, emitted only in verbose mode.
// Trace output never influences what any command decides to do.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.verbose {
		fmt.Printf(format+"\n", args...)
	}
}

// Quiet reports whether non-error output is suppressed
func (l *Logger) Quiet() bool {
	return l.quiet
}

// FormatBytes formats bytes in human readable format
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
