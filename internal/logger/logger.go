// Package logger provides leveled logging for bizrag.
// Debug, Info and Section output is only written in verbose mode (--verbose);
// warnings and errors are always written so partial ingestion failures stay visible.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write(true, "[DEBUG] ", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	write(true, "[INFO] ", format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	write(false, "[WARN] ", format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	write(false, "[ERROR] ", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Scoped returns a Logger that prefixes every message with component.
func Scoped(component string) Logger {
	return Logger{prefix: "[" + component + "] "}
}

// Logger is a component-scoped view over the package logger.
type Logger struct {
	prefix string
}

// Debug prints a scoped message if verbose mode is enabled.
func (l Logger) Debug(format string, args ...any) {
	write(true, "[DEBUG] "+l.prefix, format, args...)
}

// Info prints a scoped informational message if verbose mode is enabled.
func (l Logger) Info(format string, args ...any) {
	write(true, "[INFO] "+l.prefix, format, args...)
}

// Warn prints a scoped warning.
func (l Logger) Warn(format string, args ...any) {
	write(false, "[WARN] "+l.prefix, format, args...)
}

// Error prints a scoped error.
func (l Logger) Error(format string, args ...any) {
	write(false, "[ERROR] "+l.prefix, format, args...)
}

func write(verboseOnly bool, level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verboseOnly && !verbose {
		return
	}
	fmt.Fprintf(output, level+format+"\n", args...)
}
