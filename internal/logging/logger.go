package logging

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger is the process-wide logger. Commands call Init once; library
// code uses the package-level helpers or WithPrefix.
var Logger *log.Logger

// Init initializes the logging system at the given level
// ("debug", "info", "warn", "error").
func Init(level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}

	Logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           lvl,
	})
}

// Debug logs a debug message with key/value pairs.
func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Info logs an info message with key/value pairs.
func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Warn logs a warning message with key/value pairs.
func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message with key/value pairs.
func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// WithPrefix returns a sub-logger tagged with a component prefix, or
// a discard logger when Init was never called (library tests).
func WithPrefix(prefix string) *log.Logger {
	if Logger == nil {
		l := log.New(os.Stderr)
		l.SetLevel(log.FatalLevel + 1)
		return l
	}
	return Logger.WithPrefix(prefix)
}
