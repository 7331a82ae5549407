package cli

import (
	"fmt"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// Verbosity levels accepted by ConfigureLogging.
const (
	VerbosityQuiet = 0 // errors and warnings
	VerbosityInfo  = 1
	VerbosityDebug = 2
)

// ConfigureLogging routes all loggers to stderr at the given verbosity.
func ConfigureLogging(verbosity int) {
	// commonlog: -1 warning, 0 notice, 1 info, 2 debug
	switch {
	case verbosity <= VerbosityQuiet:
		commonlog.Configure(-1, nil)
	case verbosity == VerbosityInfo:
		commonlog.Configure(1, nil)
	default:
		commonlog.Configure(2, nil)
	}
}

// Logger provides leveled logging for CLI tools. A nil *Logger discards
// everything, which lets library code log unconditionally.
type Logger struct {
	log commonlog.Logger
}

// NewLogger returns a logger for the named subsystem, e.g. "bfc.pipeline".
func NewLogger(name string) *Logger {
	return &Logger{log: commonlog.GetLogger(name)}
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.log.Info(fmt.Sprintf(format, args...))
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.log.Debug(fmt.Sprintf(format, args...))
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.log.Warning(fmt.Sprintf(format, args...))
}
