// SPDX-License-Identifier: MIT
// Package log provides the leveled logging used across the engine. A single
// Logger instance is created at startup and injected into components; each
// component derives a scoped child with Component so that trace output can
// be switched per subsystem (tonearm, reel.left, spectrum, ...) without a
// global flag.
package log

import (
	"fmt"
	stdlog "log"
	"os"
	"strings"
	"sync/atomic"
)

// Level defines the severity of a log message.
type Level uint32

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// String returns the string representation of the Level.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string (case-insensitive) to a Level.
// Returns LevelInfo and false if the string is not recognized.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(s) {
	case "TRACE":
		return LevelTrace, true
	case "DEBUG":
		return LevelDebug, true
	case "INFO":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	case "FATAL":
		return LevelFatal, true
	default:
		return LevelInfo, false
	}
}

// Logger is an instance-scoped leveled logger. Construct with New; children
// made by Component share the parent's level and trace switches, so
// SetLevel on any of them applies everywhere.
type Logger struct {
	out       *stdlog.Logger
	level     *atomic.Uint32
	trace     map[string]bool // components with trace output enabled
	component string
}

// New creates a Logger writing to stderr at the given level. traced lists
// the component names for which LevelTrace messages pass the filter.
func New(level Level, traced ...string) *Logger {
	lv := &atomic.Uint32{}
	lv.Store(uint32(level))
	tm := make(map[string]bool, len(traced))
	for _, c := range traced {
		tm[c] = true
	}
	return &Logger{
		out:   stdlog.New(os.Stderr, "", stdlog.Ldate|stdlog.Ltime|stdlog.Lmicroseconds),
		level: lv,
		trace: tm,
	}
}

// Component returns a child logger tagged with the component name. Trace
// messages from the child are emitted only when the component was listed
// as traced in New.
func (l *Logger) Component(name string) *Logger {
	child := *l
	child.component = name
	return &child
}

// SetLevel sets the logging level atomically, shared with all children.
func (l *Logger) SetLevel(level Level) {
	l.level.Store(uint32(level))
}

// GetLevel gets the current logging level atomically.
func (l *Logger) GetLevel() Level {
	return Level(l.level.Load())
}

func (l *Logger) shouldLog(level Level) bool {
	if level < Level(l.level.Load()) {
		return false
	}
	if level == LevelTrace {
		return l.trace[l.component]
	}
	return true
}

func (l *Logger) printf(level Level, format string, v ...interface{}) {
	if l.component != "" {
		l.out.Printf("[%s] [%s] %s", level, l.component, fmt.Sprintf(format, v...))
		return
	}
	l.out.Printf("[%s] %s", level, fmt.Sprintf(format, v...))
}

// Tracef logs a formatted trace message if the component switch allows it.
func (l *Logger) Tracef(format string, v ...interface{}) {
	if l.shouldLog(LevelTrace) {
		l.printf(LevelTrace, format, v...)
	}
}

// Debugf logs a formatted debug message if the level is appropriate.
func (l *Logger) Debugf(format string, v ...interface{}) {
	if l.shouldLog(LevelDebug) {
		l.printf(LevelDebug, format, v...)
	}
}

// Infof logs a formatted info message if the level is appropriate.
func (l *Logger) Infof(format string, v ...interface{}) {
	if l.shouldLog(LevelInfo) {
		l.printf(LevelInfo, format, v...)
	}
}

// Warnf logs a formatted warning message if the level is appropriate.
func (l *Logger) Warnf(format string, v ...interface{}) {
	if l.shouldLog(LevelWarn) {
		l.printf(LevelWarn, format, v...)
	}
}

// Errorf logs a formatted error message if the level is appropriate.
func (l *Logger) Errorf(format string, v ...interface{}) {
	if l.shouldLog(LevelError) {
		l.printf(LevelError, format, v...)
	}
}

// Fatalf logs a formatted fatal message and exits the application.
// Fatal messages are always logged regardless of the current level.
func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.out.Fatalf("[%s] %s", LevelFatal, fmt.Sprintf(format, v...))
}

// Discard returns a logger that drops everything. Used by tests and as the
// fallback when a component is constructed without an injected logger.
func Discard() *Logger {
	lv := &atomic.Uint32{}
	lv.Store(uint32(LevelFatal))
	return &Logger{
		out:   stdlog.New(discardWriter{}, "", 0),
		level: lv,
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
