package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Logger defines the goobcms logging contract.
// Implementations should support standard log levels and be safe for concurrent use.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

// Level is the minimum severity a StdLogger writes.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a configuration value such as "warn" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// StdLogger wraps Go's standard logger to implement the goobcms logging contract.
type StdLogger struct {
	logger *log.Logger
	level  Level
}

// NewStdLogger creates a new StdLogger using Go's standard logger.
func NewStdLogger() *StdLogger {
	return New(os.Stdout, LevelInfo)
}

// New creates a StdLogger writing entries at or above level to w.
func New(w io.Writer, level Level) *StdLogger {
	return &StdLogger{
		logger: log.New(w, "", log.LstdFlags),
		level:  level,
	}
}

func (l *StdLogger) Info(msg string, args ...any) {
	l.printf(LevelInfo, "[INFO] "+msg, args...)
}

func (l *StdLogger) Warn(msg string, args ...any) {
	l.printf(LevelWarn, "[WARN] "+msg, args...)
}

func (l *StdLogger) Error(msg string, args ...any) {
	l.printf(LevelError, "[ERROR] "+msg, args...)
}

func (l *StdLogger) Debug(msg string, args ...any) {
	l.printf(LevelDebug, "[DEBUG] "+msg, args...)
}

func (l *StdLogger) printf(level Level, format string, args ...any) {
	if level < l.level {
		return
	}
	l.logger.Printf(format, args...)
}

// Default provides a global default logger instance using Go's standard logger.
var Default Logger = NewStdLogger()

// Discard drops every entry.
var Discard Logger = New(io.Discard, LevelError+1)
