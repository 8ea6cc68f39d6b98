// Package logging provides structured JSON line logging for analysis
// runs. Every entry carries a level, a message, and optional fields;
// the field constructors in this package cover the names the pipeline
// logs under (component, animal, metric, run_id).
package logging

import (
	"io"
	"strings"
	"sync"
)

// Level orders log severities.
type Level int

const (
	DebugLevel Level = iota // Per-task detail, off by default
	InfoLevel               // Run progress
	WarnLevel               // Degraded but recoverable (skipped animals)
	ErrorLevel              // Failed runs
)

// String returns the level name as it appears in log output.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel reads a level name, case-insensitively. Unknown names
// fall back to InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Field is one key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// Logger is the structured logging interface the engine codes against.
// With returns a child logger whose fields are prepended to every
// entry it writes.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	SetLevel(level Level)
	GetLevel() Level
}

// JSONLogger writes one JSON object per entry. Safe for concurrent
// use; worker goroutines share one logger.
type JSONLogger struct {
	writer io.Writer
	level  Level
	fields []Field
	mu     sync.Mutex
}

// LogEntry is the wire shape of one emitted line.
type LogEntry struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// NopLogger discards everything. Tests use it to silence the pipeline.
type NopLogger struct{}

func (NopLogger) Debug(msg string, fields ...Field) {}
func (NopLogger) Info(msg string, fields ...Field)  {}
func (NopLogger) Warn(msg string, fields ...Field)  {}
func (NopLogger) Error(msg string, fields ...Field) {}
func (n NopLogger) With(fields ...Field) Logger     { return n }
func (NopLogger) SetLevel(level Level)              {}
func (NopLogger) GetLevel() Level                   { return InfoLevel }

// NewNopLogger returns a logger that discards all output.
func NewNopLogger() Logger {
	return NopLogger{}
}
