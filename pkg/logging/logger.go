package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// NewJSONLogger creates a logger emitting JSON lines to writer at the
// given minimum level.
func NewJSONLogger(writer io.Writer, level Level) *JSONLogger {
	return &JSONLogger{
		writer: writer,
		level:  level,
		fields: make([]Field, 0),
	}
}

func (l *JSONLogger) log(level Level, msg string, fields ...Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Level check happens under the lock so SetLevel from another
	// goroutine is safe.
	if level < l.level {
		return
	}

	entry := LogEntry{
		Time:    time.Now().Format(time.RFC3339Nano),
		Level:   level.String(),
		Message: msg,
	}
	if merged := mergeFields(l.fields, fields); len(merged) > 0 {
		entry.Fields = merged
	}

	data, err := json.Marshal(entry)
	if err != nil {
		// Unmarshalable field value; keep the message rather than drop the entry
		fmt.Fprintf(l.writer, "[ERROR] Failed to marshal log entry: %v\n", err)
		return
	}
	l.writer.Write(append(data, '\n'))
}

// mergeFields flattens pre-set and per-call fields into one map.
// Per-call fields win on key collision.
func mergeFields(preset, fields []Field) map[string]any {
	if len(preset)+len(fields) == 0 {
		return nil
	}
	merged := make(map[string]any, len(preset)+len(fields))
	for _, f := range preset {
		merged[f.Key] = f.Value
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	return merged
}

// Debug logs a debug-level message
func (l *JSONLogger) Debug(msg string, fields ...Field) {
	l.log(DebugLevel, msg, fields...)
}

// Info logs an info-level message
func (l *JSONLogger) Info(msg string, fields ...Field) {
	l.log(InfoLevel, msg, fields...)
}

// Warn logs a warning-level message
func (l *JSONLogger) Warn(msg string, fields ...Field) {
	l.log(WarnLevel, msg, fields...)
}

// Error logs an error-level message
func (l *JSONLogger) Error(msg string, fields ...Field) {
	l.log(ErrorLevel, msg, fields...)
}

// With creates a child logger with the given fields pre-set. The child
// shares the parent's writer but filters on its own level.
func (l *JSONLogger) With(fields ...Field) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	preset := make([]Field, 0, len(l.fields)+len(fields))
	preset = append(preset, l.fields...)
	preset = append(preset, fields...)

	return &JSONLogger{
		writer: l.writer,
		level:  l.level,
		fields: preset,
	}
}

// SetLevel sets the minimum log level
func (l *JSONLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current log level
func (l *JSONLogger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

var (
	defaultLogger Logger
	once          sync.Once
)

// DefaultLogger returns the process-wide fallback logger. It writes to
// stderr so result output on stdout stays clean; GRAPHMETRICS_LOG_LEVEL
// overrides the info default.
func DefaultLogger() Logger {
	once.Do(func() {
		level := InfoLevel
		if levelStr := os.Getenv("GRAPHMETRICS_LOG_LEVEL"); levelStr != "" {
			level = ParseLevel(levelStr)
		}
		defaultLogger = NewJSONLogger(os.Stderr, level)
	})
	return defaultLogger
}

// SetDefaultLogger replaces the process-wide fallback logger.
func SetDefaultLogger(logger Logger) {
	// Consume the once so a later DefaultLogger call cannot overwrite
	once.Do(func() {})
	defaultLogger = logger
}

// Package-level helpers over the default logger, for call sites with
// no logger instance in scope.

// Debug logs a debug-level message using the default logger
func Debug(msg string, fields ...Field) {
	DefaultLogger().Debug(msg, fields...)
}

// Info logs an info-level message using the default logger
func Info(msg string, fields ...Field) {
	DefaultLogger().Info(msg, fields...)
}

// Warn logs a warning-level message using the default logger
func Warn(msg string, fields ...Field) {
	DefaultLogger().Warn(msg, fields...)
}

// ErrorLog logs an error-level message using the default logger.
// Named ErrorLog because Error is the field constructor.
func ErrorLog(msg string, fields ...Field) {
	DefaultLogger().Error(msg, fields...)
}

// With creates a child of the default logger with fields pre-set.
func With(fields ...Field) Logger {
	return DefaultLogger().With(fields...)
}
