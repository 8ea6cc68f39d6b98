package logging

import (
	"github.com/natefinch/lumberjack"
)

// RotationConfig controls size-based rotation of a log file.
type RotationConfig struct {
	Filename   string
	MaxSizeMB  int // Rotate after this many megabytes
	MaxBackups int // Rotated files to keep, 0 keeps all
	MaxAgeDays int // Delete rotated files older than this, 0 keeps all
	Compress   bool
}

// NewRotatingLogger creates a JSON logger that writes to a
// size-rotated log file. The lumberjack writer creates the file and
// its directory entries lazily on first write.
func NewRotatingLogger(cfg RotationConfig, level Level) *JSONLogger {
	writer := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	return NewJSONLogger(writer, level)
}
