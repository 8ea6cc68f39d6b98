package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// decodeEntry unmarshals a single JSON log line.
func decodeEntry(t *testing.T, line []byte) LogEntry {
	t.Helper()
	var entry LogEntry
	if err := json.Unmarshal(line, &entry); err != nil {
		t.Fatalf("Failed to decode log line %q: %v", line, err)
	}
	return entry
}

// decodeLines splits buffered output into decoded entries.
func decodeLines(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()
	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entries = append(entries, decodeEntry(t, []byte(line)))
	}
	return entries
}

func TestLevelNames(t *testing.T) {
	levels := map[Level]string{
		DebugLevel: "DEBUG",
		InfoLevel:  "INFO",
		WarnLevel:  "WARN",
		ErrorLevel: "ERROR",
	}

	for level, name := range levels {
		if got := level.String(); got != name {
			t.Errorf("Level(%d).String() = %q, want %q", level, got, name)
		}
		// Parsing is case-insensitive and round-trips the name
		if got := ParseLevel(strings.ToLower(name)); got != level {
			t.Errorf("ParseLevel(%q) = %v, want %v", strings.ToLower(name), got, level)
		}
		if got := ParseLevel(name); got != level {
			t.Errorf("ParseLevel(%q) = %v, want %v", name, got, level)
		}
	}

	if got := ParseLevel("warning"); got != WarnLevel {
		t.Errorf("ParseLevel(warning) = %v, want WarnLevel", got)
	}
	if got := ParseLevel("trace"); got != InfoLevel {
		t.Errorf("ParseLevel of an unknown name = %v, want the info default", got)
	}
}

func TestFieldConstructors(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"String", String("format", "csv"), "format", "csv"},
		{"Int", Int("workers", 8), "workers", 8},
		{"Int64", Int64("bytes", 1 << 32), "bytes", int64(1 << 32)},
		{"Uint64", Uint64("node", 12), "node", uint64(12)},
		{"Float64", Float64("damping", 0.85), "damping", 0.85},
		{"Bool", Bool("compress", true), "compress", true},
		{"Duration", Duration("elapsed", 1500 * time.Millisecond), "elapsed", "1.5s"},
		{"Error", Error(errors.New("no such file")), "error", "no such file"},
		{"Error nil", Error(nil), "error", nil},
		{"Any", Any("partition", "3 communities"), "partition", "3 communities"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key {
				t.Errorf("Key = %q, want %q", tt.field.Key, tt.key)
			}
			if tt.field.Value != tt.value {
				t.Errorf("Value = %v (%T), want %v", tt.field.Value, tt.field.Value, tt.value)
			}
		})
	}
}

func TestPipelineFieldHelpers(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"Animal", Animal("worm-1"), "animal", "worm-1"},
		{"Metric", Metric("pagerank"), "metric", "pagerank"},
		{"RunID", RunID("abc-123"), "run_id", "abc-123"},
		{"NeuronID", NeuronID(42), "neuron_id", uint64(42)},
		{"Iterations", Iterations(17), "iterations", 17},
		{"Component", Component("pipeline"), "component", "pipeline"},
		{"Count", Count(3), "count", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key || tt.field.Value != tt.value {
				t.Errorf("%s() = %+v, want {Key:%s Value:%v}", tt.name, tt.field, tt.key, tt.value)
			}
		})
	}
}

func TestJSONLogger_EmitsEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("built graph", Animal("worm-1"), Int("nodes", 279))

	entry := decodeEntry(t, buf.Bytes())
	if entry.Level != "INFO" {
		t.Errorf("Level = %q, want INFO", entry.Level)
	}
	if entry.Message != "built graph" {
		t.Errorf("Message = %q, want 'built graph'", entry.Message)
	}
	if entry.Fields["animal"] != "worm-1" {
		t.Errorf("animal field = %v, want worm-1", entry.Fields["animal"])
	}
	// JSON numbers decode as float64
	if entry.Fields["nodes"] != float64(279) {
		t.Errorf("nodes field = %v, want 279", entry.Fields["nodes"])
	}
	if _, err := time.Parse(time.RFC3339Nano, entry.Time); err != nil {
		t.Errorf("Time %q is not RFC3339Nano: %v", entry.Time, err)
	}
}

func TestJSONLogger_AllLevelsEmit(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Debug("loading config")
	logger.Info("run started")
	logger.Warn("animal skipped")
	logger.Error("run failed")

	entries := decodeLines(t, &buf)
	want := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	if len(entries) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(entries))
	}
	for i, entry := range entries {
		if entry.Level != want[i] {
			t.Errorf("Entry %d level = %q, want %q", i, entry.Level, want[i])
		}
	}
}

func TestJSONLogger_LevelGate(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("suppressed")
	logger.Info("suppressed")
	logger.Warn("eigenvector did not converge")
	logger.Error("input table unreadable")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries past the warn gate, got %d", len(entries))
	}
	if entries[0].Level != "WARN" || entries[1].Level != "ERROR" {
		t.Errorf("Levels = %q, %q; want WARN, ERROR", entries[0].Level, entries[1].Level)
	}
}

func TestJSONLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	if got := logger.GetLevel(); got != InfoLevel {
		t.Errorf("GetLevel() = %v, want InfoLevel", got)
	}

	logger.SetLevel(ErrorLevel)
	if got := logger.GetLevel(); got != ErrorLevel {
		t.Errorf("GetLevel() after SetLevel = %v, want ErrorLevel", got)
	}

	logger.Info("now suppressed")
	if buf.Len() != 0 {
		t.Error("Info should be suppressed after raising the level to error")
	}

	logger.Error("still emitted")
	if buf.Len() == 0 {
		t.Error("Error should pass the raised level")
	}
}

func TestJSONLogger_WithChaining(t *testing.T) {
	var buf bytes.Buffer
	base := NewJSONLogger(&buf, InfoLevel)

	// Two levels of With accumulate preset fields
	child := base.With(Component("pipeline")).With(RunID("run-7"))
	child.Info("computing metric", Metric("pagerank"))

	entry := decodeEntry(t, buf.Bytes())
	wantFields := map[string]any{
		"component": "pipeline",
		"run_id":    "run-7",
		"metric":    "pagerank",
	}
	for key, want := range wantFields {
		if got := entry.Fields[key]; got != want {
			t.Errorf("Field %s = %v, want %v", key, got, want)
		}
	}
}

func TestJSONLogger_WithPerCallOverride(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel).With(Metric("pagerank"))

	// A per-call field replaces the preset value under the same key
	logger.Info("switching metric", Metric("hits"))

	entry := decodeEntry(t, buf.Bytes())
	if got := entry.Fields["metric"]; got != "hits" {
		t.Errorf("metric field = %v, want the per-call value hits", got)
	}
}

func TestJSONLogger_WithKeepsOwnLevel(t *testing.T) {
	var buf bytes.Buffer
	parent := NewJSONLogger(&buf, InfoLevel)
	child := parent.With(Component("worker"))

	// Raising the parent's level does not mute an existing child
	parent.SetLevel(ErrorLevel)
	child.Info("task finished")

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("Expected the child entry to emit, got %d entries", len(entries))
	}
}

func TestJSONLogger_OmitsEmptyFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("no fields")

	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if _, exists := raw["fields"]; exists {
		t.Error("fields key should be omitted when the entry carries none")
	}
}

func TestJSONLogger_UnmarshalableField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	// Functions cannot marshal; the logger falls back to a plain line
	logger.Info("bad payload", Any("fn", func() {}))

	if !strings.Contains(buf.String(), "Failed to marshal log entry") {
		t.Errorf("Expected the marshal fallback, got %q", buf.String())
	}
}

func TestJSONLogger_ConcurrentWriters(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	const writers = 8
	const perWriter = 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				logger.Info("animal done", Animal(fmt.Sprintf("worm-%d", w)), Int("task", i))
			}
		}(w)
	}
	wg.Wait()

	// Every entry lands on its own intact line
	entries := decodeLines(t, &buf)
	if len(entries) != writers*perWriter {
		t.Errorf("Expected %d entries, got %d", writers*perWriter, len(entries))
	}
}

func TestSetDefaultLogger_RoutesPackageHelpers(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, DebugLevel))

	Debug("resolving config")
	Info("analysis started")
	Warn("animal skipped")
	ErrorLog("analysis failed")

	entries := decodeLines(t, &buf)
	if len(entries) != 4 {
		t.Fatalf("Expected 4 entries from the package helpers, got %d", len(entries))
	}
	want := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	for i, entry := range entries {
		if entry.Level != want[i] {
			t.Errorf("Entry %d level = %q, want %q", i, entry.Level, want[i])
		}
	}

	if DefaultLogger() == nil {
		t.Fatal("DefaultLogger() returned nil")
	}
}

func TestGlobalWith(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, InfoLevel))

	With(Component("cli")).Info("rendering layout")

	entry := decodeEntry(t, buf.Bytes())
	if entry.Fields["component"] != "cli" {
		t.Errorf("component field = %v, want cli", entry.Fields["component"])
	}
}

func TestNewRotatingLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "analysis.log")
	logger := NewRotatingLogger(RotationConfig{Filename: logPath, MaxSizeMB: 1}, InfoLevel)

	logger.Info("rotation test", Animal("worm-1"))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	entry := decodeEntry(t, data)
	if entry.Message != "rotation test" {
		t.Errorf("Message = %q, want 'rotation test'", entry.Message)
	}
	if entry.Fields["animal"] != "worm-1" {
		t.Errorf("animal field = %v, want worm-1", entry.Fields["animal"])
	}
}

func BenchmarkJSONLogger_Info(b *testing.B) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("metric complete", Animal("worm-1"), Metric("pagerank"))
	}
}

func BenchmarkJSONLogger_Filtered(b *testing.B) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, ErrorLevel)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Debug("metric complete", Animal("worm-1"), Metric("pagerank"))
	}
}
