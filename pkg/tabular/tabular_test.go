package tabular

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/snappy"

	"github.com/connectolab/graphmetrics/pkg/results"
)

func sampleTable() results.Table {
	return results.Table{
		Metric:  results.MetricPageRank,
		Columns: []string{results.ColumnAnimal, results.ColumnNeuron, results.ColumnPageRank},
		Rows: [][]any{
			{"worm-1", uint64(1), 0.25},
			{"worm-1", uint64(2), 0.75},
		},
	}
}

// TestReadEdgeRows_WithAnimalColumn tests reading a full edge table
func TestReadEdgeRows_WithAnimalColumn(t *testing.T) {
	input := "Animal,Neuron Pair,Mean Edge Weight\n" +
		"worm-1,\"(1, 2)\",0.5\n" +
		"worm-2,\"(2, 3)\",0.8\n"

	rows, err := ReadEdgeRows(strings.NewReader(input), DefaultReadOptions())
	if err != nil {
		t.Fatalf("ReadEdgeRows failed: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}

	if rows[0].Animal != "worm-1" || rows[0].Pair != "(1, 2)" || rows[0].Weight != "0.5" {
		t.Errorf("Unexpected first row: %+v", rows[0])
	}
	if rows[0].Line != 2 || rows[1].Line != 3 {
		t.Errorf("Expected line numbers 2 and 3, got %d and %d", rows[0].Line, rows[1].Line)
	}
	if rows[1].Animal != "worm-2" {
		t.Errorf("Expected animal worm-2 in second row, got %q", rows[1].Animal)
	}
}

// TestReadEdgeRows_WithoutAnimalColumn tests the optional animal column
func TestReadEdgeRows_WithoutAnimalColumn(t *testing.T) {
	input := "Neuron Pair,Mean Edge Weight\n" +
		"\"(1, 2)\",0.5\n"

	rows, err := ReadEdgeRows(strings.NewReader(input), DefaultReadOptions())
	if err != nil {
		t.Fatalf("ReadEdgeRows failed: %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	// The parser later substitutes the default animal for ""
	if rows[0].Animal != "" {
		t.Errorf("Expected empty animal, got %q", rows[0].Animal)
	}
}

// TestReadEdgeRows_IgnoresUnknownColumns tests that extra columns are
// skipped
func TestReadEdgeRows_IgnoresUnknownColumns(t *testing.T) {
	input := "Notes,Neuron Pair,Recorded,Mean Edge Weight\n" +
		"left ganglion,\"(7, 9)\",2024-01-01,0.33\n"

	rows, err := ReadEdgeRows(strings.NewReader(input), DefaultReadOptions())
	if err != nil {
		t.Fatalf("ReadEdgeRows failed: %v", err)
	}

	if rows[0].Pair != "(7, 9)" || rows[0].Weight != "0.33" {
		t.Errorf("Unexpected row: %+v", rows[0])
	}
}

// TestReadEdgeRows_MissingRequiredColumn tests the structural error
func TestReadEdgeRows_MissingRequiredColumn(t *testing.T) {
	input := "Animal,Mean Edge Weight\nworm-1,0.5\n"

	_, err := ReadEdgeRows(strings.NewReader(input), DefaultReadOptions())
	if err == nil {
		t.Fatal("Expected error for missing pair column")
	}

	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("Expected ErrMissingColumn, got %v", err)
	}

	var mce *MissingColumnError
	if !errors.As(err, &mce) {
		t.Fatalf("Expected *MissingColumnError, got %T", err)
	}
	if mce.Column != ColumnNeuronPair {
		t.Errorf("Expected missing column %q, got %q", ColumnNeuronPair, mce.Column)
	}
}

// TestReadEdgeRows_CustomColumns tests renamed input columns
func TestReadEdgeRows_CustomColumns(t *testing.T) {
	input := "subject,pair,weight\nworm-9,\"(1, 2)\",0.5\n"

	opts := ReadOptions{AnimalColumn: "subject", PairColumn: "pair", WeightColumn: "weight"}
	rows, err := ReadEdgeRows(strings.NewReader(input), opts)
	if err != nil {
		t.Fatalf("ReadEdgeRows failed: %v", err)
	}

	if rows[0].Animal != "worm-9" || rows[0].Pair != "(1, 2)" {
		t.Errorf("Unexpected row: %+v", rows[0])
	}
}

// TestReadEdgeRows_EmptyInput tests a file with no header
func TestReadEdgeRows_EmptyInput(t *testing.T) {
	_, err := ReadEdgeRows(strings.NewReader(""), DefaultReadOptions())
	if err == nil {
		t.Fatal("Expected error for empty input")
	}
}

// TestReadEdgeTable_CompressedRoundTrip tests transparent snappy
// decompression by suffix
func TestReadEdgeTable_CompressedRoundTrip(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "tabular-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	path := filepath.Join(tmpDir, "edges.csv"+CompressedSuffix)
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	compressed := snappy.NewBufferedWriter(file)
	input := "Animal,Neuron Pair,Mean Edge Weight\nworm-1,\"(1, 2)\",0.5\n"
	if _, err := compressed.Write([]byte(input)); err != nil {
		t.Fatalf("Failed to write compressed data: %v", err)
	}
	if err := compressed.Close(); err != nil {
		t.Fatalf("Failed to flush compressed data: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("Failed to close file: %v", err)
	}

	rows, err := ReadEdgeTable(path, DefaultReadOptions())
	if err != nil {
		t.Fatalf("ReadEdgeTable failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Pair != "(1, 2)" {
		t.Errorf("Unexpected rows: %+v", rows)
	}
}

// TestWriteTable_CSV tests CSV rendering with typed cells
func TestWriteTable_CSV(t *testing.T) {
	var buf bytes.Buffer
	opts := WriteOptions{Format: FormatCSV}

	if err := WriteTable(&buf, sampleTable(), opts); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}

	want := "Animal,Neuron,PageRank\n" +
		"worm-1,1,0.25\n" +
		"worm-1,2,0.75\n"
	if buf.String() != want {
		t.Errorf("Unexpected CSV output:\n got: %q\nwant: %q", buf.String(), want)
	}
}

// TestWriteTable_JSON tests the JSON array format
func TestWriteTable_JSON(t *testing.T) {
	var buf bytes.Buffer
	opts := WriteOptions{Format: FormatJSON}

	if err := WriteTable(&buf, sampleTable(), opts); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 row objects, got %d", len(rows))
	}
	if rows[0][results.ColumnAnimal] != "worm-1" {
		t.Errorf("Expected animal worm-1, got %v", rows[0][results.ColumnAnimal])
	}
	if rows[1][results.ColumnPageRank].(float64) != 0.75 {
		t.Errorf("Expected PageRank 0.75, got %v", rows[1][results.ColumnPageRank])
	}
}

// TestWriteTable_JSONL tests one object per line
func TestWriteTable_JSONL(t *testing.T) {
	var buf bytes.Buffer
	opts := WriteOptions{Format: FormatJSONL}

	if err := WriteTable(&buf, sampleTable(), opts); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	for _, line := range lines {
		var row map[string]any
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			t.Errorf("Failed to parse line %q: %v", line, err)
		}
	}
}

// TestWriteTables_Files tests per-table file creation
func TestWriteTables_Files(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "tabular-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	tables := []results.Table{
		sampleTable(),
		{
			Metric:  results.MetricEfficiency,
			Columns: []string{results.ColumnAnimal, results.ColumnGlobalEfficiency, results.ColumnLocalEfficiency},
			Rows:    [][]any{{"worm-1", 1.5, 0.75}},
		},
	}

	paths, err := WriteTables(tmpDir, tables, DefaultWriteOptions())
	if err != nil {
		t.Fatalf("WriteTables failed: %v", err)
	}

	if len(paths) != 2 {
		t.Fatalf("Expected 2 paths, got %d", len(paths))
	}
	if filepath.Base(paths[0]) != "pagerank.csv" || filepath.Base(paths[1]) != "efficiency.csv" {
		t.Errorf("Unexpected file names: %v", paths)
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Expected file %s to exist: %v", path, err)
		}
	}
}

// TestWriteTableFile_Compressed tests the snappy-framed output path
func TestWriteTableFile_Compressed(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "tabular-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	opts := WriteOptions{Format: FormatCSV, Compress: true}
	path := filepath.Join(tmpDir, TableFileName(results.MetricPageRank, opts))
	if err := WriteTableFile(path, sampleTable(), opts); err != nil {
		t.Fatalf("WriteTableFile failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open compressed output: %v", err)
	}
	defer file.Close()

	var decompressed bytes.Buffer
	if _, err := decompressed.ReadFrom(snappy.NewReader(file)); err != nil {
		t.Fatalf("Failed to decompress output: %v", err)
	}

	var plain bytes.Buffer
	if err := WriteTable(&plain, sampleTable(), WriteOptions{Format: FormatCSV}); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	if decompressed.String() != plain.String() {
		t.Errorf("Compressed content mismatch:\n got: %q\nwant: %q", decompressed.String(), plain.String())
	}
}

// TestTableFileName tests output naming
func TestTableFileName(t *testing.T) {
	if name := TableFileName("pagerank", WriteOptions{Format: FormatCSV}); name != "pagerank.csv" {
		t.Errorf("Expected pagerank.csv, got %s", name)
	}
	if name := TableFileName("hits", WriteOptions{Format: FormatJSONL, Compress: true}); name != "hits.jsonl.sz" {
		t.Errorf("Expected hits.jsonl.sz, got %s", name)
	}
}

// TestKnownFormat tests format validation
func TestKnownFormat(t *testing.T) {
	for _, format := range []Format{FormatCSV, FormatJSON, FormatJSONL} {
		if !KnownFormat(format) {
			t.Errorf("Expected %q to be known", format)
		}
	}
	if KnownFormat("parquet") {
		t.Error("Expected unknown format to be rejected")
	}
}

// TestMetricFromFileName tests the inverse of TableFileName
func TestMetricFromFileName(t *testing.T) {
	tests := []struct {
		name   string
		metric string
		ok     bool
	}{
		{"pagerank.csv", "pagerank", true},
		{"efficiency.csv.sz", "efficiency", true},
		{"degree.json", "", false},
		{"hits.jsonl.sz", "", false},
		{"notes.txt", "", false},
		{".csv", "", false},
	}

	for _, tt := range tests {
		metric, ok := MetricFromFileName(tt.name)
		if ok != tt.ok || metric != tt.metric {
			t.Errorf("MetricFromFileName(%q) = (%q, %v), want (%q, %v)",
				tt.name, metric, ok, tt.metric, tt.ok)
		}
	}
}

// TestReadTableFile tests reading written tables back, plain and compressed
func TestReadTableFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "tabular-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	for _, compress := range []bool{false, true} {
		opts := WriteOptions{Format: FormatCSV, Compress: compress}
		path := filepath.Join(tmpDir, TableFileName(results.MetricPageRank, opts))
		if err := WriteTableFile(path, sampleTable(), opts); err != nil {
			t.Fatalf("WriteTableFile failed: %v", err)
		}

		header, rows, err := ReadTableFile(path)
		if err != nil {
			t.Fatalf("ReadTableFile(%s) failed: %v", path, err)
		}
		if len(header) != 3 || header[2] != results.ColumnPageRank {
			t.Errorf("Unexpected header for %s: %v", path, header)
		}
		if len(rows) != 2 {
			t.Fatalf("Expected 2 rows from %s, got %d", path, len(rows))
		}
		if rows[1][0] != "worm-1" || rows[1][1] != "2" || rows[1][2] != "0.75" {
			t.Errorf("Unexpected second row from %s: %v", path, rows[1])
		}
	}
}

// TestReadTableFile_Empty tests that a zero-byte table is rejected
func TestReadTableFile_Empty(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "tabular-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	path := filepath.Join(tmpDir, "pagerank.csv")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("Failed to write empty file: %v", err)
	}

	if _, _, err := ReadTableFile(path); err == nil {
		t.Error("Expected an error for an empty table")
	}
}
