package tabular

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/golang/snappy"

	"github.com/connectolab/graphmetrics/pkg/results"
)

// Format selects an output encoding
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
)

// KnownFormat reports whether f is a supported output format.
func KnownFormat(f Format) bool {
	switch f {
	case FormatCSV, FormatJSON, FormatJSONL:
		return true
	}
	return false
}

// WriteOptions configures table output
type WriteOptions struct {
	Format   Format
	Compress bool // Snappy framing with a .sz suffix
	Pretty   bool // Indent JSON output
}

// DefaultWriteOptions returns plain CSV output
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{Format: FormatCSV}
}

// TableFileName returns the output file name for a metric table.
func TableFileName(metric string, opts WriteOptions) string {
	name := metric + "." + string(opts.Format)
	if opts.Compress {
		name += CompressedSuffix
	}
	return name
}

// WriteTables writes one file per table under dir, creating it if
// needed, and returns the written paths in table order.
func WriteTables(dir string, tables []results.Table, opts WriteOptions) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, len(tables))
	for _, table := range tables {
		path := filepath.Join(dir, TableFileName(table.Metric, opts))
		if err := WriteTableFile(path, table, opts); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteTableFile writes one table to path.
func WriteTableFile(path string, table results.Table, opts WriteOptions) (retErr error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if err := file.Close(); err != nil && retErr == nil {
			retErr = fmt.Errorf("failed to close %s: %w", path, err)
		}
	}()

	var writer io.Writer = file
	if opts.Compress {
		snappyWriter := snappy.NewBufferedWriter(file)
		defer func() {
			// The framing writer buffers; closing it flushes the last chunk
			if err := snappyWriter.Close(); err != nil && retErr == nil {
				retErr = fmt.Errorf("failed to flush compressed %s: %w", path, err)
			}
		}()
		writer = snappyWriter
	}

	return WriteTable(writer, table, opts)
}

// WriteTable writes one table to w in the configured format.
func WriteTable(w io.Writer, table results.Table, opts WriteOptions) error {
	switch opts.Format {
	case FormatCSV:
		return writeCSV(w, table)
	case FormatJSON:
		return writeJSON(w, table, opts.Pretty)
	case FormatJSONL:
		return writeJSONL(w, table)
	default:
		return fmt.Errorf("unsupported output format %q", opts.Format)
	}
}

// writeCSV writes the table as CSV
func writeCSV(w io.Writer, table results.Table) (retErr error) {
	csvWriter := csv.NewWriter(w)
	defer func() {
		// Always flush so buffered rows reach the writer
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil && retErr == nil {
			retErr = fmt.Errorf("CSV writer flush error: %w", err)
		}
	}()

	if err := csvWriter.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range table.Rows {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = formatCell(cell)
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	return nil
}

// writeJSON writes the table as one JSON array of row objects
func writeJSON(w io.Writer, table results.Table, pretty bool) error {
	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(rowObjects(table))
}

// writeJSONL writes one JSON object per row
func writeJSONL(w io.Writer, table results.Table) error {
	for _, object := range rowObjects(table) {
		data, err := json.Marshal(object)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// rowObjects maps rows onto column-keyed objects.
func rowObjects(table results.Table) []map[string]any {
	objects := make([]map[string]any, 0, len(table.Rows))
	for _, row := range table.Rows {
		object := make(map[string]any, len(table.Columns))
		for i, column := range table.Columns {
			if i < len(row) {
				object[column] = row[i]
			}
		}
		objects = append(objects, object)
	}
	return objects
}

// formatCell renders one typed cell for CSV output.
func formatCell(cell any) string {
	switch v := cell.(type) {
	case string:
		return v
	case uint64:
		return strconv.FormatUint(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
