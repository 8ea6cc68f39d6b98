// Package tabular is the file boundary: it reads edge tables into raw
// rows for the parser and writes aggregated metric tables back out.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"

	"github.com/connectolab/graphmetrics/pkg/records"
)

// Default input column names.
const (
	ColumnAnimal     = "Animal"
	ColumnNeuronPair = "Neuron Pair"
	ColumnEdgeWeight = "Mean Edge Weight"
)

// CompressedSuffix marks snappy-framed files.
const CompressedSuffix = ".sz"

// ErrMissingColumn indicates a required header column was not found.
var ErrMissingColumn = errors.New("missing required column")

// MissingColumnError reports a required column absent from the header.
type MissingColumnError struct {
	Column string
	Header []string
}

// Error implements the error interface.
func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q (header: %s)", e.Column, strings.Join(e.Header, ", "))
}

// Is supports errors.Is with ErrMissingColumn.
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// ReadOptions configures edge table reading
type ReadOptions struct {
	AnimalColumn string // Optional column; absent means one implicit animal
	PairColumn   string
	WeightColumn string
}

// DefaultReadOptions returns the canonical column names
func DefaultReadOptions() ReadOptions {
	return ReadOptions{
		AnimalColumn: ColumnAnimal,
		PairColumn:   ColumnNeuronPair,
		WeightColumn: ColumnEdgeWeight,
	}
}

// ReadEdgeTable reads a CSV edge table from path. A .sz suffix selects
// transparent snappy decompression.
func ReadEdgeTable(path string, opts ReadOptions) ([]records.RawRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open edge table: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(path, CompressedSuffix) {
		reader = snappy.NewReader(file)
	}
	return ReadEdgeRows(reader, opts)
}

// ReadEdgeRows reads CSV edge rows from r. The header must contain the
// pair and weight columns; the animal column is optional and unknown
// columns are ignored. Row text is passed through untouched for the
// parser to judge.
func ReadEdgeRows(r io.Reader, opts ReadOptions) ([]records.RawRow, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1 // Column checks happen by header index

	header, err := csvReader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("edge table is empty: %w", err)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Create column index map
	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.TrimSpace(col)] = i
	}

	pairIdx, ok := colIndex[opts.PairColumn]
	if !ok {
		return nil, &MissingColumnError{Column: opts.PairColumn, Header: header}
	}
	weightIdx, ok := colIndex[opts.WeightColumn]
	if !ok {
		return nil, &MissingColumnError{Column: opts.WeightColumn, Header: header}
	}
	animalIdx, hasAnimal := colIndex[opts.AnimalColumn]

	rows := make([]records.RawRow, 0)
	line := 1 // Header occupies line 1
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row after line %d: %w", line, err)
		}
		line++

		row := records.RawRow{
			Pair:   getField(record, pairIdx),
			Weight: getField(record, weightIdx),
			Line:   line,
		}
		if hasAnimal {
			row.Animal = getField(record, animalIdx)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// getField safely extracts a field by index, returning "" for short
// records.
func getField(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// MetricFromFileName returns the metric a table file holds, derived
// from the naming scheme of TableFileName. Only CSV tables, plain or
// snappy-compressed, are recognized.
func MetricFromFileName(name string) (string, bool) {
	name = strings.TrimSuffix(name, CompressedSuffix)
	metric := strings.TrimSuffix(name, "."+string(FormatCSV))
	if metric == name || metric == "" {
		return "", false
	}
	return metric, true
}

// ReadTableFile reads a written CSV metric table back in as a header
// plus data rows. A .sz suffix selects snappy decompression.
func ReadTableFile(path string) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(path, CompressedSuffix) {
		reader = snappy.NewReader(file)
	}

	csvReader := csv.NewReader(reader)
	all, err := csvReader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read table %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("table %s is empty", path)
	}
	return all[0], all[1:], nil
}
