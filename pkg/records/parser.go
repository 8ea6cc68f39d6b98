package records

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParsePair decodes a pair cell such as "(1, 2)" into two neuron IDs.
// Surrounding parentheses or brackets are optional; exactly two
// comma-separated base-10 identifiers are required.
func ParsePair(raw string, line int) (uint64, uint64, error) {
	s := strings.TrimSpace(raw)
	if len(s) >= 2 {
		if (s[0] == '(' && s[len(s)-1] == ')') || (s[0] == '[' && s[len(s)-1] == ']') {
			s = s[1 : len(s)-1]
		}
	}

	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, &MalformedPairError{
			Raw:    raw,
			Line:   line,
			Reason: fmt.Sprintf("expected 2 members, got %d", len(parts)),
		}
	}

	source, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, &MalformedPairError{Raw: raw, Line: line, Reason: "first member is not an integer identifier"}
	}
	target, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, 0, &MalformedPairError{Raw: raw, Line: line, Reason: "second member is not an integer identifier"}
	}

	return source, target, nil
}

// ParseWeight decodes a weight cell into a finite float64. Values that
// parse to NaN or ±Inf fail hard rather than degrading to zero.
func ParseWeight(raw string, line int) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &InvalidWeightError{Raw: raw, Line: line, Reason: "empty value"}
	}

	weight, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &InvalidWeightError{Raw: raw, Line: line, Reason: "not a number"}
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return 0, &InvalidWeightError{Raw: raw, Line: line, Reason: "weight is not finite"}
	}

	return weight, nil
}

// ParseRow validates one raw row into an EdgeRecord. An empty animal
// cell falls back to DefaultAnimal.
func ParseRow(row RawRow) (EdgeRecord, error) {
	source, target, err := ParsePair(row.Pair, row.Line)
	if err != nil {
		return EdgeRecord{}, err
	}

	weight, err := ParseWeight(row.Weight, row.Line)
	if err != nil {
		return EdgeRecord{}, err
	}

	animal := strings.TrimSpace(row.Animal)
	if animal == "" {
		animal = DefaultAnimal
	}

	return EdgeRecord{Animal: animal, Source: source, Target: target, Weight: weight}, nil
}

// ParseRows validates a whole table in order. The first failure aborts
// the batch: a structurally bad row means no trustworthy graph can be
// built from the load.
func ParseRows(rows []RawRow) ([]EdgeRecord, error) {
	out := make([]EdgeRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := ParseRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
