// Package records defines the canonical edge record form and the parser
// that produces it from raw tabular rows.
package records

// DefaultAnimal is the implicit grouping key used when the input table
// carries no animal column.
const DefaultAnimal = "all"

// RawRow is one undecoded input row handed over by the tabular reader.
// Line is the 1-based row position in the source table, used in error
// messages.
type RawRow struct {
	Animal string
	Pair   string
	Weight string
	Line   int
}

// EdgeRecord is one validated connection: a weighted edge between two
// neurons inside one animal's network.
type EdgeRecord struct {
	Animal string
	Source uint64
	Target uint64
	Weight float64
}
