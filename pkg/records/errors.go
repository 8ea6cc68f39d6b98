package records

import (
	"errors"
	"fmt"
)

// Sentinel causes carried by parser errors.
var (
	ErrMalformedPair = errors.New("malformed neuron pair")
	ErrInvalidWeight = errors.New("invalid edge weight")
)

// MalformedPairError reports a pair cell that could not be decoded into
// exactly two neuron identifiers.
type MalformedPairError struct {
	Raw    string // original cell text
	Line   int    // 1-based input row, 0 if unknown
	Reason string
}

// Error implements the error interface.
func (e *MalformedPairError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: malformed neuron pair %q: %s", e.Line, e.Raw, e.Reason)
	}
	return fmt.Sprintf("malformed neuron pair %q: %s", e.Raw, e.Reason)
}

// Is reports whether target matches the malformed-pair sentinel.
func (e *MalformedPairError) Is(target error) bool {
	return target == ErrMalformedPair
}

// InvalidWeightError reports a weight cell that is not a finite number.
// Non-finite values (NaN, ±Inf) are rejected here, never coerced.
type InvalidWeightError struct {
	Raw    string
	Line   int
	Reason string
}

// Error implements the error interface.
func (e *InvalidWeightError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: invalid edge weight %q: %s", e.Line, e.Raw, e.Reason)
	}
	return fmt.Sprintf("invalid edge weight %q: %s", e.Raw, e.Reason)
}

// Is reports whether target matches the invalid-weight sentinel.
func (e *InvalidWeightError) Is(target error) bool {
	return target == ErrInvalidWeight
}

// IsMalformedPair returns true if the error is a pair decoding failure.
func IsMalformedPair(err error) bool {
	var mpe *MalformedPairError
	return errors.As(err, &mpe)
}

// IsInvalidWeight returns true if the error is a weight validation failure.
func IsInvalidWeight(err error) bool {
	var iwe *InvalidWeightError
	return errors.As(err, &iwe)
}
