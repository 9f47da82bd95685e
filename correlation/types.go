package correlation

import "errors"

// Sentinel errors.
var (
	// ErrDiverged indicates that the incrementally maintained vector no longer equals
	// a full recomputation. It signals a programming error, never a search outcome.
	ErrDiverged = errors.New("correlation: incremental state diverged from full recompute")

	// ErrLengthMismatch indicates a sequence whose length differs from the state's L.
	ErrLengthMismatch = errors.New("correlation: sequence length does not match state")
)

// SeqID selects one sequence of the pair.
type SeqID uint8

const (
	// A is the first sequence of the pair.
	A SeqID = 0

	// B is the second sequence of the pair.
	B SeqID = 1
)

// String implements fmt.Stringer.
func (id SeqID) String() string {
	if id == A {
		return "A"
	}

	return "B"
}

// Other returns the partner sequence id.
func (id SeqID) Other() SeqID { return id ^ 1 }
