package moves

import (
	"errors"

	"github.com/katalvlaran/pacp/correlation"
)

// Sentinel errors.
var (
	// ErrTooShort indicates a length below 2.
	ErrTooShort = errors.New("moves: length must be at least 2")

	// ErrNilRNG indicates a nil random source.
	ErrNilRNG = errors.New("moves: nil random source")

	// ErrBadProbability indicates a probability outside [0, 1].
	ErrBadProbability = errors.New("moves: probability must lie in [0, 1]")
)

// Kind enumerates move families.
type Kind uint8

const (
	// KindFlip negates a single element.
	KindFlip Kind = iota

	// KindRotate cyclically shifts one sequence.
	KindRotate

	// KindBlock mutates a contiguous run.
	KindBlock

	// KindScatter flips Length uniformly random positions.
	KindScatter
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindFlip:
		return "flip"
	case KindRotate:
		return "rotate"
	case KindBlock:
		return "block"
	case KindScatter:
		return "scatter"
	default:
		return "unknown"
	}
}

// Move describes one proposal. Fields not used by Kind are zero.
type Move struct {
	Kind   Kind
	Seq    correlation.SeqID
	Pos    int // flip position, or block start
	Shift  int // rotation amount in [1, L)
	Length int // block length, or scatter flip count
}

// Applied records what a move actually changed, so it can be undone.
type Applied struct {
	Move  Move
	Flips []Flip // flips in application order
}

// Flip is one committed element negation.
type Flip struct {
	Seq correlation.SeqID
	Pos int
}
