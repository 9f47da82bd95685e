package sequence

import "errors"

// MinLength is the smallest period a Sequence may have.
const MinLength = 2

// Sentinel errors returned by parsing and validation helpers.
var (
	// ErrTooShort indicates a sequence shorter than MinLength.
	ErrTooShort = errors.New("sequence: length must be at least 2")

	// ErrBadSymbol indicates a character other than '+', '-', '1' or '0', or an element other than ±1.
	ErrBadSymbol = errors.New("sequence: invalid symbol")

	// ErrLengthMismatch indicates two sequences of a pair with different lengths.
	ErrLengthMismatch = errors.New("sequence: pair lengths differ")

	// ErrMalformedPair indicates a seed line that is neither "A,B" nor "L,PSL,A,B".
	ErrMalformedPair = errors.New("sequence: malformed pair")
)

// Sequence is an ordered array of ±1 elements.
type Sequence []int8

// Len returns the period L.
func (s Sequence) Len() int { return len(s) }

// Validate checks the length bound and that every element is ±1.
//
// Complexity: O(L).
func (s Sequence) Validate() error {
	if len(s) < MinLength {
		return ErrTooShort
	}
	for _, v := range s {
		if v != 1 && v != -1 {
			return ErrBadSymbol
		}
	}

	return nil
}

// ValidatePair validates both sequences and requires equal lengths.
func ValidatePair(a, b Sequence) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := b.Validate(); err != nil {
		return err
	}
	if len(a) != len(b) {
		return ErrLengthMismatch
	}

	return nil
}
