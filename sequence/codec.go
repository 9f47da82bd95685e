package sequence

import (
	"strconv"
	"strings"
	"unicode"
)

// Parse decodes the boundary text form. '+' and '1' map to +1, '-' and '0' map to −1.
// Surrounding whitespace is ignored; any other character yields ErrBadSymbol.
//
// Complexity: O(L).
func Parse(text string) (Sequence, error) {
	text = strings.TrimSpace(text)
	if len(text) < MinLength {
		return nil, ErrTooShort
	}
	out := make(Sequence, len(text))

	var i int
	for i = 0; i < len(text); i++ {
		switch text[i] {
		case '+', '1':
			out[i] = 1
		case '-', '0':
			out[i] = -1
		default:
			return nil, ErrBadSymbol
		}
	}

	return out, nil
}

// String encodes s with '+' for +1 and '-' for −1.
func (s Sequence) String() string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, v := range s {
		if v > 0 {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('-')
		}
	}

	return sb.String()
}

// ParsePair decodes a seed line. Two layouts are accepted:
//
//	A,B          the plain seed form
//	L,PSL,A,B    a result record; L must match the decoded length
//
// All whitespace inside the line is discarded first.
func ParsePair(line string) (Sequence, Sequence, error) {
	line = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, line)
	parts := strings.Split(line, ",")

	var textA, textB string
	switch {
	case len(parts) == 2:
		textA, textB = parts[0], parts[1]
	case len(parts) >= 4:
		n, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, nil, ErrMalformedPair
		}
		if _, err = strconv.Atoi(parts[1]); err != nil {
			return nil, nil, ErrMalformedPair
		}
		textA, textB = parts[2], parts[3]
		if len(textA) != n {
			return nil, nil, ErrLengthMismatch
		}
	default:
		return nil, nil, ErrMalformedPair
	}

	a, err := Parse(textA)
	if err != nil {
		return nil, nil, err
	}
	b, err := Parse(textB)
	if err != nil {
		return nil, nil, err
	}
	if len(a) != len(b) {
		return nil, nil, ErrLengthMismatch
	}

	return a, b, nil
}

// FormatPair encodes a pair as "A,B".
func FormatPair(a, b Sequence) string {
	return a.String() + "," + b.String()
}
