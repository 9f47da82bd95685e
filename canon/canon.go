package canon

import (
	"errors"
	"strings"

	"github.com/katalvlaran/pacp/sequence"
)

// ErrMalformedKey indicates text that is not "<key>,<key>" over '+'/'-'.
var ErrMalformedKey = errors.New("canon: malformed solution key")

// Canonicalizer computes canonical keys.
type Canonicalizer struct {
	// Reversal adds sequence reversal to the equivalence group.
	Reversal bool
}

// Key returns the canonical representative of s as '+'/'-' text.
//
// Complexity: O(L²) time, O(L) space.
func (c Canonicalizer) Key(s sequence.Sequence) string {
	n := len(s)
	if n == 0 {
		return ""
	}
	text := s.String()
	best := minRotation(text+text, n, "")
	best = minRotation(negateText(text+text), n, best)
	if c.Reversal {
		rev := s.Reversed().String()
		best = minRotation(rev+rev, n, best)
		best = minRotation(negateText(rev+rev), n, best)
	}

	return strings.Clone(best)
}

// minRotation returns the smallest window doubled[k:k+n] that is below best;
// best == "" means no bound yet.
func minRotation(doubled string, n int, best string) string {
	var (
		k    int
		cand string
	)
	for k = 0; k < n; k++ {
		cand = doubled[k : k+n]
		if best == "" || cand < best {
			best = cand
		}
	}

	return best
}

// negateText swaps '+' and '-'.
func negateText(text string) string {
	b := []byte(text)
	for i, ch := range b {
		if ch == '+' {
			b[i] = '-'
		} else {
			b[i] = '+'
		}
	}

	return string(b)
}

// SolutionKey identifies the equivalence class of a pair; First ≤ Second.
type SolutionKey struct {
	First, Second string
}

// Solution returns the SolutionKey of (a, b).
//
// Complexity: O(L²).
func (c Canonicalizer) Solution(a, b sequence.Sequence) SolutionKey {
	ka, kb := c.Key(a), c.Key(b)
	if kb < ka {
		ka, kb = kb, ka
	}

	return SolutionKey{First: ka, Second: kb}
}

// String renders k as "<First>,<Second>".
func (k SolutionKey) String() string {
	return k.First + "," + k.Second
}

// ParseSolutionKey decodes the String form. The two halves are re-sorted, so
// "b,a" and "a,b" decode to the same key.
func ParseSolutionKey(text string) (SolutionKey, error) {
	first, second, ok := strings.Cut(strings.TrimSpace(text), ",")
	if !ok || first == "" || len(first) != len(second) {
		return SolutionKey{}, ErrMalformedKey
	}
	if strings.Trim(first, "+-") != "" || strings.Trim(second, "+-") != "" {
		return SolutionKey{}, ErrMalformedKey
	}
	if second < first {
		first, second = second, first
	}

	return SolutionKey{First: first, Second: second}, nil
}
