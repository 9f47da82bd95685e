package sequence

import "math/rand"

// Random returns a uniformly random sequence of length n drawn from rng.
//
// Complexity: O(n).
func Random(n int, rng *rand.Rand) Sequence {
	out := make(Sequence, n)
	Randomize(out, rng)

	return out
}

// Randomize overwrites s in place with uniformly random ±1 elements.
func Randomize(s Sequence, rng *rand.Rand) {
	var i int
	for i = range s {
		if rng.Int63()&1 == 1 {
			s[i] = 1
		} else {
			s[i] = -1
		}
	}
}

// Mirror makes s palindromic in place: s[L-1-i] = s[i] for the first half.
func Mirror(s Sequence) {
	n := len(s)

	var i int
	for i = 0; i < n/2; i++ {
		s[n-1-i] = s[i]
	}
}

// Clone returns an independent copy of s.
func (s Sequence) Clone() Sequence {
	out := make(Sequence, len(s))
	copy(out, s)

	return out
}

// Equal reports element-wise equality.
func (s Sequence) Equal(o Sequence) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}

	return true
}

// Sum returns the element sum (count of +1 minus count of −1).
func (s Sequence) Sum() int {
	var total int
	for _, v := range s {
		total += int(v)
	}

	return total
}

// RotateLeft cyclically shifts s in place so that s'[i] = s[(i+k) mod L].
// Negative and oversized k are reduced modulo L.
//
// Complexity: O(L) time, O(1) extra space (three reversals).
func (s Sequence) RotateLeft(k int) {
	n := len(s)
	if n == 0 {
		return
	}
	k = ((k % n) + n) % n
	if k == 0 {
		return
	}
	reverseRange(s, 0, k-1)
	reverseRange(s, k, n-1)
	reverseRange(s, 0, n-1)
}

// Rotated returns a rotated copy; s is untouched.
func (s Sequence) Rotated(k int) Sequence {
	out := s.Clone()
	out.RotateLeft(k)

	return out
}

// Negated returns a copy with every element negated.
func (s Sequence) Negated() Sequence {
	out := make(Sequence, len(s))
	for i, v := range s {
		out[i] = -v
	}

	return out
}

// Reversed returns a copy in reverse order.
func (s Sequence) Reversed() Sequence {
	out := s.Clone()
	reverseRange(out, 0, len(out)-1)

	return out
}

// reverseRange reverses s[i..j] inclusive.
func reverseRange(s Sequence, i, j int) {
	for i < j {
		s[i], s[j] = s[j], s[i]
		i++
		j--
	}
}

// Autocorrelation returns the periodic autocorrelation rho_S(u) = Σ_i S[i]·S[(i+u) mod L]
// for u = 0..L-1. It is the reference implementation the incremental engine is checked against.
//
// Complexity: O(L²).
func Autocorrelation(s Sequence) []int {
	n := len(s)
	out := make([]int, n)

	var u, i, acc int
	for u = 0; u < n; u++ {
		acc = 0
		for i = 0; i < n; i++ {
			acc += int(s[i]) * int(s[(i+u)%n])
		}
		out[u] = acc
	}

	return out
}
