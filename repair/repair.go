package repair

import (
	"errors"
	"math/rand"
	"sort"

	"github.com/katalvlaran/pacp/sequence"
)

// Sentinel errors.
var (
	// ErrNilRNG indicates a nil random source.
	ErrNilRNG = errors.New("repair: nil random source")

	// ErrNoTarget indicates an empty target set; the pair was left untouched.
	ErrNoTarget = errors.New("repair: no sum target for the requested energies")
)

const (
	// DefaultAttempts bounds the flip loop of Converge.
	DefaultAttempts = 5000

	// DefaultPick is how many of the closest targets Repair chooses from.
	DefaultPick = 3
)

// Target is one admissible pair of element sums.
type Target struct {
	A, B int
}

// Options configures Repair.
type Options struct {
	Energies []int // admissible t_A² + t_B²; nil ⇒ DefaultEnergies(L)
	Pick     int   // random choice among the Pick closest targets
	Attempts int   // Converge bound per sequence
	FixA     bool  // only targets with t_A == sum(A); A is never modified
}

// DefaultOptions returns the PQCP defaults.
func DefaultOptions() Options {
	return Options{Pick: DefaultPick, Attempts: DefaultAttempts}
}

// DefaultEnergies returns {2L, 2L+8, 2L−8}, dropping negative values.
func DefaultEnergies(n int) []int {
	out := []int{2 * n, 2*n + 8}
	if 2*n-8 >= 0 {
		out = append(out, 2*n-8)
	}

	return out
}

// isqrt returns ⌊√x⌋ for x ≥ 0.
func isqrt(x int) int {
	r := 0
	for (r+1)*(r+1) <= x {
		r++
	}

	return r
}

// sameParity reports t ≡ n (mod 2).
func sameParity(t, n int) bool {
	return (t-n)&1 == 0
}

// Targets lists every (t_A, t_B) with t_A² + t_B² ∈ energies, both sums of the
// parity of n and |t| ≤ n, ordered by (A, B) and free of duplicates.
//
// Complexity: O(|energies|·√E).
func Targets(n int, energies []int) []Target {
	seen := make(map[Target]struct{})
	var out []Target

	var ta, tb, r, e int
	for _, e = range energies {
		if e < 0 {
			continue
		}
		r = isqrt(e)
		for ta = -r; ta <= r; ta++ {
			tb = isqrt(e - ta*ta)
			if ta*ta+tb*tb != e {
				continue
			}
			if !sameParity(ta, n) || !sameParity(tb, n) || ta > n || ta < -n || tb > n {
				continue
			}
			for _, t := range []Target{{ta, tb}, {ta, -tb}} {
				if _, dup := seen[t]; dup {
					continue
				}
				seen[t] = struct{}{}
				out = append(out, t)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})

	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}

// Nearest orders targets by Manhattan distance from (sa, sb), ties keeping the
// Targets order, and returns the reordered slice.
func Nearest(targets []Target, sa, sb int) []Target {
	sort.SliceStable(targets, func(i, j int) bool {
		return abs(targets[i].A-sa)+abs(targets[i].B-sb) < abs(targets[j].A-sa)+abs(targets[j].B-sb)
	})

	return targets
}

// Repair chooses a target near the current sums of a and b and converges both
// sequences to it in place. A pair whose sums already form a target is left as is. It returns the chosen target, or ErrNoTarget when the
// energy set admits no target (a and b untouched).
//
// Complexity: O(√E + Attempts·L).
func Repair(a, b sequence.Sequence, rng *rand.Rand, opts Options) (Target, error) {
	if rng == nil {
		return Target{}, ErrNilRNG
	}
	n := len(a)
	energies := opts.Energies
	if energies == nil {
		energies = DefaultEnergies(n)
	}
	if opts.Pick < 1 {
		opts.Pick = 1
	}
	if opts.Attempts < 1 {
		opts.Attempts = DefaultAttempts
	}

	sa, sb := a.Sum(), b.Sum()
	candidates := Targets(n, energies)
	if opts.FixA {
		kept := candidates[:0]
		for _, t := range candidates {
			if t.A == sa {
				kept = append(kept, t)
			}
		}
		candidates = kept
	}
	if len(candidates) == 0 {
		return Target{}, ErrNoTarget
	}
	for _, t := range candidates {
		if t.A == sa && t.B == sb {
			return t, nil
		}
	}

	candidates = Nearest(candidates, sa, sb)
	pick := 0
	if len(candidates) > 1 {
		k := opts.Pick
		if k > len(candidates) {
			k = len(candidates)
		}
		pick = rng.Intn(k)
	}
	t := candidates[pick]

	if !opts.FixA {
		Converge(a, t.A, rng, opts.Attempts)
	}
	Converge(b, t.B, rng, opts.Attempts)

	return t, nil
}

// Converge flips elements of s one at a time, each flip moving the sum two steps
// toward target, until sum(s) == target or maxAttempts flips were tried. Each step
// starts at a random index and walks forward to the first element of the wrong
// sign. It reports whether the target was reached.
//
// Complexity: O(maxAttempts·L) worst case.
func Converge(s sequence.Sequence, target int, rng *rand.Rand, maxAttempts int) bool {
	n := len(s)
	if n == 0 {
		return target == 0
	}
	sum := s.Sum()

	var (
		want   int8
		idx, k int
	)
	for ; sum != target && maxAttempts > 0; maxAttempts-- {
		want = 1 // flip a +1 to lower the sum
		if target > sum {
			want = -1
		}
		idx = rng.Intn(n)
		for k = 0; k < n && s[idx] != want; k++ {
			idx++
			if idx == n {
				idx = 0
			}
		}
		if s[idx] != want {
			return false
		}
		s[idx] = -want
		sum -= 2 * int(want)
	}

	return sum == target
}
