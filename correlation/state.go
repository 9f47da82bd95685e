package correlation

import (
	"github.com/katalvlaran/pacp/objective"
	"github.com/katalvlaran/pacp/sequence"
)

// State is the SequencePairState: two sequences of period L plus their aggregate
// periodic correlation vector.
type State struct {
	n   int
	seq [2]sequence.Sequence
	ext [2][]int8 // seq‖seq‖seq; ext[id][n+p] == seq[id][p]
	rho []int
}

// Snapshot is an exact copy of a State's sequences and correlation vector.
type Snapshot struct {
	seq [2]sequence.Sequence
	rho []int
}

// New copies a and b into a fresh State and computes rho from scratch.
// Both sequences must be valid and of equal length (sequence.ValidatePair).
//
// Complexity: O(L²).
func New(a, b sequence.Sequence) (*State, error) {
	if err := sequence.ValidatePair(a, b); err != nil {
		return nil, err
	}
	n := len(a)
	st := &State{
		n:   n,
		seq: [2]sequence.Sequence{a.Clone(), b.Clone()},
		ext: [2][]int8{make([]int8, 3*n), make([]int8, 3*n)},
		rho: make([]int, n),
	}
	st.syncExt(A)
	st.syncExt(B)
	st.FullRecompute()

	return st, nil
}

// Reset overwrites both sequences and recomputes rho. Used after random reinitialization.
//
// Complexity: O(L²).
func (s *State) Reset(a, b sequence.Sequence) error {
	if len(a) != s.n || len(b) != s.n {
		return ErrLengthMismatch
	}
	if err := sequence.ValidatePair(a, b); err != nil {
		return err
	}
	copy(s.seq[A], a)
	copy(s.seq[B], b)
	s.syncExt(A)
	s.syncExt(B)
	s.FullRecompute()

	return nil
}

// Len returns the period L.
func (s *State) Len() int { return s.n }

// Rho returns the live correlation vector. Callers must not modify it.
func (s *State) Rho() []int { return s.rho }

// Seq returns the live sequence id. Callers must not modify it; use ApplyFlip or Rotate.
func (s *State) Seq(id SeqID) sequence.Sequence { return s.seq[id] }

// Pair returns independent copies of both sequences.
func (s *State) Pair() (sequence.Sequence, sequence.Sequence) {
	return s.seq[A].Clone(), s.seq[B].Clone()
}

// Value returns seq[id][p].
func (s *State) Value(id SeqID, p int) int8 { return s.seq[id][p] }

// Sum returns the element sum of sequence id.
func (s *State) Sum(id SeqID) int { return s.seq[id].Sum() }

// syncExt rebuilds the triple-buffered view of sequence id.
func (s *State) syncExt(id SeqID) {
	e := s.ext[id]
	copy(e[:s.n], s.seq[id])
	copy(e[s.n:2*s.n], s.seq[id])
	copy(e[2*s.n:], s.seq[id])
}

// FullRecompute recomputes rho from scratch.
//
// Complexity: O(L²).
func (s *State) FullRecompute() {
	n := s.n
	ea := s.ext[A][n:]
	eb := s.ext[B][n:]

	var u, i, acc int
	for u = 0; u < n; u++ {
		acc = 0
		for i = 0; i < n; i++ {
			acc += int(ea[i])*int(ea[i+u]) + int(eb[i])*int(eb[i+u])
		}
		s.rho[u] = acc
	}
}

// ApplyFlip negates seq[id][p] and updates every rho[u], u = 1..L−1.
// Contract: 0 ≤ p < L.
//
// Complexity: O(L).
func (s *State) ApplyFlip(id SeqID, p int) {
	n := s.n
	e := s.ext[id]
	c := n + p // centre of the extended view
	v := int(e[c])

	var u int
	for u = 1; u < n; u++ {
		s.rho[u] += -2 * v * (int(e[c+u]) + int(e[c-u]))
	}

	nv := int8(-v)
	s.seq[id][p] = nv
	e[p], e[c], e[c+n] = nv, nv, nv
}

// EvaluateFlip predicts the weighted change in violations and energy of flipping
// seq[id][p] without mutating the state. Only lags 1..L/2 are scanned; the evaluator's
// weights account for the symmetric partners.
//
// Complexity: O(L).
func (s *State) EvaluateFlip(id SeqID, p int, ev *objective.Evaluator) objective.Delta {
	n := s.n
	half := n / 2
	e := s.ext[id]
	c := n + p
	v := int(e[c])

	var (
		d     objective.Delta
		u     int
		delta int
	)
	for u = 1; u <= half; u++ {
		delta = -2 * v * (int(e[c+u]) + int(e[c-u]))
		if delta == 0 {
			continue
		}
		d = d.Add(ev.LagDelta(u, s.rho[u], s.rho[u]+delta))
	}

	return d
}

// Rotate cyclically shifts sequence id left by k positions. The periodic
// autocorrelation of a sequence is shift-invariant, so rho is unchanged.
//
// Complexity: O(L).
func (s *State) Rotate(id SeqID, k int) {
	s.seq[id].RotateLeft(k)
	s.syncExt(id)
}

// SetSeq replaces sequence id and recomputes rho.
//
// Complexity: O(L²).
func (s *State) SetSeq(id SeqID, src sequence.Sequence) error {
	if len(src) != s.n {
		return ErrLengthMismatch
	}
	if err := src.Validate(); err != nil {
		return err
	}
	copy(s.seq[id], src)
	s.syncExt(id)
	s.FullRecompute()

	return nil
}

// Snapshot captures the exact current state.
//
// Complexity: O(L).
func (s *State) Snapshot() Snapshot {
	rho := make([]int, s.n)
	copy(rho, s.rho)

	return Snapshot{
		seq: [2]sequence.Sequence{s.seq[A].Clone(), s.seq[B].Clone()},
		rho: rho,
	}
}

// Restore returns the state to snap bit for bit. snap must come from a State of the same L.
//
// Complexity: O(L).
func (s *State) Restore(snap Snapshot) {
	copy(s.seq[A], snap.seq[A])
	copy(s.seq[B], snap.seq[B])
	copy(s.rho, snap.rho)
	s.syncExt(A)
	s.syncExt(B)
}

// Verify compares rho with a reference recomputation and checks the main-lobe and
// symmetry invariants. A non-nil result is always ErrDiverged.
//
// Complexity: O(L²).
func (s *State) Verify() error {
	ra := sequence.Autocorrelation(s.seq[A])
	rb := sequence.Autocorrelation(s.seq[B])
	if s.rho[0] != 2*s.n {
		return ErrDiverged
	}

	var u int
	for u = 0; u < s.n; u++ {
		if s.rho[u] != ra[u]+rb[u] {
			return ErrDiverged
		}
		if u > 0 && s.rho[u] != s.rho[s.n-u] {
			return ErrDiverged
		}
	}
	for u = 0; u < 3*s.n; u++ {
		if s.ext[A][u] != s.seq[A][u%s.n] || s.ext[B][u] != s.seq[B][u%s.n] {
			return ErrDiverged
		}
	}

	return nil
}
