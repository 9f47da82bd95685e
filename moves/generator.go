package moves

import (
	"math/rand"

	"github.com/katalvlaran/pacp/correlation"
	"github.com/katalvlaran/pacp/objective"
)

// Options configures a Generator.
type Options struct {
	// FixA freezes sequence A: every proposal targets B.
	FixA bool

	// BlockFlipProb is the per-position flip probability inside a block move.
	BlockFlipProb float64
}

// DefaultOptions returns FixA=false, BlockFlipProb=0.5.
func DefaultOptions() Options {
	return Options{BlockFlipProb: 0.5}
}

// Option mutates Options.
type Option func(*Options)

// WithFixedA freezes sequence A.
func WithFixedA(fix bool) Option {
	return func(o *Options) { o.FixA = fix }
}

// WithBlockFlipProb sets the per-position flip probability of block moves.
func WithBlockFlipProb(p float64) Option {
	return func(o *Options) { o.BlockFlipProb = p }
}

// Generator proposes moves for pairs of length L using its own random stream.
type Generator struct {
	n    int
	rng  *rand.Rand
	opts Options
}

// NewGenerator validates its inputs and returns a Generator.
func NewGenerator(n int, rng *rand.Rand, opts ...Option) (*Generator, error) {
	if n < 2 {
		return nil, ErrTooShort
	}
	if rng == nil {
		return nil, ErrNilRNG
	}
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if o.BlockFlipProb < 0 || o.BlockFlipProb > 1 {
		return nil, ErrBadProbability
	}

	return &Generator{n: n, rng: rng, opts: o}, nil
}

// Len returns L.
func (g *Generator) Len() int { return g.n }

// FixedA reports whether sequence A is frozen.
func (g *Generator) FixedA() bool { return g.opts.FixA }

// pickSeq returns B when A is frozen, otherwise A or B uniformly.
func (g *Generator) pickSeq() correlation.SeqID {
	if g.opts.FixA || g.rng.Int63()&1 == 1 {
		return correlation.B
	}

	return correlation.A
}

// RandomFlip proposes a uniformly random single flip.
func (g *Generator) RandomFlip() Move {
	return Move{Kind: KindFlip, Seq: g.pickSeq(), Pos: g.rng.Intn(g.n)}
}

// RandomRotation proposes a rotation of one sequence by 1..L−1.
func (g *Generator) RandomRotation() Move {
	return Move{Kind: KindRotate, Seq: g.pickSeq(), Shift: 1 + g.rng.Intn(g.n-1)}
}

// RandomBlock proposes a block of the given size at a random start. size is clamped to [1, L].
func (g *Generator) RandomBlock(size int) Move {
	if size < 1 {
		size = 1
	}
	if size > g.n {
		size = g.n
	}

	return Move{Kind: KindBlock, Seq: g.pickSeq(), Pos: g.rng.Intn(g.n), Length: size}
}

// RandomBlockIn proposes a block whose size is drawn uniformly from [lo, hi].
func (g *Generator) RandomBlockIn(lo, hi int) Move {
	if hi < lo {
		hi = lo
	}

	return g.RandomBlock(lo + g.rng.Intn(hi-lo+1))
}

// Scatter proposes k random flips spread over the permitted sequences.
func (g *Generator) Scatter(k int) Move {
	if k < 1 {
		k = 1
	}

	return Move{Kind: KindScatter, Length: k}
}

// Ranker maps a predicted Delta to the key BestFlip minimizes.
type Ranker func(objective.Delta) objective.Score

// ByEnergy ranks by violations, then energy.
func ByEnergy(d objective.Delta) objective.Score {
	return objective.Score{Violations: d.Violations, Energy: d.Energy}
}

// BestFlip scans window consecutive positions (wrapping, random start) over the
// permitted sequences and returns the flip whose predicted Delta has the smallest
// rank; a nil rank means ByEnergy. Positions in tabu are skipped; tabu may be nil.
// The scan stops early on the first candidate that removes at least one violation.
// ok is false when every candidate was tabu.
//
// Complexity: O(window·L).
func (g *Generator) BestFlip(st *correlation.State, ev *objective.Evaluator, window int, tabu *Tabu, rank Ranker) (m Move, d objective.Delta, ok bool) {
	if window < 1 || window > g.n {
		window = g.n
	}
	if rank == nil {
		rank = ByEnergy
	}
	first := correlation.A
	if g.opts.FixA {
		first = correlation.B
	}
	start := g.rng.Intn(g.n)

	var (
		k, p     int
		id       correlation.SeqID
		cand     objective.Delta
		best, sc objective.Score
	)
	for k = 0; k < window; k++ {
		p = start + k
		if p >= g.n {
			p -= g.n
		}
		for id = first; id <= correlation.B; id++ {
			if tabu != nil && tabu.Contains(id, p) {
				continue
			}
			cand = st.EvaluateFlip(id, p, ev)
			sc = rank(cand)
			if !ok || sc.Less(best) {
				m, d, best, ok = Move{Kind: KindFlip, Seq: id, Pos: p}, cand, sc, true
			}
		}
		if ok && d.Violations < 0 {
			return m, d, ok
		}
	}

	return m, d, ok
}

// Apply commits m to st and records the flips it performed.
//
// Complexity: O(L) per committed flip; rotations are O(L).
func (g *Generator) Apply(st *correlation.State, m Move) Applied {
	ap := Applied{Move: m}

	switch m.Kind {
	case KindFlip:
		st.ApplyFlip(m.Seq, m.Pos)
		ap.Flips = append(ap.Flips, Flip{Seq: m.Seq, Pos: m.Pos})

	case KindRotate:
		st.Rotate(m.Seq, m.Shift)

	case KindBlock:
		var i, p int
		for i = 0; i < m.Length; i++ {
			p = (m.Pos + i) % g.n
			if g.opts.BlockFlipProb < 1 && g.rng.Float64() >= g.opts.BlockFlipProb {
				continue
			}
			st.ApplyFlip(m.Seq, p)
			ap.Flips = append(ap.Flips, Flip{Seq: m.Seq, Pos: p})
		}
		if len(ap.Flips) == 0 {
			// Every block flips at least one position.
			p = m.Pos
			st.ApplyFlip(m.Seq, p)
			ap.Flips = append(ap.Flips, Flip{Seq: m.Seq, Pos: p})
		}

	case KindScatter:
		var (
			i  int
			id correlation.SeqID
			p  int
		)
		for i = 0; i < m.Length; i++ {
			id, p = g.pickSeq(), g.rng.Intn(g.n)
			st.ApplyFlip(id, p)
			ap.Flips = append(ap.Flips, Flip{Seq: id, Pos: p})
		}
	}

	return ap
}

// Undo reverts ap on st. The result is bit-identical to the state before Apply.
//
// Complexity: O(L) per recorded flip.
func Undo(st *correlation.State, ap Applied) {
	if ap.Move.Kind == KindRotate {
		st.Rotate(ap.Move.Seq, st.Len()-ap.Move.Shift)
		return
	}
	var i int
	for i = len(ap.Flips) - 1; i >= 0; i-- {
		st.ApplyFlip(ap.Flips[i].Seq, ap.Flips[i].Pos)
	}
}
