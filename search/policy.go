package search

import (
	"math"
	"math/rand"

	"github.com/katalvlaran/pacp/correlation"
	"github.com/katalvlaran/pacp/moves"
	"github.com/katalvlaran/pacp/objective"
)

// Outcome is the result of one policy step.
type Outcome uint8

const (
	// Rejected: the state is exactly as before the step.
	Rejected Outcome = iota

	// Accepted: the state changed without lowering its rank.
	Accepted

	// Improved: the state changed and its rank decreased lexicographically.
	Improved
)

// Env is what a Policy may read and mutate during a step.
type Env struct {
	Config  *Config
	State   *correlation.State
	Eval    *objective.Evaluator
	Moves   *moves.Generator
	Rand    *rand.Rand
	Metrics objective.Metrics // must match State after every step

	shape moves.Ranker
}

// Rank returns the ranking key of a predicted change. While violations remain it is
// (violations, energy); on a feasible pair the distance to the exact peak pattern
// is ranked before energy, since the lowest-energy feasible pairs usually have no
// peaks at all.
func (e *Env) Rank(d objective.Delta) objective.Score {
	if e.Metrics.Violations > 0 {
		return moves.ByEnergy(d)
	}

	return e.Eval.ScoreDelta(e.Metrics, d)
}

// ranker returns Rank as a cached moves.Ranker.
func (e *Env) ranker() moves.Ranker {
	if e.shape == nil {
		e.shape = e.Rank
	}

	return e.shape
}

// Commit applies m and refreshes Metrics.
//
// Complexity: O(L) per committed flip.
func (e *Env) Commit(m moves.Move) moves.Applied {
	ap := e.Moves.Apply(e.State, m)
	e.Refresh()

	return ap
}

// Refresh recomputes Metrics from the live correlation vector.
//
// Complexity: O(L).
func (e *Env) Refresh() {
	e.Metrics = e.Eval.Measure(e.State.Rho())
}

// Policy decides which moves to propose and which to keep.
type Policy interface {
	// Name identifies the policy in logs and metrics.
	Name() string

	// Step proposes and accepts or reverts one move. A Rejected step must leave
	// Env.State bit-identical to its input.
	Step(env *Env) Outcome

	// Kicked is called after the controller perturbed the state.
	Kicked()

	// Restarted is called after the controller reinitialized the state.
	Restarted()
}

// NewPolicy builds the policy selected by cfg.Policy.
func NewPolicy(cfg Config) (Policy, error) {
	switch cfg.Policy {
	case PolicyGreedy:
		return Greedy{}, nil
	case PolicyAnnealing:
		return NewAnnealing(cfg), nil
	case PolicyTabu:
		return NewTabu(cfg), nil
	default:
		return nil, ErrUnknownPolicy
	}
}

// classify maps the rank change of an accepted step to Improved or Accepted.
func classify(s objective.Score) Outcome {
	if s.Less(objective.Score{}) {
		return Improved
	}

	return Accepted
}

// Greedy takes the best flip of a scan window when it does not raise the rank; a
// worsening flip that adds no violation is taken with probability NeutralProb.
type Greedy struct{}

// Name implements Policy.
func (Greedy) Name() string { return PolicyGreedy.String() }

// Step implements Policy.
//
// Complexity: O(ScanWindow·L).
func (Greedy) Step(env *Env) Outcome {
	m, d, ok := env.Moves.BestFlip(env.State, env.Eval, env.Config.ScanWindow, nil, env.ranker())
	if !ok {
		return Rejected
	}
	s := env.Rank(d)
	switch {
	case s.Violations < 0:
	case s.Violations == 0 && (s.Distance < 0 || s.Distance == 0 && s.Energy <= 0):
	case s.Violations == 0 && env.Rand.Float64() < env.Config.NeutralProb:
	default:
		return Rejected
	}
	env.Commit(m)

	return classify(s)
}

// Kicked implements Policy.
func (Greedy) Kicked() {}

// Restarted implements Policy.
func (Greedy) Restarted() {}

// Annealing is simulated annealing on cost = energy + ShapeWeight·distance, where
// distance is objective.Evaluator.Distance.
//
// Proposals: with RotateProb a rotation (always accepted, Δ = 0); otherwise one
// random flip, or up to MaxFlipsPerProposal flips while the temperature is above 1.
// A proposal with Δcost > 0 is kept with probability exp(−(Δcost/L)/T).
// T is multiplied by α = 1 − 1/(CoolingK·L) each step and reset to InitialTemp
// when it falls below MinTemp or after a kick or restart.
type Annealing struct {
	temp    float64
	alpha   float64
	initial float64
	min     float64
	weight  int64
	applied []moves.Applied
}

// NewAnnealing returns an annealing policy at its initial temperature.
func NewAnnealing(cfg Config) *Annealing {
	return &Annealing{
		temp:    cfg.InitialTemp,
		alpha:   1 - 1/float64(cfg.CoolingK*cfg.Length),
		initial: cfg.InitialTemp,
		min:     cfg.MinTemp,
		weight:  cfg.ShapeWeight,
	}
}

// Name implements Policy.
func (a *Annealing) Name() string { return PolicyAnnealing.String() }

// Temperature returns the current temperature.
func (a *Annealing) Temperature() float64 { return a.temp }

// Step implements Policy.
//
// Complexity: O(k·L) for a k-flip proposal.
func (a *Annealing) Step(env *Env) Outcome {
	if a.temp < a.min {
		a.temp = a.initial
	}
	defer func() { a.temp *= a.alpha }()

	cfg := env.Config
	if env.Rand.Float64() < cfg.RotateProb {
		env.Moves.Apply(env.State, env.Moves.RandomRotation())
		return Accepted
	}

	k := 1
	if a.temp > 1 && cfg.MaxFlipsPerProposal > 1 {
		k = 1 + env.Rand.Intn(cfg.MaxFlipsPerProposal)
	}

	var (
		total objective.Delta
		m     moves.Move
		i     int
	)
	a.applied = a.applied[:0]
	for i = 0; i < k; i++ {
		m = env.Moves.RandomFlip()
		total = total.Add(env.State.EvaluateFlip(m.Seq, m.Pos, env.Eval))
		a.applied = append(a.applied, env.Moves.Apply(env.State, m))
	}

	s := env.Eval.ScoreDelta(env.Metrics, total)
	if cost := s.Energy + a.weight*int64(s.Distance); cost > 0 {
		p := math.Exp(-float64(cost) / float64(cfg.Length) / a.temp)
		if env.Rand.Float64() >= p {
			for i = len(a.applied) - 1; i >= 0; i-- {
				moves.Undo(env.State, a.applied[i])
			}
			return Rejected
		}
	}
	env.Refresh()

	return classify(s)
}

// Kicked implements Policy: reheat.
func (a *Annealing) Kicked() { a.temp = a.initial }

// Restarted implements Policy: reheat.
func (a *Annealing) Restarted() { a.temp = a.initial }

// Tabu is greedy scanning, with the same ranking, that skips recently flipped
// positions. It accepts any flip that adds no violation, shrinks the tenure on
// improvement and grows it otherwise.
type Tabu struct {
	list *moves.Tabu
}

// NewTabu returns a tabu policy with tenure in [TabuMin, TabuMax].
func NewTabu(cfg Config) *Tabu {
	return &Tabu{list: moves.NewTabu(cfg.TabuMin, cfg.TabuMax)}
}

// Name implements Policy.
func (t *Tabu) Name() string { return PolicyTabu.String() }

// Tenure returns the current tabu window size.
func (t *Tabu) Tenure() int { return t.list.Size() }

// Step implements Policy.
//
// Complexity: O(ScanWindow·(L + tenure)).
func (t *Tabu) Step(env *Env) Outcome {
	m, d, ok := env.Moves.BestFlip(env.State, env.Eval, env.Config.ScanWindow, t.list, env.ranker())
	if !ok {
		t.list.Shrink()
		return Rejected
	}
	if d.Violations > 0 {
		t.list.Grow()
		return Rejected
	}
	s := env.Rank(d)
	env.Commit(m)
	t.list.Add(m.Seq, m.Pos)

	out := classify(s)
	if out == Improved {
		t.list.Shrink()
	} else {
		t.list.Grow()
	}

	return out
}

// Kicked implements Policy.
func (t *Tabu) Kicked() {}

// Restarted implements Policy: forget every entry.
func (t *Tabu) Restarted() { t.list.Clear() }
