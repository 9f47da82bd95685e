package objective

// Evaluator maps correlation vectors of a fixed length to Metrics and predicts
// per-lag deltas for the correlation engine.
type Evaluator struct {
	n    int
	half int
	crit Criteria
}

// NewEvaluator validates n and c and returns an Evaluator.
//
// Complexity: O(1).
func NewEvaluator(n int, c Criteria) (*Evaluator, error) {
	if n < 2 {
		return nil, ErrTooShort
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &Evaluator{n: n, half: n / 2, crit: c}, nil
}

// Len returns L.
func (e *Evaluator) Len() int { return e.n }

// Half returns L/2, the last scanned lag.
func (e *Evaluator) Half() int { return e.half }

// Criteria returns the configured criteria.
func (e *Evaluator) Criteria() Criteria { return e.crit }

// Weight returns 2 for u < L/2 and for u = L/2 when L is odd, 1 for u = L/2 when L is even.
func (e *Evaluator) Weight(u int) int {
	if 2*u == e.n {
		return 1
	}

	return 2
}

// LagCost is the unweighted energy contribution of one sidelobe value.
func (e *Evaluator) LagCost(v int) int64 {
	if v < 0 {
		v = -v
	}
	if e.crit.Cost == CostSquaredError {
		d := int64(v - e.crit.CostTarget)
		return d * d
	}

	return int64(v)
}

// violates reports |v| > Threshold.
func (e *Evaluator) violates(v int) bool {
	if v < 0 {
		v = -v
	}

	return v > e.crit.Threshold
}

// LagDelta returns the weighted change in violations and energy when rho[u]
// moves from oldV to newV.
//
// Complexity: O(1).
func (e *Evaluator) LagDelta(u, oldV, newV int) Delta {
	if oldV == newV {
		return Delta{}
	}
	w := e.Weight(u)

	var d Delta
	wasBad, isBad := e.violates(oldV), e.violates(newV)
	switch {
	case wasBad && !isBad:
		d.Violations = -w
	case !wasBad && isBad:
		d.Violations = w
	}
	d.Energy = int64(w) * (e.LagCost(newV) - e.LagCost(oldV))
	d.Peaks = w * (nonzero(newV) - nonzero(oldV))
	d.Irregular = w * (e.irregular(newV) - e.irregular(oldV))

	return d
}

func nonzero(v int) int {
	if v != 0 {
		return 1
	}

	return 0
}

// irregular is 1 for a nonzero lobe whose magnitude differs from PeakMagnitude.
func (e *Evaluator) irregular(v int) int {
	if v < 0 {
		v = -v
	}
	if v != 0 && v != e.crit.PeakMagnitude {
		return 1
	}

	return 0
}

// Measure derives Metrics from rho. rho must have length L; rho[0] is ignored.
//
// Complexity: O(L).
func (e *Evaluator) Measure(rho []int) Metrics {
	m := Metrics{ZeroZone: e.n}

	var (
		u, v, w int
		abs     int
	)
	for u = 1; u <= e.half; u++ {
		v = rho[u]
		w = e.Weight(u)
		m.Energy += int64(w) * e.LagCost(v)
		if v == 0 {
			continue
		}
		if m.ZeroZone == e.n {
			m.ZeroZone = u
		}
		abs = v
		if abs < 0 {
			abs = -abs
		}
		m.PeakCount += w
		if abs > e.crit.Threshold {
			m.Violations += w
		}
		if abs != e.crit.PeakMagnitude {
			m.Irregular += w
		}
		if abs > m.MaxSidelobe {
			m.MaxSidelobe = abs
		}
	}

	return m
}

// Distance is how far m is from the exact peak pattern: irregular lobes plus the
// gap between PeakCount and the required count. A feasible m is strict iff its
// Distance is 0.
func (e *Evaluator) Distance(m Metrics) int {
	gap := m.PeakCount - e.crit.PeakCount
	if gap < 0 {
		gap = -gap
	}

	return m.Irregular + gap
}

// Score returns the ranking key of m.
func (e *Evaluator) Score(m Metrics) Score {
	return Score{Violations: m.Violations, Distance: e.Distance(m), Energy: m.Energy}
}

// ScoreDelta returns the change of Score when d is applied to a pair with metrics m.
//
// Complexity: O(1).
func (e *Evaluator) ScoreDelta(m Metrics, d Delta) Score {
	after := m
	after.PeakCount += d.Peaks
	after.Irregular += d.Irregular

	return Score{
		Violations: d.Violations,
		Distance:   e.Distance(after) - e.Distance(m),
		Energy:     d.Energy,
	}
}

// Feasible reports m.Violations == 0.
func (e *Evaluator) Feasible(m Metrics) bool { return m.Violations == 0 }

// Strict reports the exact peak pattern on top of feasibility.
func (e *Evaluator) Strict(m Metrics) bool {
	return m.Violations == 0 && m.PeakCount == e.crit.PeakCount && m.Irregular == 0
}

// Classify returns the quality class of m.
func (e *Evaluator) Classify(m Metrics) Class {
	switch {
	case e.Strict(m):
		return ClassStrict
	case e.Feasible(m):
		return ClassFeasible
	default:
		return ClassNone
	}
}
