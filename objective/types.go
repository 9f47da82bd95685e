package objective

import "errors"

// Sentinel errors.
var (
	// ErrTooShort indicates a length below 2.
	ErrTooShort = errors.New("objective: length must be at least 2")

	// ErrBadCriteria indicates a negative threshold, peak count, magnitude or target,
	// or an unknown cost kind.
	ErrBadCriteria = errors.New("objective: invalid criteria")
)

// CostKind selects the scalar energy formula.
type CostKind uint8

const (
	// CostAbsSum is Σ|rho[u]|, used by shaping heuristics.
	CostAbsSum CostKind = iota

	// CostSquaredError is Σ(|rho[u]| − target)², used by simulated annealing.
	CostSquaredError
)

// String implements fmt.Stringer.
func (k CostKind) String() string {
	switch k {
	case CostAbsSum:
		return "abs-sum"
	case CostSquaredError:
		return "squared-error"
	default:
		return "unknown"
	}
}

// Criteria holds the problem-specific constants. Threshold 4 with two peaks of
// magnitude 4 describes quasi-complementary targets; threshold 2 describes strict
// odd-length optimal targets.
type Criteria struct {
	// Threshold: |rho[u]| > Threshold is a violation.
	Threshold int `json:"threshold" yaml:"threshold"`

	// PeakCount is the required weighted number of nonzero sidelobes of a strict solution.
	PeakCount int `json:"peak_count" yaml:"peak_count"`

	// PeakMagnitude is the exact magnitude every nonzero sidelobe of a strict solution must have.
	PeakMagnitude int `json:"peak_magnitude" yaml:"peak_magnitude"`

	// Cost selects the energy formula.
	Cost CostKind `json:"cost" yaml:"cost"`

	// CostTarget is the desired sidelobe magnitude of CostSquaredError.
	CostTarget int `json:"cost_target" yaml:"cost_target"`
}

// DefaultCriteria returns the strict PQCP profile: threshold 4, two peaks of magnitude 4,
// abs-sum energy.
func DefaultCriteria() Criteria {
	return Criteria{
		Threshold:     4,
		PeakCount:     2,
		PeakMagnitude: 4,
		Cost:          CostAbsSum,
		CostTarget:    0,
	}
}

// Validate checks the criteria for internal consistency.
func (c Criteria) Validate() error {
	if c.Threshold < 0 || c.PeakCount < 0 || c.PeakMagnitude < 0 || c.CostTarget < 0 {
		return ErrBadCriteria
	}
	if c.Cost != CostAbsSum && c.Cost != CostSquaredError {
		return ErrBadCriteria
	}

	return nil
}

// Class is the quality class of a pair.
type Class uint8

const (
	// ClassNone: at least one violation.
	ClassNone Class = iota

	// ClassFeasible: no violation, but the peak pattern is not exact.
	ClassFeasible

	// ClassStrict: no violation and the exact peak pattern.
	ClassStrict
)

// String implements fmt.Stringer.
func (c Class) String() string {
	switch c {
	case ClassFeasible:
		return "feasible"
	case ClassStrict:
		return "strict"
	default:
		return "none"
	}
}

// Metrics are the derived scalars of a correlation vector.
type Metrics struct {
	Violations  int   // weighted count of |rho[u]| > Threshold
	PeakCount   int   // weighted count of rho[u] ≠ 0
	Irregular   int   // weighted count of nonzero sidelobes whose magnitude differs from PeakMagnitude
	MaxSidelobe int   // max |rho[u]|, u ≠ 0
	Energy      int64 // weighted cost per Criteria.Cost
	ZeroZone    int   // first u > 0 with rho[u] ≠ 0, or L when every sidelobe vanishes
}

// Delta is the predicted change of a move.
type Delta struct {
	Violations int
	Energy     int64
	Peaks      int // weighted change of PeakCount
	Irregular  int // weighted change of Irregular
}

// Less orders deltas lexicographically: fewer violations first, then lower energy.
func (d Delta) Less(o Delta) bool {
	if d.Violations != o.Violations {
		return d.Violations < o.Violations
	}

	return d.Energy < o.Energy
}

// Add returns the component-wise sum.
func (d Delta) Add(o Delta) Delta {
	return Delta{
		Violations: d.Violations + o.Violations,
		Energy:     d.Energy + o.Energy,
		Peaks:      d.Peaks + o.Peaks,
		Irregular:  d.Irregular + o.Irregular,
	}
}

// Score ranks pairs, or changes of pairs, during shaping: violations first, then
// the distance to the exact peak pattern, then energy.
type Score struct {
	Violations int
	Distance   int
	Energy     int64
}

// Less orders scores lexicographically.
func (s Score) Less(o Score) bool {
	if s.Violations != o.Violations {
		return s.Violations < o.Violations
	}
	if s.Distance != o.Distance {
		return s.Distance < o.Distance
	}

	return s.Energy < o.Energy
}
