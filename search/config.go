package search

import (
	"fmt"
	"time"

	"github.com/katalvlaran/pacp/objective"
	"github.com/katalvlaran/pacp/repair"
	"github.com/katalvlaran/pacp/sequence"
)

// Config holds every scalar of one run. DefaultConfig derives them from L; the
// With... options override individual values. A Config is immutable once a
// Controller is built from it.
type Config struct {
	Length   int
	Policy   PolicyKind
	Criteria objective.Criteria

	// MinClass is the lowest quality class that is emitted (ClassStrict or ClassFeasible).
	MinClass objective.Class

	// FixA freezes sequence A after the initial pair; restarts only rotate it.
	FixA bool

	// Reversal adds sequence reversal to the dedup equivalence group.
	Reversal bool

	// Seed drives every random stream. 0 means the fixed default seed.
	Seed int64

	// SeedA and SeedB, when both set, replace the random initial pair.
	SeedA, SeedB sequence.Sequence

	// SymmetricStartProb is the chance that a restart mirrors each sequence.
	SymmetricStartProb float64

	// Stagnation ladder.
	SmallKickAfter int
	BigKickAfter   int
	RestartAfter   int
	SmallKickMin   int
	SmallKickMax   int

	// Block mutation.
	BlockMin          int
	BlockMax          int
	BlockFlipProb     float64
	PostSolutionBlock int

	// Greedy and tabu scanning.
	ScanWindow  int
	NeutralProb float64
	TabuMin     int
	TabuMax     int

	// Annealing.
	RotateProb          float64
	MaxFlipsPerProposal int
	InitialTemp         float64
	MinTemp             float64
	CoolingK            int

	// ShapeWeight scales the peak-pattern distance in the annealing cost.
	ShapeWeight int64

	// Seed repair.
	Energies       []int
	RepairAttempts int
	RepairPick     int

	// Budgets. Zero means unbounded.
	MaxIterations   int64
	TimeLimit       time.Duration
	TargetSolutions int

	// Housekeeping.
	YieldEvery     int64
	HeartbeatEvery time.Duration
	VerifyEvery    int64
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}

// DefaultConfig derives the default run parameters for length n:
//
//	SmallKickAfter 20·L, BigKickAfter 200·L, RestartAfter 3000·L
//	BlockMin/Max   max(4, L/8) / max(4, L/3)
//	ScanWindow     max(10, L/2), capped at L by the move generator
//	TabuMin/Max    max(4, L/8) / max(8, L/2)
//	CoolingK       6000 for L ≤ 60, else 10000
//	ShapeWeight    PeakCount·PeakMagnitude², enough for a strict pair to cost
//	               less than a peak-free one under either energy formula
//
// Complexity: O(1).
func DefaultConfig(n int) Config {
	coolingK := 10000
	if n <= 60 {
		coolingK = 6000
	}

	cr := objective.DefaultCriteria()

	return Config{
		Length:   n,
		Policy:   PolicyGreedy,
		Criteria: cr,
		MinClass: objective.ClassStrict,

		SmallKickAfter: 20 * n,
		BigKickAfter:   200 * n,
		RestartAfter:   3000 * n,
		SmallKickMin:   2,
		SmallKickMax:   4,

		BlockMin:          maxInt(4, n/8),
		BlockMax:          maxInt(4, n/3),
		BlockFlipProb:     0.5,
		PostSolutionBlock: maxInt(4, n/3),

		ScanWindow:  maxInt(10, n/2),
		NeutralProb: 0.05,
		TabuMin:     maxInt(4, n/8),
		TabuMax:     maxInt(8, n/2),

		RotateProb:          0.05,
		MaxFlipsPerProposal: maxInt(1, n/20),
		InitialTemp:         5.0,
		MinTemp:             0.001,
		CoolingK:            coolingK,
		ShapeWeight:         int64(cr.PeakCount * cr.PeakMagnitude * cr.PeakMagnitude),

		Energies:       repair.DefaultEnergies(n),
		RepairAttempts: repair.DefaultAttempts,
		RepairPick:     repair.DefaultPick,

		YieldEvery:     4096,
		HeartbeatEvery: 10 * time.Second,
	}
}

// ConfigOption mutates a Config.
type ConfigOption func(*Config)

// WithPolicy selects the acceptance policy. Annealing also switches the cost to
// squared error; apply WithCriteria afterwards to override.
func WithPolicy(p PolicyKind) ConfigOption {
	return func(c *Config) {
		c.Policy = p
		if p == PolicyAnnealing {
			c.Criteria.Cost = objective.CostSquaredError
		} else {
			c.Criteria.Cost = objective.CostAbsSum
		}
	}
}

// WithCriteria replaces the solution criteria and rescales ShapeWeight to them.
func WithCriteria(cr objective.Criteria) ConfigOption {
	return func(c *Config) {
		c.Criteria = cr
		c.ShapeWeight = int64(cr.PeakCount * cr.PeakMagnitude * cr.PeakMagnitude)
	}
}

// WithEmitFeasible lowers the emitted class to ClassFeasible.
func WithEmitFeasible() ConfigOption {
	return func(c *Config) { c.MinClass = objective.ClassFeasible }
}

// WithSeed sets the random seed.
func WithSeed(seed int64) ConfigOption {
	return func(c *Config) { c.Seed = seed }
}

// WithSeedPair starts every worker from (a, b) instead of a random pair.
func WithSeedPair(a, b sequence.Sequence) ConfigOption {
	return func(c *Config) { c.SeedA, c.SeedB = a.Clone(), b.Clone() }
}

// WithFixedA freezes sequence A.
func WithFixedA(fix bool) ConfigOption {
	return func(c *Config) { c.FixA = fix }
}

// WithReversal adds reversal to the dedup equivalence group.
func WithReversal(on bool) ConfigOption {
	return func(c *Config) { c.Reversal = on }
}

// WithSymmetricStart sets the mirrored-restart probability.
func WithSymmetricStart(p float64) ConfigOption {
	return func(c *Config) { c.SymmetricStartProb = p }
}

// WithMaxIterations bounds each worker's iteration count.
func WithMaxIterations(n int64) ConfigOption {
	return func(c *Config) { c.MaxIterations = n }
}

// WithTimeLimit bounds the wall time of a run.
func WithTimeLimit(d time.Duration) ConfigOption {
	return func(c *Config) { c.TimeLimit = d }
}

// WithTargetSolutions stops the run after n emitted classes.
func WithTargetSolutions(n int) ConfigOption {
	return func(c *Config) { c.TargetSolutions = n }
}

// WithVerifyEvery re-checks the incremental state against a full recompute every
// n iterations. Intended for tests and debugging.
func WithVerifyEvery(n int64) ConfigOption {
	return func(c *Config) { c.VerifyEvery = n }
}

// NewConfig applies opts to DefaultConfig(n) and validates the result.
func NewConfig(n int, opts ...ConfigOption) (Config, error) {
	cfg := DefaultConfig(n)
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate checks ranges and orderings. Seed pairs are not checked here: a bad seed
// falls back to a random start at run time.
func (c Config) Validate() error {
	if c.Length < sequence.MinLength {
		return invalid("length %d < %d", c.Length, sequence.MinLength)
	}
	if err := c.Criteria.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Policy > PolicyTabu {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrUnknownPolicy)
	}
	if c.MinClass != objective.ClassStrict && c.MinClass != objective.ClassFeasible {
		return invalid("emitted class must be strict or feasible")
	}
	for name, p := range map[string]float64{
		"symmetric start probability": c.SymmetricStartProb,
		"block flip probability":      c.BlockFlipProb,
		"neutral probability":         c.NeutralProb,
		"rotate probability":          c.RotateProb,
	} {
		if p < 0 || p > 1 {
			return invalid("%s %g outside [0, 1]", name, p)
		}
	}
	if c.SmallKickAfter < 1 || c.BigKickAfter < c.SmallKickAfter || c.RestartAfter < c.BigKickAfter {
		return invalid("stagnation thresholds must satisfy 1 ≤ small ≤ big ≤ restart")
	}
	if c.SmallKickMin < 1 || c.SmallKickMax < c.SmallKickMin {
		return invalid("small kick range [%d, %d]", c.SmallKickMin, c.SmallKickMax)
	}
	if c.BlockMin < 1 || c.BlockMax < c.BlockMin || c.PostSolutionBlock < 1 {
		return invalid("block sizes must be positive and ordered")
	}
	if c.ScanWindow < 1 || c.TabuMin < 1 || c.TabuMax < c.TabuMin {
		return invalid("scan window and tabu tenure must be positive and ordered")
	}
	if c.MaxFlipsPerProposal < 1 || c.CoolingK < 1 || c.MinTemp <= 0 || c.InitialTemp <= c.MinTemp || c.ShapeWeight < 0 {
		return invalid("annealing schedule")
	}
	if c.RepairAttempts < 1 || c.RepairPick < 1 {
		return invalid("repair bounds must be positive")
	}
	if c.MaxIterations < 0 || c.TimeLimit < 0 || c.TargetSolutions < 0 || c.VerifyEvery < 0 || c.YieldEvery < 0 {
		return invalid("budgets must be non-negative")
	}

	return nil
}
