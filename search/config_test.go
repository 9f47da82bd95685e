package search_test

import (
	"testing"
	"time"

	"github.com/katalvlaran/pacp/objective"
	"github.com/katalvlaran/pacp/search"
	"github.com/katalvlaran/pacp/sequence"
	"github.com/stretchr/testify/require"
)

// TestDefaultConfig_Formulas checks the L-derived parameters at a small and a large length.
func TestDefaultConfig_Formulas(t *testing.T) {
	c := search.DefaultConfig(64)
	require.NoError(t, c.Validate())
	require.Equal(t, 20*64, c.SmallKickAfter)
	require.Equal(t, 200*64, c.BigKickAfter)
	require.Equal(t, 3000*64, c.RestartAfter)
	require.Equal(t, 8, c.BlockMin)
	require.Equal(t, 21, c.BlockMax)
	require.Equal(t, 32, c.ScanWindow)
	require.Equal(t, 8, c.TabuMin)
	require.Equal(t, 32, c.TabuMax)
	require.Equal(t, 10000, c.CoolingK)
	require.Equal(t, 3, c.MaxFlipsPerProposal)
	require.Equal(t, int64(32), c.ShapeWeight)
	require.Equal(t, objective.ClassStrict, c.MinClass)
	require.Equal(t, []int{128, 136, 120}, c.Energies)

	small := search.DefaultConfig(4)
	require.NoError(t, small.Validate())
	require.Equal(t, 4, small.BlockMin)
	require.Equal(t, 10, small.ScanWindow)
	require.Equal(t, 6000, small.CoolingK)
	require.Equal(t, 1, small.MaxFlipsPerProposal)
}

// TestNewConfig_Options applies every option and checks the effect.
func TestNewConfig_Options(t *testing.T) {
	a, err := sequence.Parse("++--")
	require.NoError(t, err)
	b, err := sequence.Parse("+-+-")
	require.NoError(t, err)

	c, err := search.NewConfig(4,
		search.WithPolicy(search.PolicyAnnealing),
		search.WithEmitFeasible(),
		search.WithSeed(42),
		search.WithSeedPair(a, b),
		search.WithFixedA(true),
		search.WithReversal(true),
		search.WithSymmetricStart(0.25),
		search.WithMaxIterations(1000),
		search.WithTimeLimit(time.Second),
		search.WithTargetSolutions(3),
		search.WithVerifyEvery(10),
	)
	require.NoError(t, err)
	require.Equal(t, search.PolicyAnnealing, c.Policy)
	require.Equal(t, objective.CostSquaredError, c.Criteria.Cost)
	require.Equal(t, objective.ClassFeasible, c.MinClass)
	require.Equal(t, int64(42), c.Seed)
	require.True(t, c.SeedA.Equal(a))
	require.True(t, c.SeedB.Equal(b))
	require.True(t, c.FixA)
	require.True(t, c.Reversal)
	require.Equal(t, 0.25, c.SymmetricStartProb)
	require.Equal(t, int64(1000), c.MaxIterations)
	require.Equal(t, time.Second, c.TimeLimit)
	require.Equal(t, 3, c.TargetSolutions)
	require.Equal(t, int64(10), c.VerifyEvery)

	// The seed pair is copied.
	a[0] = -a[0]
	require.False(t, c.SeedA.Equal(a))

	c, err = search.NewConfig(4, search.WithPolicy(search.PolicyTabu))
	require.NoError(t, err)
	require.Equal(t, objective.CostAbsSum, c.Criteria.Cost)

	cr := objective.DefaultCriteria()
	cr.PeakMagnitude = 2
	cr.Threshold = 2
	c, err = search.NewConfig(5, search.WithCriteria(cr))
	require.NoError(t, err)
	require.Equal(t, int64(8), c.ShapeWeight)
}

// TestValidate_Rejects covers each validation branch.
func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(*search.Config){
		"length":      func(c *search.Config) { c.Length = 1 },
		"criteria":    func(c *search.Config) { c.Criteria.Threshold = -1 },
		"policy":      func(c *search.Config) { c.Policy = 9 },
		"class":       func(c *search.Config) { c.MinClass = objective.ClassNone },
		"probability": func(c *search.Config) { c.NeutralProb = 1.5 },
		"ladder":      func(c *search.Config) { c.RestartAfter = c.BigKickAfter - 1 },
		"small kick":  func(c *search.Config) { c.SmallKickMax = 0 },
		"block":       func(c *search.Config) { c.BlockMax = c.BlockMin - 1 },
		"tabu":        func(c *search.Config) { c.TabuMax = c.TabuMin - 1 },
		"anneal":      func(c *search.Config) { c.MinTemp = 0 },
		"shape":       func(c *search.Config) { c.ShapeWeight = -1 },
		"repair":      func(c *search.Config) { c.RepairPick = 0 },
		"budget":      func(c *search.Config) { c.MaxIterations = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := search.DefaultConfig(16)
			mutate(&c)
			require.ErrorIs(t, c.Validate(), search.ErrInvalidConfig)
		})
	}

	_, err := search.NewConfig(16, search.WithSymmetricStart(-0.1))
	require.ErrorIs(t, err, search.ErrInvalidConfig)
}

// TestParsePolicy accepts names, aliases and the empty default.
func TestParsePolicy(t *testing.T) {
	for name, want := range map[string]search.PolicyKind{
		"greedy":    search.PolicyGreedy,
		"":          search.PolicyGreedy,
		"anneal":    search.PolicyAnnealing,
		"Annealing": search.PolicyAnnealing,
		" sa ":      search.PolicyAnnealing,
		"TABU":      search.PolicyTabu,
	} {
		got, err := search.ParsePolicy(name)
		require.NoError(t, err, name)
		require.Equal(t, want, got, name)
	}
	_, err := search.ParsePolicy("genetic")
	require.ErrorIs(t, err, search.ErrUnknownPolicy)

	for _, p := range []search.PolicyKind{search.PolicyGreedy, search.PolicyAnnealing, search.PolicyTabu} {
		back, err := search.ParsePolicy(p.String())
		require.NoError(t, err)
		require.Equal(t, p, back)
	}
	require.Equal(t, "unknown", search.PolicyKind(7).String())
	require.Equal(t, "shaping", search.PhaseShaping.String())
}

// TestMerge sums counters, keeps the lowest violation count and the longest wall time.
func TestMerge(t *testing.T) {
	total := search.Merge([]search.Summary{
		{Worker: 0, Iterations: 10, Restarts: 1, Strict: 2, Duplicates: 1, BestViolations: 4, Elapsed: time.Second},
		{Worker: 1, Iterations: 5, SmallKicks: 3, Feasible: 1, BestViolations: 0, Elapsed: 2 * time.Second},
	})
	require.Equal(t, -1, total.Worker)
	require.Equal(t, int64(15), total.Iterations)
	require.Equal(t, 1, total.Restarts)
	require.Equal(t, 3, total.SmallKicks)
	require.Equal(t, 3, total.Emitted())
	require.Equal(t, 1, total.Duplicates)
	require.Equal(t, 0, total.BestViolations)
	require.Equal(t, 2*time.Second, total.Elapsed)
}
