package search_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/pacp/correlation"
	"github.com/katalvlaran/pacp/moves"
	"github.com/katalvlaran/pacp/objective"
	"github.com/katalvlaran/pacp/search"
	"github.com/katalvlaran/pacp/sequence"
	"github.com/stretchr/testify/require"
)

func newEnv(t *testing.T, cfg *search.Config, seed int64) *search.Env {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	st, err := correlation.New(sequence.Random(cfg.Length, rng), sequence.Random(cfg.Length, rng))
	require.NoError(t, err)
	ev, err := objective.NewEvaluator(cfg.Length, cfg.Criteria)
	require.NoError(t, err)
	gen, err := moves.NewGenerator(cfg.Length, rng, moves.WithFixedA(cfg.FixA))
	require.NoError(t, err)

	env := &search.Env{Config: cfg, State: st, Eval: ev, Moves: gen, Rand: rng}
	env.Refresh()

	return env
}

// TestPolicies_RejectedIsExact: a rejected step leaves the pair and rho untouched
// and Metrics always match the live state.
func TestPolicies_RejectedIsExact(t *testing.T) {
	for _, kind := range []search.PolicyKind{search.PolicyGreedy, search.PolicyAnnealing, search.PolicyTabu} {
		t.Run(kind.String(), func(t *testing.T) {
			cfg, err := search.NewConfig(19, search.WithPolicy(kind))
			require.NoError(t, err)
			env := newEnv(t, &cfg, 5)
			pol, err := search.NewPolicy(cfg)
			require.NoError(t, err)
			require.Equal(t, kind.String(), pol.Name())

			var rejected int
			for i := 0; i < 3000; i++ {
				a, b := env.State.Pair()
				rho := append([]int(nil), env.State.Rho()...)
				before := env.Metrics

				out := pol.Step(env)
				require.Equal(t, env.Eval.Measure(env.State.Rho()), env.Metrics)
				if out == search.Rejected {
					rejected++
					a2, b2 := env.State.Pair()
					require.True(t, a.Equal(a2))
					require.True(t, b.Equal(b2))
					require.Equal(t, rho, env.State.Rho())
					require.Equal(t, before, env.Metrics)
				}
			}
			require.NoError(t, env.State.Verify())
			require.Positive(t, rejected)
		})
	}
}

// TestGreedy_DescendsToFeasible: from a random start greedy removes violations
// without help from the controller's ladder.
func TestGreedy_DescendsToFeasible(t *testing.T) {
	cfg := search.DefaultConfig(10)
	cfg.NeutralProb = 0
	env := newEnv(t, &cfg, 11)
	pol := search.Greedy{}

	start := env.Metrics.Violations
	for i := 0; i < 200 && env.Metrics.Violations > 0; i++ {
		if pol.Step(env) == search.Rejected {
			env.Moves.Apply(env.State, env.Moves.Scatter(2))
			env.Refresh()
		}
	}
	require.LessOrEqual(t, env.Metrics.Violations, start)
	require.Zero(t, env.Metrics.Violations)
}

// TestEnv_Rank switches to the peak-pattern distance once the pair is feasible.
func TestEnv_Rank(t *testing.T) {
	cfg := search.DefaultConfig(4)
	env := newEnv(t, &cfg, 1)
	a, err := sequence.Parse("++++")
	require.NoError(t, err)
	b, err := sequence.Parse("++++")
	require.NoError(t, err)
	require.NoError(t, env.State.Reset(a, b))
	env.Refresh()
	require.Positive(t, env.Metrics.Violations)
	d := objective.Delta{Violations: -2, Energy: 3, Peaks: -2}
	require.Equal(t, objective.Score{Violations: -2, Energy: 3}, env.Rank(d))

	// Complementary pair: feasible, no peaks, distance 2.
	a, _ = sequence.Parse("+++-")
	b, _ = sequence.Parse("++-+")
	require.NoError(t, env.State.Reset(a, b))
	env.Refresh()
	require.Zero(t, env.Metrics.Violations)
	require.Equal(t, 2, env.Eval.Distance(env.Metrics))
	s := env.Rank(objective.Delta{Energy: 8, Peaks: 2})
	require.Equal(t, -2, s.Distance)
	require.True(t, s.Less(objective.Score{}))
}

// TestAnnealing_Schedule cools every step and reheats on kicks and restarts.
func TestAnnealing_Schedule(t *testing.T) {
	cfg, err := search.NewConfig(12, search.WithPolicy(search.PolicyAnnealing))
	require.NoError(t, err)
	env := newEnv(t, &cfg, 3)
	pol := search.NewAnnealing(cfg)
	require.Equal(t, cfg.InitialTemp, pol.Temperature())

	for i := 0; i < 100; i++ {
		pol.Step(env)
	}
	require.Less(t, pol.Temperature(), cfg.InitialTemp)
	require.Greater(t, pol.Temperature(), cfg.MinTemp)

	pol.Kicked()
	require.Equal(t, cfg.InitialTemp, pol.Temperature())
	pol.Step(env)
	pol.Restarted()
	require.Equal(t, cfg.InitialTemp, pol.Temperature())
}

// TestTabu_TenureBounded keeps the adaptive tenure inside [TabuMin, TabuMax].
func TestTabu_TenureBounded(t *testing.T) {
	cfg, err := search.NewConfig(24, search.WithPolicy(search.PolicyTabu))
	require.NoError(t, err)
	env := newEnv(t, &cfg, 8)
	pol := search.NewTabu(cfg)
	require.Equal(t, cfg.TabuMin, pol.Tenure())

	for i := 0; i < 2000; i++ {
		pol.Step(env)
		require.GreaterOrEqual(t, pol.Tenure(), cfg.TabuMin)
		require.LessOrEqual(t, pol.Tenure(), cfg.TabuMax)
	}
	pol.Restarted()
	require.Equal(t, cfg.TabuMin, pol.Tenure())
}
