package search

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors.
var (
	// ErrInvalidConfig wraps every Config.Validate failure.
	ErrInvalidConfig = errors.New("search: invalid config")

	// ErrUnknownPolicy indicates a policy name other than greedy, anneal or tabu.
	ErrUnknownPolicy = errors.New("search: unknown policy")

	// ErrNilSink indicates a nil record.Sink.
	ErrNilSink = errors.New("search: nil sink")

	// ErrWorkers indicates a non-positive worker count.
	ErrWorkers = errors.New("search: worker count must be positive")
)

// PolicyKind selects the acceptance policy.
type PolicyKind uint8

const (
	// PolicyGreedy is best-improvement descent with rare neutral moves.
	PolicyGreedy PolicyKind = iota

	// PolicyAnnealing is simulated annealing on the squared-error cost.
	PolicyAnnealing

	// PolicyTabu is tabu-guarded descent.
	PolicyTabu
)

// String implements fmt.Stringer.
func (p PolicyKind) String() string {
	switch p {
	case PolicyGreedy:
		return "greedy"
	case PolicyAnnealing:
		return "anneal"
	case PolicyTabu:
		return "tabu"
	default:
		return "unknown"
	}
}

// ParsePolicy maps a policy name to PolicyKind. "annealing" and "sa" alias "anneal".
func ParsePolicy(name string) (PolicyKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "greedy", "":
		return PolicyGreedy, nil
	case "anneal", "annealing", "sa":
		return PolicyAnnealing, nil
	case "tabu":
		return PolicyTabu, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// Phase is the controller state.
type Phase uint8

const (
	// PhaseDescent: violations > 0.
	PhaseDescent Phase = iota

	// PhaseShaping: violations = 0, peak pattern not yet exact.
	PhaseShaping

	// PhaseKick: a perturbation was applied in this step.
	PhaseKick

	// PhaseRestart: the pair was reinitialized in this step.
	PhaseRestart
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case PhaseDescent:
		return "descent"
	case PhaseShaping:
		return "shaping"
	case PhaseKick:
		return "kick"
	case PhaseRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// Summary reports what one worker did.
type Summary struct {
	Worker         int
	Iterations     int64
	Restarts       int
	SmallKicks     int
	BigKicks       int
	Strict         int // new strict classes emitted
	Feasible       int // new feasible (non-strict) classes emitted
	Duplicates     int // qualifying pairs whose class was already known
	BestViolations int // lowest weighted violation count seen
	Elapsed        time.Duration
}

// Emitted returns Strict + Feasible.
func (s Summary) Emitted() int { return s.Strict + s.Feasible }

// Merge sums per-worker summaries. Worker is -1, BestViolations the minimum and
// Elapsed the maximum.
func Merge(parts []Summary) Summary {
	total := Summary{Worker: -1, BestViolations: -1}
	for _, p := range parts {
		total.Iterations += p.Iterations
		total.Restarts += p.Restarts
		total.SmallKicks += p.SmallKicks
		total.BigKicks += p.BigKicks
		total.Strict += p.Strict
		total.Feasible += p.Feasible
		total.Duplicates += p.Duplicates
		if total.BestViolations < 0 || p.BestViolations < total.BestViolations {
			total.BestViolations = p.BestViolations
		}
		if p.Elapsed > total.Elapsed {
			total.Elapsed = p.Elapsed
		}
	}

	return total
}
