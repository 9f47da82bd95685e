package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/pacp/canon"
	"github.com/katalvlaran/pacp/correlation"
	"github.com/katalvlaran/pacp/moves"
	"github.com/katalvlaran/pacp/objective"
	"github.com/katalvlaran/pacp/record"
	"github.com/katalvlaran/pacp/repair"
	"github.com/katalvlaran/pacp/sequence"
	"github.com/katalvlaran/pacp/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// tracerName scopes the spans of this package.
const tracerName = "pacp.search"

// checkMask gates the context, budget and heartbeat checks to every 1024 iterations.
const checkMask = 1023

// kickKind labels perturbations.
type kickKind uint8

const (
	kickSmall kickKind = iota
	kickBig
	kickSolution
)

func (k kickKind) String() string {
	switch k {
	case kickSmall:
		return "small"
	case kickBig:
		return "big"
	default:
		return "solution"
	}
}

// Controller runs the search state machine for one worker.
type Controller struct {
	env    Env
	cfg    Config
	worker int
	runID  string
	policy Policy
	dedup  *canon.Store
	known  []canon.SolutionKey
	sink   record.Sink
	logger *slog.Logger
	tracer trace.Tracer

	heartbeat rate.Sometimes

	phase     Phase
	stuck     int
	sinceBest int
	nextBig   int
	best      objective.Score
	pending   int64 // iterations not yet added to the counter
	summary   Summary

	bufA, bufB sequence.Sequence

	iterations prometheus.Counter
	restarts   prometheus.Counter
	kicks      [3]prometheus.Counter
	solutions  [3]prometheus.Counter
	duplicates prometheus.Counter
	violations prometheus.Gauge
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithTracer sets the tracer. Default: the global provider's "pacp.search" tracer.
func WithTracer(t trace.Tracer) Option {
	return func(c *Controller) { c.tracer = t }
}

// WithRand replaces the worker's random stream.
func WithRand(r *rand.Rand) Option {
	return func(c *Controller) { c.env.Rand = r }
}

// WithKnownKeys pre-loads the dedup store, so these classes are never emitted.
func WithKnownKeys(keys []canon.SolutionKey) Option {
	return func(c *Controller) { c.known = keys }
}

// WithRunID stamps records with id. Default: a fresh UUID.
func WithRunID(id string) Option {
	return func(c *Controller) { c.runID = id }
}

// WithCustomPolicy replaces the policy selected by Config.Policy.
func WithCustomPolicy(p Policy) Option {
	return func(c *Controller) { c.policy = p }
}

// NewController validates cfg and prepares worker w: random stream, initial pair
// (seed or random, then seed repair), policy and dedup store.
func NewController(cfg Config, w int, sink record.Sink, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		return nil, ErrNilSink
	}

	c := &Controller{cfg: cfg, worker: w, sink: sink}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With(slog.Int("worker", w), slog.Int("length", cfg.Length))
	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}
	if c.env.Rand == nil {
		c.env.Rand = workerRNG(cfg.Seed, w)
	}
	if c.runID == "" {
		c.runID = uuid.NewString()
	}

	ev, err := objective.NewEvaluator(cfg.Length, cfg.Criteria)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	gen, err := moves.NewGenerator(cfg.Length, c.env.Rand,
		moves.WithFixedA(cfg.FixA),
		moves.WithBlockFlipProb(cfg.BlockFlipProb))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.policy == nil {
		if c.policy, err = NewPolicy(cfg); err != nil {
			return nil, err
		}
	}

	c.env.Config = &c.cfg
	c.env.Eval = ev
	c.env.Moves = gen
	c.bufA = make(sequence.Sequence, cfg.Length)
	c.bufB = make(sequence.Sequence, cfg.Length)
	c.dedup = canon.NewStore(canon.Canonicalizer{Reversal: cfg.Reversal})
	c.dedup.Seed(c.known)
	c.heartbeat = rate.Sometimes{Interval: cfg.HeartbeatEvery}
	c.bindMetrics()

	c.initialPair()
	if c.env.State, err = correlation.New(c.bufA, c.bufB); err != nil {
		return nil, err
	}
	c.env.Refresh()
	c.resetBest()
	c.summary = Summary{Worker: w, BestViolations: c.env.Metrics.Violations}
	c.phase = c.phaseOf()

	return c, nil
}

// bindMetrics resolves the labelled collectors once.
func (c *Controller) bindMetrics() {
	l := strconv.Itoa(c.cfg.Length)
	name := c.policy.Name()
	c.iterations = telemetry.Iterations.WithLabelValues(l, name)
	c.restarts = telemetry.Restarts.WithLabelValues(l, name)
	for _, k := range []kickKind{kickSmall, kickBig, kickSolution} {
		c.kicks[k] = telemetry.Kicks.WithLabelValues(l, k.String())
	}
	for _, cl := range []objective.Class{objective.ClassNone, objective.ClassFeasible, objective.ClassStrict} {
		c.solutions[cl] = telemetry.Solutions.WithLabelValues(l, cl.String())
	}
	c.duplicates = telemetry.Duplicates.WithLabelValues(l)
	c.violations = telemetry.Violations.WithLabelValues(l, strconv.Itoa(c.worker))
}

// initialPair fills bufA/bufB from the configured seed, or randomly when there is
// none or it does not fit, and applies seed repair.
func (c *Controller) initialPair() {
	seeded := c.cfg.SeedA != nil || c.cfg.SeedB != nil
	if seeded {
		err := sequence.ValidatePair(c.cfg.SeedA, c.cfg.SeedB)
		if err == nil && len(c.cfg.SeedA) != c.cfg.Length {
			err = sequence.ErrLengthMismatch
		}
		if err == nil {
			copy(c.bufA, c.cfg.SeedA)
			copy(c.bufB, c.cfg.SeedB)
			c.repairPair()
			return
		}
		c.logger.Warn("seed pair rejected, starting from a random pair", slog.String("error", err.Error()))
	}
	sequence.Randomize(c.bufA, c.env.Rand)
	sequence.Randomize(c.bufB, c.env.Rand)
	c.repairPair()
}

// repairPair runs seed repair on bufA/bufB. An empty target set leaves them as is.
func (c *Controller) repairPair() {
	_, _ = repair.Repair(c.bufA, c.bufB, c.env.Rand, repair.Options{
		Energies: c.cfg.Energies,
		Pick:     c.cfg.RepairPick,
		Attempts: c.cfg.RepairAttempts,
		FixA:     c.cfg.FixA,
	})
}

// State returns the live state. Callers must not mutate it.
func (c *Controller) State() *correlation.State { return c.env.State }

// Metrics returns the metrics of the current pair.
func (c *Controller) Metrics() objective.Metrics { return c.env.Metrics }

// Phase returns the phase after the last step.
func (c *Controller) Phase() Phase { return c.phase }

// Summary returns the counters so far.
func (c *Controller) Summary() Summary { return c.summary }

// Dedup returns the worker's dedup store.
func (c *Controller) Dedup() *canon.Store { return c.dedup }

// Policy returns the acceptance policy.
func (c *Controller) Policy() Policy { return c.policy }

// RunID returns the identifier stamped on emitted records.
func (c *Controller) RunID() string { return c.runID }

func (c *Controller) phaseOf() Phase {
	if c.env.Metrics.Violations > 0 {
		return PhaseDescent
	}

	return PhaseShaping
}

// current returns the ranking key of the current pair.
func (c *Controller) current() objective.Score {
	return c.env.Eval.Score(c.env.Metrics)
}

func (c *Controller) resetBest() {
	c.best = c.current()
	c.sinceBest = 0
	c.nextBig = c.cfg.BigKickAfter
	c.stuck = 0
}

// Run steps until the iteration budget, the target solution count or the context
// ends the run. Budget exhaustion and cancellation are normal endings and return a
// nil error; only a sink failure or a divergence check aborts with an error.
func (c *Controller) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	if c.cfg.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.TimeLimit)
		defer cancel()
	}
	ctx, span := c.tracer.Start(ctx, "search.Run", trace.WithAttributes(
		attribute.String("pacp.run_id", c.runID),
		attribute.Int("pacp.length", c.cfg.Length),
		attribute.Int("pacp.worker", c.worker),
		attribute.String("pacp.policy", c.policy.Name()),
	))
	defer span.End()

	c.logger.Info("worker started",
		slog.String("policy", c.policy.Name()),
		slog.Int("violations", c.env.Metrics.Violations),
		slog.Int("known_classes", c.dedup.Len()))

	var err error
	for {
		if c.cfg.MaxIterations > 0 && c.summary.Iterations >= c.cfg.MaxIterations {
			break
		}
		if c.summary.Iterations&checkMask == 0 {
			c.flushMetrics()
			if ctx.Err() != nil {
				break
			}
			c.heartbeat.Do(c.logProgress)
		}
		if err = c.Step(ctx); err != nil {
			break
		}
		if c.cfg.TargetSolutions > 0 && c.summary.Emitted() >= c.cfg.TargetSolutions {
			break
		}
	}
	c.flushMetrics()
	c.summary.Elapsed = time.Since(start)
	telemetry.RunDuration.Observe(c.summary.Elapsed.Seconds())

	span.SetAttributes(
		attribute.Int64("pacp.iterations", c.summary.Iterations),
		attribute.Int("pacp.restarts", c.summary.Restarts),
		attribute.Int("pacp.emitted", c.summary.Emitted()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error("worker aborted", slog.String("error", err.Error()))
		return c.summary, err
	}
	span.SetStatus(codes.Ok, "")
	c.logger.Info("worker finished",
		slog.Int64("iterations", c.summary.Iterations),
		slog.Int("restarts", c.summary.Restarts),
		slog.Int("strict", c.summary.Strict),
		slog.Int("feasible", c.summary.Feasible),
		slog.Int("duplicates", c.summary.Duplicates),
		slog.Int("best_violations", c.summary.BestViolations),
		slog.Duration("elapsed", c.summary.Elapsed))

	return c.summary, nil
}

func (c *Controller) flushMetrics() {
	if c.pending > 0 {
		c.iterations.Add(float64(c.pending))
		c.pending = 0
	}
	c.violations.Set(float64(c.env.Metrics.Violations))
}

func (c *Controller) logProgress() {
	c.logger.Info("progress",
		slog.Int64("iterations", c.summary.Iterations),
		slog.Int("restarts", c.summary.Restarts),
		slog.String("phase", c.phase.String()),
		slog.Int("violations", c.env.Metrics.Violations),
		slog.Int("best_violations", c.summary.BestViolations),
		slog.Int("emitted", c.summary.Emitted()))
}

// Step performs one controller iteration:
//
//  1. A pair that reaches the emitted class is deduplicated, emitted if new, and
//     kicked away (PhaseKick).
//  2. Otherwise the policy takes one step and the stagnation ladder may kick or
//     restart.
//
// Complexity: dominated by the policy step, O(ScanWindow·L) for greedy/tabu.
func (c *Controller) Step(ctx context.Context) error {
	c.summary.Iterations++
	c.pending++
	it := c.summary.Iterations

	if c.env.Metrics.Violations == 0 {
		if class := c.env.Eval.Classify(c.env.Metrics); class >= c.cfg.MinClass {
			if err := c.emit(ctx, class); err != nil {
				return err
			}
			c.kick(kickSolution)
			c.resetBest()
			return c.housekeeping(it)
		}
	}

	out := c.policy.Step(&c.env)
	if out == Improved {
		c.stuck = 0
	} else {
		c.stuck++
	}
	if cur := c.current(); cur.Less(c.best) {
		c.best = cur
		c.sinceBest = 0
		c.nextBig = c.cfg.BigKickAfter
	} else {
		c.sinceBest++
	}
	if c.env.Metrics.Violations < c.summary.BestViolations {
		c.summary.BestViolations = c.env.Metrics.Violations
	}

	switch {
	case c.sinceBest >= c.cfg.RestartAfter:
		c.restart(ctx)
	case c.sinceBest >= c.nextBig:
		c.kick(kickBig)
		c.nextBig += c.cfg.BigKickAfter
	case c.stuck >= c.cfg.SmallKickAfter:
		c.kick(kickSmall)
	default:
		c.phase = c.phaseOf()
	}

	return c.housekeeping(it)
}

// housekeeping runs the optional divergence check and the voluntary yield.
func (c *Controller) housekeeping(it int64) error {
	if c.cfg.VerifyEvery > 0 && it%c.cfg.VerifyEvery == 0 {
		if err := c.env.State.Verify(); err != nil {
			return fmt.Errorf("iteration %d: %w", it, err)
		}
	}
	if c.cfg.YieldEvery > 0 && it%c.cfg.YieldEvery == 0 {
		runtime.Gosched()
	}

	return nil
}

// emit deduplicates the current pair and hands new classes to the sink.
func (c *Controller) emit(ctx context.Context, class objective.Class) error {
	st := c.env.State
	key, fresh := c.dedup.Insert(st.Seq(correlation.A), st.Seq(correlation.B))
	if !fresh {
		c.summary.Duplicates++
		c.duplicates.Inc()
		return nil
	}

	m := c.env.Metrics
	rec := record.Record{
		RunID:       c.runID,
		Worker:      c.worker,
		Length:      c.cfg.Length,
		MaxSidelobe: m.MaxSidelobe,
		PeakCount:   m.PeakCount,
		ZeroZone:    m.ZeroZone,
		Class:       class.String(),
		A:           st.Seq(correlation.A).String(),
		B:           st.Seq(correlation.B).String(),
		Key:         key.String(),
		Iteration:   c.summary.Iterations,
		FoundAt:     time.Now().UTC(),
	}
	if err := c.sink.Emit(ctx, rec); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return fmt.Errorf("emit solution: %w", err)
	}

	if class == objective.ClassStrict {
		c.summary.Strict++
	} else {
		c.summary.Feasible++
	}
	c.solutions[class].Inc()
	trace.SpanFromContext(ctx).AddEvent("solution", trace.WithAttributes(
		attribute.String("pacp.key", rec.Key),
		attribute.String("pacp.class", rec.Class),
		attribute.Int64("pacp.iteration", rec.Iteration),
	))
	c.logger.Info("solution found",
		slog.String("class", rec.Class),
		slog.Int("psl", rec.MaxSidelobe),
		slog.Int("zcz", rec.ZeroZone),
		slog.String("a", rec.A),
		slog.String("b", rec.B),
		slog.Int64("iteration", rec.Iteration))

	return nil
}

// kick perturbs the pair.
func (c *Controller) kick(kind kickKind) {
	gen := c.env.Moves
	switch kind {
	case kickSmall:
		width := c.cfg.SmallKickMax - c.cfg.SmallKickMin + 1
		c.env.Commit(gen.Scatter(c.cfg.SmallKickMin + c.env.Rand.Intn(width)))
		c.summary.SmallKicks++
	case kickBig:
		c.env.Commit(gen.RandomBlockIn(c.cfg.BlockMin, c.cfg.BlockMax))
		c.summary.BigKicks++
	case kickSolution:
		c.env.Commit(gen.RandomBlock(c.cfg.PostSolutionBlock))
	}
	c.kicks[kind].Inc()
	c.stuck = 0
	c.policy.Kicked()
	c.phase = PhaseKick
}

// restart reinitializes the pair. With FixA, A is only rotated by a random offset.
func (c *Controller) restart(ctx context.Context) {
	n := c.cfg.Length
	copy(c.bufA, c.env.State.Seq(correlation.A))
	if c.cfg.FixA {
		c.bufA.RotateLeft(1 + c.env.Rand.Intn(n-1))
	} else {
		sequence.Randomize(c.bufA, c.env.Rand)
	}
	sequence.Randomize(c.bufB, c.env.Rand)
	if c.cfg.SymmetricStartProb > 0 && c.env.Rand.Float64() < c.cfg.SymmetricStartProb {
		if !c.cfg.FixA {
			sequence.Mirror(c.bufA)
		}
		sequence.Mirror(c.bufB)
	}
	c.repairPair()

	// Lengths match by construction.
	_ = c.env.State.Reset(c.bufA, c.bufB)
	c.env.Refresh()
	c.policy.Restarted()
	c.resetBest()

	c.summary.Restarts++
	c.restarts.Inc()
	c.phase = PhaseRestart
	trace.SpanFromContext(ctx).AddEvent("restart", trace.WithAttributes(
		attribute.Int("pacp.restarts", c.summary.Restarts),
		attribute.Int("pacp.violations", c.env.Metrics.Violations),
	))
	c.logger.Debug("restart",
		slog.Int("restarts", c.summary.Restarts),
		slog.Int("violations", c.env.Metrics.Violations))
}
