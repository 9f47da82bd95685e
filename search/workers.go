package search

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/katalvlaran/pacp/canon"
	"github.com/katalvlaran/pacp/record"
	"golang.org/x/sync/errgroup"
)

// RunWorkers runs n independent controllers in parallel and returns their summaries
// in worker order.
//
// Workers share only the sink and a run id; each has its own random stream (derived
// from cfg.Seed and the worker index), its own state and its own dedup store
// pre-loaded with known. With cfg.TargetSolutions > 0 the run stops once the
// workers together emitted that many classes. opts apply to every worker, so they
// must not carry per-worker state such as WithRand or WithCustomPolicy.
func RunWorkers(ctx context.Context, cfg Config, n int, sink record.Sink, known []canon.SolutionKey, opts ...Option) ([]Summary, error) {
	if n < 1 {
		return nil, ErrWorkers
	}
	if sink == nil {
		return nil, ErrNilSink
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shared := sink
	if cfg.TargetSolutions > 0 {
		var emitted atomic.Int64
		target := int64(cfg.TargetSolutions)
		shared = record.SinkFunc(func(ctx context.Context, r record.Record) error {
			if err := sink.Emit(ctx, r); err != nil {
				return err
			}
			if emitted.Add(1) >= target {
				cancel()
			}
			return nil
		})
	}

	base := append([]Option{WithRunID(uuid.NewString())}, opts...)
	ctrls := make([]*Controller, n)
	var err error
	for w := 0; w < n; w++ {
		workerOpts := append(append([]Option(nil), base...), WithKnownKeys(known))
		if ctrls[w], err = NewController(cfg, w, shared, workerOpts...); err != nil {
			return nil, err
		}
	}

	summaries := make([]Summary, n)
	g, gctx := errgroup.WithContext(ctx)
	for w, ctrl := range ctrls {
		g.Go(func() error {
			s, err := ctrl.Run(gctx)
			summaries[w] = s
			return err
		})
	}
	err = g.Wait()

	return summaries, err
}
