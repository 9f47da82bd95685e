package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/katalvlaran/pacp/canon"
	"github.com/katalvlaran/pacp/config"
	"github.com/katalvlaran/pacp/record"
	"github.com/katalvlaran/pacp/search"
	"github.com/katalvlaran/pacp/store"
	"github.com/katalvlaran/pacp/telemetry"
	"github.com/spf13/cobra"
)

// stdoutPath selects standard output as the result destination.
const stdoutPath = "-"

// loadRunConfig merges defaults, the configuration file, the environment and the
// flags that were set explicitly.
func loadRunConfig(cmd *cobra.Command, f *searchFlags) (config.File, error) {
	file, err := config.Load(f.configPath)
	if err != nil {
		return file, err
	}

	fl := cmd.Flags()
	if fl.Changed("length") {
		file.Search.Length = f.length
	}
	if fl.Changed("workers") {
		file.Search.Workers = f.workers
	}
	if fl.Changed("policy") {
		file.Search.Policy = f.policy
	}
	if fl.Changed("threshold") {
		file.Search.Threshold = f.threshold
	}
	if fl.Changed("peaks") {
		file.Search.Peaks = f.peaks
	}
	if fl.Changed("magnitude") {
		file.Search.Magnitude = f.magnitude
	}
	if fl.Changed("feasible") {
		file.Search.Feasible = f.feasible
	}
	if fl.Changed("fix-a") {
		file.Search.FixA = f.fixA
	}
	if fl.Changed("reversal") {
		file.Search.Reversal = f.reversal
	}
	if fl.Changed("seed") {
		file.Search.Seed = f.seed
	}
	if fl.Changed("time") {
		d, err := time.ParseDuration(f.timeLimit)
		if err != nil {
			return file, fmt.Errorf("--time: %w", err)
		}
		file.Search.TimeLimit = d
	}
	if fl.Changed("iterations") {
		file.Search.Iterations = f.iterations
	}
	if fl.Changed("count") {
		file.Search.Count = f.count
	}
	if fl.Changed("seed-file") {
		file.Output.SeedFile = f.seedFile
	}
	if fl.Changed("out") {
		file.Output.ResultFile = f.out
	}
	if fl.Changed("db") {
		file.Output.DBPath = f.db
	}
	if fl.Changed("metrics-addr") {
		file.Observability.MetricsAddr = f.metricsAddr
	}
	if fl.Changed("log-level") {
		file.Observability.LogLevel = f.logLevel
	}
	if fl.Changed("log-format") {
		file.Observability.LogFormat = f.logFormat
	}
	if fl.Changed("trace-out") {
		file.Observability.TraceFile = f.traceOut
	}

	return file, file.Validate()
}

// writerSink emits record lines to a shared writer such as stdout.
func writerSink(w io.Writer) record.Sink {
	var mu sync.Mutex
	return record.SinkFunc(func(ctx context.Context, r record.Record) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		_, err := io.WriteString(w, r.Line()+"\n")
		return err
	})
}

func runSearch(cmd *cobra.Command, f *searchFlags) error {
	file, err := loadRunConfig(cmd, f)
	if err != nil {
		return err
	}
	obs := file.Observability
	logger, err := telemetry.NewLogger(obs.LogLevel, obs.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if obs.TraceFile != "" {
		tf, err := os.Create(obs.TraceFile)
		if err != nil {
			return fmt.Errorf("open trace file: %w", err)
		}
		defer tf.Close()
		shutdown, err := telemetry.InitTracing(tf, version)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("trace shutdown failed", slog.String("error", err.Error()))
			}
		}()
	}
	if obs.MetricsAddr != "" {
		if _, err := telemetry.Serve(ctx, obs.MetricsAddr, logger); err != nil {
			return err
		}
	}

	var extra []search.ConfigOption
	if path := file.Output.SeedFile; path != "" {
		a, b, err := store.LoadSeed(path)
		if err != nil {
			logger.Warn("seed file unusable, starting from random pairs",
				slog.String("path", path),
				slog.String("error", err.Error()))
		} else {
			extra = append(extra, search.WithSeedPair(a, b))
		}
	}
	cfg, err := file.SearchConfig(extra...)
	if err != nil {
		return err
	}
	n := cfg.Length
	cn := canon.Canonicalizer{Reversal: cfg.Reversal}

	var (
		sinks []record.Sink
		known []canon.SolutionKey
	)
	switch out := file.Output.ResultFile; out {
	case "":
	case stdoutPath:
		sinks = append(sinks, writerSink(cmd.OutOrStdout()))
	default:
		keys, skipped, err := store.LoadKeys(out, n, cn)
		if err != nil {
			return err
		}
		if skipped > 0 {
			logger.Warn("skipped unreadable result lines", slog.String("path", out), slog.Int("skipped", skipped))
		}
		known = append(known, keys...)

		fs, err := store.OpenFileSink(out)
		if err != nil {
			return err
		}
		defer func() {
			if err := fs.Close(); err != nil {
				logger.Error("closing result file", slog.String("error", err.Error()))
			}
		}()
		sinks = append(sinks, fs)
	}
	if path := file.Output.DBPath; path != "" {
		dbCfg := store.DefaultConfig(path)
		dbCfg.Logger = logger
		db, err := store.Open(dbCfg)
		if err != nil {
			return err
		}
		defer db.Close()

		rs := store.NewResultStore(db, cn, logger)
		keys, err := rs.Keys(ctx, n)
		if err != nil {
			return err
		}
		known = append(known, keys...)
		sinks = append(sinks, rs)
	}
	if len(sinks) == 0 {
		sinks = append(sinks, writerSink(cmd.OutOrStdout()))
	}

	logger.Info("search starting",
		slog.Int("length", n),
		slog.Int("workers", file.Search.Workers),
		slog.String("policy", cfg.Policy.String()),
		slog.Int("known_classes", len(known)),
		slog.Int64("seed", cfg.Seed))

	summaries, err := search.RunWorkers(ctx, cfg, file.Search.Workers, store.Tee(sinks...), known,
		search.WithLogger(logger))
	total := search.Merge(summaries)
	logger.Info("search finished",
		slog.Int64("iterations", total.Iterations),
		slog.Int("restarts", total.Restarts),
		slog.Int("small_kicks", total.SmallKicks),
		slog.Int("big_kicks", total.BigKicks),
		slog.Int("strict", total.Strict),
		slog.Int("feasible", total.Feasible),
		slog.Int("duplicates", total.Duplicates),
		slog.Int("best_violations", total.BestViolations),
		slog.Duration("elapsed", total.Elapsed))

	return err
}
