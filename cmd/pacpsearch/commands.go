package main

import (
	"github.com/katalvlaran/pacp/telemetry"
	"github.com/spf13/cobra"
)

// searchFlags holds the command-line values of the search command. Values are
// applied over the configuration file only when the flag was set.
type searchFlags struct {
	configPath  string
	length      int
	workers     int
	policy      string
	threshold   int
	peaks       int
	magnitude   int
	feasible    bool
	fixA        bool
	reversal    bool
	seedFile    string
	seed        int64
	timeLimit   string
	iterations  int64
	count       int
	out         string
	db          string
	metricsAddr string
	logLevel    string
	logFormat   string
	traceOut    string
}

type listFlags struct {
	db     string
	length int
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pacpsearch",
		Short:         "Local search for ±1 sequence pairs with periodic correlation constraints",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSearchCmd(), newListCmd())

	return root
}

func newSearchCmd() *cobra.Command {
	var f searchFlags
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run parallel search workers and emit every new solution class",
		Long: `Runs independent search workers on pairs of length L. Each worker descends
on threshold violations, shapes the sidelobes toward the exact peak pattern and
kicks or restarts when it stagnates. New solution classes are appended to the
result file and, with --db, stored in a BadgerDB directory; classes already
present in either are not emitted again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSearch(cmd, &f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "YAML or JSON run configuration file")
	fl.IntVarP(&f.length, "length", "L", 0, "sequence length L (required here or in --config)")
	fl.IntVarP(&f.workers, "workers", "w", 0, "number of parallel workers (default: one per CPU)")
	fl.StringVar(&f.policy, "policy", "greedy", "acceptance policy: greedy, anneal or tabu")
	fl.IntVar(&f.threshold, "threshold", 4, "largest admissible sidelobe magnitude")
	fl.IntVar(&f.peaks, "peaks", 2, "weighted number of nonzero sidelobes of a strict solution")
	fl.IntVar(&f.magnitude, "magnitude", 4, "exact magnitude of every nonzero sidelobe of a strict solution")
	fl.BoolVar(&f.feasible, "feasible", false, "also emit feasible pairs that miss the exact peak pattern")
	fl.BoolVar(&f.fixA, "fix-a", false, "keep sequence A fixed (restarts only rotate it)")
	fl.BoolVar(&f.reversal, "reversal", false, "treat reversed sequences as equivalent when deduplicating")
	fl.StringVar(&f.seedFile, "seed-file", "", "start from the first pair in this file")
	fl.Int64Var(&f.seed, "seed", 0, "random seed (0: fixed default)")
	fl.StringVar(&f.timeLimit, "time", "", "wall-clock limit, e.g. 10m")
	fl.Int64Var(&f.iterations, "iterations", 0, "per-worker iteration limit (0: unbounded)")
	fl.IntVarP(&f.count, "count", "n", 0, "stop after this many new classes (0: unbounded)")
	fl.StringVarP(&f.out, "out", "o", "results.txt", "result file; '-' writes to stdout")
	fl.StringVar(&f.db, "db", "", "BadgerDB directory for durable, deduplicated results")
	fl.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	fl.StringVar(&f.logLevel, "log-level", "info", "debug, info, warn or error")
	fl.StringVar(&f.logFormat, "log-format", telemetry.FormatAuto, "auto, text or json")
	fl.StringVar(&f.traceOut, "trace-out", "", "write OpenTelemetry spans as JSON to this file")

	return cmd
}

func newListCmd() *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the stored solutions of one length as L,PSL,A,B lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, &f)
		},
	}
	cmd.Flags().StringVar(&f.db, "db", "", "BadgerDB directory")
	cmd.Flags().IntVarP(&f.length, "length", "L", 0, "sequence length (0: all lengths)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}
