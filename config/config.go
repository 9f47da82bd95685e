// Package config loads the run configuration of the pacpsearch command from a
// YAML (or JSON) file and PACP_* environment variables, and converts it into
// search options.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/katalvlaran/pacp/objective"
	"github.com/katalvlaran/pacp/search"
	"github.com/katalvlaran/pacp/telemetry"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// File is the top-level run configuration.
//
// Thread Safety: Safe to read concurrently. Not safe to modify after creation.
type File struct {
	// Search holds the problem and the search budget.
	Search SearchConfig `json:"search" yaml:"search"`

	// Output holds the result destinations and the seed input.
	Output OutputConfig `json:"output" yaml:"output"`

	// Observability holds logging, metrics and tracing settings.
	Observability ObservabilityConfig `json:"observability" yaml:"observability"`
}

// SearchConfig describes what to search for and for how long.
type SearchConfig struct {
	Length         int           `json:"length" yaml:"length"`
	Workers        int           `json:"workers" yaml:"workers"`
	Policy         string        `json:"policy" yaml:"policy"`
	Threshold      int           `json:"threshold" yaml:"threshold"`
	Peaks          int           `json:"peaks" yaml:"peaks"`
	Magnitude      int           `json:"magnitude" yaml:"magnitude"`
	CostTarget     int           `json:"cost_target" yaml:"cost_target"`
	Feasible       bool          `json:"feasible" yaml:"feasible"`
	FixA           bool          `json:"fix_a" yaml:"fix_a"`
	Reversal       bool          `json:"reversal" yaml:"reversal"`
	SymmetricStart float64       `json:"symmetric_start" yaml:"symmetric_start"`
	Seed           int64         `json:"seed" yaml:"seed"`
	TimeLimit      time.Duration `json:"time_limit" yaml:"time_limit"`
	Iterations     int64         `json:"iterations" yaml:"iterations"`
	Count          int           `json:"count" yaml:"count"`
}

// OutputConfig names the sinks. Empty paths disable the corresponding sink.
type OutputConfig struct {
	ResultFile string `json:"result_file" yaml:"result_file"`
	DBPath     string `json:"db_path" yaml:"db_path"`
	SeedFile   string `json:"seed_file" yaml:"seed_file"`
}

// ObservabilityConfig contains logging, metrics and tracing settings.
type ObservabilityConfig struct {
	LogLevel    string `json:"log_level" yaml:"log_level"`
	LogFormat   string `json:"log_format" yaml:"log_format"`
	MetricsAddr string `json:"metrics_addr" yaml:"metrics_addr"`
	TraceFile   string `json:"trace_file" yaml:"trace_file"`
}

// Default returns the default configuration. Length has no default and must be set.
//
// Outputs:
//   - File: Default configuration with one worker per CPU and the strict criteria.
func Default() File {
	cr := objective.DefaultCriteria()

	return File{
		Search: SearchConfig{
			Workers:    runtime.NumCPU(),
			Policy:     search.PolicyGreedy.String(),
			Threshold:  cr.Threshold,
			Peaks:      cr.PeakCount,
			Magnitude:  cr.PeakMagnitude,
			CostTarget: cr.CostTarget,
		},
		Output: OutputConfig{
			ResultFile: "results.txt",
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: telemetry.FormatAuto,
		},
	}
}

// Load reads configuration with priority: env > file > defaults. The result is
// not validated, since command-line flags may still complete it.
//
// Inputs:
//   - path: YAML or JSON file. Empty means defaults and environment only.
//
// Outputs:
//   - File: Merged configuration.
//   - error: Non-nil if the file cannot be read or parsed.
func Load(path string) (File, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}
	loadEnv(&cfg)

	return cfg, nil
}

func loadFile(path string, cfg *File) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}

	return nil
}

func loadEnv(cfg *File) {
	if v := os.Getenv("PACP_LENGTH"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Search.Length = i
		}
	}
	if v := os.Getenv("PACP_WORKERS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Search.Workers = i
		}
	}
	if v := os.Getenv("PACP_POLICY"); v != "" {
		cfg.Search.Policy = v
	}
	if v := os.Getenv("PACP_SEED"); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Search.Seed = i
		}
	}
	if v := os.Getenv("PACP_TIME_LIMIT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Search.TimeLimit = d
		}
	}
	if v := os.Getenv("PACP_DB_PATH"); v != "" {
		cfg.Output.DBPath = v
	}
	if v := os.Getenv("PACP_LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("PACP_METRICS_ADDR"); v != "" {
		cfg.Observability.MetricsAddr = v
	}
}

// Validate checks the fields the search package does not check itself.
//
// Outputs:
//   - error: Non-nil, wrapping ErrInvalid, if the configuration is unusable.
func (f File) Validate() error {
	if f.Search.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1", ErrInvalid)
	}
	if _, err := search.ParsePolicy(f.Search.Policy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := telemetry.ParseLevel(f.Observability.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	switch f.Observability.LogFormat {
	case telemetry.FormatAuto, telemetry.FormatText, telemetry.FormatJSON:
	default:
		return fmt.Errorf("%w: %w", ErrInvalid, telemetry.ErrUnknownFormat)
	}
	if _, err := f.SearchConfig(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}

// Criteria returns the solution criteria of the search section. The cost follows
// the policy: squared error for annealing, abs-sum otherwise.
func (c SearchConfig) Criteria() objective.Criteria {
	cost := objective.CostAbsSum
	if p, err := search.ParsePolicy(c.Policy); err == nil && p == search.PolicyAnnealing {
		cost = objective.CostSquaredError
	}

	return objective.Criteria{
		Threshold:     c.Threshold,
		PeakCount:     c.Peaks,
		PeakMagnitude: c.Magnitude,
		Cost:          cost,
		CostTarget:    c.CostTarget,
	}
}

// Options converts the search section into search options, in the order that
// lets the criteria override the policy's default cost.
func (c SearchConfig) Options() ([]search.ConfigOption, error) {
	policy, err := search.ParsePolicy(c.Policy)
	if err != nil {
		return nil, err
	}
	opts := []search.ConfigOption{
		search.WithPolicy(policy),
		search.WithCriteria(c.Criteria()),
		search.WithFixedA(c.FixA),
		search.WithReversal(c.Reversal),
		search.WithSymmetricStart(c.SymmetricStart),
		search.WithSeed(c.Seed),
		search.WithTimeLimit(c.TimeLimit),
		search.WithMaxIterations(c.Iterations),
		search.WithTargetSolutions(c.Count),
	}
	if c.Feasible {
		opts = append(opts, search.WithEmitFeasible())
	}

	return opts, nil
}

// SearchConfig builds and validates the search.Config of f.
func (f File) SearchConfig(extra ...search.ConfigOption) (search.Config, error) {
	opts, err := f.Search.Options()
	if err != nil {
		return search.Config{}, err
	}

	return search.NewConfig(f.Search.Length, append(opts, extra...)...)
}
