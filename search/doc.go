// Package search drives local search over ±1 sequence pairs toward periodic
// complementary-like correlation patterns.
//
// A Controller owns one correlation.State and runs a four-phase state machine:
//
//	DESCENT  violations > 0; the policy pushes them toward zero
//	SHAPING  violations = 0; the policy pushes peaks toward the exact pattern
//	         by ranking irregular lobes and the peak-count gap before energy
//	KICK     a bounded perturbation after stagnation or after a solution
//	RESTART  random reinitialization followed by seed repair
//
// Three acceptance policies plug into the same machine:
//
//	greedy  best flip of a scan window; neutral moves accepted with NeutralProb
//	anneal  random (multi-)flip proposals, Metropolis acceptance on Δcost/L
//	tabu    greedy scan that skips recently flipped positions; adaptive tenure
//
// Stagnation ladder (all thresholds derived from L by DefaultConfig):
//
//	stuck ≥ SmallKickAfter        → small kick (2..4 random flips)
//	sinceBest ≥ k·BigKickAfter    → big kick (block mutation)
//	sinceBest ≥ RestartAfter      → restart
//
// Whenever the current pair reaches the configured quality class it is
// canonicalized, checked against the worker's dedup store and, if new, emitted
// to the record.Sink. A block kick then moves the search away from the class.
//
// Determinism: every worker draws from its own *rand.Rand derived from Config.Seed
// and the worker index (SplitMix64 mixing). Same seed, same worker ⇒ same trajectory
// for a fixed iteration budget. Wall-clock limits naturally break this.
//
// Concurrency: a Controller is single-threaded. RunWorkers runs independent
// Controllers in parallel; they share only the Sink.
package search
