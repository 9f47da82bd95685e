// Package pacp searches for pairs of ±1 sequences whose aggregate periodic
// autocorrelation meets a prescribed pattern: every sidelobe bounded by a
// threshold, and for strict solutions an exact number of peaks of an exact
// magnitude (periodic quasi-complementary pairs).
//
// 🚀 What is pacp?
//
//	A local-search engine built from small, dependency-light packages:
//		• sequence/    ±1 sequences, the "+"/"-" text form, rotate/negate/reverse
//		• correlation/ the pair state with O(L) incremental flip updates
//		• objective/   violations, energy, peak pattern, quality classes
//		• moves/       flips, rotations, block mutations, tabu recency list
//		• repair/      seed repair toward admissible element sums
//		• canon/       canonical keys and the per-worker dedup store
//		• search/      the phase machine, greedy/annealing/tabu policies, workers
//		• record/, store/  result records, text files and a BadgerDB store
//		• telemetry/, config/  logging, Prometheus, OpenTelemetry, YAML config
//
// ✨ Guarantees
//
//   - Incremental correlation updates are exact; State.Verify proves it on demand.
//   - Every emitted record is a new solution class for its worker, and the
//     BadgerDB store keeps each class once across runs.
//   - Same seed and iteration budget ⇒ same trajectory, worker by worker.
//
// Quick example (L = 4):
//
//	A = ++--   B = +-+-
//	rho = [8, -4, 0, -4]   → two peaks of magnitude 4, strict
//
// The pacpsearch command in cmd/pacpsearch wires everything together:
//
//	go run ./cmd/pacpsearch search --length 26 --time 10m --db ./pacp-db
package pacp
