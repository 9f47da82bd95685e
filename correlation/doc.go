// Package correlation maintains the aggregate periodic correlation vector of a
// sequence pair and updates it incrementally.
//
// For a pair (A, B) of period L:
//
//	rho[u] = Σ_i A[i]·A[(i+u) mod L] + Σ_i B[i]·B[(i+u) mod L]
//
// Invariants held by State at every return from an exported method:
//   - rho[0] = 2L (main lobe).
//   - rho[u] = rho[L−u] for all u (periodic symmetry).
//   - rho equals a from-scratch recomputation of the current sequences (see Verify).
//
// Flipping A[p] (value v) changes only the cross terms that involve position p of A:
//
//	rho[u] += −2·v·(A[(p+u) mod L] + A[(p−u) mod L]),  u = 1..L−1
//
// which is exact, O(L), and leaves B's contribution untouched. Rotating one sequence
// leaves its periodic autocorrelation, and hence rho, unchanged.
//
// Each sequence is additionally kept three times concatenated (seq‖seq‖seq) so that
// the hot loops index p±u without modular arithmetic. That extended view is private.
//
// State is NOT goroutine-safe. Each search worker owns its own State.
package correlation
