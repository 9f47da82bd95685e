// Package objective derives feasibility and cost metrics from an aggregate
// periodic correlation vector rho[0..L-1].
//
// Only lags u ∈ [1, L/2] are scanned. Each lag stands for itself and its symmetric
// partner L−u, so it carries weight 2, except u = L/2 for even L (weight 1).
// With that weighting every count below equals the count over all u ∈ [1, L).
//
//   - Violations:  Σ weight where |rho[u]| > Threshold.
//   - PeakCount:   Σ weight where rho[u] ≠ 0.
//   - MaxSidelobe: max |rho[u]| (the PSL of the pair).
//   - Energy:      Σ weight·|rho[u]|            (CostAbsSum), or
//     Σ weight·(|rho[u]| − CostTarget)²            (CostSquaredError).
//
// A pair is strict when Violations = 0, PeakCount equals Criteria.PeakCount and every
// nonzero sidelobe has magnitude Criteria.PeakMagnitude. It is feasible when
// Violations = 0 only.
//
// The Evaluator is immutable after construction and safe for concurrent use.
package objective
