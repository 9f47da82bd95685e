// Package moves proposes and applies local-search moves on a correlation.State.
//
// Move families:
//   - Flip:    negate one element (sequence, position).
//   - Rotate:  cyclic shift of one sequence by 1..L−1; rho is unchanged.
//   - Block:   walk a contiguous run of positions (wrapping) and flip each one
//     with probability BlockFlipProb (1 ⇒ unconditional).
//   - Scatter: a handful of uniformly random flips, used by small kicks.
//
// Every Apply returns an Applied record; Undo replays it backwards and restores the
// state bit for bit (flips are involutions, rotations are inverted by L−k).
//
// BestFlip ranks a window of candidate flips by the predicted objective.Delta
// (fewest violations, then lowest energy, or any Ranker) and stops at the first candidate that
// removes a violation. A Tabu list can exclude recently touched positions.
//
// Generators carry their own *rand.Rand and are NOT goroutine-safe.
package moves
