// Package repair nudges the element sums of a sequence pair toward values that are
// compatible with a target correlation energy.
//
// Summing the periodic correlation vector over every lag gives
//
//	Σ_u rho[u] = sum(A)² + sum(B)²
//
// so a pair whose sidelobes follow a known pattern must have sums (t_A, t_B) with
// t_A² + t_B² equal to one of a few energies E. For strict PQCP pairs of length L
// these are 2L and 2L±8. Every sum also has the parity of L.
//
// Targets enumerates the integer points on those circles. Repair picks one of
// the closest points (Manhattan distance from the current sums, random among the
// nearest few) and Converge flips elements of the wrong sign until each sum
// matches. When no point exists the pair is returned untouched.
//
// Nothing in this package logs or allocates per flip; the caller recomputes any
// correlation state afterwards.
package repair
