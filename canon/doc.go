// Package canon reduces sequences to group-invariant keys and deduplicates
// discovered pairs.
//
// The equivalence group of a single sequence is {identity, negation} × {all L
// cyclic rotations}, optionally × {identity, reversal}. Each of these maps a
// pair with a given correlation vector to a pair with the same vector, so
// solutions that differ only by them are reported once.
//
// A Key is the lexicographically smallest '+'/'-' text of the group orbit ('+'
// sorts before '-'). A SolutionKey is the sorted pair of the two Keys, which makes
// it independent of the A/B order as well.
//
// Store is a plain set of SolutionKeys owned by one worker; it is not safe for
// concurrent use.
package canon
