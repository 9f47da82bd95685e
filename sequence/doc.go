// Package sequence defines the ±1 binary sequences searched by this module.
//
// A Sequence of period L is a slice of L elements, each +1 or −1, stored as int8.
// The package provides:
//
//   - Parse / String: the boundary text form using '+' for +1 and '-' for −1.
//   - ParsePair / FormatPair: the "A,B" seed form (a result record "L,PSL,A,B" is accepted too).
//   - Random / Mirror: initializers used by restarts.
//   - RotateLeft / Negated / Reversed: the transformation group used by canonical forms.
//   - Autocorrelation: a reference O(L²) periodic autocorrelation.
//
// The package never logs and never panics on user input; only the sentinel errors
// from types.go are returned.
package sequence
