package canon

import "github.com/katalvlaran/pacp/sequence"

// Store is an in-memory set of SolutionKeys.
type Store struct {
	canon Canonicalizer
	keys  map[SolutionKey]struct{}
}

// NewStore returns an empty Store that keys pairs with c.
func NewStore(c Canonicalizer) *Store {
	return &Store{canon: c, keys: make(map[SolutionKey]struct{})}
}

// Canonicalizer returns the keying policy.
func (s *Store) Canonicalizer() Canonicalizer { return s.canon }

// Insert adds the class of (a, b). It returns the key and true when the class was
// new; a second insert of any equivalent pair returns false and changes nothing.
//
// Complexity: O(L²).
func (s *Store) Insert(a, b sequence.Sequence) (SolutionKey, bool) {
	k := s.canon.Solution(a, b)

	return k, s.InsertKey(k)
}

// InsertKey adds k and reports whether it was new.
func (s *Store) InsertKey(k SolutionKey) bool {
	if _, ok := s.keys[k]; ok {
		return false
	}
	s.keys[k] = struct{}{}

	return true
}

// Contains reports whether the class of (a, b) is known.
func (s *Store) Contains(a, b sequence.Sequence) bool {
	_, ok := s.keys[s.canon.Solution(a, b)]

	return ok
}

// Seed bulk-inserts previously known keys and returns how many were new.
func (s *Store) Seed(keys []SolutionKey) int {
	added := 0
	for _, k := range keys {
		if s.InsertKey(k) {
			added++
		}
	}

	return added
}

// Len returns the number of known classes.
func (s *Store) Len() int { return len(s.keys) }
