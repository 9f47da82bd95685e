package moves

import "github.com/katalvlaran/pacp/correlation"

// Tabu is a fixed-capacity ring of recently flipped (sequence, position) keys.
// Only the newest Size() entries are tabu; Size adapts between min and max.
type Tabu struct {
	ring   []int
	head   int // next write slot
	filled int
	size   int
	min    int
	max    int
}

// NewTabu returns an empty tabu list whose active size starts at lo and may
// grow up to hi. Non-positive bounds are raised to 1; hi is raised to lo.
func NewTabu(lo, hi int) *Tabu {
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}

	return &Tabu{ring: make([]int, hi), size: lo, min: lo, max: hi}
}

func key(id correlation.SeqID, p int) int { return p<<1 | int(id) }

// Add records a flip of (id, p).
func (t *Tabu) Add(id correlation.SeqID, p int) {
	t.ring[t.head] = key(id, p)
	t.head++
	if t.head == len(t.ring) {
		t.head = 0
	}
	if t.filled < len(t.ring) {
		t.filled++
	}
}

// Contains reports whether (id, p) is among the newest Size() entries.
//
// Complexity: O(Size()).
func (t *Tabu) Contains(id correlation.SeqID, p int) bool {
	k := key(id, p)
	n := t.size
	if n > t.filled {
		n = t.filled
	}

	var j, idx int
	for j = 1; j <= n; j++ {
		idx = t.head - j
		if idx < 0 {
			idx += len(t.ring)
		}
		if t.ring[idx] == k {
			return true
		}
	}

	return false
}

// Size returns the active tenure.
func (t *Tabu) Size() int { return t.size }

// Grow lengthens the tenure by a quarter (at least one), capped at max.
func (t *Tabu) Grow() {
	step := t.size / 4
	if step < 1 {
		step = 1
	}
	t.size += step
	if t.size > t.max {
		t.size = t.max
	}
}

// Shrink shortens the tenure by one, floored at min.
func (t *Tabu) Shrink() {
	if t.size > t.min {
		t.size--
	}
}

// Clear forgets every entry and resets the tenure to min.
func (t *Tabu) Clear() {
	t.head, t.filled, t.size = 0, 0, t.min
}
