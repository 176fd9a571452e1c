package query

import "math/bits"

// RowSet is a set of row indices into one dataset. Iteration follows the
// dataset order, which keeps results deterministic.
type RowSet struct {
	size  int
	words []uint64
}

func newRowSet(size int) *RowSet {
	return &RowSet{size: size, words: make([]uint64, (size+63)/64)}
}

// fullRowSet returns the set of every row index below size.
func fullRowSet(size int) *RowSet {
	s := newRowSet(size)
	for i := range s.words {
		s.words[i] = ^uint64(0)
	}
	s.trim()
	return s
}

// trim clears the bits past size in the last word.
func (s *RowSet) trim() {
	if rem := s.size % 64; rem != 0 {
		s.words[len(s.words)-1] &= (uint64(1) << rem) - 1
	}
}

func (s *RowSet) add(i int) {
	s.words[i/64] |= 1 << (uint(i) % 64)
}

// Has reports whether row i is in the set.
func (s *RowSet) Has(i int) bool {
	if i < 0 || i >= s.size {
		return false
	}
	return s.words[i/64]&(1<<(uint(i)%64)) != 0
}

// Len returns the number of rows in the set.
func (s *RowSet) Len() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Indices returns the row indices in ascending order.
func (s *RowSet) Indices() []int {
	out := make([]int, 0, s.Len())
	for wi, w := range s.words {
		for w != 0 {
			tz := bits.TrailingZeros64(w)
			out = append(out, wi*64+tz)
			w &= w - 1
		}
	}
	return out
}

// intersect keeps only the rows also in other.
func (s *RowSet) intersect(other *RowSet) {
	for i := range s.words {
		s.words[i] &= other.words[i]
	}
}

// union adds the rows of other.
func (s *RowSet) union(other *RowSet) {
	for i := range s.words {
		s.words[i] |= other.words[i]
	}
}

// complement flips the set with respect to every row of the dataset.
func (s *RowSet) complement() {
	for i := range s.words {
		s.words[i] = ^s.words[i]
	}
	s.trim()
}
