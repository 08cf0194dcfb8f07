package model

import "math/bits"

// ValueSet is a bitset over puzzle values 1..n. Value v occupies bit v-1.
// It replaces the fixed uint16 row/col/box masks a 9×9 solver would use,
// since n can exceed a machine word.
type ValueSet []uint64

// NewValueSet returns an empty set able to hold values 1..n.
func NewValueSet(n int) ValueSet {
	return make(ValueSet, (n+63)/64)
}

// Add inserts v into the set.
func (s ValueSet) Add(v uint16) { s[(v-1)/64] |= 1 << ((v - 1) % 64) }

// Del removes v from the set.
func (s ValueSet) Del(v uint16) { s[(v-1)/64] &^= 1 << ((v - 1) % 64) }

// Has reports whether v is in the set.
func (s ValueSet) Has(v uint16) bool { return s[(v-1)/64]&(1<<((v-1)%64)) != 0 }

// Count returns the number of values in the set.
func (s ValueSet) Count() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// Reset clears the set in place.
func (s ValueSet) Reset() {
	for i := range s {
		s[i] = 0
	}
}
