// Package bloom provides a bit-array Bloom filter: insert-only
// approximate membership with a tunable false positive tolerance.
// No deletion, no resize; for those, see the quotient package.
package bloom

import (
	"math"

	"github.com/zeebo/xxh3"
)

// Filter is not safe for concurrent use.
type Filter struct {
	set   bitset
	m     uint64
	k     uint
	count uint64
}

// New sizes a filter for an expected number of elements and a false
// positive tolerance in (0, 1). Out-of-range tolerances fall back to
// 1%.
func New(expected uint64, tolerance float64) *Filter {
	m, k := optimalParams(expected, tolerance)
	return &Filter{set: newBitset(m), m: m, k: k}
}

func optimalParams(expected uint64, tolerance float64) (m uint64, k uint) {
	if expected == 0 {
		expected = 1
	}
	if tolerance <= 0 || tolerance >= 1 {
		tolerance = 0.01
	}
	lnp := math.Log(tolerance)
	m = uint64(math.Ceil(-float64(expected) * lnp / (math.Ln2 * math.Ln2)))
	if m < 64 {
		m = 64
	}
	k = uint(math.Ceil(-lnp / math.Ln2))
	if k == 0 {
		k = 1
	}
	return m, k
}

// positions derives the k bit positions from a single xxh3 hash: the
// two 32-bit halves seed a double-hashing sequence h1 + i*h2 mod m.
func (f *Filter) position(h uint64, i uint) uint64 {
	h1, h2 := h&0xffffffff, h>>32|1
	return (h1 + uint64(i)*h2) % f.m
}

func (f *Filter) Add(data []byte)    { f.add(xxh3.Hash(data)) }
func (f *Filter) AddString(s string) { f.add(xxh3.HashString(s)) }

func (f *Filter) add(h uint64) {
	for i := uint(0); i < f.k; i++ {
		f.set.set(f.position(h, i))
	}
	f.count++
}

// Test reports whether data may have been added; false is definite.
func (f *Filter) Test(data []byte) bool    { return f.test(xxh3.Hash(data)) }
func (f *Filter) TestString(s string) bool { return f.test(xxh3.HashString(s)) }

func (f *Filter) test(h uint64) bool {
	for i := uint(0); i < f.k; i++ {
		if !f.set.test(f.position(h, i)) {
			return false
		}
	}
	return true
}

// Count is the number of Add calls, not distinct elements.
func (f *Filter) Count() uint64 { return f.count }

func (f *Filter) Bits() uint64 { return f.m }
func (f *Filter) K() uint      { return f.k }

// FillRatio is the fraction of bits currently set.
func (f *Filter) FillRatio() float64 {
	return float64(f.set.ones()) / float64(f.m)
}
