package bloom

import "math/bits"

// bitset is a plain word-packed bit array.
type bitset []uint64

func newBitset(n uint64) bitset { return make(bitset, (n+63)/64) }

func (b bitset) set(i uint64)       { b[i/64] |= 1 << (i % 64) }
func (b bitset) test(i uint64) bool { return b[i/64]&(1<<(i%64)) != 0 }

func (b bitset) ones() uint64 {
	var n uint64
	for _, w := range b {
		n += uint64(bits.OnesCount64(w))
	}
	return n
}
