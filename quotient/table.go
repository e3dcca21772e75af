package quotient

// table is the circular slot array. It offers indexed access and ring
// arithmetic only; run and cluster semantics live in cursor and Filter.
type table[F Fingerprint] struct {
	slots []slot[F]
	ring  ring
}

func newTable[F Fingerprint](qbits uint) table[F] {
	r := newRing(qbits)
	return table[F]{
		slots: make([]slot[F], r.size()),
		ring:  r,
	}
}

func (t *table[F]) size() uint { return t.ring.size() }

func (t *table[F]) get(i uint) slot[F]     { return t.slots[i] }
func (t *table[F]) set(i uint, s slot[F])  { t.slots[i] = s }

func (t *table[F]) next(i uint) uint { return t.ring.next(i) }
func (t *table[F]) prev(i uint) uint { return t.ring.prev(i) }
