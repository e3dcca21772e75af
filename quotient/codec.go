package quotient

import "unsafe"

// Fingerprint is the set of hash widths a filter can store.
type Fingerprint interface {
	~uint32 | ~uint64
}

// fingerprintBits is the width W of the fingerprint type in bits.
func fingerprintBits[F Fingerprint]() uint {
	var zero F
	return uint(unsafe.Sizeof(zero)) * 8
}

// codec splits a fingerprint into its quotient (the high Q bits, used
// as the home index) and remainder (the low R bits, stored in a slot),
// and recombines them. Pure and stateless beyond the current split.
type codec[F Fingerprint] struct {
	rbits uint
}

func (c codec[F]) split(fp F) (quo uint, rem F, err error) {
	q := fp >> c.rbits
	if uint64(q) != uint64(uint(q)) {
		return 0, 0, ErrConversion.New("quotient %d does not fit a table index", uint64(q))
	}
	return uint(q), fp & (1<<c.rbits - 1), nil
}

// reconstruct rebuilds a fingerprint from a slot's remainder and the
// quotient inferred from its position. Only resize and merge need it.
func (c codec[F]) reconstruct(quo uint, rem F) F {
	return F(quo)<<c.rbits | rem&(1<<c.rbits-1)
}
