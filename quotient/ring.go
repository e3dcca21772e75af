package quotient

// ring centralizes circular index arithmetic for a power-of-two table.
type ring struct {
	mask uint
}

func newRing(qbits uint) ring { return ring{mask: 1<<qbits - 1} }

func (r ring) size() uint { return r.mask + 1 }

func (r ring) next(i uint) uint { return (i + 1) & r.mask }
func (r ring) prev(i uint) uint { return (i - 1) & r.mask }
