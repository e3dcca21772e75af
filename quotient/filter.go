package quotient

import "github.com/zeebo/mon"

// Filter is a quotient filter: an open-addressed table of fingerprint
// remainders supporting insert, lookup, delete, doubling resize, and
// set-union merge. It is not synchronized; callers serialize access.
type Filter[F Fingerprint] struct {
	tab   table[F]
	cur   cursor[F]
	cod   codec[F]
	qbits uint
	count uint
}

// maxQuotientBits caps the table index width per fingerprint width.
func maxQuotientBits(w uint) uint {
	if w == 32 {
		return 30
	}
	return 61
}

// New constructs a filter with 2^quotientBits slots. The remainder
// width is whatever the fingerprint width leaves over.
func New[F Fingerprint](quotientBits uint) (*Filter[F], error) {
	w := fingerprintBits[F]()
	if quotientBits == 0 || quotientBits > maxQuotientBits(w) {
		return nil, ErrConfig.New("%d quotient bits with %d-bit fingerprints", quotientBits, w)
	}
	f := new(Filter[F])
	f.reset(quotientBits)
	f.cur = cursor[F]{t: &f.tab}
	return f, nil
}

func (f *Filter[F]) reset(qbits uint) {
	f.tab = newTable[F](qbits)
	f.cod = codec[F]{rbits: fingerprintBits[F]() - qbits}
	f.qbits = qbits
	f.count = 0
}

func (f *Filter[F]) Len() uint           { return f.count }
func (f *Filter[F]) Cap() uint           { return f.tab.size() }
func (f *Filter[F]) Empty() bool         { return f.count == 0 }
func (f *Filter[F]) QuotientBits() uint  { return f.qbits }
func (f *Filter[F]) RemainderBits() uint { return f.cod.rbits }

// Space reports the filter footprint in bits, counting each slot's
// remainder plus a byte of metadata.
func (f *Filter[F]) Space() uint64 {
	return uint64(f.tab.size()) * uint64(f.RemainderBits()+8)
}

// Insert hashes data and inserts its fingerprint, returning the slot
// index the remainder landed in.
func (f *Filter[F]) Insert(data []byte) (uint, error) {
	return f.InsertFingerprint(hashBytes[F](data))
}

var insertThunk mon.Thunk

func (f *Filter[F]) InsertFingerprint(fp F) (idx uint, err error) {
	timer := insertThunk.Start()
	idx, err = f.insert(fp)
	timer.Stop(&err)
	return idx, err
}

func (f *Filter[F]) insert(fp F) (uint, error) {
	// keep at least two slots free so every shift chain terminates
	if f.tab.size()-f.count <= 1 {
		if err := f.resize(); err != nil {
			return 0, err
		}
	}

	home, rem, err := f.cod.split(fp)
	if err != nil {
		return 0, err
	}

	hslot := f.tab.get(home)
	wasOccupied := hslot.Occupied()

	// a slot is reusable in place only when no run passes through it;
	// a tombstone inside a foreign run is handled by the full walk so
	// the new remainder lands in its own run
	if hslot.Empty() && !hslot.Continuation() && !hslot.Shifted() {
		f.tab.set(home, hslot.SetRemainder(rem).SetOccupied().ClearTombstone())
		f.count++
		return home, nil
	}
	if !wasOccupied {
		f.tab.set(home, hslot.SetOccupied())
	}

	// with home's occupied bit set, the lock-step walk lands exactly
	// where home's run belongs, whether it already exists or not: a
	// brand-new run splices in right there, displacing the next run
	run := f.cur.findRun(home)
	s := run

	// an existing run stays sorted ascending by remainder; a new run
	// never merges with the run it displaces
	if wasOccupied {
		for {
			sl := f.tab.get(s)
			if sl.Empty() || sl.Remainder() >= rem {
				break
			}
			s = f.tab.next(s)
			if !f.tab.get(s).Continuation() {
				break
			}
		}
	}

	ns := newSlot(rem)
	if s != home {
		ns = ns.SetShifted()
	}
	if wasOccupied {
		if s == run {
			// a new smallest remainder takes over as run head
			f.tab.set(run, f.tab.get(run).SetContinuation())
		} else {
			ns = ns.SetContinuation()
		}
	}

	f.shiftIn(s, ns)
	f.count++
	return s, nil
}

// shiftIn ripples ns into the table at idx, displacing each occupant
// one slot forward until the first empty slot. Occupied bits belong to
// indices and never travel: a displaced run head hands its bit to the
// slot taking its place.
func (f *Filter[F]) shiftIn(idx uint, ns slot[F]) {
	curr := ns
	for {
		prev := f.tab.get(idx)
		empty := prev.Empty()

		if prev.Occupied() {
			curr = curr.SetOccupied()
			prev = prev.ClearOccupied()
		}
		if !empty {
			prev = prev.SetShifted()
		}

		f.tab.set(idx, curr)
		if empty {
			return
		}

		curr = prev
		idx = f.tab.next(idx)
	}
}

// Contains reports whether data may have been inserted. False means
// definitely absent; true is wrong with probability about 1/2^R.
func (f *Filter[F]) Contains(data []byte) bool {
	return f.LookupFingerprint(hashBytes[F](data))
}

func (f *Filter[F]) LookupFingerprint(fp F) bool {
	home, rem, err := f.cod.split(fp)
	if err != nil {
		return false
	}
	if !f.tab.get(home).Occupied() {
		return false
	}

	s := f.cur.findRun(home)
	for {
		sl := f.tab.get(s)
		if !sl.Empty() && sl.Remainder() == rem {
			return true
		}
		s = f.tab.next(s)
		if !f.tab.get(s).Continuation() {
			return false
		}
	}
}

// Delete removes one slot matching data's remainder, if any. Deleting
// an absent element is a no-op, not an error, and an element that
// collides with a still-present one removes only a single slot.
func (f *Filter[F]) Delete(data []byte) {
	f.DeleteFingerprint(hashBytes[F](data))
}

func (f *Filter[F]) DeleteFingerprint(fp F) {
	home, rem, err := f.cod.split(fp)
	if err != nil {
		return
	}
	if !f.tab.get(home).Occupied() {
		return
	}

	run := f.cur.findRun(home)

	match := run
	found := false
	live := uint(0)
	for s := run; ; {
		sl := f.tab.get(s)
		if !sl.Empty() {
			live++
			if !found && sl.Remainder() == rem {
				match, found = s, true
			}
		}
		s = f.tab.next(s)
		if !f.tab.get(s).Continuation() {
			break
		}
	}
	if !found {
		return
	}

	if live == 1 && match == home && !f.tab.get(f.tab.next(match)).Shifted() {
		// the run's sole element sits in its own home with nothing
		// shifted past it; reclaim the slot outright
		f.tab.set(match, slot[F]{})
	} else {
		// the tombstone keeps run and cluster chains intact until the
		// next rebuild; lookups skip it and inserts may reuse it
		f.tab.set(match, f.tab.get(match).SetTombstone())
	}
	f.count--
}
