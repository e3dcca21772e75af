package quotient

// cursor provides the traversal primitives over a table: cluster
// anchors, run boundaries, and occupied-quotient stepping. It reads
// metadata only and never mutates.
type cursor[F Fingerprint] struct {
	t *table[F]
}

// clusterStart walks backwards from i while slots are shifted and
// returns the cluster's anchor, the first non-shifted slot.
func (c cursor[F]) clusterStart(i uint) uint {
	for c.t.get(i).Shifted() {
		i = c.t.prev(i)
	}
	return i
}

// runLowest walks forward from i while slots continue a run and
// returns the first slot of the next run.
func (c cursor[F]) runLowest(i uint) uint {
	for c.t.get(i).Continuation() {
		i = c.t.next(i)
	}
	return i
}

// skipEmpty walks forward from i to the next index whose occupied bit
// is set.
func (c cursor[F]) skipEmpty(i uint) uint {
	for !c.t.get(i).Occupied() {
		i = c.t.next(i)
	}
	return i
}

// nextOccupied returns the first occupied index strictly past i. The
// walk advances monotonically and gives up after a full revolution:
// the caller asked for a quotient that must exist, so not finding one
// means the table is corrupt, never grounds for retrying.
func (c cursor[F]) nextOccupied(i uint) (uint, error) {
	idx := i
	for steps := uint(0); steps < c.t.size(); steps++ {
		idx = c.t.next(idx)
		if c.t.get(idx).Occupied() {
			return idx, nil
		}
	}
	return 0, ErrCorrupt.New("no occupied slot past index %d", i)
}

// findRun locates the first slot of home's run. It walks two cursors
// in lock step from the cluster anchor: b over occupied home indices
// and s over the runs stored for them, until b reaches home. The
// caller must have verified that home's occupied bit is set.
func (c cursor[F]) findRun(home uint) uint {
	b := c.clusterStart(home)
	s := b
	for b != home {
		s = c.runLowest(c.t.next(s))
		b = c.skipEmpty(c.t.next(b))
	}
	return s
}
