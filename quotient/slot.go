package quotient

// metadata packs the four per-slot flags into a byte. All flag access
// goes through the named accessors so the engine never touches raw bits.
type metadata uint8

const (
	metaOccupied metadata = 1 << iota
	metaContinuation
	metaShifted
	metaTombstone
)

func (m metadata) Occupied() bool         { return m&metaOccupied != 0 }
func (m metadata) SetOccupied() metadata  { return m | metaOccupied }
func (m metadata) ClearOccupied() metadata { return m &^ metaOccupied }

func (m metadata) Continuation() bool            { return m&metaContinuation != 0 }
func (m metadata) SetContinuation() metadata     { return m | metaContinuation }
func (m metadata) ClearContinuation() metadata   { return m &^ metaContinuation }

func (m metadata) Shifted() bool        { return m&metaShifted != 0 }
func (m metadata) SetShifted() metadata { return m | metaShifted }
func (m metadata) ClearShifted() metadata { return m &^ metaShifted }

func (m metadata) Tombstone() bool         { return m&metaTombstone != 0 }
func (m metadata) SetTombstone() metadata  { return m | metaTombstone }
func (m metadata) ClearTombstone() metadata { return m &^ metaTombstone }

// slot is one cell of the table: a remainder plus its metadata. A slot
// is passed and updated by value; only the table stores them.
type slot[F Fingerprint] struct {
	rem  F
	meta metadata
}

func newSlot[F Fingerprint](rem F) slot[F] { return slot[F]{rem: rem} }

func (s slot[F]) Remainder() F { return s.rem }

func (s slot[F]) SetRemainder(rem F) slot[F] { s.rem = rem; return s }

// Empty reports whether the slot is free for insertion. A tombstoned
// slot is empty no matter what else its metadata says.
func (s slot[F]) Empty() bool {
	return s.meta.Tombstone() ||
		s.meta&(metaOccupied|metaContinuation|metaShifted) == 0
}

func (s slot[F]) Occupied() bool     { return s.meta.Occupied() }
func (s slot[F]) Continuation() bool { return s.meta.Continuation() }
func (s slot[F]) Shifted() bool      { return s.meta.Shifted() }
func (s slot[F]) Tombstone() bool    { return s.meta.Tombstone() }

func (s slot[F]) SetOccupied() slot[F]   { s.meta = s.meta.SetOccupied(); return s }
func (s slot[F]) ClearOccupied() slot[F] { s.meta = s.meta.ClearOccupied(); return s }

func (s slot[F]) SetContinuation() slot[F]   { s.meta = s.meta.SetContinuation(); return s }
func (s slot[F]) ClearContinuation() slot[F] { s.meta = s.meta.ClearContinuation(); return s }

func (s slot[F]) SetShifted() slot[F]   { s.meta = s.meta.SetShifted(); return s }
func (s slot[F]) ClearShifted() slot[F] { s.meta = s.meta.ClearShifted(); return s }

func (s slot[F]) SetTombstone() slot[F]   { s.meta = s.meta.SetTombstone(); return s }
func (s slot[F]) ClearTombstone() slot[F] { s.meta = s.meta.ClearTombstone(); return s }

// ClusterStart reports whether the slot anchors a cluster. Metadata
// only: a tombstoned anchor still anchors the slots shifted past it.
func (s slot[F]) ClusterStart() bool {
	return s.Occupied() && !s.Continuation() && !s.Shifted()
}

// RunStart reports whether the slot begins a run inside a cluster.
func (s slot[F]) RunStart() bool {
	return !s.Continuation() && (s.Occupied() || s.Shifted())
}
