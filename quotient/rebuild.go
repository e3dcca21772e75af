package quotient

import (
	"sort"

	"github.com/zeebo/mon"
)

// iter walks the table cluster by cluster in index order, yielding the
// reconstructed fingerprint of every live slot. The quotient of a slot
// is inferred positionally: a cluster anchor resets it to the anchor's
// own index, every later run start advances it to the next occupied
// index.
type iter[F Fingerprint] struct {
	f   *Filter[F]
	idx uint
	quo uint
	vis uint
	fp  F
	err error
}

func (f *Filter[F]) iter() *iter[F] {
	it := &iter[F]{f: f}
	if f.count == 0 {
		return it
	}
	for steps := uint(0); steps < f.tab.size(); steps++ {
		if f.tab.get(it.idx).ClusterStart() {
			return it
		}
		it.idx = f.tab.next(it.idx)
	}
	it.err = ErrCorrupt.New("no cluster start in a table of %d elements", f.count)
	return it
}

func (it *iter[F]) Next() bool {
	if it.err != nil || it.vis >= it.f.count {
		return false
	}
	for steps := uint(0); steps <= it.f.tab.size(); steps++ {
		s := it.f.tab.get(it.idx)
		if s.ClusterStart() {
			it.quo = it.idx
		} else if s.RunStart() {
			quo, err := it.f.cur.nextOccupied(it.quo)
			if err != nil {
				it.err = err
				return false
			}
			it.quo = quo
		}
		it.idx = it.f.tab.next(it.idx)
		if !s.Empty() {
			it.fp = it.f.cod.reconstruct(it.quo, s.Remainder())
			it.vis++
			return true
		}
	}
	it.err = ErrCorrupt.New("fewer live slots than count %d", it.f.count)
	return false
}

func (it *iter[F]) Err() error     { return it.err }
func (it *iter[F]) Fingerprint() F { return it.fp }

// extract recovers every live fingerprint in cluster order.
func (f *Filter[F]) extract() ([]F, error) {
	fps := make([]F, 0, f.count)
	it := f.iter()
	for it.Next() {
		fps = append(fps, it.Fingerprint())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return fps, nil
}

// fingerprintMap groups the live fingerprints by quotient.
func (f *Filter[F]) fingerprintMap() (map[uint][]F, error) {
	m := make(map[uint][]F, f.count)
	it := f.iter()
	for it.Next() {
		m[it.quo] = append(m[it.quo], it.Fingerprint())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// checkpoint captures everything a rebuild clobbers, so that a failed
// resize or merge restores the filter exactly.
type checkpoint[F Fingerprint] struct {
	tab   table[F]
	cod   codec[F]
	qbits uint
	count uint
}

func (f *Filter[F]) checkpoint() checkpoint[F] {
	return checkpoint[F]{tab: f.tab, cod: f.cod, qbits: f.qbits, count: f.count}
}

func (c checkpoint[F]) restore(f *Filter[F]) {
	f.tab, f.cod, f.qbits, f.count = c.tab, c.cod, c.qbits, c.count
}

// Resize doubles the table, widening the quotient by one bit. The
// widening changes every fingerprint's split, so the whole table is
// extracted and rebuilt; on any failure the old table, size, and
// remainder width are restored exactly.
func (f *Filter[F]) Resize() (err error) {
	defer mon.Start().Stop(&err)
	return f.resize()
}

func (f *Filter[F]) resize() error {
	if f.qbits+1 > maxQuotientBits(fingerprintBits[F]()) {
		return ErrConfig.New("cannot grow past %d quotient bits", f.qbits)
	}

	fps, err := f.extract()
	if err != nil {
		return err
	}

	snap := f.checkpoint()
	f.reset(f.qbits + 1)
	for _, fp := range fps {
		if _, err := f.insert(fp); err != nil {
			snap.restore(f)
			return err
		}
	}
	return nil
}

// Merge adds every element of other into f, doubling f's table. Both
// filters must have equal table sizes. Merge is set union realized by
// full decode and rebuild; OR-ing tables bitwise would tear runs and
// clusters apart. On failure f is restored exactly; other is only
// read.
func (f *Filter[F]) Merge(other *Filter[F]) (err error) {
	defer mon.Start().Stop(&err)

	if f.tab.size() != other.tab.size() {
		return ErrSizeMismatch.New("%d slots vs %d slots", f.tab.size(), other.tab.size())
	}
	if f.qbits+1 > maxQuotientBits(fingerprintBits[F]()) {
		return ErrConfig.New("cannot grow past %d quotient bits", f.qbits)
	}

	union, err := f.fingerprintMap()
	if err != nil {
		return err
	}
	right, err := other.fingerprintMap()
	if err != nil {
		return err
	}
	for quo, fps := range right {
		union[quo] = append(union[quo], fps...)
	}

	quos := make([]uint, 0, len(union))
	for quo := range union {
		quos = append(quos, quo)
	}
	sort.Slice(quos, func(i, j int) bool { return quos[i] < quos[j] })

	snap := f.checkpoint()
	f.reset(f.qbits + 1)
	for _, quo := range quos {
		fps := union[quo]
		sort.Slice(fps, func(i, j int) bool { return fps[i] < fps[j] })
		for _, fp := range fps {
			if _, err := f.insert(fp); err != nil {
				snap.restore(f)
				return err
			}
		}
	}
	return nil
}
