package sketch

import "sync"

// ASketch is a count-min sketch safe for concurrent use. Instead of
// one lock over the whole array it holds a lock per counter cell,
// taken in hash-row order. Rows occupy disjoint index ranges, so every
// goroutine acquires its locks in ascending order and updates to
// disjoint cells never contend.
type ASketch struct {
	locks    []sync.RWMutex
	data     []uint64
	capacity uint64
}

func NewA(capacity uint64) *ASketch {
	if capacity == 0 {
		capacity = 1
	}
	return &ASketch{
		locks:    make([]sync.RWMutex, rows*capacity),
		data:     make([]uint64, rows*capacity),
		capacity: capacity,
	}
}

func (s *ASketch) Update(data []byte) {
	for _, c := range cells(s.capacity, data) {
		s.locks[c].Lock()
		s.data[c]++
		s.locks[c].Unlock()
	}
}

func (s *ASketch) Estimate(data []byte) uint64 {
	min := ^uint64(0)
	for _, c := range cells(s.capacity, data) {
		s.locks[c].RLock()
		v := s.data[c]
		s.locks[c].RUnlock()
		if v < min {
			min = v
		}
	}
	return min
}
