// Package sketch implements a count-min sketch: a fixed array of
// counters giving a never-underestimating frequency estimate. Sketch
// is single-writer; ASketch adds a lock per counter cell so disjoint
// updates proceed concurrently.
package sketch

import (
	"hash/fnv"

	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// rows is the number of independent hash rows. One flat array with a
// per-row offset stands in for an array of arrays.
const rows = 3

// cells maps data to one counter cell per hash row.
func cells(capacity uint64, data []byte) [rows]uint64 {
	h := fnv.New64a()
	h.Write(data)

	return [rows]uint64{
		0*capacity + xxh3.Hash(data)%capacity,
		1*capacity + murmur3.Sum64(data)%capacity,
		2*capacity + h.Sum64()%capacity,
	}
}

type Sketch struct {
	data     []uint64
	capacity uint64
}

// New creates a sketch with capacity counters per hash row. Wider
// capacity lowers the chance of unrelated elements sharing cells.
func New(capacity uint64) *Sketch {
	if capacity == 0 {
		capacity = 1
	}
	return &Sketch{
		data:     make([]uint64, rows*capacity),
		capacity: capacity,
	}
}

func (s *Sketch) Update(data []byte) {
	for _, c := range cells(s.capacity, data) {
		s.data[c]++
	}
}

// Estimate returns the smallest of the element's row counters. It
// never undercounts; shared cells can make it overcount.
func (s *Sketch) Estimate(data []byte) uint64 {
	min := ^uint64(0)
	for _, c := range cells(s.capacity, data) {
		if s.data[c] < min {
			min = s.data[c]
		}
	}
	return min
}
