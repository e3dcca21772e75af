// Package dheap implements a d-ary max-heap priority queue with an
// auxiliary membership map, so Contains and duplicate rejection are
// O(1) while the heap itself stays a flat array.
package dheap

import "github.com/zeebo/errs"

var (
	// ErrDuplicate is returned when inserting an element already held.
	ErrDuplicate = errs.Class("duplicate element")

	// ErrPriority is returned for the maximum uint priority, which is
	// reserved to float elements to the root during removal.
	ErrPriority = errs.Class("reserved priority")
)

const maxPriority = ^uint(0)

// Pair couples an element with its priority.
type Pair[T comparable] struct {
	Element  T
	Priority uint
}

// Heap is not safe for concurrent use.
type Heap[T comparable] struct {
	data      []Pair[T]
	branching int
	members   map[T]struct{}
}

// New creates an empty heap. A branching factor below 2 falls back to
// 4, which keeps the tree shallow without making sift-down scans wide.
func New[T comparable](capacity, branching int) *Heap[T] {
	if branching < 2 {
		branching = 4
	}
	if capacity < 0 {
		capacity = 0
	}
	return &Heap[T]{
		data:      make([]Pair[T], 0, capacity),
		branching: branching,
		members:   make(map[T]struct{}, capacity),
	}
}

// FromPairs heapifies a slice of pairs in one pass.
func FromPairs[T comparable](pairs []Pair[T], branching int) (*Heap[T], error) {
	h := New[T](len(pairs), branching)
	for _, p := range pairs {
		if p.Priority == maxPriority {
			return nil, ErrPriority.New("priority %d", p.Priority)
		}
		if _, ok := h.members[p.Element]; ok {
			return nil, ErrDuplicate.New("%v", p.Element)
		}
		h.members[p.Element] = struct{}{}
		h.data = append(h.data, p)
	}
	for i := (len(h.data) - 2) / branching; i >= 0; i-- {
		h.pushDown(i)
	}
	return h, nil
}

func (h *Heap[T]) Len() int { return len(h.data) }

func (h *Heap[T]) Contains(element T) bool {
	_, ok := h.members[element]
	return ok
}

func (h *Heap[T]) Insert(element T, priority uint) error {
	if priority == maxPriority {
		return ErrPriority.New("priority %d", priority)
	}
	if _, ok := h.members[element]; ok {
		return ErrDuplicate.New("%v", element)
	}

	h.members[element] = struct{}{}
	h.data = append(h.data, Pair[T]{Element: element, Priority: priority})
	h.bubbleUp(len(h.data) - 1)
	return nil
}

// Peek returns the highest-priority pair without removing it.
func (h *Heap[T]) Peek() (Pair[T], bool) {
	if len(h.data) == 0 {
		return Pair[T]{}, false
	}
	return h.data[0], true
}

// Pop removes and returns the highest-priority pair.
func (h *Heap[T]) Pop() (Pair[T], bool) {
	if len(h.data) == 0 {
		return Pair[T]{}, false
	}

	root := h.data[0]
	delete(h.members, root.Element)

	last := len(h.data) - 1
	h.data[0] = h.data[last]
	h.data = h.data[:last]
	if last > 0 {
		h.pushDown(0)
	}
	return root, true
}

// Remove takes an arbitrary element out of the heap by floating it to
// the root on the reserved priority and popping it.
func (h *Heap[T]) Remove(element T) bool {
	i := h.find(element)
	if i < 0 {
		return false
	}

	h.data[i].Priority = maxPriority
	h.bubbleUp(i)
	h.Pop()
	return true
}

// UpdatePriority changes an element's priority in place. Updating an
// absent element is a no-op.
func (h *Heap[T]) UpdatePriority(element T, priority uint) error {
	if priority == maxPriority {
		return ErrPriority.New("priority %d", priority)
	}
	i := h.find(element)
	if i < 0 {
		return nil
	}

	old := h.data[i].Priority
	h.data[i].Priority = priority
	if priority > old {
		h.bubbleUp(i)
	} else {
		h.pushDown(i)
	}
	return nil
}

func (h *Heap[T]) find(element T) int {
	if _, ok := h.members[element]; !ok {
		return -1
	}
	for i, p := range h.data {
		if p.Element == element {
			return i
		}
	}
	return -1
}

// bubbleUp sifts the element at i towards the root, moving parents
// down into the hole rather than swapping pairwise.
func (h *Heap[T]) bubbleUp(i int) {
	cur := h.data[i]
	for i > 0 {
		parent := (i - 1) / h.branching
		if h.data[parent].Priority >= cur.Priority {
			break
		}
		h.data[i] = h.data[parent]
		i = parent
	}
	h.data[i] = cur
}

// pushDown sifts the element at i towards the leaves.
func (h *Heap[T]) pushDown(i int) {
	cur := h.data[i]
	for {
		c := h.maxChild(i)
		if c == i || h.data[c].Priority <= cur.Priority {
			break
		}
		h.data[i] = h.data[c]
		i = c
	}
	h.data[i] = cur
}

// maxChild returns the index of i's highest-priority child, or i
// itself when i is a leaf.
func (h *Heap[T]) maxChild(i int) int {
	first := h.branching*i + 1
	if first >= len(h.data) {
		return i
	}
	last := first + h.branching
	if last > len(h.data) {
		last = len(h.data)
	}

	best := first
	for c := first + 1; c < last; c++ {
		if h.data[c].Priority > h.data[best].Priority {
			best = c
		}
	}
	return best
}
