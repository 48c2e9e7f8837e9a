// Package queue implements the array-backed binary heap used by replacement
// selection.
package queue

import "github.com/CiroJunio/provao/record"

// Entry is a key tagged with the run (cycle) it belongs to.
type Entry struct {
	Key   record.KeyRef
	Cycle int
}

// CycleHeap orders entries by cycle, then by the comparator. The root is the
// next entry to emit.
type CycleHeap struct {
	cmp   record.Comparator
	items []Entry
}

// New returns an empty heap with room for capacity entries.
func New(cmp record.Comparator, capacity int) *CycleHeap {
	return &CycleHeap{
		cmp:   cmp,
		items: make([]Entry, 0, capacity),
	}
}

// Init replaces the contents with entries and restores the heap property.
// The heap takes ownership of the slice.
func (h *CycleHeap) Init(entries []Entry) {
	h.items = entries
	for i := len(h.items)/2 - 1; i >= 0; i-- {
		h.siftDown(i)
	}
}

// Len returns the number of entries.
func (h *CycleHeap) Len() int { return len(h.items) }

// Top returns the root without removing it.
func (h *CycleHeap) Top() (Entry, bool) {
	if len(h.items) == 0 {
		return Entry{}, false
	}
	return h.items[0], true
}

// Push inserts e.
func (h *CycleHeap) Push(e Entry) {
	h.items = append(h.items, e)
	h.siftUp(len(h.items) - 1)
}

// ReplaceTop overwrites the root with e and sifts it down.
// It reports false on an empty heap.
func (h *CycleHeap) ReplaceTop(e Entry) bool {
	if len(h.items) == 0 {
		return false
	}
	h.items[0] = e
	h.siftDown(0)
	return true
}

// RemoveTop moves the last entry to the root, shrinks the heap by one and
// returns the removed root.
func (h *CycleHeap) RemoveTop() (Entry, bool) {
	n := len(h.items)
	if n == 0 {
		return Entry{}, false
	}
	root := h.items[0]
	h.items[0] = h.items[n-1]
	h.items[n-1] = Entry{}
	h.items = h.items[:n-1]
	if n-1 > 0 {
		h.siftDown(0)
	}
	return root, true
}

// Entries returns the backing slice in heap order.
func (h *CycleHeap) Entries() []Entry { return h.items }

func (h *CycleHeap) less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.Cycle != b.Cycle {
		return a.Cycle < b.Cycle
	}
	return h.cmp.Less(a.Key, b.Key)
}

func (h *CycleHeap) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !h.less(i, p) {
			return
		}
		h.items[i], h.items[p] = h.items[p], h.items[i]
		i = p
	}
}

func (h *CycleHeap) siftDown(i int) {
	n := len(h.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		r := l + 1
		if r < n && h.less(r, l) {
			best = r
		}
		if !h.less(best, i) {
			return
		}
		h.items[i], h.items[best] = h.items[best], h.items[i]
		i = best
	}
}
