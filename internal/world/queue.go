package world

import "container/heap"

// PriorityQueue is a binary heap ordered by a caller-supplied less function.
// Items comparing equal pop in insertion order.
type PriorityQueue[T any] struct {
	h *entryHeap[T]
}

// NewPriorityQueue creates an empty queue. less(a, b) means a pops before b.
func NewPriorityQueue[T any](less func(a, b T) bool) *PriorityQueue[T] {
	return &PriorityQueue[T]{h: &entryHeap[T]{less: less}}
}

// Push adds an item.
func (q *PriorityQueue[T]) Push(item T) {
	q.h.seq++
	heap.Push(q.h, queueEntry[T]{item: item, seq: q.h.seq})
}

// Pop removes and returns the first item. It panics on an empty queue.
func (q *PriorityQueue[T]) Pop() T {
	return heap.Pop(q.h).(queueEntry[T]).item
}

// Len returns the number of queued items.
func (q *PriorityQueue[T]) Len() int {
	return q.h.Len()
}

// Empty reports whether the queue has no items.
func (q *PriorityQueue[T]) Empty() bool {
	return q.h.Len() == 0
}

type queueEntry[T any] struct {
	item T
	seq  uint64
}

type entryHeap[T any] struct {
	entries []queueEntry[T]
	less    func(a, b T) bool
	seq     uint64
}

func (h entryHeap[T]) Len() int { return len(h.entries) }

func (h entryHeap[T]) Less(i, j int) bool {
	a, b := h.entries[i], h.entries[j]
	if h.less(a.item, b.item) {
		return true
	}
	if h.less(b.item, a.item) {
		return false
	}
	return a.seq < b.seq
}

func (h entryHeap[T]) Swap(i, j int) { h.entries[i], h.entries[j] = h.entries[j], h.entries[i] }

func (h *entryHeap[T]) Push(x any) {
	h.entries = append(h.entries, x.(queueEntry[T]))
}

func (h *entryHeap[T]) Pop() any {
	old := h.entries
	n := len(old)
	item := old[n-1]
	var zero queueEntry[T]
	old[n-1] = zero // avoid memory leak
	h.entries = old[:n-1]
	return item
}
