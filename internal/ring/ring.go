// Package ring provides a fixed-capacity buffer that drops its oldest item on overflow.
package ring

import "sync"

// Buffer keeps the most recent Cap() items pushed into it.
// It is safe for concurrent use.
type Buffer[T any] struct {
	mu     sync.Mutex
	data   []T
	start  int
	length int
}

// New returns a buffer holding at most capacity items.
// A non-positive capacity yields a buffer that discards everything.
func New[T any](capacity int) *Buffer[T] {
	if capacity <= 0 {
		return &Buffer[T]{}
	}
	return &Buffer[T]{data: make([]T, capacity)}
}

// Push appends item, evicting the oldest one when full.
func (r *Buffer[T]) Push(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.data) == 0 {
		return
	}
	idx := (r.start + r.length) % len(r.data)
	r.data[idx] = item
	if r.length < len(r.data) {
		r.length++
		return
	}
	r.start = (r.start + 1) % len(r.data)
}

// Slice returns a copy of the retained items, oldest first.
func (r *Buffer[T]) Slice() []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.length == 0 {
		return nil
	}
	result := make([]T, r.length)
	for i := 0; i < r.length; i++ {
		result[i] = r.data[(r.start+i)%len(r.data)]
	}
	return result
}

// Len reports how many items are retained.
func (r *Buffer[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.length
}

// Cap reports the buffer capacity.
func (r *Buffer[T]) Cap() int {
	return len(r.data)
}

// Reset drops every retained item.
func (r *Buffer[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	for i := range r.data {
		r.data[i] = zero
	}
	r.start = 0
	r.length = 0
}
