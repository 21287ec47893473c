// Package ringbuf implements a small slice-backed FIFO buffer used by the
// input queues to hold a sliding window of recent values without
// reallocating on every push. The buffer does not bound itself; its users
// enforce their own limits.
package ringbuf

// Buffer is a slice-backed FIFO whose capacity is only an initial size.
// Pushing past capacity grows the backing array; TruncFront is the normal
// way to keep it small.
type Buffer[T any] struct {
	data  []T
	start int
}

// New creates a buffer with the given initial capacity hint.
func New[T any](capacity int) *Buffer[T] {
	return &Buffer[T]{
		data: make([]T, 0, capacity),
	}
}

// Len returns the number of elements currently held.
func (b *Buffer[T]) Len() int {
	return len(b.data) - b.start
}

// PushBack appends a value to the end of the buffer.
func (b *Buffer[T]) PushBack(v T) {
	b.data = append(b.data, v)
}

// At returns the i-th element counting from the front.
func (b *Buffer[T]) At(i int) T {
	return b.data[b.start+i]
}

// Set overwrites the i-th element counting from the front.
func (b *Buffer[T]) Set(i int, v T) {
	b.data[b.start+i] = v
}

// Front returns the first element. Panics if the buffer is empty.
func (b *Buffer[T]) Front() T {
	return b.data[b.start]
}

// Back returns the last element. Panics if the buffer is empty.
func (b *Buffer[T]) Back() T {
	return b.data[len(b.data)-1]
}

// TruncFront discards the first n elements, compacting the backing array
// once the discarded prefix grows past half of it.
func (b *Buffer[T]) TruncFront(n int) {
	b.start += n

	if b.start > len(b.data)/2 {
		remaining := len(b.data) - b.start
		copy(b.data, b.data[b.start:])
		b.data = b.data[:remaining]
		b.start = 0
	}
}

// Reset empties the buffer, keeping the backing array for reuse.
func (b *Buffer[T]) Reset() {
	b.data = b.data[:0]
	b.start = 0
}
