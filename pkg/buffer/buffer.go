// Package buffer provides the byte block exchanged across a graph edge.
//
// A Buffer has exactly one producer (the node whose output slot points at it)
// and one consumer (the node whose input slot points at it). Copy operations
// (Write, Read, Bytes) and Resize are serialized by the buffer's own lock.
// Data returns the raw backing slice and is not synchronized; callers that use
// it are responsible for coordinating with the other endpoint.
package buffer

import "sync"

// Buffer is an owned, resizable block of bytes. Its capacity only changes
// through New or Resize; writes never grow it.
type Buffer struct {
	mu      sync.RWMutex
	data    []byte
	version uint64
}

// New allocates a zeroed buffer of the given size. Negative sizes are treated
// as zero.
func New(size int) *Buffer {
	if size < 0 {
		size = 0
	}
	return &Buffer{data: make([]byte, size)}
}

// Resize reallocates storage to hold exactly n bytes. The previous content is
// not guaranteed to survive.
func (b *Buffer) Resize(n int) {
	if n < 0 {
		n = 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = make([]byte, n)
	b.version++
}

// Size returns the current capacity in bytes.
func (b *Buffer) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data)
}

// Data returns the backing slice. Access through it is unsynchronized.
func (b *Buffer) Data() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.data
}

// Write copies p into the start of the buffer and returns the number of bytes
// copied. Bytes beyond Size are dropped.
func (b *Buffer) Write(p []byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := copy(b.data, p)
	b.version++
	return n
}

// Read copies the buffer content into p and returns the number of bytes
// copied.
func (b *Buffer) Read(p []byte) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return copy(p, b.data)
}

// Bytes returns a copy of the whole buffer.
func (b *Buffer) Bytes() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// Version increases on every Write and Resize. A consumer can compare it with
// zero to tell whether anything has been written since allocation.
func (b *Buffer) Version() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}
