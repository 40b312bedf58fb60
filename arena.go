package dynarray

import "unsafe"

// DefaultChunkSize is the default chunk size, in elements, for new arenas.
const DefaultChunkSize = 256

// chunk represents a single memory chunk within an arena.
type chunk[T any] struct {
	buf    []T // backing memory
	offset int // allocation offset within buf
}

// Arena is a chunked bump allocator of T. Chunks are charged to a Heap.
// Freeing or reallocating the most recent allocation of the current chunk
// happens in place; anything else is only reclaimed by Reset.
// Not goroutine-safe; wrap it in a SafeAllocator for shared use.
type Arena[T any] struct {
	chunks    []chunk[T]
	chunkSize int
	heap      *Heap
	current   int // index of the chunk serving allocations
	released  bool
}

var _ Allocator[int] = (*Arena[int])(nil)

// NewArena creates an arena whose chunks hold chunkSize elements and are
// charged to h. If chunkSize <= 0, DefaultChunkSize is used; if h is nil,
// SystemHeap is used. No chunk is allocated until the first request.
func NewArena[T any](h *Heap, chunkSize int) *Arena[T] {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if h == nil {
		h = SystemHeap
	}
	return &Arena[T]{chunkSize: chunkSize, heap: h, current: -1}
}

// Allocate returns a zeroed slice of n elements carved from the arena.
// Returns nil if n <= 0.
func (a *Arena[T]) Allocate(n int) ([]T, error) {
	a.panicIfReleased()
	if n <= 0 {
		return nil, nil
	}

	// Fast path: current chunk has room
	if a.current >= 0 {
		c := &a.chunks[a.current]
		if c.offset+n <= len(c.buf) {
			start := c.offset
			c.offset += n
			return c.buf[start:c.offset:c.offset], nil
		}
	}

	// Slow path: need another chunk
	return a.allocateSlow(n)
}

// allocateSlow handles allocation when the current chunk is full. Reset
// leaves earlier chunks empty, so those are reused before growing.
func (a *Arena[T]) allocateSlow(n int) ([]T, error) {
	for i := a.current + 1; i < len(a.chunks); i++ {
		c := &a.chunks[i]
		if c.offset+n <= len(c.buf) {
			a.current = i
			start := c.offset
			c.offset += n
			return c.buf[start:c.offset:c.offset], nil
		}
	}
	if err := a.grow(n); err != nil {
		return nil, err
	}
	c := &a.chunks[a.current]
	c.offset = n
	return c.buf[:n:n], nil
}

// Reallocate resizes buf to n elements. When buf is the most recent
// allocation of the current chunk it is resized in place if it fits.
func (a *Arena[T]) Reallocate(buf []T, n int) ([]T, error) {
	a.panicIfReleased()
	switch {
	case buf == nil:
		return a.Allocate(n)
	case n <= 0:
		a.Free(buf)
		return nil, nil
	case n == len(buf):
		return buf, nil
	}

	if c, start, ok := a.top(buf); ok {
		if n < len(buf) {
			clear(buf[n:])
			c.offset = start + n
			return buf[:n:n], nil
		}
		if start+n <= len(c.buf) {
			c.offset = start + n
			return c.buf[start : start+n : start+n], nil
		}
	} else if n < len(buf) {
		clear(buf[n:])
		return buf[:n:n], nil
	}

	moved, err := a.Allocate(n)
	if err != nil {
		return nil, err
	}
	copy(moved, buf)
	a.Free(buf)
	return moved, nil
}

// Free rolls the bump pointer back if buf is the most recent allocation of
// the current chunk. Other buffers are zeroed and reclaimed by Reset.
func (a *Arena[T]) Free(buf []T) {
	a.panicIfReleased()
	if len(buf) == 0 {
		return
	}
	clear(buf)
	if c, start, ok := a.top(buf); ok {
		c.offset = start
	}
}

// top reports whether buf ends at the bump pointer of the current chunk.
func (a *Arena[T]) top(buf []T) (*chunk[T], int, bool) {
	if a.current < 0 || len(buf) == 0 {
		return nil, 0, false
	}
	c := &a.chunks[a.current]
	start := c.offset - len(buf)
	if start < 0 {
		return nil, 0, false
	}
	if unsafe.SliceData(buf) != &c.buf[start] {
		return nil, 0, false
	}
	return c, start, true
}

// Reset resets allocation offsets to zero but keeps allocated chunks for reuse.
// Every slice handed out before Reset becomes invalid.
func (a *Arena[T]) Reset() {
	a.panicIfReleased()
	for i := range a.chunks {
		clear(a.chunks[i].buf[:a.chunks[i].offset])
		a.chunks[i].offset = 0
	}
	if len(a.chunks) > 0 {
		a.current = 0
	}
}

// Release drops all chunks, returns their bytes to the heap and makes the
// arena unusable. Any subsequent operations will panic.
func (a *Arena[T]) Release() {
	if a.released {
		return
	}
	for _, c := range a.chunks {
		a.heap.release(bytesFor[T](len(c.buf)))
	}
	a.chunks = nil
	a.current = -1
	a.released = true
}

// grow appends a new chunk of at least n elements and makes it current.
func (a *Arena[T]) grow(n int) error {
	size := max(a.chunkSize, n)
	if err := a.heap.reserve(bytesFor[T](size)); err != nil {
		return err
	}
	a.chunks = append(a.chunks, chunk[T]{buf: make([]T, size)})
	a.current = len(a.chunks) - 1
	return nil
}

// panicIfReleased panics if the arena has been released.
func (a *Arena[T]) panicIfReleased() {
	if a.released {
		panic("dynarray: arena used after Release()")
	}
}
