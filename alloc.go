package dynarray

import (
	"sync/atomic"
	"unsafe"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Allocator provides backing stores of T for an Array.
//
// Allocate(0) and Reallocate(buf, 0) return a nil slice and release whatever
// buf held. Reallocate(nil, n) behaves like Allocate(n). Reallocate keeps the
// first min(len(buf), n) elements and may move them; on error buf is left
// untouched and still owned by the caller.
type Allocator[T any] interface {
	Allocate(n int) ([]T, error)
	Reallocate(buf []T, n int) ([]T, error)
	Free(buf []T)
}

// Heap is a named memory region with an optional byte limit.
// Allocators charge their slices against a heap; a request that would push
// the heap past its limit fails with ErrOutOfMemory. Heap is goroutine-safe.
type Heap struct {
	name  string
	limit int64 // 0 means unlimited

	inUse    atomic.Int64
	peak     atomic.Int64
	allocs   atomic.Int64
	frees    atomic.Int64
	failures atomic.Int64

	logger atomic.Pointer[zap.Logger]
}

// SystemHeap is the unlimited region used when an array is created without
// an allocator.
var SystemHeap = NewHeap("system", 0)

// NewHeap creates a heap called name. If limit <= 0 the heap is unlimited.
func NewHeap(name string, limit int) *Heap {
	if limit < 0 {
		limit = 0
	}
	h := &Heap{name: name, limit: int64(limit)}
	h.logger.Store(zap.NewNop())
	return h
}

// Name returns the region name.
func (h *Heap) Name() string {
	return h.name
}

// SetLogger replaces the logger used to report allocation failures.
func (h *Heap) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	h.logger.Store(l)
}

// reserve charges n bytes to the heap.
func (h *Heap) reserve(n int64) error {
	if n <= 0 {
		return nil
	}
	for {
		cur := h.inUse.Load()
		next := cur + n
		if h.limit > 0 && next > h.limit {
			h.failures.Add(1)
			h.logger.Load().Warn("heap limit exceeded",
				zap.String("heap", h.name),
				zap.Int64("request", n),
				zap.Int64("inuse", cur),
				zap.Int64("limit", h.limit),
			)
			return errors.Wrapf(ErrOutOfMemory, "heap %q: request %d bytes, in use %d of %d",
				h.name, n, cur, h.limit)
		}
		if h.inUse.CompareAndSwap(cur, next) {
			h.allocs.Add(1)
			h.updatePeak(next)
			return nil
		}
	}
}

// release returns the n bytes of a freed buffer to the heap.
func (h *Heap) release(n int64) {
	if n <= 0 {
		return
	}
	h.inUse.Add(-n)
	h.frees.Add(1)
}

// shrink returns n bytes of a buffer that stays live. It is not a free.
func (h *Heap) shrink(n int64) {
	if n > 0 {
		h.inUse.Add(-n)
	}
}

func (h *Heap) updatePeak(n int64) {
	for {
		p := h.peak.Load()
		if n <= p || h.peak.CompareAndSwap(p, n) {
			return
		}
	}
}

// HeapAllocator allocates runtime-managed slices and charges them to a Heap.
// Growing a buffer always moves it.
type HeapAllocator[T any] struct {
	heap *Heap
}

var _ Allocator[int] = (*HeapAllocator[int])(nil)

// NewHeapAllocator returns an allocator drawing from h.
// If h is nil, SystemHeap is used.
func NewHeapAllocator[T any](h *Heap) *HeapAllocator[T] {
	if h == nil {
		h = SystemHeap
	}
	return &HeapAllocator[T]{heap: h}
}

// Heap returns the region this allocator draws from.
func (a *HeapAllocator[T]) Heap() *Heap {
	return a.heap
}

// Allocate returns a zeroed slice of n elements.
// Returns nil if n <= 0.
func (a *HeapAllocator[T]) Allocate(n int) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	if err := a.heap.reserve(bytesFor[T](n)); err != nil {
		return nil, err
	}
	return make([]T, n), nil
}

// Reallocate resizes buf to n elements.
func (a *HeapAllocator[T]) Reallocate(buf []T, n int) ([]T, error) {
	switch {
	case buf == nil:
		return a.Allocate(n)
	case n <= 0:
		a.Free(buf)
		return nil, nil
	case n == len(buf):
		return buf, nil
	case n < len(buf):
		// Shrink in place; the dropped tail no longer counts against the heap.
		clear(buf[n:])
		a.heap.shrink(bytesFor[T](len(buf) - n))
		return buf[:n:n], nil
	}
	if err := a.heap.reserve(bytesFor[T](n - len(buf))); err != nil {
		return nil, err
	}
	grown := make([]T, n)
	copy(grown, buf)
	clear(buf)
	return grown, nil
}

// Free returns buf to the heap. buf must not be used afterwards.
func (a *HeapAllocator[T]) Free(buf []T) {
	if len(buf) == 0 {
		return
	}
	clear(buf)
	a.heap.release(bytesFor[T](len(buf)))
}

// sizeOf returns the size in bytes of one T.
func sizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// bytesFor returns the heap charge for n elements of T.
// Zero-sized types are charged one byte each so that counting still works.
func bytesFor[T any](n int) int64 {
	size := sizeOf[T]()
	if size == 0 {
		size = 1
	}
	return int64(size) * int64(n)
}
