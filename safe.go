package dynarray

import "sync"

// SafeAllocator is a mutex-protected wrapper around an Allocator for use by
// arrays living on different goroutines. The arrays themselves are still not
// goroutine-safe; only the shared allocator is.
type SafeAllocator[T any] struct {
	mu sync.Mutex
	a  Allocator[T]
}

var _ Allocator[int] = (*SafeAllocator[int])(nil)

// NewSafeAllocator wraps a.
func NewSafeAllocator[T any](a Allocator[T]) *SafeAllocator[T] {
	return &SafeAllocator[T]{a: a}
}

// Allocate thread-safely allocates n elements.
func (s *SafeAllocator[T]) Allocate(n int) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Allocate(n)
}

// Reallocate thread-safely resizes buf to n elements.
func (s *SafeAllocator[T]) Reallocate(buf []T, n int) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Reallocate(buf, n)
}

// Free thread-safely releases buf.
func (s *SafeAllocator[T]) Free(buf []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Free(buf)
}

// Do runs fn with exclusive access to the wrapped allocator, e.g. to Reset
// an Arena or read its metrics while other goroutines allocate.
func (s *SafeAllocator[T]) Do(fn func(a Allocator[T])) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.a)
}
