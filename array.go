package dynarray

import (
	"iter"

	"go.uber.org/zap"
)

// Array is a growable, indexable sequence of T whose backing store comes
// from an Allocator.
//
// If a cleanup hook is given, the array owns its elements: the hook runs
// exactly once for each element that leaves the array through Erase, a
// shrinking Resize, Clear or Release. PopBack and Take hand the element back
// to the caller without running it. The hook must not modify the array.
//
// Array is not goroutine-safe.
type Array[T any] struct {
	data      []T // backing store; len(data) is the capacity
	length    int
	increment int
	cleanup   func(T)
	alloc     Allocator[T]
	logger    *zap.Logger
	released  bool
}

// New creates an array drawing its backing store from alloc. If alloc is
// nil, a HeapAllocator on SystemHeap is used. cleanup may be nil.
// It fails with ErrAllocation if the initial backing store cannot be allocated.
func New[T any](alloc Allocator[T], cleanup func(T), opts ...Option) (*Array[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if alloc == nil {
		alloc = NewHeapAllocator[T](SystemHeap)
	}
	a := &Array[T]{
		increment: o.increment,
		cleanup:   cleanup,
		alloc:     alloc,
		logger:    o.logger,
	}
	data, err := alloc.Allocate(o.capacity)
	if err != nil {
		a.logger.Warn("array allocation failed", zap.Int("capacity", o.capacity), zap.Error(err))
		return nil, allocationError(err, "create", o.capacity)
	}
	a.data = data
	return a, nil
}

// Len returns the number of live elements.
func (a *Array[T]) Len() int {
	return a.length
}

// Cap returns the number of allocated slots.
func (a *Array[T]) Cap() int {
	return len(a.data)
}

// PushBack appends v, growing the backing store by the configured increment
// when it is full. On failure nothing is recorded and the array is unchanged.
func (a *Array[T]) PushBack(v T) error {
	a.panicIfReleased()
	if a.length == len(a.data) {
		if err := a.realloc(len(a.data)+a.increment, "push"); err != nil {
			return err
		}
	}
	a.data[a.length] = v
	a.length++
	return nil
}

// PopBack removes and returns the last element without running the cleanup
// hook. The second result is false if the array is empty. Capacity is kept.
func (a *Array[T]) PopBack() (T, bool) {
	a.panicIfReleased()
	var zero T
	if a.length == 0 {
		return zero, false
	}
	a.length--
	v := a.data[a.length]
	a.data[a.length] = zero
	return v, true
}

// At returns the element at index i.
func (a *Array[T]) At(i int) (T, error) {
	a.panicIfReleased()
	if i < 0 || i >= a.length {
		var zero T
		return zero, indexError("at", i, a.length)
	}
	return a.data[i], nil
}

// Take removes and returns the element at index i without running the
// cleanup hook. Later elements shift left by one, keeping their order.
func (a *Array[T]) Take(i int) (T, error) {
	a.panicIfReleased()
	if i < 0 || i >= a.length {
		var zero T
		return zero, indexError("take", i, a.length)
	}
	return a.take(i), nil
}

// Erase removes the element at index i, running the cleanup hook on it.
// Later elements shift left by one, keeping their order.
func (a *Array[T]) Erase(i int) error {
	a.panicIfReleased()
	if i < 0 || i >= a.length {
		return indexError("erase", i, a.length)
	}
	v := a.take(i)
	if a.cleanup != nil {
		a.cleanup(v)
	}
	return nil
}

func (a *Array[T]) take(i int) T {
	v := a.data[i]
	copy(a.data[i:a.length-1], a.data[i+1:a.length])
	a.length--
	var zero T
	a.data[a.length] = zero
	return v
}

// Resize sets the capacity to exactly n slots.
//
// Resize(0) is Clear. When n is below the length, the cleanup hook runs on
// the elements in [n, Len()) and the length becomes n. Growing leaves the
// length unchanged and only makes room. If the allocator fails, the error
// wraps ErrAllocation; elements already truncated stay truncated but the
// backing store and capacity remain those before the call.
func (a *Array[T]) Resize(n int) error {
	a.panicIfReleased()
	switch {
	case n < 0:
		return indexError("resize", n, a.length)
	case n == a.length:
		return nil
	case n == 0:
		a.Clear()
		return nil
	}
	if n < a.length {
		a.truncate(n)
	}
	return a.realloc(n, "resize")
}

// truncate drops the elements in [n, length), running the cleanup hook on
// each one.
func (a *Array[T]) truncate(n int) {
	tail := a.data[n:a.length]
	a.length = n
	if a.cleanup != nil {
		for _, v := range tail {
			a.cleanup(v)
		}
	}
	clear(tail)
}

// Clear runs the cleanup hook on every element, frees the backing store and
// leaves the array empty with zero capacity. The array stays usable.
func (a *Array[T]) Clear() {
	a.panicIfReleased()
	a.truncate(0)
	a.alloc.Free(a.data)
	a.data = nil
}

// Release clears the array and makes it unusable. Release must be called
// exactly once; any later call on the array panics.
func (a *Array[T]) Release() {
	a.Clear()
	a.released = true
}

// Sort orders the elements in place by cmp, which returns a negative number
// when x sorts before y, zero when they are equal and a positive number
// otherwise. Equal elements may be reordered; use ISort to keep their order.
func (a *Array[T]) Sort(cmp func(x, y T) int) {
	a.panicIfReleased()
	if a.length > 1 {
		quicksort(a.data[:a.length], 0, a.length-1, cmp, 1)
	}
}

// ISort orders the elements in place by cmp using insertion sort. It is
// stable and fast on nearly sorted input, but quadratic in the worst case.
func (a *Array[T]) ISort(cmp func(x, y T) int) {
	a.panicIfReleased()
	insertionSort(a.data[:a.length], cmp)
}

// All returns an iterator over the index and value of each live element.
func (a *Array[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < a.length; i++ {
			if !yield(i, a.data[i]) {
				return
			}
		}
	}
}

// Values returns a copy of the live elements.
func (a *Array[T]) Values() []T {
	a.panicIfReleased()
	out := make([]T, a.length)
	copy(out, a.data[:a.length])
	return out
}

// realloc moves the backing store to exactly n slots. n must be >= length.
// On failure the old backing store is kept.
func (a *Array[T]) realloc(n int, op string) error {
	old := len(a.data)
	data, err := a.alloc.Reallocate(a.data, n)
	if err != nil {
		a.logger.Warn("array reallocation failed",
			zap.String("op", op),
			zap.Int("length", a.length),
			zap.Int("capacity", old),
			zap.Int("request", n),
			zap.Error(err),
		)
		return allocationError(err, op, n)
	}
	a.data = data
	a.logger.Debug("array reallocated",
		zap.String("op", op),
		zap.Int("length", a.length),
		zap.Int("from", old),
		zap.Int("to", n),
	)
	return nil
}

func (a *Array[T]) panicIfReleased() {
	if a.released {
		panic("dynarray: use after Release()")
	}
}
