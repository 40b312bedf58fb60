package dynarray

import (
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHeap(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		expected int64
	}{
		{"unlimited", 0, 0},
		{"negative limit", -1, 0},
		{"limited", 1024, 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHeap(tt.name, tt.limit)
			assert.Equal(t, tt.name, h.Name())
			assert.Equal(t, tt.expected, h.Limit())
			assert.Equal(t, int64(0), h.InUse())
		})
	}
}

func TestHeapReserve(t *testing.T) {
	h := NewHeap("sram", 100)

	require.NoError(t, h.reserve(60))
	require.NoError(t, h.reserve(40))
	assert.Equal(t, int64(100), h.InUse())

	err := h.reserve(1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfMemory))
	assert.Equal(t, int64(100), h.InUse())

	h.release(70)
	require.NoError(t, h.reserve(10))

	m := h.Metrics()
	assert.Equal(t, int64(40), m.InUse)
	assert.Equal(t, int64(100), m.Peak)
	assert.Equal(t, int64(3), m.Allocs)
	assert.Equal(t, int64(1), m.Frees)
	assert.Equal(t, int64(1), m.Failures)
	assert.InDelta(t, 0.4, m.Utilization, 1e-9)

	// Zero-sized requests are free.
	require.NoError(t, h.reserve(0))
	h.release(0)
	assert.Equal(t, int64(3), h.Metrics().Allocs)
}

func TestHeapConcurrentReserve(t *testing.T) {
	const workers, perWorker = 8, 1000
	h := NewHeap("shared", workers*perWorker/2)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_ = h.reserve(1)
			}
		}()
	}
	wg.Wait()

	m := h.Metrics()
	assert.Equal(t, int64(workers*perWorker/2), m.InUse)
	assert.Equal(t, int64(workers*perWorker/2), m.Allocs)
	assert.Equal(t, int64(workers*perWorker/2), m.Failures)
}

func TestHeapAllocatorAllocate(t *testing.T) {
	h := NewHeap("test", 0)
	a := NewHeapAllocator[int64](h)
	assert.Same(t, h, a.Heap())

	buf, err := a.Allocate(10)
	require.NoError(t, err)
	assert.Len(t, buf, 10)
	assert.Equal(t, int64(80), h.InUse())
	for _, v := range buf {
		assert.Zero(t, v)
	}

	for _, n := range []int{0, -1} {
		empty, err := a.Allocate(n)
		require.NoError(t, err)
		assert.Nil(t, empty)
	}

	a.Free(buf)
	assert.Equal(t, int64(0), h.InUse())
}

func TestHeapAllocatorDefaultsToSystemHeap(t *testing.T) {
	a := NewHeapAllocator[int](nil)
	assert.Same(t, SystemHeap, a.Heap())
}

func TestHeapAllocatorReallocate(t *testing.T) {
	h := NewHeap("test", 0)
	a := NewHeapAllocator[int64](h)

	// nil behaves like Allocate
	buf, err := a.Reallocate(nil, 4)
	require.NoError(t, err)
	require.Len(t, buf, 4)
	for i := range buf {
		buf[i] = int64(i + 1)
	}

	grown, err := a.Reallocate(buf, 8)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 0, 0, 0, 0}, grown)
	assert.Equal(t, int64(64), h.InUse())
	assert.Equal(t, []int64{0, 0, 0, 0}, buf, "old buffer is cleared after a move")

	same, err := a.Reallocate(grown, 8)
	require.NoError(t, err)
	assert.Equal(t, grown, same)

	shrunk, err := a.Reallocate(grown, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, shrunk)
	assert.Equal(t, 2, cap(shrunk))
	assert.Equal(t, int64(16), h.InUse())
	assert.Equal(t, int64(0), h.Metrics().Frees, "shrinking is not a free")

	gone, err := a.Reallocate(shrunk, 0)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.Equal(t, int64(0), h.InUse())
	assert.Equal(t, int64(1), h.Metrics().Frees)
}

func TestHeapAllocatorReallocateFailureKeepsBuffer(t *testing.T) {
	h := NewHeap("small", 32)
	a := NewHeapAllocator[int64](h)

	buf, err := a.Allocate(4)
	require.NoError(t, err)
	buf[0] = 42

	out, err := a.Reallocate(buf, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfMemory))
	assert.Nil(t, out)
	assert.Equal(t, int64(42), buf[0])
	assert.Equal(t, int64(32), h.InUse())
}

func TestBytesFor(t *testing.T) {
	assert.Equal(t, int64(0), bytesFor[int32](0))
	assert.Equal(t, int64(12), bytesFor[int32](3))
	assert.Equal(t, int64(5), bytesFor[struct{}](5))
	assert.Equal(t, 16, sizeOf[[2]int64]())
}
