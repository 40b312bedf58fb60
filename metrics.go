package dynarray

// SizeInUse returns the number of elements currently handed out by the arena.
func (a *Arena[T]) SizeInUse() int {
	sum := 0
	for _, c := range a.chunks {
		sum += c.offset
	}
	return sum
}

// NumChunks returns the number of chunks currently allocated by the arena.
func (a *Arena[T]) NumChunks() int {
	return len(a.chunks)
}

// Capacity returns the total capacity, in elements, of all chunks in the arena.
func (a *Arena[T]) Capacity() int {
	sum := 0
	for _, c := range a.chunks {
		sum += len(c.buf)
	}
	return sum
}

// Utilization returns the ratio of elements in use to total capacity (0.0 to 1.0).
// Returns 0.0 if the arena has no capacity.
func (a *Arena[T]) Utilization() float64 {
	capacity := a.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(a.SizeInUse()) / float64(capacity)
}

// ChunkSize returns the default chunk size used by this arena.
func (a *Arena[T]) ChunkSize() int {
	return a.chunkSize
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena[T]) Metrics() ArenaMetrics {
	return ArenaMetrics{
		SizeInUse:   a.SizeInUse(),
		Capacity:    a.Capacity(),
		NumChunks:   a.NumChunks(),
		ChunkSize:   a.ChunkSize(),
		Utilization: a.Utilization(),
	}
}

// ArenaMetrics contains statistical information about an arena.
type ArenaMetrics struct {
	SizeInUse   int     // Elements currently allocated
	Capacity    int     // Total capacity in elements
	NumChunks   int     // Number of chunks
	ChunkSize   int     // Default chunk size
	Utilization float64 // Ratio of used to total capacity (0.0-1.0)
}

// HeapMetrics contains statistical information about a heap.
type HeapMetrics struct {
	Name        string
	InUse       int64   // Bytes currently charged
	Peak        int64   // Highest InUse observed
	Limit       int64   // Byte limit, 0 if unlimited
	Allocs      int64   // Successful reservations
	Frees       int64   // Buffers freed; in-place shrinks are not counted
	Failures    int64   // Reservations rejected by the limit
	Utilization float64 // InUse / Limit, 0 if unlimited
}

// InUse returns the number of bytes currently charged to the heap.
func (h *Heap) InUse() int64 {
	return h.inUse.Load()
}

// Limit returns the byte limit of the heap, 0 if unlimited.
func (h *Heap) Limit() int64 {
	return h.limit
}

// Metrics returns a snapshot of heap statistics. Counters are read
// individually, so the snapshot is not atomic under concurrent use.
func (h *Heap) Metrics() HeapMetrics {
	m := HeapMetrics{
		Name:     h.name,
		InUse:    h.inUse.Load(),
		Peak:     h.peak.Load(),
		Limit:    h.limit,
		Allocs:   h.allocs.Load(),
		Frees:    h.frees.Load(),
		Failures: h.failures.Load(),
	}
	if m.Limit > 0 {
		m.Utilization = float64(m.InUse) / float64(m.Limit)
	}
	return m
}
