// Package dynarray implements a growable array with a pluggable allocator
// for memory-constrained programs.
//
// # Overview
//
// An Array owns a contiguous backing store obtained from an Allocator. It
// grows by a fixed number of slots instead of doubling, which keeps peak
// memory low for the small, bounded collections it is meant for:
//
//   - Fixed-increment growth (DefaultIncrement slots per step)
//   - Optional cleanup hook run once per element the array gives up
//   - Stable insertion sort and a quicksort with O(log n) stack depth
//   - Allocation failures reported, never retried
//
// # Basic Usage
//
//	heap := dynarray.NewHeap("sram", 64<<10) // 64 KiB region
//	a, err := dynarray.New(dynarray.NewHeapAllocator[*Frame](heap), (*Frame).Close)
//	if err != nil {
//		return err
//	}
//	defer a.Release() // Runs Close on every remaining frame
//
//	if err := a.PushBack(frame); err != nil {
//		return err // errors.Is(err, dynarray.ErrAllocation)
//	}
//	a.Sort(func(x, y *Frame) int { return cmp.Compare(x.Seq, y.Seq) })
//
// # Ownership
//
// PopBack and Take return an element to the caller; Erase, a shrinking
// Resize, Clear and Release destroy it through the cleanup hook. Elements
// that are read, sorted or moved are never passed to the hook.
//
// # Allocators
//
// A Heap is a named region with a byte limit. HeapAllocator hands out
// runtime slices charged to a heap. Arena carves slices out of chunks and
// grows its most recent allocation in place. SafeAllocator lets several
// goroutines share one allocator; arrays themselves are not goroutine-safe.
//
// # Metrics and Monitoring
//
//	m := heap.Metrics()
//	fmt.Printf("in use: %d of %d bytes (peak %d)\n", m.InUse, m.Limit, m.Peak)
//
//	prometheus.MustRegister(dynarray.NewHeapCollector(heap))
package dynarray
