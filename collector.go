package dynarray

import "github.com/prometheus/client_golang/prometheus"

var (
	heapInuseDesc = prometheus.NewDesc(
		"dynarray_heap_inuse_bytes",
		"Bytes currently charged to the heap.",
		[]string{"heap"}, nil,
	)
	heapPeakDesc = prometheus.NewDesc(
		"dynarray_heap_peak_inuse_bytes",
		"Highest number of bytes charged to the heap.",
		[]string{"heap"}, nil,
	)
	heapLimitDesc = prometheus.NewDesc(
		"dynarray_heap_limit_bytes",
		"Byte limit of the heap, 0 if unlimited.",
		[]string{"heap"}, nil,
	)
	heapAllocsDesc = prometheus.NewDesc(
		"dynarray_heap_allocations_total",
		"Successful reservations against the heap.",
		[]string{"heap"}, nil,
	)
	heapFreesDesc = prometheus.NewDesc(
		"dynarray_heap_frees_total",
		"Buffers freed back to the heap.",
		[]string{"heap"}, nil,
	)
	heapFailuresDesc = prometheus.NewDesc(
		"dynarray_heap_allocation_failures_total",
		"Reservations rejected because of the heap limit.",
		[]string{"heap"}, nil,
	)
)

// HeapCollector exports heap metrics to Prometheus. Values are read at
// scrape time, so the collector adds no cost to the allocation path.
type HeapCollector struct {
	heaps []*Heap
}

var _ prometheus.Collector = (*HeapCollector)(nil)

// NewHeapCollector returns a collector for heaps.
func NewHeapCollector(heaps ...*Heap) *HeapCollector {
	return &HeapCollector{heaps: heaps}
}

func (c *HeapCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- heapInuseDesc
	ch <- heapPeakDesc
	ch <- heapLimitDesc
	ch <- heapAllocsDesc
	ch <- heapFreesDesc
	ch <- heapFailuresDesc
}

func (c *HeapCollector) Collect(ch chan<- prometheus.Metric) {
	for _, h := range c.heaps {
		m := h.Metrics()
		ch <- prometheus.MustNewConstMetric(heapInuseDesc, prometheus.GaugeValue, float64(m.InUse), m.Name)
		ch <- prometheus.MustNewConstMetric(heapPeakDesc, prometheus.GaugeValue, float64(m.Peak), m.Name)
		ch <- prometheus.MustNewConstMetric(heapLimitDesc, prometheus.GaugeValue, float64(m.Limit), m.Name)
		ch <- prometheus.MustNewConstMetric(heapAllocsDesc, prometheus.CounterValue, float64(m.Allocs), m.Name)
		ch <- prometheus.MustNewConstMetric(heapFreesDesc, prometheus.CounterValue, float64(m.Frees), m.Name)
		ch <- prometheus.MustNewConstMetric(heapFailuresDesc, prometheus.CounterValue, float64(m.Failures), m.Name)
	}
}
