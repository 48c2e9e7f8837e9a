package provao

import (
	"sync/atomic"

	"github.com/CiroJunio/provao/metrics"
	"github.com/CiroJunio/provao/record"
)

// MetricsCollector receives the outcome of every sort invocation.
// Implement this interface to integrate with monitoring systems.
//
// Example:
//
//	type PrometheusCollector struct {
//	    sorts       *prometheus.CounterVec
//	    comparisons *prometheus.CounterVec
//	}
//
//	func (p *PrometheusCollector) RecordSort(method provao.Method, order record.Order, count int64, m metrics.Metrics, err error) {
//	    p.sorts.WithLabelValues(method.String()).Inc()
//	    p.comparisons.WithLabelValues(method.String()).Add(float64(m.Total().Comparisons))
//	}
type MetricsCollector interface {
	// RecordSort is called once per invocation with its final snapshot.
	// err is nil if successful.
	RecordSort(method Method, order record.Order, count int64, m metrics.Metrics, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSort(Method, record.Order, int64, metrics.Metrics, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for benchmarks and debugging without external dependencies.
type BasicMetricsCollector struct {
	SortCount     atomic.Int64
	SortErrors    atomic.Int64
	MergeSorts    atomic.Int64
	QuickSorts    atomic.Int64
	RecordsSorted atomic.Int64
	Reads         atomic.Int64
	Writes        atomic.Int64
	Comparisons   atomic.Int64
	TotalNanos    atomic.Int64
}

// RecordSort implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSort(method Method, _ record.Order, count int64, m metrics.Metrics, err error) {
	b.SortCount.Add(1)
	if err != nil {
		b.SortErrors.Add(1)
		return
	}
	switch method {
	case BalancedMerge:
		b.MergeSorts.Add(1)
	case QuickSort:
		b.QuickSorts.Add(1)
	}
	total := m.Total()
	b.RecordsSorted.Add(count)
	b.Reads.Add(total.Reads)
	b.Writes.Add(total.Writes)
	b.Comparisons.Add(total.Comparisons)
	b.TotalNanos.Add(total.Elapsed.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SortCount:     b.SortCount.Load(),
		SortErrors:    b.SortErrors.Load(),
		MergeSorts:    b.MergeSorts.Load(),
		QuickSorts:    b.QuickSorts.Load(),
		RecordsSorted: b.RecordsSorted.Load(),
		Reads:         b.Reads.Load(),
		Writes:        b.Writes.Load(),
		Comparisons:   b.Comparisons.Load(),
		AvgNanos:      b.getAvgNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgNanos() int64 {
	count := b.SortCount.Load() - b.SortErrors.Load()
	if count <= 0 {
		return 0
	}
	return b.TotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SortCount     int64
	SortErrors    int64
	MergeSorts    int64
	QuickSorts    int64
	RecordsSorted int64
	Reads         int64
	Writes        int64
	Comparisons   int64
	AvgNanos      int64
}
