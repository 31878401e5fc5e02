package tagring

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    inserts *prometheus.CounterVec
//	    splits  *prometheus.CounterVec
//	}
//
//	func (p *PrometheusCollector) RecordInsert(k tagring.Kind, d time.Duration, err error) {
//	    p.inserts.WithLabelValues(k.String()).Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordInsert is called after each insert operation.
	// duration is the total time taken, err is nil if successful.
	RecordInsert(k Kind, duration time.Duration, err error)

	// RecordBatchInsert is called after each batch insert operation.
	// count is the number of values attempted, failed is the number that failed.
	RecordBatchInsert(count, failed int, duration time.Duration)

	// RecordSplit is called after a range of kind k split. ranges is the
	// number of ranges of the partition afterwards.
	RecordSplit(k Kind, ranges int)

	// RecordClose is called once the index has been torn down.
	RecordClose(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(Kind, time.Duration, error)   {}
func (NoopMetricsCollector) RecordBatchInsert(int, int, time.Duration) {}
func (NoopMetricsCollector) RecordSplit(Kind, int)                     {}
func (NoopMetricsCollector) RecordClose(time.Duration, error)          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InsertCount       atomic.Int64
	InsertErrors      atomic.Int64
	InsertTotalNanos  atomic.Int64
	BatchInsertCount  atomic.Int64
	BatchInsertItems  atomic.Int64
	BatchInsertFailed atomic.Int64
	SplitCount        atomic.Int64
	MaxRanges         atomic.Int64
	CloseCount        atomic.Int64
	CloseErrors       atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(_ Kind, duration time.Duration, err error) {
	b.InsertCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InsertErrors.Add(1)
	}
}

// RecordBatchInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatchInsert(count, failed int, _ time.Duration) {
	b.BatchInsertCount.Add(1)
	b.BatchInsertItems.Add(int64(count))
	b.BatchInsertFailed.Add(int64(failed))
}

// RecordSplit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSplit(_ Kind, ranges int) {
	b.SplitCount.Add(1)
	for {
		cur := b.MaxRanges.Load()
		if int64(ranges) <= cur || b.MaxRanges.CompareAndSwap(cur, int64(ranges)) {
			return
		}
	}
}

// RecordClose implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClose(_ time.Duration, err error) {
	b.CloseCount.Add(1)
	if err != nil {
		b.CloseErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InsertCount:       b.InsertCount.Load(),
		InsertErrors:      b.InsertErrors.Load(),
		InsertAvgNanos:    b.getAvgInsertNanos(),
		BatchInsertCount:  b.BatchInsertCount.Load(),
		BatchInsertItems:  b.BatchInsertItems.Load(),
		BatchInsertFailed: b.BatchInsertFailed.Load(),
		SplitCount:        b.SplitCount.Load(),
		MaxRanges:         b.MaxRanges.Load(),
		CloseCount:        b.CloseCount.Load(),
		CloseErrors:       b.CloseErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgInsertNanos() int64 {
	count := b.InsertCount.Load()
	if count == 0 {
		return 0
	}
	return b.InsertTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InsertCount       int64
	InsertErrors      int64
	InsertAvgNanos    int64
	BatchInsertCount  int64
	BatchInsertItems  int64
	BatchInsertFailed int64
	SplitCount        int64
	MaxRanges         int64 // most ranges any partition reached
	CloseCount        int64
	CloseErrors       int64
}
