package tagring

import (
	"fmt"
	"log/slog"

	"github.com/hupe1980/tagring/internal/arena"
	"github.com/hupe1980/tagring/internal/ring"
)

const (
	// DefaultNodeCount is the default range capacity.
	DefaultNodeCount = ring.DefaultNodeCount
	// MinNodeCount is the smallest range capacity.
	MinNodeCount = ring.MinNodeCount
	// MaxNodeCount is the largest range capacity.
	MaxNodeCount = ring.MaxNodeCount

	// DefaultArenaChunkSize is the default payload arena chunk size.
	DefaultArenaChunkSize = arena.DefaultChunkSize
	// MaxArenaChunkSize is the largest payload arena chunk size.
	MaxArenaChunkSize = arena.MaxChunkSize
)

type options struct {
	nodeCount        int
	chunkSize        int
	memoryLimit      int64
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures an Index.
type Option func(*options)

// WithNodeCount sets the maximum number of values per range. A full range
// splits in two before it takes another value.
//
// Must be in [MinNodeCount, MaxNodeCount]. Small values split often and
// make range location walk further; large values make the in-range scan
// longer.
func WithNodeCount(n int) Option {
	return func(o *options) {
		o.nodeCount = n
	}
}

// WithArenaChunkSize sets the size of the chunks payload bytes are carved
// from. It is rounded up to a power of two; values below 4KiB are raised to
// 4KiB.
func WithArenaChunkSize(bytes int) Option {
	return func(o *options) {
		o.chunkSize = bytes
	}
}

// WithMemoryLimit caps the memory held for node slots and payload chunks.
// Inserts that would exceed it fail with ErrAllocationFailure and leave the
// index unchanged. 0 means unlimited (usage is still tracked).
//
// The limit must cover the first arena chunk, or New fails.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &tagring.BasicMetricsCollector{}
//	ix, _ := tagring.New(tagring.WithMetricsCollector(metrics))
//	// ... use ix ...
//	stats := metrics.GetStats()
//	fmt.Printf("Inserts: %d, Splits: %d\n", stats.InsertCount, stats.SplitCount)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := tagring.NewJSONLogger(slog.LevelInfo)
//	ix, _ := tagring.New(tagring.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		nodeCount:        DefaultNodeCount,
		chunkSize:        DefaultArenaChunkSize,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o options) validate() error {
	if o.nodeCount < MinNodeCount || o.nodeCount > MaxNodeCount {
		return fmt.Errorf("%w: node count %d outside [%d, %d]", ErrInvalidArgument, o.nodeCount, MinNodeCount, MaxNodeCount)
	}
	if o.chunkSize <= 0 || o.chunkSize > MaxArenaChunkSize {
		return fmt.Errorf("%w: arena chunk size %d outside (0, %d]", ErrInvalidArgument, o.chunkSize, MaxArenaChunkSize)
	}
	if o.memoryLimit < 0 {
		return fmt.Errorf("%w: negative memory limit %d", ErrInvalidArgument, o.memoryLimit)
	}
	return nil
}
