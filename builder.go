// This file implements the fluent builder API for creating and configuring
// Index instances. Builders are immutable - each method returns a new builder
// with the updated configuration.

package tagring

// Builder creates a new index builder with default settings.
//
// The builder is immutable - each method returns a new builder with the
// updated configuration, so a configured builder can be reused as a template.
//
// Example:
//
//	ix, err := tagring.Builder().
//	    NodeCount(64).
//	    MemoryLimit(64 << 20).
//	    Build()
func Builder() IndexBuilder {
	return IndexBuilder{
		nodeCount: DefaultNodeCount,
		chunkSize: DefaultArenaChunkSize,
	}
}

// IndexBuilder is an immutable fluent builder for Index instances.
type IndexBuilder struct {
	nodeCount   int
	chunkSize   int
	memoryLimit int64
	logger      *Logger
	metrics     MetricsCollector
}

// NodeCount sets the maximum number of values per range.
// Default: 30. Valid range: 2-4095.
func (b IndexBuilder) NodeCount(n int) IndexBuilder {
	b.nodeCount = n
	return b
}

// ArenaChunkSize sets the payload arena chunk size in bytes.
// Default: 64KiB.
func (b IndexBuilder) ArenaChunkSize(bytes int) IndexBuilder {
	b.chunkSize = bytes
	return b
}

// MemoryLimit caps node and payload memory. 0 disables the limit.
func (b IndexBuilder) MemoryLimit(bytes int64) IndexBuilder {
	b.memoryLimit = bytes
	return b
}

// Logger sets the logger for operations.
func (b IndexBuilder) Logger(l *Logger) IndexBuilder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for operations.
func (b IndexBuilder) Metrics(mc MetricsCollector) IndexBuilder {
	b.metrics = mc
	return b
}

// Options returns the builder's configuration as constructor options.
func (b IndexBuilder) Options() []Option {
	opts := []Option{
		WithNodeCount(b.nodeCount),
		WithArenaChunkSize(b.chunkSize),
		WithMemoryLimit(b.memoryLimit),
	}
	if b.logger != nil {
		opts = append(opts, WithLogger(b.logger))
	}
	if b.metrics != nil {
		opts = append(opts, WithMetricsCollector(b.metrics))
	}
	return opts
}

// Build creates the Index.
func (b IndexBuilder) Build() (*Index, error) {
	return New(b.Options()...)
}
