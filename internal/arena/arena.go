package arena

import (
	"context"
	"errors"
	"fmt"
	"math/bits"

	"github.com/hupe1980/tagring/internal/conv"
	"github.com/hupe1980/tagring/internal/mem"
)

// MemoryAcquirer is an interface for acquiring memory.
type MemoryAcquirer interface {
	AcquireMemory(ctx context.Context, amount int64) error
	ReleaseMemory(amount int64)
}

var (
	// ErrMaxChunksExceeded is returned when the arena exceeds the maximum number of chunks.
	ErrMaxChunksExceeded = errors.New("arena: max chunks exceeded")
	// ErrAllocationFailed is returned when an allocation fails.
	ErrAllocationFailed = errors.New("arena: allocation failed")
	// ErrClosed is returned when allocating from a freed arena.
	ErrClosed = errors.New("arena: closed")
)

const (
	// DefaultChunkSize is the default size of a chunk (64KiB).
	DefaultChunkSize = 64 * 1024
	// MinChunkSize is the smallest chunk; it fits the largest payload.
	MinChunkSize = 4 * 1024
	// MaxChunkSize keeps every global offset below 1<<46.
	MaxChunkSize = 1 << 30
	// DefaultAlignment is the default memory alignment (8 bytes).
	DefaultAlignment = 8
	// MaxChunks limits the number of chunks to prevent excessive memory usage.
	MaxChunks = 65536
)

// Stats tracks arena memory usage metrics.
//
// Note on semantics:
//   - BytesReserved: total chunk memory currently held
//   - BytesUsed: actual bytes requested by allocations (before alignment)
//   - BytesWasted: padding added for alignment
//   - ActiveChunks: number of chunks currently held
//   - TotalAllocs: cumulative allocation count
type Stats struct {
	ChunksAllocated uint64 // Historical: total chunks ever created
	BytesReserved   uint64
	BytesUsed       uint64
	BytesWasted     uint64
	ActiveChunks    uint64
	TotalAllocs     uint64
}

type chunk struct {
	data    []byte
	release func([]byte) error
	offset  int
	index   uint32
}

// Arena is a chunked bump allocator for payload bytes.
type Arena struct {
	chunkSize int
	chunkBits int    // Power of 2 exponent for chunk size
	chunkMask uint64 // Mask for offset within chunk
	alignment int
	chunks    []*chunk
	current   *chunk
	stats     Stats
	acquirer  MemoryAcquirer
	heap      bool // chunks come from the Go heap instead of mmap
}

// Option is a configuration option for Arena.
type Option func(*Arena)

// WithHeapChunks takes chunks from the Go heap instead of anonymous
// mappings. The garbage collector then owns the memory; Free only drops it.
func WithHeapChunks() Option {
	return func(a *Arena) {
		a.heap = true
	}
}

// WithMemoryAcquirer sets the memory acquirer for the arena.
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(a *Arena) {
		a.acquirer = acquirer
	}
}

// New creates a new Arena with the given chunk size.
//
// The chunk size is rounded up to a power of 2 and clamped to
// [MinChunkSize, MaxChunkSize]. The first chunk is allocated eagerly.
func New(ctx context.Context, chunkSize int, opts ...Option) (*Arena, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	chunkSize = min(max(chunkSize, MinChunkSize), MaxChunkSize)

	// Example: 1025 -> 1024 -> Len=11. 1<<11 = 2048.
	chunkBits := bits.Len(uint(chunkSize - 1)) //nolint:gosec // chunkSize > 0
	chunkSize = 1 << chunkBits

	chunkMask, err := conv.IntToUint64(chunkSize - 1)
	if err != nil {
		return nil, err
	}

	a := &Arena{
		chunkSize: chunkSize,
		chunkBits: chunkBits,
		chunkMask: chunkMask,
		alignment: DefaultAlignment,
	}

	for _, opt := range opts {
		opt(a)
	}

	if err := a.allocateChunk(ctx); err != nil {
		return nil, err
	}
	// Reserve offset 0 as null
	if _, _, err := a.Alloc(ctx, 1); err != nil {
		_ = a.Free()
		return nil, err
	}
	return a, nil
}

// ChunkSize returns the effective chunk size.
func (a *Arena) ChunkSize() int {
	return a.chunkSize
}

func (a *Arena) allocateChunk(ctx context.Context) error {
	idx := len(a.chunks)
	if idx >= MaxChunks {
		return ErrMaxChunksExceeded
	}

	if a.acquirer != nil {
		if err := a.acquirer.AcquireMemory(ctx, int64(a.chunkSize)); err != nil {
			return err
		}
	}

	var (
		data    []byte
		release func([]byte) error
		err     error
	)
	if a.heap {
		data = mem.AllocAligned(a.chunkSize)
	} else {
		data, release, err = mapAnon(a.chunkSize)
	}
	if err != nil {
		if a.acquirer != nil {
			a.acquirer.ReleaseMemory(int64(a.chunkSize))
		}
		return fmt.Errorf("failed to map anonymous memory for chunk: %w", err)
	}

	c := &chunk{
		data:    data,
		release: release,
		index:   uint32(idx), //nolint:gosec // idx < MaxChunks
	}
	a.chunks = append(a.chunks, c)
	a.current = c

	a.stats.ChunksAllocated++
	a.stats.BytesReserved += uint64(a.chunkSize)
	a.stats.ActiveChunks++

	return nil
}

// Alloc allocates size bytes and returns the global offset and the zeroed
// byte slice. The global offset can be used with Bytes() to retrieve the
// memory later. A size <= 0 returns offset 0 and no memory.
func (a *Arena) Alloc(ctx context.Context, size int) (uint64, []byte, error) {
	if size <= 0 {
		return 0, nil, nil
	}
	if a.current == nil {
		return 0, nil, ErrClosed
	}
	if size > a.chunkSize {
		return 0, nil, fmt.Errorf("%w: %d bytes exceeds chunk size %d", ErrAllocationFailed, size, a.chunkSize)
	}

	mask := a.alignment - 1
	alignedSize := (size + mask) & ^mask

	if a.current.offset+alignedSize > len(a.current.data) {
		if err := a.allocateChunk(ctx); err != nil {
			return 0, nil, err
		}
	}

	curr := a.current
	start := curr.offset
	curr.offset += alignedSize

	a.stats.BytesUsed += uint64(size)
	a.stats.BytesWasted += uint64(alignedSize - size)
	a.stats.TotalAllocs++

	// GlobalOffset = (ChunkIndex << ChunkBits) | ChunkOffset
	global := uint64(curr.index)<<a.chunkBits | uint64(start)
	return global, curr.data[start : start+size : start+size], nil
}

// Bytes returns size bytes at the given global offset, or nil if the range
// does not lie inside a live allocation area.
func (a *Arena) Bytes(offset uint64, size int) []byte {
	if offset == 0 || size < 0 {
		return nil
	}

	chunkIdx := offset >> a.chunkBits
	if chunkIdx >= uint64(len(a.chunks)) {
		return nil
	}
	c := a.chunks[chunkIdx]
	start := int(offset & a.chunkMask) //nolint:gosec // masked to chunk size
	if start+size > c.offset {
		return nil
	}
	return c.data[start : start+size : start+size]
}

// Stats returns the current arena statistics.
func (a *Arena) Stats() Stats {
	return a.stats
}

// Free releases all chunks and returns their memory to the acquirer.
//
// After Free(), the arena cannot be reused and every slice handed out
// before is invalid. Free is idempotent.
func (a *Arena) Free() error {
	var firstErr error
	for i, c := range a.chunks {
		if c.release != nil {
			if err := c.release(c.data); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		a.chunks[i] = nil
	}

	if a.acquirer != nil && a.stats.BytesReserved > 0 {
		a.acquirer.ReleaseMemory(int64(a.stats.BytesReserved)) //nolint:gosec // bounded by MaxChunks*MaxChunkSize
	}

	a.chunks = nil
	a.current = nil

	a.stats.ActiveChunks = 0
	a.stats.BytesReserved = 0
	a.stats.BytesUsed = 0
	a.stats.BytesWasted = 0

	return firstErr
}

// usage returns the memory usage percentage.
func (a *Arena) usage() float64 {
	if a.stats.BytesReserved == 0 {
		return 0
	}
	return float64(a.stats.BytesUsed) / float64(a.stats.BytesReserved) * 100
}

func (a *Arena) String() string {
	return fmt.Sprintf(
		"Arena{chunks: %d, reserved: %.2f MB, used: %.2f MB, wasted: %.2f KB, usage: %.1f%%, allocs: %d}",
		a.stats.ActiveChunks,
		float64(a.stats.BytesReserved)/(1024*1024),
		float64(a.stats.BytesUsed)/(1024*1024),
		float64(a.stats.BytesWasted)/1024,
		a.usage(),
		a.stats.TotalAllocs,
	)
}
