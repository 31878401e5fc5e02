// Package ring implements the two interlinked circular rings of an index.
//
// The sentinel ring holds one HEAD sentinel plus one sentinel per range. The
// payload ring holds every value in sorted order per kind; the first node of
// each range is a marker that points back to its sentinel and counts the
// range's elements:
//
//	sentinels:  HEAD ── s(str,0) ── s(int,0) ── s(int,1) ── s(float,0) ──┐
//	              │        │           │           │            │        │
//	payload:    HEAD ── m ─ "a" ─ "b" ─ m ─ 1 ─ 5 ─ m ─ 10 ─ 20 ─ m ─ 0.5 ┘
//
// Nodes live in append-only segmented stores and link to each other by
// stable index. Payload bytes live in an arena; a node's tagged word carries
// the arena offset plus the kind tag and the payload length.
//
// A Ring is not safe for concurrent use.
package ring

import (
	"context"
	"fmt"

	"github.com/hupe1980/tagring/internal/arena"
	"github.com/hupe1980/tagring/internal/container"
	"github.com/hupe1980/tagring/internal/tagptr"
)

const (
	// DefaultNodeCount is the default range capacity.
	DefaultNodeCount = 30
	// MinNodeCount is the smallest range capacity that still splits into
	// two non-empty halves.
	MinNodeCount = 2
	// MaxNodeCount is bounded by the 12-bit counter of a marker word.
	MaxNodeCount = tagptr.MaxSize
)

// Options configures a Ring.
type Options struct {
	// NodeCount is the maximum number of elements per range.
	NodeCount int
	// ChunkSize is the payload arena chunk size.
	ChunkSize int
	// Budget is charged for node slots and arena chunks. Optional.
	Budget arena.MemoryAcquirer
}

// Ring is the ordered index structure.
type Ring struct {
	sentinels *container.SegmentedArray[Sentinel]
	nodes     *container.SegmentedArray[Node]
	payloads  *arena.Arena
	budget    arena.MemoryAcquirer
	table     *table
	nodeCount int

	head     SRef
	len      int
	splits   int
	reserved int64 // node-slot bytes charged to budget
	closed   bool
}

// New creates a ring with one empty partition per registered kind.
func New(ctx context.Context, opts Options) (*Ring, error) {
	if opts.NodeCount == 0 {
		opts.NodeCount = DefaultNodeCount
	}
	if opts.NodeCount < MinNodeCount || opts.NodeCount > MaxNodeCount {
		return nil, fmt.Errorf("%w: node count %d outside [%d, %d]", ErrInvalidArgument, opts.NodeCount, MinNodeCount, MaxNodeCount)
	}

	r := &Ring{
		sentinels: container.NewSegmentedArray[Sentinel](),
		nodes:     container.NewSegmentedArray[Node](),
		budget:    opts.Budget,
		table:     dispatch,
		nodeCount: opts.NodeCount,
	}

	rows := r.table.rows()
	pairs := int64(len(rows) + 1)
	if err := r.reserve(ctx, pairs*(sentinelBytes+nodeBytes)); err != nil {
		return nil, err
	}

	var arenaOpts []arena.Option
	if opts.Budget != nil {
		arenaOpts = append(arenaOpts, arena.WithMemoryAcquirer(opts.Budget))
	}
	payloads, err := arena.New(ctx, opts.ChunkSize, arenaOpts...)
	if err != nil {
		r.release(r.reserved)
		return nil, fmt.Errorf("%w: %w", ErrAllocation, err)
	}
	r.payloads = payloads

	// HEAD pair first, then one pair per kind in tag order. Sentinel i owns
	// marker i, so both rings share the same initial order.
	tags := make([]tagptr.Type, 0, pairs)
	tags = append(tags, tagptr.Head)
	for _, row := range rows {
		tags = append(tags, row.Tag)
	}

	n := uint32(len(tags)) //nolint:gosec // bounded by tagptr.NumTypes
	for i, t := range tags {
		idx := uint32(i) //nolint:gosec // bounded by tagptr.NumTypes
		next := (idx + 1) % n
		prev := (idx + n - 1) % n
		r.sentinels.Append(Sentinel{next: SRef(next), prev: SRef(prev), below: NRef(idx)})
		r.nodes.Append(Node{word: markerWord(t, 0), above: SRef(idx), next: NRef(next), prev: NRef(prev)})
	}
	r.head = 0

	return r, nil
}

// NodeCount returns the range capacity.
func (r *Ring) NodeCount() int {
	return r.nodeCount
}

// Len returns the number of stored values.
func (r *Ring) Len() int {
	return r.len
}

// Splits returns the number of splits performed so far.
func (r *Ring) Splits() int {
	return r.splits
}

// ArenaStats returns the payload arena statistics.
func (r *Ring) ArenaStats() arena.Stats {
	if r.payloads == nil {
		return arena.Stats{}
	}
	return r.payloads.Stats()
}

// Closed reports whether the ring was destroyed.
func (r *Ring) Closed() bool {
	return r.closed
}

func (r *Ring) sentinel(s SRef) *Sentinel {
	return r.sentinels.At(uint32(s))
}

func (r *Ring) node(n NRef) *Node {
	return r.nodes.At(uint32(n))
}

// markerType returns the tag of the marker below s.
func (r *Ring) markerType(s SRef) tagptr.Type {
	return r.node(r.sentinel(s).below).word.Type()
}

// count returns the cached element count of the range of s.
func (r *Ring) count(s SRef) int {
	return int(r.node(r.sentinel(s).below).word.Size())
}

func (r *Ring) setCount(s SRef, n int) {
	m := r.node(r.sentinel(s).below)
	m.word = m.word.WithSize(uint16(n)) //nolint:gosec // n <= MaxNodeCount
}

// lowerBound returns the payload of the first element of the range of s.
func (r *Ring) lowerBound(s SRef) ([]byte, bool) {
	first := r.node(r.node(r.sentinel(s).below).next)
	if first.IsMarker() {
		return nil, false
	}
	return r.payload(first.word), true
}

// payload returns the bytes a value word points at.
func (r *Ring) payload(w tagptr.Word) []byte {
	return r.payloads.Bytes(w.Strip(), int(w.Size()))
}

// Payload returns the bytes a value word points at. The slice is only valid
// until the ring is destroyed.
func (r *Ring) Payload(w tagptr.Word) []byte {
	if r.closed {
		return nil
	}
	return r.payload(w)
}

func (r *Ring) reserve(ctx context.Context, bytes int64) error {
	if r.budget != nil {
		if err := r.budget.AcquireMemory(ctx, bytes); err != nil {
			return fmt.Errorf("%w: %w", ErrAllocation, err)
		}
	}
	r.reserved += bytes
	return nil
}

func (r *Ring) release(bytes int64) {
	if r.budget != nil {
		r.budget.ReleaseMemory(bytes)
	}
	r.reserved -= bytes
}

// hasRoom reports whether both stores can take the given number of slots.
func (r *Ring) hasRoom(sentinels, nodes int) bool {
	return r.sentinels.Len()+sentinels <= container.MaxLen && r.nodes.Len()+nodes <= container.MaxLen
}
