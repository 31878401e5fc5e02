package tagring

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"time"

	"github.com/hupe1980/tagring/internal/kind"
	"github.com/hupe1980/tagring/internal/resource"
	"github.com/hupe1980/tagring/internal/ring"
	"github.com/hupe1980/tagring/internal/tagptr"
)

// MaxPayloadSize is the largest payload a value can carry.
const MaxPayloadSize = tagptr.MaxSize

// Index is an ordered index of typed values. Values are kept sorted within
// one partition per kind; each partition is a chain of bounded ranges that
// split as they fill.
//
// An Index is not safe for concurrent use; callers serialize access.
type Index struct {
	ring    *ring.Ring
	ctrl    *resource.Controller
	metrics MetricsCollector
	logger  *Logger
}

// New creates an empty index with one partition per registered kind.
func New(optFns ...Option) (*Index, error) {
	o := applyOptions(optFns)
	if err := o.validate(); err != nil {
		return nil, err
	}

	ctrl := resource.NewController(resource.Config{MemoryLimitBytes: o.memoryLimit})

	r, err := ring.New(context.Background(), ring.Options{
		NodeCount: o.nodeCount,
		ChunkSize: o.chunkSize,
		Budget:    ctrl,
	})
	if err != nil {
		return nil, translateError(err)
	}

	return &Index{
		ring:    r,
		ctrl:    ctrl,
		metrics: o.metricsCollector,
		logger:  o.logger.WithNodeCount(o.nodeCount),
	}, nil
}

// Insert adds v to its kind's partition, after any values equal to it.
//
// On error the index is unchanged. A full target range is split first.
func (ix *Index) Insert(ctx context.Context, v Value) error {
	start := time.Now()
	out, err := ix.insert(ctx, v)
	duration := time.Since(start)
	err = translateError(err)
	ix.metrics.RecordInsert(v.kind, duration, err)
	ix.logger.LogInsert(ctx, v.kind, v.Len(), err)
	if out.Split {
		ix.metrics.RecordSplit(v.kind, out.Ranges)
		ix.logger.LogSplit(ctx, v.kind, out.Ranges)
	}
	return err
}

func (ix *Index) insert(ctx context.Context, v Value) (ring.Outcome, error) {
	if ix.ring.Closed() {
		return ring.Outcome{}, ring.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return ring.Outcome{}, err
	}
	if v.IsZero() {
		return ring.Outcome{}, fmt.Errorf("%w: null value", ErrInvalidArgument)
	}
	if !v.kind.Registered() {
		return ring.Outcome{}, fmt.Errorf("%w: %s", ErrUnregisteredType, v.kind)
	}

	c, _ := kind.Lookup(tagptr.Type(v.kind))
	if (c.Width > 0 && len(v.data) != c.Width) || len(v.data) > MaxPayloadSize {
		return ring.Outcome{}, &ErrPayloadSize{Kind: v.kind, Expected: c.Width, Actual: len(v.data)}
	}

	return ix.ring.Insert(ctx, tagptr.Type(v.kind), v.data)
}

// BatchInsertResult reports the outcome of a batch insert.
type BatchInsertResult struct {
	Inserted int     // number of values inserted
	Errors   []error // per value, nil for successful inserts
}

// Failed returns the number of values that were not inserted.
func (r BatchInsertResult) Failed() int {
	return len(r.Errors) - r.Inserted
}

// BatchInsert inserts values in order. A failing value does not stop the
// batch; its error is reported at its position. Once ctx is done, every
// remaining value fails with the context error.
func (ix *Index) BatchInsert(ctx context.Context, values []Value) BatchInsertResult {
	start := time.Now()
	result := BatchInsertResult{
		Errors: make([]error, len(values)),
	}

	for i, v := range values {
		if err := ctx.Err(); err != nil {
			result.Errors[i] = err
			continue
		}
		if err := ix.Insert(ctx, v); err != nil {
			result.Errors[i] = err
			continue
		}
		result.Inserted++
	}

	ix.metrics.RecordBatchInsert(len(values), result.Failed(), time.Since(start))
	ix.logger.LogBatchInsert(ctx, len(values), result.Failed())
	return result
}

// Partition returns the values of kind k in sort order. The sequence is lazy
// and can be ranged over again; the index must not be modified while a walk
// is in progress.
func (ix *Index) Partition(k Kind) iter.Seq[Value] {
	return func(yield func(Value) bool) {
		if !k.Registered() {
			return
		}
		for w := range ix.ring.Partition(tagptr.Type(k)) {
			if !yield(ix.value(w)) {
				return
			}
		}
	}
}

// All returns every value, partition by partition in kind order.
func (ix *Index) All() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		for w := range ix.ring.All() {
			if !yield(ix.value(w)) {
				return
			}
		}
	}
}

// ForEach calls fn for every value in the order of All until fn returns
// false.
func (ix *Index) ForEach(fn func(Value) bool) {
	for v := range ix.All() {
		if !fn(v) {
			return
		}
	}
}

func (ix *Index) value(w tagptr.Word) Value {
	return Value{kind: Kind(w.Type()), data: bytes.Clone(ix.ring.Payload(w)), valid: true}
}

// Dump writes one "kind: value" line per value in the order of All.
func (ix *Index) Dump(w io.Writer) error {
	return translateError(ix.ring.Output(w))
}

// Validate checks the structural invariants of the index. A violation is
// reported as ErrStructuralCorruption.
func (ix *Index) Validate() error {
	return translateError(ix.ring.Validate())
}

// Len returns the number of values in the index.
func (ix *Index) Len() int {
	return ix.ring.Len()
}

// Close tears the index down and releases all memory it holds. Every node is
// released once; damage found on the way is reported as
// ErrStructuralCorruption after the memory has been released anyway.
//
// Close on a closed index returns ErrClosed.
func (ix *Index) Close() error {
	if ix == nil {
		return nil
	}
	if ix.ring.Closed() {
		return ErrClosed
	}

	start := time.Now()
	n := ix.ring.Len()
	err := translateError(ix.ring.Destroy())
	ix.metrics.RecordClose(time.Since(start), err)
	ix.logger.LogClose(context.Background(), n, err)
	return err
}
