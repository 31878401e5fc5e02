package ring

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Destroy walks both rings once, returns every reserved byte to the budget
// and frees the payload arena. Each walk stops when it gets back to HEAD or
// reaches a node it has already seen, so a damaged ring cannot loop forever.
//
// Memory is released even when a walk finds damage; the damage is reported
// as ErrCorrupt afterwards. Destroy on a destroyed ring returns ErrClosed.
func (r *Ring) Destroy() error {
	if r.closed {
		return ErrClosed
	}

	var errs []error
	if n := r.walkSentinels(); n != r.sentinels.Len() {
		errs = append(errs, fmt.Errorf("%w: released %d of %d sentinels", ErrCorrupt, n, r.sentinels.Len()))
	}
	if n := r.walkNodes(); n != r.nodes.Len() {
		errs = append(errs, fmt.Errorf("%w: released %d of %d nodes", ErrCorrupt, n, r.nodes.Len()))
	}

	if err := r.payloads.Free(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrAllocation, err))
	}
	r.release(r.reserved)

	r.sentinels.Reset()
	r.nodes.Reset()
	r.len = 0
	r.closed = true

	return errors.Join(errs...)
}

// walkSentinels counts the distinct sentinels reachable from HEAD.
func (r *Ring) walkSentinels() int {
	visited := roaring.New()
	for s := r.head; ; {
		sent := r.sentinel(s)
		if sent == nil || !visited.CheckedAdd(uint32(s)) {
			break
		}
		if s = sent.next; s == r.head {
			break
		}
	}
	return int(visited.GetCardinality()) //nolint:gosec // bounded by container.MaxLen
}

// walkNodes counts the distinct payload nodes reachable from the HEAD marker.
func (r *Ring) walkNodes() int {
	head := r.sentinel(r.head)
	if head == nil {
		return 0
	}

	visited := roaring.New()
	start := head.below
	for n := start; ; {
		node := r.node(n)
		if node == nil || !visited.CheckedAdd(uint32(n)) {
			break
		}
		if n = node.next; n == start {
			break
		}
	}
	return int(visited.GetCardinality()) //nolint:gosec // bounded by container.MaxLen
}
