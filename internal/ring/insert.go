package ring

import (
	"context"
	"fmt"

	"github.com/hupe1980/tagring/internal/conv"
	"github.com/hupe1980/tagring/internal/tagptr"
)

// Outcome reports the structural side effects of an insert.
type Outcome struct {
	// Split is set when the target range was full and got split first.
	Split bool
	// Ranges is the number of ranges of the partition after the insert.
	Ranges int
}

// Insert places a copy of payload v of kind tag in sorted position.
//
// Every allocation (node slots and payload bytes) is made before either ring
// is touched, so a failed insert leaves the structure unchanged.
func (r *Ring) Insert(ctx context.Context, tag tagptr.Type, v []byte) (Outcome, error) {
	if r.closed {
		return Outcome{}, ErrClosed
	}

	first, err := r.locateType(tag)
	if err != nil {
		return Outcome{}, err
	}
	row := r.table.lookup(tag)
	if row == nil {
		return Outcome{}, fmt.Errorf("%w: %d has a partition but no dispatch row", ErrUnregisteredType, tag)
	}
	if len(v) > tagptr.MaxSize || (row.Width > 0 && len(v) != row.Width) {
		return Outcome{}, fmt.Errorf("%w: %s payload of %d bytes", ErrInvalidArgument, row.Name, len(v))
	}

	s, err := r.locateRange(first, row, v)
	if err != nil {
		return Outcome{}, err
	}

	n := r.count(s)
	if n > r.nodeCount {
		return Outcome{}, fmt.Errorf("%w: range %d holds %d elements, capacity %d", ErrCorrupt, s, n, r.nodeCount)
	}

	full := n == r.nodeCount
	var plan splitPlan
	slots, newSentinels, newNodes := nodeBytes, 0, 1
	if full {
		if plan, err = r.planSplit(s); err != nil {
			return Outcome{}, err
		}
		slots += sentinelBytes + nodeBytes
		newSentinels, newNodes = 1, 2
	}

	if !r.hasRoom(newSentinels, newNodes) {
		return Outcome{}, fmt.Errorf("%w: node store full", ErrAllocation)
	}
	if err := r.reserve(ctx, slots); err != nil {
		return Outcome{}, err
	}
	word, err := r.storePayload(ctx, tag, v)
	if err != nil {
		r.release(slots)
		return Outcome{}, err
	}

	// Nothing below can fail: the half is chosen from the plan and the node
	// stores were checked above.
	if full {
		upper := r.takesUpper(plan, row, v)
		if newS := r.split(plan); upper {
			s = newS
		}
	}

	at := r.sentinel(s).below
	for i := 0; i < r.nodeCount && row.Node(r, at, v); i++ {
		at = r.node(at).next
	}
	r.link(at, word)

	r.setCount(s, r.count(s)+1)
	r.len++

	out := Outcome{Split: full}
	if full {
		out.Ranges = r.rangeCount(tag)
	}
	return out, nil
}

// storePayload copies v into the arena and returns its tagged word.
func (r *Ring) storePayload(ctx context.Context, tag tagptr.Type, v []byte) (tagptr.Word, error) {
	size, err := conv.IntToUint16(len(v))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	// Empty payloads still get a real address.
	off, buf, err := r.payloads.Alloc(ctx, max(len(v), 1))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrAllocation, err)
	}
	copy(buf, v)

	word, err := tagptr.Encode(off, tag, size)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrAllocation, err)
	}
	return word, nil
}

// link appends a node carrying word right after at.
func (r *Ring) link(at NRef, word tagptr.Word) {
	prev := r.node(at)
	i, _ := r.nodes.Append(Node{word: word, above: NoSentinel, next: prev.next, prev: at})
	idx := NRef(i)
	r.node(prev.next).prev = idx
	prev.next = idx
}

// rangeCount returns the number of ranges of tag's partition.
func (r *Ring) rangeCount(tag tagptr.Type) int {
	first, err := r.locateType(tag)
	if err != nil {
		return 0
	}
	n := 0
	for s := first; n < r.sentinels.Len() && r.markerType(s) == tag; s = r.sentinel(s).next {
		n++
	}
	return n
}
