package ring

import (
	"bytes"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/tagring/internal/tagptr"
)

// Validate checks every structural invariant of both rings. It reports the
// first violation as ErrCorrupt.
func (r *Ring) Validate() error {
	if r.closed {
		return ErrClosed
	}

	order, err := r.validateSentinels()
	if err != nil {
		return err
	}
	return r.validateNodes(order)
}

// validateSentinels walks the sentinel ring once and returns the sentinels
// in ring order, HEAD first.
func (r *Ring) validateSentinels() ([]SRef, error) {
	var (
		visited = roaring.New()
		closed  = bitset.New(tagptr.NumTypes)
		order   = make([]SRef, 0, r.sentinels.Len())
		s       = r.head
		prevTag = tagptr.Head
	)

	for {
		if !visited.CheckedAdd(uint32(s)) {
			return nil, fmt.Errorf("%w: sentinel %d reached twice", ErrCorrupt, s)
		}
		order = append(order, s)

		sent := r.sentinel(s)
		next := r.sentinel(sent.next)
		if next == nil || next.prev != s {
			return nil, fmt.Errorf("%w: sentinel %d and its successor disagree", ErrCorrupt, s)
		}
		marker := r.node(sent.below)
		if marker == nil || marker.above != s {
			return nil, fmt.Errorf("%w: sentinel %d and its marker disagree", ErrCorrupt, s)
		}

		t := marker.word.Type()
		if s != r.head {
			if t == tagptr.Head {
				return nil, fmt.Errorf("%w: second head sentinel %d", ErrCorrupt, s)
			}
			if r.table.lookup(t) == nil {
				return nil, fmt.Errorf("%w: sentinel %d has unregistered type %d", ErrCorrupt, s, t)
			}
		}
		if t != prevTag {
			// A kind that was left must never come back.
			if closed.Test(uint(t)) {
				return nil, fmt.Errorf("%w: partition of %s is interleaved", ErrCorrupt, r.kindName(t))
			}
			closed.Set(uint(prevTag))
			prevTag = t
		}

		s = sent.next
		if s == r.head {
			break
		}
		if len(order) > r.sentinels.Len() {
			return nil, fmt.Errorf("%w: sentinel ring does not return to head", ErrCorrupt)
		}
	}

	if n := visited.GetCardinality(); n != uint64(r.sentinels.Len()) {
		return nil, fmt.Errorf("%w: %d of %d sentinels reachable", ErrCorrupt, n, r.sentinels.Len())
	}
	return order, nil
}

// validateNodes walks the payload ring once and checks it against the
// sentinel order.
func (r *Ring) validateNodes(order []SRef) error {
	var (
		visited  = roaring.New()
		start    = r.sentinel(r.head).below
		cur      = start
		ranges   = 0
		elements = 0
		total    = 0
		prevVal  []byte
		curSent  SRef
	)

	closeRange := func() error {
		if ranges == 0 {
			return nil
		}
		want := r.count(curSent)
		if elements != want {
			return fmt.Errorf("%w: range %d counts %d but holds %d", ErrCorrupt, curSent, want, elements)
		}
		if elements > r.nodeCount {
			return fmt.Errorf("%w: range %d holds %d elements, capacity %d", ErrCorrupt, curSent, elements, r.nodeCount)
		}
		t := r.markerType(curSent)
		split := r.markerType(r.sentinel(curSent).prev) == t || r.markerType(r.sentinel(curSent).next) == t
		if t != tagptr.Head && split && elements == 0 {
			return fmt.Errorf("%w: empty range %d in a split partition", ErrCorrupt, curSent)
		}
		return nil
	}

	for {
		if !visited.CheckedAdd(uint32(cur)) {
			return fmt.Errorf("%w: node %d reached twice", ErrCorrupt, cur)
		}

		n := r.node(cur)
		next := r.node(n.next)
		if next == nil || next.prev != cur {
			return fmt.Errorf("%w: node %d and its successor disagree", ErrCorrupt, cur)
		}

		if n.IsMarker() {
			if err := closeRange(); err != nil {
				return err
			}
			if ranges >= len(order) || order[ranges] != n.above {
				return fmt.Errorf("%w: marker %d out of sentinel order", ErrCorrupt, cur)
			}
			if n.word.Type() != r.markerType(curSent) {
				prevVal = nil
			}
			curSent = n.above
			ranges++
			elements = 0
		} else {
			t := n.word.Type()
			if t != r.markerType(curSent) {
				return fmt.Errorf("%w: node %d of %s inside a %s range", ErrCorrupt, cur, r.kindName(t), r.kindName(r.markerType(curSent)))
			}
			v := r.payload(n.word)
			if v == nil {
				return fmt.Errorf("%w: node %d points outside the payload arena", ErrCorrupt, cur)
			}
			if prevVal != nil && r.compare(t, prevVal, v) > 0 {
				return fmt.Errorf("%w: node %d of %s out of order", ErrCorrupt, cur, r.kindName(t))
			}
			prevVal = v
			elements++
			total++
		}

		cur = n.next
		if cur == start {
			break
		}
		if visited.GetCardinality() > uint64(r.nodes.Len()) {
			return fmt.Errorf("%w: payload ring does not return to head", ErrCorrupt)
		}
	}
	if err := closeRange(); err != nil {
		return err
	}

	if ranges != len(order) {
		return fmt.Errorf("%w: %d markers for %d sentinels", ErrCorrupt, ranges, len(order))
	}
	if n := visited.GetCardinality(); n != uint64(r.nodes.Len()) {
		return fmt.Errorf("%w: %d of %d nodes reachable", ErrCorrupt, n, r.nodes.Len())
	}
	if total != r.len {
		return fmt.Errorf("%w: %d values reachable, %d inserted", ErrCorrupt, total, r.len)
	}
	return nil
}

func (r *Ring) compare(t tagptr.Type, a, b []byte) int {
	if row := r.table.lookup(t); row != nil {
		return row.compare(a, b)
	}
	return bytes.Compare(a, b)
}

func (r *Ring) kindName(t tagptr.Type) string {
	if row := r.table.lookup(t); row != nil {
		return row.Name
	}
	if t == tagptr.Head {
		return "head"
	}
	return fmt.Sprintf("kind(%d)", t)
}
