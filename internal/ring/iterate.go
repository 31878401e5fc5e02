package ring

import (
	"fmt"
	"io"
	"iter"

	"github.com/hupe1980/tagring/internal/tagptr"
)

// Partition yields the value words of tag's partition in sort order.
//
// The sequence is lazy and restartable; every call walks the payload ring
// again from the partition's first marker. The ring must not be modified
// while a walk is in progress.
func (r *Ring) Partition(tag tagptr.Type) iter.Seq[tagptr.Word] {
	return func(yield func(tagptr.Word) bool) {
		if r.closed {
			return
		}
		first, err := r.locateType(tag)
		if err != nil {
			return
		}

		cur := r.node(r.sentinel(first).below).next
		for i := 0; i < r.nodes.Len(); i++ {
			n := r.node(cur)
			if n.IsMarker() {
				if n.word.Type() != tag {
					return
				}
			} else if !yield(n.word) {
				return
			}
			cur = n.next
		}
	}
}

// All yields every value word, partition by partition in ring order.
func (r *Ring) All() iter.Seq[tagptr.Word] {
	return func(yield func(tagptr.Word) bool) {
		if r.closed {
			return
		}

		start := r.sentinel(r.head).below
		cur := r.node(start).next
		for i := 0; i < r.nodes.Len() && cur != start; i++ {
			n := r.node(cur)
			if !n.IsMarker() && !yield(n.word) {
				return
			}
			cur = n.next
		}
	}
}

// ranges returns the value words of tag's partition grouped by range.
func (r *Ring) ranges(tag tagptr.Type) [][]tagptr.Word {
	var out [][]tagptr.Word
	r.walkRanges(tag, func(_ SRef, words []tagptr.Word) {
		out = append(out, words)
	})
	return out
}

// RangeCounts returns the cached element count of every range of tag's
// partition.
func (r *Ring) RangeCounts(tag tagptr.Type) []int {
	if r.closed {
		return nil
	}
	first, err := r.locateType(tag)
	if err != nil {
		return nil
	}

	var counts []int
	for s := first; len(counts) < r.sentinels.Len() && r.markerType(s) == tag; s = r.sentinel(s).next {
		counts = append(counts, r.count(s))
	}
	return counts
}

func (r *Ring) walkRanges(tag tagptr.Type, fn func(s SRef, words []tagptr.Word)) {
	if r.closed {
		return
	}
	first, err := r.locateType(tag)
	if err != nil {
		return
	}

	var (
		s     = first
		words []tagptr.Word
		cur   = r.node(r.sentinel(first).below).next
	)
	for i := 0; i < r.nodes.Len(); i++ {
		n := r.node(cur)
		if n.IsMarker() {
			fn(s, words)
			if n.word.Type() != tag {
				return
			}
			s, words = n.above, nil
		} else {
			words = append(words, n.word)
		}
		cur = n.next
	}
}

// Output writes every value through its kind's output function.
func (r *Ring) Output(w io.Writer) error {
	if r.closed {
		return ErrClosed
	}
	for word := range r.All() {
		row := r.table.lookup(word.Type())
		if row == nil {
			return fmt.Errorf("%w: value of unregistered type %d", ErrCorrupt, word.Type())
		}
		if err := row.Output(w, r.payload(word)); err != nil {
			return err
		}
	}
	return nil
}
