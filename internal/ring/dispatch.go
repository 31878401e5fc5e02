package ring

import (
	"io"

	"github.com/hupe1980/tagring/internal/kind"
	"github.com/hupe1980/tagring/internal/tagptr"
)

// NodeComparator reports whether v still belongs after the node following
// at. It is false once the next node is a marker.
type NodeComparator func(r *Ring, at NRef, v []byte) bool

// RangeComparator reports whether v falls into the range of s. The lower
// bound is open for the first range of a partition and the upper bound is
// open for the last one.
type RangeComparator func(r *Ring, s SRef, v []byte) bool

// Row is one entry of the dispatch table.
type Row struct {
	Tag    tagptr.Type
	Name   string
	Width  int
	Node   NodeComparator
	Range  RangeComparator
	Output func(w io.Writer, p []byte) error

	compare func(a, b []byte) int
}

type table [tagptr.NumTypes]*Row

var dispatch = buildTable(kind.Registered())

func buildTable(codecs []kind.Codec) *table {
	var t table
	for _, c := range codecs {
		t[c.Tag] = &Row{
			Tag:    c.Tag,
			Name:   c.Name,
			Width:  c.Width,
			Node:   nodeAtMost(c.Compare),
			Range:  rangeContains(c.Compare),
			Output: c.Output,

			compare: c.Compare,
		}
	}
	return &t
}

func (t *table) lookup(tag tagptr.Type) *Row {
	if tag == tagptr.Head {
		return nil
	}
	return t[tag]
}

// rows returns the registered rows in tag order.
func (t *table) rows() []*Row {
	out := make([]*Row, 0, len(t))
	for _, row := range t {
		if row != nil {
			out = append(out, row)
		}
	}
	return out
}

func nodeAtMost(compare func(a, b []byte) int) NodeComparator {
	return func(r *Ring, at NRef, v []byte) bool {
		next := r.node(r.node(at).next)
		if next.IsMarker() {
			return false
		}
		// Step over equal values so ties keep insertion order.
		return compare(r.payload(next.word), v) <= 0
	}
}

func rangeContains(compare func(a, b []byte) int) RangeComparator {
	return func(r *Ring, s SRef, v []byte) bool {
		sent := r.sentinel(s)
		t := r.markerType(s)

		if r.markerType(sent.prev) == t {
			lower, ok := r.lowerBound(s)
			if !ok || compare(v, lower) < 0 {
				return false
			}
		}
		if r.markerType(sent.next) == t {
			upper, ok := r.lowerBound(sent.next)
			if !ok || compare(v, upper) >= 0 {
				return false
			}
		}
		return true
	}
}
