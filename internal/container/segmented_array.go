// Package container implements container data structures.
package container

import "math"

const (
	// segmentBits determines the size of each segment.
	// 10 bits = 1024 items per segment.
	segmentBits = 10
	segmentSize = 1 << segmentBits
	segmentMask = segmentSize - 1

	// MaxLen is the largest number of items a SegmentedArray can hold.
	MaxLen = math.MaxInt32
)

// SegmentedArray is an append-only array split into fixed-size segments.
//
// Growing never moves existing items, so pointers returned by At stay valid
// for the lifetime of the array and indices are stable. It is not safe for
// concurrent use.
type SegmentedArray[T any] struct {
	segments []*Segment[T]
	n        uint32
}

// Segment is a fixed-size array of items.
type Segment[T any] struct {
	items [segmentSize]T
}

// NewSegmentedArray creates a new SegmentedArray.
func NewSegmentedArray[T any]() *SegmentedArray[T] {
	return &SegmentedArray[T]{}
}

// Append stores value at the next index and returns that index.
// It reports false if the array is full.
func (sa *SegmentedArray[T]) Append(value T) (uint32, bool) {
	if sa.n == MaxLen {
		return 0, false
	}
	index := sa.n
	segIdx := int(index >> segmentBits)
	if segIdx == len(sa.segments) {
		sa.segments = append(sa.segments, &Segment[T]{})
	}
	sa.segments[segIdx].items[index&segmentMask] = value
	sa.n++
	return index, true
}

// At returns a pointer to the item at index, or nil if index is out of
// bounds.
func (sa *SegmentedArray[T]) At(index uint32) *T {
	if index >= sa.n {
		return nil
	}
	return &sa.segments[index>>segmentBits].items[index&segmentMask]
}

// Len returns the number of items.
func (sa *SegmentedArray[T]) Len() int {
	return int(sa.n)
}

// Reset drops every segment.
func (sa *SegmentedArray[T]) Reset() {
	clear(sa.segments)
	sa.segments = nil
	sa.n = 0
}
