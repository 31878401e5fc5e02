package ring

import (
	"math"
	"unsafe"

	"github.com/hupe1980/tagring/internal/tagptr"
)

// SRef is the stable index of a Sentinel in the sentinel store.
type SRef uint32

// NRef is the stable index of a Node in the node store.
type NRef uint32

// NoSentinel is the above reference of a node that is not a range marker.
const NoSentinel SRef = math.MaxUint32

// Sentinel is an index node. It delimits one range of one kind; the HEAD
// sentinel delimits the rings themselves.
type Sentinel struct {
	next  SRef
	prev  SRef
	below NRef // marker node of the range
}

// Node is a payload node. Range markers carry a back-reference to their
// sentinel, and their word carries the range's element count in the size
// field instead of a payload length.
type Node struct {
	word  tagptr.Word
	above SRef
	next  NRef
	prev  NRef
}

// IsMarker reports whether n starts a range.
func (n *Node) IsMarker() bool {
	return n.above != NoSentinel
}

const (
	sentinelBytes = int64(unsafe.Sizeof(Sentinel{}))
	nodeBytes     = int64(unsafe.Sizeof(Node{}))
)

func markerWord(t tagptr.Type, count int) tagptr.Word {
	// Address 0 is the null arena offset; it never fails to encode.
	w, _ := tagptr.Encode(0, t, uint16(count)) //nolint:gosec // count <= tagptr.MaxSize
	return w
}
