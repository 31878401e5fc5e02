package ring

import (
	"fmt"

	"github.com/hupe1980/tagring/internal/tagptr"
)

// locateType returns the first sentinel of tag's partition.
//
// Splits always insert the new sentinel right after its origin, so the
// sentinels of one kind stay contiguous and the first one met from HEAD
// starts the partition.
func (r *Ring) locateType(tag tagptr.Type) (SRef, error) {
	if tag == tagptr.Head {
		return 0, fmt.Errorf("%w: %d is reserved", ErrUnregisteredType, tag)
	}

	s := r.head
	for i := 0; i < r.sentinels.Len(); i++ {
		s = r.sentinel(s).next
		switch t := r.markerType(s); {
		case t == tag:
			return s, nil
		case t == tagptr.Head:
			if s != r.head {
				return 0, fmt.Errorf("%w: second head sentinel %d", ErrCorrupt, s)
			}
			return 0, fmt.Errorf("%w: %d", ErrUnregisteredType, tag)
		}
	}
	return 0, fmt.Errorf("%w: sentinel ring does not return to head", ErrCorrupt)
}

// locateRange returns the sentinel of the range that should hold v. from is
// the first sentinel of the partition, or any sentinel of it whose lower
// bound is known to be <= v.
func (r *Ring) locateRange(from SRef, row *Row, v []byte) (SRef, error) {
	// A partition with a single range takes everything.
	if r.markerType(r.sentinel(from).prev) != row.Tag && r.markerType(r.sentinel(from).next) != row.Tag {
		return from, nil
	}

	s := from
	for i := 0; i < r.sentinels.Len(); i++ {
		if r.markerType(s) != row.Tag {
			break
		}
		if r.count(s) == 0 {
			return 0, fmt.Errorf("%w: empty range %d in a split partition", ErrCorrupt, s)
		}
		if next := r.sentinel(s).next; r.markerType(next) == row.Tag && r.count(next) == 0 {
			return 0, fmt.Errorf("%w: empty range %d in a split partition", ErrCorrupt, next)
		}
		if row.Range(r, s, v) {
			return s, nil
		}
		s = r.sentinel(s).next
	}
	return 0, fmt.Errorf("%w: no range of %s accepts the value", ErrCorrupt, row.Name)
}
