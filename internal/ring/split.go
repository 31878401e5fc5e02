package ring

import "fmt"

// splitPlan is a split computed without touching either ring.
type splitPlan struct {
	sentinel SRef
	mid      NRef // last node of the lower half
	pivot    NRef // first node of the upper half
	lower    int
	upper    int
}

// planSplit walks to the midpoint of the range of s. The lower half keeps
// floor(n/2) elements; the odd element goes to the upper half.
func (r *Ring) planSplit(s SRef) (splitPlan, error) {
	n := r.count(s)
	if n < MinNodeCount {
		return splitPlan{}, fmt.Errorf("%w: cannot split range %d of %d elements", ErrCorrupt, s, n)
	}

	mid := r.sentinel(s).below
	for i := 0; i < n/2; i++ {
		mid = r.node(mid).next
		if r.node(mid).IsMarker() {
			return splitPlan{}, fmt.Errorf("%w: range %d ends after %d of %d elements", ErrCorrupt, s, i, n)
		}
	}

	return splitPlan{sentinel: s, mid: mid, pivot: r.node(mid).next, lower: n / 2, upper: n - n/2}, nil
}

// split applies p. It links one new sentinel right after p.sentinel and one
// new marker right after p.mid, and returns the new sentinel. No value is
// compared or moved: the node after the midpoint becomes the lower bound of
// the new range. The caller checks hasRoom(1, 1) first.
func (r *Ring) split(p splitPlan) SRef {
	sent := r.sentinel(p.sentinel)
	mid := r.node(p.mid)
	t := r.markerType(p.sentinel)

	m, _ := r.nodes.Append(Node{word: markerWord(t, p.upper), next: mid.next, prev: p.mid})
	newM := NRef(m)
	si, _ := r.sentinels.Append(Sentinel{next: sent.next, prev: p.sentinel, below: newM})
	newS := SRef(si)
	r.node(newM).above = newS

	r.node(mid.next).prev = newM
	mid.next = newM

	r.sentinel(sent.next).prev = newS
	sent.next = newS

	r.setCount(p.sentinel, p.lower)
	r.splits++

	return newS
}

// takesUpper reports whether v belongs to the upper half of p. Equal values
// go up, after every copy already stored.
func (r *Ring) takesUpper(p splitPlan, row *Row, v []byte) bool {
	return row.compare(v, r.payload(r.node(p.pivot).word)) >= 0
}
