package tagring

import "github.com/hupe1980/tagring/internal/tagptr"

// Stats is a snapshot of the index structure.
type Stats struct {
	Len        int // values stored
	NodeCount  int // range capacity
	Splits     int // splits performed since New
	Partitions []PartitionStats
	Arena      ArenaStats

	// MemoryUsage is the memory held for node slots and payload chunks.
	MemoryUsage int64
	// MemoryLimit is the configured limit, 0 if unlimited.
	MemoryLimit int64
}

// PartitionStats describes the ranges of one kind.
type PartitionStats struct {
	Kind   Kind
	Len    int
	Ranges []int // element count per range, in order
}

// ArenaStats describes the payload arena.
type ArenaStats struct {
	Chunks        uint64
	BytesReserved uint64
	BytesUsed     uint64
	BytesWasted   uint64 // alignment padding
	Allocs        uint64
}

// Stats returns a snapshot of the index structure. A closed index reports
// zero values.
func (ix *Index) Stats() Stats {
	st := Stats{
		Len:         ix.ring.Len(),
		NodeCount:   ix.ring.NodeCount(),
		Splits:      ix.ring.Splits(),
		MemoryUsage: ix.ctrl.MemoryUsage(),
		MemoryLimit: ix.ctrl.MemoryLimit(),
	}

	a := ix.ring.ArenaStats()
	st.Arena = ArenaStats{
		Chunks:        a.ActiveChunks,
		BytesReserved: a.BytesReserved,
		BytesUsed:     a.BytesUsed,
		BytesWasted:   a.BytesWasted,
		Allocs:        a.TotalAllocs,
	}

	if ix.ring.Closed() {
		return st
	}
	for _, k := range Kinds() {
		ps := PartitionStats{Kind: k, Ranges: ix.ring.RangeCounts(tagptr.Type(k))}
		for _, n := range ps.Ranges {
			ps.Len += n
		}
		st.Partitions = append(st.Partitions, ps)
	}
	return st
}
