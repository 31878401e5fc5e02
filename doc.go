// Package tagring provides an in-memory ordered index for heterogeneous
// typed values.
//
// Values of each kind (string, int64, float64) live in their own partition
// and are kept in sort order. A partition is a chain of ranges of at most
// NodeCount values; a full range splits in two before it takes another
// value, so no insert scans more than one range.
//
// # Quick Start
//
//	ix, err := tagring.New(tagring.WithNodeCount(16))
//	if err != nil {
//	    panic(err)
//	}
//	defer ix.Close()
//
//	ctx := context.Background()
//	_ = ix.Insert(ctx, tagring.Int(10))
//	_ = ix.Insert(ctx, tagring.String("b"))
//	_ = ix.Insert(ctx, tagring.Float(0.5))
//
//	for v := range ix.Partition(tagring.KindInt) {
//	    fmt.Println(v)
//	}
//
// # Layout
//
// The index is two circular rings. The sentinel ring holds one node per
// range; the payload ring holds every value with a marker node at the start
// of each range. Each value is one 64-bit word whose low 48 bits address its
// payload in an arena and whose top 16 bits carry the kind tag and the
// payload length. Markers use the same 12 bits for the range's value count.
//
// # Errors
//
// Insert reports ErrInvalidArgument, ErrUnregisteredType or
// ErrAllocationFailure and leaves the index unchanged. ErrStructuralCorruption
// means an invariant was found broken and the index should be closed.
//
// # Memory
//
// WithMemoryLimit caps node and payload memory together. Payload bytes are
// copied into off-heap chunks; Close releases everything in one pass.
//
// An Index is not safe for concurrent use.
package tagring
