// Package arena provides the payload arena of an index.
//
// Payload bytes are bump-allocated into large off-heap chunks (anonymous
// mmap on unix, VirtualAlloc on windows). An allocation is addressed by a
// global offset:
//
//	offset = chunkIndex<<chunkBits | offsetInChunk
//
// Offsets stay below 1<<46, so they fit the address half of a tagged word.
// Offset 0 is reserved as null.
//
// Memory is only returned when the whole arena is freed. Chunk memory can be
// charged against an external budget through a MemoryAcquirer.
//
// The arena is not safe for concurrent use.
package arena
