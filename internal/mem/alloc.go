package mem

import (
	"unsafe"
)

// Alignment is the default byte alignment (one cache line).
const Alignment = 64

// AllocAligned allocates a zeroed byte slice of the given size whose first
// byte sits at an address divisible by Alignment.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	// Allocate size + alignment to ensure we can find an aligned offset
	buf := make([]byte, size+Alignment)

	// Calculate the offset to the first aligned byte
	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // unsafe is required for memory alignment
	offset := int((Alignment - (addr & (Alignment - 1))) & (Alignment - 1))

	return buf[offset : offset+size : offset+size]
}
