// Package resource implements the memory budget shared by an index's payload
// arena and its node store.
//
// Memory tracking uses a weighted semaphore for the hard limit and an atomic
// counter for usage. Acquisition is non-blocking and fails fast with
// ErrMemoryLimitExceeded:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 64 << 20,
//	})
//
//	if err := rc.AcquireMemory(ctx, 4096); err != nil {
//	    // ErrMemoryLimitExceeded, or ctx.Err()
//	}
//	defer rc.ReleaseMemory(4096)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
// This allows optional limiting without nil checks everywhere.
package resource
