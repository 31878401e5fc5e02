package ring

import "errors"

var (
	// ErrInvalidArgument is returned for a payload the kind cannot hold.
	ErrInvalidArgument = errors.New("ring: invalid argument")

	// ErrUnregisteredType is returned when no partition exists for a tag.
	ErrUnregisteredType = errors.New("ring: unregistered type")

	// ErrAllocation is returned when node or payload memory cannot be reserved.
	ErrAllocation = errors.New("ring: allocation failed")

	// ErrCorrupt is returned when a ring invariant does not hold.
	ErrCorrupt = errors.New("ring: structural corruption")

	// ErrClosed is returned when the ring has been destroyed.
	ErrClosed = errors.New("ring: closed")
)
