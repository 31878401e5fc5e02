package tagring

import (
	"errors"
	"fmt"

	"github.com/hupe1980/tagring/internal/arena"
	"github.com/hupe1980/tagring/internal/resource"
	"github.com/hupe1980/tagring/internal/ring"
)

var (
	// ErrInvalidArgument is returned for a null value, a payload its kind
	// cannot hold, or an invalid option.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnregisteredType is returned for a value whose kind has no partition.
	ErrUnregisteredType = errors.New("unregistered type")

	// ErrAllocationFailure is returned when node or payload memory cannot be
	// obtained, including when the memory limit would be exceeded.
	ErrAllocationFailure = errors.New("allocation failure")

	// ErrStructuralCorruption is returned when an invariant of the rings is
	// found broken.
	ErrStructuralCorruption = errors.New("structural corruption")

	// ErrClosed is returned when the index has been closed.
	ErrClosed = errors.New("index closed")
)

// ErrPayloadSize indicates a payload whose length its kind cannot hold.
//
// It matches ErrInvalidArgument with errors.Is.
type ErrPayloadSize struct {
	Kind     Kind
	Expected int // 0 for variable-length kinds
	Actual   int
}

func (e *ErrPayloadSize) Error() string {
	if e.Expected == 0 {
		return fmt.Sprintf("invalid argument: %s payload of %d bytes exceeds %d", e.Kind, e.Actual, MaxPayloadSize)
	}
	return fmt.Sprintf("invalid argument: %s payload must be %d bytes, got %d", e.Kind, e.Expected, e.Actual)
}

// Is reports whether target is ErrInvalidArgument.
func (e *ErrPayloadSize) Is(target error) bool { return target == ErrInvalidArgument }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ring.ErrClosed), errors.Is(err, arena.ErrClosed):
		return fmt.Errorf("%w: %w", ErrClosed, err)
	case errors.Is(err, ring.ErrCorrupt):
		return fmt.Errorf("%w: %w", ErrStructuralCorruption, err)
	case errors.Is(err, ring.ErrUnregisteredType):
		return fmt.Errorf("%w: %w", ErrUnregisteredType, err)
	case errors.Is(err, ring.ErrInvalidArgument):
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	case errors.Is(err, ring.ErrAllocation),
		errors.Is(err, resource.ErrMemoryLimitExceeded),
		errors.Is(err, arena.ErrMaxChunksExceeded),
		errors.Is(err, arena.ErrAllocationFailed):
		return fmt.Errorf("%w: %w", ErrAllocationFailure, err)
	}

	return err
}
