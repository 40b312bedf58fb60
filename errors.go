package dynarray

import "github.com/cockroachdb/errors"

var (
	// ErrAllocation is returned when the allocator could not provide the
	// backing store for an array operation. The array is left unchanged.
	ErrAllocation = errors.New("dynarray: allocation failed")

	// ErrOutOfMemory is returned by a Heap when a request would exceed its limit.
	ErrOutOfMemory = errors.New("dynarray: heap limit exceeded")

	// ErrIndex is returned for an index outside the live region.
	ErrIndex = errors.New("dynarray: index out of range")
)

// allocationError marks err as an ErrAllocation while keeping the allocator's
// own cause reachable through errors.Is.
func allocationError(err error, op string, n int) error {
	return errors.Mark(errors.Wrapf(err, "%s: %d slots", op, n), ErrAllocation)
}

func indexError(op string, i, length int) error {
	return errors.Wrapf(ErrIndex, "%s: index %d, length %d", op, i, length)
}
