package fixedlist

import (
	"errors"
	"fmt"
)

var (
	// ErrFull indicates that no free slot is left. Nothing was constructed.
	ErrFull = errors.New("fixedlist: list is full")

	// ErrEmpty indicates an access to the front or back of an empty list.
	ErrEmpty = errors.New("fixedlist: list is empty")

	// ErrStaleIterator indicates use of an iterator whose slot has been erased
	// since the iterator was captured.
	ErrStaleIterator = errors.New("fixedlist: stale iterator")

	// ErrForeignIterator indicates an iterator that belongs to another list,
	// or a zero Iterator that belongs to none.
	ErrForeignIterator = errors.New("fixedlist: iterator belongs to another list")

	// ErrEndIterator indicates a dereference or erase of End().
	ErrEndIterator = errors.New("fixedlist: end iterator")

	// ErrBadCapacity indicates a capacity outside 1..MaxCapacity.
	ErrBadCapacity = errors.New("fixedlist: capacity out of range")

	// ErrPointerElem indicates an element type that holds Go pointers and
	// therefore cannot be placed in a foreign memory region.
	ErrPointerElem = errors.New("fixedlist: element type contains pointers")

	// ErrZeroSizeElem indicates a zero-sized element type for a placed list.
	ErrZeroSizeElem = errors.New("fixedlist: element type has zero size")

	// ErrMisaligned indicates a region whose base address is not aligned for
	// the list header or the element type.
	ErrMisaligned = errors.New("fixedlist: region is misaligned")

	// ErrRegionTooSmall indicates a region shorter than Footprint.
	ErrRegionTooSmall = errors.New("fixedlist: region too small")

	// ErrBadMagic indicates that a region was never formatted by Init.
	ErrBadMagic = errors.New("fixedlist: bad region magic")

	// ErrElemSize indicates that a region was formatted for another element type.
	ErrElemSize = errors.New("fixedlist: element size mismatch")

	// ErrCorrupt is wrapped by every CorruptionError.
	ErrCorrupt = errors.New("fixedlist: corrupt list")
)

// CorruptionError describes a broken chain invariant found by Verify.
type CorruptionError struct {
	Reason string
	Slot   int // -1 when the problem is not tied to one slot
}

func (e *CorruptionError) Error() string {
	if e.Slot < 0 {
		return fmt.Sprintf("%v: %s", ErrCorrupt, e.Reason)
	}
	return fmt.Sprintf("%v: %s (slot %d)", ErrCorrupt, e.Reason, e.Slot)
}

func (e *CorruptionError) Unwrap() error { return ErrCorrupt }

// violation aborts the current operation. Contract violations are programming
// errors and are never returned as values.
func violation(err error, format string, args ...any) {
	panic(fmt.Errorf("%w: "+format, append([]any{err}, args...)...))
}
