// Package fixedlist provides a fixed-capacity doubly linked list that never
// allocates after construction.
//
// # Overview
//
// A List[T] owns an array of slots. Each slot holds storage for one element
// plus a link entry with prev/next slot indices and a generation counter.
// Unused slots form a singly linked free chain; occupied slots form the
// doubly linked active chain in element order. Insertion takes the head of
// the free chain, erasure pushes the slot back, both in O(1).
//
// # Placement in Shared Memory
//
// Links are slot indices, not addresses, and the header holds only indices
// and counters. A list formatted with Init can therefore live inside a
// memory-mapped segment, be mapped at different addresses by different
// processes, or be relocated with a plain byte copy:
//
//	size, _ := fixedlist.Footprint[Record](512)
//	l, err := fixedlist.Init[Record](region[:size], 512, nil)
//	...
//	// in another process, same bytes mapped elsewhere
//	l, err := fixedlist.Attach[Record](region[:size], nil)
//
// Placed element types must not contain Go pointers. New builds a
// heap-backed list for any element type.
//
// # Iterators
//
// An Iterator captures the slot index and the slot's generation. Erasing a
// slot bumps its generation, so every outstanding iterator to it becomes
// stale while iterators to other slots stay valid. Using a stale iterator,
// comparing iterators of different lists, or dereferencing End() panics with
// an error wrapping ErrStaleIterator, ErrForeignIterator or ErrEndIterator.
// Movement saturates: Next on End() and Prev on Begin() stay put.
//
//	for it := l.Begin(); !it.IsEnd(); it.Next() {
//	    use(it.Value())
//	}
//
// All and Backward offer the same traversal as range-over-func sequences.
//
// # Failure Modes
//
// Running out of slots is an expected condition: every insertion returns
// ErrFull and constructs nothing. Iterator misuse and Front/Back on an empty
// list are programming errors and panic.
//
// # Thread Safety
//
// A List has no internal locking. Mutations must be serialized by the
// caller; readers may run concurrently only while nobody mutates.
package fixedlist
