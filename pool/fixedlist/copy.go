package fixedlist

import "fmt"

// Clone returns a heap-backed copy with the same capacity. Elements are
// copied one by one in list order.
func (l *List[T]) Clone() *List[T] {
	c := New[T](l.Cap())
	for p := range l.All() {
		// Cannot fail: same capacity.
		_, _ = c.PushBack(*p)
	}
	return c
}

// Assign makes l an element-wise copy of src while reusing l's slots: the
// overlapping prefix is assigned in place, a surplus in l is erased from the
// back and missing elements are appended. If src holds more elements than l
// can, Assign returns ErrFull and leaves l untouched.
func (l *List[T]) Assign(src *List[T]) error {
	if src.hdr == l.hdr {
		return nil
	}
	if src.Len() > l.Cap() {
		return fmt.Errorf("%w: source has %d elements, capacity is %d", ErrFull, src.Len(), l.Cap())
	}

	d, s := l.hdr.head, src.hdr.head
	for d != nilIndex && s != nilIndex {
		l.data[d] = src.data[s]
		l.touchData(d)
		d, s = l.links[d].next, src.links[s].next
	}
	for d != nilIndex {
		next := l.links[d].next
		l.unlink(d)
		l.release(d)
		d = next
	}
	for ; s != nilIndex; s = src.links[s].next {
		if _, err := l.PushBack(src.data[s]); err != nil {
			return err
		}
	}
	return nil
}

// MoveFrom transfers the contents of src into l, reusing l's slots like
// Assign, and leaves src empty. Iterators into src become stale.
func (l *List[T]) MoveFrom(src *List[T]) error {
	if src.hdr == l.hdr {
		return nil
	}
	if err := l.Assign(src); err != nil {
		return err
	}
	src.Clear()
	return nil
}
