package fixedlist

// Iterator is a position in a List: the list, a slot index and the slot's
// generation at the time the iterator was captured. Erasing the slot bumps
// its generation, which turns every copy of the iterator stale. Any use of a
// stale or foreign iterator panics.
//
// The zero Iterator belongs to no list and panics on use.
type Iterator[T any] struct {
	l   *List[T]
	idx uint32
	gen uint64
}

// Begin returns an iterator to the first element, or End() if the list is
// empty.
func (l *List[T]) Begin() Iterator[T] {
	return l.iterAt(l.hdr.head)
}

// End returns the past-the-end iterator.
func (l *List[T]) End() Iterator[T] {
	return Iterator[T]{l: l, idx: nilIndex}
}

func (l *List[T]) iterAt(idx uint32) Iterator[T] {
	if idx == nilIndex {
		return l.End()
	}
	return Iterator[T]{l: l, idx: idx, gen: l.links[idx].gen}
}

// own panics unless it is a valid iterator of l. Two handles attached to the
// same region are the same list.
func (l *List[T]) own(it Iterator[T], op string) {
	if it.l == nil || it.l.hdr != l.hdr {
		violation(ErrForeignIterator, "%s", op)
	}
	it.check(op)
}

func (it Iterator[T]) check(op string) {
	if it.l == nil {
		violation(ErrForeignIterator, "%s on detached iterator", op)
	}
	if it.idx == nilIndex {
		return
	}
	l := it.l
	if !l.live(it.idx) || l.links[it.idx].gen != it.gen {
		violation(ErrStaleIterator, "%s on slot %d (generation %d)", op, it.idx, it.gen)
	}
}

// IsEnd reports whether it is the past-the-end position.
func (it Iterator[T]) IsEnd() bool {
	it.check("IsEnd")
	return it.idx == nilIndex
}

// Value returns the element at it. It panics on End() or a stale iterator.
func (it Iterator[T]) Value() *T {
	it.check("Value")
	if it.idx == nilIndex {
		violation(ErrEndIterator, "Value()")
	}
	return &it.l.data[it.idx]
}

// Next advances to the following element. Advancing End() stays at End().
func (it *Iterator[T]) Next() {
	it.check("Next")
	if it.idx == nilIndex {
		return
	}
	*it = it.l.iterAt(it.l.links[it.idx].next)
}

// Prev moves to the preceding element. Moving back from End() yields the last
// element; moving back from the first element stays there.
func (it *Iterator[T]) Prev() {
	it.check("Prev")
	l := it.l
	if it.idx == nilIndex {
		*it = l.iterAt(l.hdr.tail)
		return
	}
	if prev := l.links[it.idx].prev; prev != nilIndex {
		*it = l.iterAt(prev)
	}
}

// Equal reports whether both iterators point at the same position. Comparing
// iterators of different lists panics.
func (it Iterator[T]) Equal(o Iterator[T]) bool {
	it.check("Equal")
	o.check("Equal")
	if it.l.hdr != o.l.hdr {
		violation(ErrForeignIterator, "Equal")
	}
	return it.idx == o.idx
}
