package fixedlist

import (
	"iter"
	"unsafe"
)

// List is a fixed-capacity doubly linked list. Elements live in a slot array
// that never moves, so element addresses are stable for as long as the
// element is in the list. Unused slots form a free chain; insertion and
// erasure are O(1) and never allocate.
//
// A List is not safe for concurrent mutation. Concurrent readers are fine
// while no goroutine (or process) mutates it.
type List[T any] struct {
	hdr   *header
	links []link
	data  []T

	dt       DirtyTracker
	base     int
	linksOff int
	dataOff  int
}

// New returns an empty heap-backed list with the given capacity. T may be any
// type. New panics if capacity is outside 1..MaxCapacity, like make does for
// a negative length.
func New[T any](capacity int) *List[T] {
	if capacity < 1 || capacity > MaxCapacity {
		violation(ErrBadCapacity, "New(%d)", capacity)
	}
	l := &List[T]{
		hdr:   &header{},
		links: make([]link, capacity),
		data:  make([]T, capacity),
	}
	l.format(capacity)
	return l
}

func (l *List[T]) format(capacity int) {
	var zero T
	h := l.hdr
	h.magic = headerMagic
	h.elemSize = uint32(unsafe.Sizeof(zero))
	h.capacity = uint32(capacity)
	h.size = 0
	h.head = nilIndex
	h.tail = nilIndex
	h.freeHead = 0
	h.erasures = 0
	for i := range l.links {
		next := uint32(i + 1)
		if i == capacity-1 {
			next = nilIndex
		}
		l.links[i] = link{prev: freeMark, next: next}
	}
}

// Len returns the number of elements.
func (l *List[T]) Len() int { return int(l.hdr.size) }

// Cap returns the fixed capacity. It is also the maximum size.
func (l *List[T]) Cap() int { return int(l.hdr.capacity) }

// Empty reports whether the list has no elements.
func (l *List[T]) Empty() bool { return l.hdr.size == 0 }

// Full reports whether every slot is occupied.
func (l *List[T]) Full() bool { return l.hdr.size == l.hdr.capacity }

// Erasures returns how many elements have ever been erased from the list.
func (l *List[T]) Erasures() uint64 { return l.hdr.erasures }

// PushBack copies v to the end of the list. It returns ErrFull, and leaves
// the list untouched, when no slot is free.
func (l *List[T]) PushBack(v T) (*T, error) {
	idx, err := l.construct(nilIndex, func(p *T) { *p = v })
	if err != nil {
		return nil, err
	}
	return &l.data[idx], nil
}

// PushFront copies v to the start of the list.
func (l *List[T]) PushFront(v T) (*T, error) {
	idx, err := l.construct(l.hdr.head, func(p *T) { *p = v })
	if err != nil {
		return nil, err
	}
	return &l.data[idx], nil
}

// EmplaceBack constructs a new last element in place. The slot is zeroed
// before init runs; a nil init leaves the zero value.
func (l *List[T]) EmplaceBack(init func(*T)) (*T, error) {
	idx, err := l.construct(nilIndex, init)
	if err != nil {
		return nil, err
	}
	return &l.data[idx], nil
}

// EmplaceFront constructs a new first element in place.
func (l *List[T]) EmplaceFront(init func(*T)) (*T, error) {
	idx, err := l.construct(l.hdr.head, init)
	if err != nil {
		return nil, err
	}
	return &l.data[idx], nil
}

// Emplace constructs a new element in place before pos and returns an
// iterator to it. pos must be a valid iterator of this list (End() appends).
func (l *List[T]) Emplace(pos Iterator[T], init func(*T)) (Iterator[T], error) {
	l.own(pos, "Emplace")
	idx, err := l.construct(pos.idx, init)
	if err != nil {
		return Iterator[T]{}, err
	}
	return l.iterAt(idx), nil
}

// Insert copies v before pos and returns an iterator to the new element.
func (l *List[T]) Insert(pos Iterator[T], v T) (Iterator[T], error) {
	return l.Emplace(pos, func(p *T) { *p = v })
}

// PopFront erases the first element. It returns false on an empty list.
func (l *List[T]) PopFront() bool {
	idx := l.hdr.head
	if idx == nilIndex {
		return false
	}
	l.unlink(idx)
	l.release(idx)
	return true
}

// PopBack erases the last element. It returns false on an empty list.
func (l *List[T]) PopBack() bool {
	idx := l.hdr.tail
	if idx == nilIndex {
		return false
	}
	l.unlink(idx)
	l.release(idx)
	return true
}

// Erase removes the element at pos and returns an iterator to the element
// that followed it. Every copy of pos becomes stale; iterators to other
// elements stay valid.
func (l *List[T]) Erase(pos Iterator[T]) Iterator[T] {
	l.own(pos, "Erase")
	if pos.idx == nilIndex {
		violation(ErrEndIterator, "Erase(End())")
	}
	next := l.links[pos.idx].next
	l.unlink(pos.idx)
	l.release(pos.idx)
	return l.iterAt(next)
}

// RemoveIf erases every element for which pred returns true and reports how
// many were erased. Survivors keep their relative order.
func (l *List[T]) RemoveIf(pred func(*T) bool) int {
	removed := 0
	for idx := l.hdr.head; idx != nilIndex; {
		next := l.links[idx].next
		if pred(&l.data[idx]) {
			l.unlink(idx)
			l.release(idx)
			removed++
		}
		idx = next
	}
	return removed
}

// Remove erases every element equal to v and reports how many were erased.
func Remove[T comparable](l *List[T], v T) int {
	return l.RemoveIf(func(p *T) bool { return *p == v })
}

// RemovePtr erases the slot that holds p. Only that exact slot is released,
// even if other elements compare equal. It returns false if p does not point
// at an element of this list.
func (l *List[T]) RemovePtr(p *T) bool {
	idx, ok := l.IndexOf(p)
	if !ok {
		return false
	}
	l.unlink(uint32(idx))
	l.release(uint32(idx))
	return true
}

// IndexOf returns the slot index of the element p points at.
func (l *List[T]) IndexOf(p *T) (int, bool) {
	if p == nil || len(l.data) == 0 {
		return -1, false
	}
	size := unsafe.Sizeof(*p)
	if size == 0 {
		return -1, false
	}
	base := uintptr(unsafe.Pointer(&l.data[0]))
	addr := uintptr(unsafe.Pointer(p))
	if addr < base {
		return -1, false
	}
	off := addr - base
	if off%size != 0 || off/size >= uintptr(len(l.data)) {
		return -1, false
	}
	idx := uint32(off / size)
	if !l.live(idx) {
		return -1, false
	}
	return int(idx), true
}

// Clear erases every element.
func (l *List[T]) Clear() {
	for idx := l.hdr.head; idx != nilIndex; {
		next := l.links[idx].next
		l.unlink(idx)
		l.release(idx)
		idx = next
	}
}

// Front returns the first element. It panics on an empty list.
func (l *List[T]) Front() *T {
	if l.hdr.head == nilIndex {
		violation(ErrEmpty, "Front()")
	}
	return &l.data[l.hdr.head]
}

// Back returns the last element. It panics on an empty list.
func (l *List[T]) Back() *T {
	if l.hdr.tail == nilIndex {
		violation(ErrEmpty, "Back()")
	}
	return &l.data[l.hdr.tail]
}

// All yields every element from front to back. The element being visited may
// be erased from inside the loop; other mutations end in undefined order.
func (l *List[T]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for idx := l.hdr.head; idx != nilIndex; {
			next := l.links[idx].next
			if !yield(&l.data[idx]) {
				return
			}
			idx = next
		}
	}
}

// Backward yields every element from back to front.
func (l *List[T]) Backward() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for idx := l.hdr.tail; idx != nilIndex; {
			prev := l.links[idx].prev
			if !yield(&l.data[idx]) {
				return
			}
			idx = prev
		}
	}
}

func (l *List[T]) live(idx uint32) bool {
	return idx < l.hdr.capacity && l.links[idx].prev != freeMark
}

// construct fills the head of the free chain and links it before pos. The
// slot leaves the free chain only after init returns, so a panicking init
// does not leak capacity.
func (l *List[T]) construct(pos uint32, init func(*T)) (uint32, error) {
	h := l.hdr
	idx := h.freeHead
	if idx == nilIndex {
		return nilIndex, ErrFull
	}
	var zero T
	l.data[idx] = zero
	if init != nil {
		init(&l.data[idx])
	}
	h.freeHead = l.links[idx].next
	l.linkBefore(idx, pos)
	l.touchData(idx)
	return idx, nil
}

func (l *List[T]) linkBefore(idx, pos uint32) {
	h := l.hdr
	prev := h.tail
	if pos != nilIndex {
		prev = l.links[pos].prev
	}
	l.links[idx].prev = prev
	l.links[idx].next = pos
	l.touchLink(idx)

	if prev == nilIndex {
		h.head = idx
	} else {
		l.links[prev].next = idx
		l.touchLink(prev)
	}
	if pos == nilIndex {
		h.tail = idx
	} else {
		l.links[pos].prev = idx
		l.touchLink(pos)
	}
	h.size++
	l.touchHeader()
}

func (l *List[T]) unlink(idx uint32) {
	h := l.hdr
	prev, next := l.links[idx].prev, l.links[idx].next
	if prev == nilIndex {
		h.head = next
	} else {
		l.links[prev].next = next
		l.touchLink(prev)
	}
	if next == nilIndex {
		h.tail = prev
	} else {
		l.links[next].prev = prev
		l.touchLink(next)
	}
	h.size--
}

// release destroys the element, invalidates outstanding iterators to the
// slot and returns it to the free chain.
func (l *List[T]) release(idx uint32) {
	h := l.hdr
	var zero T
	l.data[idx] = zero
	lk := &l.links[idx]
	lk.gen++
	lk.prev = freeMark
	lk.next = h.freeHead
	h.freeHead = idx
	h.erasures++
	l.touchLink(idx)
	l.touchData(idx)
	l.touchHeader()
}

func (l *List[T]) touchRange(off, length int) {
	if l.dt != nil {
		l.dt.Add(l.base+off, length)
	}
}

func (l *List[T]) touchHeader() {
	l.touchRange(0, headerSize)
}

func (l *List[T]) touchLink(idx uint32) {
	l.touchRange(l.linksOff+int(idx)*linkSize, linkSize)
}

func (l *List[T]) touchData(idx uint32) {
	if l.dt == nil {
		return
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	l.touchRange(l.dataOff+int(idx)*size, size)
}
