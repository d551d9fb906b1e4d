package fixedlist

import "fmt"

const (
	slotUnseen uint8 = iota
	slotActive
	slotFree
)

// Verify walks both chains and checks the structural invariants:
//
//   - every slot is on exactly one of the active and free chains
//   - the active chain has Len() slots and reads the same backwards
//   - every free slot carries the free mark
//
// It returns a *CorruptionError for the first violation found.
func (l *List[T]) Verify() error {
	h := l.hdr
	capacity := h.capacity
	if int(capacity) != len(l.links) {
		return &CorruptionError{Reason: fmt.Sprintf("capacity %d does not match slot table %d", capacity, len(l.links)), Slot: -1}
	}
	if h.size > capacity {
		return &CorruptionError{Reason: fmt.Sprintf("size %d exceeds capacity %d", h.size, capacity), Slot: -1}
	}

	state := make([]uint8, capacity)
	forward := make([]uint32, 0, h.size)

	prev := nilIndex
	for idx := h.head; idx != nilIndex; idx = l.links[idx].next {
		if idx >= capacity {
			return &CorruptionError{Reason: "active link out of range", Slot: int(idx)}
		}
		if state[idx] != slotUnseen {
			return &CorruptionError{Reason: "active chain revisits slot", Slot: int(idx)}
		}
		if l.links[idx].prev != prev {
			return &CorruptionError{Reason: fmt.Sprintf("prev link %d, expected %d", l.links[idx].prev, prev), Slot: int(idx)}
		}
		state[idx] = slotActive
		forward = append(forward, idx)
		prev = idx
	}
	if prev != h.tail {
		return &CorruptionError{Reason: fmt.Sprintf("tail is %d, active chain ends at %d", h.tail, prev), Slot: -1}
	}
	if uint32(len(forward)) != h.size {
		return &CorruptionError{Reason: fmt.Sprintf("active chain has %d slots, size is %d", len(forward), h.size), Slot: -1}
	}

	i := len(forward)
	for idx := h.tail; idx != nilIndex; idx = l.links[idx].prev {
		i--
		if i < 0 || forward[i] != idx {
			return &CorruptionError{Reason: "reverse traversal disagrees with forward traversal", Slot: int(idx)}
		}
	}
	if i != 0 {
		return &CorruptionError{Reason: "reverse traversal is shorter than forward traversal", Slot: -1}
	}

	free := uint32(0)
	for idx := h.freeHead; idx != nilIndex; idx = l.links[idx].next {
		if idx >= capacity {
			return &CorruptionError{Reason: "free link out of range", Slot: int(idx)}
		}
		if state[idx] != slotUnseen {
			return &CorruptionError{Reason: "free chain reaches a slot already seen", Slot: int(idx)}
		}
		if l.links[idx].prev != freeMark {
			return &CorruptionError{Reason: "free slot lacks free mark", Slot: int(idx)}
		}
		state[idx] = slotFree
		free++
	}
	if free+h.size != capacity {
		return &CorruptionError{Reason: fmt.Sprintf("%d active + %d free slots, capacity %d", h.size, free, capacity), Slot: -1}
	}
	return nil
}
