package fixedlist

import (
	"fmt"
	"math"
	"reflect"
	"unsafe"

	"github.com/joshuapare/portpool/internal/buf"
)

const (
	// MaxCapacity is the largest capacity a list accepts.
	MaxCapacity = 1 << 24

	// headerMagic marks a region formatted by Init ("FXLS").
	headerMagic uint32 = 0x534c5846

	// nilIndex terminates both chains.
	nilIndex = ^uint32(0)

	// freeMark in link.prev flags a slot that sits on the free chain.
	freeMark = nilIndex - 1

	headerSize = int(unsafe.Sizeof(header{}))
	linkSize   = int(unsafe.Sizeof(link{}))

	// minAlign is the alignment required for the header and link table.
	minAlign = 8
)

// header is the first thing in a list region. All fields are indices or
// counters, never addresses.
type header struct {
	magic    uint32
	elemSize uint32
	capacity uint32
	size     uint32
	head     uint32
	tail     uint32
	freeHead uint32
	_        uint32
	erasures uint64
}

// link is the per-slot chain entry. gen is bumped on every erase of the slot.
type link struct {
	prev uint32
	next uint32
	gen  uint64
}

// DirtyTracker receives the absolute byte ranges a placed list modifies.
type DirtyTracker interface {
	Add(off, length int)
}

// Options configure a placed list. A nil *Options is valid.
type Options struct {
	// Tracker, when set, is told about every header, link and element range
	// the list writes.
	Tracker DirtyTracker

	// BaseOffset is the absolute offset of the region inside its segment. It
	// is added to every range reported to Tracker.
	BaseOffset int
}

type regionLayout struct {
	linksOff int
	dataOff  int
	total    int
}

func layoutFor[T any](capacity int) (regionLayout, error) {
	if capacity < 1 || capacity > MaxCapacity {
		return regionLayout{}, fmt.Errorf("%w: %d", ErrBadCapacity, capacity)
	}
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	elemAlign := max(int(unsafe.Alignof(zero)), minAlign)

	linksOff, ok := buf.AlignUp(headerSize, minAlign)
	if !ok {
		return regionLayout{}, fmt.Errorf("fixedlist: layout overflow")
	}
	linksEnd, err := buf.RegionEnd(math.MaxInt, linksOff, capacity, linkSize)
	if err != nil {
		return regionLayout{}, fmt.Errorf("fixedlist: links: %w", err)
	}
	dataOff, ok := buf.AlignUp(linksEnd, elemAlign)
	if !ok {
		return regionLayout{}, fmt.Errorf("fixedlist: layout overflow")
	}
	total, err := buf.RegionEnd(math.MaxInt, dataOff, capacity, elemSize)
	if err != nil {
		return regionLayout{}, fmt.Errorf("fixedlist: data: %w", err)
	}
	return regionLayout{linksOff: linksOff, dataOff: dataOff, total: total}, nil
}

// Footprint returns the number of bytes Init needs for a list of T with the
// given capacity.
func Footprint[T any](capacity int) (int, error) {
	lay, err := layoutFor[T](capacity)
	if err != nil {
		return 0, err
	}
	return lay.total, nil
}

// Init formats mem as an empty list of T and returns a handle to it.
//
// T must be free of Go pointers: the region is typically a shared memory
// mapping the garbage collector does not scan, and other processes map it at
// different addresses. The region's base must be aligned to 8 bytes and to
// T's alignment.
func Init[T any](mem []byte, capacity int, opts *Options) (*List[T], error) {
	if err := checkElem[T](); err != nil {
		return nil, err
	}
	lay, err := layoutFor[T](capacity)
	if err != nil {
		return nil, err
	}
	if len(mem) < lay.total {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrRegionTooSmall, len(mem), lay.total)
	}
	if err := checkAlign[T](mem); err != nil {
		return nil, err
	}

	clear(mem[:lay.total])
	l := place[T](mem, capacity, lay, opts)
	l.format(capacity)
	l.touchRange(0, lay.total)
	return l, nil
}

// Attach returns a handle to a list previously formatted by Init. mem may be
// the original bytes, a raw copy of them, or the same memory mapped at
// another address.
func Attach[T any](mem []byte, opts *Options) (*List[T], error) {
	if err := checkElem[T](); err != nil {
		return nil, err
	}
	if len(mem) < headerSize {
		return nil, fmt.Errorf("%w: have %d bytes, need at least %d", ErrRegionTooSmall, len(mem), headerSize)
	}
	if err := checkAlign[T](mem); err != nil {
		return nil, err
	}

	hdr := (*header)(unsafe.Pointer(&mem[0]))
	if hdr.magic != headerMagic {
		return nil, fmt.Errorf("%w: 0x%08x", ErrBadMagic, hdr.magic)
	}
	var zero T
	if want := uint32(unsafe.Sizeof(zero)); hdr.elemSize != want {
		return nil, fmt.Errorf("%w: region has %d, type has %d", ErrElemSize, hdr.elemSize, want)
	}
	capacity := int(hdr.capacity)
	lay, err := layoutFor[T](capacity)
	if err != nil {
		return nil, err
	}
	if len(mem) < lay.total {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrRegionTooSmall, len(mem), lay.total)
	}
	if hdr.size > hdr.capacity {
		return nil, &CorruptionError{Reason: fmt.Sprintf("size %d exceeds capacity %d", hdr.size, hdr.capacity), Slot: -1}
	}
	for _, idx := range []uint32{hdr.head, hdr.tail, hdr.freeHead} {
		if idx != nilIndex && idx >= hdr.capacity {
			return nil, &CorruptionError{Reason: "chain anchor out of range", Slot: int(idx)}
		}
	}
	return place[T](mem, capacity, lay, opts), nil
}

func place[T any](mem []byte, capacity int, lay regionLayout, opts *Options) *List[T] {
	l := &List[T]{
		hdr:      (*header)(unsafe.Pointer(&mem[0])),
		links:    unsafe.Slice((*link)(unsafe.Pointer(&mem[lay.linksOff])), capacity),
		data:     unsafe.Slice((*T)(unsafe.Pointer(&mem[lay.dataOff])), capacity),
		linksOff: lay.linksOff,
		dataOff:  lay.dataOff,
	}
	if opts != nil {
		l.dt = opts.Tracker
		l.base = opts.BaseOffset
	}
	return l
}

func checkElem[T any]() error {
	t := reflect.TypeFor[T]()
	if t.Size() == 0 {
		return fmt.Errorf("%w: %v", ErrZeroSizeElem, t)
	}
	if hasPointers(t) {
		return fmt.Errorf("%w: %v", ErrPointerElem, t)
	}
	return nil
}

func checkAlign[T any](mem []byte) error {
	if len(mem) == 0 {
		return ErrRegionTooSmall
	}
	var zero T
	align := uintptr(max(int(unsafe.Alignof(zero)), minAlign))
	if addr := uintptr(unsafe.Pointer(&mem[0])); addr%align != 0 {
		return fmt.Errorf("%w: base 0x%x, need %d-byte alignment", ErrMisaligned, addr, align)
	}
	return nil
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Slice,
		reflect.String, reflect.Chan, reflect.Func, reflect.Interface:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}
