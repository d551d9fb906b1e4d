package pool

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/joshuapare/portpool/internal/buf"
	"github.com/joshuapare/portpool/pool/dirty"
	"github.com/joshuapare/portpool/pool/fixedlist"
	"github.com/joshuapare/portpool/pool/port"
)

// DataVersion is the layout version written into every pool data block.
// AttachData rejects blocks with any other version.
const DataVersion uint32 = 1

const (
	dataMagic = "PORTPOOL"

	// regionAlign keeps each list on its own cache line.
	regionAlign = 64
)

// regionEntry locates one list inside the data region.
type regionEntry struct {
	offset   uint64
	size     uint64
	capacity uint32
	elemSize uint32
}

// dataHeader starts the data region. Offsets are relative to the region, so
// the block can be copied or mapped anywhere.
type dataHeader struct {
	magic         [8]byte
	version       uint32
	kinds         uint32
	regions       [kindCount]regionEntry
	changeCounter atomic.Uint64
	nextUniqueID  atomic.Uint64
}

var dataHeaderSize = int(unsafe.Sizeof(dataHeader{}))

// DataOptions configure where a data block reports its writes.
type DataOptions struct {
	// Tracker receives every modified range.
	Tracker dirty.DirtyTracker

	// BaseOffset is the offset of the data region inside the tracked mapping.
	BaseOffset int
}

// PortPoolData is the block of record lists plus the registry change counter
// and the unique id source. It holds no pointers into itself; handles are
// rebuilt from the region table by AttachData.
type PortPoolData struct {
	mem []byte
	hdr *dataHeader

	publishers         *fixedlist.List[port.PublisherPortData]
	subscribers        *fixedlist.List[port.SubscriberPortData]
	senders            *fixedlist.List[port.SenderPortData]
	receivers          *fixedlist.List[port.ReceiverPortData]
	interfaces         *fixedlist.List[port.InterfacePortData]
	applications       *fixedlist.List[port.ApplicationPortData]
	runnables          *fixedlist.List[port.RunnableData]
	conditionVariables *fixedlist.List[port.ConditionVariableData]

	tracker dirty.DirtyTracker
	base    int
}

func footprint(k Kind, capacity int) (int, error) {
	switch k {
	case Publisher:
		return fixedlist.Footprint[port.PublisherPortData](capacity)
	case Subscriber:
		return fixedlist.Footprint[port.SubscriberPortData](capacity)
	case Sender:
		return fixedlist.Footprint[port.SenderPortData](capacity)
	case Receiver:
		return fixedlist.Footprint[port.ReceiverPortData](capacity)
	case Interface:
		return fixedlist.Footprint[port.InterfacePortData](capacity)
	case Application:
		return fixedlist.Footprint[port.ApplicationPortData](capacity)
	case Runnable:
		return fixedlist.Footprint[port.RunnableData](capacity)
	case ConditionVariable:
		return fixedlist.Footprint[port.ConditionVariableData](capacity)
	}
	return 0, fmt.Errorf("pool: unknown kind %d", k)
}

func elemSize(k Kind) uintptr {
	switch k {
	case Publisher:
		return unsafe.Sizeof(port.PublisherPortData{})
	case Subscriber:
		return unsafe.Sizeof(port.SubscriberPortData{})
	case Sender:
		return unsafe.Sizeof(port.SenderPortData{})
	case Receiver:
		return unsafe.Sizeof(port.ReceiverPortData{})
	case Interface:
		return unsafe.Sizeof(port.InterfacePortData{})
	case Application:
		return unsafe.Sizeof(port.ApplicationPortData{})
	case Runnable:
		return unsafe.Sizeof(port.RunnableData{})
	case ConditionVariable:
		return unsafe.Sizeof(port.ConditionVariableData{})
	}
	return 0
}

// planLayout places the header and then every list at the next 64-byte
// boundary, in kind order.
func planLayout(caps Capacities) ([kindCount]regionEntry, int, error) {
	var regions [kindCount]regionEntry
	if err := caps.Validate(); err != nil {
		return regions, 0, err
	}
	off := dataHeaderSize
	for _, k := range Kinds() {
		start, ok := buf.AlignUp(off, regionAlign)
		if !ok {
			return regions, 0, fmt.Errorf("pool: layout overflow at %s", k)
		}
		size, err := footprint(k, caps.Of(k))
		if err != nil {
			return regions, 0, fmt.Errorf("pool: %s: %w", k, err)
		}
		end, ok := buf.AddOverflowSafe(start, size)
		if !ok {
			return regions, 0, fmt.Errorf("pool: layout overflow at %s", k)
		}
		regions[k] = regionEntry{
			offset:   uint64(start),
			size:     uint64(size),
			capacity: uint32(caps.Of(k)),
			elemSize: uint32(elemSize(k)),
		}
		off = end
	}
	total, ok := buf.AlignUp(off, regionAlign)
	if !ok {
		return regions, 0, fmt.Errorf("pool: layout overflow")
	}
	return regions, total, nil
}

// DataFootprint returns the bytes FormatData needs for caps.
func DataFootprint(caps Capacities) (int, error) {
	_, total, err := planLayout(caps)
	return total, err
}

// NewData returns a formatted block on the heap.
func NewData(caps Capacities) (*PortPoolData, error) {
	total, err := DataFootprint(caps)
	if err != nil {
		return nil, err
	}
	words := make([]uint64, (total+7)/8)
	mem := unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), total)
	return FormatData(mem, caps, nil)
}

// FormatData lays out an empty block in mem. mem must be 8-byte aligned and
// at least DataFootprint(caps) long. Existing content is overwritten.
func FormatData(mem []byte, caps Capacities, opts *DataOptions) (*PortPoolData, error) {
	regions, total, err := planLayout(caps)
	if err != nil {
		return nil, err
	}
	if len(mem) < total {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrDataTooSmall, len(mem), total)
	}
	if err := checkAlign(mem); err != nil {
		return nil, err
	}

	clear(mem[:total])
	d := newData(mem, opts)
	h := d.hdr
	copy(h.magic[:], dataMagic)
	h.version = DataVersion
	h.kinds = uint32(kindCount)
	h.regions = regions

	if err := d.bindLists(fixedlistInit); err != nil {
		return nil, err
	}
	d.touch(0, dataHeaderSize)
	return d, nil
}

// AttachData returns a handle to a block formatted by FormatData, possibly in
// another process or after a byte copy.
func AttachData(mem []byte, opts *DataOptions) (*PortPoolData, error) {
	if len(mem) < dataHeaderSize {
		return nil, fmt.Errorf("%w: have %d bytes, need at least %d", ErrDataTooSmall, len(mem), dataHeaderSize)
	}
	if err := checkAlign(mem); err != nil {
		return nil, err
	}
	d := newData(mem, opts)
	h := d.hdr
	if string(h.magic[:]) != dataMagic {
		return nil, fmt.Errorf("%w: magic %q", ErrDataMagic, h.magic[:])
	}
	if h.version != DataVersion {
		return nil, fmt.Errorf("%w: %d", ErrDataVersion, h.version)
	}
	if err := d.checkRegions(); err != nil {
		return nil, err
	}
	if err := d.bindLists(fixedlistAttach); err != nil {
		return nil, err
	}
	return d, nil
}

func newData(mem []byte, opts *DataOptions) *PortPoolData {
	d := &PortPoolData{
		mem: mem,
		hdr: (*dataHeader)(unsafe.Pointer(&mem[0])),
	}
	if opts != nil {
		d.tracker = opts.Tracker
		d.base = opts.BaseOffset
	}
	return d
}

func checkAlign(mem []byte) error {
	if len(mem) == 0 {
		return ErrDataTooSmall
	}
	if addr := uintptr(unsafe.Pointer(&mem[0])); addr%8 != 0 {
		return fmt.Errorf("%w: base 0x%x", ErrMisaligned, addr)
	}
	return nil
}

// checkRegions validates the region table against the region length and the
// record sizes of this build.
func (d *PortPoolData) checkRegions() error {
	h := d.hdr
	if h.kinds != uint32(kindCount) {
		return fmt.Errorf("%w: %d kinds, expected %d", ErrDataLayout, h.kinds, kindCount)
	}
	prevEnd := uint64(dataHeaderSize)
	for _, k := range Kinds() {
		e := h.regions[k]
		if e.offset%regionAlign != 0 || e.offset < prevEnd {
			return fmt.Errorf("%w: %s region at offset %d", ErrDataLayout, k, e.offset)
		}
		if e.offset > uint64(len(d.mem)) || e.size > uint64(len(d.mem))-e.offset {
			return fmt.Errorf("%w: %s region %d+%d exceeds %d bytes", ErrDataTooSmall, k, e.offset, e.size, len(d.mem))
		}
		if want := uint32(elemSize(k)); e.elemSize != want {
			return fmt.Errorf("%w: %s records are %d bytes, this build uses %d", ErrDataLayout, k, e.elemSize, want)
		}
		size, err := footprint(k, int(e.capacity))
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrDataLayout, k, err)
		}
		if uint64(size) != e.size {
			return fmt.Errorf("%w: %s region is %d bytes, capacity %d needs %d", ErrDataLayout, k, e.size, e.capacity, size)
		}
		prevEnd = e.offset + e.size
	}
	return nil
}

type listMode int

const (
	fixedlistInit listMode = iota
	fixedlistAttach
)

func bindList[T any](d *PortPoolData, k Kind, mode listMode) (*fixedlist.List[T], error) {
	e := d.hdr.regions[k]
	region := d.mem[e.offset : e.offset+e.size : e.offset+e.size]
	opts := &fixedlist.Options{BaseOffset: d.base + int(e.offset)}
	if d.tracker != nil {
		opts.Tracker = d.tracker
	}
	var (
		l   *fixedlist.List[T]
		err error
	)
	if mode == fixedlistInit {
		l, err = fixedlist.Init[T](region, int(e.capacity), opts)
	} else {
		l, err = fixedlist.Attach[T](region, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("pool: %s list: %w", k, err)
	}
	if l.Cap() != int(e.capacity) {
		return nil, fmt.Errorf("%w: %s list has capacity %d, table says %d", ErrDataLayout, k, l.Cap(), e.capacity)
	}
	return l, nil
}

func (d *PortPoolData) bindLists(mode listMode) error {
	var err error
	if d.publishers, err = bindList[port.PublisherPortData](d, Publisher, mode); err != nil {
		return err
	}
	if d.subscribers, err = bindList[port.SubscriberPortData](d, Subscriber, mode); err != nil {
		return err
	}
	if d.senders, err = bindList[port.SenderPortData](d, Sender, mode); err != nil {
		return err
	}
	if d.receivers, err = bindList[port.ReceiverPortData](d, Receiver, mode); err != nil {
		return err
	}
	if d.interfaces, err = bindList[port.InterfacePortData](d, Interface, mode); err != nil {
		return err
	}
	if d.applications, err = bindList[port.ApplicationPortData](d, Application, mode); err != nil {
		return err
	}
	if d.runnables, err = bindList[port.RunnableData](d, Runnable, mode); err != nil {
		return err
	}
	if d.conditionVariables, err = bindList[port.ConditionVariableData](d, ConditionVariable, mode); err != nil {
		return err
	}
	return nil
}

func (d *PortPoolData) touch(off, length int) {
	if d.tracker != nil {
		d.tracker.Add(d.base+off, length)
	}
}

// Bytes returns the region the block lives in.
func (d *PortPoolData) Bytes() []byte { return d.mem }

// Capacities returns the limits the block was formatted with.
func (d *PortPoolData) Capacities() Capacities {
	var c Capacities
	for _, k := range Kinds() {
		c.Set(k, int(d.hdr.regions[k].capacity))
	}
	return c
}

// ServiceRegistryChangeCounter returns the shared change counter.
func (d *PortPoolData) ServiceRegistryChangeCounter() *atomic.Uint64 {
	return &d.hdr.changeCounter
}

func (d *PortPoolData) bumpChangeCounter() {
	d.hdr.changeCounter.Add(1)
	d.touch(int(unsafe.Offsetof(dataHeader{}.changeCounter)), 8)
}

// nextUniqueID hands out port ids starting at 1.
func (d *PortPoolData) nextUniqueID() uint64 {
	id := d.hdr.nextUniqueID.Add(1)
	d.touch(int(unsafe.Offsetof(dataHeader{}.nextUniqueID)), 8)
	return id
}

// Publishers returns the live publisher list.
func (d *PortPoolData) Publishers() *fixedlist.List[port.PublisherPortData] { return d.publishers }

// Subscribers returns the live subscriber list.
func (d *PortPoolData) Subscribers() *fixedlist.List[port.SubscriberPortData] { return d.subscribers }

// Senders returns the live sender list.
func (d *PortPoolData) Senders() *fixedlist.List[port.SenderPortData] { return d.senders }

// Receivers returns the live receiver list.
func (d *PortPoolData) Receivers() *fixedlist.List[port.ReceiverPortData] { return d.receivers }

// Interfaces returns the live interface list.
func (d *PortPoolData) Interfaces() *fixedlist.List[port.InterfacePortData] { return d.interfaces }

// Applications returns the live application list.
func (d *PortPoolData) Applications() *fixedlist.List[port.ApplicationPortData] {
	return d.applications
}

// Runnables returns the live runnable list.
func (d *PortPoolData) Runnables() *fixedlist.List[port.RunnableData] { return d.runnables }

// ConditionVariables returns the live condition variable list.
func (d *PortPoolData) ConditionVariables() *fixedlist.List[port.ConditionVariableData] {
	return d.conditionVariables
}
