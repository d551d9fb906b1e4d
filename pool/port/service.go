package port

import (
	"fmt"

	"github.com/joshuapare/portpool/internal/fixedstr"
)

// ServiceDescription identifies a service by its three name parts.
type ServiceDescription struct {
	Service  fixedstr.Name
	Instance fixedstr.Name
	Event    fixedstr.Name
}

// NewServiceDescription builds a description; each part is truncated to
// fixedstr.Capacity.
func NewServiceDescription(service, instance, event string) ServiceDescription {
	return ServiceDescription{
		Service:  fixedstr.NewName(service),
		Instance: fixedstr.NewName(instance),
		Event:    fixedstr.NewName(event),
	}
}

// Equal compares all three parts.
func (sd *ServiceDescription) Equal(o *ServiceDescription) bool {
	return sd.Service.Equal(&o.Service) && sd.Instance.Equal(&o.Instance) && sd.Event.Equal(&o.Event)
}

func (sd *ServiceDescription) String() string {
	return fmt.Sprintf("%s/%s/%s", sd.Service.String(), sd.Instance.String(), sd.Event.String())
}

// MemoryInfo describes where chunk memory for a port lives.
type MemoryInfo struct {
	DeviceID   uint32
	MemoryType uint32
}

// MemoryRef locates a memory manager relative to a segment instead of by
// address.
type MemoryRef struct {
	SegmentID uint32
	_         uint32
	Offset    uint64
}

// NewMemoryRef returns a reference to offset inside segment segmentID.
func NewMemoryRef(segmentID uint32, offset uint64) MemoryRef {
	return MemoryRef{SegmentID: segmentID, Offset: offset}
}

// IsZero reports whether the reference is unset.
func (r MemoryRef) IsZero() bool { return r.SegmentID == 0 && r.Offset == 0 }

func (r MemoryRef) String() string { return fmt.Sprintf("segment %d+0x%x", r.SegmentID, r.Offset) }
