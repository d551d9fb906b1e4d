package pool

import (
	"github.com/joshuapare/portpool/pool/fixedlist"
	"github.com/joshuapare/portpool/pool/port"
)

// LegacyPortPool adds the deprecated sender/receiver model on top of
// PortPool. Senders and receivers have their own lists and capacities.
//
// Deprecated: new code registers publishers and subscribers.
type LegacyPortPool struct {
	*PortPool
}

// NewLegacyPortPool returns a facade over data.
func NewLegacyPortPool(data *PortPoolData, opts ...Option) *LegacyPortPool {
	return &LegacyPortPool{PortPool: NewPortPool(data, opts...)}
}

// AddSenderPort registers a sender.
func (p *LegacyPortPool) AddSenderPort(sd port.ServiceDescription, memoryManager port.MemoryRef,
	process string, info port.MemoryInfo,
) (*port.SenderPortData, error) {
	return addRecord(&p.core, Sender, p.data.senders, func(r *port.SenderPortData) {
		r.Init(sd, memoryManager, process, p.data.nextUniqueID(), info)
	}, true)
}

// AddReceiverPort registers a receiver.
func (p *LegacyPortPool) AddReceiverPort(sd port.ServiceDescription, process string,
	info port.MemoryInfo,
) (*port.ReceiverPortData, error) {
	return addRecord(&p.core, Receiver, p.data.receivers, func(r *port.ReceiverPortData) {
		r.Init(sd, process, p.data.nextUniqueID(), info)
	}, true)
}

// RemoveSenderPort releases the record rec points at.
func (p *LegacyPortPool) RemoveSenderPort(rec *port.SenderPortData) {
	removeRecord(&p.core, Sender, p.data.senders, rec, true)
}

// RemoveReceiverPort releases the record rec points at.
func (p *LegacyPortPool) RemoveReceiverPort(rec *port.ReceiverPortData) {
	removeRecord(&p.core, Receiver, p.data.receivers, rec, true)
}

// SenderPortDataList returns the current senders.
func (p *LegacyPortPool) SenderPortDataList() []*port.SenderPortData {
	return snapshot(p.data.senders)
}

// ReceiverPortDataList returns the current receivers.
func (p *LegacyPortPool) ReceiverPortDataList() []*port.ReceiverPortData {
	return snapshot(p.data.receivers)
}

// SenderPorts returns the live list.
func (p *LegacyPortPool) SenderPorts() *fixedlist.List[port.SenderPortData] {
	return p.data.senders
}

// ReceiverPorts returns the live list.
func (p *LegacyPortPool) ReceiverPorts() *fixedlist.List[port.ReceiverPortData] {
	return p.data.receivers
}
