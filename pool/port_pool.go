package pool

import (
	"sync/atomic"

	"github.com/joshuapare/portpool/pool/fixedlist"
	"github.com/joshuapare/portpool/pool/port"
)

// PortPool is the registry facade over a PortPoolData block. The daemon is
// the only writer; other processes read the records through the returned
// addresses. PortPool does no locking of its own.
type PortPool struct {
	core
}

// NewPortPool returns a facade over data.
func NewPortPool(data *PortPoolData, opts ...Option) *PortPool {
	return &PortPool{core: newCore(data, opts)}
}

// Data returns the underlying block.
func (p *PortPool) Data() *PortPoolData { return p.data }

// SubscriberQueueType returns the queue type new subscribers get.
func (p *PortPool) SubscriberQueueType() port.QueueType { return p.opts.queueType }

// ServiceRegistryChangeCounter returns the counter that moves whenever the set
// of publishers, subscribers, interfaces, applications or runnables changes.
func (p *PortPool) ServiceRegistryChangeCounter() *atomic.Uint64 {
	return p.data.ServiceRegistryChangeCounter()
}

// AddPublisherPort registers a publisher and returns its record.
func (p *PortPool) AddPublisherPort(sd port.ServiceDescription, historyCapacity uint64,
	memoryManager port.MemoryRef, process string, info port.MemoryInfo,
) (*port.PublisherPortData, error) {
	return addRecord(&p.core, Publisher, p.data.publishers, func(r *port.PublisherPortData) {
		r.Init(sd, process, p.data.nextUniqueID(), memoryManager, historyCapacity, info)
	}, true)
}

// AddSubscriberPort registers a subscriber with the configured queue type.
func (p *PortPool) AddSubscriberPort(sd port.ServiceDescription, historyRequest uint64,
	process string, info port.MemoryInfo,
) (*port.SubscriberPortData, error) {
	queueType := p.opts.queueType
	return addRecord(&p.core, Subscriber, p.data.subscribers, func(r *port.SubscriberPortData) {
		r.Init(sd, process, p.data.nextUniqueID(), queueType, historyRequest, info)
	}, true)
}

// AddInterfacePort registers a gateway.
func (p *PortPool) AddInterfacePort(process string, iface port.Interfaces) (*port.InterfacePortData, error) {
	return addRecord(&p.core, Interface, p.data.interfaces, func(r *port.InterfacePortData) {
		r.Init(process, iface)
	}, true)
}

// AddApplicationPort registers a process.
func (p *PortPool) AddApplicationPort(process string) (*port.ApplicationPortData, error) {
	return addRecord(&p.core, Application, p.data.applications, func(r *port.ApplicationPortData) {
		r.Init(process)
	}, true)
}

// AddRunnableData registers a runnable of process.
func (p *PortPool) AddRunnableData(process, runnable string, deviceID uint64) (*port.RunnableData, error) {
	return addRecord(&p.core, Runnable, p.data.runnables, func(r *port.RunnableData) {
		r.Init(process, runnable, deviceID)
	}, true)
}

// AddConditionVariableData allocates a condition variable. It does not touch
// the registry change counter.
func (p *PortPool) AddConditionVariableData() (*port.ConditionVariableData, error) {
	return addRecord(&p.core, ConditionVariable, p.data.conditionVariables, func(r *port.ConditionVariableData) {
		r.Init()
	}, false)
}

// RemovePublisherPort releases the record rec points at.
func (p *PortPool) RemovePublisherPort(rec *port.PublisherPortData) {
	removeRecord(&p.core, Publisher, p.data.publishers, rec, true)
}

// RemoveSubscriberPort releases the record rec points at.
func (p *PortPool) RemoveSubscriberPort(rec *port.SubscriberPortData) {
	removeRecord(&p.core, Subscriber, p.data.subscribers, rec, true)
}

// RemoveInterfacePort releases the record rec points at.
func (p *PortPool) RemoveInterfacePort(rec *port.InterfacePortData) {
	removeRecord(&p.core, Interface, p.data.interfaces, rec, true)
}

// RemoveApplicationPort releases the record rec points at.
func (p *PortPool) RemoveApplicationPort(rec *port.ApplicationPortData) {
	removeRecord(&p.core, Application, p.data.applications, rec, true)
}

// RemoveRunnableData releases the record rec points at.
func (p *PortPool) RemoveRunnableData(rec *port.RunnableData) {
	removeRecord(&p.core, Runnable, p.data.runnables, rec, true)
}

// RemoveConditionVariableData releases the record rec points at.
func (p *PortPool) RemoveConditionVariableData(rec *port.ConditionVariableData) {
	removeRecord(&p.core, ConditionVariable, p.data.conditionVariables, rec, false)
}

// PublisherPortDataList returns the current publishers in insertion order.
func (p *PortPool) PublisherPortDataList() []*port.PublisherPortData {
	return snapshot(p.data.publishers)
}

// SubscriberPortDataList returns the current subscribers.
func (p *PortPool) SubscriberPortDataList() []*port.SubscriberPortData {
	return snapshot(p.data.subscribers)
}

// InterfacePortDataList returns the current gateways.
func (p *PortPool) InterfacePortDataList() []*port.InterfacePortData {
	return snapshot(p.data.interfaces)
}

// ApplicationPortDataList returns the current processes.
func (p *PortPool) ApplicationPortDataList() []*port.ApplicationPortData {
	return snapshot(p.data.applications)
}

// RunnableDataList returns the current runnables.
func (p *PortPool) RunnableDataList() []*port.RunnableData {
	return snapshot(p.data.runnables)
}

// ConditionVariableDataList returns the current condition variables.
func (p *PortPool) ConditionVariableDataList() []*port.ConditionVariableData {
	return snapshot(p.data.conditionVariables)
}

// PublisherPorts returns the live list. Iterating it avoids the snapshot
// allocation.
func (p *PortPool) PublisherPorts() *fixedlist.List[port.PublisherPortData] {
	return p.data.publishers
}

// SubscriberPorts returns the live list.
func (p *PortPool) SubscriberPorts() *fixedlist.List[port.SubscriberPortData] {
	return p.data.subscribers
}

// InterfacePorts returns the live list.
func (p *PortPool) InterfacePorts() *fixedlist.List[port.InterfacePortData] {
	return p.data.interfaces
}

// ApplicationPorts returns the live list.
func (p *PortPool) ApplicationPorts() *fixedlist.List[port.ApplicationPortData] {
	return p.data.applications
}

// Runnables returns the live list.
func (p *PortPool) Runnables() *fixedlist.List[port.RunnableData] {
	return p.data.runnables
}

// ConditionVariables returns the live list.
func (p *PortPool) ConditionVariables() *fixedlist.List[port.ConditionVariableData] {
	return p.data.conditionVariables
}
