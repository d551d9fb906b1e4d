package pool

import (
	"sync/atomic"

	"github.com/joshuapare/portpool/pool/port"
)

// ChangeNotifier exposes the registry change counter.
type ChangeNotifier interface {
	ServiceRegistryChangeCounter() *atomic.Uint64
}

// PublisherSubscriberRegistry is the publish/subscribe side of the pool.
type PublisherSubscriberRegistry interface {
	ChangeNotifier
	AddPublisherPort(sd port.ServiceDescription, historyCapacity uint64, memoryManager port.MemoryRef,
		process string, info port.MemoryInfo) (*port.PublisherPortData, error)
	AddSubscriberPort(sd port.ServiceDescription, historyRequest uint64, process string,
		info port.MemoryInfo) (*port.SubscriberPortData, error)
	RemovePublisherPort(*port.PublisherPortData)
	RemoveSubscriberPort(*port.SubscriberPortData)
	PublisherPortDataList() []*port.PublisherPortData
	SubscriberPortDataList() []*port.SubscriberPortData
}

// SenderReceiverRegistry is the deprecated sender/receiver side of the pool.
type SenderReceiverRegistry interface {
	ChangeNotifier
	AddSenderPort(sd port.ServiceDescription, memoryManager port.MemoryRef, process string,
		info port.MemoryInfo) (*port.SenderPortData, error)
	AddReceiverPort(sd port.ServiceDescription, process string, info port.MemoryInfo) (*port.ReceiverPortData, error)
	RemoveSenderPort(*port.SenderPortData)
	RemoveReceiverPort(*port.ReceiverPortData)
	SenderPortDataList() []*port.SenderPortData
	ReceiverPortDataList() []*port.ReceiverPortData
}

var (
	_ PublisherSubscriberRegistry = (*PortPool)(nil)
	_ PublisherSubscriberRegistry = (*LegacyPortPool)(nil)
	_ SenderReceiverRegistry      = (*LegacyPortPool)(nil)
)

// ChangeWatcher polls a change counter for discovery. It only says that
// something changed, not what.
type ChangeWatcher struct {
	counter *atomic.Uint64
	last    uint64
}

// NewChangeWatcher starts watching n from its current value.
func NewChangeWatcher(n ChangeNotifier) *ChangeWatcher {
	c := n.ServiceRegistryChangeCounter()
	return &ChangeWatcher{counter: c, last: c.Load()}
}

// Changed reports whether the counter moved since the last call that
// returned true, and remembers the new value.
func (w *ChangeWatcher) Changed() bool {
	v := w.counter.Load()
	if v == w.last {
		return false
	}
	w.last = v
	return true
}

// Last returns the value seen by the last successful Changed.
func (w *ChangeWatcher) Last() uint64 { return w.last }
