package port

import (
	"sync/atomic"

	"github.com/joshuapare/portpool/internal/fixedstr"
)

// BasePortData is shared by every publisher, subscriber, sender and receiver.
type BasePortData struct {
	ServiceDescription ServiceDescription
	ProcessName        fixedstr.Name
	UniqueID           uint64
	ToBeDestroyed      atomic.Bool
}

// Init fills b in place.
func (b *BasePortData) Init(sd ServiceDescription, process string, uniqueID uint64) {
	b.ServiceDescription = sd
	b.ProcessName.Set(process)
	b.UniqueID = uniqueID
	b.ToBeDestroyed.Store(false)
}

// PublisherPortData is the shared state of one publisher.
type PublisherPortData struct {
	Base            BasePortData
	MemoryManager   MemoryRef
	HistoryCapacity uint64
	MemoryInfo      MemoryInfo
	OfferRequested  atomic.Bool
	Offered         atomic.Bool
}

// Init fills p in place. The publisher starts neither offered nor requested.
func (p *PublisherPortData) Init(sd ServiceDescription, process string, uniqueID uint64,
	memoryManager MemoryRef, historyCapacity uint64, info MemoryInfo,
) {
	p.Base.Init(sd, process, uniqueID)
	p.MemoryManager = memoryManager
	p.HistoryCapacity = historyCapacity
	p.MemoryInfo = info
	p.OfferRequested.Store(false)
	p.Offered.Store(false)
}

// SubscriberPortData is the shared state of one subscriber.
type SubscriberPortData struct {
	Base               BasePortData
	HistoryRequest     uint64
	QueueType          QueueType
	MemoryInfo         MemoryInfo
	SubscribeRequested atomic.Bool
	SubscriptionState  atomic.Uint32
}

// Init fills s in place.
func (s *SubscriberPortData) Init(sd ServiceDescription, process string, uniqueID uint64,
	queueType QueueType, historyRequest uint64, info MemoryInfo,
) {
	s.Base.Init(sd, process, uniqueID)
	s.HistoryRequest = historyRequest
	s.QueueType = queueType
	s.MemoryInfo = info
	s.SubscribeRequested.Store(false)
	s.SubscriptionState.Store(uint32(NotSubscribed))
}

// State returns the current subscription state.
func (s *SubscriberPortData) State() SubscribeState {
	return SubscribeState(s.SubscriptionState.Load())
}

// SenderPortData is the shared state of one sender (legacy model).
type SenderPortData struct {
	Base              BasePortData
	MemoryManager     MemoryRef
	MemoryInfo        MemoryInfo
	ActivateRequested atomic.Bool
}

// Init fills s in place.
func (s *SenderPortData) Init(sd ServiceDescription, memoryManager MemoryRef, process string,
	uniqueID uint64, info MemoryInfo,
) {
	s.Base.Init(sd, process, uniqueID)
	s.MemoryManager = memoryManager
	s.MemoryInfo = info
	s.ActivateRequested.Store(false)
}

// ReceiverPortData is the shared state of one receiver (legacy model).
type ReceiverPortData struct {
	Base               BasePortData
	MemoryInfo         MemoryInfo
	SubscribeRequested atomic.Bool
}

// Init fills r in place.
func (r *ReceiverPortData) Init(sd ServiceDescription, process string, uniqueID uint64, info MemoryInfo) {
	r.Base.Init(sd, process, uniqueID)
	r.MemoryInfo = info
	r.SubscribeRequested.Store(false)
}

// InterfacePortData is the shared state of a gateway.
type InterfacePortData struct {
	ProcessName           fixedstr.Name
	Interface             Interfaces
	DoInitialOfferForward atomic.Bool
}

// Init fills i in place. A new gateway forwards the initial offers.
func (i *InterfacePortData) Init(process string, iface Interfaces) {
	i.ProcessName.Set(process)
	i.Interface = iface
	i.DoInitialOfferForward.Store(true)
}

// ApplicationPortData is the shared state of a registered process.
type ApplicationPortData struct {
	ProcessName fixedstr.Name
}

// Init fills a in place.
func (a *ApplicationPortData) Init(process string) {
	a.ProcessName.Set(process)
}
