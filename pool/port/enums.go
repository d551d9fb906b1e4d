package port

import "fmt"

// Interfaces names the gateway an interface port bridges to.
type Interfaces uint8

const (
	Internal Interfaces = iota
	ESOC
	SOMEIP
	AMQP
	MQTT
	DDS
	Signal
	MTA
	ROS1
	interfaceEnd
)

var interfaceNames = [...]string{
	Internal: "INTERNAL",
	ESOC:     "ESOC",
	SOMEIP:   "SOMEIP",
	AMQP:     "AMQP",
	MQTT:     "MQTT",
	DDS:      "DDS",
	Signal:   "SIGNAL",
	MTA:      "MTA",
	ROS1:     "ROS1",
}

func (i Interfaces) String() string {
	if i < interfaceEnd {
		return interfaceNames[i]
	}
	return fmt.Sprintf("Interfaces(%d)", uint8(i))
}

// Valid reports whether i is a known interface.
func (i Interfaces) Valid() bool { return i < interfaceEnd }

// ParseInterface is the inverse of Interfaces.String.
func ParseInterface(s string) (Interfaces, bool) {
	for i, name := range interfaceNames {
		if name == s {
			return Interfaces(i), true
		}
	}
	return 0, false
}

// QueueType is the producer model of a subscriber's receive queue.
type QueueType uint8

const (
	SingleProducer QueueType = iota
	MultiProducer
)

func (q QueueType) String() string {
	switch q {
	case SingleProducer:
		return "single_producer"
	case MultiProducer:
		return "multi_producer"
	}
	return fmt.Sprintf("QueueType(%d)", uint8(q))
}

// ParseQueueType is the inverse of QueueType.String.
func ParseQueueType(s string) (QueueType, bool) {
	switch s {
	case "single_producer":
		return SingleProducer, true
	case "multi_producer":
		return MultiProducer, true
	}
	return 0, false
}

// SubscribeState is the subscription handshake state of a subscriber.
type SubscribeState uint32

const (
	NotSubscribed SubscribeState = iota
	SubscribeRequested
	Subscribed
	UnsubscribeRequested
	WaitForOffer
)

func (s SubscribeState) String() string {
	switch s {
	case NotSubscribed:
		return "NOT_SUBSCRIBED"
	case SubscribeRequested:
		return "SUBSCRIBE_REQUESTED"
	case Subscribed:
		return "SUBSCRIBED"
	case UnsubscribeRequested:
		return "UNSUBSCRIBE_REQUESTED"
	case WaitForOffer:
		return "WAIT_FOR_OFFER"
	}
	return fmt.Sprintf("SubscribeState(%d)", uint32(s))
}
