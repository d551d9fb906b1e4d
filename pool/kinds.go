package pool

import (
	"fmt"

	"github.com/joshuapare/portpool/pool/fixedlist"
)

// Kind identifies one of the record lists in the pool.
type Kind uint8

const (
	Publisher Kind = iota
	Subscriber
	Sender
	Receiver
	Interface
	Application
	Runnable
	ConditionVariable

	kindCount
)

var kindNames = [kindCount]string{
	Publisher:         "publisher",
	Subscriber:        "subscriber",
	Sender:            "sender",
	Receiver:          "receiver",
	Interface:         "interface",
	Application:       "application",
	Runnable:          "runnable",
	ConditionVariable: "condition_variable",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Kinds returns every kind in layout order.
func Kinds() []Kind {
	out := make([]Kind, kindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return 0, false
}

// Capacities holds the fixed limit of each list.
type Capacities struct {
	Publishers         int
	Subscribers        int
	Senders            int
	Receivers          int
	Interfaces         int
	Applications       int
	Runnables          int
	ConditionVariables int
}

// DefaultCapacities returns the limits of a standard deployment.
func DefaultCapacities() Capacities {
	return Capacities{
		Publishers:         512,
		Subscribers:        1024,
		Senders:            512,
		Receivers:          1024,
		Interfaces:         4,
		Applications:       300,
		Runnables:          1000,
		ConditionVariables: 1024,
	}
}

func (c *Capacities) field(k Kind) *int {
	switch k {
	case Publisher:
		return &c.Publishers
	case Subscriber:
		return &c.Subscribers
	case Sender:
		return &c.Senders
	case Receiver:
		return &c.Receivers
	case Interface:
		return &c.Interfaces
	case Application:
		return &c.Applications
	case Runnable:
		return &c.Runnables
	case ConditionVariable:
		return &c.ConditionVariables
	}
	return nil
}

// Of returns the limit for k.
func (c Capacities) Of(k Kind) int {
	if p := c.field(k); p != nil {
		return *p
	}
	return 0
}

// Set changes the limit for k. Unknown kinds are ignored.
func (c *Capacities) Set(k Kind, n int) {
	if p := c.field(k); p != nil {
		*p = n
	}
}

// Validate checks that every limit is in 1..fixedlist.MaxCapacity.
func (c Capacities) Validate() error {
	for _, k := range Kinds() {
		if n := c.Of(k); n < 1 || n > fixedlist.MaxCapacity {
			return fmt.Errorf("%w: %s capacity %d not in 1..%d", ErrBadCapacity, k, n, fixedlist.MaxCapacity)
		}
	}
	return nil
}
