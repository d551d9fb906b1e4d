package pool

import (
	"errors"
	"fmt"

	"github.com/joshuapare/portpool/pool/errorhandler"
)

var (
	// ErrListFull is wrapped by every PortPoolError.
	ErrListFull = errors.New("pool: list is full")

	ErrBadCapacity  = errors.New("pool: capacity out of range")
	ErrDataTooSmall = errors.New("pool: data region too small")
	ErrMisaligned   = errors.New("pool: data region is misaligned")
	ErrDataMagic    = errors.New("pool: data region not formatted")
	ErrDataVersion  = errors.New("pool: unsupported data layout version")
	ErrDataLayout   = errors.New("pool: data region table is inconsistent")
)

// PortPoolError reports that the list for Kind has no free slot. Code is the
// value handed to errorhandler.Report.
type PortPoolError struct {
	Kind Kind
	Code errorhandler.Code
}

func (e *PortPoolError) Error() string {
	return fmt.Sprintf("pool: %s list is full", e.Kind)
}

func (e *PortPoolError) Unwrap() error { return ErrListFull }

// Overflow errors, one per kind. Add methods return these exact values.
var (
	ErrPublisherPortListFull     = &PortPoolError{Kind: Publisher, Code: errorhandler.PortPoolPublisherListOverflow}
	ErrSubscriberPortListFull    = &PortPoolError{Kind: Subscriber, Code: errorhandler.PortPoolSubscriberListOverflow}
	ErrSenderPortListFull        = &PortPoolError{Kind: Sender, Code: errorhandler.PortPoolSenderListOverflow}
	ErrReceiverPortListFull      = &PortPoolError{Kind: Receiver, Code: errorhandler.PortPoolReceiverListOverflow}
	ErrInterfacePortListFull     = &PortPoolError{Kind: Interface, Code: errorhandler.PortPoolInterfaceListOverflow}
	ErrApplicationPortListFull   = &PortPoolError{Kind: Application, Code: errorhandler.PortPoolApplicationListOverflow}
	ErrRunnableDataListFull      = &PortPoolError{Kind: Runnable, Code: errorhandler.PortPoolRunnableListOverflow}
	ErrConditionVariableListFull = &PortPoolError{Kind: ConditionVariable, Code: errorhandler.PortPoolConditionVariableListOverflow}
)

var fullErrors = [kindCount]*PortPoolError{
	Publisher:         ErrPublisherPortListFull,
	Subscriber:        ErrSubscriberPortListFull,
	Sender:            ErrSenderPortListFull,
	Receiver:          ErrReceiverPortListFull,
	Interface:         ErrInterfacePortListFull,
	Application:       ErrApplicationPortListFull,
	Runnable:          ErrRunnableDataListFull,
	ConditionVariable: ErrConditionVariableListFull,
}

// FullError returns the overflow error for k.
func FullError(k Kind) *PortPoolError {
	if k < kindCount {
		return fullErrors[k]
	}
	return nil
}
