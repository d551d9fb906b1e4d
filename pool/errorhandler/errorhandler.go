// Package errorhandler is the process-wide side channel for reporting pool
// errors. Callers still get a normal error value; Report additionally hands a
// stable code and a severity to the installed Handler so a supervisor can
// count, log or escalate.
package errorhandler

import (
	"fmt"
	"sync"

	"github.com/joshuapare/portpool/internal/logger"
)

// Level is the severity of a reported error.
type Level uint8

const (
	// Fatal errors leave the process unable to continue. The default
	// handler panics.
	Fatal Level = iota
	// Severe errors need operator attention but the process keeps running.
	Severe
	// Moderate errors are expected under load, e.g. a full pool.
	Moderate
)

func (l Level) String() string {
	switch l {
	case Fatal:
		return "FATAL"
	case Severe:
		return "SEVERE"
	case Moderate:
		return "MODERATE"
	}
	return fmt.Sprintf("Level(%d)", uint8(l))
}

// Code identifies a reportable error. Values are stable.
type Code uint16

const (
	NoError Code = iota
	PortPoolPublisherListOverflow
	PortPoolSubscriberListOverflow
	PortPoolSenderListOverflow
	PortPoolReceiverListOverflow
	PortPoolInterfaceListOverflow
	PortPoolApplicationListOverflow
	PortPoolRunnableListOverflow
	PortPoolConditionVariableListOverflow
	PortPoolCorrupt
	SegmentInvalid
)

var codeNames = [...]string{
	NoError:                               "NO_ERROR",
	PortPoolPublisherListOverflow:         "PORT_POOL__PUBLISHERLIST_OVERFLOW",
	PortPoolSubscriberListOverflow:        "PORT_POOL__SUBSCRIBERLIST_OVERFLOW",
	PortPoolSenderListOverflow:            "PORT_POOL__SENDERLIST_OVERFLOW",
	PortPoolReceiverListOverflow:          "PORT_POOL__RECEIVERLIST_OVERFLOW",
	PortPoolInterfaceListOverflow:         "PORT_POOL__INTERFACELIST_OVERFLOW",
	PortPoolApplicationListOverflow:       "PORT_POOL__APPLICATIONLIST_OVERFLOW",
	PortPoolRunnableListOverflow:          "PORT_POOL__RUNNABLELIST_OVERFLOW",
	PortPoolConditionVariableListOverflow: "PORT_POOL__CONDITION_VARIABLE_LIST_OVERFLOW",
	PortPoolCorrupt:                       "PORT_POOL__CORRUPT",
	SegmentInvalid:                        "SHM__SEGMENT_INVALID",
}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("Code(%d)", uint16(c))
}

// Handler receives every reported error.
type Handler func(Code, Level)

var (
	mu      sync.RWMutex
	current Handler = Default
)

// Default logs the report. Fatal reports panic after logging.
func Default(code Code, level Level) {
	switch level {
	case Moderate:
		logger.Warn("error reported", "code", code.String(), "level", level.String())
	case Severe:
		logger.Error("error reported", "code", code.String(), "level", level.String())
	default:
		logger.Error("fatal error reported", "code", code.String(), "level", level.String())
		panic(fmt.Sprintf("errorhandler: fatal error %v", code))
	}
}

// SetHandler installs h and returns a function that restores the previous
// handler. A nil h installs Default.
//
//	restore := errorhandler.SetHandler(func(c errorhandler.Code, l errorhandler.Level) { ... })
//	defer restore()
func SetHandler(h Handler) (restore func()) {
	if h == nil {
		h = Default
	}
	mu.Lock()
	prev := current
	current = h
	mu.Unlock()
	return func() {
		mu.Lock()
		current = prev
		mu.Unlock()
	}
}

// Report hands code and level to the installed handler.
func Report(code Code, level Level) {
	mu.RLock()
	h := current
	mu.RUnlock()
	h(code, level)
}
