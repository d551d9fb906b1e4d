package port

import "sync/atomic"

// ConditionVariableData is the shared state behind a wait set or listener.
type ConditionVariableData struct {
	Notified      atomic.Bool
	ToBeDestroyed atomic.Bool
	Waiters       atomic.Uint32
}

// Init resets c in place.
func (c *ConditionVariableData) Init() {
	c.Notified.Store(false)
	c.ToBeDestroyed.Store(false)
	c.Waiters.Store(0)
}
