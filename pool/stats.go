package pool

import "fmt"

// KindUsage is the fill level of one list.
type KindUsage struct {
	Kind Kind
	Len  int
	Cap  int
}

// Free returns the number of unused slots.
func (u KindUsage) Free() int { return u.Cap - u.Len }

// Usage returns the fill level of every list in kind order.
func (d *PortPoolData) Usage() []KindUsage {
	return []KindUsage{
		{Publisher, d.publishers.Len(), d.publishers.Cap()},
		{Subscriber, d.subscribers.Len(), d.subscribers.Cap()},
		{Sender, d.senders.Len(), d.senders.Cap()},
		{Receiver, d.receivers.Len(), d.receivers.Cap()},
		{Interface, d.interfaces.Len(), d.interfaces.Cap()},
		{Application, d.applications.Len(), d.applications.Cap()},
		{Runnable, d.runnables.Len(), d.runnables.Cap()},
		{ConditionVariable, d.conditionVariables.Len(), d.conditionVariables.Cap()},
	}
}

// Verify checks the region table and the chain invariants of every list. It
// returns the first problem found.
func (d *PortPoolData) Verify() error {
	if err := d.checkRegions(); err != nil {
		return err
	}
	checks := []struct {
		kind   Kind
		verify func() error
	}{
		{Publisher, d.publishers.Verify},
		{Subscriber, d.subscribers.Verify},
		{Sender, d.senders.Verify},
		{Receiver, d.receivers.Verify},
		{Interface, d.interfaces.Verify},
		{Application, d.applications.Verify},
		{Runnable, d.runnables.Verify},
		{ConditionVariable, d.conditionVariables.Verify},
	}
	for _, c := range checks {
		if err := c.verify(); err != nil {
			return fmt.Errorf("pool: %s list: %w", c.kind, err)
		}
	}
	return nil
}
