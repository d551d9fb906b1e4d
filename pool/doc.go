// Package pool is the port registry kept in shared memory.
//
// # Overview
//
// A PortPoolData block holds one fixed-capacity list per record kind
// (publishers, subscribers, senders, receivers, interfaces, applications,
// runnables, condition variables), a registry change counter and a unique id
// source. PortPool and LegacyPortPool are facades over the block:
//
//	data, _ := pool.NewData(pool.DefaultCapacities())
//	p := pool.NewPortPool(data)
//	pub, err := p.AddPublisherPort(sd, 16, ref, "/radar", port.MemoryInfo{})
//	if errors.Is(err, pool.ErrListFull) {
//	    // capacity reached; the error handler has been told as well
//	}
//	defer p.RemovePublisherPort(pub)
//
// # Shared Memory
//
// CreateShared places the block in a segment file (see package segment) and
// OpenShared attaches another process to it. The block contains no absolute
// addresses, so each process may map it anywhere. The daemon is the only
// writer; readers poll ServiceRegistryChangeCounter, or a ChangeWatcher, and
// re-enumerate when it moves.
//
// # Errors
//
// A full list yields the kind's *PortPoolError (which wraps ErrListFull) and a
// Moderate report to errorhandler. Removing a record that is not in the pool
// does nothing.
package pool
