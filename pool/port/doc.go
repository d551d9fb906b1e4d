// Package port defines the records stored in the port pool.
//
// Every record is fixed-size and free of Go pointers: names are inline
// fixedstr.Name values, flags are atomics and the memory manager of a
// publisher is a MemoryRef (segment id plus offset). That lets the records
// live in a shared mapping that other processes see at a different address.
//
// Records are never copied after construction. The pool builds them in place
// through their Init methods and hands out their addresses, which stay valid
// until the record is removed.
package port
