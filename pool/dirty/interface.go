package dirty

// DirtyTracker is the minimal interface for reporting modified byte ranges.
// off is the absolute offset inside the mapping, length the number of bytes.
//
// Placed lists and the pool data header only notify; they never flush.
type DirtyTracker interface {
	Add(off, length int)
}

// Mapping is the memory a Tracker flushes.
type Mapping interface {
	Bytes() []byte
}

// fileMapping is implemented by mappings backed by an open file.
type fileMapping interface {
	FD() int
}
