// Package dirty tracks which byte ranges of a mapped pool segment have been
// written and flushes them back with msync.
//
// # Overview
//
// Writers report every modification through the DirtyTracker interface:
//
//	tracker := dirty.NewTracker(seg)
//	tracker.Add(0x5000, 128)
//
// Ranges are page-aligned, sorted and merged only when they are flushed, so
// Add stays a slice append:
//
//	Dirty ranges: [0x5010+16, 0x5ff0+32, 0x9000+8] → [0x5000-0x7000, 0x9000-0xa000]
//
// # Flushing
//
// FlushDataOnly syncs every dirty page except the first one, which holds the
// segment header. FlushAll also syncs the header page and, when the mapping
// exposes a file descriptor, the file itself.
//
// Segments that live on tmpfs (/dev/shm) never reach a disk, so flushing is
// only needed for segments placed on a real file system.
//
// # Thread Safety
//
// A Tracker is not safe for concurrent use. The pool serialises writers.
package dirty
