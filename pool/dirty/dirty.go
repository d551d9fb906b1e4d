package dirty

import (
	"context"
	"os"
	"slices"
)

// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
const defaultRangeCapacity = 64

// Range is a dirty byte range at an absolute offset in the mapping.
type Range struct {
	Off int64
	Len int64
}

// End returns the first offset after the range.
func (r Range) End() int64 { return r.Off + r.Len }

// Tracker accumulates dirty ranges and flushes them.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Tracker struct {
	m        Mapping
	ranges   []Range
	pageSize int64
}

// NewTracker creates a tracker for the given mapping.
func NewTracker(m Mapping) *Tracker {
	return &Tracker{
		m:        m,
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: int64(os.Getpagesize()),
	}
}

// Add records a dirty range. Empty and negative ranges are ignored.
//
// When the range buffer is full, the tracked ranges are page-aligned and
// merged in place first, so a writer that never flushes holds at most one
// range per dirty page run instead of one per write.
func (t *Tracker) Add(off, length int) {
	if length <= 0 || off < 0 {
		return
	}
	if len(t.ranges) == cap(t.ranges) {
		t.ranges = mergePages(t.ranges, t.pageSize)
	}
	t.ranges = append(t.ranges, Range{Off: int64(off), Len: int64(length)})
}

// Tracked returns the number of ranges currently held.
func (t *Tracker) Tracked() int { return len(t.ranges) }

// Pending reports whether anything has been added since the last flush.
func (t *Tracker) Pending() bool { return len(t.ranges) > 0 }

// Ranges returns the page-aligned, sorted and merged ranges a flush would
// sync.
func (t *Tracker) Ranges() []Range { return t.coalesce() }

// Reset drops all tracked ranges without flushing them.
func (t *Tracker) Reset() { t.ranges = t.ranges[:0] }

// FlushDataOnly syncs every dirty page except the header page and clears the
// tracked ranges.
//
// If ctx is cancelled part way, some ranges may already be on disk; the
// tracked ranges are kept so a later flush retries all of them.
func (t *Tracker) FlushDataOnly(ctx context.Context) error {
	if len(t.ranges) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data := t.m.Bytes()
	if len(data) == 0 {
		return nil
	}
	if err := t.flushRanges(ctx, data); err != nil {
		return err
	}
	t.ranges = t.ranges[:0]
	return nil
}

// FlushAll syncs dirty data pages, then the header page, then the file
// descriptor if the mapping has one.
func (t *Tracker) FlushAll(ctx context.Context) error {
	if err := t.FlushDataOnly(ctx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data := t.m.Bytes()
	if len(data) == 0 {
		return nil
	}
	headerLen := min(int(t.pageSize), len(data))
	if err := msync(data[:headerLen]); err != nil {
		return err
	}
	if fm, ok := t.m.(fileMapping); ok {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fdatasync(fm.FD())
	}
	return nil
}

// coalesce returns the page-aligned, sorted and merged form of the tracked
// ranges without modifying them.
func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}
	return mergePages(slices.Clone(t.ranges), t.pageSize)
}

// mergePages page-aligns rs, sorts it and merges overlapping or adjacent
// ranges. It works in place and returns the merged prefix of rs.
func mergePages(rs []Range, pageSize int64) []Range {
	if len(rs) == 0 {
		return rs
	}
	for i, r := range rs {
		start := (r.Off / pageSize) * pageSize
		end := r.End()
		if end%pageSize != 0 {
			end = (end/pageSize + 1) * pageSize
		}
		rs[i] = Range{Off: start, Len: end - start}
	}
	slices.SortFunc(rs, func(a, b Range) int {
		switch {
		case a.Off < b.Off:
			return -1
		case a.Off > b.Off:
			return 1
		}
		return 0
	})

	n := 0
	for _, next := range rs[1:] {
		cur := &rs[n]
		if next.Off <= cur.End() {
			cur.Len = max(cur.End(), next.End()) - cur.Off
			continue
		}
		n++
		rs[n] = next
	}
	return rs[:n+1]
}
