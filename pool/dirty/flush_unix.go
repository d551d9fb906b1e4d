//go:build linux || freebsd

package dirty

import (
	"context"

	"golang.org/x/sys/unix"
)

// flushRanges syncs each coalesced range on its own. Linux accepts any
// page-aligned sub-slice of a mapping.
func (t *Tracker) flushRanges(ctx context.Context, data []byte) error {
	for _, r := range t.coalesce() {
		if err := ctx.Err(); err != nil {
			return err
		}
		// header page is flushed by FlushAll
		if r.Off == 0 {
			if r.Len <= t.pageSize {
				continue
			}
			r = Range{Off: t.pageSize, Len: r.Len - t.pageSize}
		}
		start := int(r.Off)
		end := min(int(r.End()), len(data))
		if start >= end {
			continue
		}
		if err := unix.Msync(data[start:end], unix.MS_SYNC); err != nil {
			return err
		}
	}
	return nil
}

func msync(data []byte) error {
	return unix.Msync(data, unix.MS_SYNC)
}

func fdatasync(fd int) error {
	return unix.Fdatasync(fd)
}
