//go:build !linux && !freebsd && !darwin

package dirty

import "context"

// Segments are heap buffers on these platforms and are written back by the
// segment itself.
func (t *Tracker) flushRanges(context.Context, []byte) error { return nil }

func msync([]byte) error { return nil }

func fdatasync(int) error { return nil }
