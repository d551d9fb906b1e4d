package pool

import (
	"context"
	"errors"
	"fmt"

	"github.com/joshuapare/portpool/internal/logger"
	"github.com/joshuapare/portpool/pool/errorhandler"
	"github.com/joshuapare/portpool/pool/segment"
)

// Shared is a pool living in a shared memory segment.
type Shared struct {
	Segment *segment.Segment
	Data    *PortPoolData
	Pool    *PortPool
	Legacy  *LegacyPortPool
}

// CreateShared creates the segment at path, formats an empty pool with caps
// in it and marks it ready. This is the daemon side.
func CreateShared(path string, caps Capacities, opts ...Option) (*Shared, error) {
	size, err := DataFootprint(caps)
	if err != nil {
		return nil, err
	}
	seg, err := segment.Create(path, size)
	if err != nil {
		return nil, err
	}
	data, err := FormatData(seg.Data(), caps, trackedBy(seg))
	if err != nil {
		return nil, errors.Join(err, seg.Remove())
	}
	seg.MarkReady()
	logger.Info("port pool created", "path", path, "data_size", size)
	return newShared(seg, data, opts), nil
}

// OpenShared attaches to a ready segment created by CreateShared and verifies
// the pool in it. This is the client side.
func OpenShared(path string, opts ...Option) (*Shared, error) {
	seg, err := segment.Open(path)
	if err != nil {
		return nil, err
	}
	data, err := AttachData(seg.Data(), trackedBy(seg))
	if err != nil {
		errorhandler.Report(errorhandler.SegmentInvalid, errorhandler.Severe)
		return nil, errors.Join(fmt.Errorf("pool: %s: %w", path, err), seg.Close())
	}
	if err := data.Verify(); err != nil {
		errorhandler.Report(errorhandler.PortPoolCorrupt, errorhandler.Severe)
		return nil, errors.Join(fmt.Errorf("pool: %s: %w", path, err), seg.Close())
	}
	logger.Debug("port pool opened", "path", path)
	return newShared(seg, data, opts), nil
}

func trackedBy(seg *segment.Segment) *DataOptions {
	return &DataOptions{Tracker: seg.Tracker(), BaseOffset: seg.DataOffset()}
}

func newShared(seg *segment.Segment, data *PortPoolData, opts []Option) *Shared {
	legacy := NewLegacyPortPool(data, opts...)
	return &Shared{
		Segment: seg,
		Data:    data,
		Pool:    legacy.PortPool,
		Legacy:  legacy,
	}
}

// Sync flushes modified pages of a file-backed segment.
func (s *Shared) Sync(ctx context.Context) error {
	return s.Segment.Sync(ctx)
}

// Close unmaps the segment. Records returned earlier must not be used after.
func (s *Shared) Close() error {
	return s.Segment.Close()
}

// Destroy unmaps the segment and removes its file.
func (s *Shared) Destroy() error {
	return s.Segment.Remove()
}
