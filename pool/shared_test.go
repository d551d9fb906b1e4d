//go:build linux || darwin

package pool

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/portpool/pool/errorhandler"
	"github.com/joshuapare/portpool/pool/fixedlist"
	"github.com/joshuapare/portpool/pool/port"
	"github.com/joshuapare/portpool/pool/segment"
)

func newSharedPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "iox_roudi")
}

func TestSharedDaemonAndClient(t *testing.T) {
	path := newSharedPath(t)
	daemon, err := CreateShared(path, smallCaps())
	require.NoError(t, err)
	t.Cleanup(func() { _ = daemon.Destroy() })

	pub, err := daemon.Pool.AddPublisherPort(radar, 4, port.NewMemoryRef(3, 0x80), "/radar", port.MemoryInfo{})
	require.NoError(t, err)
	_, err = daemon.Legacy.AddSenderPort(lidar, port.MemoryRef{}, "/lidar", port.MemoryInfo{})
	require.NoError(t, err)

	client, err := OpenShared(path)
	require.NoError(t, err)
	defer client.Close()

	require.Equal(t, smallCaps(), client.Data.Capacities())
	pubs := client.Pool.PublisherPortDataList()
	require.Len(t, pubs, 1)
	require.True(t, pubs[0].Base.ServiceDescription.Equal(&radar))
	require.Equal(t, pub.Base.UniqueID, pubs[0].Base.UniqueID)
	require.Equal(t, port.NewMemoryRef(3, 0x80), pubs[0].MemoryManager)
	require.Len(t, client.Legacy.SenderPortDataList(), 1)

	pub.Offered.Store(true)
	require.True(t, pubs[0].Offered.Load(), "records are shared, not copied")

	w := NewChangeWatcher(client.Pool)
	require.Equal(t, uint64(2), w.Last())
	daemon.Pool.RemovePublisherPort(pub)
	require.True(t, w.Changed(), "the client sees the daemon's counter")
	require.Empty(t, client.Pool.PublisherPortDataList())
}

func TestSharedSyncPersists(t *testing.T) {
	path := newSharedPath(t)
	daemon, err := CreateShared(path, smallCaps())
	require.NoError(t, err)

	_, err = daemon.Pool.AddRunnableData("/proc", "worker", 5)
	require.NoError(t, err)
	require.NoError(t, daemon.Sync(context.Background()))
	require.NoError(t, daemon.Close())

	reopened, err := OpenShared(path)
	require.NoError(t, err)
	defer reopened.Destroy()
	rs := reopened.Pool.RunnableDataList()
	require.Len(t, rs, 1)
	require.Equal(t, "worker", rs[0].Runnable.String())
	require.Equal(t, uint64(5), rs[0].DeviceIdentifier)
}

func TestSharedDestroyRemovesFile(t *testing.T) {
	path := newSharedPath(t)
	s, err := CreateShared(path, smallCaps())
	require.NoError(t, err)
	require.NoError(t, s.Destroy())

	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCreateSharedRejects(t *testing.T) {
	t.Run("bad capacity", func(t *testing.T) {
		caps := smallCaps()
		caps.Runnables = 0
		_, err := CreateShared(newSharedPath(t), caps)
		require.ErrorIs(t, err, ErrBadCapacity)
	})
	t.Run("already exists", func(t *testing.T) {
		path := newSharedPath(t)
		s, err := CreateShared(path, smallCaps())
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Destroy() })

		_, err = CreateShared(path, smallCaps())
		require.ErrorIs(t, err, os.ErrExist)
	})
}

func TestOpenSharedMissing(t *testing.T) {
	_, err := OpenShared(newSharedPath(t))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenSharedNotReady(t *testing.T) {
	path := newSharedPath(t)
	size, err := DataFootprint(smallCaps())
	require.NoError(t, err)
	seg, err := segment.Create(path, size)
	require.NoError(t, err)
	t.Cleanup(func() { _ = seg.Remove() })

	_, err = OpenShared(path)
	require.ErrorIs(t, err, segment.ErrNotReady)
}

func TestOpenSharedReportsBadData(t *testing.T) {
	path := newSharedPath(t)
	daemon, err := CreateShared(path, smallCaps())
	require.NoError(t, err)
	t.Cleanup(func() { _ = daemon.Destroy() })

	copy(daemon.Segment.Data(), "GARBAGE!")
	reports := captureReports(t)

	_, err = OpenShared(path)
	require.ErrorIs(t, err, ErrDataMagic)
	require.Equal(t, []report{{errorhandler.SegmentInvalid, errorhandler.Severe}}, *reports)
}

func TestOpenSharedReportsCorruptList(t *testing.T) {
	path := newSharedPath(t)
	daemon, err := CreateShared(path, smallCaps())
	require.NoError(t, err)
	t.Cleanup(func() { _ = daemon.Destroy() })

	_, err = daemon.Pool.AddApplicationPort("/a")
	require.NoError(t, err)
	// claim a size the active chain does not have
	off := daemon.Data.hdr.regions[Application].offset + 12
	daemon.Segment.Data()[off] = 3
	reports := captureReports(t)

	_, err = OpenShared(path)
	require.ErrorIs(t, err, fixedlist.ErrCorrupt)
	require.Equal(t, []report{{errorhandler.PortPoolCorrupt, errorhandler.Severe}}, *reports)
}

func TestSharedTrackerBoundedWithoutSync(t *testing.T) {
	path := newSharedPath(t)
	daemon, err := CreateShared(path, smallCaps())
	require.NoError(t, err)
	t.Cleanup(func() { _ = daemon.Destroy() })

	tracker := daemon.Segment.Tracker()
	pages := len(daemon.Segment.Bytes())/os.Getpagesize() + 1
	for range 20_000 {
		pub, err := daemon.Pool.AddPublisherPort(radar, 1, port.MemoryRef{}, "/churn", port.MemoryInfo{})
		require.NoError(t, err)
		daemon.Pool.RemovePublisherPort(pub)
	}

	require.True(t, tracker.Pending())
	require.LessOrEqual(t, tracker.Tracked(), max(64, pages))
	require.LessOrEqual(t, len(tracker.Ranges()), pages)
}
