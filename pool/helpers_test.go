package pool

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/portpool/pool/errorhandler"
	"github.com/joshuapare/portpool/pool/port"
)

func smallCaps() Capacities {
	return Capacities{
		Publishers:         4,
		Subscribers:        4,
		Senders:            4,
		Receivers:          4,
		Interfaces:         2,
		Applications:       3,
		Runnables:          4,
		ConditionVariables: 4,
	}
}

func newTestData(t *testing.T, caps Capacities) *PortPoolData {
	t.Helper()
	d, err := NewData(caps)
	require.NoError(t, err)
	return d
}

type report struct {
	code  errorhandler.Code
	level errorhandler.Level
}

// captureReports swaps in a recording error handler for the test.
func captureReports(t *testing.T) *[]report {
	t.Helper()
	var got []report
	restore := errorhandler.SetHandler(func(c errorhandler.Code, l errorhandler.Level) {
		got = append(got, report{c, l})
	})
	t.Cleanup(restore)
	return &got
}

func alignedBytes(n int) []byte {
	words := make([]uint64, (n+7)/8)
	return unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), n)
}

var (
	radar = port.NewServiceDescription("Radar", "FrontLeft", "Objects")
	lidar = port.NewServiceDescription("Lidar", "Roof", "PointCloud")
)

type rangeRecorder struct {
	ranges [][2]int
}

func (r *rangeRecorder) Add(off, length int) {
	r.ranges = append(r.ranges, [2]int{off, length})
}
