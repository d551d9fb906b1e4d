package fixedlist

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

type rangeRecorder struct {
	ranges [][2]int
}

func (r *rangeRecorder) Add(off, length int) {
	r.ranges = append(r.ranges, [2]int{off, length})
}

func TestFootprint(t *testing.T) {
	size, err := Footprint[elem](testCapacity)
	require.NoError(t, err)
	want := headerSize + testCapacity*linkSize + testCapacity*int(unsafe.Sizeof(elem{}))
	require.Equal(t, want, size)

	_, err = Footprint[elem](0)
	require.ErrorIs(t, err, ErrBadCapacity)
	_, err = Footprint[elem](MaxCapacity + 1)
	require.ErrorIs(t, err, ErrBadCapacity)
}

func TestInitRejects(t *testing.T) {
	size, err := Footprint[elem](testCapacity)
	require.NoError(t, err)

	t.Run("pointer element", func(t *testing.T) {
		_, err := Init[string](alignedRegion(4096), 4, nil)
		require.ErrorIs(t, err, ErrPointerElem)
	})
	t.Run("pointer nested in struct", func(t *testing.T) {
		type nested struct {
			ID   uint64
			Tags [2]map[string]int
		}
		_, err := Init[nested](alignedRegion(4096), 4, nil)
		require.ErrorIs(t, err, ErrPointerElem)
	})
	t.Run("zero size element", func(t *testing.T) {
		_, err := Init[struct{}](alignedRegion(4096), 4, nil)
		require.ErrorIs(t, err, ErrZeroSizeElem)
	})
	t.Run("bad capacity", func(t *testing.T) {
		_, err := Init[elem](alignedRegion(size), 0, nil)
		require.ErrorIs(t, err, ErrBadCapacity)
	})
	t.Run("too small", func(t *testing.T) {
		_, err := Init[elem](alignedRegion(size-1), testCapacity, nil)
		require.ErrorIs(t, err, ErrRegionTooSmall)
	})
	t.Run("misaligned", func(t *testing.T) {
		mem := alignedRegion(size + 8)
		_, err := Init[elem](mem[1:], testCapacity, nil)
		require.ErrorIs(t, err, ErrMisaligned)
	})
}

func TestInitAcceptsFixedArrays(t *testing.T) {
	type record struct {
		Name [16]byte
		N    uint8
	}
	size, err := Footprint[record](3)
	require.NoError(t, err)
	l, err := Init[record](alignedRegion(size), 3, nil)
	require.NoError(t, err)
	require.Equal(t, 3, l.Cap())
	require.True(t, l.Empty())
}

func TestInitFormatsDirtyRegion(t *testing.T) {
	size, err := Footprint[elem](testCapacity)
	require.NoError(t, err)
	mem := alignedRegion(size)
	for i := range mem {
		mem[i] = 0xAB
	}

	l, err := Init[elem](mem, testCapacity, nil)
	require.NoError(t, err)
	require.True(t, l.Empty())
	require.NoError(t, l.Verify())

	p, err := l.EmplaceBack(nil)
	require.NoError(t, err)
	require.Equal(t, elem{}, *p)
}

func TestAttachRejects(t *testing.T) {
	_, mem := newPlaced(t, testCapacity)

	t.Run("unformatted", func(t *testing.T) {
		_, err := Attach[elem](alignedRegion(len(mem)), nil)
		require.ErrorIs(t, err, ErrBadMagic)
	})
	t.Run("other element type", func(t *testing.T) {
		_, err := Attach[uint32](mem, nil)
		require.ErrorIs(t, err, ErrElemSize)
	})
	t.Run("pointer element", func(t *testing.T) {
		_, err := Attach[*elem](mem, nil)
		require.ErrorIs(t, err, ErrPointerElem)
	})
	t.Run("truncated", func(t *testing.T) {
		_, err := Attach[elem](mem[:len(mem)-1], nil)
		require.ErrorIs(t, err, ErrRegionTooSmall)
	})
	t.Run("shorter than header", func(t *testing.T) {
		_, err := Attach[elem](mem[:4], nil)
		require.ErrorIs(t, err, ErrRegionTooSmall)
	})
}

func TestAttachRejectsBrokenHeader(t *testing.T) {
	l, mem := newPlaced(t, testCapacity)
	l.hdr.size = testCapacity + 1
	_, err := Attach[elem](mem, nil)
	require.ErrorIs(t, err, ErrCorrupt)

	l.hdr.size = 0
	l.hdr.freeHead = testCapacity + 3
	_, err = Attach[elem](mem, nil)
	var ce *CorruptionError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, testCapacity+3, ce.Slot)
}

func TestRelocationByByteCopy(t *testing.T) {
	src, mem := newPlaced(t, testCapacity)
	for i := range int64(testCapacity) {
		_, err := src.PushBack(elem{Value: i, Tag: uint32(i * 2)})
		require.NoError(t, err)
	}
	require.Equal(t, 3, src.RemoveIf(func(e *elem) bool { return e.Value%4 == 1 }))
	want := values(src)

	moved := alignedRegion(len(mem))
	copy(moved, mem)
	// wipe the original so nothing can alias it
	clear(mem)

	dst, err := Attach[elem](moved, nil)
	require.NoError(t, err)
	require.NoError(t, dst.Verify())
	require.Equal(t, want, values(dst))
	require.Equal(t, uint64(3), dst.Erasures())

	for i := range 3 {
		_, err := dst.PushBack(elem{Value: int64(100 + i)})
		require.NoError(t, err)
	}
	require.True(t, dst.Full())
	_, err = dst.PushBack(elem{})
	require.ErrorIs(t, err, ErrFull)
	require.NoError(t, dst.Verify())
}

func TestTrackerSeesEveryWrite(t *testing.T) {
	const base = 4096
	size, err := Footprint[elem](testCapacity)
	require.NoError(t, err)
	rec := &rangeRecorder{}
	l, err := Init[elem](alignedRegion(size), testCapacity, &Options{Tracker: rec, BaseOffset: base})
	require.NoError(t, err)

	require.Equal(t, [][2]int{{base, size}}, rec.ranges)

	rec.ranges = nil
	_, err = l.PushBack(elem{Value: 1})
	require.NoError(t, err)
	require.NotEmpty(t, rec.ranges)
	requireInside(t, rec.ranges, base, size)
	require.Contains(t, rec.ranges, [2]int{base, headerSize})

	rec.ranges = nil
	require.True(t, l.PopBack())
	require.NotEmpty(t, rec.ranges)
	requireInside(t, rec.ranges, base, size)
}

func TestHeapListHasNoTracker(t *testing.T) {
	l := New[elem](2)
	_, err := l.PushBack(elem{})
	require.NoError(t, err)
	require.Nil(t, l.dt)
}

func requireInside(t *testing.T, ranges [][2]int, base, size int) {
	t.Helper()
	for _, r := range ranges {
		require.GreaterOrEqual(t, r[0], base)
		require.LessOrEqual(t, r[0]+r[1], base+size, "range %v escapes the region", r)
	}
}
