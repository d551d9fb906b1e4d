package fixedlist

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

const testCapacity = 10

// elem is a pointer-free element usable in placed lists.
type elem struct {
	Value int64
	Tag   uint32
}

// requirePanicsWith runs fn and requires it to panic with an error wrapping target.
func requirePanicsWith(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected panic wrapping %v", target)
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.True(t, errors.Is(err, target), "panic %v does not wrap %v", err, target)
	}()
	fn()
}

// alignedRegion returns an 8-byte aligned byte slice of n bytes.
func alignedRegion(n int) []byte {
	words := make([]uint64, (n+7)/8)
	return unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), n)
}

func newPlaced(t *testing.T, capacity int) (*List[elem], []byte) {
	t.Helper()
	size, err := Footprint[elem](capacity)
	require.NoError(t, err)
	mem := alignedRegion(size)
	l, err := Init[elem](mem, capacity, nil)
	require.NoError(t, err)
	return l, mem
}

func fillBack(t *testing.T, l *List[int64], values ...int64) {
	t.Helper()
	for _, v := range values {
		_, err := l.PushBack(v)
		require.NoError(t, err)
	}
}

func values[T any](l *List[T]) []T {
	out := make([]T, 0, l.Len())
	for p := range l.All() {
		out = append(out, *p)
	}
	return out
}

func seq(from, to int64) []int64 {
	out := make([]int64, 0, to-from)
	for v := from; v < to; v++ {
		out = append(out, v)
	}
	return out
}
