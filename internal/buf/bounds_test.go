package buf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddOverflowSafe(t *testing.T) {
	sum, ok := AddOverflowSafe(10, 5)
	require.True(t, ok)
	require.Equal(t, 15, sum)

	_, ok = AddOverflowSafe(math.MaxInt, 1)
	require.False(t, ok, "expected overflow when adding to MaxInt")

	_, ok = AddOverflowSafe(math.MinInt, -1)
	require.False(t, ok, "expected underflow when subtracting from MinInt")
}

func TestMulOverflowSafe(t *testing.T) {
	tests := []struct {
		name string
		a, b int
		want int
		ok   bool
	}{
		{"zero", 0, 123, 0, true},
		{"small", 16, 512, 8192, true},
		{"negative", -1, 4, 0, false},
		{"overflow", math.MaxInt/2 + 1, 2, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MulOverflowSafe(tt.a, tt.b)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestAlignUp(t *testing.T) {
	got, ok := AlignUp(0, 64)
	require.True(t, ok)
	require.Equal(t, 0, got)

	got, ok = AlignUp(65, 64)
	require.True(t, ok)
	require.Equal(t, 128, got)

	got, ok = AlignUp(128, 64)
	require.True(t, ok)
	require.Equal(t, 128, got)

	_, ok = AlignUp(10, 12)
	require.False(t, ok, "non power of two alignment must be rejected")

	_, ok = AlignUp(math.MaxInt, 8)
	require.False(t, ok)
}

func TestRegionEnd(t *testing.T) {
	end, err := RegionEnd(1024, 64, 10, 16)
	require.NoError(t, err)
	require.Equal(t, 224, end)

	_, err = RegionEnd(100, 64, 10, 16)
	require.ErrorContains(t, err, "bounds")

	_, err = RegionEnd(100, -1, 1, 1)
	require.ErrorContains(t, err, "negative offset")

	_, err = RegionEnd(math.MaxInt, 1, math.MaxInt, 2)
	require.ErrorContains(t, err, "overflow")
}

func TestSlice(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4}

	got, ok := Slice(data, 1, 3)
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3}, got)
	require.Equal(t, 3, cap(got), "sub-slice must not expose the tail of the region")

	_, ok = Slice(data, 4, 2)
	require.False(t, ok, "Slice should fail when extending beyond len")

	_, ok = Slice(data, -1, 1)
	require.False(t, ok)

	_, ok = Slice(data, 1, -1)
	require.False(t, ok)
}
