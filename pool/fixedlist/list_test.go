package fixedlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListIsEmpty(t *testing.T) {
	l := New[int64](testCapacity)

	require.True(t, l.Empty())
	require.False(t, l.Full())
	require.Equal(t, 0, l.Len())
	require.Equal(t, testCapacity, l.Cap())
	require.True(t, l.Begin().Equal(l.End()))
	require.NoError(t, l.Verify())
}

func TestNewRejectsBadCapacity(t *testing.T) {
	requirePanicsWith(t, ErrBadCapacity, func() { New[int64](0) })
	requirePanicsWith(t, ErrBadCapacity, func() { New[int64](MaxCapacity + 1) })
}

func TestPushBackUntilFull(t *testing.T) {
	l := New[int64](testCapacity)

	for i := range testCapacity {
		require.False(t, l.Full())
		p, err := l.PushBack(int64(i))
		require.NoError(t, err)
		require.Equal(t, int64(i), *p)
		require.Equal(t, i+1, l.Len())
	}
	require.True(t, l.Full())

	p, err := l.PushBack(99)
	require.ErrorIs(t, err, ErrFull)
	require.Nil(t, p)
	require.Equal(t, testCapacity, l.Len())

	p, err = l.PushFront(99)
	require.ErrorIs(t, err, ErrFull)
	require.Nil(t, p)
	require.Equal(t, testCapacity, l.Len())
	require.Equal(t, seq(0, testCapacity), values(l))
}

func TestPushFrontReversesOrder(t *testing.T) {
	l := New[int64](testCapacity)
	for i := range int64(5) {
		_, err := l.PushFront(i)
		require.NoError(t, err)
	}
	require.Equal(t, []int64{4, 3, 2, 1, 0}, values(l))
	require.Equal(t, int64(4), *l.Front())
	require.Equal(t, int64(0), *l.Back())
}

func TestEmplaceBackFullReturnsErrFull(t *testing.T) {
	l := New[int64](testCapacity)
	for i := range int64(testCapacity) {
		_, err := l.EmplaceBack(func(p *int64) { *p = i })
		require.NoError(t, err)
	}

	called := false
	_, err := l.EmplaceBack(func(p *int64) { called = true })
	require.ErrorIs(t, err, ErrFull)
	require.False(t, called, "nothing may be constructed when full")

	_, err = l.EmplaceFront(nil)
	require.ErrorIs(t, err, ErrFull)

	_, err = l.Emplace(l.Begin(), nil)
	require.ErrorIs(t, err, ErrFull)

	_, err = l.Insert(l.End(), 1)
	require.ErrorIs(t, err, ErrFull)
	require.Equal(t, testCapacity, l.Len())
}

func TestEmplaceNilInitYieldsZeroValue(t *testing.T) {
	l := New[elem](testCapacity)
	p, err := l.EmplaceBack(nil)
	require.NoError(t, err)
	require.Equal(t, elem{}, *p)
}

func TestEmplaceSlotIsZeroedBeforeInit(t *testing.T) {
	l := New[elem](1)
	_, err := l.PushBack(elem{Value: 7, Tag: 9})
	require.NoError(t, err)
	require.True(t, l.PopBack())

	p, err := l.EmplaceBack(func(e *elem) { e.Value = 1 })
	require.NoError(t, err)
	require.Equal(t, elem{Value: 1}, *p, "previous occupant must not leak into the new element")
}

func TestEmplaceInitPanicDoesNotLeakSlot(t *testing.T) {
	l := New[int64](1)
	require.Panics(t, func() {
		_, _ = l.EmplaceBack(func(*int64) { panic("boom") })
	})
	require.Equal(t, 0, l.Len())
	require.NoError(t, l.Verify())

	_, err := l.PushBack(3)
	require.NoError(t, err, "the slot must still be available")
}

func TestEraseThenEmplaceReusesSlot(t *testing.T) {
	l := New[int64](testCapacity)
	for i := range int64(testCapacity) {
		_, err := l.EmplaceBack(func(p *int64) { *p = i })
		require.NoError(t, err)
	}
	require.Equal(t, testCapacity, l.Len())
	require.True(t, l.Full())

	next := l.Erase(l.Begin())
	require.Equal(t, int64(1), *next.Value())
	require.Equal(t, testCapacity-1, l.Len())
	require.False(t, l.Full())

	_, err := l.EmplaceBack(func(p *int64) { *p = 10 })
	require.NoError(t, err)
	require.Equal(t, testCapacity, l.Len())
	require.Equal(t, seq(1, 11), values(l))
	require.NoError(t, l.Verify())
}

func TestEraseLastReturnsEnd(t *testing.T) {
	l := New[int64](testCapacity)
	fillBack(t, l, 1, 2)

	it := l.Begin()
	it.Next()
	next := l.Erase(it)
	require.True(t, next.IsEnd())
	require.Equal(t, []int64{1}, values(l))
}

func TestEraseEndPanics(t *testing.T) {
	l := New[int64](testCapacity)
	fillBack(t, l, 1)
	requirePanicsWith(t, ErrEndIterator, func() { l.Erase(l.End()) })
}

func TestInsertBeforePosition(t *testing.T) {
	l := New[int64](testCapacity)
	for i := range int64(5) {
		_, err := l.EmplaceFront(func(p *int64) { *p = i })
		require.NoError(t, err)
	}

	it := l.Begin()
	it.Next()
	it.Next()
	inserted, err := l.Insert(it, 13)
	require.NoError(t, err)
	require.Equal(t, int64(13), *inserted.Value())
	require.Equal(t, 6, l.Len())
	require.Equal(t, []int64{4, 3, 13, 2, 1, 0}, values(l))

	// it still points at 2
	require.Equal(t, int64(2), *it.Value())
}

func TestInsertAtBeginAndEnd(t *testing.T) {
	l := New[int64](testCapacity)

	_, err := l.Insert(l.End(), 2)
	require.NoError(t, err)
	_, err = l.Insert(l.Begin(), 1)
	require.NoError(t, err)
	_, err = l.Insert(l.End(), 3)
	require.NoError(t, err)

	require.Equal(t, []int64{1, 2, 3}, values(l))
	require.NoError(t, l.Verify())
}

func TestInsertForeignPositionPanics(t *testing.T) {
	a := New[int64](testCapacity)
	b := New[int64](testCapacity)
	fillBack(t, b, 1)

	requirePanicsWith(t, ErrForeignIterator, func() { _, _ = a.Insert(b.Begin(), 5) })
	requirePanicsWith(t, ErrForeignIterator, func() { _, _ = a.Emplace(b.End(), nil) })
	requirePanicsWith(t, ErrForeignIterator, func() { a.Erase(b.Begin()) })
	require.Equal(t, 0, a.Len())
}

func TestPopOnEmptyList(t *testing.T) {
	l := New[int64](testCapacity)
	require.False(t, l.PopFront())
	require.False(t, l.PopBack())
	require.Equal(t, 0, l.Len())
}

func TestPopFrontFullToEmpty(t *testing.T) {
	l := New[int64](testCapacity)
	fillBack(t, l, seq(0, testCapacity)...)

	for i := range int64(testCapacity) {
		require.Equal(t, i, *l.Front())
		require.True(t, l.PopFront())
	}
	require.True(t, l.Empty())
	require.False(t, l.PopFront())
	require.NoError(t, l.Verify())
}

func TestPopBackFullToEmpty(t *testing.T) {
	l := New[int64](testCapacity)
	fillBack(t, l, seq(0, testCapacity)...)

	for i := int64(testCapacity - 1); i >= 0; i-- {
		require.Equal(t, i, *l.Back())
		require.True(t, l.PopBack())
	}
	require.True(t, l.Empty())
	require.False(t, l.PopBack())
}

func TestFrontBackOnEmptyPanics(t *testing.T) {
	l := New[int64](testCapacity)
	requirePanicsWith(t, ErrEmpty, func() { l.Front() })
	requirePanicsWith(t, ErrEmpty, func() { l.Back() })
}

func TestFrontBackAreWritable(t *testing.T) {
	l := New[int64](testCapacity)
	fillBack(t, l, 1, 2, 3)
	*l.Front() = 10
	*l.Back() = 30
	require.Equal(t, []int64{10, 2, 30}, values(l))
}

func TestClear(t *testing.T) {
	l := New[int64](testCapacity)
	fillBack(t, l, seq(0, testCapacity)...)

	l.Clear()
	require.True(t, l.Empty())
	require.Equal(t, 0, l.Len())
	require.Equal(t, uint64(testCapacity), l.Erasures())
	require.NoError(t, l.Verify())

	fillBack(t, l, seq(0, testCapacity)...)
	require.True(t, l.Full())
}

func TestRemove(t *testing.T) {
	tests := []struct {
		name    string
		in      []int64
		value   int64
		removed int
		want    []int64
	}{
		{"empty list", nil, 1, 0, []int64{}},
		{"not present", []int64{1, 2, 3}, 7, 0, []int64{1, 2, 3}},
		{"single match", []int64{1, 2, 3}, 2, 1, []int64{1, 3}},
		{"few matches", []int64{1, 2, 1, 3, 1}, 1, 3, []int64{2, 3}},
		{"all match", []int64{4, 4, 4}, 4, 3, []int64{}},
		{"only element", []int64{5}, 5, 1, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New[int64](testCapacity)
			fillBack(t, l, tt.in...)

			require.Equal(t, tt.removed, Remove(l, tt.value))
			require.Equal(t, tt.want, values(l))
			require.Equal(t, len(tt.want), l.Len())
			require.NoError(t, l.Verify())
		})
	}
}

func TestRemoveIfIsStable(t *testing.T) {
	l := New[int64](testCapacity)
	fillBack(t, l, seq(0, testCapacity)...)

	removed := l.RemoveIf(func(p *int64) bool { return *p%3 == 0 })
	require.Equal(t, 4, removed)
	require.Equal(t, []int64{1, 2, 4, 5, 7, 8}, values(l))

	require.Zero(t, l.RemoveIf(func(p *int64) bool { return *p > 100 }))
	require.Equal(t, []int64{1, 2, 4, 5, 7, 8}, values(l))
}

func TestRemovePtrReleasesExactSlot(t *testing.T) {
	l := New[elem](testCapacity)
	first, err := l.PushBack(elem{Value: 42})
	require.NoError(t, err)
	second, err := l.PushBack(elem{Value: 42})
	require.NoError(t, err)
	require.NotSame(t, first, second)

	require.True(t, l.RemovePtr(second))
	require.Equal(t, 1, l.Len())
	require.Same(t, first, l.Front(), "the equal-valued element in another slot must survive")

	require.False(t, l.RemovePtr(second), "second removal of the same slot is a no-op")
	require.Equal(t, 1, l.Len())
}

func TestRemovePtrRejectsForeignPointers(t *testing.T) {
	l := New[elem](testCapacity)
	other := New[elem](testCapacity)
	_, err := l.PushBack(elem{Value: 1})
	require.NoError(t, err)
	foreign, err := other.PushBack(elem{Value: 1})
	require.NoError(t, err)

	require.False(t, l.RemovePtr(foreign))
	require.False(t, l.RemovePtr(&elem{Value: 1}))
	require.False(t, l.RemovePtr(nil))
	require.Equal(t, 1, l.Len())
}

func TestIndexOf(t *testing.T) {
	l := New[int64](testCapacity)
	a, err := l.PushBack(1)
	require.NoError(t, err)
	b, err := l.PushBack(2)
	require.NoError(t, err)

	ia, ok := l.IndexOf(a)
	require.True(t, ok)
	ib, ok := l.IndexOf(b)
	require.True(t, ok)
	require.NotEqual(t, ia, ib)

	require.True(t, l.PopFront())
	_, ok = l.IndexOf(a)
	require.False(t, ok, "a freed slot has no element")
}

func TestElementAddressesAreStable(t *testing.T) {
	l := New[int64](testCapacity)
	fillBack(t, l, 1, 2, 3)
	mid := l.Begin()
	mid.Next()
	p := mid.Value()

	require.True(t, l.PopFront())
	_, err := l.PushFront(0)
	require.NoError(t, err)
	_, err = l.PushBack(4)
	require.NoError(t, err)

	require.Equal(t, int64(2), *p)
	require.Same(t, p, mid.Value())
}

func TestAllAndBackward(t *testing.T) {
	l := New[int64](testCapacity)
	fillBack(t, l, 1, 2, 3, 4)

	var back []int64
	for p := range l.Backward() {
		back = append(back, *p)
	}
	require.Equal(t, []int64{4, 3, 2, 1}, back)

	var firstTwo []int64
	for p := range l.All() {
		firstTwo = append(firstTwo, *p)
		if len(firstTwo) == 2 {
			break
		}
	}
	require.Equal(t, []int64{1, 2}, firstTwo)
}

func TestAllToleratesErasingCurrent(t *testing.T) {
	l := New[int64](testCapacity)
	fillBack(t, l, seq(0, 6)...)

	for p := range l.All() {
		if *p%2 == 1 {
			require.True(t, l.RemovePtr(p))
		}
	}
	assert.Equal(t, []int64{0, 2, 4}, values(l))
	require.NoError(t, l.Verify())
}

func TestHeapListAcceptsPointerElements(t *testing.T) {
	l := New[string](2)
	_, err := l.PushBack("publisher")
	require.NoError(t, err)
	_, err = l.PushBack("subscriber")
	require.NoError(t, err)
	require.Equal(t, []string{"publisher", "subscriber"}, values(l))
}
