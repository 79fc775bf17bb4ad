package rootset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertFind(t *testing.T) {
	s := New()

	s.Insert(0x1000)
	isPresent, ok := s.Find(0x1000)
	require.True(t, ok)
	require.True(t, isPresent)

	_, ok = s.Find(0x2000)
	require.False(t, ok, "absent address must not be found")
}

func TestInsertIsIdempotentPerAddress(t *testing.T) {
	s := New()

	s.Insert(0x1000)
	s.Insert(0x1000)

	require.Equal(t, 1, s.Len(), "an address appears at most once per set")
}

func TestRemoveImmediate(t *testing.T) {
	s := New()
	s.Insert(0x1000)

	s.Remove(0x1000, false)

	_, ok := s.Find(0x1000)
	require.False(t, ok)
	require.Equal(t, 0, s.Len())

	// Removing again, and removing something never inserted, are no-ops.
	s.Remove(0x1000, false)
	s.Remove(0x9000, false)
}

func TestRemoveDeferredTombstones(t *testing.T) {
	s := New()
	s.Insert(0x1000)

	s.Remove(0x1000, true)

	isPresent, ok := s.Find(0x1000)
	require.True(t, ok, "tombstoned entry must still occupy its slot")
	require.False(t, isPresent)
	require.Equal(t, 1, s.Len())

	// Deferred removal of an absent address is a no-op, not an insertion.
	s.Remove(0x2000, true)
	_, ok = s.Find(0x2000)
	require.False(t, ok)
}

func TestInsertRevivesTombstone(t *testing.T) {
	s := New()
	s.Insert(0x1000)
	s.Remove(0x1000, true)

	s.Insert(0x1000)

	isPresent, ok := s.Find(0x1000)
	require.True(t, ok)
	require.True(t, isPresent, "Insert must revive a tombstoned address")
	require.Equal(t, 1, s.Len())
}

func TestScanVisitsPresentAndReapsDeleted(t *testing.T) {
	s := New()
	s.Insert(0x1000)
	s.Insert(0x2000)
	s.Insert(0x3000)
	s.Remove(0x2000, true)

	var visited []uintptr
	reaped := s.Scan(func(addr uintptr) {
		visited = append(visited, addr)
	})

	require.Equal(t, []uintptr{0x1000, 0x3000}, visited)
	require.Equal(t, 1, reaped)
	require.Equal(t, 2, s.Len(), "tombstone must be physically gone after the scan")
	_, ok := s.Find(0x2000)
	require.False(t, ok)
}

func TestScanOnEmptySet(t *testing.T) {
	s := New()
	reaped := s.Scan(func(addr uintptr) {
		t.Errorf("visited %#x in an empty set", addr)
	})
	require.Zero(t, reaped)
}

func TestPromoteMovesSurvivorsOnly(t *testing.T) {
	src, dst := New(), New()
	src.Insert(0x1000)
	src.Insert(0x2000)
	src.Remove(0x1000, true)

	moved := src.Promote(dst)
	src.Clear()

	require.Equal(t, 1, moved)
	require.Equal(t, 0, src.Len())

	isPresent, ok := dst.Find(0x2000)
	require.True(t, ok)
	require.True(t, isPresent)
	_, ok = dst.Find(0x1000)
	require.False(t, ok, "tombstoned entry must not be promoted")
}

func TestPromoteIntoOccupiedSetKeepsUniqueness(t *testing.T) {
	src, dst := New(), New()
	src.Insert(0x1000)
	dst.Insert(0x1000) // already tracked by dst

	src.Promote(dst)

	require.Equal(t, 1, dst.Len(), "promotion must not duplicate an address")
}
