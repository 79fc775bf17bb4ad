// Package rootset implements one set of registered roots keyed by slot
// address.
//
// Membership carries a marker. Live entries are Present; an entry removed
// while a scan of the registry is in progress is downgraded to Deleted in
// place instead of being unlinked, so the traversal never sees a dangling
// node. Scans reap Deleted entries as they pass them, and Insert revives a
// tombstoned address back to Present.
//
// Like the backing skiplist, a Set carries no locking of its own: the
// registry serializes every structural mutation under its mutex.
package rootset

import "github.com/kolkov/gcroots/internal/gcroot/skiplist"

// Markers stored as the data word of each entry.
const (
	present uintptr = 0
	deleted uintptr = 1
)

// Set is the membership record of one root list (mutable, young or old).
type Set struct {
	entries *skiplist.List
}

// New returns an empty set.
func New() *Set {
	return &Set{entries: skiplist.New()}
}

// Insert establishes Present membership for addr, overwriting any prior
// marker. Re-inserting a tombstoned address revives it.
func (s *Set) Insert(addr uintptr) {
	s.entries.Insert(addr, present)
}

// Remove withdraws addr from the set. With deferDelete set (an iteration is
// in progress somewhere in the registry) an existing entry is tombstoned in
// place for a later scan to reap; otherwise it is unlinked immediately.
// Removing an absent or already-tombstoned address is a no-op.
func (s *Set) Remove(addr uintptr, deferDelete bool) {
	if deferDelete {
		if p := s.entries.FindPtr(addr); p != nil {
			*p = deleted
		}
		return
	}
	s.entries.Remove(addr)
}

// Find reports membership of addr. ok is false when addr has no entry at
// all; isPresent is false for a tombstoned entry awaiting reaping.
func (s *Set) Find(addr uintptr) (isPresent, ok bool) {
	data, ok := s.entries.Find(addr)
	if !ok {
		return false, false
	}
	return data == present, true
}

// Scan visits every Present address in ascending order and reaps tombstones
// along the way. It returns the number of tombstones reaped.
func (s *Set) Scan(visit func(addr uintptr)) int {
	reaped := 0
	s.entries.ForEach(func(addr uintptr, data *uintptr) bool {
		if *data == deleted {
			s.entries.Remove(addr)
			reaped++
			return true
		}
		visit(addr)
		return true
	})
	return reaped
}

// Promote inserts every surviving Present address into dst, reaping
// tombstones rather than promoting them, and returns the number promoted.
// The receiver is left unchanged; callers pair Promote with Clear.
func (s *Set) Promote(dst *Set) int {
	moved := 0
	s.entries.ForEach(func(addr uintptr, data *uintptr) bool {
		if *data == deleted {
			s.entries.Remove(addr)
			return true
		}
		dst.Insert(addr)
		moved++
		return true
	})
	return moved
}

// Len returns the number of entries, tombstones included.
func (s *Set) Len() int {
	return s.entries.Len()
}

// Clear drops every entry, tombstoned or not.
func (s *Set) Clear() {
	s.entries.Empty()
}
