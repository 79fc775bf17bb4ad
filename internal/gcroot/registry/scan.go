package registry

import (
	"unsafe"

	"github.com/kolkov/gcroots/internal/gcroot/rootset"
	"github.com/kolkov/gcroots/internal/gcroot/value"
)

// beginScan opens a scan frame: registry locked, depth raised, scanning
// goroutine recorded so the reentrancy guard can identify it. The counter
// rather than a boolean keeps nested frames well defined, although nothing
// nests in normal operation.
func (r *Registry) beginScan() {
	r.lock()
	r.scanDepth.Add(1)
	r.scannerGID.Store(currentGoroutineID())
}

// endScan closes the frame opened by beginScan. Scans run it deferred so a
// panicking visitor cannot leave the registry locked.
func (r *Registry) endScan() {
	if r.scanDepth.Add(-1) == 0 {
		r.scannerGID.Store(0)
	}
	r.mu.Unlock()
}

// scanSet walks one root set, feeding each present root's (value, slot)
// pair to the visitor. Values are re-read through the slot at visit time,
// so rewrites by earlier visits stay coherent. Tombstones encountered on
// the way are reaped.
func (r *Registry) scanSet(s *rootset.Set, visit Visitor) {
	r.reaped += uint64(s.Scan(func(addr uintptr) {
		slot := slotAt(addr)
		visit(*slot, slot)
	}))
}

// slotAt converts a set key back into the registrant-owned slot it names.
//
//go:nocheckptr
func slotAt(addr uintptr) *value.Value {
	//nolint:gosec // G103: set keys originate from live registrant slot pointers
	return (*value.Value)(unsafe.Pointer(addr))
}

// scanTable visits every occupied slot of one module root table. Zero words
// are unset table holes, never live values.
func scanTable(table []value.Value, visit Visitor) {
	for i := range table {
		if table[i] == 0 {
			continue
		}
		visit(table[i], &table[i])
	}
}

// scanSets walks the three root sets inside one scan frame and returns the
// dynamic table list head snapshotted in that frame.
func (r *Registry) scanSets(visit Visitor) *moduleLink {
	r.beginScan()
	defer r.endScan()
	r.scanSet(r.mutable, visit)
	r.scanSet(r.young, visit)
	r.scanSet(r.old, visit)
	r.fullScans++
	return r.dynHead
}

// FullScan visits every registered root: the mutable, young and old sets,
// then the static and dynamic module root tables. Each set contributes each
// address at most once.
//
// The set traversal runs under the registry mutex. The module tables do
// not: the dynamic list head is snapshotted inside the frame, and the list
// is append-only with immutable cells, so walking it unlocked is safe and
// keeps mutators responsive during what is the longest part of a full scan.
func (r *Registry) FullScan(visit Visitor) {
	dyn := r.scanSets(visit)

	for _, t := range r.static {
		scanTable(t, visit)
	}
	for l := dyn; l != nil; l = l.next {
		scanTable(l.table, visit)
	}
}

// MinorScan visits the mutable and young sets only: by the generational
// invariant no root tracked in old can point into the young generation.
// Afterwards every surviving young root is migrated into old and the young
// set is emptied; this is where registry promotion catches up with the
// collector's object promotion.
func (r *Registry) MinorScan(visit Visitor) {
	r.beginScan()
	defer r.endScan()
	r.scanSet(r.mutable, visit)
	r.scanSet(r.young, visit)

	r.promotions += uint64(r.young.Promote(r.old))
	r.young.Clear()
	r.minorScans++
}
