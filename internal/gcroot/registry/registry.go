// Package registry implements the global root registry: the record of every
// slot outside the managed heap that the collector must treat as a live
// reference.
//
// A Registry owns three root sets and the module root tables:
//
//   - mutable: roots whose slots may be rewritten without notifying the
//     registry. Nothing is known about their contents, so every scan visits
//     them.
//   - young: generational roots whose slot currently holds (or last held, if
//     promotion has not caught up) a young-generation value.
//   - old: generational roots whose slot holds an old-generation value.
//
// The generational invariant, maintained by the registration API and the
// minor scan's bulk promotion:
//
//   - a young-classified value's root is in young;
//   - an old-classified value's root is in old or (transiently, until the
//     next minor scan) in young;
//   - an untracked value's root is in neither set.
//
// One mutex serializes all structural mutation. The scan-depth counter is a
// registry-wide field written under that mutex, never scoped to a single
// goroutine, so any context deciding between physical removal and
// tombstoning observes it coherently. A root removed while a scan holds the
// registry is tombstoned in place and reaped by that scan or a later one.
package registry

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/kolkov/gcroots/internal/gcroot/classify"
	"github.com/kolkov/gcroots/internal/gcroot/rootset"
	"github.com/kolkov/gcroots/internal/gcroot/value"
)

// Visitor is the collector-supplied callback invoked on every scanned root.
// It receives the slot's current value and the slot itself, and may rewrite
// the slot in place (relocating and compacting collectors do). It must not
// call back into the registration API or the scanners; doing so is a fatal
// defect, caught by a panic rather than left to deadlock.
type Visitor func(v value.Value, slot *value.Value)

// moduleLink is one cell of the append-only list of dynamically registered
// module root tables. Tables are never removed: module unload is
// unsupported.
type moduleLink struct {
	table []value.Value
	next  *moduleLink
}

// Stats is a snapshot of registry counters, in the spirit of a debug
// endpoint: cheap to collect, never consulted on the hot path.
type Stats struct {
	MutableRoots int // entries in the mutable set, tombstones included
	YoungRoots   int // entries in the young set, tombstones included
	OldRoots     int // entries in the old set, tombstones included

	DynamicModules int // dynamic root tables registered so far

	Promotions       uint64 // young roots migrated to old by minor scans
	TombstonesReaped uint64 // deferred deletions physically removed by scans
	FullScans        uint64
	MinorScans       uint64
}

// Registry is the explicitly owned root registry. The zero value is not
// usable; construct with New.
type Registry struct {
	// mu serializes every structural mutation of the root sets and the
	// dynamic table list. Scans hold it for the whole set traversal.
	// Callers must be in a context where blocking is legal.
	mu sync.Mutex

	// scanDepth is greater than zero while a scan is traversing the root
	// sets. It is only written with mu held; the atomic lets the
	// reentrancy guard read it without first blocking on mu.
	scanDepth atomic.Int32

	// scannerGID is the goroutine id driving the current scan, 0 when no
	// scan is active. Paired with scanDepth to turn visitor reentrancy
	// into a panic instead of a self-deadlock on mu.
	scannerGID atomic.Int64

	mutable *rootset.Set
	young   *rootset.Set
	old     *rootset.Set

	// bounds supplies the collector's current young-generation range.
	// Queried on every classification: the range moves between
	// collections.
	bounds classify.BoundsFunc

	static   [][]value.Value
	dynHead  *moduleLink
	dynCount int

	// Counters below are guarded by mu.
	promotions uint64
	reaped     uint64
	fullScans  uint64
	minorScans uint64
}

// New constructs a registry. bounds must be non-nil; staticTables are the
// compiled-in module root tables, fixed for the life of the registry.
func New(bounds classify.BoundsFunc, staticTables ...[]value.Value) *Registry {
	if bounds == nil {
		panic("gcroots: nil bounds function")
	}
	return &Registry{
		mutable: rootset.New(),
		young:   rootset.New(),
		old:     rootset.New(),
		bounds:  bounds,
		static:  staticTables,
	}
}

// slotAddr checks the caller-precondition on a slot pointer and returns it
// as a set key. A misaligned slot is a programming defect in the embedder,
// not a recoverable condition.
func slotAddr(slot *value.Value) uintptr {
	addr := uintptr(unsafe.Pointer(slot))
	if addr == 0 || addr&(unsafe.Alignof(value.Value(0))-1) != 0 {
		panic(fmt.Sprintf("gcroots: invalid root slot address %#x", addr))
	}
	return addr
}

// lock acquires mu after rejecting calls from the goroutine currently
// driving a scan: such a call comes from inside a visitor and would
// otherwise deadlock on mu.
func (r *Registry) lock() {
	if r.scanDepth.Load() > 0 && r.scannerGID.Load() == currentGoroutineID() {
		panic("gcroots: registry call from inside a scan visitor")
	}
	r.mu.Lock()
}

// scanning reports whether a scan frame is open. Callers hold mu, so a true
// result means removals must tombstone rather than unlink.
func (r *Registry) scanning() bool {
	return r.scanDepth.Load() > 0
}

// RegisterMutable registers a root of the mutable kind. Its slot is visited
// by every scan regardless of content.
func (r *Registry) RegisterMutable(slot *value.Value) {
	addr := slotAddr(slot)
	r.lock()
	defer r.mu.Unlock()
	r.mutable.Insert(addr)
}

// RemoveMutable withdraws a mutable root. Unknown slots are a no-op.
func (r *Registry) RemoveMutable(slot *value.Value) {
	addr := slotAddr(slot)
	r.lock()
	defer r.mu.Unlock()
	r.mutable.Remove(addr, r.scanning())
}

// RegisterGenerational registers a root of the generational kind. The
// slot's current value picks the destination set; an untracked value means
// no set needs the root yet (a later ModifyGenerational will add it when a
// heap pointer is stored).
func (r *Registry) RegisterGenerational(slot *value.Value) {
	addr := slotAddr(slot)
	r.lock()
	defer r.mu.Unlock()

	switch classify.Classify(*slot, r.bounds()) {
	case classify.Young:
		r.young.Insert(addr)
	case classify.Old:
		r.old.Insert(addr)
	case classify.Untracked:
	}
}

// RemoveGenerational withdraws a generational root. A root classified OLD is
// additionally stripped from the young set: the collector may have promoted
// the value before the registry's own promotion caught up, so removal is
// conservative about which set holds the entry.
func (r *Registry) RemoveGenerational(slot *value.Value) {
	addr := slotAddr(slot)
	r.lock()
	defer r.mu.Unlock()
	r.removeGenerationalLocked(addr, *slot)
}

// removeGenerationalLocked strips addr from the generational sets according
// to v's classification. Caller holds mu.
func (r *Registry) removeGenerationalLocked(addr uintptr, v value.Value) {
	deferDelete := r.scanning()
	switch classify.Classify(v, r.bounds()) {
	case classify.Old:
		r.old.Remove(addr, deferDelete)
		// The root can still sit in the young set while its value is
		// already in the major heap.
		fallthrough
	case classify.Young:
		r.young.Remove(addr, deferDelete)
	case classify.Untracked:
	}
}

// ModifyGenerational stores newVal into a generational root's slot and
// migrates the root between sets as the classification changes. This is the
// hot path: every mutating write to a generational root goes through it.
//
// The migration is deliberately asymmetric. A young root whose new value
// classifies OLD stays in the young set; the next minor scan promotes it in
// bulk. That saves a set mutation on every write into an already-young root.
func (r *Registry) ModifyGenerational(slot *value.Value, newVal value.Value) {
	addr := slotAddr(slot)
	r.lock()
	defer r.mu.Unlock()

	b := r.bounds()
	switch classify.Classify(newVal, b) {
	case classify.Young:
		oldClass := classify.Classify(*slot, b)
		if oldClass == classify.Old {
			r.old.Remove(addr, r.scanning())
		}
		if oldClass != classify.Young {
			r.young.Insert(addr)
		}

	case classify.Old:
		// A young root that now holds an old value needs nothing: the
		// next minor scan promotes it.
		if classify.Classify(*slot, b) == classify.Untracked {
			r.old.Insert(addr)
		}

	case classify.Untracked:
		r.removeGenerationalLocked(addr, *slot)
	}

	*slot = newVal
}

// RegisterDynamicModule appends module root tables to the dynamic list.
// Tables are scanned by every subsequent full scan and live until process
// exit.
func (r *Registry) RegisterDynamicModule(tables ...[]value.Value) {
	r.lock()
	defer r.mu.Unlock()
	for _, t := range tables {
		r.dynHead = &moduleLink{table: t, next: r.dynHead}
		r.dynCount++
	}
}

// Snapshot returns the current counters. It blocks while a scan is running.
func (r *Registry) Snapshot() Stats {
	r.lock()
	defer r.mu.Unlock()
	return Stats{
		MutableRoots:     r.mutable.Len(),
		YoungRoots:       r.young.Len(),
		OldRoots:         r.old.Len(),
		DynamicModules:   r.dynCount,
		Promotions:       r.promotions,
		TombstonesReaped: r.reaped,
		FullScans:        r.fullScans,
		MinorScans:       r.minorScans,
	}
}
