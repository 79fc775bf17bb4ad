// Package roots provides the public API of the global GC root registry.
//
// See doc.go for detailed documentation and examples.
package roots

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/kolkov/gcroots/internal/gcroot/classify"
	"github.com/kolkov/gcroots/internal/gcroot/registry"
	"github.com/kolkov/gcroots/internal/gcroot/value"
)

// Value is one machine word holding either an immediate integer (low bit 1)
// or a word-aligned block pointer. Root slots hold Values.
type Value = value.Value

// Bounds is the half-open address range [Start, End) of the young
// generation, supplied by the collector.
type Bounds = classify.Bounds

// BoundsFunc returns the collector's current young-generation bounds. The
// registry calls it on every classification: bounds move between
// collections.
type BoundsFunc = classify.BoundsFunc

// Visitor is the collector callback invoked per scanned root with the
// slot's current value and the slot itself. It may rewrite the slot in
// place. It must not call back into this package; that is a fatal defect
// and panics.
type Visitor = registry.Visitor

// Registry is an explicitly owned root registry for embedders that manage
// their own collector lifecycle instead of using the package default.
type Registry = registry.Registry

// Stats is a snapshot of registry counters.
type Stats = registry.Stats

// MakeInt encodes an immediate integer as a Value.
func MakeInt(i int) Value {
	return value.MakeInt(i)
}

// FromPointer encodes a word-aligned block pointer as a Value.
func FromPointer(p unsafe.Pointer) Value {
	return value.FromPointer(p)
}

// NewRegistry constructs an owned registry. bounds must be non-nil;
// staticTables are the compiled-in module root tables.
func NewRegistry(bounds BoundsFunc, staticTables ...[]Value) *Registry {
	return registry.New(bounds, staticTables...)
}

// The package-default registry, managed by Initialize and Shutdown. Reads
// go through the atomic pointer so the per-call overhead is one load.
var (
	initMu sync.Mutex
	def    atomic.Pointer[Registry]
)

// Initialize sets up the package-default registry, tied to collector
// startup. Subsequent calls are no-ops until Shutdown. staticTables are the
// compiled-in module root tables, scanned by every full scan.
func Initialize(bounds BoundsFunc, staticTables ...[]Value) {
	initMu.Lock()
	defer initMu.Unlock()
	if def.Load() != nil {
		return
	}
	def.Store(registry.New(bounds, staticTables...))
}

// Shutdown tears the package-default registry down, tied to collector
// teardown. Registered roots are forgotten; the caller must ensure no scans
// or registrations are in flight.
func Shutdown() {
	initMu.Lock()
	defer initMu.Unlock()
	def.Store(nil)
}

func defaultRegistry() *Registry {
	r := def.Load()
	if r == nil {
		panic("gcroots: package used before Initialize")
	}
	return r
}

// RegisterMutableRoot registers a root of the mutable kind: its slot may be
// rewritten freely without notifying the registry, and every scan visits it.
func RegisterMutableRoot(slot *Value) {
	defaultRegistry().RegisterMutable(slot)
}

// RemoveMutableRoot withdraws a mutable root. Unknown slots are a no-op.
func RemoveMutableRoot(slot *Value) {
	defaultRegistry().RemoveMutable(slot)
}

// RegisterGenerationalRoot registers a root of the generational kind. Every
// subsequent write to the slot must go through ModifyGenerationalRoot so
// the registry can keep the root in the right generation's set.
func RegisterGenerationalRoot(slot *Value) {
	defaultRegistry().RegisterGenerational(slot)
}

// RemoveGenerationalRoot withdraws a generational root.
func RemoveGenerationalRoot(slot *Value) {
	defaultRegistry().RemoveGenerational(slot)
}

// ModifyGenerationalRoot stores newVal into the slot of a registered
// generational root and reclassifies the root as needed.
func ModifyGenerationalRoot(slot *Value, newVal Value) {
	defaultRegistry().ModifyGenerational(slot, newVal)
}

// RegisterDynamicModule appends dynamically loaded module root tables,
// scanned by every subsequent full scan for the life of the process.
func RegisterDynamicModule(tables ...[]Value) {
	defaultRegistry().RegisterDynamicModule(tables...)
}

// ScanRoots performs a full scan: every mutable, young and old root, then
// every static and dynamic module root table.
func ScanRoots(visit Visitor) {
	defaultRegistry().FullScan(visit)
}

// ScanYoungRoots performs a minor scan: mutable and young roots only, then
// promotes the surviving young roots into the old set.
func ScanYoungRoots(visit Visitor) {
	defaultRegistry().MinorScan(visit)
}

// Snapshot returns the default registry's counters.
func Snapshot() Stats {
	return defaultRegistry().Snapshot()
}
