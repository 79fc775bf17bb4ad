// Package roots implements the registry of program roots living outside the
// managed heap: slots owned by embedding code (compiled module globals,
// runtime-internal state) whose contents the garbage collector must treat as
// live references.
//
// # Quick Start
//
// The collector initializes the registry with a function describing the
// current young-generation address range, embedders register their slots,
// and each collection drives one of the two scans:
//
//	roots.Initialize(youngBounds)
//	defer roots.Shutdown()
//
//	var cell roots.Value
//	roots.RegisterGenerationalRoot(&cell)
//	roots.ModifyGenerationalRoot(&cell, newVal) // every write goes through Modify
//
//	roots.ScanRoots(func(v roots.Value, slot *roots.Value) {
//		// mark v live; a moving collector may rewrite *slot
//	})
//
// # Root Kinds
//
// Mutable roots ([RegisterMutableRoot]) promise nothing about their
// contents, so every scan visits them. Generational roots
// ([RegisterGenerationalRoot]) trade a discipline for cheaper minor
// collections: every write to the slot goes through
// [ModifyGenerationalRoot], which keeps the root filed under the youngest
// generation its value can point into. A minor scan then only needs the
// mutable and young sets.
//
// Module root tables (static tables passed to [Initialize], dynamic ones
// added by [RegisterDynamicModule]) are scanned by full scans only, and
// registered tables are never unloaded.
//
// # Concurrency
//
// Registration, removal and modification may be called from any goroutine;
// one registry-wide mutex serializes them against scans. All waiting is on
// that mutex. A root removed while a scan is traversing its set is
// tombstoned in place and reaped by that scan or a later one, so the
// backing structures are never corrupted mid-traversal.
//
// Scan visitors run with the registry held and must not call back into the
// package. Such reentrancy is a programming defect and panics immediately
// rather than deadlocking.
//
// # Errors
//
// The API has no error returns: every operation is total over well-formed
// input, and misuse (a misaligned slot address, a visitor calling back in)
// is treated as fatal.
package roots
