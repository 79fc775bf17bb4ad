// Package classify decides which generational root set, if any, must track a
// root given the value currently stored in its slot.
//
// Classification is a pure range test against the young generation's current
// address bounds. Bounds move between collections, so callers re-supply them
// on every call rather than caching a snapshot.
package classify

import "github.com/kolkov/gcroots/internal/gcroot/value"

// Class is the classification of a value held at a root.
type Class uint8

const (
	// Young means the value points into the young generation.
	Young Class = iota

	// Old means the value is a block pointer outside the young generation.
	// This deliberately includes pointers outside the managed heap: the
	// major scan treats unknown block pointers conservatively.
	Old

	// Untracked means the value is an immediate, so no generational set
	// needs to track the root.
	Untracked
)

// String returns the class name for diagnostics.
func (c Class) String() string {
	switch c {
	case Young:
		return "young"
	case Old:
		return "old"
	default:
		return "untracked"
	}
}

// Bounds is the half-open address range [Start, End) of the young generation.
type Bounds struct {
	Start uintptr
	End   uintptr
}

// Contains reports whether v falls inside the young range.
//
//go:nosplit
func (b Bounds) Contains(v value.Value) bool {
	return b.Start <= v.Addr() && v.Addr() < b.End
}

// BoundsFunc supplies the current young-generation bounds. The collector
// owns the generations, so the registry queries it on every classification.
type BoundsFunc func() Bounds

// Classify maps a value to its root class under the given bounds. Pure, O(1).
//
//go:nosplit
func Classify(v value.Value, b Bounds) Class {
	if !v.IsBlock() {
		return Untracked
	}
	if b.Contains(v) {
		return Young
	}
	return Old
}
