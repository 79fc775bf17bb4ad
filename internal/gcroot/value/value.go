// Package value implements the tagged machine-word representation of managed
// values held in root slots.
//
// A Value packs either an immediate integer or a block pointer into one
// machine word:
//   - Immediates carry a 1 in the low bit: i is stored as i<<1 | 1.
//   - Block pointers are word-aligned addresses, so their low bit is 0.
//
// The zero Value is reserved: it is neither a valid immediate nor a valid
// block, and module root tables treat zero slots as unset holes.
//
// This encoding is what lets the root classifier decide, in O(1) and without
// touching the heap, whether a slot can possibly hold a heap reference.
package value

import "unsafe"

// Value is one machine word holding either an immediate integer (low bit 1)
// or a block pointer (low bit 0, word-aligned).
type Value uintptr

// MakeInt encodes an immediate integer. The top bit of i is lost to the tag.
//
//go:nosplit
func MakeInt(i int) Value {
	return Value(uintptr(i)<<1 | 1)
}

// FromPointer encodes a block pointer. p must be word-aligned; misaligned
// pointers would be indistinguishable from immediates.
//
//go:nosplit
func FromPointer(p unsafe.Pointer) Value {
	return Value(uintptr(p))
}

// IsBlock reports whether v is a block pointer rather than an immediate.
// The zero Value reports false.
//
//go:nosplit
func (v Value) IsBlock() bool {
	return v&1 == 0 && v != 0
}

// Int decodes an immediate. The shift is arithmetic so negative integers
// round-trip. Result is unspecified if v is a block.
//
//go:nosplit
func (v Value) Int() int {
	return int(v) >> 1
}

// Addr returns the raw word, used as an address when v is a block.
//
//go:nosplit
func (v Value) Addr() uintptr {
	return uintptr(v)
}
