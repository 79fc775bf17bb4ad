// Package arena provides fixed contiguous address ranges that stand in for
// the collector's generations in tests, benchmarks and examples.
//
// Classification is a range test over real addresses, so exercising it
// honestly needs slots and blocks living at known, stable addresses. An
// Arena is such a region: a private anonymous mapping on unix, a pinned heap
// slice elsewhere, carved out by a trivial bump allocator.
package arena

import (
	"fmt"
	"unsafe"

	"github.com/kolkov/gcroots/internal/gcroot/classify"
	"github.com/kolkov/gcroots/internal/gcroot/value"
)

const wordSize = int(unsafe.Sizeof(uintptr(0)))

// Arena is one contiguous word-aligned address range.
type Arena struct {
	mem     []byte
	next    int // bump offset in bytes
	cleanup func() error
}

// New maps an arena of at least size bytes.
func New(size int) (*Arena, error) {
	if size <= 0 {
		return nil, fmt.Errorf("arena: invalid size %d", size)
	}
	// Round up to whole words so Limit stays aligned.
	size = (size + wordSize - 1) &^ (wordSize - 1)

	mem, cleanup, err := mapRegion(size)
	if err != nil {
		return nil, fmt.Errorf("arena: map %d bytes: %w", size, err)
	}
	return &Arena{mem: mem, cleanup: cleanup}, nil
}

// Base returns the first address of the region.
func (a *Arena) Base() uintptr {
	return uintptr(unsafe.Pointer(&a.mem[0]))
}

// Limit returns the address one past the region.
func (a *Arena) Limit() uintptr {
	return a.Base() + uintptr(len(a.mem))
}

// Bounds returns the region as a half-open young-generation range.
func (a *Arena) Bounds() classify.Bounds {
	return classify.Bounds{Start: a.Base(), End: a.Limit()}
}

// Alloc bumps off words machine words and returns the first as a slot
// pointer. It returns nil when the arena is exhausted.
func (a *Arena) Alloc(words int) *value.Value {
	n := words * wordSize
	if words <= 0 || a.next+n > len(a.mem) {
		return nil
	}
	p := (*value.Value)(unsafe.Pointer(&a.mem[a.next]))
	a.next += n
	return p
}

// Block allocates words machine words and returns them as a block value
// pointing into the arena.
func (a *Arena) Block(words int) value.Value {
	p := a.Alloc(words)
	if p == nil {
		return 0
	}
	return value.FromPointer(unsafe.Pointer(p))
}

// Close releases the region. The arena must not be used afterwards.
func (a *Arena) Close() error {
	if a.cleanup == nil {
		return nil
	}
	err := a.cleanup()
	a.cleanup = nil
	a.mem = nil
	return err
}
