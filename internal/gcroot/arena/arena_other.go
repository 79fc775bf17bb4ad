//go:build !unix

package arena

import "unsafe"

// mapRegion allocates the region on the Go heap. Backing the bytes with a
// []uintptr guarantees word alignment of the base address.
func mapRegion(size int) ([]byte, func() error, error) {
	words := make([]uintptr, size/wordSize)
	mem := unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), size)
	cleanup := func() error {
		// Keep the backing array reachable until Close.
		_ = words
		return nil
	}
	return mem, cleanup, nil
}
