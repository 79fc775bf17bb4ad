//go:build unix

package arena

import "golang.org/x/sys/unix"

// mapRegion reserves size bytes as a private anonymous mapping. Mapped pages
// are page-aligned, which more than satisfies the word alignment the value
// encoding needs.
func mapRegion(size int) ([]byte, func() error, error) {
	mem, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() error {
		return unix.Munmap(mem)
	}
	return mem, cleanup, nil
}
