//go:build linux

package memory

import "golang.org/x/sys/unix"

// newBuffer backs a Region with an anonymous mmap allocation, the same way
// the teacher's mmapQueues allocates I/O buffers in userspace memory rather
// than from the Go heap — here because the spec models two fixed
// contiguous block arrays, and a dedicated mapping makes that literal
// rather than relying on a slice the Go GC could otherwise move semantics
// around (it never moves slice backing arrays, but mmap keeps the region's
// "separate address space" framing honest).
func newBuffer(size uint32) ([]byte, func() error, error) {
	buf, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, nil, err
	}
	unmap := func() error {
		return unix.Munmap(buf)
	}
	return buf, unmap, nil
}
