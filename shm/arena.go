// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: arena.go — Raw memory region with bounds-checked 64-bit access
//
// Purpose:
//   - Owns one contiguous byte region and exposes absolute-addressed
//     Load64/Store64 over it, the only primitives the map engine needs.
//   - Providers: Go heap, anonymous mmap, shared file-backed mmap.
//
// Notes:
//   - Addresses are absolute (base + offset), so 0 stays free as a nil link.
//   - Every access is bounds- and alignment-checked; a bad address is a caller
//     bug and panics rather than corrupting a neighbouring segment.
//   - Single-threaded like everything above it: no locks, no atomics.
// ─────────────────────────────────────────────────────────────────────────────

package shm

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"unsafe"
)

var (
	ErrZeroSize = errors.New("shm: zero-length region")
)

// Arena is one caller-owned byte range [base, base+size).
// The backing slice pins heap allocations and carries mmap'd pages;
// Close releases mappings, never heap memory.
type Arena struct {
	base   uint64   // 8B - Absolute address of the first byte
	size   uint64   // 8B - Region length in bytes
	buf    []byte   // 24B - Backing storage (heap or mapped pages)
	file   *os.File // 8B - Non-nil for file-backed mappings
	mapped bool     // 1B - True when buf came from syscall.Mmap
}

// NewHeap allocates a zero-filled region on the Go heap.
// Intended for tests and single-process embedding.
func NewHeap(size uint64) (*Arena, error) {
	if size == 0 {
		return nil, ErrZeroSize
	}
	buf := make([]byte, size)
	return &Arena{
		base: uint64(uintptr(unsafe.Pointer(&buf[0]))),
		size: size,
		buf:  buf,
	}, nil
}

// MapAnonymous creates a private anonymous mapping of the given size.
// Pages arrive zero-filled from the kernel.
func MapAnonymous(size uint64) (*Arena, error) {
	if size == 0 {
		return nil, ErrZeroSize
	}
	buf, err := syscall.Mmap(-1, 0, int(size),
		syscall.PROT_READ|syscall.PROT_WRITE,
		syscall.MAP_ANON|syscall.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("shm: anonymous mmap failed: %w", err)
	}
	return &Arena{
		base:   uint64(uintptr(unsafe.Pointer(&buf[0]))),
		size:   size,
		buf:    buf,
		mapped: true,
	}, nil
}

// MapFile creates or opens path, grows it to size bytes, and maps it shared.
// This is the shared-memory segment path: other processes mapping the same
// file observe the same bytes. Layout interpretation is the caller's problem.
func MapFile(path string, size uint64) (*Arena, error) {
	if size == 0 {
		return nil, ErrZeroSize
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("shm: open %s failed: %w", path, err)
	}
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, fmt.Errorf("shm: truncate %s failed: %w", path, err)
	}
	buf, err := syscall.Mmap(int(f.Fd()), 0, int(size),
		syscall.PROT_READ|syscall.PROT_WRITE,
		syscall.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("shm: mmap %s failed: %w", path, err)
	}
	return &Arena{
		base:   uint64(uintptr(unsafe.Pointer(&buf[0]))),
		size:   size,
		buf:    buf,
		file:   f,
		mapped: true,
	}, nil
}

// Base returns the absolute address of the first byte.
//
//go:nosplit
//go:inline
func (a *Arena) Base() uint64 { return a.base }

// Size returns the region length in bytes.
//
//go:nosplit
//go:inline
func (a *Arena) Size() uint64 { return a.size }

// check validates one 8-byte access. Addresses are absolute.
//
//go:nosplit
//go:inline
func (a *Arena) check(addr uint64) {
	if addr < a.base || addr+8 > a.base+a.size {
		panic("shm: 64-bit access outside region")
	}
	if (addr-a.base)&7 != 0 {
		panic("shm: misaligned 64-bit access")
	}
}

// Load64 reads the 8-byte word at the absolute address addr.
//
//go:nosplit
//go:inline
//go:registerparams
func (a *Arena) Load64(addr uint64) uint64 {
	a.check(addr)
	return *(*uint64)(unsafe.Pointer(uintptr(addr)))
}

// Store64 writes the 8-byte word at the absolute address addr.
//
//go:nosplit
//go:inline
//go:registerparams
func (a *Arena) Store64(addr uint64, v uint64) {
	a.check(addr)
	*(*uint64)(unsafe.Pointer(uintptr(addr))) = v
}

// Zero wipes the whole region. File-backed arenas push zeroes to the
// underlying file through the shared mapping.
func (a *Arena) Zero() {
	clear(a.buf)
}

// Close releases any mapping and closes the backing file.
// Heap arenas only drop their reference; the GC does the rest.
// The arena must not be used after Close.
func (a *Arena) Close() error {
	var err error
	if a.mapped {
		err = syscall.Munmap(a.buf)
	}
	a.buf = nil
	if a.file != nil {
		if cerr := a.file.Close(); err == nil {
			err = cerr
		}
		a.file = nil
	}
	return err
}
