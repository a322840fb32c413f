// Package shm provides correctness tests for the raw-region arena:
// absolute-addressed 64-bit access, bounds and alignment enforcement,
// and the heap / anonymous-mmap / file-mmap providers.
package shm

import (
	"os"
	"path/filepath"
	"testing"
)

// -----------------------------------------------------------------------------
// ░░ Heap Provider ░░
// -----------------------------------------------------------------------------

func TestHeapLoadStore(t *testing.T) {
	a, err := NewHeap(256)
	if err != nil {
		t.Fatalf("NewHeap: %v", err)
	}
	if a.Size() != 256 {
		t.Fatalf("Size() = %d; want 256", a.Size())
	}
	for off := uint64(0); off < 256; off += 8 {
		if got := a.Load64(a.Base() + off); got != 0 {
			t.Fatalf("fresh heap region not zero at +%d: %#x", off, got)
		}
	}
	a.Store64(a.Base()+64, 0xCAFEBABE)
	if got := a.Load64(a.Base() + 64); got != 0xCAFEBABE {
		t.Fatalf("Load64 = %#x; want 0xCAFEBABE", got)
	}
}

func TestHeapZeroSize(t *testing.T) {
	if _, err := NewHeap(0); err != ErrZeroSize {
		t.Fatalf("NewHeap(0) err = %v; want ErrZeroSize", err)
	}
}

func TestZeroWipes(t *testing.T) {
	a, err := NewHeap(128)
	if err != nil {
		t.Fatalf("NewHeap: %v", err)
	}
	for off := uint64(0); off < 128; off += 8 {
		a.Store64(a.Base()+off, ^uint64(0))
	}
	a.Zero()
	for off := uint64(0); off < 128; off += 8 {
		if got := a.Load64(a.Base() + off); got != 0 {
			t.Fatalf("Zero left %#x at +%d", got, off)
		}
	}
}

// -----------------------------------------------------------------------------
// ░░ Bounds & Alignment Enforcement ░░
// -----------------------------------------------------------------------------

func expectPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s should panic", name)
		}
	}()
	f()
}

func TestAccessChecks(t *testing.T) {
	a, err := NewHeap(64)
	if err != nil {
		t.Fatalf("NewHeap: %v", err)
	}
	expectPanic(t, "load below base", func() { a.Load64(a.Base() - 8) })
	expectPanic(t, "load past end", func() { a.Load64(a.Base() + 64) })
	expectPanic(t, "straddling load", func() { a.Load64(a.Base() + 60) })
	expectPanic(t, "misaligned load", func() { a.Load64(a.Base() + 4) })
	expectPanic(t, "misaligned store", func() { a.Store64(a.Base()+3, 1) })

	// Last valid word is fine.
	a.Store64(a.Base()+56, 7)
	if got := a.Load64(a.Base() + 56); got != 7 {
		t.Fatalf("last word = %d; want 7", got)
	}
}

// -----------------------------------------------------------------------------
// ░░ Mapped Providers ░░
// -----------------------------------------------------------------------------

func TestMapAnonymous(t *testing.T) {
	a, err := MapAnonymous(4096)
	if err != nil {
		t.Fatalf("MapAnonymous: %v", err)
	}
	defer a.Close()

	if got := a.Load64(a.Base()); got != 0 {
		t.Fatalf("anonymous pages not zero: %#x", got)
	}
	a.Store64(a.Base()+8, 0x1122334455667788)
	if got := a.Load64(a.Base() + 8); got != 0x1122334455667788 {
		t.Fatalf("Load64 = %#x", got)
	}
}

func TestMapFileSharedBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segment.bin")

	a, err := MapFile(path, 4096)
	if err != nil {
		t.Fatalf("MapFile: %v", err)
	}
	a.Store64(a.Base(), 0xABCDEF)
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Remapping the same file sees the same bytes.
	b, err := MapFile(path, 4096)
	if err != nil {
		t.Fatalf("remap: %v", err)
	}
	defer b.Close()
	if got := b.Load64(b.Base()); got != 0xABCDEF {
		t.Fatalf("remapped word = %#x; want 0xabcdef", got)
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if fi.Size() != 4096 {
		t.Fatalf("segment file size = %d; want 4096", fi.Size())
	}
}

func TestMapFileZeroSize(t *testing.T) {
	if _, err := MapFile(filepath.Join(t.TempDir(), "z"), 0); err != ErrZeroSize {
		t.Fatalf("MapFile size 0 err = %v; want ErrZeroSize", err)
	}
}
