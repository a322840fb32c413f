package utils

import (
	"syscall"
	"unsafe"
)

///////////////////////////////////////////////////////////////////////////////
// Conversion Utilities — Zero-Alloc Casts
///////////////////////////////////////////////////////////////////////////////

// S2b converts a string to a []byte **without** allocation.
// ⚠️ The result aliases the string; it must never be written through.
// Used for raw stderr writes.
//
//go:nosplit
//go:inline
func S2b(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

///////////////////////////////////////////////////////////////////////////////
// Fast Loaders — Unaligned 64-Bit Reads
///////////////////////////////////////////////////////////////////////////////

// LoadBE64 performs a manual big-endian 64-bit read, avoiding dependency on binary.BigEndian.
// Used to fold the leading 8 digest bytes into a map key.
//
//go:nosplit
//go:inline
func LoadBE64(b []byte) uint64 {
	_ = b[7] // bounds check hint
	return uint64(b[0])<<56 | uint64(b[1])<<48 | uint64(b[2])<<40 |
		uint64(b[3])<<32 | uint64(b[4])<<24 | uint64(b[5])<<16 |
		uint64(b[6])<<8 | uint64(b[7])
}

///////////////////////////////////////////////////////////////////////////////
// Integer Formatters — No fmt, No Reflection
///////////////////////////////////////////////////////////////////////////////

// Utoa renders a uint64 as decimal ASCII. Single 20-byte stack buffer,
// one allocation for the returned string, nothing else.
//
//go:nosplit
//go:inline
func Utoa(u uint64) string {
	var buf [20]byte
	i := len(buf)
	for {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
		if u == 0 {
			break
		}
	}
	return string(buf[i:])
}

// Itoa is the signed wrapper around Utoa for small counters and indices.
//
//go:nosplit
//go:inline
func Itoa(n int) string {
	if n < 0 {
		return "-" + Utoa(uint64(-n))
	}
	return Utoa(uint64(n))
}

// Htoa renders a uint64 as 0x-prefixed lowercase hex, no leading-zero padding.
// Used for record addresses in diagnostic dumps.
//
//go:nosplit
//go:inline
func Htoa(u uint64) string {
	const digits = "0123456789abcdef"
	var buf [18]byte
	i := len(buf)
	for {
		i--
		buf[i] = digits[u&0xF]
		u >>= 4
		if u == 0 {
			break
		}
	}
	i -= 2
	buf[i], buf[i+1] = '0', 'x'
	return string(buf[i:])
}

///////////////////////////////////////////////////////////////////////////////
// Raw Stderr Writer — For Cold-Path Diagnostics
///////////////////////////////////////////////////////////////////////////////

// PrintWarning writes msg straight to file descriptor 2.
// Bypasses os.Stderr buffering and the fmt machinery entirely.
//
//go:nosplit
//go:inline
func PrintWarning(msg string) {
	syscall.Write(2, S2b(msg))
}
