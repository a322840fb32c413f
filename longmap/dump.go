// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: dump.go — Diagnostic full-dump of occupied records
//
// Purpose:
//   - Renders every occupied slot (address/key/value/next/origin) for
//     debugging and operator inspection.
//
// Notes:
//   - Not part of the correctness contract; never call on a hot path.
// ─────────────────────────────────────────────────────────────────────────────

package longmap

import (
	"strings"

	"shmmap/utils"
)

// Record is one occupied slot as seen by the dump. Next and Origin are
// absolute record addresses, 0 meaning no link.
type Record struct {
	Addr   uint64
	Key    uint64
	Value  uint64
	Next   uint64
	Origin uint64
}

// Records returns every occupied slot in address order.
func (m *Map) Records() []Record {
	var out []Record
	for addr := m.base; addr < m.limit; addr += SlotSize {
		if k := m.key(addr); k != 0 {
			out = append(out, Record{
				Addr:   addr,
				Key:    k,
				Value:  m.value(addr),
				Next:   m.next(addr),
				Origin: m.origin(addr),
			})
		}
	}
	return out
}

// String renders the occupied records one field per line. Empty slots are
// skipped entirely, so an empty map renders as the empty string.
func (m *Map) String() string {
	var b strings.Builder
	for addr := m.base; addr < m.limit; addr += SlotSize {
		k := m.key(addr)
		if k == 0 {
			continue
		}
		b.WriteString("Address = " + utils.Htoa(addr) + "\n")
		b.WriteString("Key = " + utils.Utoa(k) + "\n")
		b.WriteString("Value = " + utils.Utoa(m.value(addr)) + "\n")
		b.WriteString("Next = " + utils.Htoa(m.next(addr)) + "\n")
		b.WriteString("Origin = " + utils.Htoa(m.origin(addr)) + "\n")
	}
	return b.String()
}
