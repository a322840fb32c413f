// ════════════════════════════════════════════════════════════════════════════════════════════════
// ⚡ FIXED-SLOT SHARED-MEMORY HASH MAP
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Shared-Memory Key/Value Store
// Component: Fixed-Capacity long→long Map Engine
//
// Description:
//   Fixed-capacity map from 64-bit keys to 64-bit values living entirely inside one
//   pre-allocated raw memory region. All bookkeeping (collision links, origin back-pointers)
//   is encoded in the same 32-byte records that hold the key/value pairs, so nothing grows
//   with the element count outside the region.
//
// Design Principles:
//   - One 32-byte record per slot: key / value / next / origin, 8 bytes each
//   - Key 0 is the empty sentinel; an all-zero region is an empty map
//   - Bitmask hashing under power-of-two slot counts, modulus otherwise
//   - Origin back-pointers make lookups O(chain length), not O(occupancy)
//   - No resizing, no deletion, no locks: single-threaded by contract
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package longmap

import "errors"

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// TYPE DEFINITIONS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Memory is the raw access capability the engine runs over: 8-byte loads and
// stores at absolute addresses inside a region the caller owns and outlives
// the map with. shm.Arena satisfies it.
type Memory interface {
	Load64(addr uint64) uint64
	Store64(addr uint64, v uint64)
}

const (
	slotShift = 5              // log2 of the record width
	SlotSize  = 1 << slotShift // 32-byte record: key/value/next/origin

	valueOff  = 8  // value field offset within a record
	nextOff   = 16 // collision-chain forward link
	originOff = 24 // back-pointer set on a stolen home slot
)

var (
	// ErrNoSlots is returned by New when the region cannot hold a single record.
	ErrNoSlots = errors.New("longmap: region smaller than one record")

	// ErrMapFull is returned by Put when a new record is needed and the
	// free-slot search exhausts the region. The map stays valid and usable.
	ErrMapFull = errors.New("longmap: map full")
)

// Map is the engine state. It owns no memory: base and the record count are
// fixed at construction and every access goes through the Memory capability.
//
//go:notinheap
//go:align 64
type Map struct {
	mem   Memory // 16B - Raw region access capability
	base  uint64 // 8B - Address of slot 0
	limit uint64 // 8B - One past the last record (base + slots*32)
	slots uint64 // 8B - Record count, fixed for the map lifetime
	mask  uint64 // 8B - slots-1 under power-of-two sizing, else unused
	pow2  bool   // 1B - Selects bitmask vs modulus hashing
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CONSTRUCTOR
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// New lays the map over [base, base+size). The slot count is size/32; a
// trailing partial record is never touched. The usable region is zero-filled
// so that every slot starts empty (key 0).
//
// The modulus fallback for non-power-of-two slot counts is load-bearing:
// a caller-supplied size has no reason to be a clean power-of-two multiple
// of 32, and masking would silently alias home slots.
func New(mem Memory, base, size uint64) (*Map, error) {
	slots := size >> slotShift
	if slots == 0 {
		return nil, ErrNoSlots
	}
	m := &Map{
		mem:   mem,
		base:  base,
		limit: base + slots<<slotShift,
		slots: slots,
		mask:  slots - 1,
		pow2:  slots&(slots-1) == 0,
	}
	for addr := base; addr < base+(size&^7); addr += 8 {
		mem.Store64(addr, 0)
	}
	return m, nil
}

// Slots returns the fixed record capacity of the region.
//
//go:nosplit
//go:inline
func (m *Map) Slots() uint64 { return m.slots }

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CORE OPERATIONS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Get returns the value stored under key, or 0 when the key is absent.
// Value 0 is indistinguishable from absence; that is a documented limitation
// of the record format, not a failure mode. Get never fails.
//
//go:nosplit
//go:registerparams
func (m *Map) Get(key uint64) uint64 {
	h := m.home(key)
	addr := m.slotAddr(h)
	k := m.key(addr)

	// Empty home slot reads as value 0 by the all-zero invariant.
	if k == key || k == 0 {
		return m.value(addr)
	}

	// Occupant hashing elsewhere means this home slot was claimed as free
	// space for another chain; origin points at our true chain root.
	var root uint64
	if m.home(k) != h {
		root = m.origin(addr)
	} else {
		root = m.next(addr)
	}
	if root == 0 {
		return 0
	}
	return m.chainGet(root, key)
}

// Put stores value under key and returns the previous value (0 when the key
// was absent). The only failure is ErrMapFull, raised exactly when a new
// record is needed and none is free; a failed Put writes nothing.
//
// ⚠️ Key 0 is the empty sentinel and not storable.
//
//go:nosplit
//go:registerparams
func (m *Map) Put(key, value uint64) (uint64, error) {
	if key == 0 {
		panic("longmap: key 0 is reserved as the empty-slot sentinel")
	}
	h := m.home(key)
	addr := m.slotAddr(h)
	k := m.key(addr)

	// Empty home slot, or in-place overwrite of the same key.
	if k == 0 || k == key {
		return m.writeRecord(addr, key, value), nil
	}

	if m.home(k) != h {
		origin := m.origin(addr)
		if origin == 0 {
			// First collision for this hash: claim a free slot and leave
			// the back-pointer on the thief occupying our home.
			free, err := m.findFree(addr)
			if err != nil {
				return 0, err
			}
			m.setOrigin(addr, free)
			return m.writeRecord(free, key, value), nil
		}
		addr = origin
	}
	return m.chainPut(addr, key, value)
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CHAIN TRAVERSAL
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// chainGet walks next links from a chain root until key matches or the
// chain ends.
//
//go:nosplit
func (m *Map) chainGet(addr, key uint64) uint64 {
	k := m.key(addr)
	for k != key && m.next(addr) != 0 {
		addr = m.next(addr)
		k = m.key(addr)
	}
	if k == key {
		return m.value(addr)
	}
	return 0
}

// chainPut walks next links from a chain root; overwrites on a key match,
// otherwise appends a freshly claimed record to the chain tail.
//
//go:nosplit
func (m *Map) chainPut(addr, key, value uint64) (uint64, error) {
	k := m.key(addr)
	for k != key && m.next(addr) != 0 {
		addr = m.next(addr)
		k = m.key(addr)
	}
	if k == key {
		return m.writeRecord(addr, key, value), nil
	}
	free, err := m.findFree(addr)
	if err != nil {
		return 0, err
	}
	m.setNext(addr, free)
	return m.writeRecord(free, key, value), nil
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// FREE-SLOT SEARCH
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// findFree probes outward from the colliding record with two cursors, one
// stepping down and one stepping up, both wrapping circularly. Searching both
// directions keeps new chain links near their logical origin instead of
// draining free space on one side of the region.
//
// Odd slot counts pre-advance the up cursor by one record: two cursors
// stepping in lockstep from a shared start can otherwise never land on the
// same slot, and the meet condition is what bounds the walk.
//
//go:nosplit
func (m *Map) findFree(from uint64) (uint64, error) {
	left, right := from, from

	if m.slots&1 == 1 {
		right += SlotSize
		if right == m.limit {
			right = m.base
		}
		if m.key(right) == 0 {
			return right, nil
		}
	}

	for {
		if left == m.base {
			left = m.limit - SlotSize
		} else {
			left -= SlotSize
		}
		right += SlotSize
		if right == m.limit {
			right = m.base
		}

		if m.key(left) == 0 {
			return left, nil
		}
		if m.key(right) == 0 {
			return right, nil
		}
		if left == right {
			return 0, ErrMapFull
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// RECORD ACCESS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// writeRecord stores key and value at addr and returns the previous value.
// next/origin fields are left alone: they are maintained by the placement
// logic and are all-zero on a never-written slot.
//
//go:nosplit
//go:inline
func (m *Map) writeRecord(addr, key, value uint64) uint64 {
	prev := m.value(addr)
	m.mem.Store64(addr, key)
	m.mem.Store64(addr+valueOff, value)
	return prev
}

//go:nosplit
//go:inline
func (m *Map) home(key uint64) uint64 {
	if m.pow2 {
		return key & m.mask
	}
	return key % m.slots
}

//go:nosplit
//go:inline
func (m *Map) slotAddr(h uint64) uint64 { return m.base + h<<slotShift }

//go:nosplit
//go:inline
func (m *Map) key(addr uint64) uint64 { return m.mem.Load64(addr) }

//go:nosplit
//go:inline
func (m *Map) value(addr uint64) uint64 { return m.mem.Load64(addr + valueOff) }

//go:nosplit
//go:inline
func (m *Map) next(addr uint64) uint64 { return m.mem.Load64(addr + nextOff) }

//go:nosplit
//go:inline
func (m *Map) origin(addr uint64) uint64 { return m.mem.Load64(addr + originOff) }

//go:nosplit
//go:inline
func (m *Map) setNext(addr, v uint64) { m.mem.Store64(addr+nextOff, v) }

//go:nosplit
//go:inline
func (m *Map) setOrigin(addr, v uint64) { m.mem.Store64(addr+originOff, v) }
