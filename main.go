// ════════════════════════════════════════════════════════════════════════════════════════════════
// Shared-Memory Key/Value Store - Demo Entry Point
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Shared-Memory Key/Value Store
// Component: Segment Bootstrap & Inspection
//
// Description:
//   Maps a file-backed shared-memory segment, lays a fixed-slot long→long map over it,
//   bulk-loads named values from SQLite (and optionally a JSON snapshot), then verifies
//   and dumps the resulting records.
//
// Architecture:
//   - Phase 0: Map the segment and construct the map
//   - Phase 1: Bulk load from the database / snapshot
//   - Phase 2: Verification sweep and diagnostic dump
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package main

import (
	"os"

	"shmmap/debug"
	"shmmap/loader"
	"shmmap/longmap"
	"shmmap/shm"
	"shmmap/utils"
)

// segmentSize fixes the demo segment at 1 MiB: 32768 records of 32 bytes.
const segmentSize = 1 << 20

func main() {
	if len(os.Args) < 3 {
		utils.PrintWarning("usage: shmmap <segment-file> <sqlite-db> [snapshot.json]\n")
		os.Exit(2)
	}
	segmentPath, dbPath := os.Args[1], os.Args[2]

	// PHASE 0: Map the segment and lay the map over it.
	// Construction zero-fills, so a stale segment never leaks old records.
	arena, err := shm.MapFile(segmentPath, segmentSize)
	if err != nil {
		debug.DropError("SEGMENT", err)
		os.Exit(1)
	}
	defer arena.Close()

	m, err := longmap.New(arena, arena.Base(), arena.Size())
	if err != nil {
		debug.DropError("MAP", err)
		os.Exit(1)
	}
	debug.DropMessage("SEGMENT", segmentPath+" mapped, "+utils.Utoa(m.Slots())+" slots")

	// PHASE 1: Bulk load named values.
	db, err := loader.OpenDatabase(dbPath)
	if err != nil {
		debug.DropError("DB", err)
		os.Exit(1)
	}
	loaded, err := loader.FromSQLite(db, "entries", m)
	db.Close()
	if err != nil {
		debug.DropError("LOAD", err)
		os.Exit(1)
	}
	debug.DropMessage("LOADED", utils.Itoa(loaded)+" database entries")

	if len(os.Args) > 3 {
		data, err := os.ReadFile(os.Args[3])
		if err != nil {
			debug.DropError("SNAPSHOT", err)
			os.Exit(1)
		}
		n, err := loader.FromJSON(data, m)
		if err != nil {
			debug.DropError("SNAPSHOT", err)
			os.Exit(1)
		}
		debug.DropMessage("LOADED", utils.Itoa(n)+" snapshot entries")
	}

	// PHASE 2: Verification sweep and dump.
	records := m.Records()
	debug.DropMessage("READY", utils.Itoa(len(records))+" occupied records")
	os.Stdout.WriteString(m.String())
}
