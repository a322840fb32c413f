// ════════════════════════════════════════════════════════════════════════════════════════════════
// Segment Bulk Loader
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Shared-Memory Key/Value Store
// Component: Startup Population of a Fixed-Slot Map
//
// Description:
//   Host-process startup path: reads named 64-bit values from a SQLite table or a JSON
//   snapshot and inserts them into a fixed-slot map. Names are reduced to 64-bit keys with
//   SHA3-256, so lookups elsewhere only need the digest, never the name.
//
// Notes:
//   - A capacity-exhausted map aborts the load; entries already inserted stay valid.
//   - Key 0 is the map's empty-slot sentinel; a name digesting to 0 is rejected.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package loader

import (
	"database/sql"
	"errors"
	"fmt"

	"shmmap/utils"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sugawarayuuta/sonnet"
	"golang.org/x/crypto/sha3"
)

// Map is the insertion capability the loader needs. longmap.Map satisfies it.
type Map interface {
	Put(key, value uint64) (uint64, error)
}

// Entry is one named value in a JSON snapshot: [{"name":"...","value":123}, ...].
type Entry struct {
	Name  string `json:"name"`
	Value uint64 `json:"value"`
}

// ErrZeroKey is returned when a name digests to the reserved empty-slot key.
// Astronomically unlikely with SHA3-256 truncation, but the sentinel must hold.
var ErrZeroKey = errors.New("loader: name digests to the reserved zero key")

// KeyFor reduces a name to its 64-bit map key: the first 8 bytes of
// SHA3-256(name), big-endian.
func KeyFor(name string) (uint64, error) {
	digest := sha3.Sum256([]byte(name))
	key := utils.LoadBE64(digest[:8])
	if key == 0 {
		return 0, ErrZeroKey
	}
	return key, nil
}

// OpenDatabase opens the SQLite database holding the values to load.
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("loader: open database %s: %w", path, err)
	}
	return db, nil
}

// FromSQLite loads every (name, value) row of table into m and returns the
// number of entries inserted. Deterministic ordering keeps reruns reproducible.
func FromSQLite(db *sql.DB, table string, m Map) (int, error) {
	rows, err := db.Query("SELECT name, value FROM " + table + " ORDER BY name")
	if err != nil {
		return 0, fmt.Errorf("loader: query %s: %w", table, err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var name string
		var value int64
		if err := rows.Scan(&name, &value); err != nil {
			return n, fmt.Errorf("loader: scan %s row: %w", table, err)
		}
		if err := insert(m, name, uint64(value)); err != nil {
			return n, err
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return n, fmt.Errorf("loader: iterate %s: %w", table, err)
	}
	return n, nil
}

// FromJSON loads a snapshot produced elsewhere (deploy tooling, a previous
// dump) into m and returns the number of entries inserted.
func FromJSON(data []byte, m Map) (int, error) {
	var entries []Entry
	if err := sonnet.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("loader: decode snapshot: %w", err)
	}
	for i, e := range entries {
		if err := insert(m, e.Name, e.Value); err != nil {
			return i, err
		}
	}
	return len(entries), nil
}

func insert(m Map, name string, value uint64) error {
	key, err := KeyFor(name)
	if err != nil {
		return err
	}
	if _, err := m.Put(key, value); err != nil {
		return fmt.Errorf("loader: insert %q: %w", name, err)
	}
	return nil
}
