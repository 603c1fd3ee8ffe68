// Package cache persists recent scan results keyed by content hash so
// repeated scans of unchanged source skip the analyzer entirely.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/quellsec/quell/internal/types"
)

// DefaultTTL bounds how long a cached result stays valid.
const DefaultTTL = 120 * time.Second

// Entry is one cached scan result.
type Entry struct {
	Findings   []types.Finding `json:"findings"`
	Suppressed int             `json:"suppressed"`
	CreatedAt  int64           `json:"created_at"` // unix seconds
}

type DB struct {
	// Content hash -> cached result
	Entries map[string]Entry `json:"entries"`
}

// Key derives the cache key for one source unit from its display name and
// full content.
func Key(file, code string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(file+"|"+code))
}

func defaultPath(root string) string {
	// Prefer storing cache under .git to avoid accidental commits
	// Fall back to repo root if .git does not exist
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, "quell_scan_cache.json")
	}
	return filepath.Join(root, ".quell_scan_cache.json")
}

func Load(root string) (DB, error) {
	var db DB
	p := defaultPath(root)
	f, err := os.ReadFile(p)
	if err != nil {
		return DB{Entries: map[string]Entry{}}, err
	}
	if err := json.Unmarshal(f, &db); err != nil {
		return DB{Entries: map[string]Entry{}}, err
	}
	if db.Entries == nil {
		db.Entries = map[string]Entry{}
	}
	return db, nil
}

func Save(root string, db DB) error {
	if db.Entries == nil {
		return errors.New("empty cache")
	}
	p := defaultPath(root)
	b, _ := json.MarshalIndent(db, "", "  ")
	return os.WriteFile(p, b, 0644)
}

// Get returns the entry for key if present and younger than ttl.
func (db DB) Get(key string, ttl time.Duration) (Entry, bool) {
	e, ok := db.Entries[key]
	if !ok {
		return Entry{}, false
	}
	if time.Since(time.Unix(e.CreatedAt, 0)) > ttl {
		return Entry{}, false
	}
	return e, true
}

// Put stores an entry under key, stamping it with the current time.
func (db *DB) Put(key string, e Entry) {
	if db.Entries == nil {
		db.Entries = map[string]Entry{}
	}
	e.CreatedAt = time.Now().Unix()
	db.Entries[key] = e
}

// Prune drops entries older than ttl and reports how many were removed.
func (db *DB) Prune(ttl time.Duration) int {
	removed := 0
	for k, e := range db.Entries {
		if time.Since(time.Unix(e.CreatedAt, 0)) > ttl {
			delete(db.Entries, k)
			removed++
		}
	}
	return removed
}
