// Package cache persists per-file diagnostic results across p4fc runs, keyed
// by the source file's content hash, so an unchanged file doesn't pay the
// full C5-C9 pipeline cost again. Grounded on internal/modules/loader.go's
// directory-keyed in-memory module cache (the same "don't redo expensive
// analysis for something already processed" shape), backed by SQLite
// (modernc.org/sqlite, a pure-Go driver) instead of an in-process map so the
// cache survives across process invocations the way a CLI tool's cache
// needs to.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"

	_ "modernc.org/sqlite"
)

// Entry is the cached outcome of analyzing one file's content.
type Entry struct {
	Clean    bool     `json:"clean"`
	Messages []string `json:"messages"`
}

// Cache wraps a SQLite-backed key/value store mapping content hash -> Entry.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	const schema = `CREATE TABLE IF NOT EXISTS diagnostics (
		hash TEXT PRIMARY KEY,
		payload TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

// Hash returns the cache key for a file's contents.
func Hash(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached Entry for hash, if present.
func (c *Cache) Lookup(hash string) (Entry, bool) {
	var payload string
	row := c.db.QueryRow(`SELECT payload FROM diagnostics WHERE hash = ?`, hash)
	if err := row.Scan(&payload); err != nil {
		return Entry{}, false
	}
	var e Entry
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		return Entry{}, false
	}
	return e, true
}

// Store upserts the Entry for hash.
func (c *Cache) Store(hash string, e Entry) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = c.db.Exec(
		`INSERT INTO diagnostics (hash, payload) VALUES (?, ?)
		 ON CONFLICT(hash) DO UPDATE SET payload = excluded.payload`,
		hash, string(payload),
	)
	return err
}
