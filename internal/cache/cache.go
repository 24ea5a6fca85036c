// Package cache remembers which files were already clean so repeated
// runs can skip them. Entries are keyed by path and validated against
// a content hash; the whole store lives in one msgpack file under the
// user cache directory.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// schemaVersion invalidates stored entries when the on-disk format
// changes.
const schemaVersion = 1

// Entry records one clean file.
type Entry struct {
	Hash      string `msgpack:"hash"`
	CheckedAt int64  `msgpack:"checked_at"`
}

type payload struct {
	Schema  uint16           `msgpack:"schema"`
	Entries map[string]Entry `msgpack:"entries"`
}

// Cache is a concurrency-safe clean-file store. A nil *Cache is valid
// and caches nothing.
type Cache struct {
	mu      sync.Mutex
	path    string
	entries map[string]Entry
	dirty   bool
}

// DefaultPath returns the store location under the user cache
// directory.
func DefaultPath() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "tsreorg", "clean.msgpack"), nil
}

// Open loads the store at path. A missing, unreadable, or stale store
// starts empty; a formatter run is never worth failing over cache
// state.
func Open(path string) *Cache {
	c := &Cache{path: path, entries: make(map[string]Entry)}
	f, err := os.Open(path)
	if err != nil {
		return c
	}
	defer f.Close()

	var p payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil || p.Schema != schemaVersion || p.Entries == nil {
		return c
	}
	c.entries = p.Entries
	return c
}

// Hash fingerprints file content for cache validation.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Clean reports whether the file with this exact content was already
// formatted on an earlier run.
func (c *Cache) Clean(path string, content []byte) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[path]
	return ok && e.Hash == Hash(content)
}

// MarkClean records that the file with this content needs no changes.
func (c *Cache) MarkClean(path string, content []byte) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = Entry{Hash: Hash(content), CheckedAt: time.Now().Unix()}
	c.dirty = true
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Path returns where the store is persisted.
func (c *Cache) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// Save writes the store back to disk if anything changed since Open.
// The write goes through a temp file and a rename so a crash cannot
// leave a truncated store behind.
func (c *Cache) Save() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "clean-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(payload{Schema: schemaVersion, Entries: c.entries}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(f.Name(), c.path); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// Clear deletes the store at path. A store that never existed is not
// an error.
func Clear(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
