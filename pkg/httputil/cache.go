package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrExpired is returned by [Cache.Get] when an entry exists but is older
// than the cache TTL. The stale file is left in place; callers refetch and
// overwrite it with [Cache.Set].
var ErrExpired = errors.New("cache entry expired")

// Cache is a directory of JSON files keyed by the SHA-256 of the cache key.
//
// A single Cache value is not goroutine-safe, but separate processes may
// share a directory since every write replaces a whole file. A TTL of 0
// disables expiry.
type Cache struct {
	dir    string
	ttl    time.Duration
	prefix string
}

// NewCache creates a Cache rooted at dir, creating the directory if needed.
// An empty dir selects ~/.cache/popchart/http.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".cache", "popchart", "http")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// TTL returns the entry lifetime; 0 means entries never expire.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get loads the entry for key into v. It reports (true, nil) on a fresh hit,
// (false, nil) on a miss and (false, ErrExpired) for a stale entry.
func (c *Cache) Get(key string, v any) (bool, error) {
	path := c.keyPath(key)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return false, ErrExpired
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores v under key, replacing any previous entry and resetting its age.
func (c *Cache) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(c.keyPath(key), data, 0o644)
}

// Delete removes the entry for key. Deleting a missing key is not an error.
func (c *Cache) Delete(key string) error {
	err := os.Remove(c.keyPath(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Namespace returns a view of the same directory whose keys are prefixed,
// so "raw:" and "meta:" entries for one URL never collide.
func (c *Cache) Namespace(prefix string) *Cache {
	return &Cache{dir: c.dir, ttl: c.ttl, prefix: c.prefix + prefix}
}

func (c *Cache) keyPath(key string) string {
	h := sha256.Sum256([]byte(c.prefix + key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}
