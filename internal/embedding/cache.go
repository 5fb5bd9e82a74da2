package embedding

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// CacheFileName is the embedding store kept inside the sandbox.
const CacheFileName = "embeddings.json"

// Entry is one cached embedding keyed by content hash.
type Entry struct {
	Hash   string    `json:"hash"`
	Vector []float32 `json:"vector,omitempty"`
}

// Cache maps sandbox-relative paths to content hashes and embedding
// vectors, persisted as a single JSON file in the sandbox.
type Cache struct {
	path    string
	entries map[string]Entry
	mu      sync.Mutex
}

// NewCache creates a cache persisted under root, loading any existing
// store. A corrupt or missing store starts empty.
func NewCache(root string) *Cache {
	c := &Cache{
		path:    filepath.Join(root, CacheFileName),
		entries: make(map[string]Entry),
	}
	c.load()
	return c
}

func (c *Cache) load() {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return
	}
	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil || entries == nil {
		return
	}
	c.entries = entries
}

// Hash returns the cached content hash for a path.
func (c *Cache) Hash(relPath string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[relPath]
	return entry.Hash, ok
}

// Get returns the cached entry for a path.
func (c *Cache) Get(relPath string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[relPath]
	return entry, ok
}

// Put replaces the entry for a path and persists the store.
func (c *Cache) Put(relPath string, entry Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[relPath] = entry
	return c.persist()
}

// Remove drops the entry for a path and persists the store.
func (c *Cache) Remove(relPath string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[relPath]; !ok {
		return nil
	}
	delete(c.entries, relPath)
	return c.persist()
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// persist writes the store. Callers hold the lock.
func (c *Cache) persist() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0644)
}
