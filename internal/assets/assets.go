// Package assets reads model and material files through an in-memory cache.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Manager serves file contents, re-reading a file only when its size or
// modification time has changed since it was cached. It is safe for
// concurrent use, so background loads may share one manager.
type Manager struct {
	cache *Cache
	stat  func(string) (os.FileInfo, error)
	read  func(string) ([]byte, error)
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
		stat:  os.Stat,
		read:  os.ReadFile,
	}
}

// Load returns the contents of the file at path.
func (m *Manager) Load(path string) ([]byte, error) {
	key := filepath.Clean(path)

	info, err := m.stat(key)
	if err != nil {
		m.cache.Delete(key)
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	if e, ok := m.cache.Get(key); ok && e.Size == info.Size() && e.ModTime.Equal(info.ModTime()) {
		m.cache.hit()
		return e.Data, nil
	}
	m.cache.miss()

	data, err := m.read(key)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	m.cache.Set(key, Entry{Data: data, Size: info.Size(), ModTime: info.ModTime()})
	return data, nil
}

// Invalidate drops path from the cache.
func (m *Manager) Invalidate(path string) {
	m.cache.Delete(filepath.Clean(path))
}

// Stats returns cache statistics.
func (m *Manager) Stats() Stats {
	return m.cache.Stats()
}

// Close releases cached data.
func (m *Manager) Close() {
	m.cache.Clear()
}

// Entry is one cached file.
type Entry struct {
	Data    []byte
	Size    int64
	ModTime time.Time
}

// Stats counts cache lookups.
type Stats struct {
	Entries int
	Bytes   int64
	Hits    int
	Misses  int
}

// Cache is a simple in-memory cache for loaded files.
type Cache struct {
	data map[string]Entry
	mu   sync.Mutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]Entry),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.data[key]
	return e, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = e
}

// Delete removes an item from cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]Entry)
	c.hits = 0
	c.misses = 0
}

func (c *Cache) hit() {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
}

func (c *Cache) miss() {
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
}

// Stats returns cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{Entries: len(c.data), Hits: c.hits, Misses: c.misses}
	for _, e := range c.data {
		s.Bytes += int64(len(e.Data))
	}
	return s
}
