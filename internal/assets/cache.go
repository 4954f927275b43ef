package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Cache is a two-tier image cache: a memory map that lives for the session
// and a directory of write-once files that survives restarts. The memory
// tier is authoritative; disk writes are best effort.
type Cache struct {
	mu     sync.Mutex
	memory map[string][]byte
	dir    string
	gen    uint64
	wg     sync.WaitGroup
}

func NewCache(dir string) *Cache {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("cache: cannot create %s, disk tier disabled: %v", dir, err)
	}
	return &Cache{memory: map[string][]byte{}, dir: dir}
}

func (c *Cache) filePath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:]))
}

// Get returns the cached artifact for key. A disk hit re-populates the
// memory tier. Get never fetches anything itself.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if data, ok := c.memory[key]; ok {
		out := make([]byte, len(data))
		copy(out, data)
		return out, true
	}
	data, err := os.ReadFile(c.filePath(key))
	if err != nil || len(data) == 0 {
		return nil, false
	}
	c.memory[key] = data
	out := make([]byte, len(data))
	copy(out, data)
	return out, true
}

// Put stores the artifact in the memory tier immediately and writes it to
// disk in the background. A failed disk write is logged and dropped.
func (c *Cache) Put(key string, data []byte) {
	stored := make([]byte, len(data))
	copy(stored, data)

	c.mu.Lock()
	c.memory[key] = stored
	gen := c.gen
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen != gen {
			// cache was cleared while this write was pending
			return
		}
		if err := os.WriteFile(c.filePath(key), stored, 0o644); err != nil {
			log.Printf("cache: disk write for %s failed: %v", key, err)
		}
	}()
}

// ClearAll empties the memory tier and resets the disk directory.
func (c *Cache) ClearAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.memory = map[string][]byte{}
	c.gen++
	if err := os.RemoveAll(c.dir); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// EvictExpired deletes disk entries older than maxAge. Entries are written
// once and never rewritten, so the file mtime is the creation time. The
// memory tier is left alone. Intended to run once at startup.
func (c *Cache) EvictExpired(maxAge time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := time.Now().Add(-maxAge)
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		log.Printf("cache: expiry scan failed: %v", err)
		return
	}
	removed := 0
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(c.dir, e.Name())); err == nil {
				removed++
			}
		}
	}
	if removed > 0 {
		log.Printf("cache: evicted %d expired entries", removed)
	}
}
