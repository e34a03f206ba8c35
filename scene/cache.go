package scene

import (
	"container/list"
	"image"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Default cache configuration constants.
const (
	// DefaultCacheSizeMB is the default decoded image budget in megabytes.
	DefaultCacheSizeMB = 64
	bytesPerMB         = 1024 * 1024
)

// ImageCache is an LRU cache of decoded images keyed by file path, so
// scenes that repeat an image decode it once. An entry is stale once the
// file's modification time changes.
type ImageCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	lru     *list.List // front = most recent
	size    int64
	maxSize int64

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type cacheEntry struct {
	path    string
	img     *image.RGBA
	modTime time.Time
	size    int64
	element *list.Element
}

// CacheStats contains cache statistics for monitoring.
type CacheStats struct {
	Size      int64
	MaxSize   int64
	Entries   int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// NewImageCache creates a cache holding up to maxSizeMB megabytes of
// pixels. Non-positive sizes select DefaultCacheSizeMB.
func NewImageCache(maxSizeMB int) *ImageCache {
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultCacheSizeMB
	}
	return &ImageCache{
		entries: make(map[string]*cacheEntry),
		lru:     list.New(),
		maxSize: int64(maxSizeMB) * bytesPerMB,
	}
}

// Load returns the decoded image at path, decoding it on a miss.
func (c *ImageCache) Load(path string) (*image.RGBA, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if e, ok := c.entries[path]; ok && e.modTime.Equal(fi.ModTime()) {
		c.lru.MoveToFront(e.element)
		img := e.img
		c.mu.Unlock()
		c.hits.Add(1)
		return img, nil
	}
	c.mu.Unlock()
	c.misses.Add(1)

	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	c.put(path, img, fi.ModTime())
	return img, nil
}

func (c *ImageCache) put(path string, img *image.RGBA, modTime time.Time) {
	size := int64(len(img.Pix))
	if size > c.maxSize {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[path]; ok {
		c.size -= old.size
		c.lru.Remove(old.element)
		delete(c.entries, path)
	}
	c.evictUntilSize(c.maxSize - size)

	e := &cacheEntry{path: path, img: img, modTime: modTime, size: size}
	e.element = c.lru.PushFront(e)
	c.entries[path] = e
	c.size += size
}

// evictUntilSize evicts LRU entries until size is at or below target.
// Must be called with c.mu held.
func (c *ImageCache) evictUntilSize(target int64) {
	for c.size > target && c.lru.Len() > 0 {
		e := c.lru.Remove(c.lru.Back()).(*cacheEntry)
		c.size -= e.size
		delete(c.entries, e.path)
		c.evictions.Add(1)
	}
}

// Stats returns current cache statistics.
func (c *ImageCache) Stats() CacheStats {
	c.mu.Lock()
	s := CacheStats{Size: c.size, MaxSize: c.maxSize, Entries: len(c.entries)}
	c.mu.Unlock()

	s.Hits = c.hits.Load()
	s.Misses = c.misses.Load()
	s.Evictions = c.evictions.Load()
	return s
}
