// Package cache implements an in-memory raster cache for rendered pages.
// Re-rendering a page through the engine is the slowest operation in the
// viewer; the cache keeps recent rasters keyed by page, scale and color
// mode so scrolling back and forth stays cheap.
package cache

import (
	"container/list"
	"fmt"
	"image"
	"sync"
)

// Key identifies one cached raster.
type Key struct {
	Page  int
	Scale float64
	Mode  string
}

func (k Key) String() string {
	return fmt.Sprintf("%d@%g/%s", k.Page, k.Scale, k.Mode)
}

// Stats tracks cache performance counters.
type Stats struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	TotalBytes int64
	EntryCount int
}

// Config holds cache configuration.
type Config struct {
	// MaxBytes bounds the summed raster size (default 256 MB).
	MaxBytes int64
	// MaxEntries bounds the entry count (default 64).
	MaxEntries int
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		MaxBytes:   256 << 20,
		MaxEntries: 64,
	}
}

type entry struct {
	key  Key
	img  image.Image
	size int64
}

// Cache is a size-bounded LRU raster cache. Safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	maxBytes   int64
	maxEntries int
	totalBytes int64
	order      *list.List // front = most recently used
	entries    map[Key]*list.Element
	stats      Stats
}

// New creates a cache. Zero config fields fall back to the defaults.
func New(config Config) *Cache {
	d := DefaultConfig()
	if config.MaxBytes <= 0 {
		config.MaxBytes = d.MaxBytes
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = d.MaxEntries
	}
	return &Cache{
		maxBytes:   config.MaxBytes,
		maxEntries: config.MaxEntries,
		order:      list.New(),
		entries:    make(map[Key]*list.Element),
	}
}

// rasterSize estimates the memory footprint of an image.
func rasterSize(img image.Image) int64 {
	b := img.Bounds()
	return int64(b.Dx()) * int64(b.Dy()) * 4
}

// Get retrieves a cached raster.
func (c *Cache) Get(key Key) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	c.order.MoveToFront(el)
	c.stats.Hits++
	return el.Value.(*entry).img, true
}

// Put stores a raster, evicting least recently used entries as needed.
func (c *Cache) Put(key Key, img image.Image) {
	size := rasterSize(img)

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry)
		c.totalBytes += size - e.size
		e.img = img
		e.size = size
		c.order.MoveToFront(el)
		c.evictLocked()
		return
	}

	el := c.order.PushFront(&entry{key: key, img: img, size: size})
	c.entries[key] = el
	c.totalBytes += size
	c.evictLocked()
}

func (c *Cache) evictLocked() {
	for (c.totalBytes > c.maxBytes || c.order.Len() > c.maxEntries) && c.order.Len() > 1 {
		el := c.order.Back()
		if el == nil {
			return
		}
		e := el.Value.(*entry)
		c.order.Remove(el)
		delete(c.entries, e.key)
		c.totalBytes -= e.size
		c.stats.Evictions++
	}
}

// Invalidate drops every entry, for example after a document reload.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.entries = make(map[Key]*list.Element)
	c.totalBytes = 0
}

// InvalidatePage drops all rasters of one page.
func (c *Cache) InvalidatePage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, el := range c.entries {
		if key.Page != page {
			continue
		}
		e := el.Value.(*entry)
		c.order.Remove(el)
		delete(c.entries, key)
		c.totalBytes -= e.size
	}
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.TotalBytes = c.totalBytes
	s.EntryCount = c.order.Len()
	return s
}
