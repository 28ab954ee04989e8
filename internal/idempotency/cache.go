package idempotency

import (
	"container/list"
	"sync"
	"time"
)

// Cache stores generated texts for a limited time, evicting the least
// recently used entry once full.
type Cache struct {
	mu         sync.Mutex
	items      map[string]*list.Element
	order      *list.List
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

type cacheEntry struct {
	key       string
	value     string
	expiresAt time.Time
}

// NewCache creates a cache with the given ttl and max entries.
func NewCache(ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &Cache{
		items:      make(map[string]*list.Element),
		order:      list.New(),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the cached text for key if present and not expired.
func (c *Cache) Get(key string) (string, bool) {
	if c == nil || key == "" {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return "", false
	}
	entry := elem.Value.(*cacheEntry)
	if c.now().After(entry.expiresAt) {
		c.order.Remove(elem)
		delete(c.items, key)
		return "", false
	}
	c.order.MoveToFront(elem)
	return entry.value, true
}

// Set stores text under key, refreshing its expiry.
func (c *Cache) Set(key, value string) {
	if c == nil || key == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)
	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*cacheEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		c.order.MoveToFront(elem)
		return
	}

	c.items[key] = c.order.PushFront(&cacheEntry{key: key, value: value, expiresAt: expiresAt})
	for len(c.items) > c.maxEntries {
		oldest := c.order.Back()
		if oldest == nil {
			return
		}
		delete(c.items, oldest.Value.(*cacheEntry).key)
		c.order.Remove(oldest)
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
