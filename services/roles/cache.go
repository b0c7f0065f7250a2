package roles

import (
	"container/list"
	"sync"
	"time"

	"github.com/pulseplan/backend/models"
)

// cacheEntry represents a single cache entry with TTL
type cacheEntry struct {
	subjectID  string
	role       models.UserRole
	insertedAt time.Time
	element    *list.Element // For LRU tracking
}

// isExpired checks if the cache entry has expired
func (e *cacheEntry) isExpired(ttl time.Duration) bool {
	return time.Since(e.insertedAt) > ttl
}

// RoleCache is an in-memory LRU cache with TTL for store-confirmed roles,
// keyed by subject id. Thread-safe implementation using sync.Mutex.
//
// Only roles the profile store actually returned go in here; advisory hints
// from session tokens never do.
type RoleCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	lruList *list.List // Doubly linked list for LRU tracking
	maxSize int
	ttl     time.Duration
	hits    uint64
	misses  uint64
}

// NewRoleCache creates a new RoleCache with specified max size and TTL
func NewRoleCache(maxSize int, ttl time.Duration) *RoleCache {
	return &RoleCache{
		entries: make(map[string]*cacheEntry),
		lruList: list.New(),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// Get retrieves a cached role. The second return is false on miss or expiry.
func (c *RoleCache) Get(subjectID string) (models.UserRole, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[subjectID]
	if !exists || entry.isExpired(c.ttl) {
		c.misses++
		if exists {
			c.removeEntry(subjectID)
		}
		return "", false
	}

	// Move to front (most recently used)
	c.lruList.MoveToFront(entry.element)
	c.hits++

	return entry.role, true
}

// Set stores a store-confirmed role
func (c *RoleCache) Set(subjectID string, role models.UserRole) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.entries[subjectID]; exists {
		entry.role = role
		entry.insertedAt = time.Now()
		c.lruList.MoveToFront(entry.element)
		return
	}

	// Evict least recently used entry if cache is full
	if c.lruList.Len() >= c.maxSize {
		c.evictLRU()
	}

	entry := &cacheEntry{
		subjectID:  subjectID,
		role:       role,
		insertedAt: time.Now(),
	}

	entry.element = c.lruList.PushFront(subjectID)
	c.entries[subjectID] = entry
}

// Invalidate removes a specific cache entry
func (c *RoleCache) Invalidate(subjectID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.removeEntry(subjectID)
}

// Clear removes all entries from the cache
func (c *RoleCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.lruList.Init()
}

// CacheStats represents cache statistics
type CacheStats struct {
	Size    int
	MaxSize int
	Hits    uint64
	Misses  uint64
	HitRate float64
}

// Stats returns cache statistics
func (c *RoleCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Size:    c.lruList.Len(),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: c.calculateHitRate(),
	}
}

// calculateHitRate calculates the cache hit rate (must be called with lock held)
func (c *RoleCache) calculateHitRate() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}

// removeEntry removes an entry from the cache (must be called with lock held)
func (c *RoleCache) removeEntry(subjectID string) {
	if entry, exists := c.entries[subjectID]; exists {
		c.lruList.Remove(entry.element)
		delete(c.entries, subjectID)
	}
}

// evictLRU evicts the least recently used entry (must be called with lock held)
func (c *RoleCache) evictLRU() {
	backElement := c.lruList.Back()
	if backElement != nil {
		subjectID := backElement.Value.(string)
		c.lruList.Remove(backElement)
		delete(c.entries, subjectID)
	}
}

// CleanupExpired removes all expired entries and returns how many were dropped
func (c *RoleCache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	expired := make([]string, 0)
	for subjectID, entry := range c.entries {
		if entry.isExpired(c.ttl) {
			expired = append(expired, subjectID)
		}
	}

	for _, subjectID := range expired {
		c.removeEntry(subjectID)
	}

	return len(expired)
}

// StartCleanupWorker starts a background worker to periodically clean up expired entries
func (c *RoleCache) StartCleanupWorker(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.CleanupExpired()
		case <-stopCh:
			return
		}
	}
}
