package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/Thucosta0/financepro-sub000/internal/utils"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL      = 5 * time.Minute
	DefaultCapacity = 100
)

type entry struct {
	value     any
	writtenAt time.Time
	ttl       time.Duration
	hits      int
}

func (e *entry) expired(now time.Time) bool {
	return now.Sub(e.writtenAt) > e.ttl
}

type Stats struct {
	Hits    int     `json:"hits"`
	Misses  int     `json:"misses"`
	HitRate float64 `json:"hitRate"`
	Size    int     `json:"size"`
}

// Cache is a process-local key/value store with per-entry TTL and
// hit-count based eviction. It holds no data across restarts.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*entry
	capacity   int
	defaultTTL time.Duration
	clock      utils.Clock
	hits       int
	misses     int
}

type Option func(*Cache)

func WithCapacity(capacity int) Option {
	return func(c *Cache) {
		if capacity > 0 {
			c.capacity = capacity
		}
	}
}

func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

func WithClock(clock utils.Clock) Option {
	return func(c *Cache) {
		c.clock = clock
	}
}

func New(opts ...Option) *Cache {
	c := &Cache{
		entries:    make(map[string]*entry),
		capacity:   DefaultCapacity,
		defaultTTL: DefaultTTL,
		clock:      utils.SystemClock{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set stores value under key. A ttl <= 0 uses the default TTL. Inserting a new
// key into a full cache first evicts the least-hit quarter of the entries.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictLocked()
	}
	c.entries[key] = &entry{
		value:     value,
		writtenAt: c.clock.Now(),
		ttl:       ttl,
	}
}

// Get returns the value stored under key when it has not expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if ok && !e.expired(c.clock.Now()) {
		e.hits++
		c.hits++
		return e.value, true
	}
	if ok {
		delete(c.entries, key)
	}
	c.misses++
	return nil, false
}

// Has reports whether key holds a live entry. Statistics are not touched.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	if e.expired(c.clock.Now()) {
		delete(c.entries, key)
		return false
	}
	return true
}

// Clear removes the given keys, or every entry when called without keys.
func (c *Cache) Clear(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(keys) == 0 {
		c.entries = make(map[string]*entry)
		return
	}
	for _, key := range keys {
		delete(c.entries, key)
	}
}

// Sweep drops every expired entry and returns how many were removed.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	removed := 0
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		log.Debugf("cache sweep removed %d expired entries", removed)
	}
	return removed
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{Hits: c.hits, Misses: c.misses, Size: len(c.entries)}
	if total := c.hits + c.misses; total > 0 {
		stats.HitRate = float64(c.hits) / float64(total)
	}
	return stats
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictLocked removes capacity/4 entries with the lowest hit counters,
// oldest writes first among equal counters.
func (c *Cache) evictLocked() {
	type candidate struct {
		key string
		e   *entry
	}
	candidates := make([]candidate, 0, len(c.entries))
	for key, e := range c.entries {
		candidates = append(candidates, candidate{key, e})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].e.hits != candidates[j].e.hits {
			return candidates[i].e.hits < candidates[j].e.hits
		}
		if !candidates[i].e.writtenAt.Equal(candidates[j].e.writtenAt) {
			return candidates[i].e.writtenAt.Before(candidates[j].e.writtenAt)
		}
		return candidates[i].key < candidates[j].key
	})

	toEvict := c.capacity / 4
	if toEvict < 1 {
		toEvict = 1
	}
	if toEvict > len(candidates) {
		toEvict = len(candidates)
	}
	for _, cand := range candidates[:toEvict] {
		delete(c.entries, cand.key)
	}
	log.Debugf("cache full (%d entries), evicted %d least used", c.capacity, toEvict)
}
