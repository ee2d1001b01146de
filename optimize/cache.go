package optimize

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/coregx/automaton"
)

// CacheKey identifies one cached result: an operation name (e.g.
// "minimize", "determinize"), the fingerprint of the input automaton, and
// a string encoding of any parameters that affect the result (§4.5.5).
type CacheKey struct {
	Operation   string
	Fingerprint uint64
	Params      string
}

// String renders the key for use as a plain map/list key elsewhere.
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%x:%s", k.Operation, k.Fingerprint, k.Params)
}

// CacheStats reports cumulative cache activity (§4.5.5).
type CacheStats struct {
	Hits   uint64
	Misses uint64
	Size   int
}

// Cache is a fixed-capacity LRU keyed by (operation, input fingerprint,
// parameters), shared by the optimization and balancing engines so a
// repeated Minimize/Balance on the same automaton with the same
// parameters skips recomputation entirely. A single mutex guards lookup
// and insert; per §5 this is held only for the map/list bookkeeping, never
// across the transform the result came from.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
	hits     uint64
	misses   uint64
}

type cacheEntry struct {
	key   string
	value any
}

// NewCache returns a Cache with the given capacity. A non-positive
// capacity falls back to automaton.DefaultConfig().ResultCacheCapacity.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = automaton.DefaultConfig().ResultCacheCapacity
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get looks up key, promoting it to most-recently-used on a hit.
func (c *Cache) Get(key CacheKey) (any, bool) {
	k := key.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[k]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).value, true
}

// Set inserts or replaces key's value, evicting the least-recently-used
// entry if this would exceed capacity.
func (c *Cache) Set(key CacheKey, value any) {
	k := key.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[k]; ok {
		el.Value.(*cacheEntry).value = value
		c.order.MoveToFront(el)
		return
	}
	el := c.order.PushFront(&cacheEntry{key: k, value: value})
	c.entries[k] = el
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}
}

// Clear empties the cache. Cumulative hit/miss counters are unaffected.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

// SetCapacity changes the cache's capacity, evicting immediately if the
// new capacity is smaller than the current size.
func (c *Cache) SetCapacity(capacity int) {
	if capacity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.capacity = capacity
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

// Stats returns a snapshot of cumulative hits/misses and current size.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Size: c.order.Len()}
}

// MinimizeCached runs Minimize through cache, keyed by the input's
// fingerprint. A cache hit skips Hopcroft refinement entirely, reflected
// in the returned automaton.Stats by CacheHits/CacheMisses.
func MinimizeCached(cache *Cache, a *automaton.Automaton, tok automaton.CancellationToken) (*automaton.Automaton, automaton.Stats, error) {
	key := CacheKey{Operation: "minimize", Fingerprint: a.Fingerprint()}
	if v, ok := cache.Get(key); ok {
		return v.(*automaton.Automaton), automaton.Stats{CacheHits: 1}, nil
	}
	result, stats, err := Minimize(a, tok)
	if err != nil {
		return nil, automaton.Stats{}, err
	}
	stats.CacheMisses = 1
	cache.Set(key, result)
	return result, stats, nil
}
