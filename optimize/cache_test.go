package optimize

import (
	"testing"

	"github.com/coregx/automaton"
)

func TestCacheGetSetHitMiss(t *testing.T) {
	c := NewCache(8)
	key := CacheKey{Operation: "minimize", Fingerprint: 42}
	if _, ok := c.Get(key); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Set(key, "result")
	v, ok := c.Get(key)
	if !ok || v.(string) != "result" {
		t.Fatalf("expected hit with value %q, got %v, %v", "result", v, ok)
	}
	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Size != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(2)
	c.Set(CacheKey{Operation: "op", Fingerprint: 1}, 1)
	c.Set(CacheKey{Operation: "op", Fingerprint: 2}, 2)
	// touch key 1 so key 2 becomes the LRU victim
	c.Get(CacheKey{Operation: "op", Fingerprint: 1})
	c.Set(CacheKey{Operation: "op", Fingerprint: 3}, 3)

	if _, ok := c.Get(CacheKey{Operation: "op", Fingerprint: 2}); ok {
		t.Error("expected fingerprint 2 to have been evicted")
	}
	if _, ok := c.Get(CacheKey{Operation: "op", Fingerprint: 1}); !ok {
		t.Error("expected fingerprint 1 to still be cached")
	}
	if _, ok := c.Get(CacheKey{Operation: "op", Fingerprint: 3}); !ok {
		t.Error("expected fingerprint 3 to be cached")
	}
}

func TestCacheClear(t *testing.T) {
	c := NewCache(4)
	c.Set(CacheKey{Operation: "op", Fingerprint: 1}, 1)
	c.Clear()
	if _, ok := c.Get(CacheKey{Operation: "op", Fingerprint: 1}); ok {
		t.Error("expected cache to be empty after Clear")
	}
}

func TestMinimizeCachedReusesResult(t *testing.T) {
	cache := NewCache(4)
	a := buildExample(t)
	first, stats1, err := MinimizeCached(cache, a, automaton.Background())
	if err != nil {
		t.Fatalf("MinimizeCached: %v", err)
	}
	second, stats2, err := MinimizeCached(cache, a, automaton.Background())
	if err != nil {
		t.Fatalf("MinimizeCached: %v", err)
	}
	if first.Fingerprint() != second.Fingerprint() {
		t.Error("expected cached MinimizeCached call to return the same result")
	}
	if c := cache.Stats(); c.Hits != 1 {
		t.Errorf("expected exactly 1 cache hit, got %d", c.Hits)
	}
	if stats1.CacheMisses != 1 || stats1.CacheHits != 0 {
		t.Errorf("expected first call to report a cache miss, got %+v", stats1)
	}
	if stats2.CacheHits != 1 || stats2.CacheMisses != 0 {
		t.Errorf("expected second call to report a cache hit, got %+v", stats2)
	}
}
