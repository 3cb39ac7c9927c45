package cache

import (
	"testing"
	"time"
)

type userMonths struct {
	user   int64
	months int
}

func TestLRU_GetSet(t *testing.T) {
	c := NewLRU[userMonths, string](2, time.Minute)
	gen := c.Generation()
	if !c.Set(gen, userMonths{1, 6}, "six") {
		t.Fatal("expected set in current generation to succeed")
	}
	if v, ok := c.Get(userMonths{1, 6}); !ok || v != "six" {
		t.Fatalf("expected hit, got %q %v", v, ok)
	}
	if _, ok := c.Get(userMonths{1, 12}); ok {
		t.Fatal("expected miss for a different window")
	}
	c.Set(gen, userMonths{1, 6}, "again")
	if v, _ := c.Get(userMonths{1, 6}); v != "again" {
		t.Fatalf("expected overwrite, got %q", v)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", c.Len())
	}
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[int64, int](2, time.Minute)
	c.Set(0, 1, 1)
	c.Set(0, 2, 2)
	c.Get(1) // 2 is now the oldest
	c.Set(0, 3, 3)

	if _, ok := c.Get(2); ok {
		t.Fatal("expected 2 to be evicted")
	}
	if _, ok := c.Get(1); !ok {
		t.Fatal("expected 1 to survive")
	}
}

func TestLRU_TTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRU[string, int](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set(0, "a", 1)
	c.Set(0, "b", 2)
	now = now.Add(2 * time.Minute)
	c.Set(0, "c", 3)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected a to expire")
	}
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("expected 1 expired entry (b), got %d", n)
	}
	if c.Len() != 1 {
		t.Fatalf("expected only c left, got %d", c.Len())
	}
}

func TestLRU_InvalidateRefusesStaleValues(t *testing.T) {
	c := NewLRU[userMonths, string](10, time.Minute)
	key := userMonths{7, 12}

	before := c.Generation()
	c.Set(before, key, "old")
	c.Invalidate()

	if c.Len() != 0 {
		t.Fatalf("expected empty cache after invalidate, got %d", c.Len())
	}
	// A computation that started before the write finishes afterwards.
	if c.Set(before, key, "stale") {
		t.Fatal("expected value from previous generation to be refused")
	}
	if _, ok := c.Get(key); ok {
		t.Fatal("stale value was cached")
	}

	if !c.Set(c.Generation(), key, "fresh") {
		t.Fatal("expected set in new generation to succeed")
	}
	if v, ok := c.Get(key); !ok || v != "fresh" {
		t.Fatalf("expected fresh value, got %q %v", v, ok)
	}
}

func TestLRU_Delete(t *testing.T) {
	c := NewLRU[int64, int](100, time.Minute)
	for i := int64(0); i < 10; i++ {
		c.Set(0, i, int(i))
	}
	c.Delete(3)
	if _, ok := c.Get(3); ok {
		t.Fatal("expected 3 to be deleted")
	}
	if c.Len() != 9 {
		t.Fatalf("expected 9 entries, got %d", c.Len())
	}
}

func TestManager_CleanNow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRU[string, int](10, time.Second)
	c.now = func() time.Time { return now }
	c.Set(0, "a", 1)
	now = now.Add(time.Hour)

	m := NewManager(nil)
	m.Register(c)
	if n := m.CleanNow(); n != 1 {
		t.Fatalf("expected 1 cleaned, got %d", n)
	}
	m.StartCleanup(time.Hour)
	m.Stop()
}
