package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRU bounds entries by count and age. Values are stored against the
// generation that was current when the caller started computing them;
// Invalidate opens a new generation, so a value computed from data that
// changed mid-flight is refused instead of cached.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	gen      uint64
	entries  map[K]*list.Element
	recency  *list.List // front is most recently used
	now      func() time.Time
}

var _ Cache[string, int] = (*LRU[string, int])(nil)

type entry[K comparable, V any] struct {
	key     K
	value   V
	expires time.Time
}

// NewLRU returns an empty cache holding at most capacity entries for ttl each.
func NewLRU[K comparable, V any](capacity int, ttl time.Duration) *LRU[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &LRU[K, V]{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[K]*list.Element),
		recency:  list.New(),
		now:      time.Now,
	}
}

// Generation identifies the current state of the underlying data.
func (c *LRU[K, V]) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[K, V])
	if c.now().After(e.expires) {
		c.remove(el)
		return zero, false
	}
	c.recency.MoveToFront(el)
	return e.value, true
}

// Set stores value under key when gen is still current and reports whether
// it did.
func (c *LRU[K, V]) Set(gen uint64, key K, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return false
	}
	e := &entry[K, V]{key: key, value: value, expires: c.now().Add(c.ttl)}
	if el, ok := c.entries[key]; ok {
		el.Value = e
		c.recency.MoveToFront(el)
		return true
	}
	c.entries[key] = c.recency.PushFront(e)
	if c.recency.Len() > c.capacity {
		c.remove(c.recency.Back())
	}
	return true
}

func (c *LRU[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.remove(el)
	}
}

// Invalidate drops every entry and opens a new generation.
func (c *LRU[K, V]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	clear(c.entries)
	c.recency.Init()
}

// CleanExpired removes entries past their TTL and returns how many went.
func (c *LRU[K, V]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for el := c.recency.Back(); el != nil; {
		prev := el.Prev()
		if now.After(el.Value.(*entry[K, V]).expires) {
			c.remove(el)
			removed++
		}
		el = prev
	}
	return removed
}

func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *LRU[K, V]) remove(el *list.Element) {
	delete(c.entries, el.Value.(*entry[K, V]).key)
	c.recency.Remove(el)
}
