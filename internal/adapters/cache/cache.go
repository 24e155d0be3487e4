// Package cache memoizes computed results keyed by request.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
)

// Cache holds computed values by key.
type Cache[V any] interface {
	// Get returns the value stored under key.
	Get(ctx context.Context, key string) (V, bool)

	// Put stores v under key. An existing entry is replaced in place.
	Put(ctx context.Context, key string, v V)

	Size() int64
}

// node represents a single entry in the insertion-ordered list.
type node[V any] struct {
	key   string
	value V
	next  *node[V]
}

// reset clears the node state for reuse.
func (n *node[V]) reset() {
	var zero V
	n.key = ""
	n.value = zero
	n.next = nil
}

// inMemoryCache implements Cache with a map and a singly linked list.
// For bounded mode (maxSize > 0): the oldest insertion is evicted first and
// nodes are recycled through a sync.Pool.
// For unbounded mode (maxSize <= 0): entries are never evicted.
type inMemoryCache[V any] struct {
	mu       sync.RWMutex
	entries  map[string]*node[V]
	head     *node[V] // oldest entry
	tail     *node[V] // newest entry
	maxSize  int
	size     atomic.Int64
	nodePool sync.Pool
}

// NewInMemoryCache creates a new in-memory cache with configuration options.
func NewInMemoryCache[V any](opts ...Option) Cache[V] {
	cfg := options{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &inMemoryCache[V]{
		entries: make(map[string]*node[V]),
		maxSize: cfg.maxSize,
	}
	c.nodePool = sync.Pool{
		New: func() interface{} {
			return &node[V]{}
		},
	}
	return c
}

// Get returns the value stored under key.
func (c *inMemoryCache[V]) Get(_ context.Context, key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if n, ok := c.entries[key]; ok {
		return n.value, true
	}
	var zero V
	return zero, false
}

// Put stores v under key, evicting the oldest entry when full.
func (c *inMemoryCache[V]) Put(_ context.Context, key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok {
		n.value = v
		return
	}
	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	n := c.nodePool.Get().(*node[V])
	n.key = key
	n.value = v
	if c.tail == nil {
		c.head = n
	} else {
		c.tail.next = n
	}
	c.tail = n
	c.entries[key] = n
	c.size.Add(1)
}

// evictOldest removes the head of the list.
// Must be called with c.mu.Lock() held.
func (c *inMemoryCache[V]) evictOldest() {
	n := c.head
	if n == nil {
		return
	}
	c.head = n.next
	if c.head == nil {
		c.tail = nil
	}
	delete(c.entries, n.key)
	n.reset()
	c.nodePool.Put(n)
	c.size.Add(-1)
}

// Size returns the current number of entries in the cache.
func (c *inMemoryCache[V]) Size() int64 {
	return c.size.Load()
}
