package cache

import "sync"

// DefaultMaxBytes bounds the icon cache at 100 MB.
const DefaultMaxBytes int64 = 100 * 1024 * 1024

// IconCache is an in-memory LRU keyed by icon code and bounded by total payload size.
// Stored and returned slices are copies.
type IconCache struct {
	maxBytes int64
	mu       sync.Mutex
	size     int64
	entries  map[string]*entry
	head     *entry // most recently used
	tail     *entry // least recently used
}

type entry struct {
	key   string
	value []byte
	prev  *entry
	next  *entry
}

func NewIconCache(maxBytes int64) *IconCache {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &IconCache{
		maxBytes: maxBytes,
		entries:  make(map[string]*entry),
	}
}

func (c *IconCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return clone(e.value), true
}

// Put stores data under key. Data larger than the whole budget is not stored.
func (c *IconCache) Put(key string, data []byte) {
	cost := int64(len(data))
	if cost > c.maxBytes {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.size += cost - int64(len(e.value))
		e.value = clone(data)
		c.moveToFront(e)
	} else {
		e := &entry{key: key, value: clone(data)}
		c.entries[key] = e
		c.addToFront(e)
		c.size += cost
	}

	for c.size > c.maxBytes && c.tail != nil {
		c.evictTail()
	}
}

func (c *IconCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *IconCache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func (c *IconCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *IconCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *IconCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *IconCache) evictTail() {
	victim := c.tail
	delete(c.entries, victim.key)
	c.remove(victim)
	c.size -= int64(len(victim.value))
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
