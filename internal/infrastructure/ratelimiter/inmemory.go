package ratelimiter

import (
	"sync"
	"time"
)

// sweepEvery bounds how much dead state accumulates between sweeps: after
// this many writes the next Set walks the map and drops expired entries.
const sweepEvery = 256

type memoryEntry struct {
	value    int
	deadline int64 // UnixNano, 0 means no expiry
}

func (e memoryEntry) expired(now int64) bool {
	return e.deadline != 0 && now > e.deadline
}

// memoryCache is a process-local expiring int store. There is no janitor
// goroutine; Get drops expired keys as it finds them and Set amortizes a full
// sweep over every sweepEvery writes. The limiter touches its keys on every
// request anyway, so stale entries never outlive the traffic that made them.
type memoryCache struct {
	mu     sync.Mutex
	data   map[string]memoryEntry
	writes int
}

func NewInMemory() GetterSetter {
	return &memoryCache{data: make(map[string]memoryEntry)}
}

func (c *memoryCache) Get(key string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.data[key]
	if !ok {
		return 0, ErrCacheMiss
	}
	if entry.expired(time.Now().UnixNano()) {
		delete(c.data, key)
		return 0, ErrCacheMiss
	}
	return entry.value, nil
}

func (c *memoryCache) Set(key string, value int) error {
	return c.SetWithExpiration(key, value, 0)
}

func (c *memoryCache) SetWithExpiration(key string, value int, expiration time.Duration) error {
	now := time.Now().UnixNano()

	var deadline int64
	if expiration > 0 {
		deadline = now + expiration.Nanoseconds()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = memoryEntry{value: value, deadline: deadline}

	c.writes++
	if c.writes >= sweepEvery {
		c.writes = 0
		for k, e := range c.data {
			if e.expired(now) {
				delete(c.data, k)
			}
		}
	}
	return nil
}

func (c *memoryCache) Close() error { return nil }
