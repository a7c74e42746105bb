package ratelimiter

import (
	"fmt"
	"testing"
	"time"
)

func TestCacheMissOnUnknownKey(t *testing.T) {
	c := NewInMemory()

	if _, err := c.Get("nope"); err != ErrCacheMiss {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestCacheRoundTripWithoutExpiry(t *testing.T) {
	c := NewInMemory()

	if err := c.Set("k", 42); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, err := c.Get("k")
	if err != nil || v != 42 {
		t.Fatalf("Get returned %d, %v", v, err)
	}
}

func TestExpiredEntryIsAMiss(t *testing.T) {
	c := NewInMemory()

	_ = c.SetWithExpiration("k", 1, time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if _, err := c.Get("k"); err != ErrCacheMiss {
		t.Fatalf("expired key must miss, got %v", err)
	}
}

func TestWriteSweepDropsExpiredEntries(t *testing.T) {
	c := NewInMemory().(*memoryCache)

	_ = c.SetWithExpiration("dead", 1, time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	// Enough writes to one live key to trigger the amortized sweep.
	for i := 0; i <= sweepEvery; i++ {
		_ = c.SetWithExpiration(fmt.Sprintf("live-%d", i%2), i, time.Minute)
	}

	c.mu.Lock()
	_, stillThere := c.data["dead"]
	c.mu.Unlock()
	if stillThere {
		t.Fatalf("sweep should have evicted the expired entry")
	}
}
