// Package cachefake provides an in-memory cache.Pages for tests.
package cachefake

import (
	"context"
	"strings"
	"sync"
	"time"

	"photostream/cache"
)

var _ cache.Pages = (*FakeCache)(nil)

type entry struct {
	snapshot  []byte
	expiresAt time.Time
}

type FakeCache struct {
	lock    sync.RWMutex
	entries map[string]entry

	// NowFunc can be overridden to advance the clock in tests.
	NowFunc func() time.Time

	// FailWith, when set, makes every operation return this error,
	// simulating a cache outage.
	FailWith error
}

func NewFakeCache() *FakeCache {
	return &FakeCache{
		entries: make(map[string]entry),
		NowFunc: time.Now,
	}
}

func (c *FakeCache) GetPage(_ context.Context, key string) ([]byte, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.FailWith != nil {
		return nil, c.FailWith
	}
	e, ok := c.entries[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	if c.NowFunc().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, cache.ErrMiss
	}
	return e.snapshot, nil
}

func (c *FakeCache) PutPage(_ context.Context, key string, snapshot []byte, ttl time.Duration) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.FailWith != nil {
		return c.FailWith
	}
	c.entries[key] = entry{
		snapshot:  snapshot,
		expiresAt: c.NowFunc().Add(ttl),
	}
	return nil
}

func (c *FakeCache) InvalidateAll(_ context.Context, prefix string) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.FailWith != nil {
		return c.FailWith
	}
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

// Len reports the number of live entries, for test assertions.
func (c *FakeCache) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return len(c.entries)
}
