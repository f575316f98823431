package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMemoryCacheSize bounds the in-process cache when no size is given.
const DefaultMemoryCacheSize = 10000

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means the cache-wide TTL applies
}

// MemoryCache is an in-process Cache used when no Redis address is configured.
// It holds at most size entries, evicting the least recently used, and never keeps
// an entry longer than maxTTL. Shorter per-key expirations are checked on read.
type MemoryCache struct {
	lru *expirable.LRU[string, memoryEntry]
	now func() time.Time
}

// NewMemoryCache creates a MemoryCache. A non-positive size uses DefaultMemoryCacheSize;
// a non-positive maxTTL leaves entries without a cache-wide expiry.
func NewMemoryCache(size int, maxTTL time.Duration) *MemoryCache {
	if size <= 0 {
		size = DefaultMemoryCacheSize
	}
	return &MemoryCache{
		lru: expirable.NewLRU[string, memoryEntry](size, nil, maxTTL),
		now: time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, error) {
	e, ok := m.lru.Get(key)
	if !ok {
		return "", ErrMiss
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		m.lru.Remove(key)
		return "", ErrMiss
	}
	return e.value, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	e := memoryEntry{value: value}
	if expiration > 0 {
		e.expiresAt = m.now().Add(expiration)
	}
	m.lru.Add(key, e)
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.lru.Remove(key)
	return nil
}

func (m *MemoryCache) Close() error {
	m.lru.Purge()
	return nil
}
