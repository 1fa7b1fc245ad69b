package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Store is the read-through cache used by the list endpoints. Both the
// in-memory cache and the Redis-backed cache satisfy it; a miss and a
// backend failure look the same to callers.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

type entry struct {
	value     string
	expiresAt time.Time
}

// Memory is a process-local TTL cache. It is the fallback when no Redis URL
// is configured.
type Memory struct {
	mu    sync.RWMutex
	items map[string]entry
}

// NewMemory creates a new in-memory cache
func NewMemory() *Memory {
	return &Memory{items: map[string]entry{}}
}

func (c *Memory) Get(_ context.Context, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, exists := c.items[key]
	if !exists {
		return "", false
	}
	if time.Now().After(e.expiresAt) {
		return "", false
	}
	return e.value, true
}

func (c *Memory) Set(_ context.Context, key, value string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

func (c *Memory) Delete(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.items, key)
	}
}

// Invalidate removes all items matching a prefix
func (c *Memory) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
}
