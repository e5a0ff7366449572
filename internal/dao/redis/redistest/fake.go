// Package redistest provides an in-memory AsyncCacheService for
// service-layer tests. TTLs are recorded but not enforced; SubmitTask
// runs inline so tests see cache writes synchronously.
package redistest

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/Avatara12345/Chat-Application/internal/dao/redis"
	"github.com/Avatara12345/Chat-Application/pkg/errorx"
)

// Cache is an in-memory redis.AsyncCacheService.
type Cache struct {
	mu     sync.Mutex
	values map[string]string
	typing map[string]bool
}

var _ redis.AsyncCacheService = (*Cache)(nil)

// New builds an empty cache.
func New() *Cache {
	return &Cache{
		values: map[string]string{},
		typing: map[string]bool{},
	}
}

func (c *Cache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *Cache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.values[key]; ok {
		return v, nil
	}
	return "", errorx.New(errorx.CodeNotFound, "cache miss")
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

func (c *Cache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.values {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.values, key)
		}
	}
	return nil
}

func (c *Cache) SetTyping(_ context.Context, sessionId, userId string, typing bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if typing {
		c.typing[sessionId+"|"+userId] = true
	} else {
		delete(c.typing, sessionId+"|"+userId)
	}
	return nil
}

func (c *Cache) IsTyping(_ context.Context, sessionId, userId string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.typing[sessionId+"|"+userId], nil
}

func (c *Cache) SubmitTask(action func()) {
	action()
}

// Has reports whether a key currently exists, for assertions.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok
}
