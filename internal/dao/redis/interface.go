// Package redis provides the cache and ephemeral-state store: roster
// cache entries, presence hints and typing flags. Services depend on
// the interfaces defined here, not on the client.
package redis

import (
	"context"
	"time"
)

// CacheService is the generic string cache used for roster snapshots.
type CacheService interface {
	// Set stores a value with a TTL.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Get returns the value, or a CodeNotFound error for a missing key.
	Get(ctx context.Context, key string) (string, error)
	// Delete removes a key if present.
	Delete(ctx context.Context, key string) error
	// DeleteByPattern removes every key matching the glob pattern.
	DeleteByPattern(ctx context.Context, pattern string) error
}

// TypingStore holds the ephemeral per-(session,user) typing flags.
// Flags are written with the staleness window as TTL, so a writer that
// crashes before clearing cannot leave the indicator stuck on.
type TypingStore interface {
	// SetTyping sets or clears the flag for user within session.
	SetTyping(ctx context.Context, sessionId, userId string, typing bool) error
	// IsTyping reads the flag; expired or absent flags read as false.
	IsTyping(ctx context.Context, sessionId, userId string) (bool, error)
}

// AsyncCacheService adds non-blocking task submission for cache
// refreshes that must not sit on a request path.
type AsyncCacheService interface {
	CacheService
	TypingStore
	// SubmitTask queues an asynchronous cache task on the worker pool.
	SubmitTask(action func())
}
