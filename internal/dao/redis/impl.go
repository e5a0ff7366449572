package redis

import (
	"context"
	"time"

	"github.com/Avatara12345/Chat-Application/pkg/constants"
)

// redisCacheService implements AsyncCacheService on the package-level
// client and worker pool.
type redisCacheService struct{}

// NewCacheService returns the AsyncCacheService implementation. Init
// must have run first.
func NewCacheService() AsyncCacheService {
	return &redisCacheService{}
}

func (s *redisCacheService) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return SetKeyEx(ctx, key, value, ttl)
}

func (s *redisCacheService) Get(ctx context.Context, key string) (string, error) {
	return GetKeyNilIsErr(ctx, key)
}

func (s *redisCacheService) Delete(ctx context.Context, key string) error {
	return DelKeyIfExists(ctx, key)
}

func (s *redisCacheService) DeleteByPattern(ctx context.Context, pattern string) error {
	return DelKeysWithPattern(ctx, pattern)
}

func (s *redisCacheService) SubmitTask(action func()) {
	SubmitCacheTask(action)
}

// typingKey is per (session, user); the value is irrelevant, presence
// of the unexpired key is the flag.
func typingKey(sessionId, userId string) string {
	return "typing_" + sessionId + "_" + userId
}

func (s *redisCacheService) SetTyping(ctx context.Context, sessionId, userId string, typing bool) error {
	key := typingKey(sessionId, userId)
	if typing {
		// TTL doubles as the reader-side staleness expiry.
		return SetKeyEx(ctx, key, "1", constants.TYPING_STALE)
	}
	return DelKeyIfExists(ctx, key)
}

func (s *redisCacheService) IsTyping(ctx context.Context, sessionId, userId string) (bool, error) {
	return KeyExists(ctx, typingKey(sessionId, userId))
}
