package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Avatara12345/Chat-Application/internal/config"
	"github.com/Avatara12345/Chat-Application/pkg/errorx"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// Init connects the client and starts the cache worker pool.
func Init() {
	conf := config.GetConfig()
	addr := conf.RedisConfig.Host + ":" + strconv.Itoa(conf.RedisConfig.Port)

	redisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: conf.RedisConfig.Password,
		DB:       conf.RedisConfig.Db,

		PoolSize:     50,
		MinIdleConns: 15,
	})

	InitCacheWorker(15, 3000)
}

// SetKeyEx sets a key with a TTL.
func SetKeyEx(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := redisClient.Set(ctx, key, value, ttl).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis set key %s", key)
	}
	return nil
}

// GetKeyNilIsErr reads a key, returning CodeNotFound when absent.
func GetKeyNilIsErr(ctx context.Context, key string) (string, error) {
	value, err := redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", errorx.Wrapf(err, errorx.CodeNotFound, "redis key %s not found", key)
		}
		return "", errorx.Wrapf(err, errorx.CodeCacheError, "redis get key %s", key)
	}
	return value, nil
}

// KeyExists reports whether a key is present and unexpired.
func KeyExists(ctx context.Context, key string) (bool, error) {
	n, err := redisClient.Exists(ctx, key).Result()
	if err != nil {
		return false, errorx.Wrapf(err, errorx.CodeCacheError, "redis exists key %s", key)
	}
	return n == 1, nil
}

// DelKeyIfExists deletes a key; missing keys are not an error.
func DelKeyIfExists(ctx context.Context, key string) error {
	if err := redisClient.Del(ctx, key).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis delete key %s", key)
	}
	return nil
}

// DelKeysWithPattern unlinks every key matching pattern, scanning in
// batches so redis is never blocked.
func DelKeysWithPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := redisClient.Scan(ctx, cursor, pattern, 500).Result()
		if err != nil {
			return errorx.Wrapf(err, errorx.CodeCacheError, "redis scan pattern %s", pattern)
		}
		if len(keys) > 0 {
			if err := redisClient.Unlink(ctx, keys...).Err(); err != nil {
				return errorx.Wrapf(err, errorx.CodeCacheError, "redis unlink pattern %s", pattern)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
