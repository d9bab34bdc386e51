// Package cache is a Redis-backed read cache. It degrades to a no-op when
// Redis is unreachable so the catalog keeps working from the database.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hostelease/hostelease/config"
	"github.com/hostelease/hostelease/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client
var Ctx = context.Background()

// Connect initialises the Redis client and verifies it with a ping.
func Connect() error {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := RDB.Ping(Ctx).Err(); err != nil {
		RDB = nil // mark unavailable so Get/Set/Del no-op
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

// Get unmarshals the cached value under key into dest.
// Returns true on a hit, false on miss, error, or no Redis.
func Get(key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}

	val, err := RDB.Get(Ctx, key).Result()
	if err != nil {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return false
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return false
	}

	metrics.CacheHits.WithLabelValues("redis").Inc()
	return true
}

// Set stores value under key for the given TTL.
func Set(key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return RDB.Set(Ctx, key, data, ttl).Err()
}

// Del removes one or more keys.
func Del(keys ...string) error {
	if RDB == nil {
		return nil
	}
	return RDB.Del(Ctx, keys...).Err()
}
