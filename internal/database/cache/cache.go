// Package cache backs the client's lookaside cache with redis. Name→uid
// resolutions are the only heavy lookups, so losing the cache only costs
// extra requests.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

func RedisClient(addr, password string, db int) error {
	client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client = nil
		return err
	}

	return nil
}

func SetCache(key string, value any, expiration time.Duration) error {
	if client == nil {
		return fmt.Errorf("cache: redis client not initialized")
	}
	return client.Set(context.Background(), key, value, expiration).Err()
}

func GetCache(key string) (string, error) {
	if client == nil {
		return "", fmt.Errorf("cache: redis client not initialized")
	}
	return client.Get(context.Background(), key).Result()
}

// Store adapts the package to the client's Cache interface.
type Store struct{}

func (Store) Get(key string) (string, error) {
	return GetCache(key)
}

func (Store) Set(key, value string, expiration time.Duration) error {
	return SetCache(key, value, expiration)
}
