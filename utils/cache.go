package utils

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("key not found in cache")

// Cache wraps a redis client for short-lived report caching. A nil *Cache is
// valid and behaves as an always-miss cache, so the app runs without Redis.
type Cache struct {
	client *redis.Client
}

// NewCache connects to Redis; redisURL empty returns a nil cache (disabled).
func NewCache(redisURL string) (*Cache, error) {
	if redisURL == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Cache{client: client}, nil
}

// GetJSON retrieves and decodes a cached value into dest.
func (r *Cache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	if r == nil {
		return ErrCacheMiss
	}
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// SetJSON stores a JSON-encoded value with an expiration.
func (r *Cache) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if r == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

// Delete removes keys, e.g. to invalidate a report after a payment posts.
func (r *Cache) Delete(ctx context.Context, keys ...string) error {
	if r == nil || len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}
