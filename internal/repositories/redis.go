package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/moviebot/internal/shared"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces keys when the config leaves the prefix empty.
const DefaultRedisPrefix = "moviebot:"

// NewRedisClient connects to the server named in cfg and pings it.
func NewRedisClient(ctx context.Context, cfg shared.StorageConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: failed to connect to Redis at %s: %v", shared.ErrServiceUnavailable, cfg.RedisAddr, err)
	}
	return client, nil
}

// RedisRepository stores values as Redis strings under a key prefix.
type RedisRepository struct {
	client redis.Cmdable
	prefix string
}

// NewRedisRepository creates a [RedisRepository]. An empty prefix uses [DefaultRedisPrefix].
func NewRedisRepository(client redis.Cmdable, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) key(k string) string {
	return r.prefix + k
}

func (r *RedisRepository) cacheKey(k string) string {
	return r.prefix + "cache:" + k
}

// Load retrieves the value for key.
func (r *RedisRepository) Load(ctx context.Context, key string) ([]byte, bool, error) {
	return r.get(ctx, r.key(key))
}

// Save writes value under key without expiry.
func (r *RedisRepository) Save(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to save key %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (r *RedisRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Get returns a cached response body.
func (r *RedisRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return r.get(ctx, r.cacheKey(key))
}

// Put caches body for ttl.
func (r *RedisRepository) Put(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.cacheKey(key), body, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache %s: %w", key, err)
	}
	return nil
}

// Purge deletes every cached response.
func (r *RedisRepository) Purge(ctx context.Context) (int64, error) {
	var n int64
	iter := r.client.Scan(ctx, 0, r.cacheKey("*"), 0).Iterator()
	for iter.Next(ctx) {
		deleted, err := r.client.Del(ctx, iter.Val()).Result()
		if err != nil {
			return n, fmt.Errorf("failed to purge %s: %w", iter.Val(), err)
		}
		n += deleted
	}
	if err := iter.Err(); err != nil {
		return n, fmt.Errorf("failed to scan cache keys: %w", err)
	}
	return n, nil
}

func (r *RedisRepository) get(ctx context.Context, full string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, full).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", full, err)
	}
	return data, true, nil
}
