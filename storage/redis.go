package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// keyPrefix namespaces medikeep keys inside a possibly shared redis instance.
const keyPrefix = "medikeep:"

// RedisStore persists collections in redis, for households that share one
// tracker across several devices.
type RedisStore struct {
	client *redis.Client
}

// Compile-time check to ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)

// OpenRedis connects to the redis instance at addr and verifies the
// connection with a ping.
func OpenRedis(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisStore{client: client}, nil
}

// Get returns the value stored under key, or (nil, nil) when absent.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, nil
}

// Set writes a single key without expiry.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// SetMulti writes all pairs through a transactional pipeline so the batch is
// applied atomically.
func (s *RedisStore) SetMulti(ctx context.Context, values map[string][]byte) error {
	pipe := s.client.TxPipeline()
	for key, value := range values {
		pipe.Set(ctx, keyPrefix+key, value, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis batch set: %w", err)
	}
	return nil
}

// Close closes the client connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
