// Package store provides the Redis-backed key-value store the sync job
// writes into, plus an in-memory read-through cache decorator.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"movie-sync-go/pkg/interfaces"
	"movie-sync-go/pkg/logging"
	"movie-sync-go/pkg/record"
)

// ErrNotFound is returned by Get when a key is absent. Absence is a normal
// outcome, distinct from a value that exists but fails to parse downstream.
var ErrNotFound = errors.New("store: key not found")

// RedisStore persists documents in Redis without expiry.
type RedisStore struct {
	client *redis.Client
	log    *logging.Logger
}

// NewRedisStore connects to Redis using a redis:// URL and verifies the
// connection with a ping before any sync work starts.
func NewRedisStore(ctx context.Context, redisURL string, log *logging.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{
		client: client,
		log:    log.WithComponent("store"),
	}, nil
}

// Get returns the stored value for key, or ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

// Set persists value under key with no expiry.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Track adds key to the membership set of written keys.
func (s *RedisStore) Track(ctx context.Context, key string) error {
	if err := s.client.SAdd(ctx, record.TrackingSetKey, key).Err(); err != nil {
		return fmt.Errorf("redis sadd %s: %w", key, err)
	}
	return nil
}

// TrackedKeys returns every key in the membership set.
func (s *RedisStore) TrackedKeys(ctx context.Context) ([]string, error) {
	keys, err := s.client.SMembers(ctx, record.TrackingSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers: %w", err)
	}
	return keys, nil
}

// Close releases the connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ interfaces.KeyValueStore = (*RedisStore)(nil)
