package store

import (
	"context"
	"errors"

	"movie-sync-go/pkg/interfaces"
	"movie-sync-go/pkg/logging"
)

// Cache is a read-through, write-through in-memory decorator over a
// KeyValueStore. A sync run re-reads the same keys it wrote in earlier runs;
// serving those reads locally keeps the diff loop off the network. The
// orchestrator never knows whether a read was local or remote.
//
// Not safe for concurrent use; the sync loop is strictly sequential.
type Cache struct {
	inner interfaces.KeyValueStore
	local map[string][]byte
	log   *logging.Logger
}

// NewCache wraps a KeyValueStore with a local cache.
func NewCache(inner interfaces.KeyValueStore, log *logging.Logger) *Cache {
	return &Cache{
		inner: inner,
		local: make(map[string][]byte),
		log:   log.WithComponent("cache"),
	}
}

// Preload bulk-loads every tracked key into the local cache. A failure to
// load an individual key just leaves it to a read-through later.
func (c *Cache) Preload(ctx context.Context) error {
	keys, err := c.inner.TrackedKeys(ctx)
	if err != nil {
		return err
	}
	loaded := 0
	for _, key := range keys {
		val, err := c.inner.Get(ctx, key)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				c.log.Warn("failed to preload key", "key", key, "error", err)
			}
			continue
		}
		c.local[key] = val
		loaded++
	}
	c.log.Info("preloaded cache", "tracked", len(keys), "loaded", loaded)
	return nil
}

// Get serves from the local cache when possible, falling back to the inner
// store and caching the result.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if val, ok := c.local[key]; ok {
		return val, nil
	}
	val, err := c.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	c.local[key] = val
	return val, nil
}

// Set writes through to the inner store and updates the local copy only
// after the write succeeds.
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.inner.Set(ctx, key, value); err != nil {
		return err
	}
	c.local[key] = value
	return nil
}

// Track delegates to the inner store.
func (c *Cache) Track(ctx context.Context, key string) error {
	return c.inner.Track(ctx, key)
}

// TrackedKeys delegates to the inner store.
func (c *Cache) TrackedKeys(ctx context.Context) ([]string, error) {
	return c.inner.TrackedKeys(ctx)
}

// Close closes the inner store.
func (c *Cache) Close() error {
	return c.inner.Close()
}

var _ interfaces.KeyValueStore = (*Cache)(nil)
