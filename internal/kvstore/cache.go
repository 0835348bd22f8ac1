package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const snapshotKey = "studio:snapshot"

// SnapshotCache keeps the last good snapshot in redis so the app can come up
// when the document store is unreachable.
type SnapshotCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewSnapshotCache creates the cache. A zero ttl keeps snapshots forever.
func NewSnapshotCache(redisClient *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{redis: redisClient, ttl: ttl}
}

// Get returns the cached snapshot, or nil when none is cached.
func (c *SnapshotCache) Get(ctx context.Context) (*Snapshot, error) {
	data, err := c.redis.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kvstore: get cached snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("kvstore: unmarshal cached snapshot: %w", err)
	}
	return &snap, nil
}

// Set stores the snapshot.
func (c *SnapshotCache) Set(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("kvstore: marshal snapshot: %w", err)
	}
	if err := c.redis.Set(ctx, snapshotKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("kvstore: cache snapshot: %w", err)
	}
	return nil
}
