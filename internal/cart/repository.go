package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Saymandev/samucha-storefront/pkg/redis"
)

// SnapshotRepository persists session snapshots.
type SnapshotRepository interface {
	Load(ctx context.Context, sessionID string) (Snapshot, bool, error)
	Save(ctx context.Context, sessionID string, snap Snapshot) error
}

type snapshotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	SnapshotKey(namespace, sessionID string) string
}

// RedisSnapshotRepository keeps one JSON snapshot per session under the
// application namespace.
type RedisSnapshotRepository struct {
	store     snapshotStore
	namespace string
	ttl       time.Duration
}

// NewRedisSnapshotRepository wires the repository over a redis client.
func NewRedisSnapshotRepository(store snapshotStore, namespace string, ttl time.Duration) (*RedisSnapshotRepository, error) {
	if store == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if namespace == "" {
		return nil, fmt.Errorf("snapshot namespace required")
	}
	return &RedisSnapshotRepository{store: store, namespace: namespace, ttl: ttl}, nil
}

// Load returns the stored snapshot and whether one existed.
func (r *RedisSnapshotRepository) Load(ctx context.Context, sessionID string) (Snapshot, bool, error) {
	raw, err := r.store.Get(ctx, r.store.SnapshotKey(r.namespace, sessionID))
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, true, nil
}

// Save replaces the stored snapshot.
func (r *RedisSnapshotRepository) Save(ctx context.Context, sessionID string, snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := r.store.Set(ctx, r.store.SnapshotKey(r.namespace, sessionID), raw, r.ttl); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
