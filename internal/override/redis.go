package override

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trogers1052/scenario-risk-service/internal/models"
)

// slotKey is the fixed Redis key holding the override slot.
const slotKey = "scenario:marketdata:override"

// RedisStore keeps the override slot in Redis with a TTL so the slot
// expires with the session even if the client never clears it.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore creates a Redis-backed slot store.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// Set replaces the slot content, last write wins.
func (s *RedisStore) Set(ctx context.Context, ov models.MarketDataOverride) error {
	if ov.Timestamp.IsZero() {
		ov.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(ov)
	if err != nil {
		return fmt.Errorf("failed to marshal override: %w", err)
	}
	if err := s.rdb.Set(ctx, slotKey, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store override: %w", err)
	}
	return nil
}

// Get returns the active override if it matches the asset.
func (s *RedisStore) Get(ctx context.Context, asset string) (*models.MarketDataOverride, error) {
	ov, err := s.Active(ctx)
	if err != nil || ov == nil {
		return nil, err
	}
	if ov.Asset != asset {
		return nil, nil
	}
	return ov, nil
}

// Active returns the slot content regardless of asset.
func (s *RedisStore) Active(ctx context.Context) (*models.MarketDataOverride, error) {
	data, err := s.rdb.Get(ctx, slotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read override: %w", err)
	}

	var ov models.MarketDataOverride
	if err := json.Unmarshal(data, &ov); err != nil {
		return nil, fmt.Errorf("failed to decode override: %w", err)
	}
	return &ov, nil
}

// Clear empties the slot.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, slotKey).Err(); err != nil {
		return fmt.Errorf("failed to clear override: %w", err)
	}
	return nil
}
