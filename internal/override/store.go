// Package override holds the session-scoped market-data override slot.
// At most one override is active at a time; a new edit unconditionally
// replaces the prior slot content.
package override

import (
	"context"
	"sync"
	"time"

	"github.com/trogers1052/scenario-risk-service/internal/models"
)

// Store is the ephemeral keyed store behind the override slot. Get
// returns (nil, nil) when no override is active for the asset; Active
// returns whatever override currently occupies the slot.
type Store interface {
	Set(ctx context.Context, ov models.MarketDataOverride) error
	Get(ctx context.Context, asset string) (*models.MarketDataOverride, error)
	Active(ctx context.Context) (*models.MarketDataOverride, error)
	Clear(ctx context.Context) error
}

// MemoryStore keeps the slot in process memory. It satisfies the same
// contract as the Redis-backed store and is used in tests and when no
// Redis address is configured.
type MemoryStore struct {
	mu   sync.Mutex
	slot *models.MarketDataOverride
}

// NewMemoryStore creates an empty in-memory slot.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Set replaces the slot content, last write wins.
func (s *MemoryStore) Set(_ context.Context, ov models.MarketDataOverride) error {
	if ov.Timestamp.IsZero() {
		ov.Timestamp = time.Now().UTC()
	}
	s.mu.Lock()
	s.slot = &ov
	s.mu.Unlock()
	return nil
}

// Get returns the active override if it matches the asset.
func (s *MemoryStore) Get(_ context.Context, asset string) (*models.MarketDataOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slot == nil || s.slot.Asset != asset {
		return nil, nil
	}
	ov := *s.slot
	return &ov, nil
}

// Active returns the slot content regardless of asset.
func (s *MemoryStore) Active(_ context.Context) (*models.MarketDataOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slot == nil {
		return nil, nil
	}
	ov := *s.slot
	return &ov, nil
}

// Clear empties the slot.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.slot = nil
	s.mu.Unlock()
	return nil
}
