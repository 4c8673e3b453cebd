package history

import (
	"context"
	"sync"

	"github.com/trogers1052/scenario-risk-service/internal/models"
)

// MemoryStore is an in-process Store used in tests and when no database
// is configured. Records are held newest first.
type MemoryStore struct {
	mu      sync.Mutex
	records []models.ScenarioHistoryRecord
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// LoadRecent returns up to n records, newest first.
func (s *MemoryStore) LoadRecent(_ context.Context, n int) ([]models.ScenarioHistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n > len(s.records) {
		n = len(s.records)
	}
	out := make([]models.ScenarioHistoryRecord, n)
	copy(out, s.records[:n])
	return out, nil
}

// Insert prepends one record.
func (s *MemoryStore) Insert(_ context.Context, rec *models.ScenarioHistoryRecord) error {
	s.mu.Lock()
	s.records = append([]models.ScenarioHistoryRecord{*rec}, s.records...)
	s.mu.Unlock()
	return nil
}

// TrimTo drops everything but the n newest records.
func (s *MemoryStore) TrimTo(_ context.Context, n int) error {
	s.mu.Lock()
	if len(s.records) > n {
		s.records = s.records[:n]
	}
	s.mu.Unlock()
	return nil
}

// Clear deletes all records.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.records = nil
	s.mu.Unlock()
	return nil
}
