// Package history implements the scenario-history audit ledger: a
// bounded, append-only log of executed runs with filter, export, replay
// and summary operations. Entries are held in memory and mirrored to a
// durable store; a missing or corrupt store never prevents startup.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/trogers1052/scenario-risk-service/internal/models"
)

// MaxEntries is the ledger capacity; the oldest entry is evicted first.
const MaxEntries = 100

// ErrEntryNotFound is returned by Replay for an unknown record ID.
var ErrEntryNotFound = errors.New("history entry not found")

// Store is the durable persistence behind the ledger.
type Store interface {
	// LoadRecent returns up to n records, newest first. Corrupt rows
	// are skipped, not surfaced as errors.
	LoadRecent(ctx context.Context, n int) ([]models.ScenarioHistoryRecord, error)

	// Insert appends one record.
	Insert(ctx context.Context, rec *models.ScenarioHistoryRecord) error

	// TrimTo deletes everything but the n newest records.
	TrimTo(ctx context.Context, n int) error

	// Clear deletes all records.
	Clear(ctx context.Context) error
}

// Filter selects a sub-sequence of ledger entries. Zero values mean
// "no constraint". SearchTerm matches case-insensitively against the
// scenario name or the selected asset.
type Filter struct {
	SearchTerm   string
	ScenarioType string
	Scope        string
}

func (f Filter) matches(rec *models.ScenarioHistoryRecord) bool {
	if f.ScenarioType != "" && rec.ScenarioType != f.ScenarioType {
		return false
	}
	if f.Scope != "" && rec.ScenarioScope != f.Scope {
		return false
	}
	if f.SearchTerm != "" {
		term := strings.ToLower(f.SearchTerm)
		name := strings.ToLower(rec.ScenarioName)
		asset := strings.ToLower(rec.SelectedAsset)
		if !strings.Contains(name, term) && !strings.Contains(asset, term) {
			return false
		}
	}
	return true
}

// ReplayState is the reconstructed input of a past run: the scenario
// selection and any override that was active. The caller re-invokes the
// engine; Replay never re-executes anything itself.
type ReplayState struct {
	ScenarioName  string                     `json:"scenario_name"`
	ScenarioType  string                     `json:"scenario_type"`
	Scope         string                     `json:"scope"`
	SelectedAsset string                     `json:"selected_asset,omitempty"`
	ShockValue    *float64                   `json:"shock_value,omitempty"`
	IsCustom      bool                       `json:"is_custom"`
	Override      *models.MarketDataOverride `json:"override,omitempty"`
}

// Summary holds the ledger's aggregate statistics.
type Summary struct {
	TotalRuns             int             `json:"total_runs"`
	WeeklyCount           int             `json:"weekly_count"`
	MostUsedType          string          `json:"most_used_type"`
	AverageAbsoluteImpact decimal.Decimal `json:"average_absolute_impact"`
}

// Ledger is the in-memory view of the audit log, newest entry first.
// Record and Clear serialize behind a mutex so entries land in the
// order their runs complete.
type Ledger struct {
	mu      sync.RWMutex
	entries []models.ScenarioHistoryRecord
	store   Store
	logger  *zap.Logger
}

// NewLedger creates an empty ledger over the given store.
func NewLedger(store Store, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{store: store, logger: logger}
}

// Load restores the ledger from durable storage. Storage failures leave
// the ledger empty and are logged, never returned.
func (l *Ledger) Load(ctx context.Context) {
	records, err := l.store.LoadRecent(ctx, MaxEntries)
	if err != nil {
		l.logger.Warn("history storage unavailable, starting with empty ledger", zap.Error(err))
		return
	}

	l.mu.Lock()
	l.entries = records
	l.mu.Unlock()
	l.logger.Info("scenario history restored", zap.Int("entries", len(records)))
}

// Record prepends the entry and evicts beyond capacity, then mirrors the
// write to durable storage. Persistence failures are logged; the
// in-memory ledger is already consistent and the run is not failed.
func (l *Ledger) Record(ctx context.Context, rec models.ScenarioHistoryRecord) {
	l.mu.Lock()
	l.entries = append([]models.ScenarioHistoryRecord{rec}, l.entries...)
	if len(l.entries) > MaxEntries {
		l.entries = l.entries[:MaxEntries]
	}
	l.mu.Unlock()

	if err := l.store.Insert(ctx, &rec); err != nil {
		l.logger.Warn("failed to persist history entry", zap.String("id", rec.ID), zap.Error(err))
		return
	}
	if err := l.store.TrimTo(ctx, MaxEntries); err != nil {
		l.logger.Warn("failed to trim history storage", zap.Error(err))
	}
}

// Entries returns a copy of all entries, newest first.
func (l *Ledger) Entries() []models.ScenarioHistoryRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.ScenarioHistoryRecord, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of retained entries.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// FilterEntries returns the ordered sub-sequence matching all active
// filters.
func (l *Ledger) FilterEntries(f Filter) []models.ScenarioHistoryRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []models.ScenarioHistoryRecord
	for i := range l.entries {
		if f.matches(&l.entries[i]) {
			out = append(out, l.entries[i])
		}
	}
	return out
}

// Clear empties the ledger and its durable mirror. Irreversible; the
// API layer demands explicit confirmation before calling this.
func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()

	if err := l.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear history storage: %w", err)
	}
	return nil
}

// Replay reconstructs the scenario selection and override state that
// produced the entry with the given ID.
func (l *Ledger) Replay(id string) (*ReplayState, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := range l.entries {
		rec := &l.entries[i]
		if rec.ID != id {
			continue
		}
		state := &ReplayState{
			ScenarioName:  rec.ScenarioName,
			ScenarioType:  rec.ScenarioType,
			Scope:         rec.ScenarioScope,
			SelectedAsset: rec.SelectedAsset,
			ShockValue:    rec.ShockValue,
			IsCustom:      rec.IsCustom,
			Override:      overrideFromResults(rec),
		}
		return state, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
}

// overrideFromResults rebuilds the override slot from any result row
// that ran on edited spot data.
func overrideFromResults(rec *models.ScenarioHistoryRecord) *models.MarketDataOverride {
	for _, r := range rec.Results {
		if r.IsEditedData && r.EditedPrice != nil {
			return &models.MarketDataOverride{
				Asset:        r.Asset,
				ScenarioName: rec.ScenarioName,
				Timestamp:    rec.Timestamp,
				MarketData: models.MarketData{
					Spot: &models.SpotQuote{Spot: *r.EditedPrice},
				},
			}
		}
	}
	return nil
}

// Stats computes the ledger summary. now is injected for testability.
func (l *Ledger) Stats(now time.Time) Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	weekAgo := now.Add(-7 * 24 * time.Hour)
	typeCounts := map[string]int{}
	var absTotal decimal.Decimal
	weekly := 0

	for i := range l.entries {
		rec := &l.entries[i]
		if rec.Timestamp.After(weekAgo) {
			weekly++
		}
		typeCounts[rec.ScenarioType]++
		absTotal = absTotal.Add(rec.TotalImpact.Abs())
	}

	mostUsed := ""
	best := 0
	for scenarioType, count := range typeCounts {
		if count > best || (count == best && scenarioType < mostUsed) {
			mostUsed = scenarioType
			best = count
		}
	}

	var avg decimal.Decimal
	if len(l.entries) > 0 {
		avg = absTotal.Div(decimal.NewFromInt(int64(len(l.entries))))
	}

	return Summary{
		TotalRuns:             len(l.entries),
		WeeklyCount:           weekly,
		MostUsedType:          mostUsed,
		AverageAbsoluteImpact: avg,
	}
}
