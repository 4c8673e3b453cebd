// Package portfolio holds the session portfolio: an in-memory position
// store with validation and per-instrument risk factor defaults.
package portfolio

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/trogers1052/scenario-risk-service/internal/models"
)

var (
	// ErrAssetRequired is returned when a draft has no asset symbol.
	ErrAssetRequired = errors.New("asset symbol is required")

	// ErrInvalidQuantity is returned when quantity is not positive.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrInvalidPrice is returned when price is not positive.
	ErrInvalidPrice = errors.New("price must be positive")
)

// Draft is the caller-supplied input for a new position. Risk factor
// pointers override the instrument-type defaults field by field.
type Draft struct {
	Asset          string          `json:"asset"`
	Quantity       decimal.Decimal `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	InstrumentType string          `json:"instrument_type"`

	Delta     *float64 `json:"delta,omitempty"`
	Gamma     *float64 `json:"gamma,omitempty"`
	Duration  *float64 `json:"duration,omitempty"`
	Convexity *float64 `json:"convexity,omitempty"`
	Vega      *float64 `json:"vega,omitempty"`
	Theta     *float64 `json:"theta,omitempty"`
}

// Store is the in-memory position store. Positions are never mutated in
// place; Add and Remove replace the slice.
type Store struct {
	mu        sync.RWMutex
	positions []models.Position
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// NewSeededStore creates a store pre-loaded with the default portfolio.
func NewSeededStore() *Store {
	return &Store{positions: seedPositions()}
}

// Add validates the draft, fills default risk factors for its instrument
// type, assigns a collision-free ID and stores the position.
func (s *Store) Add(d Draft) (models.Position, error) {
	if d.Asset == "" {
		return models.Position{}, ErrAssetRequired
	}
	if !d.Quantity.IsPositive() {
		return models.Position{}, ErrInvalidQuantity
	}
	if !d.Price.IsPositive() {
		return models.Position{}, ErrInvalidPrice
	}

	instrumentType := d.InstrumentType
	if instrumentType == "" {
		instrumentType = models.InstrumentEquity
	}

	rf := models.DefaultRiskFactors(instrumentType)
	if d.Delta != nil {
		rf.Delta = *d.Delta
	}
	if d.Gamma != nil {
		rf.Gamma = *d.Gamma
	}
	if d.Duration != nil {
		rf.Duration = *d.Duration
	}
	if d.Convexity != nil {
		rf.Convexity = *d.Convexity
	}
	if d.Vega != nil {
		rf.Vega = *d.Vega
	}
	if d.Theta != nil {
		rf.Theta = *d.Theta
	}

	pos := models.Position{
		ID:             uuid.NewString(),
		Asset:          d.Asset,
		Quantity:       d.Quantity,
		Price:          d.Price,
		InstrumentType: instrumentType,
		RiskFactors:    rf,
		CreatedAt:      time.Now().UTC(),
	}

	s.mu.Lock()
	s.positions = append(s.positions, pos)
	s.mu.Unlock()
	return pos, nil
}

// Remove deletes the position with the given ID. Unknown IDs are a
// no-op, not an error.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.positions[:0]
	for _, p := range s.positions {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.positions = kept
}

// List returns a copy of the current positions in insertion order.
func (s *Store) List() []models.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Position, len(s.positions))
	copy(out, s.positions)
	return out
}

// ByAsset returns the positions whose asset matches the given symbol.
func (s *Store) ByAsset(asset string) []models.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Position
	for _, p := range s.positions {
		if p.Asset == asset {
			out = append(out, p)
		}
	}
	return out
}

// ReplaceAll swaps the whole portfolio for an externally provided
// snapshot. Positions without IDs get one assigned.
func (s *Store) ReplaceAll(positions []models.Position) {
	replacement := make([]models.Position, len(positions))
	copy(replacement, positions)
	for i := range replacement {
		if replacement[i].ID == "" {
			replacement[i].ID = uuid.NewString()
		}
	}

	s.mu.Lock()
	s.positions = replacement
	s.mu.Unlock()
}

func seedPositions() []models.Position {
	return []models.Position{
		{
			ID:             uuid.NewString(),
			Asset:          "AAPL",
			Quantity:       decimal.NewFromInt(100_000),
			Price:          decimal.NewFromInt(200),
			InstrumentType: models.InstrumentEquity,
			RiskFactors:    models.RiskFactors{Delta: 1.0},
			CreatedAt:      time.Now().UTC(),
		},
		{
			ID:             uuid.NewString(),
			Asset:          "TSLA",
			Quantity:       decimal.NewFromInt(50_000),
			Price:          decimal.NewFromInt(250),
			InstrumentType: models.InstrumentEquity,
			RiskFactors:    models.RiskFactors{Delta: 1.0},
			CreatedAt:      time.Now().UTC(),
		},
		{
			ID:             uuid.NewString(),
			Asset:          "USD_10Y_BOND",
			Quantity:       decimal.NewFromInt(1_000_000),
			Price:          decimal.NewFromInt(100),
			InstrumentType: models.InstrumentBond,
			RiskFactors:    models.RiskFactors{Duration: 4.0, Convexity: 20.0},
			CreatedAt:      time.Now().UTC(),
		},
		{
			ID:             uuid.NewString(),
			Asset:          "SPX_OPTION",
			Quantity:       decimal.NewFromInt(1000),
			Price:          decimal.NewFromInt(15),
			InstrumentType: models.InstrumentOption,
			RiskFactors:    models.RiskFactors{Delta: 0.5, Gamma: 0.1, Vega: 10.0, Theta: -0.02},
			CreatedAt:      time.Now().UTC(),
		},
	}
}
