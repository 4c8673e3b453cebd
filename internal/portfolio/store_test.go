package portfolio

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trogers1052/scenario-risk-service/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestStoreAdd(t *testing.T) {
	t.Run("assigns defaults by instrument type", func(t *testing.T) {
		s := NewStore()

		pos, err := s.Add(Draft{
			Asset:          "USD_5Y_SWAP",
			Quantity:       decimal.NewFromInt(1000),
			Price:          decimal.NewFromInt(100),
			InstrumentType: models.InstrumentSwap,
		})
		require.NoError(t, err)

		assert.NotEmpty(t, pos.ID)
		assert.Equal(t, 3.0, pos.RiskFactors.Duration)
		assert.Equal(t, 15.0, pos.RiskFactors.Convexity)
		assert.Zero(t, pos.RiskFactors.Delta)
	})

	t.Run("caller risk factors override defaults field by field", func(t *testing.T) {
		s := NewStore()

		pos, err := s.Add(Draft{
			Asset:          "SPX_CALL",
			Quantity:       decimal.NewFromInt(10),
			Price:          decimal.NewFromInt(15),
			InstrumentType: models.InstrumentOption,
			Delta:          floatPtr(0.7),
			Theta:          floatPtr(-0.05),
		})
		require.NoError(t, err)

		assert.Equal(t, 0.7, pos.RiskFactors.Delta)
		assert.Equal(t, -0.05, pos.RiskFactors.Theta)
		// untouched defaults survive
		assert.Equal(t, 0.1, pos.RiskFactors.Gamma)
		assert.Equal(t, 10.0, pos.RiskFactors.Vega)
	})

	t.Run("empty instrument type defaults to equity", func(t *testing.T) {
		s := NewStore()

		pos, err := s.Add(Draft{
			Asset:    "MSFT",
			Quantity: decimal.NewFromInt(10),
			Price:    decimal.NewFromInt(350),
		})
		require.NoError(t, err)
		assert.Equal(t, models.InstrumentEquity, pos.InstrumentType)
		assert.Equal(t, 1.0, pos.RiskFactors.Delta)
	})

	t.Run("validates required fields", func(t *testing.T) {
		s := NewStore()

		_, err := s.Add(Draft{Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, ErrAssetRequired)

		_, err = s.Add(Draft{Asset: "AAPL", Price: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, ErrInvalidQuantity)

		_, err = s.Add(Draft{Asset: "AAPL", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromFloat(-5)})
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("IDs are unique", func(t *testing.T) {
		s := NewStore()
		seen := map[string]bool{}
		for i := 0; i < 50; i++ {
			pos, err := s.Add(Draft{Asset: "AAPL", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(1)})
			require.NoError(t, err)
			assert.False(t, seen[pos.ID])
			seen[pos.ID] = true
		}
	})
}

func TestStoreRemove(t *testing.T) {
	t.Run("removes by ID", func(t *testing.T) {
		s := NewStore()
		pos, err := s.Add(Draft{Asset: "AAPL", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(1)})
		require.NoError(t, err)

		s.Remove(pos.ID)
		assert.Empty(t, s.List())
	})

	t.Run("unknown ID is a no-op", func(t *testing.T) {
		s := NewStore()
		_, err := s.Add(Draft{Asset: "AAPL", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(1)})
		require.NoError(t, err)

		s.Remove("does-not-exist")
		assert.Len(t, s.List(), 1)
	})
}

func TestSeededStore(t *testing.T) {
	s := NewSeededStore()
	positions := s.List()
	require.Len(t, positions, 4)

	assets := make([]string, 0, len(positions))
	for _, p := range positions {
		assets = append(assets, p.Asset)
	}
	assert.Equal(t, []string{"AAPL", "TSLA", "USD_10Y_BOND", "SPX_OPTION"}, assets)
}

func TestReplaceAll(t *testing.T) {
	s := NewSeededStore()

	s.ReplaceAll([]models.Position{
		{Asset: "NVDA", Quantity: decimal.NewFromInt(10), Price: decimal.NewFromInt(500)},
	})

	positions := s.List()
	require.Len(t, positions, 1)
	assert.Equal(t, "NVDA", positions[0].Asset)
	assert.NotEmpty(t, positions[0].ID)
}

func TestByAsset(t *testing.T) {
	s := NewSeededStore()
	matches := s.ByAsset("AAPL")
	require.Len(t, matches, 1)
	assert.Equal(t, "AAPL", matches[0].Asset)
	assert.Empty(t, s.ByAsset("NOPE"))
}
