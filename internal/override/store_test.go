package override

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trogers1052/scenario-risk-service/internal/models"
)

func spotOverride(asset string, spot float64) models.MarketDataOverride {
	return models.MarketDataOverride{
		Asset:        asset,
		ScenarioName: "manual edit",
		MarketData: models.MarketData{
			Spot: &models.SpotQuote{Spot: decimal.NewFromFloat(spot)},
		},
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store returns nil", func(t *testing.T) {
		s := NewMemoryStore()
		ov, err := s.Get(ctx, "AAPL")
		require.NoError(t, err)
		assert.Nil(t, ov)
	})

	t.Run("set then get round-trips", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Set(ctx, spotOverride("AAPL", 210)))

		ov, err := s.Get(ctx, "AAPL")
		require.NoError(t, err)
		require.NotNil(t, ov)
		assert.True(t, ov.MarketData.Spot.Spot.Equal(decimal.NewFromInt(210)))
		assert.False(t, ov.Timestamp.IsZero())
	})

	t.Run("get for a different asset returns nil", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Set(ctx, spotOverride("AAPL", 210)))

		ov, err := s.Get(ctx, "TSLA")
		require.NoError(t, err)
		assert.Nil(t, ov)
	})

	t.Run("single slot, last write wins", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Set(ctx, spotOverride("AAPL", 210)))
		require.NoError(t, s.Set(ctx, spotOverride("TSLA", 260)))

		ov, err := s.Get(ctx, "AAPL")
		require.NoError(t, err)
		assert.Nil(t, ov)

		ov, err = s.Get(ctx, "TSLA")
		require.NoError(t, err)
		require.NotNil(t, ov)
		assert.True(t, ov.MarketData.Spot.Spot.Equal(decimal.NewFromInt(260)))
	})

	t.Run("active returns the slot regardless of asset", func(t *testing.T) {
		s := NewMemoryStore()

		ov, err := s.Active(ctx)
		require.NoError(t, err)
		assert.Nil(t, ov)

		require.NoError(t, s.Set(ctx, spotOverride("AAPL", 210)))
		ov, err = s.Active(ctx)
		require.NoError(t, err)
		require.NotNil(t, ov)
		assert.Equal(t, "AAPL", ov.Asset)
	})

	t.Run("clear empties the slot", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Set(ctx, spotOverride("AAPL", 210)))
		require.NoError(t, s.Clear(ctx))

		ov, err := s.Get(ctx, "AAPL")
		require.NoError(t, err)
		assert.Nil(t, ov)
	})
}
