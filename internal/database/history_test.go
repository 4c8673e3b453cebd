package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trogers1052/scenario-risk-service/internal/models"
)

func historyRecord(name string, recordedAt time.Time) *models.ScenarioHistoryRecord {
	shock := -0.20
	return &models.ScenarioHistoryRecord{
		ID:             uuid.NewString(),
		Timestamp:      recordedAt,
		ScenarioName:   name,
		ScenarioType:   "historical",
		ScenarioScope:  models.ScopePortfolio,
		ShockValue:     &shock,
		AssetsAnalyzed: 2,
		Results: []models.Result{
			{
				Asset:         "AAPL",
				Quantity:      decimal.NewFromInt(100000),
				Shock:         -0.20,
				Impact:        decimal.NewFromFloat(-4000000),
				NewPrice:      decimal.NewFromFloat(160),
				OriginalPrice: decimal.NewFromFloat(200),
			},
		},
		TotalImpact: decimal.NewFromFloat(-4000000),
		MaxLoss:     decimal.NewFromFloat(-4000000),
		SessionID:   "session-1",
		UserAgent:   "test-agent",
	}
}

func TestHistoryStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	ctx := context.Background()

	t.Run("Insert persists record and LoadRecent returns it", func(t *testing.T) {
		testDB.TruncateAll(t)

		rec := historyRecord("2008 Financial Crisis", time.Now().UTC().Truncate(time.Millisecond))
		err := testDB.Insert(ctx, rec)
		require.NoError(t, err)

		records, err := testDB.LoadRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, records, 1)

		got := records[0]
		assert.Equal(t, rec.ID, got.ID)
		assert.Equal(t, "2008 Financial Crisis", got.ScenarioName)
		assert.Equal(t, "historical", got.ScenarioType)
		assert.Equal(t, models.ScopePortfolio, got.ScenarioScope)
		require.NotNil(t, got.ShockValue)
		assert.InDelta(t, -0.20, *got.ShockValue, 1e-12)
		assert.True(t, decimal.NewFromFloat(-4000000).Equal(got.TotalImpact))
		require.Len(t, got.Results, 1)
		assert.Equal(t, "AAPL", got.Results[0].Asset)
	})

	t.Run("LoadRecent returns newest first with limit", func(t *testing.T) {
		testDB.TruncateAll(t)

		base := time.Now().UTC().Truncate(time.Millisecond)
		for i := 0; i < 5; i++ {
			rec := historyRecord(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Minute))
			require.NoError(t, testDB.Insert(ctx, rec))
		}

		records, err := testDB.LoadRecent(ctx, 3)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "run-4", records[0].ScenarioName)
		assert.Equal(t, "run-3", records[1].ScenarioName)
		assert.Equal(t, "run-2", records[2].ScenarioName)
	})

	t.Run("LoadRecent skips rows with corrupt payload", func(t *testing.T) {
		testDB.TruncateAll(t)

		rec := historyRecord("good run", time.Now().UTC())
		require.NoError(t, testDB.Insert(ctx, rec))

		_, err := testDB.GetRawConn().Exec(`
			INSERT INTO scenario_history (id, scenario_name, scenario_type, scenario_scope, recorded_at, payload)
			VALUES ($1, 'broken', 'historical', 'portfolio', $2, '"not a record"'::jsonb)
		`, uuid.NewString(), time.Now().UTC().Add(time.Hour))
		require.NoError(t, err)

		records, err := testDB.LoadRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "good run", records[0].ScenarioName)
	})

	t.Run("TrimTo keeps only the newest n records", func(t *testing.T) {
		testDB.TruncateAll(t)

		base := time.Now().UTC().Truncate(time.Millisecond)
		for i := 0; i < 7; i++ {
			rec := historyRecord(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Minute))
			require.NoError(t, testDB.Insert(ctx, rec))
		}

		require.NoError(t, testDB.TrimTo(ctx, 4))

		count, err := testDB.CountHistoryRecords(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, count)

		records, err := testDB.LoadRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, records, 4)
		assert.Equal(t, "run-6", records[0].ScenarioName)
		assert.Equal(t, "run-3", records[3].ScenarioName)
	})

	t.Run("Clear removes all records", func(t *testing.T) {
		testDB.TruncateAll(t)

		require.NoError(t, testDB.Insert(ctx, historyRecord("run", time.Now().UTC())))
		require.NoError(t, testDB.Clear(ctx))

		count, err := testDB.CountHistoryRecords(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("backtest metadata round-trips through payload", func(t *testing.T) {
		testDB.TruncateAll(t)

		rec := historyRecord("Backtest: 2008 Crisis", time.Now().UTC())
		rec.ScenarioType = models.TypeBacktesting
		rec.BacktestMetadata = &models.BacktestMetadata{
			WindowID:      "crisis-2008",
			StartDate:     time.Date(2008, 9, 1, 0, 0, 0, 0, time.UTC),
			EndDate:       time.Date(2009, 3, 1, 0, 0, 0, 0, time.UTC),
			DaysSimulated: 120,
		}
		require.NoError(t, testDB.Insert(ctx, rec))

		records, err := testDB.LoadRecent(ctx, 1)
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.NotNil(t, records[0].BacktestMetadata)
		assert.Equal(t, "crisis-2008", records[0].BacktestMetadata.WindowID)
		assert.Equal(t, 120, records[0].BacktestMetadata.DaysSimulated)
	})
}
