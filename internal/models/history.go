package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Scenario scope constants
const (
	ScopePortfolio = "portfolio"
	ScopeSingle    = "single"
)

// Scenario type values recorded on history entries beyond the catalog
// categories.
const (
	TypeBacktesting = "backtesting"
	TypeManualEdit  = "manual-edit"
)

// BacktestMetadata describes the historical window a backtest replayed.
type BacktestMetadata struct {
	WindowID      string    `json:"window_id"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	DaysSimulated int       `json:"days_simulated"`
}

// ScenarioHistoryRecord is one immutable audit entry capturing an
// executed scenario or backtest run. The ledger retains the most recent
// 100 records, oldest evicted first.
type ScenarioHistoryRecord struct {
	ID               string            `json:"id"`
	Timestamp        time.Time         `json:"timestamp"`
	ScenarioName     string            `json:"scenario_name"`
	ScenarioType     string            `json:"scenario_type"`
	ScenarioScope    string            `json:"scenario_scope"`
	ShockValue       *float64          `json:"shock_value,omitempty"`
	AssetsAnalyzed   int               `json:"assets_analyzed"`
	SelectedAsset    string            `json:"selected_asset,omitempty"`
	Results          []Result          `json:"results"`
	TotalImpact      decimal.Decimal   `json:"total_impact"`
	MaxLoss          decimal.Decimal   `json:"max_loss"`
	SessionID        string            `json:"session_id"`
	UserAgent        string            `json:"user_agent"`
	IsCustom         bool              `json:"is_custom"`
	Metadata         map[string]any    `json:"metadata,omitempty"`
	BacktestMetadata *BacktestMetadata `json:"backtest_metadata,omitempty"`
}
