// Package simulator orchestrates scenario and backtest runs: it
// resolves the scenario, values the portfolio through the engine,
// aggregates the results and records the run in the history ledger.
// Validation failures reject the request before any state is touched.
package simulator

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trogers1052/scenario-risk-service/internal/backtest"
	"github.com/trogers1052/scenario-risk-service/internal/engine"
	"github.com/trogers1052/scenario-risk-service/internal/history"
	"github.com/trogers1052/scenario-risk-service/internal/models"
	"github.com/trogers1052/scenario-risk-service/internal/override"
	"github.com/trogers1052/scenario-risk-service/internal/portfolio"
	"github.com/trogers1052/scenario-risk-service/internal/scenario"
)

var (
	// ErrNoAssetSelected is returned for a single-asset run without an
	// asset.
	ErrNoAssetSelected = errors.New("single-asset scope requires a selected asset")

	// ErrCustomShockRequired is returned when the custom scenario is
	// selected without a shock value.
	ErrCustomShockRequired = errors.New("custom scenario requires a shock value")

	// ErrInvalidScope is returned for a scope other than portfolio or
	// single.
	ErrInvalidScope = errors.New("scope must be portfolio or single")
)

// EventPublisher pushes completed runs onto the event bus. Publishing is
// best effort; a broker outage never fails a run.
type EventPublisher interface {
	PublishScenarioRun(ctx context.Context, rec *models.ScenarioHistoryRecord) error
	PublishBacktestRun(ctx context.Context, rec *models.ScenarioHistoryRecord) error
	PublishHistoryCleared(ctx context.Context, sessionID string) error
}

// Service wires the portfolio, catalog, engine, override slot and
// ledger into the run operations the API exposes.
type Service struct {
	positions *portfolio.Store
	catalog   *scenario.Catalog
	overrides override.Store
	engine    *engine.Engine
	ledger    *history.Ledger
	backtests *backtest.Runner
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a Service. publisher may be nil when no broker is
// configured; a nil logger disables logging.
func New(
	positions *portfolio.Store,
	catalog *scenario.Catalog,
	overrides override.Store,
	eng *engine.Engine,
	ledger *history.Ledger,
	backtests *backtest.Runner,
	publisher EventPublisher,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		positions: positions,
		catalog:   catalog,
		overrides: overrides,
		engine:    eng,
		ledger:    ledger,
		backtests: backtests,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// RunRequest parameterizes a scenario run. CustomShock is in percentage
// points and only consulted for the custom scenario.
type RunRequest struct {
	Scope         string   `json:"scope"`
	ScenarioID    string   `json:"scenario_id"`
	SelectedAsset string   `json:"selected_asset,omitempty"`
	CustomShock   *float64 `json:"custom_shock,omitempty"`
	CustomName    string   `json:"custom_name,omitempty"`
	SessionID     string   `json:"session_id,omitempty"`
	UserAgent     string   `json:"user_agent,omitempty"`
}

// RunOutput is the full outcome of a scenario run.
type RunOutput struct {
	Record  models.ScenarioHistoryRecord `json:"record"`
	Results []models.Result              `json:"results"`
	Summary engine.Summary               `json:"summary"`
}

// RunScenario validates the request, values the selected positions and
// appends a history record. A rejected request leaves the ledger and
// every other piece of state untouched.
func (s *Service) RunScenario(ctx context.Context, req RunRequest) (*RunOutput, error) {
	if req.Scope != models.ScopePortfolio && req.Scope != models.ScopeSingle {
		return nil, ErrInvalidScope
	}
	if req.Scope == models.ScopeSingle && req.SelectedAsset == "" {
		return nil, ErrNoAssetSelected
	}

	var customShock float64
	if req.CustomShock != nil {
		customShock = *req.CustomShock
	} else if req.ScenarioID == scenario.CustomID {
		return nil, ErrCustomShockRequired
	}

	sc, err := s.catalog.Resolve(req.ScenarioID, customShock, req.CustomName)
	if err != nil {
		return nil, err
	}

	positions := s.positions.List()
	if req.Scope == models.ScopeSingle {
		positions = s.positions.ByAsset(req.SelectedAsset)
	}

	ov, err := s.overrides.Active(ctx)
	if err != nil {
		s.logger.Warn("failed to read override slot, valuing without it", zap.Error(err))
		ov = nil
	}

	results := s.engine.Value(positions, &sc, ov)
	summary := engine.Aggregate(results)

	shock := sc.Shock
	rec := models.ScenarioHistoryRecord{
		ID:             uuid.NewString(),
		Timestamp:      s.now().UTC(),
		ScenarioName:   sc.Name,
		ScenarioType:   sc.Category,
		ScenarioScope:  req.Scope,
		ShockValue:     &shock,
		AssetsAnalyzed: len(results),
		SelectedAsset:  req.SelectedAsset,
		Results:        results,
		TotalImpact:    summary.TotalImpact,
		MaxLoss:        summary.MaxLoss,
		SessionID:      req.SessionID,
		UserAgent:      req.UserAgent,
		IsCustom:       sc.IsCustom(),
	}
	s.ledger.Record(ctx, rec)

	s.publish(ctx, &rec, false)

	s.logger.Info("scenario run complete",
		zap.String("scenario", sc.ID),
		zap.String("scope", req.Scope),
		zap.Int("assets", len(results)),
		zap.String("total_impact", summary.TotalImpact.StringFixed(2)))

	return &RunOutput{Record: rec, Results: results, Summary: summary}, nil
}

// BacktestRequest parameterizes a backtest run.
type BacktestRequest struct {
	WindowID  string `json:"window_id"`
	SessionID string `json:"session_id,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// BacktestOutput is the full outcome of a backtest run.
type BacktestOutput struct {
	Record  models.ScenarioHistoryRecord `json:"record"`
	Outcome *backtest.Outcome            `json:"outcome"`
}

// RunBacktest replays the requested window against the whole portfolio
// and appends a "backtesting" history record. The run aborts cleanly
// when the context is cancelled; nothing is recorded in that case.
func (s *Service) RunBacktest(ctx context.Context, req BacktestRequest, progress backtest.Progress) (*BacktestOutput, error) {
	positions := s.positions.List()

	out, err := s.backtests.Run(ctx, positions, backtest.Params{
		WindowID: req.WindowID,
		AsOf:     s.now().UTC(),
		Progress: progress,
	})
	if err != nil {
		return nil, err
	}

	rec := models.ScenarioHistoryRecord{
		ID:             uuid.NewString(),
		Timestamp:      s.now().UTC(),
		ScenarioName:   "Backtest: " + out.Window.Name,
		ScenarioType:   models.TypeBacktesting,
		ScenarioScope:  models.ScopePortfolio,
		AssetsAnalyzed: len(out.FinalResults),
		Results:        out.FinalResults,
		TotalImpact:    out.Summary.TotalImpact,
		MaxLoss:        out.Summary.MaxLoss,
		SessionID:      req.SessionID,
		UserAgent:      req.UserAgent,
		Metadata: map[string]any{
			"deal_accrual": out.DealAccrual.StringFixed(2),
			"knocked_out":  out.KnockedOutDeals,
		},
		BacktestMetadata: &models.BacktestMetadata{
			WindowID:      out.Window.ID,
			StartDate:     out.Window.StartDate,
			EndDate:       out.Window.EndDate,
			DaysSimulated: out.Window.Days,
		},
	}
	s.ledger.Record(ctx, rec)

	s.publish(ctx, &rec, true)

	return &BacktestOutput{Record: rec, Outcome: out}, nil
}

// ClearHistory wipes the ledger and announces the clear.
func (s *Service) ClearHistory(ctx context.Context, sessionID string) error {
	if err := s.ledger.Clear(ctx); err != nil {
		return err
	}
	if s.publisher != nil {
		if err := s.publisher.PublishHistoryCleared(ctx, sessionID); err != nil {
			s.logger.Warn("failed to publish history clear", zap.Error(err))
		}
	}
	return nil
}

func (s *Service) publish(ctx context.Context, rec *models.ScenarioHistoryRecord, isBacktest bool) {
	if s.publisher == nil {
		return
	}
	var err error
	if isBacktest {
		err = s.publisher.PublishBacktestRun(ctx, rec)
	} else {
		err = s.publisher.PublishScenarioRun(ctx, rec)
	}
	if err != nil {
		s.logger.Warn("failed to publish run event", zap.String("id", rec.ID), zap.Error(err))
	}
}
