// Package backtest replays canned historical market windows against the
// current portfolio, one trading day at a time. Each day applies the
// window's cumulative shock through the valuation engine and accrues the
// structured deals that are still alive; deals whose knock-out barrier
// is breached drop out of the replay from that day on.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/trogers1052/scenario-risk-service/internal/engine"
	"github.com/trogers1052/scenario-risk-service/internal/models"
	"github.com/trogers1052/scenario-risk-service/internal/refdata"
)

// ErrWindowNotFound is returned when the requested window id is not in
// the built-in set.
var ErrWindowNotFound = errors.New("backtest window not found")

const daysPerYear = 365

// Window is one canned historical replay period. TotalShock is the
// terminal cumulative equity shock reached on the final day.
type Window struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	TotalShock float64   `json:"total_shock"`
	Days       int       `json:"days"`
}

// DayRow is the replay outcome for a single trading day.
type DayRow struct {
	Day             int             `json:"day"`
	Date            time.Time       `json:"date"`
	CumulativeShock float64         `json:"cumulative_shock"`
	PortfolioImpact decimal.Decimal `json:"portfolio_impact"`
	DealAccrual     decimal.Decimal `json:"deal_accrual"`
	KnockedOut      []string        `json:"knocked_out,omitempty"`
}

// Outcome is the full result of a backtest run.
type Outcome struct {
	Window          Window
	Rows            []DayRow
	FinalResults    []models.Result
	Summary         engine.Summary
	DealAccrual     decimal.Decimal
	KnockedOutDeals []string
}

// Progress receives (day, totalDays) after each simulated day.
type Progress func(day, total int)

// Params selects and parameterizes a run. AsOf decides which barrier
// schedules are active; Progress may be nil.
type Params struct {
	WindowID string
	AsOf     time.Time
	Progress Progress
}

var builtinWindows = []Window{
	{ID: "crisis-2008", Name: "2008 Financial Crisis", StartDate: date(2008, time.September, 15), EndDate: date(2009, time.March, 9), TotalShock: -0.40, Days: 120},
	{ID: "covid-2020", Name: "COVID-19 March 2020", StartDate: date(2020, time.February, 19), EndDate: date(2020, time.March, 23), TotalShock: -0.30, Days: 23},
	{ID: "mild-recession", Name: "Mild Recession", StartDate: date(2022, time.April, 1), EndDate: date(2022, time.June, 24), TotalShock: -0.15, Days: 60},
	{ID: "moderate-crisis", Name: "Moderate Crisis", StartDate: date(2022, time.August, 15), EndDate: date(2022, time.December, 16), TotalShock: -0.25, Days: 90},
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Windows returns the built-in replay windows in a stable order.
func Windows() []Window {
	out := make([]Window, len(builtinWindows))
	copy(out, builtinWindows)
	return out
}

// Runner drives backtest replays through the valuation engine.
type Runner struct {
	engine *engine.Engine
	ref    *refdata.Reference
	logger *zap.Logger
}

// NewRunner returns a Runner. A nil logger disables logging.
func NewRunner(eng *engine.Engine, ref *refdata.Reference, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{engine: eng, ref: ref, logger: logger}
}

// Run replays the selected window against the positions. It checks the
// context between days and returns the context error when cancelled,
// discarding partial rows.
func (r *Runner) Run(ctx context.Context, positions []models.Position, p Params) (*Outcome, error) {
	window, err := findWindow(p.WindowID)
	if err != nil {
		return nil, err
	}

	r.logger.Info("starting backtest",
		zap.String("window", window.ID),
		zap.Int("days", window.Days),
		zap.Int("positions", len(positions)))

	live := r.liveDeals(p.AsOf)
	knockedOut := make([]string, 0)
	totalAccrual := decimal.Zero
	rows := make([]DayRow, 0, window.Days)

	span := window.EndDate.Sub(window.StartDate)
	var finalResults []models.Result

	for day := 1; day <= window.Days; day++ {
		select {
		case <-ctx.Done():
			r.logger.Warn("backtest cancelled",
				zap.String("window", window.ID),
				zap.Int("day", day))
			return nil, ctx.Err()
		default:
		}

		frac := float64(day) / float64(window.Days)
		cum := window.TotalShock * frac
		rowDate := window.StartDate.Add(time.Duration(float64(span) * frac))

		sc := models.Scenario{
			ID:       window.ID,
			Name:     window.Name,
			Shock:    cum,
			Category: models.CategoryStressTest,
		}
		results := r.engine.Value(positions, &sc, nil)
		summary := engine.Aggregate(results)

		koToday := make([]string, 0)
		accrual := decimal.Zero
		for id, deal := range live {
			if deal.koLevel > 0 && 1+cum <= deal.koLevel {
				koToday = append(koToday, id)
				continue
			}
			accrual = accrual.Add(deal.Notional.Mul(deal.AccrualRate).Div(decimal.NewFromInt(daysPerYear)))
		}
		for _, id := range koToday {
			delete(live, id)
			knockedOut = append(knockedOut, id)
		}
		totalAccrual = totalAccrual.Add(accrual)

		rows = append(rows, DayRow{
			Day:             day,
			Date:            rowDate,
			CumulativeShock: cum,
			PortfolioImpact: summary.TotalImpact,
			DealAccrual:     accrual,
			KnockedOut:      koToday,
		})
		if day == window.Days {
			finalResults = results
		}

		if p.Progress != nil {
			p.Progress(day, window.Days)
		}
	}

	outcome := &Outcome{
		Window:          window,
		Rows:            rows,
		FinalResults:    finalResults,
		Summary:         engine.Aggregate(finalResults),
		DealAccrual:     totalAccrual,
		KnockedOutDeals: knockedOut,
	}

	r.logger.Info("backtest complete",
		zap.String("window", window.ID),
		zap.String("total_impact", outcome.Summary.TotalImpact.StringFixed(2)),
		zap.Int("knocked_out", len(knockedOut)))

	return outcome, nil
}

type liveDeal struct {
	refdata.Deal
	koLevel float64
}

// liveDeals returns all deals keyed by id, with the knock-out level of
// any barrier observable as of the given date. Deals whose barrier
// window does not cover asOf still accrue but cannot knock out.
func (r *Runner) liveDeals(asOf time.Time) map[string]liveDeal {
	live := make(map[string]liveDeal, len(r.ref.Deals))
	for _, d := range r.ref.Deals {
		ld := liveDeal{Deal: d}
		for _, b := range d.Barriers {
			if b.Type == refdata.BarrierKnockOut && !asOf.Before(b.StartDate) && !asOf.After(b.EndDate) {
				ld.koLevel = b.Level.InexactFloat64()
				break
			}
		}
		live[d.ID] = ld
	}
	return live
}

func findWindow(id string) (Window, error) {
	for _, w := range builtinWindows {
		if w.ID == id {
			return w, nil
		}
	}
	return Window{}, fmt.Errorf("%w: %s", ErrWindowNotFound, id)
}
