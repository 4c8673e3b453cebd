package refdata

import (
	"time"

	"github.com/shopspring/decimal"
)

// Barrier type constants
const (
	BarrierKnockOut = "knock-out"
	BarrierKnockIn  = "knock-in"
)

// BarrierSchedule is one barrier observation window on a deal.
type BarrierSchedule struct {
	Type      string          `json:"type"`
	Level     decimal.Decimal `json:"level"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
}

// Fixing is a scheduled rate or price observation.
type Fixing struct {
	Date time.Time       `json:"date"`
	Rate decimal.Decimal `json:"rate"`
}

// Deal is a structured trade with lifecycle terms. Consumed only by the
// backtester, which drops knocked-out deals from the replay.
type Deal struct {
	ID          string            `json:"id"`
	Underlying  string            `json:"underlying"`
	Notional    decimal.Decimal   `json:"notional"`
	AccrualRate decimal.Decimal   `json:"accrual_rate"`
	Barriers    []BarrierSchedule `json:"barriers"`
	Fixings     []Fixing          `json:"fixings"`
}

// KnockOutLevel returns the deal's knock-out barrier as a fraction of
// the initial underlying price, or 0 when the deal has none.
func (d *Deal) KnockOutLevel() float64 {
	for _, b := range d.Barriers {
		if b.Type == BarrierKnockOut {
			return b.Level.InexactFloat64()
		}
	}
	return 0
}

func builtinDeals() []Deal {
	return []Deal{
		{
			ID:          "AUTOCALL-AAPL-26",
			Underlying:  "AAPL",
			Notional:    decimal.NewFromInt(1_000_000),
			AccrualRate: decimal.NewFromFloat(0.085),
			Barriers: []BarrierSchedule{
				{Type: BarrierKnockOut, Level: decimal.NewFromFloat(0.70), StartDate: date(2026, time.January, 2), EndDate: date(2026, time.December, 31)},
			},
			Fixings: []Fixing{
				{Date: date(2026, time.June, 30), Rate: decimal.NewFromFloat(0.0425)},
				{Date: date(2026, time.December, 31), Rate: decimal.NewFromFloat(0.0425)},
			},
		},
		{
			ID:          "BARRIER-TSLA-26",
			Underlying:  "TSLA",
			Notional:    decimal.NewFromInt(500_000),
			AccrualRate: decimal.NewFromFloat(0.1125),
			Barriers: []BarrierSchedule{
				{Type: BarrierKnockOut, Level: decimal.NewFromFloat(0.60), StartDate: date(2026, time.January, 2), EndDate: date(2026, time.December, 31)},
				{Type: BarrierKnockIn, Level: decimal.NewFromFloat(1.30), StartDate: date(2026, time.January, 2), EndDate: date(2026, time.December, 31)},
			},
		},
	}
}
