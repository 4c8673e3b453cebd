package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Instrument type constants
const (
	InstrumentEquity    = "equity"
	InstrumentBond      = "bond"
	InstrumentOption    = "option"
	InstrumentSwap      = "swap"
	InstrumentFXForward = "fx-forward"
)

// RiskFactors holds the linearized sensitivities used by the valuation
// engine. Semantics depend on the instrument type: equities carry delta,
// bonds duration/convexity, options the full option greeks.
type RiskFactors struct {
	Delta     float64 `json:"delta"`
	Gamma     float64 `json:"gamma"`
	Duration  float64 `json:"duration"`
	Convexity float64 `json:"convexity"`
	Vega      float64 `json:"vega"`
	Theta     float64 `json:"theta"`
}

// Position represents a current portfolio holding
type Position struct {
	ID             string          `json:"id"`
	Asset          string          `json:"asset"`
	Quantity       decimal.Decimal `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	InstrumentType string          `json:"instrument_type"`
	RiskFactors    RiskFactors     `json:"risk_factors"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Value returns the current market value of the position.
func (p *Position) Value() decimal.Decimal {
	return p.Price.Mul(p.Quantity)
}

// DefaultRiskFactors returns the standard sensitivities assigned to a new
// position of the given instrument type. Unknown types get the equity
// profile.
func DefaultRiskFactors(instrumentType string) RiskFactors {
	switch instrumentType {
	case InstrumentBond:
		return RiskFactors{Duration: 4.0, Convexity: 20.0}
	case InstrumentOption:
		return RiskFactors{Delta: 0.5, Gamma: 0.1, Vega: 10.0, Theta: -0.02}
	case InstrumentSwap:
		return RiskFactors{Duration: 3.0, Convexity: 15.0}
	case InstrumentFXForward:
		return RiskFactors{Delta: 1.0, Duration: 0.5}
	default:
		return RiskFactors{Delta: 1.0}
	}
}
