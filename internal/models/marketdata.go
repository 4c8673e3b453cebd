package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SpotQuote is a spot/bid/ask triple for one asset.
type SpotQuote struct {
	Spot decimal.Decimal `json:"spot"`
	Bid  decimal.Decimal `json:"bid"`
	Ask  decimal.Decimal `json:"ask"`
}

// VolSurface is a strike x maturity matrix of implied volatilities
// (decimal fractions, e.g. 0.25 for 25%).
type VolSurface struct {
	Strikes    []float64   `json:"strikes"`
	Maturities []string    `json:"maturities"`
	Vols       [][]float64 `json:"vols"`
}

// ReferencePoint returns the surface's designated reference cell: the
// ATM strike (middle column) at the shortest maturity. Returns 0 for an
// empty surface.
func (v *VolSurface) ReferencePoint() float64 {
	if v == nil || len(v.Vols) == 0 || len(v.Vols[0]) == 0 {
		return 0
	}
	return v.Vols[0][len(v.Vols[0])/2]
}

// CurvePoint is one node of a yield curve.
type CurvePoint struct {
	Date  time.Time `json:"date"`
	Rate  float64   `json:"rate"`
	Tenor string    `json:"tenor"`
}

// YieldCurve is an ordered list of curve points, shortest tenor first.
type YieldCurve []CurvePoint

// Rate returns the rate at the given tenor, or 0 if the tenor is not on
// the curve.
func (c YieldCurve) Rate(tenor string) float64 {
	for _, p := range c {
		if p.Tenor == tenor {
			return p.Rate
		}
	}
	return 0
}

// MarketData carries one user-edited market data shape. At most one of
// the three fields is populated.
type MarketData struct {
	Spot       *SpotQuote  `json:"spot,omitempty"`
	VolSurface *VolSurface `json:"vol_surface,omitempty"`
	YieldCurve YieldCurve  `json:"yield_curve,omitempty"`
}

// Empty reports whether none of the data shapes is present.
func (m *MarketData) Empty() bool {
	return m.Spot == nil && m.VolSurface == nil && len(m.YieldCurve) == 0
}

// MarketDataOverride substitutes edited market data for one asset on the
// next scenario run. Session-scoped, single slot, last write wins.
type MarketDataOverride struct {
	Asset        string     `json:"asset"`
	MarketData   MarketData `json:"market_data"`
	Timestamp    time.Time  `json:"timestamp"`
	ScenarioName string     `json:"scenario_name"`
}
