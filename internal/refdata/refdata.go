// Package refdata provides the static market reference tables the
// valuation engine and backtester read at startup: spot quotes, vol
// surfaces, a yield curve and per-asset configuration. Everything here
// is an immutable lookup table.
package refdata

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trogers1052/scenario-risk-service/internal/models"
)

// DefaultVolScale is the vega scale applied to volatility shocks when an
// asset has no known ATM vol.
const DefaultVolScale = 0.01

// Reference is the read-only market data snapshot.
type Reference struct {
	Spots       map[string]models.SpotQuote
	VolSurfaces map[string]*models.VolSurface
	ATMVols     map[string]float64
	Curve       models.YieldCurve

	// volSurfaceAssets marks assets whose stress-test valuation goes
	// through the vol-surface impact path instead of the damped
	// duration/vega combination.
	volSurfaceAssets map[string]bool

	Deals []Deal
}

// BaseRate returns the yield-curve reference rate for a rates shock
// against the given asset label. The tenor is inferred from the label;
// assets with no recognizable tenor use 1.0 (pure parallel shift).
func (r *Reference) BaseRate(asset string) float64 {
	switch {
	case strings.Contains(asset, "3Y"):
		return r.Curve.Rate("3Y")
	case strings.Contains(asset, "5Y"):
		return r.Curve.Rate("5Y")
	default:
		return 1.0
	}
}

// CreditBaseRate returns the short-end rate used for credit spread
// shocks.
func (r *Reference) CreditBaseRate() float64 {
	return r.Curve.Rate("1Y")
}

// VolScale returns the ATM vol fraction for the asset, or
// DefaultVolScale when unknown.
func (r *Reference) VolScale(asset string) float64 {
	if v, ok := r.ATMVols[asset]; ok {
		return v
	}
	return DefaultVolScale
}

// UsesVolSurface reports whether stress-test shocks for the asset are
// driven by its vol surface.
func (r *Reference) UsesVolSurface(asset string) bool {
	return r.volSurfaceAssets[asset]
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Load builds the built-in reference snapshot.
func Load() *Reference {
	return &Reference{
		Spots: map[string]models.SpotQuote{
			"AAPL": {Spot: decimal.NewFromFloat(200.00), Bid: decimal.NewFromFloat(199.95), Ask: decimal.NewFromFloat(200.05)},
			"TSLA": {Spot: decimal.NewFromFloat(250.00), Bid: decimal.NewFromFloat(249.90), Ask: decimal.NewFromFloat(250.10)},
			"MSFT": {Spot: decimal.NewFromFloat(350.00), Bid: decimal.NewFromFloat(349.90), Ask: decimal.NewFromFloat(350.10)},
			"SPX":  {Spot: decimal.NewFromFloat(4500.00), Bid: decimal.NewFromFloat(4499.50), Ask: decimal.NewFromFloat(4500.50)},
		},
		VolSurfaces: map[string]*models.VolSurface{
			"SPX_OPTION": {
				Strikes:    []float64{0.90, 0.95, 1.00, 1.05, 1.10},
				Maturities: []string{"1M", "3M", "6M", "1Y"},
				Vols: [][]float64{
					{0.24, 0.22, 0.20, 0.19, 0.18},
					{0.25, 0.23, 0.21, 0.20, 0.19},
					{0.26, 0.24, 0.22, 0.21, 0.20},
					{0.27, 0.25, 0.23, 0.22, 0.21},
				},
			},
		},
		ATMVols: map[string]float64{
			"AAPL":       0.28,
			"TSLA":       0.45,
			"SPX_OPTION": 0.20,
		},
		Curve: models.YieldCurve{
			{Date: date(2026, time.March, 15), Rate: 0.048120, Tenor: "1Y"},
			{Date: date(2027, time.March, 15), Rate: 0.041500, Tenor: "2Y"},
			{Date: date(2028, time.March, 15), Rate: 0.032856, Tenor: "3Y"},
			{Date: date(2030, time.March, 15), Rate: 0.035412, Tenor: "5Y"},
			{Date: date(2035, time.March, 15), Rate: 0.039875, Tenor: "10Y"},
		},
		volSurfaceAssets: map[string]bool{
			"SPX_OPTION": true,
		},
		Deals: builtinDeals(),
	}
}

// NewReference builds a reference snapshot from explicit tables. Used by
// tests that need fixed rates or vols.
func NewReference(curve models.YieldCurve, atmVols map[string]float64, volSurfaceAssets map[string]bool) *Reference {
	return &Reference{
		Spots:            map[string]models.SpotQuote{},
		VolSurfaces:      map[string]*models.VolSurface{},
		ATMVols:          atmVols,
		Curve:            curve,
		volSurfaceAssets: volSurfaceAssets,
	}
}
