package engine

import (
	"github.com/shopspring/decimal"

	"github.com/trogers1052/scenario-risk-service/internal/models"
)

// Default shock axes for the risk matrix. Price shocks are percentages,
// vol shocks are percentage points.
var (
	DefaultPriceShocks = []float64{-10, -5, 0, 5, 10}
	DefaultVolShocks   = []float64{-10, -5, 0, 5, 10}
)

// MatrixCell is one price-shock x vol-shock grid cell of aggregate
// portfolio P&L, approximated with the first-order greeks:
//
//	P&L ≈ Δ·ΔS + ½Γ·ΔS² + ν·Δσ
type MatrixCell struct {
	PriceShock float64         `json:"price_shock"`
	VolShock   float64         `json:"vol_shock"`
	PnL        decimal.Decimal `json:"pnl"`
}

// MatrixSummary aggregates the grid extremes and portfolio exposure.
type MatrixSummary struct {
	MaxGain       decimal.Decimal `json:"max_gain"`
	MaxLoss       decimal.Decimal `json:"max_loss"`
	TotalExposure decimal.Decimal `json:"total_exposure"`
	NumPositions  int             `json:"num_positions"`
}

// RiskMatrix holds the computed grid, row-major by vol shock.
type RiskMatrix struct {
	PriceShocks []float64      `json:"price_shocks"`
	VolShocks   []float64      `json:"vol_shocks"`
	Cells       [][]MatrixCell `json:"cells"`
	Summary     MatrixSummary  `json:"summary"`
}

func cellPnL(positions []models.Position, priceShock, volShock float64) float64 {
	var total float64
	for i := range positions {
		pos := &positions[i]
		spot := pos.Price.InexactFloat64()
		qty := pos.Quantity.InexactFloat64()
		deltaS := spot * priceShock / 100

		rf := pos.RiskFactors
		total += rf.Delta*deltaS*qty + 0.5*rf.Gamma*deltaS*deltaS*qty + rf.Vega*volShock*qty
	}
	return total
}

// ComputeRiskMatrix evaluates the portfolio P&L over the given shock
// axes. Nil axes use the defaults.
func ComputeRiskMatrix(positions []models.Position, priceShocks, volShocks []float64) RiskMatrix {
	if len(priceShocks) == 0 {
		priceShocks = DefaultPriceShocks
	}
	if len(volShocks) == 0 {
		volShocks = DefaultVolShocks
	}

	var exposure decimal.Decimal
	for i := range positions {
		exposure = exposure.Add(positions[i].Value())
	}

	cells := make([][]MatrixCell, 0, len(volShocks))
	maxGain := decimal.Zero
	maxLoss := decimal.Zero
	for _, vs := range volShocks {
		row := make([]MatrixCell, 0, len(priceShocks))
		for _, ps := range priceShocks {
			pnl := decimal.NewFromFloat(cellPnL(positions, ps, vs))
			if pnl.GreaterThan(maxGain) {
				maxGain = pnl
			}
			if pnl.LessThan(maxLoss) {
				maxLoss = pnl
			}
			row = append(row, MatrixCell{PriceShock: ps, VolShock: vs, PnL: pnl})
		}
		cells = append(cells, row)
	}

	return RiskMatrix{
		PriceShocks: priceShocks,
		VolShocks:   volShocks,
		Cells:       cells,
		Summary: MatrixSummary{
			MaxGain:       maxGain,
			MaxLoss:       maxLoss,
			TotalExposure: exposure,
			NumPositions:  len(positions),
		},
	}
}
