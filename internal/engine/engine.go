// Package engine implements the scenario valuation engine: given a
// position, a market shock and optional override data it computes a
// shocked price and dollar P&L impact from linearized risk-factor
// sensitivities.
//
// All monetary values use shopspring/decimal. The shock arithmetic runs
// in float64 and results are converted to decimal at the boundary.
package engine

import (
	"math"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/trogers1052/scenario-risk-service/internal/models"
	"github.com/trogers1052/scenario-risk-service/internal/refdata"
)

// thetaDecayPerDay scales the option theta post-adjustment.
const thetaDecayPerDay = 0.01

// monteCarloReferencePaths anchors the simulation-quality factor:
// quality = ln(numPaths) / ln(monteCarloReferencePaths).
const monteCarloReferencePaths = 1000

// Valuation is the outcome of shocking a single position.
type Valuation struct {
	NewPrice     decimal.Decimal
	Impact       decimal.Decimal
	Shock        float64
	IsEditedData bool
	EditedPrice  *decimal.Decimal
}

// strategy applies a category-specific shock to a position's price.
// price is the float64 reference price; the return value is the shocked
// price before the option theta adjustment.
type strategy func(e *Engine, price float64, pos *models.Position, sc *models.Scenario) float64

// Engine values positions against scenarios. The random source feeds
// only the Monte Carlo path and is injected so tests can fix the seed.
type Engine struct {
	ref        *refdata.Reference
	rng        *rand.Rand
	strategies map[string]strategy
}

// New creates an engine over the given reference data and random source.
func New(ref *refdata.Reference, rng *rand.Rand) *Engine {
	e := &Engine{ref: ref, rng: rng}
	e.strategies = map[string]strategy{
		models.CategoryEquity:     shockEquity,
		models.CategoryFX:         shockMultiplicative,
		models.CategoryRates:      shockRates,
		models.CategoryVolatility: shockVolatility,
		models.CategoryCredit:     shockCredit,
		models.CategoryStressTest: shockStressTest,
		models.CategoryMonteCarlo: shockMonteCarlo,
	}
	return e
}

// ShockedPrice computes the shocked price and impact for one position.
// An override matching the position's asset takes precedence over the
// category dispatch. Unknown categories fall back to the plain
// multiplicative path; that is documented behavior, not an error.
func (e *Engine) ShockedPrice(pos *models.Position, sc *models.Scenario, ov *models.MarketDataOverride) Valuation {
	price := pos.Price.InexactFloat64()
	shock := sc.Shock

	var newPrice float64
	var edited bool
	var editedPrice *decimal.Decimal

	if ov != nil && ov.Asset == pos.Asset && !ov.MarketData.Empty() {
		newPrice = e.applyOverride(price, shock, ov)
		edited = true
		if ov.MarketData.Spot != nil {
			p := ov.MarketData.Spot.Spot
			editedPrice = &p
		}
	} else {
		apply, ok := e.strategies[sc.Category]
		if !ok {
			apply = shockMultiplicative
		}
		newPrice = apply(e, price, pos, sc)
	}

	if pos.InstrumentType == models.InstrumentOption {
		newPrice += pos.RiskFactors.Theta * thetaDecayPerDay
	}

	newPriceDec := decimal.NewFromFloat(newPrice)
	return Valuation{
		NewPrice:     newPriceDec,
		Impact:       newPriceDec.Sub(pos.Price).Mul(pos.Quantity),
		Shock:        shock,
		IsEditedData: edited,
		EditedPrice:  editedPrice,
	}
}

// applyOverride values the position from user-edited market data.
// Exactly one data shape is present (callers check Empty first).
func (e *Engine) applyOverride(price, shock float64, ov *models.MarketDataOverride) float64 {
	md := &ov.MarketData
	switch {
	case md.Spot != nil:
		return md.Spot.Spot.InexactFloat64() * (1 + shock)
	case md.VolSurface != nil:
		volPoint := md.VolSurface.ReferencePoint()
		return price * (1 + shock + (volPoint-0.20)*0.1)
	default:
		ratePoint := md.YieldCurve[0].Rate
		return price * (1 + shock + (ratePoint-0.05)*0.1)
	}
}

func shockEquity(_ *Engine, price float64, pos *models.Position, sc *models.Scenario) float64 {
	rf := pos.RiskFactors
	return price * (1 + rf.Delta*sc.Shock + 0.5*rf.Gamma*sc.Shock*sc.Shock)
}

func shockMultiplicative(_ *Engine, price float64, _ *models.Position, sc *models.Scenario) float64 {
	return price * (1 + sc.Shock)
}

func shockRates(e *Engine, price float64, pos *models.Position, sc *models.Scenario) float64 {
	rf := pos.RiskFactors
	baseRate := e.ref.BaseRate(pos.Asset)
	durationEffect := -rf.Duration * sc.Shock * baseRate
	convexityEffect := 0.5 * rf.Convexity * sc.Shock * sc.Shock
	return price * (1 + durationEffect + convexityEffect)
}

func shockVolatility(e *Engine, price float64, pos *models.Position, sc *models.Scenario) float64 {
	volScale := e.ref.VolScale(pos.Asset)
	return price * (1 + pos.RiskFactors.Vega*sc.Shock*volScale)
}

func shockCredit(e *Engine, price float64, pos *models.Position, sc *models.Scenario) float64 {
	return price * (1 - pos.RiskFactors.Duration*sc.Shock*e.ref.CreditBaseRate())
}

func shockStressTest(e *Engine, price float64, pos *models.Position, sc *models.Scenario) float64 {
	rf := pos.RiskFactors
	deltaEffect := rf.Delta * sc.Shock
	if e.ref.UsesVolSurface(pos.Asset) {
		surfaceEffect := rf.Vega * math.Abs(sc.Shock) * 0.3
		return price * (1 + deltaEffect + surfaceEffect)
	}
	durationEffect := -rf.Duration * sc.Shock * 0.1
	vegaEffect := rf.Vega * math.Abs(sc.Shock) * 0.05
	return price * (1 + deltaEffect + durationEffect + vegaEffect)
}

func shockMonteCarlo(e *Engine, price float64, _ *models.Position, sc *models.Scenario) float64 {
	numPaths := sc.NumSimulations
	if numPaths <= 0 {
		numPaths = monteCarloReferencePaths
	}
	quality := math.Log(float64(numPaths)) / math.Log(monteCarloReferencePaths)
	adjusted := (sc.Shock + (e.rng.Float64()-0.5)*0.02) * quality
	return price * (1 + adjusted)
}

// Value runs the engine over a set of positions and builds the per-
// position result rows. The override is consulted per position; only
// the matching asset is affected.
func (e *Engine) Value(positions []models.Position, sc *models.Scenario, ov *models.MarketDataOverride) []models.Result {
	results := make([]models.Result, 0, len(positions))
	for i := range positions {
		pos := &positions[i]
		v := e.ShockedPrice(pos, sc, ov)
		results = append(results, models.Result{
			Asset:         pos.Asset,
			Quantity:      pos.Quantity,
			Shock:         v.Shock,
			Impact:        v.Impact,
			OriginalValue: pos.Value(),
			ShockedValue:  v.NewPrice.Mul(pos.Quantity),
			OriginalPrice: pos.Price,
			NewPrice:      v.NewPrice,
			IsEditedData:  v.IsEditedData,
			EditedPrice:   v.EditedPrice,
			RiskMetrics:   pos.RiskFactors,
		})
	}
	return results
}
