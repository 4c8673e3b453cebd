package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/trogers1052/scenario-risk-service/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Summary holds the portfolio-level statistics for one scenario run.
//
// VaR95 is the empirical 5% quantile of per-position impacts within the
// single run, not a statistical VaR over a return distribution. That is
// an intentional simplification carried over from the dashboard this
// service replaced.
type Summary struct {
	TotalImpact      decimal.Decimal `json:"total_impact"`
	ImpactPercentage decimal.Decimal `json:"impact_percentage"`
	MaxLoss          decimal.Decimal `json:"max_loss"`
	VaR95            decimal.Decimal `json:"var_95"`
}

// Aggregate sums per-position impacts into portfolio statistics. An
// empty result set (or a zero-value portfolio) yields zeros, never NaN.
func Aggregate(results []models.Result) Summary {
	var total, totalOriginal decimal.Decimal
	maxLoss := decimal.Zero

	impacts := make([]decimal.Decimal, 0, len(results))
	for _, r := range results {
		total = total.Add(r.Impact)
		totalOriginal = totalOriginal.Add(r.OriginalPrice.Mul(r.Quantity))
		impacts = append(impacts, r.Impact)
		if r.Impact.LessThan(maxLoss) {
			maxLoss = r.Impact
		}
	}

	var pct decimal.Decimal
	if !totalOriginal.IsZero() {
		pct = total.Div(totalOriginal).Mul(hundred)
	}

	var var95 decimal.Decimal
	if n := len(impacts); n > 0 {
		sort.Slice(impacts, func(i, j int) bool { return impacts[i].LessThan(impacts[j]) })
		var95 = impacts[n*5/100]
	}

	return Summary{
		TotalImpact:      total,
		ImpactPercentage: pct,
		MaxLoss:          maxLoss,
		VaR95:            var95,
	}
}
