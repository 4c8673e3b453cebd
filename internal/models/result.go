package models

import (
	"github.com/shopspring/decimal"
)

// Result is the valuation outcome for one position under one scenario
// run. Derived and immutable once created.
type Result struct {
	Asset         string           `json:"asset"`
	Quantity      decimal.Decimal  `json:"quantity"`
	Shock         float64          `json:"shock"`
	Impact        decimal.Decimal  `json:"impact"`
	OriginalValue decimal.Decimal  `json:"original_value"`
	ShockedValue  decimal.Decimal  `json:"shocked_value"`
	OriginalPrice decimal.Decimal  `json:"original_price"`
	NewPrice      decimal.Decimal  `json:"new_price"`
	IsEditedData  bool             `json:"is_edited_data"`
	EditedPrice   *decimal.Decimal `json:"edited_price,omitempty"`
	RiskMetrics   RiskFactors      `json:"risk_metrics"`
}
