package models

// Scenario category constants
const (
	CategoryEquity     = "equity"
	CategoryRates      = "rates"
	CategoryFX         = "fx"
	CategoryVolatility = "volatility"
	CategoryCredit     = "credit"
	CategoryStressTest = "stress-test"
	CategoryMonteCarlo = "monte-carlo"
	CategoryCustom     = "custom"
)

// Stress severity constants
const (
	SeverityMild     = "mild"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
	SeverityExtreme  = "extreme"
)

// Scenario is a named market shock definition. Catalog entries are
// immutable; the custom variant gets its name and shock supplied at run
// time. Shock is a decimal fraction, e.g. -0.05 for -5%.
type Scenario struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Shock       float64 `json:"shock"`
	Description string  `json:"description"`

	// Stress-test metadata
	Severity        string `json:"severity,omitempty"`
	HistoricalBasis string `json:"historical_basis,omitempty"`

	// Monte Carlo metadata
	NumSimulations   int     `json:"num_simulations,omitempty"`
	ConfidenceLevel  float64 `json:"confidence_level,omitempty"`
	TimeHorizon      int     `json:"time_horizon,omitempty"`
	DistributionType string  `json:"distribution_type,omitempty"`
}

// IsCustom reports whether the scenario is the user-defined variant.
func (s *Scenario) IsCustom() bool {
	return s.Category == CategoryCustom
}
