// Package scenario holds the fixed catalog of named market shocks plus
// resolution of the run-time custom variant.
package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/trogers1052/scenario-risk-service/internal/models"
)

var (
	// ErrNotFound is returned for an unknown scenario ID.
	ErrNotFound = errors.New("scenario not found")

	// ErrCustomNameRequired is returned when the custom scenario is
	// selected without a usable name.
	ErrCustomNameRequired = errors.New("custom scenario requires a name")
)

// CustomID is the catalog ID of the user-defined scenario.
const CustomID = "custom"

var standardScenarios = []models.Scenario{
	{ID: "equity-down-5", Name: "Equity -5%", Shock: -0.05, Description: "Market downturn scenario", Category: models.CategoryEquity},
	{ID: "equity-up-5", Name: "Equity +5%", Shock: 0.05, Description: "Market upturn scenario", Category: models.CategoryEquity},
	{ID: "dividend-yield-up", Name: "Dividend Yield +50bps", Shock: 0.005, Description: "Dividend yield increase scenario", Category: models.CategoryEquity},
	{ID: "rates-up-50bps", Name: "Rates +50bps", Shock: 0.005, Description: "Parallel yield curve shift", Category: models.CategoryRates},
	{ID: "curve-twist", Name: "Curve Twist", Shock: 0.01, Description: "Yield curve twist scenario", Category: models.CategoryRates},
	{ID: "fx-up-2", Name: "FX +2%", Shock: 0.02, Description: "Currency appreciation", Category: models.CategoryFX},
	{ID: "fx-vol-spike", Name: "FX Volatility Spike", Shock: 0.30, Description: "FX volatility increase", Category: models.CategoryVolatility},
	{ID: "credit-ig-widen", Name: "IG Credit +100bps", Shock: 0.01, Description: "Investment grade spread widening", Category: models.CategoryCredit},
	{ID: "credit-hy-widen", Name: "HY Credit +200bps", Shock: 0.02, Description: "High yield spread widening", Category: models.CategoryCredit},
}

var stressScenarios = []models.Scenario{
	{ID: "2008-financial-crisis", Name: "2008 Financial Crisis", Shock: -0.40, Description: "Historical replication with 40% equity decline", Category: models.CategoryStressTest, Severity: models.SeverityExtreme, HistoricalBasis: "2008-09-15"},
	{ID: "covid-march-2020", Name: "COVID-19 March 2020", Shock: -0.30, Description: "Pandemic market shock simulation", Category: models.CategoryStressTest, Severity: models.SeveritySevere, HistoricalBasis: "2020-03-16"},
	{ID: "mild-recession", Name: "Mild Recession", Shock: -0.15, Description: "Mild economic downturn", Category: models.CategoryStressTest, Severity: models.SeverityMild},
	{ID: "moderate-crisis", Name: "Moderate Crisis", Shock: -0.25, Description: "Moderate market stress", Category: models.CategoryStressTest, Severity: models.SeverityModerate},
}

var monteCarloScenarios = []models.Scenario{
	{ID: "daily-var-95", Name: "Daily VaR 95%", Description: "10,000 simulations with normal distribution", Category: models.CategoryMonteCarlo, NumSimulations: 10000, ConfidenceLevel: 0.95, TimeHorizon: 1, DistributionType: "normal"},
	{ID: "monthly-var-99", Name: "Monthly VaR 99%", Description: "50,000 simulations with t-distribution", Category: models.CategoryMonteCarlo, NumSimulations: 50000, ConfidenceLevel: 0.99, TimeHorizon: 21, DistributionType: "t-distribution"},
	{ID: "custom-mc", Name: "Custom Monte Carlo", Description: "Customizable parameters and distributions", Category: models.CategoryMonteCarlo, NumSimulations: 25000, ConfidenceLevel: 0.95, TimeHorizon: 5, DistributionType: "historical"},
}

var customScenario = models.Scenario{
	ID: CustomID, Name: "Custom", Description: "Define your own shock", Category: models.CategoryCustom,
}

// Catalog is the immutable scenario set.
type Catalog struct {
	byID    map[string]models.Scenario
	ordered []models.Scenario
}

// NewCatalog builds the built-in catalog.
func NewCatalog() *Catalog {
	all := make([]models.Scenario, 0, len(standardScenarios)+len(stressScenarios)+len(monteCarloScenarios)+1)
	all = append(all, standardScenarios...)
	all = append(all, stressScenarios...)
	all = append(all, monteCarloScenarios...)
	all = append(all, customScenario)

	byID := make(map[string]models.Scenario, len(all))
	for _, s := range all {
		byID[s.ID] = s
	}
	return &Catalog{byID: byID, ordered: all}
}

// All returns the catalog entries in display order.
func (c *Catalog) All() []models.Scenario {
	out := make([]models.Scenario, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Get returns the catalog entry with the given ID.
func (c *Catalog) Get(id string) (models.Scenario, error) {
	s, ok := c.byID[id]
	if !ok {
		return models.Scenario{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// Resolve returns an executable scenario. For the custom variant the
// caller-supplied name is required and the shock arrives in percentage
// points, so it is divided by 100 here. Catalog entries pass through
// unchanged.
func (c *Catalog) Resolve(id string, customShockPct float64, customName string) (models.Scenario, error) {
	s, err := c.Get(id)
	if err != nil {
		return models.Scenario{}, err
	}
	if !s.IsCustom() {
		return s, nil
	}

	name := strings.TrimSpace(customName)
	if name == "" {
		return models.Scenario{}, ErrCustomNameRequired
	}
	s.Name = name
	s.Shock = customShockPct / 100
	return s, nil
}
