package compare

import (
	"fmt"

	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
)

// Strategy is a named conversion strategy to compare against the baseline
type Strategy struct {
	Name        string
	Description string
	Conversion  domain.ConversionFunc
}

// FixedAmountStrategies builds one fixed annual strategy per amount
func FixedAmountStrategies(amounts []decimal.Decimal, window domain.AgeRange) []Strategy {
	strategies := make([]Strategy, 0, len(amounts))
	for _, a := range amounts {
		strategies = append(strategies, Strategy{
			Name:        fmt.Sprintf("fixed_%s", a.StringFixed(0)),
			Description: fmt.Sprintf("Convert $%s a year at ages %s", a.StringFixed(0), window),
			Conversion:  domain.FixedAnnualConversion(a, window),
		})
	}
	return strategies
}

// ComparisonResult represents a single scenario with calculated metrics
type ComparisonResult struct {
	ScenarioName string `json:"scenarioName"`
	Description  string `json:"description"`

	// Key Metrics
	LifetimeTax      decimal.Decimal `json:"lifetimeTax"`
	LifetimeIRMAA    decimal.Decimal `json:"lifetimeIrmaa"`
	TotalConverted   decimal.Decimal `json:"totalConverted"`
	FinalRoth        decimal.Decimal `json:"finalRoth"`
	FinalIRA         decimal.Decimal `json:"finalIra"`
	PeakMarginalRate decimal.Decimal `json:"peakMarginalRate"`
	IRMAAYears       int             `json:"irmaaYears"` // Years with a surcharge

	// Comparison to Base
	TaxDiffFromBase   decimal.Decimal `json:"taxDiffFromBase"`
	TaxPctFromBase    decimal.Decimal `json:"taxPctFromBase"`
	RothDiffFromBase  decimal.Decimal `json:"rothDiffFromBase"`
	IRMAADiffFromBase decimal.Decimal `json:"irmaaDiffFromBase"`
	IRMAAYearsDiff    int             `json:"irmaaYearsDiff"`
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ProfilePath        string             `json:"profilePath,omitempty"`
}

// MetricsCalculator extracts key metrics from scenario years
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes all comparison metrics for one scenario
func (mc *MetricsCalculator) CalculateMetrics(name string, years []domain.YearRecord) ComparisonResult {
	final := domain.Final(years)
	result := ComparisonResult{
		ScenarioName:     name,
		LifetimeTax:      domain.LifetimeTax(years),
		LifetimeIRMAA:    domain.LifetimeIRMAA(years),
		TotalConverted:   domain.TotalConversions(years),
		FinalRoth:        final.RothBalance,
		FinalIRA:         final.IRABalance,
		PeakMarginalRate: decimal.Zero,
	}
	for _, y := range years {
		if y.MarginalRate.GreaterThan(result.PeakMarginalRate) {
			result.PeakMarginalRate = y.MarginalRate
		}
		if y.IRMAATier > 0 {
			result.IRMAAYears++
		}
	}
	return result
}

// CalculateComparison computes comparison metrics between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.TaxDiffFromBase = scenario.LifetimeTax.Sub(base.LifetimeTax)

	if !base.LifetimeTax.IsZero() {
		scenario.TaxPctFromBase = scenario.TaxDiffFromBase.
			Div(base.LifetimeTax).
			Mul(decimal.NewFromInt(100))
	}

	scenario.RothDiffFromBase = scenario.FinalRoth.Sub(base.FinalRoth)
	scenario.IRMAADiffFromBase = scenario.LifetimeIRMAA.Sub(base.LifetimeIRMAA)
	scenario.IRMAAYearsDiff = scenario.IRMAAYears - base.IRMAAYears

	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	// Find lowest tax burden
	lowestTax := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.LifetimeTax.LessThan(lowestTax.LifetimeTax) {
			lowestTax = alt
		}
	}

	if lowestTax != compSet.BaseResult {
		taxSavings := compSet.BaseResult.LifetimeTax.Sub(lowestTax.LifetimeTax)
		recommendations = append(recommendations,
			"Lowest Taxes: "+lowestTax.ScenarioName+" saves $"+taxSavings.StringFixed(0)+
				" in lifetime taxes")
	} else {
		recommendations = append(recommendations,
			"Lowest Taxes: no strategy beats "+compSet.BaseScenarioName)
	}

	// Find largest ending Roth
	bestRoth := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.FinalRoth.GreaterThan(bestRoth.FinalRoth) {
			bestRoth = alt
		}
	}

	if bestRoth != compSet.BaseResult {
		recommendations = append(recommendations,
			"Largest Roth: "+bestRoth.ScenarioName+" ends with $"+bestRoth.RothDiffFromBase.StringFixed(0)+
				" more in Roth accounts")
	}

	// Flag strategies that add IRMAA years
	for _, alt := range compSet.AlternativeResults {
		if alt.IRMAAYearsDiff > 0 {
			recommendations = append(recommendations,
				fmt.Sprintf("IRMAA: %s adds %d surcharge years ($%s)",
					alt.ScenarioName, alt.IRMAAYearsDiff, alt.IRMAADiffFromBase.StringFixed(0)))
		}
	}

	return recommendations
}
