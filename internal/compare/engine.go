package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/rothcalc/internal/calculation"
	"github.com/rgehrsitz/rothcalc/internal/domain"
)

// BaseScenarioName labels the no-conversion baseline
const BaseScenarioName = "no_conversion"

// CompareEngine orchestrates strategy comparison
type CompareEngine struct {
	Engine            *calculation.ProjectionEngine
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(engine *calculation.ProjectionEngine) *CompareEngine {
	return &CompareEngine{
		Engine:            engine,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// Compare projects every strategy and compares each with the shared
// no-conversion baseline
func (ce *CompareEngine) Compare(
	ctx context.Context,
	profile domain.FinancialProfile,
	strategies []Strategy,
) (*ComparisonSet, error) {

	if len(strategies) == 0 {
		return nil, fmt.Errorf("at least one strategy is required")
	}

	seen := make(map[string]bool, len(strategies))
	var baseResult *ComparisonResult
	alternatives := make([]ComparisonResult, 0, len(strategies))

	for _, s := range strategies {
		if seen[s.Name] {
			return nil, fmt.Errorf("strategy %s appears more than once", s.Name)
		}
		seen[s.Name] = true

		res, err := ce.Engine.Project(ctx, profile.WithConversion(s.Conversion))
		if err != nil {
			return nil, fmt.Errorf("failed to calculate strategy %s: %w", s.Name, err)
		}

		// the baseline does not depend on the strategy
		if baseResult == nil {
			base := ce.MetricsCalculator.CalculateMetrics(BaseScenarioName, res.Baseline)
			base.Description = "No Roth conversions"
			baseResult = &base
		}

		alt := ce.MetricsCalculator.CalculateMetrics(s.Name, res.Strategy)
		alt.Description = s.Description
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(alt, *baseResult))
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   BaseScenarioName,
		BaseResult:         baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}
