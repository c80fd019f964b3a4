package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/rothcalc/internal/domain"
)

// SolveAll runs both searches over the same constraints and summarizes them
func (s *Solver) SolveAll(ctx context.Context, profile domain.FinancialProfile, constraints Constraints) (*Summary, error) {
	if err := constraints.Validate(); err != nil {
		return nil, err
	}

	summary := &Summary{}
	for _, goal := range []Goal{GoalMaximizeSavings, GoalBreakEven} {
		res, err := s.Solve(ctx, Request{
			Profile:       profile,
			Goal:          goal,
			Constraints:   constraints,
			MaxIterations: s.Options.MaxIterations,
			Tolerance:     s.Options.Tolerance,
		})
		if err != nil {
			return nil, err
		}
		if goal == GoalMaximizeSavings {
			summary.BestSavings = res
		} else {
			summary.BreakEven = res
		}
	}

	summary.Recommendations = generateRecommendations(summary)
	return summary, nil
}

// generateRecommendations creates recommendations from the two searches
func generateRecommendations(s *Summary) []string {
	var recs []string

	best := s.BestSavings
	if best != nil {
		if best.LifetimeSavings.IsPositive() && best.Amount.IsPositive() {
			recs = append(recs, fmt.Sprintf("Convert about $%s a year over ages %s to save $%s in lifetime tax",
				best.Amount.StringFixed(0), best.Window, best.LifetimeSavings.StringFixed(0)))
		} else {
			recs = append(recs, "No fixed annual conversion in range reduces lifetime tax")
		}
	}

	be := s.BreakEven
	if be != nil && be.Success && best != nil && be.Amount.GreaterThan(best.Amount) {
		recs = append(recs, fmt.Sprintf("Conversions up to $%s a year still break even; above that the strategy costs more than it saves",
			be.Amount.StringFixed(0)))
	}
	return recs
}
