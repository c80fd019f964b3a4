// Package breakeven searches fixed annual Roth conversion amounts for the
// one that saves the most lifetime tax and for the largest one that still
// breaks even against the no-conversion baseline.
package breakeven

import (
	"fmt"

	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
)

// Goal defines what the solver looks for
type Goal string

const (
	GoalMaximizeSavings Goal = "maximize_savings" // Amount with the greatest lifetime savings
	GoalBreakEven       Goal = "break_even"       // Largest amount whose savings are not negative
)

// ParseGoal parses a goal name
func ParseGoal(s string) (Goal, error) {
	switch g := Goal(s); g {
	case GoalMaximizeSavings, GoalBreakEven:
		return g, nil
	}
	return "", fmt.Errorf("unknown goal %q (use %s or %s)", s, GoalMaximizeSavings, GoalBreakEven)
}

// Constraints bound the annual conversion amount and the ages it applies to
type Constraints struct {
	Window    domain.AgeRange `json:"window"`
	MinAmount decimal.Decimal `json:"min_amount"`
	MaxAmount decimal.Decimal `json:"max_amount"`
}

// DefaultConstraints searches $0 to $200,000 a year over window
func DefaultConstraints(window domain.AgeRange) Constraints {
	return Constraints{
		Window:    window,
		MinAmount: decimal.Zero,
		MaxAmount: decimal.NewFromInt(200000),
	}
}

// Validate checks if constraints are internally consistent
func (c Constraints) Validate() error {
	if c.Window.End < c.Window.Start {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   fmt.Sprintf("conversion window %s is empty", c.Window),
		}
	}
	if c.MinAmount.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_amount cannot be negative",
		}
	}
	if !c.MaxAmount.GreaterThan(c.MinAmount) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "max_amount must be greater than min_amount",
		}
	}
	return nil
}

// Request defines the parameters for a solver run
type Request struct {
	Profile       domain.FinancialProfile
	Goal          Goal
	Constraints   Constraints
	MaxIterations int             // Maximum refinement iterations
	Tolerance     decimal.Decimal // Stop when the search interval is narrower than this
}

// Result contains the outcome of a solver run
type Result struct {
	Goal            Goal            `json:"goal"`
	Window          domain.AgeRange `json:"window"`
	Success         bool            `json:"success"`
	Evaluations     int             `json:"evaluations"`
	ConvergenceInfo string          `json:"convergence_info"`

	// Amount is the annual conversion found
	Amount          decimal.Decimal `json:"amount"`
	TotalConverted  decimal.Decimal `json:"total_converted"`
	LifetimeTax     decimal.Decimal `json:"lifetime_tax"`
	BaselineTax     decimal.Decimal `json:"baseline_tax"`
	LifetimeSavings decimal.Decimal `json:"lifetime_savings"`
	EndingRoth      decimal.Decimal `json:"ending_roth"`

	Projection *domain.ProjectionResult `json:"-"`
}

// Summary holds both searches for one profile
type Summary struct {
	BestSavings     *Result  `json:"best_savings"`
	BreakEven       *Result  `json:"break_even"`
	Recommendations []string `json:"recommendations"`
}

// SolverOptions configures the search
type SolverOptions struct {
	GridResolution int             // Coarse grid intervals across [min, max]
	Tolerance      decimal.Decimal // Convergence tolerance in dollars
	MaxIterations  int             // Maximum refinement iterations
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		GridResolution: 10,
		Tolerance:      decimal.NewFromInt(1000), // $1000 tolerance
		MaxIterations:  50,
	}
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
