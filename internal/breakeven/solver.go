package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/rothcalc/internal/calculation"
	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	two   = decimal.NewFromInt(2)
	three = decimal.NewFromInt(3)
)

// Solver searches fixed annual conversion amounts
type Solver struct {
	Engine  *calculation.ProjectionEngine
	Options SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(engine *calculation.ProjectionEngine, options SolverOptions) *Solver {
	return &Solver{
		Engine:  engine,
		Options: options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(engine *calculation.ProjectionEngine) *Solver {
	return NewSolver(engine, DefaultSolverOptions())
}

// search is the state of one Solve call. Evaluations are memoized by
// whole-dollar amount.
type search struct {
	s       *Solver
	req     Request
	results map[string]*Result
}

// Solve runs the search described by req
func (s *Solver) Solve(ctx context.Context, req Request) (*Result, error) {
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}

	// Apply defaults
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}

	sr := &search{s: s, req: req, results: map[string]*Result{}}
	switch req.Goal {
	case GoalMaximizeSavings:
		return sr.maximizeSavings(ctx)
	case GoalBreakEven:
		return sr.breakEven(ctx)
	default:
		return nil, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("unsupported goal: %s", req.Goal),
		}
	}
}

// evaluate projects the profile converting amount every year of the window
func (sr *search) evaluate(ctx context.Context, amount decimal.Decimal) (*Result, error) {
	amount = amount.Round(0)
	if r, ok := sr.results[amount.String()]; ok {
		return r, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := sr.req.Constraints
	profile := sr.req.Profile.WithConversion(domain.FixedAnnualConversion(amount, c.Window))
	proj, err := sr.s.Engine.Project(ctx, profile)
	if err != nil {
		return nil, &BreakEvenError{
			Operation: string(sr.req.Goal),
			Message:   fmt.Sprintf("failed to project $%s a year", amount),
			Cause:     err,
		}
	}

	r := &Result{
		Goal:            sr.req.Goal,
		Window:          c.Window,
		Amount:          amount,
		TotalConverted:  domain.TotalConversions(proj.Strategy),
		LifetimeTax:     proj.StrategyLifetimeTax,
		BaselineTax:     proj.BaselineLifetimeTax,
		LifetimeSavings: proj.LifetimeSavings,
		EndingRoth:      domain.Final(proj.Strategy).RothBalance,
		Projection:      proj,
	}
	sr.results[amount.String()] = r
	return r, nil
}

// grid evaluates GridResolution+1 evenly spaced amounts from min to max
func (sr *search) grid(ctx context.Context) ([]*Result, error) {
	c := sr.req.Constraints
	n := sr.s.Options.GridResolution
	if n < 2 {
		n = 2
	}
	step := c.MaxAmount.Sub(c.MinAmount).Div(decimal.NewFromInt(int64(n)))

	points := make([]*Result, 0, n+1)
	for i := 0; i <= n; i++ {
		amount := c.MinAmount.Add(step.Mul(decimal.NewFromInt(int64(i))))
		if i == n {
			amount = c.MaxAmount
		}
		r, err := sr.evaluate(ctx, amount)
		if err != nil {
			return nil, err
		}
		points = append(points, r)
	}
	return points, nil
}

func (sr *search) finish(r *Result, success bool, info string) *Result {
	out := *r
	out.Success = success
	out.Evaluations = len(sr.results)
	out.ConvergenceInfo = info
	return &out
}

// maximizeSavings locates the best grid point, then narrows the bracketing
// interval with a ternary search. Savings are not guaranteed to be unimodal,
// so the best amount ever evaluated wins.
func (sr *search) maximizeSavings(ctx context.Context) (*Result, error) {
	points, err := sr.grid(ctx)
	if err != nil {
		return nil, err
	}

	best := 0
	for i, p := range points {
		if p.LifetimeSavings.GreaterThan(points[best].LifetimeSavings) {
			best = i
		}
	}
	lo := points[max(best-1, 0)].Amount
	hi := points[min(best+1, len(points)-1)].Amount

	iterations := 0
	for hi.Sub(lo).GreaterThan(sr.req.Tolerance) && iterations < sr.req.MaxIterations {
		iterations++
		third := hi.Sub(lo).Div(three)
		m1, err := sr.evaluate(ctx, lo.Add(third))
		if err != nil {
			return nil, err
		}
		m2, err := sr.evaluate(ctx, hi.Sub(third))
		if err != nil {
			return nil, err
		}
		if m1.LifetimeSavings.LessThan(m2.LifetimeSavings) {
			lo = m1.Amount
		} else {
			hi = m2.Amount
		}
	}

	var top *Result
	for _, r := range sr.results {
		if top == nil || r.LifetimeSavings.GreaterThan(top.LifetimeSavings) ||
			(r.LifetimeSavings.Equal(top.LifetimeSavings) && r.Amount.LessThan(top.Amount)) {
			top = r
		}
	}

	if hi.Sub(lo).GreaterThan(sr.req.Tolerance) {
		return sr.finish(top, true, fmt.Sprintf("Max iterations (%d) reached", sr.req.MaxIterations)), nil
	}
	return sr.finish(top, true, fmt.Sprintf("Converged within $%s", sr.req.Tolerance.StringFixed(0))), nil
}

// breakEven finds the largest amount whose lifetime savings are not
// negative: the highest non-negative grid point is bisected against the
// grid point above it.
func (sr *search) breakEven(ctx context.Context) (*Result, error) {
	points, err := sr.grid(ctx)
	if err != nil {
		return nil, err
	}

	last := len(points) - 1
	if !points[last].LifetimeSavings.IsNegative() {
		return sr.finish(points[last], true, "Savings stay non-negative up to the maximum amount"), nil
	}

	idx := -1
	for i := last - 1; i >= 0; i-- {
		if !points[i].LifetimeSavings.IsNegative() {
			idx = i
			break
		}
	}
	if idx < 0 {
		return sr.finish(points[0], false, "Every amount in range costs more tax than it saves"), nil
	}

	good, bad := points[idx], points[idx+1]
	iterations := 0
	for bad.Amount.Sub(good.Amount).GreaterThan(sr.req.Tolerance) && iterations < sr.req.MaxIterations {
		iterations++
		mid, err := sr.evaluate(ctx, good.Amount.Add(bad.Amount).Div(two))
		if err != nil {
			return nil, err
		}
		if mid.Amount.Equal(good.Amount) || mid.Amount.Equal(bad.Amount) {
			break
		}
		if mid.LifetimeSavings.IsNegative() {
			bad = mid
		} else {
			good = mid
		}
	}

	info := fmt.Sprintf("Bisection converged within $%s", sr.req.Tolerance.StringFixed(0))
	if bad.Amount.Sub(good.Amount).GreaterThan(sr.req.Tolerance) {
		info = fmt.Sprintf("Max iterations (%d) reached", sr.req.MaxIterations)
	}
	return sr.finish(good, true, info), nil
}
