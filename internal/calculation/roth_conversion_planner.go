package calculation

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrInvalidPlan marks planner input errors: constraints, empty or unknown
// target rates
var ErrInvalidPlan = errors.New("invalid plan request")

// RothConversionPlanner builds bracket-fill conversion schedules: each year
// in the window converts enough to bring baseline taxable income up to the
// top of a target bracket.
type RothConversionPlanner struct {
	engine *ProjectionEngine
	logger Logger
}

// NewRothConversionPlanner creates a new Roth conversion planner
func NewRothConversionPlanner(engine *ProjectionEngine) *RothConversionPlanner {
	return &RothConversionPlanner{
		engine: engine,
		logger: engine.logger,
	}
}

// PlanRothConversions evaluates one bracket-fill schedule per target rate
// and recommends the best under objective.
func (rcp *RothConversionPlanner) PlanRothConversions(
	ctx context.Context,
	profile domain.FinancialProfile,
	targetRates []decimal.Decimal,
	objective domain.OptimizationObjective,
	constraints domain.RothConversionConstraints,
) (*domain.RothConversionPlan, error) {

	// Validate inputs
	if err := constraints.Validate(); err != nil {
		return nil, fmt.Errorf("%w: constraints: %v", ErrInvalidPlan, err)
	}
	if len(targetRates) == 0 {
		return nil, fmt.Errorf("%w: at least one target bracket rate is required", ErrInvalidPlan)
	}

	tables, err := rcp.engine.TablesFor(profile)
	if err != nil {
		return nil, err
	}
	for _, r := range targetRates {
		if _, err := targetBracketIndex(tables.BracketsFor(profile.FilingStatus), r); err != nil {
			return nil, err
		}
	}

	// 1. Run baseline scenario (no conversions)
	baseline, err := rcp.engine.RunScenario(ctx, profile, domain.NoConversion())
	if err != nil {
		return nil, fmt.Errorf("failed to run baseline scenario: %w", err)
	}

	// 2. Build and evaluate one schedule per target
	roomsByRate := make(map[string][]domain.BracketRoom, len(targetRates))
	results := make([]domain.ConversionOutcome, 0, len(targetRates))
	for _, r := range targetRates {
		rooms := rcp.CalculateBracketRooms(baseline, profile, tables, r, constraints.Window)
		roomsByRate[r.String()] = rooms
		schedule := buildSchedule(rooms, constraints)
		rcp.logger.Debugf("planner: target %s%% converts %s over %d years",
			r.Mul(decimal.NewFromInt(100)).StringFixed(0), schedule.Total().StringFixed(0), len(schedule.Conversions))

		outcome, err := rcp.evaluate(ctx, profile, r, schedule)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate %s target: %w", r, err)
		}
		results = append(results, outcome)
	}

	// 3. Pick the optimum
	optimal := selectOptimalStrategy(results, objective)

	return &domain.RothConversionPlan{
		Window:       constraints.Window,
		Objective:    objective,
		Baseline:     baseline,
		Rooms:        roomsByRate[optimal.TargetRate.String()],
		Recommended:  optimal,
		Alternatives: results,
	}, nil
}

// CalculateBracketRooms determines, for each age in window, how much
// ordinary income fits between baseline taxable income and the top of the
// indexed target bracket.
func (rcp *RothConversionPlanner) CalculateBracketRooms(
	baseline []domain.YearRecord,
	profile domain.FinancialProfile,
	tables *domain.TaxYearTables,
	targetRate decimal.Decimal,
	window domain.AgeRange,
) []domain.BracketRoom {
	ftc := NewFederalTaxCalculator(tables, profile.FilingStatus)
	rooms := make([]domain.BracketRoom, 0, len(window.Ages()))

	for _, yr := range baseline {
		if !window.Contains(yr.Age) {
			continue
		}
		brackets := ftc.Brackets(TableYearIndex(tables, yr.Year), profile.InflationRate)
		idx, err := targetBracketIndex(brackets, targetRate)
		if err != nil {
			// validated up front
			panic(err)
		}
		edge := *brackets[idx].Upper

		room := edge.Sub(yr.TaxableIncome)
		if room.IsNegative() {
			room = decimal.Zero
		}
		rooms = append(rooms, domain.BracketRoom{
			Year:          yr.Year,
			Age:           yr.Age,
			BracketIndex:  idx,
			Rate:          targetRate,
			TaxableIncome: yr.TaxableIncome,
			BracketEdge:   edge,
			RoomAmount:    room,
		})
	}
	return rooms
}

// targetBracketIndex finds the bounded row taxed at rate
func targetBracketIndex(brackets []domain.TaxBracket, rate decimal.Decimal) (int, error) {
	for i, b := range brackets {
		if b.Rate.Equal(rate) {
			if b.Unbounded() {
				return 0, fmt.Errorf("%w: target bracket %s%% is the top bracket and cannot be filled", ErrInvalidPlan,
					rate.Mul(decimal.NewFromInt(100)).StringFixed(0))
			}
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: no %s%% bracket", ErrInvalidPlan, rate.Mul(decimal.NewFromInt(100)).String())
}

// buildSchedule turns rooms into conversions, skipping years below the
// minimum and stopping at the lifetime cap.
func buildSchedule(rooms []domain.BracketRoom, c domain.RothConversionConstraints) domain.RothConversionSchedule {
	schedule := domain.RothConversionSchedule{Conversions: []domain.RothConversion{}}
	remaining := c.MaxTotalConversions
	for _, room := range rooms {
		if !remaining.IsPositive() {
			break
		}
		if room.RoomAmount.LessThan(c.MinConversionAmount) || room.RoomAmount.IsZero() {
			continue
		}
		amount := decimal.Min(room.RoomAmount, c.MaxConversionAmount, remaining).Round(0)
		schedule.Conversions = append(schedule.Conversions, domain.RothConversion{Age: room.Age, Amount: amount})
		remaining = remaining.Sub(amount)
	}
	return schedule
}

// evaluate runs a full projection with a specific conversion schedule
func (rcp *RothConversionPlanner) evaluate(
	ctx context.Context,
	profile domain.FinancialProfile,
	targetRate decimal.Decimal,
	schedule domain.RothConversionSchedule,
) (domain.ConversionOutcome, error) {
	projection, err := rcp.engine.Project(ctx, profile.WithConversion(schedule.Func()))
	if err != nil {
		return domain.ConversionOutcome{}, err
	}

	return domain.ConversionOutcome{
		TargetRate:    targetRate,
		Schedule:      schedule,
		Projection:    projection,
		LifetimeTax:   projection.StrategyLifetimeTax,
		LifetimeIRMAA: domain.LifetimeIRMAA(projection.Strategy),
		EndingRoth:    domain.Final(projection.Strategy).RothEnd,
		NetBenefit:    projection.LifetimeSavings,
	}, nil
}

// selectOptimalStrategy chooses the best outcome for the objective. Ties
// keep the earlier target.
func selectOptimalStrategy(results []domain.ConversionOutcome, objective domain.OptimizationObjective) *domain.ConversionOutcome {
	ranked := make([]domain.ConversionOutcome, len(results))
	copy(ranked, results)

	sort.SliceStable(ranked, func(i, j int) bool {
		switch objective {
		case domain.MinimizeLifetimeIRMAA:
			return ranked[i].LifetimeIRMAA.LessThan(ranked[j].LifetimeIRMAA)
		case domain.MaximizeEndingRoth:
			return ranked[i].EndingRoth.GreaterThan(ranked[j].EndingRoth)
		default:
			return ranked[i].LifetimeTax.LessThan(ranked[j].LifetimeTax)
		}
	})

	return &ranked[0]
}

// Recommendation renders a one-line verdict for an outcome
func Recommendation(outcome *domain.ConversionOutcome) string {
	if outcome == nil {
		return "No optimal strategy found"
	}
	switch {
	case outcome.NetBenefit.IsPositive():
		return fmt.Sprintf("✓ Fill the %s%% bracket - lifetime savings: $%s",
			outcome.TargetRate.Mul(decimal.NewFromInt(100)).StringFixed(0), outcome.NetBenefit.StringFixed(0))
	case outcome.NetBenefit.IsNegative():
		return fmt.Sprintf("⚠ Consider alternative strategies - net cost: $%s",
			outcome.NetBenefit.Abs().StringFixed(0))
	default:
		return "→ Roth conversion provides neutral benefit - consider other factors"
	}
}
