package calculation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
)

// ProjectionEngine runs the baseline and strategy scenarios and compares
// them. It is safe for concurrent use; tables are cloned at construction and
// never written afterwards.
type ProjectionEngine struct {
	tables   domain.TableSet
	logger   Logger
	cache    *ResultCache
	parallel bool
}

// Option configures a ProjectionEngine
type Option func(*ProjectionEngine)

// WithLogger sets the engine logger
func WithLogger(l Logger) Option {
	return func(e *ProjectionEngine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithCache memoizes results in c
func WithCache(c *ResultCache) Option {
	return func(e *ProjectionEngine) { e.cache = c }
}

// WithParallel runs the two scenarios concurrently
func WithParallel(on bool) Option {
	return func(e *ProjectionEngine) { e.parallel = on }
}

// NewProjectionEngine validates and copies tables. Invalid tables are
// rejected here so the year loop never sees them.
func NewProjectionEngine(tables domain.TableSet, opts ...Option) (*ProjectionEngine, error) {
	if err := ValidateTableSet(tables); err != nil {
		return nil, err
	}
	owned := make(domain.TableSet, len(tables))
	for year, t := range tables {
		owned[year] = t.Clone()
	}

	e := &ProjectionEngine{tables: owned, logger: NopLogger{}, parallel: true}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// TablesFor returns the tables used for a profile's first projected year
func (e *ProjectionEngine) TablesFor(profile domain.FinancialProfile) (*domain.TaxYearTables, error) {
	year := profile.StartYear
	if year == 0 {
		year = e.tables.Years()[0]
	}
	t, err := e.tables.ForYear(year)
	if err != nil {
		return nil, err
	}
	if _, ok := t.Brackets[profile.FilingStatus]; !ok {
		return nil, fmt.Errorf("tax year %d has no tables for filing status %q", t.Year, profile.FilingStatus)
	}
	return t, nil
}

// Years returns the tax years the engine holds tables for
func (e *ProjectionEngine) Years() []int {
	return e.tables.Years()
}

// RunScenario simulates a single trajectory with the given conversion function
func (e *ProjectionEngine) RunScenario(ctx context.Context, profile domain.FinancialProfile, conversion domain.ConversionFunc) ([]domain.YearRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tables, err := e.TablesFor(profile)
	if err != nil {
		return nil, err
	}
	return NewScenarioRunner(tables, profile, conversion, e.logger).Run(), nil
}

// Project runs the no-conversion baseline and the profile's conversion
// strategy and aggregates lifetime totals. Savings are baseline minus
// strategy and may be negative.
func (e *ProjectionEngine) Project(ctx context.Context, profile domain.FinancialProfile) (*domain.ProjectionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tables, err := e.TablesFor(profile)
	if err != nil {
		return nil, err
	}

	var key string
	if e.cache != nil {
		key = e.cache.Key(profile, tables)
		if res, ok := e.cache.Get(key); ok {
			e.logger.Debugf("projection cache hit for age %d-%d", profile.CurrentAge, profile.LifeExpectancyAge)
			return res, nil
		}
		e.logger.Debugf("projection cache miss")
	}

	start := time.Now()
	baselineRunner := NewScenarioRunner(tables, profile, domain.NoConversion(), e.logger)
	strategyRunner := NewScenarioRunner(tables, profile, profile.Conversion, e.logger)

	var baseline, strategy []domain.YearRecord
	if e.parallel {
		baseline, strategy = runPair(baselineRunner, strategyRunner)
	} else {
		baseline = baselineRunner.Run()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		strategy = strategyRunner.Run()
	}

	result := Compare(baseline, strategy)
	e.logger.Debugf("projected %d years in %s: baseline %s strategy %s savings %s",
		len(baseline), time.Since(start),
		result.BaselineLifetimeTax.StringFixed(2),
		result.StrategyLifetimeTax.StringFixed(2),
		result.LifetimeSavings.StringFixed(2))

	if e.cache != nil {
		e.cache.Set(key, result)
	}
	return result, nil
}

// runPair runs both scenarios concurrently. A panic in either run is
// re-raised on the calling goroutine.
func runPair(a, b *ScenarioRunner) ([]domain.YearRecord, []domain.YearRecord) {
	var (
		wg      sync.WaitGroup
		ra, rb  []domain.YearRecord
		panicMu sync.Mutex
		caught  any
	)
	run := func(r *ScenarioRunner, out *[]domain.YearRecord) {
		defer wg.Done()
		defer func() {
			if p := recover(); p != nil {
				panicMu.Lock()
				if caught == nil {
					caught = p
				}
				panicMu.Unlock()
			}
		}()
		*out = r.Run()
	}

	wg.Add(2)
	go run(a, &ra)
	go run(b, &rb)
	wg.Wait()

	if caught != nil {
		panic(caught)
	}
	return ra, rb
}

// Compare aggregates two scenarios into a ProjectionResult
func Compare(baseline, strategy []domain.YearRecord) *domain.ProjectionResult {
	baselineTax := domain.LifetimeTax(baseline)
	strategyTax := domain.LifetimeTax(strategy)
	return &domain.ProjectionResult{
		Baseline:            baseline,
		Strategy:            strategy,
		BaselineLifetimeTax: baselineTax,
		StrategyLifetimeTax: strategyTax,
		LifetimeSavings:     baselineTax.Sub(strategyTax),
	}
}

// SavingsRate returns lifetime savings as a fraction of the baseline tax
func SavingsRate(r *domain.ProjectionResult) decimal.Decimal {
	if r == nil || r.BaselineLifetimeTax.IsZero() {
		return decimal.Zero
	}
	return r.LifetimeSavings.Div(r.BaselineLifetimeTax)
}
