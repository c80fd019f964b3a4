package calculation

import (
	"sort"

	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
)

// RMDCalculator calculates Required Minimum Distributions from the IRS
// Uniform Lifetime Table.
//
// Ages past the last divisor clamp to the last divisor (age 120 is 2.0).
// Ages at or after the start age but before the first divisor use the first
// divisor. Both cases are logged at debug level.
type RMDCalculator struct {
	Divisors map[int]decimal.Decimal
	ages     []int
	logger   Logger
}

// NewRMDCalculator creates a calculator over the table's divisor map
func NewRMDCalculator(tables *domain.TaxYearTables, logger Logger) *RMDCalculator {
	if logger == nil {
		logger = NopLogger{}
	}
	ages := make([]int, 0, len(tables.RMDDivisors))
	for age := range tables.RMDDivisors {
		ages = append(ages, age)
	}
	sort.Ints(ages)
	return &RMDCalculator{Divisors: tables.RMDDivisors, ages: ages, logger: logger}
}

// Divisor returns the distribution period for age after clamping
func (rmd *RMDCalculator) Divisor(age int) decimal.Decimal {
	if d, ok := rmd.Divisors[age]; ok {
		return d
	}
	if len(rmd.ages) == 0 {
		panic("calculation: empty RMD divisor table")
	}
	first, last := rmd.ages[0], rmd.ages[len(rmd.ages)-1]
	if age > last {
		rmd.logger.Debugf("rmd: age %d past table, clamping to age %d divisor", age, last)
		return rmd.Divisors[last]
	}
	if age < first {
		rmd.logger.Debugf("rmd: age %d before table, using age %d divisor", age, first)
		return rmd.Divisors[first]
	}
	// hole in the table: nearest lower age
	i := sort.SearchInts(rmd.ages, age)
	return rmd.Divisors[rmd.ages[i-1]]
}

// CalculateRMD returns the required withdrawal for the year. It is zero
// before the start age and when the balance is not positive.
func (rmd *RMDCalculator) CalculateRMD(balance decimal.Decimal, age, startAge int) decimal.Decimal {
	if age < startAge || !balance.IsPositive() {
		return decimal.Zero
	}
	return balance.Div(rmd.Divisor(age))
}
