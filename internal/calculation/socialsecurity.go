package calculation

import (
	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	half          = decimal.NewFromFloat(0.5)
	maxInclusion  = decimal.NewFromFloat(0.85)
	monthsPerYear = decimal.NewFromInt(12)
)

// SSTaxCalculator handles Social Security taxation calculations
type SSTaxCalculator struct {
	Thresholds domain.SSTaxThresholds
}

// NewSSTaxCalculator creates a calculator for one filing status
func NewSSTaxCalculator(tables *domain.TaxYearTables, status domain.FilingStatus) *SSTaxCalculator {
	return &SSTaxCalculator{Thresholds: tables.ThresholdsFor(status)}
}

// CalculateCombinedIncome returns income + tax-exempt interest + half the benefit
func (sstc *SSTaxCalculator) CalculateCombinedIncome(income, taxExemptInterest, grossBenefit decimal.Decimal) decimal.Decimal {
	return income.Add(taxExemptInterest).Add(grossBenefit.Mul(half))
}

// CalculateTaxableSocialSecurity determines the federally taxable portion of
// the benefit from ordinary income (excluding Social Security):
//   - combined income <= base: nothing is taxable
//   - up to adjusted base: lesser of 50% of the benefit or 50% of the excess over base
//   - above adjusted base: lesser of 85% of the benefit or
//     50% of (adjusted base - base) + 85% of the excess over adjusted base
func (sstc *SSTaxCalculator) CalculateTaxableSocialSecurity(ordinaryIncome, grossBenefit, taxExemptInterest decimal.Decimal) decimal.Decimal {
	if !grossBenefit.IsPositive() {
		return decimal.Zero
	}

	base := sstc.Thresholds.Base
	adjusted := sstc.Thresholds.AdjustedBase
	combined := sstc.CalculateCombinedIncome(ordinaryIncome, taxExemptInterest, grossBenefit)

	if combined.LessThanOrEqual(base) {
		return decimal.Zero
	}

	if combined.LessThanOrEqual(adjusted) {
		return decimal.Min(grossBenefit.Mul(half), combined.Sub(base).Mul(half))
	}

	part1 := adjusted.Sub(base).Mul(half)
	part2 := combined.Sub(adjusted).Mul(maxInclusion)
	return decimal.Min(grossBenefit.Mul(maxInclusion), part1.Add(part2))
}

// InclusionRate returns taxable / gross, zero when there is no benefit
func (sstc *SSTaxCalculator) InclusionRate(taxable, grossBenefit decimal.Decimal) decimal.Decimal {
	if !grossBenefit.IsPositive() {
		return decimal.Zero
	}
	return taxable.Div(grossBenefit)
}

// ApplySSCOLA applies the annual Social Security COLA
func ApplySSCOLA(currentBenefit decimal.Decimal, colaRate decimal.Decimal) decimal.Decimal {
	return currentBenefit.Mul(decimal.NewFromInt(1).Add(colaRate))
}
