package calculation

import (
	"fmt"

	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Federal brackets and the standard deduction come from the tax-year
//    tables and are indexed by (1 + inflation)^yearIndex, rounded to dollars.
// 2. No additional age-65 deduction, itemized deductions, AMT or QBI.
// 3. Capital gains are taxed as ordinary income.
// 4. Net investment income tax is carried as zero.

// CalculateBracketTax computes progressive tax on taxable income. Only the
// portion of income inside each row is taxed at that row's rate.
func CalculateBracketTax(taxableIncome decimal.Decimal, brackets []domain.TaxBracket) decimal.Decimal {
	if !taxableIncome.IsPositive() {
		return decimal.Zero
	}

	totalTax := decimal.Zero
	for _, bracket := range brackets {
		if taxableIncome.LessThanOrEqual(bracket.Lower) {
			break
		}
		top := taxableIncome
		if bracket.Upper != nil {
			top = decimal.Min(taxableIncome, *bracket.Upper)
		}
		incomeInBracket := top.Sub(bracket.Lower)
		if incomeInBracket.IsPositive() {
			totalTax = totalTax.Add(incomeInBracket.Mul(bracket.Rate))
		}
	}

	return totalTax
}

// MarginalBracket returns the rate and index of the row containing income.
// The first row whose [lower, upper) holds the income wins; income above
// every row falls to the last row. An empty table, or income below the
// first row, is a defect in the reference data and panics.
func MarginalBracket(taxableIncome decimal.Decimal, brackets []domain.TaxBracket) (decimal.Decimal, int) {
	if len(brackets) == 0 {
		panic("calculation: empty bracket table")
	}
	if taxableIncome.LessThan(brackets[0].Lower) {
		panic(fmt.Sprintf("calculation: taxable income %s below first bracket %s", taxableIncome, brackets[0].Lower))
	}
	for i, b := range brackets {
		if b.Contains(taxableIncome) {
			return b.Rate, i
		}
	}
	last := len(brackets) - 1
	return brackets[last].Rate, last
}

// FederalTaxCalculator computes federal income tax for one filing status
// against one tax year's tables.
type FederalTaxCalculator struct {
	Tables       *domain.TaxYearTables
	FilingStatus domain.FilingStatus
}

// NewFederalTaxCalculator creates a calculator for the given tables and status
func NewFederalTaxCalculator(tables *domain.TaxYearTables, status domain.FilingStatus) *FederalTaxCalculator {
	return &FederalTaxCalculator{Tables: tables, FilingStatus: status}
}

// FederalTaxResult is the outcome of one year's federal tax computation
type FederalTaxResult struct {
	StandardDeduction decimal.Decimal
	TaxableIncome     decimal.Decimal
	Tax               decimal.Decimal
	MarginalRate      decimal.Decimal
	BracketIndex      int
}

// Brackets returns the bracket table indexed for yearIndex
func (ftc *FederalTaxCalculator) Brackets(yearIndex int, inflationRate decimal.Decimal) []domain.TaxBracket {
	return IndexBrackets(ftc.Tables.BracketsFor(ftc.FilingStatus), InflationMultiplier(inflationRate, yearIndex))
}

// StandardDeduction returns the standard deduction indexed for yearIndex
func (ftc *FederalTaxCalculator) StandardDeduction(yearIndex int, inflationRate decimal.Decimal) decimal.Decimal {
	return IndexAmount(ftc.Tables.DeductionFor(ftc.FilingStatus), InflationMultiplier(inflationRate, yearIndex))
}

// CalculateFederalTax applies the indexed deduction and brackets to AGI
func (ftc *FederalTaxCalculator) CalculateFederalTax(agi decimal.Decimal, yearIndex int, inflationRate decimal.Decimal) FederalTaxResult {
	brackets := ftc.Brackets(yearIndex, inflationRate)
	deduction := ftc.StandardDeduction(yearIndex, inflationRate)

	taxableIncome := agi.Sub(deduction)
	if taxableIncome.IsNegative() {
		taxableIncome = decimal.Zero
	}

	rate, idx := MarginalBracket(taxableIncome, brackets)
	return FederalTaxResult{
		StandardDeduction: deduction,
		TaxableIncome:     taxableIncome,
		Tax:               CalculateBracketTax(taxableIncome, brackets),
		MarginalRate:      rate,
		BracketIndex:      idx,
	}
}
