package calculation

import (
	"fmt"

	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
)

// MedicareCalculator looks up IRMAA tiers for one filing status. Thresholds
// are indexed by inflation each year; surcharges are not.
type MedicareCalculator struct {
	FilingStatus domain.FilingStatus
	Tiers        []domain.IRMAATier
	TableYear    int // tax year the tiers were published for
}

// NewMedicareCalculator creates a calculator from the year's IRMAA table
func NewMedicareCalculator(tables *domain.TaxYearTables, status domain.FilingStatus) *MedicareCalculator {
	return &MedicareCalculator{FilingStatus: status, Tiers: tables.IRMAAFor(status), TableYear: tables.Year}
}

// IRMAAResult is the tier matched for one year
type IRMAAResult struct {
	Tier             int
	MonthlySurcharge decimal.Decimal
	AnnualSurcharge  decimal.Decimal
	// NextThreshold is the lower bound of the following tier, zero at the top
	NextThreshold decimal.Decimal
}

// TiersForYear returns the tier table indexed for yearIndex
func (mc *MedicareCalculator) TiersForYear(yearIndex int, inflationRate decimal.Decimal) []domain.IRMAATier {
	return IndexIRMAATiers(mc.Tiers, InflationMultiplier(inflationRate, yearIndex))
}

// LookupTier finds the tier whose [lower, upper) holds magi. The first match
// wins and MAGI above every row falls to the last row, so a two-row table
// jumps straight from tier 0 to its top tier. An empty table, or MAGI below
// the first row, is a defect in the reference data and panics.
func (mc *MedicareCalculator) LookupTier(magi decimal.Decimal, yearIndex int, inflationRate decimal.Decimal) IRMAAResult {
	tiers := mc.TiersForYear(yearIndex, inflationRate)
	if len(tiers) == 0 {
		panic(fmt.Sprintf("calculation: empty IRMAA table for %s", mc.FilingStatus))
	}

	if magi.LessThan(tiers[0].Lower) {
		panic(fmt.Sprintf("calculation: MAGI %s below first IRMAA tier %s for %s", magi, tiers[0].Lower, mc.FilingStatus))
	}

	idx := len(tiers) - 1
	for i, t := range tiers {
		if t.Contains(magi) {
			idx = i
			break
		}
	}

	matched := tiers[idx]
	monthly := matched.MonthlySurcharge()
	result := IRMAAResult{
		Tier:             matched.Tier,
		MonthlySurcharge: monthly,
		AnnualSurcharge:  monthly.Mul(monthsPerYear),
	}
	if idx+1 < len(tiers) {
		result.NextThreshold = tiers[idx+1].Lower
	}
	return result
}
