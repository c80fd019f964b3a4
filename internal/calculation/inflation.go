package calculation

import (
	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
)

// InflationMultiplier returns (1 + rate)^yearIndex. Year 0 and non-positive
// rates return exactly 1 so the base year never drifts.
func InflationMultiplier(rate decimal.Decimal, yearIndex int) decimal.Decimal {
	if yearIndex <= 0 || !rate.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(1).Add(rate).Pow(decimal.NewFromInt(int64(yearIndex)))
}

// TableYearIndex returns how many years of indexing separate a calendar
// year from the tax year the tables were published for. Years at or before
// the tables' year are not indexed.
func TableYearIndex(tables *domain.TaxYearTables, year int) int {
	if year <= tables.Year {
		return 0
	}
	return year - tables.Year
}

// IndexAmount scales a dollar amount by the multiplier and rounds to whole dollars
func IndexAmount(amount, multiplier decimal.Decimal) decimal.Decimal {
	if multiplier.Equal(decimal.NewFromInt(1)) {
		return amount
	}
	return amount.Mul(multiplier).Round(0)
}

// IndexBrackets returns a copy of brackets with every bound scaled and
// rounded. An unbounded top row stays unbounded. The input is not modified.
func IndexBrackets(brackets []domain.TaxBracket, multiplier decimal.Decimal) []domain.TaxBracket {
	out := make([]domain.TaxBracket, len(brackets))
	for i, b := range brackets {
		out[i] = domain.TaxBracket{
			Rate:  b.Rate,
			Lower: IndexAmount(b.Lower, multiplier),
		}
		if b.Upper != nil {
			upper := IndexAmount(*b.Upper, multiplier)
			out[i].Upper = &upper
		}
	}
	return out
}

// IndexIRMAATiers scales tier thresholds the same way as IndexBrackets.
// Surcharges are left as published.
func IndexIRMAATiers(tiers []domain.IRMAATier, multiplier decimal.Decimal) []domain.IRMAATier {
	out := make([]domain.IRMAATier, len(tiers))
	for i, t := range tiers {
		t.Lower = IndexAmount(t.Lower, multiplier)
		if t.Upper != nil {
			upper := IndexAmount(*t.Upper, multiplier)
			t.Upper = &upper
		}
		out[i] = t
	}
	return out
}
