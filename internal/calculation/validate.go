package calculation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrInvalidTables marks a defect in reference data
var ErrInvalidTables = errors.New("invalid reference tables")

func invalid(year int, format string, args ...any) error {
	return fmt.Errorf("%w: %d: %s", ErrInvalidTables, year, fmt.Sprintf(format, args...))
}

// ValidateTables checks that every table is exhaustive and gap-free: rows
// ascend from zero, each lower bound equals the previous upper bound, and
// only the last row is unbounded. Every filing status with brackets must
// also have a deduction, Social Security thresholds and an IRMAA table.
func ValidateTables(t *domain.TaxYearTables) error {
	if t == nil {
		return fmt.Errorf("%w: nil tables", ErrInvalidTables)
	}
	if len(t.Brackets) == 0 {
		return invalid(t.Year, "no bracket tables")
	}

	for _, status := range sortedStatuses(t.Brackets) {
		if !status.Valid() {
			return invalid(t.Year, "unknown filing status %q", status)
		}
		if err := validateBrackets(t.Brackets[status]); err != nil {
			return invalid(t.Year, "%s brackets: %v", status, err)
		}

		ded, ok := t.StandardDeduction[status]
		if !ok || ded.IsNegative() {
			return invalid(t.Year, "%s: missing or negative standard deduction", status)
		}

		ss, ok := t.SocialSecurity[status]
		if !ok {
			return invalid(t.Year, "%s: missing Social Security thresholds", status)
		}
		if ss.Base.IsNegative() || ss.AdjustedBase.LessThan(ss.Base) {
			return invalid(t.Year, "%s: Social Security thresholds must satisfy 0 <= base <= adjusted base", status)
		}

		if err := validateIRMAA(t.IRMAA[status]); err != nil {
			return invalid(t.Year, "%s IRMAA: %v", status, err)
		}
	}

	if err := validateDivisors(t.RMDDivisors); err != nil {
		return invalid(t.Year, "RMD divisors: %v", err)
	}
	return nil
}

// ValidateTableSet validates every year in the set
func ValidateTableSet(ts domain.TableSet) error {
	if len(ts) == 0 {
		return fmt.Errorf("%w: empty table set", ErrInvalidTables)
	}
	for _, year := range ts.Years() {
		t := ts[year]
		if t != nil && t.Year != year {
			return invalid(year, "keyed as %d but tables say %d", year, t.Year)
		}
		if err := ValidateTables(t); err != nil {
			return err
		}
	}
	return nil
}

func sortedStatuses(m map[domain.FilingStatus][]domain.TaxBracket) []domain.FilingStatus {
	out := make([]domain.FilingStatus, 0, len(m))
	for fs := range m {
		out = append(out, fs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func validateBrackets(rows []domain.TaxBracket) error {
	if len(rows) == 0 {
		return errors.New("empty table")
	}
	if !rows[0].Lower.IsZero() {
		return fmt.Errorf("first row starts at %s, want 0", rows[0].Lower)
	}
	for i, r := range rows {
		if r.Rate.IsNegative() || r.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("row %d: rate %s out of range", i, r.Rate)
		}
		if err := checkRow(i, len(rows), r.Lower, r.Upper); err != nil {
			return err
		}
		if i > 0 && !r.Lower.Equal(*rows[i-1].Upper) {
			return fmt.Errorf("row %d: lower %s does not meet previous upper %s", i, r.Lower, *rows[i-1].Upper)
		}
	}
	return nil
}

func validateIRMAA(tiers []domain.IRMAATier) error {
	if len(tiers) == 0 {
		return errors.New("empty table")
	}
	if !tiers[0].Lower.IsZero() {
		return fmt.Errorf("first tier starts at %s, want 0", tiers[0].Lower)
	}
	for i, t := range tiers {
		if t.PartBSurcharge.IsNegative() || t.PartDSurcharge.IsNegative() {
			return fmt.Errorf("tier %d: negative surcharge", t.Tier)
		}
		if err := checkRow(i, len(tiers), t.Lower, t.Upper); err != nil {
			return err
		}
		if i > 0 {
			prev := tiers[i-1]
			if !t.Lower.Equal(*prev.Upper) {
				return fmt.Errorf("tier %d: lower %s does not meet previous upper %s", t.Tier, t.Lower, *prev.Upper)
			}
			if t.Tier <= prev.Tier {
				return fmt.Errorf("tier numbers must increase (%d after %d)", t.Tier, prev.Tier)
			}
		}
	}
	return nil
}

func checkRow(i, n int, lower decimal.Decimal, upper *decimal.Decimal) error {
	last := i == n-1
	switch {
	case upper == nil && !last:
		return fmt.Errorf("row %d: only the last row may be unbounded", i)
	case upper != nil && last:
		return fmt.Errorf("row %d: last row must be unbounded", i)
	case upper != nil && !upper.GreaterThan(lower):
		return fmt.Errorf("row %d: upper %s not above lower %s", i, *upper, lower)
	}
	return nil
}

func validateDivisors(divisors map[int]decimal.Decimal) error {
	if len(divisors) == 0 {
		return errors.New("empty table")
	}
	ages := make([]int, 0, len(divisors))
	for age, d := range divisors {
		if !d.IsPositive() {
			return fmt.Errorf("age %d: divisor %s must be positive", age, d)
		}
		ages = append(ages, age)
	}
	sort.Ints(ages)
	for i := 1; i < len(ages); i++ {
		if ages[i] != ages[i-1]+1 {
			return fmt.Errorf("missing divisor for age %d", ages[i-1]+1)
		}
	}
	return nil
}
