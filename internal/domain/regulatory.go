package domain

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// TaxYearTables contains all regulatory data for a single tax year.
// Values are read-only once handed to the calculation engine; the engine
// works on its own clone and never mutates them.
type TaxYearTables struct {
	Metadata          RegulatoryMetadata               `yaml:"metadata" json:"metadata"`
	Year              int                              `yaml:"year" json:"year"`
	Brackets          map[FilingStatus][]TaxBracket    `yaml:"brackets" json:"brackets"`
	StandardDeduction map[FilingStatus]decimal.Decimal `yaml:"standard_deduction" json:"standardDeduction"`
	SocialSecurity    map[FilingStatus]SSTaxThresholds `yaml:"social_security" json:"socialSecurity"`
	IRMAA             map[FilingStatus][]IRMAATier     `yaml:"irmaa" json:"irmaa"`
	RMDDivisors       map[int]decimal.Decimal          `yaml:"rmd_divisors" json:"rmdDivisors"`
}

// RegulatoryMetadata contains information about the regulatory data
type RegulatoryMetadata struct {
	DataYear    int    `yaml:"data_year" json:"dataYear"`
	LastUpdated string `yaml:"last_updated" json:"lastUpdated"`
	Description string `yaml:"description" json:"description"`
}

// TaxBracket is one row of an ordinary-income bracket table.
// A nil Upper marks the unbounded top row.
type TaxBracket struct {
	Rate  decimal.Decimal  `yaml:"rate" json:"rate"`
	Lower decimal.Decimal  `yaml:"lower" json:"lower"`
	Upper *decimal.Decimal `yaml:"upper,omitempty" json:"upper,omitempty"`
}

// Unbounded reports whether the row has no upper bound
func (b TaxBracket) Unbounded() bool {
	return b.Upper == nil
}

// Contains reports whether x falls in [Lower, Upper)
func (b TaxBracket) Contains(x decimal.Decimal) bool {
	if x.LessThan(b.Lower) {
		return false
	}
	return b.Upper == nil || x.LessThan(*b.Upper)
}

// IRMAATier is one row of an IRMAA table. Surcharges are monthly amounts
// per beneficiary; a nil Upper marks the top tier.
type IRMAATier struct {
	Tier           int              `yaml:"tier" json:"tier"`
	Lower          decimal.Decimal  `yaml:"lower" json:"lower"`
	Upper          *decimal.Decimal `yaml:"upper,omitempty" json:"upper,omitempty"`
	PartBSurcharge decimal.Decimal  `yaml:"part_b_surcharge" json:"partBSurcharge"`
	PartDSurcharge decimal.Decimal  `yaml:"part_d_surcharge" json:"partDSurcharge"`
}

// Contains reports whether magi falls in [Lower, Upper)
func (t IRMAATier) Contains(magi decimal.Decimal) bool {
	if magi.LessThan(t.Lower) {
		return false
	}
	return t.Upper == nil || magi.LessThan(*t.Upper)
}

// MonthlySurcharge returns the combined Part B and Part D surcharge
func (t IRMAATier) MonthlySurcharge() decimal.Decimal {
	return t.PartBSurcharge.Add(t.PartDSurcharge)
}

// SSTaxThresholds contains the two provisional income thresholds used to
// determine how much of a Social Security benefit is taxable.
type SSTaxThresholds struct {
	Base         decimal.Decimal `yaml:"base" json:"base"`
	AdjustedBase decimal.Decimal `yaml:"adjusted_base" json:"adjustedBase"`
}

// BracketsFor returns the bracket table for a filing status
func (t *TaxYearTables) BracketsFor(status FilingStatus) []TaxBracket {
	return t.Brackets[status]
}

// DeductionFor returns the base-year standard deduction for a filing status
func (t *TaxYearTables) DeductionFor(status FilingStatus) decimal.Decimal {
	return t.StandardDeduction[status]
}

// ThresholdsFor returns the Social Security thresholds for a filing status
func (t *TaxYearTables) ThresholdsFor(status FilingStatus) SSTaxThresholds {
	return t.SocialSecurity[status]
}

// IRMAAFor returns the IRMAA tier table for a filing status
func (t *TaxYearTables) IRMAAFor(status FilingStatus) []IRMAATier {
	return t.IRMAA[status]
}

// Clone returns a deep copy so callers can never mutate tables in use
func (t *TaxYearTables) Clone() *TaxYearTables {
	if t == nil {
		return nil
	}
	c := &TaxYearTables{
		Metadata:          t.Metadata,
		Year:              t.Year,
		Brackets:          make(map[FilingStatus][]TaxBracket, len(t.Brackets)),
		StandardDeduction: make(map[FilingStatus]decimal.Decimal, len(t.StandardDeduction)),
		SocialSecurity:    make(map[FilingStatus]SSTaxThresholds, len(t.SocialSecurity)),
		IRMAA:             make(map[FilingStatus][]IRMAATier, len(t.IRMAA)),
		RMDDivisors:       make(map[int]decimal.Decimal, len(t.RMDDivisors)),
	}
	for fs, rows := range t.Brackets {
		cp := make([]TaxBracket, len(rows))
		for i, r := range rows {
			cp[i] = TaxBracket{Rate: r.Rate, Lower: r.Lower, Upper: copyBound(r.Upper)}
		}
		c.Brackets[fs] = cp
	}
	for fs, v := range t.StandardDeduction {
		c.StandardDeduction[fs] = v
	}
	for fs, v := range t.SocialSecurity {
		c.SocialSecurity[fs] = v
	}
	for fs, rows := range t.IRMAA {
		cp := make([]IRMAATier, len(rows))
		for i, r := range rows {
			r.Upper = copyBound(r.Upper)
			cp[i] = r
		}
		c.IRMAA[fs] = cp
	}
	for age, d := range t.RMDDivisors {
		c.RMDDivisors[age] = d
	}
	return c
}

func copyBound(b *decimal.Decimal) *decimal.Decimal {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

// Bound is a convenience for building table rows with a finite upper bound
func Bound(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// ErrNoTablesForYear is returned when a TableSet has nothing at or before a year
var ErrNoTablesForYear = errors.New("no reference tables for tax year")

// TableSet holds reference tables keyed by tax year
type TableSet map[int]*TaxYearTables

// ForYear returns the tables for year, falling back to the latest earlier
// year when the exact year is not present.
func (ts TableSet) ForYear(year int) (*TaxYearTables, error) {
	if t, ok := ts[year]; ok {
		return t, nil
	}
	years := ts.Years()
	for i := len(years) - 1; i >= 0; i-- {
		if years[i] < year {
			return ts[years[i]], nil
		}
	}
	return nil, fmt.Errorf("%w %d", ErrNoTablesForYear, year)
}

// Years returns the available tax years in ascending order
func (ts TableSet) Years() []int {
	years := make([]int, 0, len(ts))
	for y := range ts {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
