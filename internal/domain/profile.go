package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FilingStatus is the federal filing status of the household
type FilingStatus string

const (
	FilingStatusSingle                    FilingStatus = "single"
	FilingStatusMarriedFilingJointly      FilingStatus = "married_filing_jointly"
	FilingStatusMarriedFilingSeparately   FilingStatus = "married_filing_separately"
	FilingStatusHeadOfHousehold           FilingStatus = "head_of_household"
	FilingStatusQualifyingSurvivingSpouse FilingStatus = "qualifying_surviving_spouse"
)

// FilingStatuses returns every supported filing status in a stable order
func FilingStatuses() []FilingStatus {
	return []FilingStatus{
		FilingStatusSingle,
		FilingStatusMarriedFilingJointly,
		FilingStatusMarriedFilingSeparately,
		FilingStatusHeadOfHousehold,
		FilingStatusQualifyingSurvivingSpouse,
	}
}

// Valid reports whether the status is one of the supported values
func (fs FilingStatus) Valid() bool {
	for _, s := range FilingStatuses() {
		if fs == s {
			return true
		}
	}
	return false
}

// ParseFilingStatus accepts the canonical names and the common short forms
// (mfj, mfs, hoh, qss).
func ParseFilingStatus(s string) (FilingStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single":
		return FilingStatusSingle, nil
	case "married_filing_jointly", "mfj", "married":
		return FilingStatusMarriedFilingJointly, nil
	case "married_filing_separately", "mfs":
		return FilingStatusMarriedFilingSeparately, nil
	case "head_of_household", "hoh":
		return FilingStatusHeadOfHousehold, nil
	case "qualifying_surviving_spouse", "qss", "qualifying_widow":
		return FilingStatusQualifyingSurvivingSpouse, nil
	}
	return "", fmt.Errorf("unknown filing status %q", s)
}

// FinancialProfile is the validated, canonical input to the projection
// engine. Rates are fractional (0.04 = 4%). The engine does not re-validate
// anything here; that is the job of the config package.
type FinancialProfile struct {
	FilingStatus FilingStatus `json:"filingStatus"`
	StartYear    int          `json:"startYear"`

	CurrentAge             int  `json:"currentAge"`
	SpouseAge              *int `json:"spouseAge,omitempty"`
	RetirementAge          int  `json:"retirementAge"`
	SocialSecurityStartAge int  `json:"socialSecurityStartAge"`
	RMDStartAge            int  `json:"rmdStartAge"`
	LifeExpectancyAge      int  `json:"lifeExpectancyAge"`

	// Starting balances
	TaxDeferredBalance decimal.Decimal `json:"taxDeferredBalance"`
	RothBalance        decimal.Decimal `json:"rothBalance"`
	TaxableBalance     decimal.Decimal `json:"taxableBalance"`

	// Annual income in today's dollars
	Wages                 decimal.Decimal `json:"wages"`
	TaxableInterest       decimal.Decimal `json:"taxableInterest"`
	TaxExemptInterest     decimal.Decimal `json:"taxExemptInterest"`
	Dividends             decimal.Decimal `json:"dividends"`
	CapitalGains          decimal.Decimal `json:"capitalGains"`
	Pension               decimal.Decimal `json:"pension"`
	OtherIncome           decimal.Decimal `json:"otherIncome"`
	SocialSecurityBenefit decimal.Decimal `json:"socialSecurityBenefit"`

	GrowthRate    decimal.Decimal `json:"growthRate"`
	YieldRate     decimal.Decimal `json:"yieldRate"`
	InflationRate decimal.Decimal `json:"inflationRate"`

	// Conversion returns the requested Roth conversion for a year.
	// A nil Conversion means no conversions.
	Conversion ConversionFunc `json:"-"`

	ModelIRMAA bool `json:"modelIrmaa"`

	// ModelNIIT is carried through but the surtax is always zero.
	ModelNIIT bool `json:"modelNiit"`
}

// Years returns the number of simulated years, current age through life
// expectancy inclusive.
func (p FinancialProfile) Years() int {
	if p.LifeExpectancyAge < p.CurrentAge {
		return 0
	}
	return p.LifeExpectancyAge - p.CurrentAge + 1
}

// ConversionFor returns the requested conversion for a year, zero when no
// conversion function is set.
func (p FinancialProfile) ConversionFor(yearIndex, age int) decimal.Decimal {
	if p.Conversion == nil {
		return decimal.Zero
	}
	return p.Conversion(yearIndex, age)
}

// WithConversion returns a copy of the profile using fn as its conversion function
func (p FinancialProfile) WithConversion(fn ConversionFunc) FinancialProfile {
	p.Conversion = fn
	return p
}
