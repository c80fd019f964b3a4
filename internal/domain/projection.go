package domain

import (
	"github.com/shopspring/decimal"
)

// YearRecord is one simulated year. Records are produced by the scenario
// runner and never modified after they are appended to a scenario.
type YearRecord struct {
	Year int `json:"year"`
	Age  int `json:"age"`

	// Account balances at the start and end of the year
	IRAStart     decimal.Decimal `json:"iraStart"`
	IRAEnd       decimal.Decimal `json:"iraEnd"`
	RothStart    decimal.Decimal `json:"rothStart"`
	RothEnd      decimal.Decimal `json:"rothEnd"`
	TaxableStart decimal.Decimal `json:"taxableStart"`
	TaxableEnd   decimal.Decimal `json:"taxableEnd"`

	// Legacy aliases, always equal to the end-of-year balances
	IRABalance     decimal.Decimal `json:"iraBalance"`
	RothBalance    decimal.Decimal `json:"rothBalance"`
	TaxableBalance decimal.Decimal `json:"taxableBalance"`

	// Income layers
	Wages                 decimal.Decimal `json:"wages"`
	Pension               decimal.Decimal `json:"pension"`
	RMD                   decimal.Decimal `json:"rmd"`
	RothConversion        decimal.Decimal `json:"rothConversion"`
	SocialSecurityGross   decimal.Decimal `json:"socialSecurityGross"`
	SocialSecurityTaxable decimal.Decimal `json:"socialSecurityTaxable"`
	Interest              decimal.Decimal `json:"interest"`
	TaxExemptInterest     decimal.Decimal `json:"taxExemptInterest"`
	Dividends             decimal.Decimal `json:"dividends"`
	CapitalGains          decimal.Decimal `json:"capitalGains"`
	OtherIncome           decimal.Decimal `json:"otherIncome"`
	OrdinaryIncome        decimal.Decimal `json:"ordinaryIncome"`

	// Tax computation
	AGI               decimal.Decimal `json:"agi"`
	CombinedIncome    decimal.Decimal `json:"combinedIncome"`
	StandardDeduction decimal.Decimal `json:"standardDeduction"`
	TaxableIncome     decimal.Decimal `json:"taxableIncome"`
	FederalTax        decimal.Decimal `json:"federalTax"`
	MAGIForIRMAA      decimal.Decimal `json:"magiForIrmaa"`
	MAGIForSSTax      decimal.Decimal `json:"magiForSsTax"`
	MarginalRate      decimal.Decimal `json:"marginalRate"`
	BracketIndex      int             `json:"bracketIndex"`

	IRMAATier      int             `json:"irmaaTier"`
	IRMAASurcharge decimal.Decimal `json:"irmaaSurcharge"` // annualized
	NIIT           decimal.Decimal `json:"niit"`
	TotalBurden    decimal.Decimal `json:"totalBurden"` // federal tax + IRMAA surcharge
}

// ProjectionResult compares the no-conversion baseline with the strategy
type ProjectionResult struct {
	Baseline            []YearRecord    `json:"baseline"`
	Strategy            []YearRecord    `json:"strategy"`
	BaselineLifetimeTax decimal.Decimal `json:"baselineLifetimeTax"`
	StrategyLifetimeTax decimal.Decimal `json:"strategyLifetimeTax"`
	// LifetimeSavings is baseline minus strategy and may be negative
	LifetimeSavings decimal.Decimal `json:"lifetimeSavings"`
}

// LifetimeTax sums the total burden of every year
func LifetimeTax(years []YearRecord) decimal.Decimal {
	total := decimal.Zero
	for _, y := range years {
		total = total.Add(y.TotalBurden)
	}
	return total
}

// LifetimeIRMAA sums the annual IRMAA surcharges
func LifetimeIRMAA(years []YearRecord) decimal.Decimal {
	total := decimal.Zero
	for _, y := range years {
		total = total.Add(y.IRMAASurcharge)
	}
	return total
}

// TotalConversions sums the conversions actually applied
func TotalConversions(years []YearRecord) decimal.Decimal {
	total := decimal.Zero
	for _, y := range years {
		total = total.Add(y.RothConversion)
	}
	return total
}

// Final returns the last year of a scenario, or the zero record if empty
func Final(years []YearRecord) YearRecord {
	if len(years) == 0 {
		return YearRecord{}
	}
	return years[len(years)-1]
}
