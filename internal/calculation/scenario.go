package calculation

import (
	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
)

// yearState is the running state threaded from one simulated year to the next
type yearState struct {
	yearIndex   int
	age         int
	taxDeferred decimal.Decimal
	roth        decimal.Decimal
	taxable     decimal.Decimal
	ssBenefit   decimal.Decimal // gross annual benefit before this year's COLA
}

// ScenarioRunner simulates one account-balance trajectory from the current
// age through life expectancy. It holds no mutable state; Run can be called
// any number of times.
type ScenarioRunner struct {
	profile    domain.FinancialProfile
	conversion domain.ConversionFunc
	startYear  int
	tables     *domain.TaxYearTables

	taxCalc      *FederalTaxCalculator
	ssCalc       *SSTaxCalculator
	rmdCalc      *RMDCalculator
	medicareCalc *MedicareCalculator
	logger       Logger
}

// NewScenarioRunner creates a runner for profile against one tax year's
// tables. conversion overrides profile.Conversion; nil means no conversions.
func NewScenarioRunner(tables *domain.TaxYearTables, profile domain.FinancialProfile, conversion domain.ConversionFunc, logger Logger) *ScenarioRunner {
	if logger == nil {
		logger = NopLogger{}
	}
	if conversion == nil {
		conversion = domain.NoConversion()
	}
	startYear := profile.StartYear
	if startYear == 0 {
		startYear = tables.Year
	}
	return &ScenarioRunner{
		profile:      profile,
		conversion:   conversion,
		startYear:    startYear,
		tables:       tables,
		taxCalc:      NewFederalTaxCalculator(tables, profile.FilingStatus),
		ssCalc:       NewSSTaxCalculator(tables, profile.FilingStatus),
		rmdCalc:      NewRMDCalculator(tables, logger),
		medicareCalc: NewMedicareCalculator(tables, profile.FilingStatus),
		logger:       logger,
	}
}

// Run simulates every year and returns the records ordered by age
func (sr *ScenarioRunner) Run() []domain.YearRecord {
	years := make([]domain.YearRecord, 0, sr.profile.Years())
	state := sr.initialState()
	for state.age <= sr.profile.LifeExpectancyAge {
		var rec domain.YearRecord
		rec, state = sr.step(state)
		years = append(years, rec)
	}
	sr.logger.Debugf("scenario run: %d years from age %d, converted %s, lifetime tax %s",
		len(years), sr.profile.CurrentAge,
		domain.TotalConversions(years).StringFixed(2),
		domain.LifetimeTax(years).StringFixed(2))
	return years
}

func (sr *ScenarioRunner) initialState() yearState {
	return yearState{
		yearIndex:   0,
		age:         sr.profile.CurrentAge,
		taxDeferred: sr.profile.TaxDeferredBalance,
		roth:        sr.profile.RothBalance,
		taxable:     sr.profile.TaxableBalance,
		ssBenefit:   sr.profile.SocialSecurityBenefit,
	}
}

// step simulates one year and returns its record and the next year's state.
// The order matters: RMD and conversion come from start-of-year balances,
// growth is applied after money leaves the account, and the Social Security
// inclusion needs ordinary income before AGI can be formed.
func (sr *ScenarioRunner) step(s yearState) (domain.YearRecord, yearState) {
	p := sr.profile
	inflation := p.InflationRate
	// tables are indexed from their own tax year, which may precede startYear
	tableIndex := TableYearIndex(sr.tables, sr.startYear+s.yearIndex)
	growth := decimal.NewFromInt(1).Add(p.GrowthRate)

	// 1. start-of-year snapshot
	iraStart, rothStart, taxableStart := s.taxDeferred, s.roth, s.taxable

	// 2. income layers
	wages := decimal.Zero
	if s.age < p.RetirementAge {
		wages = p.Wages
	}
	interest := taxableStart.Mul(p.YieldRate).Add(p.TaxableInterest)
	ssActive := s.age >= p.SocialSecurityStartAge
	ssGross := decimal.Zero
	if ssActive {
		ssGross = s.ssBenefit
	}

	// 3. required distribution
	rmd := sr.rmdCalc.CalculateRMD(iraStart, s.age, p.RMDStartAge)

	// 4. conversion, capped at what remains after the RMD
	conversion := sr.conversion(s.yearIndex, s.age)
	maxConvertible := iraStart.Sub(rmd)
	if maxConvertible.IsNegative() {
		maxConvertible = decimal.Zero
	}
	if conversion.IsNegative() {
		conversion = decimal.Zero
	}
	conversion = decimal.Min(conversion, maxConvertible)

	// 5. balances, growth applied once after withdrawals
	iraEnd := iraStart.Sub(rmd).Sub(conversion)
	if iraEnd.IsNegative() {
		iraEnd = decimal.Zero
	}
	iraEnd = iraEnd.Mul(growth)
	rothEnd := rothStart.Add(conversion).Mul(growth)
	taxableEnd := taxableStart.Mul(growth)

	// 6. ordinary income and Social Security inclusion
	ordinary := wages.
		Add(p.Pension).
		Add(rmd).
		Add(conversion).
		Add(interest).
		Add(p.Dividends).
		Add(p.OtherIncome)
	ssTaxable := sr.ssCalc.CalculateTaxableSocialSecurity(ordinary, ssGross, p.TaxExemptInterest)

	// 7. AGI, combined income, MAGI
	agi := ordinary.Add(p.CapitalGains).Add(ssTaxable)
	combined := agi.Add(p.TaxExemptInterest).Add(ssGross.Mul(half))
	magiIRMAA := MAGIForIRMAA(agi, p.TaxExemptInterest)
	magiSS := MAGIForSSTax(agi, p.TaxExemptInterest)

	// 8. federal tax on indexed tables
	fed := sr.taxCalc.CalculateFederalTax(agi, tableIndex, inflation)

	// 9. IRMAA
	irmaaTier := 0
	irmaaSurcharge := decimal.Zero
	if p.ModelIRMAA {
		res := sr.medicareCalc.LookupTier(magiIRMAA, tableIndex, inflation)
		irmaaTier = res.Tier
		irmaaSurcharge = res.AnnualSurcharge
	}

	// 10. record
	rec := domain.YearRecord{
		Year: sr.startYear + s.yearIndex,
		Age:  s.age,

		IRAStart:     iraStart,
		IRAEnd:       iraEnd,
		RothStart:    rothStart,
		RothEnd:      rothEnd,
		TaxableStart: taxableStart,
		TaxableEnd:   taxableEnd,

		IRABalance:     iraEnd,
		RothBalance:    rothEnd,
		TaxableBalance: taxableEnd,

		Wages:                 wages,
		Pension:               p.Pension,
		RMD:                   rmd,
		RothConversion:        conversion,
		SocialSecurityGross:   ssGross,
		SocialSecurityTaxable: ssTaxable,
		Interest:              interest,
		TaxExemptInterest:     p.TaxExemptInterest,
		Dividends:             p.Dividends,
		CapitalGains:          p.CapitalGains,
		OtherIncome:           p.OtherIncome,
		OrdinaryIncome:        ordinary,

		AGI:               agi,
		CombinedIncome:    combined,
		StandardDeduction: fed.StandardDeduction,
		TaxableIncome:     fed.TaxableIncome,
		FederalTax:        fed.Tax,
		MAGIForIRMAA:      magiIRMAA,
		MAGIForSSTax:      magiSS,
		MarginalRate:      fed.MarginalRate,
		BracketIndex:      fed.BracketIndex,

		IRMAATier:      irmaaTier,
		IRMAASurcharge: irmaaSurcharge,
		NIIT:           decimal.Zero,
		TotalBurden:    fed.Tax.Add(irmaaSurcharge),
	}

	// 11. COLA for next year
	next := yearState{
		yearIndex:   s.yearIndex + 1,
		age:         s.age + 1,
		taxDeferred: iraEnd,
		roth:        rothEnd,
		taxable:     taxableEnd,
		ssBenefit:   s.ssBenefit,
	}
	if ssActive {
		next.ssBenefit = ApplySSCOLA(s.ssBenefit, inflation)
	}
	return rec, next
}
