package config

import (
	"fmt"

	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
)

// ToProfile maps a validated ProfileFile into the engine's profile. It runs
// the checks the tag rules cannot express, such as conversion ages that must
// fall inside the projection.
func (pf *ProfileFile) ToProfile() (domain.FinancialProfile, error) {
	status, err := domain.ParseFilingStatus(pf.FilingStatus)
	if err != nil {
		return domain.FinancialProfile{}, invalidField("filing_status", "ERR_FILING_STATUS", err.Error())
	}

	p := domain.FinancialProfile{
		FilingStatus:           status,
		StartYear:              pf.StartYear,
		CurrentAge:             pf.CurrentAge,
		RetirementAge:          pf.RetirementAge,
		SocialSecurityStartAge: pf.SocialSecurityStartAge,
		RMDStartAge:            pf.RMDStartAge,
		LifeExpectancyAge:      pf.LifeExpectancyAge,

		TaxDeferredBalance: money(pf.Balances.TaxDeferred),
		RothBalance:        money(pf.Balances.Roth),
		TaxableBalance:     money(pf.Balances.Taxable),

		Wages:                 money(pf.Income.Wages),
		TaxableInterest:       money(pf.Income.TaxableInterest),
		TaxExemptInterest:     money(pf.Income.TaxExemptInterest),
		Dividends:             money(pf.Income.Dividends),
		CapitalGains:          money(pf.Income.CapitalGains),
		Pension:               money(pf.Income.Pension),
		OtherIncome:           money(pf.Income.OtherIncome),
		SocialSecurityBenefit: money(pf.Income.SocialSecurityBenefit),

		GrowthRate:    fraction(pf.GrowthRate),
		YieldRate:     fraction(pf.YieldRate),
		InflationRate: fraction(pf.InflationRate),

		ModelIRMAA: pf.ModelIRMAA == nil || *pf.ModelIRMAA,
		ModelNIIT:  pf.ModelNIIT,
	}
	if pf.SpouseAge != nil {
		age := *pf.SpouseAge
		p.SpouseAge = &age
	}

	conv, err := pf.Conversion.toFunc(p.CurrentAge, p.LifeExpectancyAge)
	if err != nil {
		return domain.FinancialProfile{}, err
	}
	p.Conversion = conv
	return p, nil
}

func (c ConversionFile) toFunc(firstAge, lastAge int) (domain.ConversionFunc, error) {
	switch c.Type {
	case "", ConversionNone:
		if c.Amount != 0 || len(c.Schedule) > 0 {
			return nil, invalidField("conversion.type", "ERR_CONVERSION",
				"is none but an amount or schedule is set")
		}
		return domain.NoConversion(), nil

	case ConversionFixed:
		if len(c.Schedule) > 0 {
			return nil, invalidField("conversion.schedule", "ERR_CONVERSION", "is only used with type schedule")
		}
		window := domain.AgeRange{Start: c.StartAge, End: c.EndAge}
		if window.Start == 0 {
			window.Start = firstAge
		}
		if window.End == 0 {
			window.End = lastAge
		}
		if window.End < window.Start {
			return nil, invalidField("conversion.end_age", "ERR_GTEFIELD",
				fmt.Sprintf("must not be less than start_age (%d)", window.Start))
		}
		return domain.FixedAnnualConversion(money(c.Amount), window), nil

	case ConversionSchedule:
		if len(c.Schedule) == 0 {
			return nil, invalidField("conversion.schedule", "ERR_REQUIRED", "is required for type schedule")
		}
		schedule := domain.RothConversionSchedule{Conversions: make([]domain.RothConversion, 0, len(c.Schedule))}
		for i, sc := range c.Schedule {
			if sc.Age < firstAge || sc.Age > lastAge {
				return nil, invalidField(fmt.Sprintf("conversion.schedule[%d].age", i), "ERR_RANGE",
					fmt.Sprintf("must be between %d and %d", firstAge, lastAge))
			}
			schedule.Conversions = append(schedule.Conversions, domain.RothConversion{Age: sc.Age, Amount: money(sc.Amount)})
		}
		return schedule.Func(), nil

	default:
		return nil, invalidField("conversion.type", "ERR_ONEOF", "must be one of: none, fixed, schedule")
	}
}

// money converts a document amount to cents precision
func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func fraction(v *float64) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*v)
}

// FromProfile is the inverse of ToProfile for the scalar fields. The
// conversion strategy cannot be recovered from a function and is written as
// the given document section.
func FromProfile(p domain.FinancialProfile, conversion ConversionFile) *ProfileFile {
	growth := p.GrowthRate.InexactFloat64()
	yield := p.YieldRate.InexactFloat64()
	inflation := p.InflationRate.InexactFloat64()
	irmaa := p.ModelIRMAA

	pf := &ProfileFile{
		FilingStatus:           string(p.FilingStatus),
		StartYear:              p.StartYear,
		CurrentAge:             p.CurrentAge,
		RetirementAge:          p.RetirementAge,
		SocialSecurityStartAge: p.SocialSecurityStartAge,
		RMDStartAge:            p.RMDStartAge,
		LifeExpectancyAge:      p.LifeExpectancyAge,
		Balances: Balances{
			TaxDeferred: p.TaxDeferredBalance.InexactFloat64(),
			Roth:        p.RothBalance.InexactFloat64(),
			Taxable:     p.TaxableBalance.InexactFloat64(),
		},
		Income: Income{
			Wages:                 p.Wages.InexactFloat64(),
			TaxableInterest:       p.TaxableInterest.InexactFloat64(),
			TaxExemptInterest:     p.TaxExemptInterest.InexactFloat64(),
			Dividends:             p.Dividends.InexactFloat64(),
			CapitalGains:          p.CapitalGains.InexactFloat64(),
			Pension:               p.Pension.InexactFloat64(),
			OtherIncome:           p.OtherIncome.InexactFloat64(),
			SocialSecurityBenefit: p.SocialSecurityBenefit.InexactFloat64(),
		},
		GrowthRate:    &growth,
		YieldRate:     &yield,
		InflationRate: &inflation,
		ModelIRMAA:    &irmaa,
		ModelNIIT:     p.ModelNIIT,
		Conversion:    conversion,
	}
	if p.SpouseAge != nil {
		age := *p.SpouseAge
		pf.SpouseAge = &age
	}
	return pf
}
