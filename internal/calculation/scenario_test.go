package calculation

import (
	"context"
	"strings"
	"testing"

	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runScenario(profile domain.FinancialProfile, conversion domain.ConversionFunc) []domain.YearRecord {
	return NewScenarioRunner(DefaultTables2025(), profile, conversion, nil).Run()
}

func TestScenarioRunner_OneRecordPerAge(t *testing.T) {
	profile := retireeProfile()
	years := runScenario(profile, nil)

	require.Len(t, years, 26)
	for i, yr := range years {
		assert.Equal(t, profile.CurrentAge+i, yr.Age)
		assert.Equal(t, 2025+i, yr.Year)
	}
}

func TestScenarioRunner_LogsEachRun(t *testing.T) {
	logger := &recordingLogger{}
	profile := retireeProfile()
	conversion := domain.FixedAnnualConversion(d("10000"), domain.AgeRange{Start: 65, End: 66})

	years := NewScenarioRunner(DefaultTables2025(), profile, conversion, logger).Run()

	want := "scenario run: 26 years from age 65, converted 20000.00, lifetime tax " +
		domain.LifetimeTax(years).StringFixed(2)
	assert.Contains(t, logger.messages(), want)
}

func TestProjectionEngine_RunScenarioLogs(t *testing.T) {
	logger := &recordingLogger{}
	engine := newTestEngine(t, WithLogger(logger))

	_, err := engine.RunScenario(context.Background(), retireeProfile(), nil)
	require.NoError(t, err)

	msgs := strings.Join(logger.messages(), "\n")
	assert.Contains(t, msgs, "scenario run: 26 years from age 65, converted 0.00")
}

func TestScenarioRunner_EmptyWhenPastLifeExpectancy(t *testing.T) {
	profile := retireeProfile()
	profile.LifeExpectancyAge = profile.CurrentAge - 1
	assert.Empty(t, runScenario(profile, nil))
}

func TestScenarioRunner_BaselineHasNoConversions(t *testing.T) {
	profile := retireeProfile()
	growth := decimal.NewFromInt(1).Add(profile.GrowthRate)
	years := runScenario(profile, domain.NoConversion())

	for i, yr := range years {
		assert.True(t, yr.RothConversion.IsZero(), "age %d", yr.Age)
		assertDecimal(t, yr.IRAStart.Sub(yr.RMD).Mul(growth), yr.IRAEnd, "age ", yr.Age)
		assertDecimal(t, yr.RothStart.Mul(growth), yr.RothEnd, "age ", yr.Age)
		if i > 0 {
			assertDecimal(t, years[i-1].IRAEnd, yr.IRAStart, "age ", yr.Age)
			assertDecimal(t, years[i-1].TaxableEnd, yr.TaxableStart, "age ", yr.Age)
		}
	}
}

func TestScenarioRunner_ConversionCap(t *testing.T) {
	profile := retireeProfile()
	profile.CurrentAge = 72
	huge := func(int, int) decimal.Decimal { return d("1000000000") }

	years := runScenario(profile, huge)

	for _, yr := range years {
		limit := yr.IRAStart.Sub(yr.RMD)
		assert.True(t, yr.RothConversion.LessThanOrEqual(limit), "age %d converted %s over %s", yr.Age, yr.RothConversion, limit)
		assert.False(t, yr.IRAEnd.IsNegative())
	}
	// the whole account moves in the first year
	assertDecimal(t, d("500000"), years[0].RothConversion)
	assert.True(t, years[1].IRAStart.IsZero())
	assert.True(t, years[1].RothConversion.IsZero())
}

func TestScenarioRunner_ConversionCapAfterRMD(t *testing.T) {
	profile := retireeProfile()
	profile.CurrentAge = 73
	profile.LifeExpectancyAge = 73
	profile.TaxDeferredBalance = d("200000")

	years := runScenario(profile, domain.FixedAnnualConversion(d("500000"), domain.AgeRange{Start: 73, End: 73}))
	require.Len(t, years, 1)

	rmd := d("200000").Div(d("26.5"))
	assertDecimal(t, rmd, years[0].RMD)
	assertDecimal(t, d("200000").Sub(rmd), years[0].RothConversion)
	assert.True(t, years[0].IRAEnd.IsZero())
}

func TestScenarioRunner_NegativeRequestIsIgnored(t *testing.T) {
	negative := func(int, int) decimal.Decimal { return d("-5000") }
	for _, yr := range runScenario(retireeProfile(), negative) {
		assert.True(t, yr.RothConversion.IsZero())
	}
}

func TestScenarioRunner_RMDStartsAtStartAge(t *testing.T) {
	for _, yr := range runScenario(retireeProfile(), nil) {
		if yr.Age < 73 {
			assert.True(t, yr.RMD.IsZero(), "age %d", yr.Age)
		} else {
			assert.True(t, yr.RMD.IsPositive(), "age %d", yr.Age)
		}
	}
}

func TestScenarioRunner_IncomeLayers(t *testing.T) {
	profile := retireeProfile()
	profile.RetirementAge = 67
	profile.Wages = d("50000")
	years := runScenario(profile, nil)

	t.Run("wages stop at retirement", func(t *testing.T) {
		assertDecimal(t, d("50000"), years[0].Wages)
		assertDecimal(t, d("50000"), years[1].Wages)
		assert.True(t, years[2].Wages.IsZero())
	})

	t.Run("interest from taxable balance", func(t *testing.T) {
		for _, yr := range years {
			assertDecimal(t, yr.TaxableStart.Mul(d("0.02")).Add(d("1000")), yr.Interest, "age ", yr.Age)
		}
		assertDecimal(t, d("3000"), years[0].Interest)
	})

	t.Run("social security starts and gets COLA", func(t *testing.T) {
		assert.True(t, years[0].SocialSecurityGross.IsZero())
		assert.True(t, years[1].SocialSecurityGross.IsZero())
		assertDecimal(t, d("30000"), years[2].SocialSecurityGross)
		assertDecimal(t, d("30750"), years[3].SocialSecurityGross)
		assertDecimal(t, d("30750").Mul(d("1.025")), years[4].SocialSecurityGross)
	})
}

func TestScenarioRunner_DerivedQuantitiesAreConsistent(t *testing.T) {
	profile := retireeProfile()
	profile.CapitalGains = d("4000")
	profile.TaxExemptInterest = d("1500")
	profile.OtherIncome = d("500")
	years := runScenario(profile, domain.FixedAnnualConversion(d("40000"), domain.AgeRange{Start: 65, End: 72}))

	for _, yr := range years {
		ordinary := yr.Wages.Add(yr.Pension).Add(yr.RMD).Add(yr.RothConversion).
			Add(yr.Interest).Add(yr.Dividends).Add(yr.OtherIncome)
		assertDecimal(t, ordinary, yr.OrdinaryIncome, "ordinary at ", yr.Age)

		agi := ordinary.Add(yr.CapitalGains).Add(yr.SocialSecurityTaxable)
		assertDecimal(t, agi, yr.AGI, "agi at ", yr.Age)
		assertDecimal(t, agi.Add(yr.TaxExemptInterest).Add(yr.SocialSecurityGross.Mul(d("0.5"))), yr.CombinedIncome)
		assertDecimal(t, agi.Add(yr.TaxExemptInterest), yr.MAGIForIRMAA)
		assertDecimal(t, yr.MAGIForIRMAA, yr.MAGIForSSTax)

		taxable := decimal.Max(decimal.Zero, agi.Sub(yr.StandardDeduction))
		assertDecimal(t, taxable, yr.TaxableIncome, "taxable at ", yr.Age)
		assertDecimal(t, yr.FederalTax.Add(yr.IRMAASurcharge), yr.TotalBurden)
		assert.True(t, yr.NIIT.IsZero())

		assertDecimal(t, yr.IRAEnd, yr.IRABalance)
		assertDecimal(t, yr.RothEnd, yr.RothBalance)
		assertDecimal(t, yr.TaxableEnd, yr.TaxableBalance)
		assert.True(t, yr.SocialSecurityTaxable.LessThanOrEqual(yr.SocialSecurityGross.Mul(d("0.85"))))
	}
}

func TestScenarioRunner_IndexedDeduction(t *testing.T) {
	years := runScenario(retireeProfile(), nil)
	assertDecimal(t, d("15000"), years[0].StandardDeduction)
	// 15000 * 1.025 = 15375, 15000 * 1.050625 = 15759.375
	assertDecimal(t, d("15375"), years[1].StandardDeduction)
	assertDecimal(t, d("15759"), years[2].StandardDeduction)
}

func TestScenarioRunner_IRMAAToggle(t *testing.T) {
	profile := retireeProfile()
	profile.Pension = d("150000")

	modeled := runScenario(profile, nil)
	assert.Positive(t, modeled[0].IRMAATier)
	assert.True(t, modeled[0].IRMAASurcharge.IsPositive())

	profile.ModelIRMAA = false
	for _, yr := range runScenario(profile, nil) {
		assert.Equal(t, 0, yr.IRMAATier)
		assert.True(t, yr.IRMAASurcharge.IsZero())
		assertDecimal(t, yr.FederalTax, yr.TotalBurden)
	}
}

func TestScenarioRunner_RunIsRepeatable(t *testing.T) {
	runner := NewScenarioRunner(DefaultTables2025(), retireeProfile(), domain.FixedAnnualConversion(d("25000"), domain.AgeRange{Start: 65, End: 70}), nil)
	assert.Equal(t, runner.Run(), runner.Run())
}
