package calculation

import (
	"testing"

	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateTaxableSocialSecurity(t *testing.T) {
	tables := DefaultTables2025()

	tests := []struct {
		name     string
		status   domain.FilingStatus
		ordinary string
		gross    string
		exempt   string
		want     string
	}{
		// combined 40000 + 0 + 10000 = 50000; 4500 + 13600 = 18100 capped at 17000
		{"single above adjusted base", domain.FilingStatusSingle, "40000", "20000", "0", "17000"},
		{"single below base", domain.FilingStatusSingle, "10000", "20000", "0", "0"},
		{"single exactly at base", domain.FilingStatusSingle, "15000", "20000", "0", "0"},
		// combined 30000: min(10000, 2500)
		{"single middle zone", domain.FilingStatusSingle, "20000", "20000", "0", "2500"},
		// combined 25000 + 2000 + 5000 = 32000: min(5000, 3500)
		{"tax-exempt interest counts", domain.FilingStatusSingle, "25000", "10000", "2000", "3500"},
		// combined 45000: 6000 + 850
		{"joint above adjusted base", domain.FilingStatusMarriedFilingJointly, "30000", "30000", "0", "6850"},
		{"joint at adjusted base", domain.FilingStatusMarriedFilingJointly, "28000", "32000", "0", "6000"},
		// zero thresholds: 0.85 * 20000 = 17000
		{"separate filers", domain.FilingStatusMarriedFilingSeparately, "10000", "20000", "0", "17000"},
		{"no benefit", domain.FilingStatusSingle, "90000", "0", "0", "0"},
		{"negative benefit", domain.FilingStatusSingle, "90000", "-100", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := NewSSTaxCalculator(tables, tt.status)
			got := calc.CalculateTaxableSocialSecurity(d(tt.ordinary), d(tt.gross), d(tt.exempt))
			assertDecimal(t, d(tt.want), got)
		})
	}
}

func TestCalculateTaxableSocialSecurity_Caps(t *testing.T) {
	tables := DefaultTables2025()
	gross := d("24000")
	cap85 := gross.Mul(d("0.85"))

	for _, status := range domain.FilingStatuses() {
		calc := NewSSTaxCalculator(tables, status)
		t.Run(string(status), func(t *testing.T) {
			for income := decimal.Zero; income.LessThanOrEqual(d("200000")); income = income.Add(d("500")) {
				taxable := calc.CalculateTaxableSocialSecurity(income, gross, decimal.Zero)
				assert.False(t, taxable.IsNegative())
				assert.True(t, taxable.LessThanOrEqual(cap85), "income %s: %s over 85%%", income, taxable)
				assert.True(t, taxable.LessThanOrEqual(gross))
			}
		})
	}
}

func TestCalculateTaxableSocialSecurity_ZeroAtBase(t *testing.T) {
	tables := DefaultTables2025()
	for _, status := range []domain.FilingStatus{domain.FilingStatusSingle, domain.FilingStatusMarriedFilingJointly} {
		calc := NewSSTaxCalculator(tables, status)
		gross := d("18000")
		// ordinary income chosen so combined income equals the base threshold
		ordinary := calc.Thresholds.Base.Sub(gross.Mul(d("0.5")))
		assert.True(t, calc.CalculateTaxableSocialSecurity(ordinary, gross, decimal.Zero).IsZero(), string(status))
	}
}

func TestSSTaxCalculator_InclusionRate(t *testing.T) {
	calc := NewSSTaxCalculator(DefaultTables2025(), domain.FilingStatusSingle)
	assert.True(t, calc.InclusionRate(decimal.Zero, decimal.Zero).IsZero())
	assertDecimal(t, d("0.85"), calc.InclusionRate(d("17000"), d("20000")))
}

func TestApplySSCOLA(t *testing.T) {
	assertDecimal(t, d("30750"), ApplySSCOLA(d("30000"), d("0.025")))
}
