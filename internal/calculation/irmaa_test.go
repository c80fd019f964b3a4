package calculation

import (
	"testing"

	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedicareCalculator_LookupTier(t *testing.T) {
	tables := DefaultTables2025()

	tests := []struct {
		name       string
		status     domain.FilingStatus
		magi       string
		yearIndex  int
		inflation  string
		wantTier   int
		wantAnnual string
	}{
		{"single under first threshold", domain.FilingStatusSingle, "105999", 0, "0", 0, "0"},
		// (74.00 + 13.70) * 12
		{"single at first threshold", domain.FilingStatusSingle, "106000", 0, "0", 1, "1052.40"},
		{"single tier 3", domain.FilingStatusSingle, "170000", 0, "0", 3, "4234.80"},
		// (443.90 + 85.80) * 12
		{"single top tier", domain.FilingStatusSingle, "600000", 0, "0", 5, "6356.40"},
		{"joint under first threshold", domain.FilingStatusMarriedFilingJointly, "211999", 0, "0", 0, "0"},
		{"joint tier 2", domain.FilingStatusMarriedFilingJointly, "300000", 0, "0", 2, "2643.60"},
		// threshold indexes to 109180 in year 1 at 3%
		{"indexed threshold", domain.FilingStatusSingle, "108000", 1, "0.03", 0, "0"},
		{"indexed threshold reached", domain.FilingStatusSingle, "109180", 1, "0.03", 1, "1052.40"},
		{"zero magi", domain.FilingStatusSingle, "0", 0, "0", 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc := NewMedicareCalculator(tables, tt.status)
			res := mc.LookupTier(d(tt.magi), tt.yearIndex, d(tt.inflation))
			assert.Equal(t, tt.wantTier, res.Tier)
			assertDecimal(t, d(tt.wantAnnual), res.AnnualSurcharge)
		})
	}
}

func TestMedicareCalculator_SeparateFilerCliff(t *testing.T) {
	mc := NewMedicareCalculator(DefaultTables2025(), domain.FilingStatusMarriedFilingSeparately)
	top := d("6356.40")

	below := mc.LookupTier(d("105999"), 0, decimal.Zero)
	assert.Equal(t, 0, below.Tier)
	assert.True(t, below.AnnualSurcharge.IsZero())

	for _, magi := range []string{"106000", "106001", "150000", "2000000"} {
		res := mc.LookupTier(d(magi), 0, decimal.Zero)
		assert.Equal(t, 5, res.Tier, magi)
		assertDecimal(t, top, res.AnnualSurcharge, magi)
	}
}

func TestMedicareCalculator_EmptyTablePanics(t *testing.T) {
	mc := &MedicareCalculator{FilingStatus: domain.FilingStatusSingle}
	assert.Panics(t, func() { mc.LookupTier(d("1000"), 0, decimal.Zero) })
}

func TestMedicareCalculator_BelowFirstTierPanics(t *testing.T) {
	mc := NewMedicareCalculator(DefaultTables2025(), domain.FilingStatusSingle)
	assert.PanicsWithValue(t,
		"calculation: MAGI -5000 below first IRMAA tier 0 for single",
		func() { mc.LookupTier(d("-5000"), 0, decimal.Zero) })
}

func TestCalculateIRMAARiskStatus(t *testing.T) {
	mc := NewMedicareCalculator(DefaultTables2025(), domain.FilingStatusSingle)

	tests := []struct {
		name string
		magi string
		want domain.IRMAARisk
	}{
		{"comfortably below", "90000", domain.IRMAARiskSafe},
		{"within warning distance", "100000", domain.IRMAARiskWarning},
		{"exactly warning distance", "96000", domain.IRMAARiskWarning},
		{"over threshold", "120000", domain.IRMAARiskBreach},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := CalculateIRMAARiskStatus(d(tt.magi), 0, decimal.Zero, mc)
			if got != tt.want {
				t.Errorf("CalculateIRMAARiskStatus(%s) = %v, expected %v", tt.magi, got, tt.want)
			}
		})
	}
}

func TestAnalyzeIRMAARisk(t *testing.T) {
	mc := NewMedicareCalculator(DefaultTables2025(), domain.FilingStatusSingle)
	years := []domain.YearRecord{
		{Year: 2025, Age: 70, MAGIForIRMAA: d("90000")},
		{Year: 2026, Age: 71, MAGIForIRMAA: d("100000")},
		{Year: 2027, Age: 72, MAGIForIRMAA: d("120000")},
		{Year: 2028, Age: 73, MAGIForIRMAA: d("150000")},
	}

	analysis := AnalyzeIRMAARisk(years, decimal.Zero, mc)

	assert.Equal(t, []int{2027, 2028}, analysis.YearsWithBreaches)
	assert.Equal(t, []int{2026}, analysis.YearsWithWarnings)
	assert.Equal(t, 2027, analysis.FirstBreachYear)
	assert.True(t, analysis.HasBreaches())
	// 1052.40 + 2643.60
	assertDecimal(t, d("3696"), analysis.TotalIRMAACost)
	require.Len(t, analysis.HighRiskYears, 3)
	assertDecimal(t, d("6000"), analysis.HighRiskYears[0].DistanceToNext)
	require.NotEmpty(t, analysis.Recommendations)
	assert.Contains(t, analysis.Recommendations[0], "IRMAA breaches detected")
}

func TestAnalyzeIRMAARisk_NoConcerns(t *testing.T) {
	mc := NewMedicareCalculator(DefaultTables2025(), domain.FilingStatusSingle)
	analysis := AnalyzeIRMAARisk([]domain.YearRecord{{Year: 2025, MAGIForIRMAA: d("40000")}}, decimal.Zero, mc)

	assert.False(t, analysis.HasBreaches())
	assert.Empty(t, analysis.YearsWithWarnings)
	assert.Equal(t, 0, analysis.FirstBreachYear)
	assert.Contains(t, analysis.Recommendations[0], "No IRMAA concerns")
}

func TestMAGIChannels(t *testing.T) {
	agi, exempt := d("80000"), d("1500")
	assertDecimal(t, d("81500"), MAGIForIRMAA(agi, exempt))
	assertDecimal(t, MAGIForIRMAA(agi, exempt), MAGIForSSTax(agi, exempt))
}

func TestAnalyzeIRMAARisk_IndexesFromTableYear(t *testing.T) {
	mc := NewMedicareCalculator(DefaultTables2025(), domain.FilingStatusSingle)
	// the 106000 threshold indexes to 109180 in 2026 at 3%
	years := []domain.YearRecord{{Year: 2026, Age: 70, MAGIForIRMAA: d("108000")}}

	analysis := AnalyzeIRMAARisk(years, d("0.03"), mc)
	assert.Empty(t, analysis.YearsWithBreaches)

	years[0].Year = 2025
	analysis = AnalyzeIRMAARisk(years, d("0.03"), mc)
	assert.Equal(t, []int{2025}, analysis.YearsWithBreaches)
}

func TestTableYearIndex(t *testing.T) {
	tables := DefaultTables2025()
	tests := []struct {
		year int
		want int
	}{
		{2020, 0},
		{2025, 0},
		{2026, 1},
		{2035, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TableYearIndex(tables, tt.year), tt.year)
	}
}
