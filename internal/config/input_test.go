package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/rothcalc/internal/calculation"
	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const retireeYAML = `
filing_status: mfj
start_year: 2025
current_age: 65
spouse_age: 63
retirement_age: 65
social_security_start_age: 67
rmd_start_age: 73
life_expectancy_age: 90
balances:
  tax_deferred: 1000000
  roth: 50000
  taxable: 200000
income:
  pension: 30000
  dividends: 5000
  social_security: 36000
growth_rate: 0.05
yield_rate: 0.02
inflation_rate: 0.025
conversion:
  type: fixed
  amount: 50000
  start_age: 65
  end_age: 72
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected *ValidationError, got %v", err)
	names := make([]string, len(ve.Fields))
	for i, f := range ve.Fields {
		names[i] = f.Field
	}
	return names
}

func TestInputParser_LoadFromFile(t *testing.T) {
	ip := NewInputParser()
	path := writeFile(t, "profile.yaml", retireeYAML)

	p, err := ip.LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, domain.FilingStatusMarriedFilingJointly, p.FilingStatus)
	assert.Equal(t, 2025, p.StartYear)
	assert.Equal(t, 65, p.CurrentAge)
	require.NotNil(t, p.SpouseAge)
	assert.Equal(t, 63, *p.SpouseAge)
	assert.Equal(t, 26, p.Years())
	assert.True(t, p.TaxDeferredBalance.Equal(decimal.NewFromInt(1000000)))
	assert.True(t, p.SocialSecurityBenefit.Equal(decimal.NewFromInt(36000)))
	assert.Equal(t, "0.05", p.GrowthRate.String())
	assert.Equal(t, "0.025", p.InflationRate.String())
	assert.True(t, p.ModelIRMAA, "model_irmaa defaults to true")
	assert.False(t, p.ModelNIIT)

	assert.True(t, p.ConversionFor(0, 65).Equal(decimal.NewFromInt(50000)))
	assert.True(t, p.ConversionFor(7, 72).Equal(decimal.NewFromInt(50000)))
	assert.True(t, p.ConversionFor(8, 73).IsZero())
}

func TestInputParser_LoadFromFile_FileNotFound(t *testing.T) {
	ip := NewInputParser()
	_, err := ip.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestInputParser_ParseDocument_InvalidYAML(t *testing.T) {
	ip := NewInputParser()
	_, err := ip.ParseDocument([]byte("current_age: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestInputParser_ParseDocument_UnknownField(t *testing.T) {
	ip := NewInputParser()
	_, err := ip.ParseDocument([]byte("current_age: 65\ngrowth: 0.07\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "growth")
}

func TestInputParser_ParseDocument_Defaults(t *testing.T) {
	ip := NewInputParser()
	pf, err := ip.ParseDocument([]byte("current_age: 60\n"))
	require.NoError(t, err)

	assert.Equal(t, "single", pf.FilingStatus)
	assert.Equal(t, 65, pf.RetirementAge)
	assert.Equal(t, 67, pf.SocialSecurityStartAge)
	assert.Equal(t, 73, pf.RMDStartAge)
	assert.Equal(t, 90, pf.LifeExpectancyAge)
	require.NotNil(t, pf.GrowthRate)
	assert.Equal(t, 0.05, *pf.GrowthRate)
	assert.Equal(t, 0.02, *pf.YieldRate)
	assert.Equal(t, 0.025, *pf.InflationRate)
	require.NotNil(t, pf.ModelIRMAA)
	assert.True(t, *pf.ModelIRMAA)
	assert.Equal(t, ConversionNone, pf.Conversion.Type)
}

func TestInputParser_ParseDocument_ExplicitZeroRateKept(t *testing.T) {
	ip := NewInputParser()
	p, err := ip.ParseProfile([]byte("current_age: 60\ngrowth_rate: 0\nmodel_irmaa: false\n"))
	require.NoError(t, err)
	assert.True(t, p.GrowthRate.IsZero())
	assert.False(t, p.ModelIRMAA)
}

func TestValidate_FieldErrors(t *testing.T) {
	ip := NewInputParser()

	tests := []struct {
		name  string
		yaml  string
		field string
		code  string
	}{
		{"missing current age", "filing_status: single\n", "current_age", "ERR_REQUIRED"},
		{"filing status alias", "current_age: 60\nfiling_status: married\n", "", ""},
		{"bad filing status", "current_age: 60\nfiling_status: widowed\n", "filing_status", "ERR_FILING_STATUS"},
		{"negative balance", "current_age: 60\nbalances:\n  roth: -1\n", "balances.roth", "ERR_GTE"},
		{"negative income", "current_age: 60\nincome:\n  wages: -5\n", "income.wages", "ERR_GTE"},
		{"life expectancy before current age", "current_age: 80\nlife_expectancy_age: 75\n", "life_expectancy_age", "ERR_GTEFIELD"},
		{"ss start too early", "current_age: 60\nsocial_security_start_age: 55\n", "social_security_start_age", "ERR_GTE"},
		{"rmd start too late", "current_age: 60\nrmd_start_age: 80\n", "rmd_start_age", "ERR_LTE"},
		{"growth out of range", "current_age: 60\ngrowth_rate: 0.9\n", "growth_rate", "ERR_LTE"},
		{"conversion type", "current_age: 60\nconversion:\n  type: ladder\n", "conversion.type", "ERR_ONEOF"},
		{"schedule entry", "current_age: 60\nconversion:\n  type: schedule\n  schedule:\n    - age: 61\n      amount: -10\n", "conversion.schedule[0].amount", "ERR_GTE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ip.ParseDocument([]byte(tt.yaml))
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidProfile))
			assert.Contains(t, fieldNames(t, err), tt.field)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			for _, f := range ve.Fields {
				if f.Field == tt.field {
					assert.Equal(t, tt.code, f.Code)
					assert.Contains(t, f.Message, tt.field)
				}
			}
		})
	}
}

func TestFilingStatusValidation(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"single", true},
		{"married_filing_jointly", true},
		{"MFJ", true},
		{"hoh", true},
		{"widowed", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := validate.Var(tt.value, "filing_status")
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	ip := NewInputParser()
	_, err := ip.ParseDocument([]byte("balances:\n  roth: -1\nincome:\n  pension: -1\n"))
	require.Error(t, err)
	assert.ElementsMatch(t, []string{"current_age", "balances.roth", "income.pension"}, fieldNames(t, err))
}

func TestToProfile_Conversion(t *testing.T) {
	ip := NewInputParser()

	tests := []struct {
		name    string
		yaml    string
		field   string
		amounts map[int]int64 // age -> expected conversion
	}{
		{
			name:    "none",
			yaml:    "current_age: 60\n",
			amounts: map[int]int64{60: 0, 75: 0},
		},
		{
			name:    "fixed defaults to the whole projection",
			yaml:    "current_age: 60\nlife_expectancy_age: 70\nconversion:\n  type: fixed\n  amount: 10000\n",
			amounts: map[int]int64{60: 10000, 70: 10000},
		},
		{
			name:    "fixed window",
			yaml:    "current_age: 60\nconversion:\n  type: fixed\n  amount: 10000\n  start_age: 62\n  end_age: 63\n",
			amounts: map[int]int64{61: 0, 62: 10000, 63: 10000, 64: 0},
		},
		{
			name:    "schedule",
			yaml:    "current_age: 60\nconversion:\n  type: schedule\n  schedule:\n    - {age: 61, amount: 20000}\n    - {age: 64, amount: 5000}\n",
			amounts: map[int]int64{60: 0, 61: 20000, 64: 5000},
		},
		{
			name:  "fixed window reversed",
			yaml:  "current_age: 60\nconversion:\n  type: fixed\n  amount: 10000\n  start_age: 70\n  end_age: 65\n",
			field: "conversion.end_age",
		},
		{
			name:  "schedule age outside projection",
			yaml:  "current_age: 60\nconversion:\n  type: schedule\n  schedule:\n    - {age: 55, amount: 20000}\n",
			field: "conversion.schedule[0].age",
		},
		{
			name:  "schedule missing",
			yaml:  "current_age: 60\nconversion:\n  type: schedule\n",
			field: "conversion.schedule",
		},
		{
			name:  "none with amount",
			yaml:  "current_age: 60\nconversion:\n  amount: 100\n",
			field: "conversion.type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ip.ParseProfile([]byte(tt.yaml))
			if tt.field != "" {
				require.Error(t, err)
				assert.Equal(t, []string{tt.field}, fieldNames(t, err))
				return
			}
			require.NoError(t, err)
			for age, want := range tt.amounts {
				got := p.ConversionFor(age-p.CurrentAge, age)
				assert.True(t, got.Equal(decimal.NewFromInt(want)), "age %d: got %s want %d", age, got, want)
			}
		})
	}
}

func TestFromProfile_RoundTrip(t *testing.T) {
	ip := NewInputParser()
	pf, err := ip.ParseDocument([]byte(retireeYAML))
	require.NoError(t, err)
	p, err := pf.ToProfile()
	require.NoError(t, err)

	back := FromProfile(p, pf.Conversion)
	require.NoError(t, Validate(back))
	again, err := back.ToProfile()
	require.NoError(t, err)

	assert.Equal(t, p.FilingStatus, again.FilingStatus)
	assert.Equal(t, p.Years(), again.Years())
	assert.True(t, p.TaxDeferredBalance.Equal(again.TaxDeferredBalance))
	assert.True(t, p.InflationRate.Equal(again.InflationRate))
	assert.Equal(t, *p.SpouseAge, *again.SpouseAge)
	assert.True(t, p.ConversionFor(3, 68).Equal(again.ConversionFor(3, 68)))
}

const tables2026YAML = `
tables:
  - year: 2026
    metadata:
      data_year: 2026
      description: test tables
    brackets:
      single:
        - {rate: 0.10, lower: 0, upper: 12000}
        - {rate: 0.20, lower: 12000}
    standard_deduction:
      single: 16000
    social_security:
      single: {base: 25000, adjusted_base: 34000}
    irmaa:
      single:
        - {tier: 0, lower: 0, upper: 110000, part_b_surcharge: 0, part_d_surcharge: 0}
        - {tier: 1, lower: 110000, part_b_surcharge: 80, part_d_surcharge: 14}
    rmd_divisors:
      73: 26.5
      74: 25.5
`

func TestInputParser_LoadTablesFromFile(t *testing.T) {
	ip := NewInputParser()
	path := writeFile(t, "tables.yaml", tables2026YAML)

	set, err := ip.LoadTablesFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []int{2025, 2026}, set.Years())

	t2026 := set[2026]
	require.Len(t, t2026.Brackets[domain.FilingStatusSingle], 2)
	assert.True(t, t2026.Brackets[domain.FilingStatusSingle][1].Unbounded())
	assert.Equal(t, "12000", t2026.Brackets[domain.FilingStatusSingle][0].Upper.String())
	assert.Equal(t, "16000", t2026.DeductionFor(domain.FilingStatusSingle).String())
	assert.Equal(t, "26.5", t2026.RMDDivisors[73].String())

	// built-in year untouched
	assert.True(t, set[2025].DeductionFor(domain.FilingStatusSingle).Equal(
		calculation.DefaultTables2025().DeductionFor(domain.FilingStatusSingle)))
}

func TestInputParser_ParseTables_Errors(t *testing.T) {
	ip := NewInputParser()

	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "tables: []\n", "no tax years"},
		{"bad yaml", "tables: [", "failed to parse tables YAML"},
		{"duplicate year", "tables:\n  - {year: 2026}\n  - {year: 2026}\n", "more than once"},
		{"gap in brackets", `
tables:
  - year: 2026
    brackets:
      single:
        - {rate: 0.10, lower: 0, upper: 100}
        - {rate: 0.20, lower: 200}
    standard_deduction: {single: 1}
    social_security: {single: {base: 1, adjusted_base: 2}}
    rmd_divisors: {73: 26.5}
`, "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ip.ParseTables([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMarshalTables_RoundTrip(t *testing.T) {
	ip := NewInputParser()
	data, err := MarshalTables(calculation.DefaultTableSet())
	require.NoError(t, err)

	set, err := ip.ParseTables(data)
	require.NoError(t, err)
	assert.Equal(t, []int{2025}, set.Years())

	want := calculation.DefaultTables2025()
	got := set[2025]
	for _, fs := range domain.FilingStatuses() {
		assert.Len(t, got.BracketsFor(fs), len(want.BracketsFor(fs)), fs)
		assert.True(t, got.DeductionFor(fs).Equal(want.DeductionFor(fs)), fs)
	}
}
