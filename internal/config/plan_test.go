package config

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func parsePlan(t *testing.T, doc string) *PlanRequest {
	t.Helper()
	var r PlanRequest
	require.NoError(t, yaml.Unmarshal([]byte(doc), &r))
	return &r
}

func TestPlanRequest_Defaults(t *testing.T) {
	r := parsePlan(t, "profile:\n  current_age: 62\n")

	in, err := r.Inputs()
	require.NoError(t, err)

	assert.Equal(t, []float64{0.12, 0.22, 0.24}, r.TargetRates)
	require.Len(t, in.TargetRates, 3)
	assert.Equal(t, "0.22", in.TargetRates[1].String())
	assert.Equal(t, domain.MinimizeLifetimeTax, in.Objective)
	assert.Equal(t, domain.AgeRange{Start: 62, End: 72}, in.Constraints.Window)
	assert.Equal(t, "200000", in.Constraints.MaxConversionAmount.String())
	assert.Equal(t, 62, in.Profile.CurrentAge)
}

func TestPlanRequest_Overrides(t *testing.T) {
	r := parsePlan(t, `
profile:
  current_age: 62
target_rates: [0.24]
window_start: 63
window_end: 66
objective: maximize_ending_roth
min_conversion: 500
max_conversion: 90000
max_total: 300000
`)
	in, err := r.Inputs()
	require.NoError(t, err)
	assert.Equal(t, domain.MaximizeEndingRoth, in.Objective)
	assert.Equal(t, domain.AgeRange{Start: 63, End: 66}, in.Constraints.Window)
	assert.Equal(t, "500", in.Constraints.MinConversionAmount.String())
	assert.Equal(t, "90000", in.Constraints.MaxConversionAmount.String())
	assert.Equal(t, "300000", in.Constraints.MaxTotalConversions.String())
}

func TestPlanRequest_Errors(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"profile field", "profile: {current_age: 10}\n", "profile.current_age"},
		{"profile mapping", "profile: {current_age: 60, conversion: {type: schedule}}\n", "profile.conversion.schedule"},
		{"rate out of range", "profile: {current_age: 60}\ntarget_rates: [1.5]\n", "target_rates[0]"},
		{"empty rates", "profile: {current_age: 60}\ntarget_rates: []\n", "target_rates"},
		{"objective", "profile: {current_age: 60}\nobjective: fastest\n", "objective"},
		{"reversed window", "profile: {current_age: 60}\nwindow_start: 70\nwindow_end: 65\n", "window_end"},
		{"constraints", "profile: {current_age: 60}\nmin_conversion: 5000\nmax_conversion: 1000\n", "max_conversion"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parsePlan(t, tt.doc).Inputs()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidProfile))
			assert.Contains(t, fieldNames(t, err), tt.field)
		})
	}
}

func TestPlanWindow(t *testing.T) {
	p := domain.FinancialProfile{CurrentAge: 60, RMDStartAge: 73, LifeExpectancyAge: 68}
	assert.Equal(t, domain.AgeRange{Start: 60, End: 68}, PlanWindow(p, 0, 0))
	assert.Equal(t, domain.AgeRange{Start: 61, End: 65}, PlanWindow(p, 61, 65))
}
