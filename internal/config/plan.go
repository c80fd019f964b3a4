package config

import (
	"errors"
	"fmt"

	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
)

// PlanRequest asks for a bracket-fill conversion plan. A zero window start
// means the current age; a zero window end means the year before RMDs
// begin. Nil amount limits use the planner defaults.
type PlanRequest struct {
	Profile       ProfileFile `yaml:"profile" json:"profile"`
	TargetRates   []float64   `yaml:"target_rates" json:"target_rates" default:"[0.12,0.22,0.24]" validate:"min=1,dive,gt=0,lt=1"`
	WindowStart   int         `yaml:"window_start" json:"window_start" validate:"gte=0,lte=120"`
	WindowEnd     int         `yaml:"window_end" json:"window_end" validate:"gte=0,lte=120"`
	Objective     string      `yaml:"objective" json:"objective" default:"minimize_lifetime_tax" validate:"oneof=minimize_lifetime_tax minimize_lifetime_irmaa maximize_ending_roth"`
	MinConversion *float64    `yaml:"min_conversion" json:"min_conversion" validate:"omitempty,gte=0"`
	MaxConversion *float64    `yaml:"max_conversion" json:"max_conversion" validate:"omitempty,gt=0"`
	MaxTotal      *float64    `yaml:"max_total" json:"max_total" validate:"omitempty,gt=0"`
}

// PlanInputs are the planner arguments derived from a PlanRequest
type PlanInputs struct {
	Profile     domain.FinancialProfile
	TargetRates []decimal.Decimal
	Objective   domain.OptimizationObjective
	Constraints domain.RothConversionConstraints
}

// Inputs validates the request and maps it into planner arguments
func (r *PlanRequest) Inputs() (PlanInputs, error) {
	if err := ValidateStruct(r); err != nil {
		return PlanInputs{}, err
	}
	profile, err := r.Profile.ToProfile()
	if err != nil {
		return PlanInputs{}, prefixFields(err, "profile")
	}

	objective, err := domain.ParseOptimizationObjective(r.Objective)
	if err != nil {
		return PlanInputs{}, invalidField("objective", "ERR_ONEOF", err.Error())
	}

	window := PlanWindow(profile, r.WindowStart, r.WindowEnd)
	if window.End < window.Start {
		return PlanInputs{}, invalidField("window_end", "ERR_GTEFIELD",
			fmt.Sprintf("must not be less than window start (%d)", window.Start))
	}

	constraints := domain.DefaultRothConversionConstraints(window)
	if r.MinConversion != nil {
		constraints.MinConversionAmount = money(*r.MinConversion)
	}
	if r.MaxConversion != nil {
		constraints.MaxConversionAmount = money(*r.MaxConversion)
	}
	if r.MaxTotal != nil {
		constraints.MaxTotalConversions = money(*r.MaxTotal)
	}
	if err := constraints.Validate(); err != nil {
		return PlanInputs{}, invalidField("max_conversion", "ERR_CONSTRAINTS", err.Error())
	}

	rates := make([]decimal.Decimal, len(r.TargetRates))
	for i, rate := range r.TargetRates {
		rates[i] = decimal.NewFromFloat(rate)
	}

	return PlanInputs{
		Profile:     profile,
		TargetRates: rates,
		Objective:   objective,
		Constraints: constraints,
	}, nil
}

// PlanWindow resolves zero window bounds against the profile
func PlanWindow(p domain.FinancialProfile, start, end int) domain.AgeRange {
	if start == 0 {
		start = p.CurrentAge
	}
	if end == 0 {
		end = p.RMDStartAge - 1
		if end > p.LifeExpectancyAge {
			end = p.LifeExpectancyAge
		}
	}
	return domain.AgeRange{Start: start, End: end}
}

func prefixFields(err error, prefix string) error {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, len(ve.Fields))}
	for i, f := range ve.Fields {
		f.Field = prefix + "." + f.Field
		f.Message = prefix + "." + f.Message
		out.Fields[i] = f
	}
	return out
}
