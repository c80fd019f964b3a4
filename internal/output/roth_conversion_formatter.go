package output

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/rothcalc/internal/calculation"
	"github.com/rgehrsitz/rothcalc/internal/domain"
)

// RothConversionFormatter defines a formatter for Roth conversion plans
type RothConversionFormatter interface {
	FormatRothConversionPlan(plan *domain.RothConversionPlan) (string, error)
	Name() string
}

// NewPlanFormatter creates a plan formatter based on the format name
func NewPlanFormatter(format string) (RothConversionFormatter, error) {
	switch strings.ToLower(format) {
	case "", "table", "console":
		return &RothConversionTableFormatter{}, nil
	case "json":
		return &RothConversionJSONFormatter{Pretty: true}, nil
	default:
		return nil, fmt.Errorf("unsupported plan format: %s (use table or json)", format)
	}
}

// RothConversionTableFormatter formats Roth conversion plans as a table
type RothConversionTableFormatter struct{}

func (f *RothConversionTableFormatter) Name() string {
	return "table"
}

func (f *RothConversionTableFormatter) FormatRothConversionPlan(plan *domain.RothConversionPlan) (string, error) {
	if plan == nil {
		return "", fmt.Errorf("plan cannot be nil")
	}

	var output strings.Builder

	// Header
	output.WriteString("ROTH CONVERSION ANALYSIS\n")
	output.WriteString("=================================================================\n")
	output.WriteString(fmt.Sprintf("Conversion Window: %s\n", plan.Window.String()))
	output.WriteString(fmt.Sprintf("Objective: %s\n\n", plan.Objective.String()))

	baselineTax := domain.LifetimeTax(plan.Baseline)
	final := domain.Final(plan.Baseline)
	output.WriteString("BASELINE (No Conversions):\n")
	output.WriteString(fmt.Sprintf("  Lifetime Tax + IRMAA:     %s\n", FormatCurrency(baselineTax)))
	output.WriteString(fmt.Sprintf("  Lifetime IRMAA:           %s\n", FormatCurrency(domain.LifetimeIRMAA(plan.Baseline))))
	output.WriteString(fmt.Sprintf("  Final Tax-Deferred:       %s\n", FormatCurrency(final.IRAEnd)))
	output.WriteString(fmt.Sprintf("  Final Roth:               %s\n\n", FormatCurrency(final.RothEnd)))

	// Candidates
	output.WriteString("CANDIDATES:\n")
	output.WriteString(fmt.Sprintf("  %-8s %14s %14s %14s %14s %14s\n", "Bracket", "Converted", "Lifetime Tax", "IRMAA", "Ending Roth", "Net Benefit"))
	for _, alt := range plan.Alternatives {
		marker := " "
		if plan.Recommended != nil && alt.TargetRate.Equal(plan.Recommended.TargetRate) {
			marker = "*"
		}
		output.WriteString(fmt.Sprintf("%s %-8s %14s %14s %14s %14s %14s\n", marker,
			FormatPercentage(alt.TargetRate),
			FormatCurrency(alt.Schedule.Total()),
			FormatCurrency(alt.LifetimeTax),
			FormatCurrency(alt.LifetimeIRMAA),
			FormatCurrency(alt.EndingRoth),
			FormatCurrency(alt.NetBenefit)))
	}
	output.WriteString("\n")

	// Recommended strategy
	if rec := plan.Recommended; rec != nil {
		output.WriteString(fmt.Sprintf("RECOMMENDED STRATEGY (fill the %s bracket):\n", FormatPercentage(rec.TargetRate)))
		rooms := make(map[int]domain.BracketRoom, len(plan.Rooms))
		for _, r := range plan.Rooms {
			rooms[r.Age] = r
		}
		for _, c := range rec.Schedule.Sorted() {
			room := rooms[c.Age]
			output.WriteString(fmt.Sprintf("  %d (age %d): Convert %s  (taxable %s, bracket top %s)\n",
				room.Year, c.Age, FormatCurrency(c.Amount), FormatCurrency(room.TaxableIncome), FormatCurrency(room.BracketEdge)))
		}
		if len(rec.Schedule.Conversions) == 0 {
			output.WriteString("  No room in the target bracket inside the window\n")
		}
		output.WriteString(fmt.Sprintf("\n  Total Converted: %s\n", FormatCurrency(rec.Schedule.Total())))
		output.WriteString(fmt.Sprintf("  Lifetime Tax:    %s\n", FormatCurrency(rec.LifetimeTax)))
		output.WriteString(fmt.Sprintf("  Net Benefit:     %s\n\n", FormatCurrency(rec.NetBenefit)))
	}

	output.WriteString(fmt.Sprintf("RECOMMENDATION: %s\n", calculation.Recommendation(plan.Recommended)))
	return output.String(), nil
}

// RothConversionJSONFormatter formats Roth conversion plans as JSON
type RothConversionJSONFormatter struct {
	Pretty bool
}

func (f *RothConversionJSONFormatter) Name() string {
	return "json"
}

func (f *RothConversionJSONFormatter) FormatRothConversionPlan(plan *domain.RothConversionPlan) (string, error) {
	if plan == nil {
		return "", fmt.Errorf("plan cannot be nil")
	}
	data, err := marshal(plan, f.Pretty)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
