package output

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/rothcalc/internal/domain"
)

// FormatIRMAAAnalysis renders the IRMAA risk summary for one scenario
func FormatIRMAAAnalysis(title string, a *domain.IRMAAAnalysis) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\nIRMAA RISK: %s\n", title))
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	if a == nil {
		sb.WriteString("  not modeled\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("  Years with surcharges: %d\n", len(a.YearsWithBreaches)))
	sb.WriteString(fmt.Sprintf("  Years near a threshold: %d\n", len(a.YearsWithWarnings)))
	if a.HasBreaches() {
		sb.WriteString(fmt.Sprintf("  First surcharge year: %d\n", a.FirstBreachYear))
	}
	sb.WriteString(fmt.Sprintf("  Total IRMAA cost: %s\n", FormatCurrency(a.TotalIRMAACost)))

	if len(a.HighRiskYears) > 0 {
		sb.WriteString(fmt.Sprintf("\n  %-4s %3s %12s %4s %12s %10s %10s\n", "Year", "Age", "MAGI", "Tier", "Next", "Status", "Cost"))
		for _, y := range a.HighRiskYears {
			next := "-"
			if y.NextThreshold.IsPositive() {
				next = FormatCurrency(y.NextThreshold)
			}
			sb.WriteString(fmt.Sprintf("  %-4d %3d %12s %4d %12s %10s %10s\n",
				y.Year, y.Age, FormatCurrency(y.MAGI), y.Tier, next, y.RiskStatus, FormatCurrency(y.AnnualCost)))
		}
	}

	for _, r := range a.Recommendations {
		sb.WriteString("  " + r + "\n")
	}
	return sb.String()
}
