package compare

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	// Write header
	header := []string{
		"Scenario",
		"Type",
		"Lifetime Tax",
		"Lifetime IRMAA",
		"Total Converted",
		"Final Roth",
		"Final IRA",
		"Peak Marginal Rate",
		"IRMAA Years",
		"Tax Diff from Base",
		"Tax % Change",
		"Roth Diff from Base",
		"IRMAA Years Diff",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	// Write base scenario
	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	// Write alternative scenarios
	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	return []string{
		result.ScenarioName,
		scenarioType,
		result.LifetimeTax.StringFixed(2),
		result.LifetimeIRMAA.StringFixed(2),
		result.TotalConverted.StringFixed(2),
		result.FinalRoth.StringFixed(2),
		result.FinalIRA.StringFixed(2),
		result.PeakMarginalRate.StringFixed(2),
		formatInt(result.IRMAAYears),
		result.TaxDiffFromBase.StringFixed(2),
		result.TaxPctFromBase.StringFixed(2),
		result.RothDiffFromBase.StringFixed(2),
		formatInt(result.IRMAAYearsDiff),
	}
}

func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}
