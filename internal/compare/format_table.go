package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing strategies
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	// Header
	sb.WriteString("ROTH CONVERSION STRATEGY COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 92) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	if compSet.ProfilePath != "" {
		sb.WriteString(fmt.Sprintf("Profile: %s\n", compSet.ProfilePath))
	}
	sb.WriteString("\n")

	// Column widths
	nameWidth := 22
	numWidth := 13

	// Table header
	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "Lifetime Tax",
		numWidth, "IRMAA",
		numWidth, "Converted",
		numWidth, "Final Roth",
		numWidth, "Final IRA"))
	sb.WriteString(strings.Repeat("-", 92) + "\n")

	// Base scenario row
	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	// Alternative scenarios
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 92) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&alt, nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 92) + "\n")

	// Comparison details (deltas from base)
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 92) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			if alt.Description != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", alt.Description))
			}

			taxSymbol := tf.deltaSymbol(alt.TaxDiffFromBase)
			sb.WriteString(fmt.Sprintf("  Lifetime Tax:     %s$%s (%s%%)\n",
				taxSymbol,
				tf.formatDecimal(alt.TaxDiffFromBase.Abs()),
				alt.TaxPctFromBase.StringFixed(1)))

			if !alt.RothDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Final Roth:       %s$%s\n",
					tf.deltaSymbol(alt.RothDiffFromBase),
					tf.formatDecimal(alt.RothDiffFromBase.Abs())))
			}

			if alt.IRMAAYearsDiff != 0 {
				irmaaSymbol := "+"
				if alt.IRMAAYearsDiff < 0 {
					irmaaSymbol = ""
				}
				sb.WriteString(fmt.Sprintf("  IRMAA Years:      %s%d\n", irmaaSymbol, alt.IRMAAYearsDiff))
			}
		}
		sb.WriteString("\n")
	}

	// Recommendations
	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 92) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, "$"+tf.formatDecimal(result.LifetimeTax),
		numWidth, "$"+tf.formatDecimal(result.LifetimeIRMAA),
		numWidth, "$"+tf.formatDecimal(result.TotalConverted),
		numWidth, "$"+tf.formatDecimal(result.FinalRoth),
		numWidth, "$"+tf.formatDecimal(result.FinalIRA))
}

// formatDecimal formats a decimal for display (in thousands)
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		// Format in millions
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		// Format in thousands
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns a + or - symbol for deltas
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each strategy
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		taxChange := "="
		if alt.TaxDiffFromBase.IsPositive() {
			taxChange = fmt.Sprintf("+$%s", tf.formatDecimal(alt.TaxDiffFromBase))
		} else if alt.TaxDiffFromBase.IsNegative() {
			taxChange = fmt.Sprintf("-$%s", tf.formatDecimal(alt.TaxDiffFromBase.Abs()))
		}

		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, taxChange))
	}

	return sb.String()
}
