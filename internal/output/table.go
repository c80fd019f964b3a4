package output

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/rothcalc/internal/calculation"
	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
)

// TableFormatter renders a console report: lifetime summary followed by a
// year-by-year table per scenario
type TableFormatter struct {
	Verbose bool // adds the income layers and tax details
}

func (tf *TableFormatter) Name() string { return "table" }

func (tf *TableFormatter) Format(result *domain.ProjectionResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("result cannot be nil")
	}
	var sb strings.Builder

	sb.WriteString("ROTH CONVERSION PROJECTION\n")
	sb.WriteString(strings.Repeat("=", 100) + "\n")
	tf.writeSummary(&sb, result)

	tf.writeScenario(&sb, "BASELINE (no conversions)", result.Baseline)
	tf.writeScenario(&sb, "STRATEGY", result.Strategy)

	if tf.Verbose {
		sb.WriteString("\nASSUMPTIONS\n")
		sb.WriteString(strings.Repeat("-", 100) + "\n")
		for _, a := range DefaultAssumptions {
			sb.WriteString("  - " + a + "\n")
		}
	}
	return []byte(sb.String()), nil
}

func (tf *TableFormatter) writeSummary(sb *strings.Builder, r *domain.ProjectionResult) {
	base, strat := domain.Final(r.Baseline), domain.Final(r.Strategy)
	labelWidth, numWidth := 28, 18

	row := func(label string, a, b decimal.Decimal) {
		sb.WriteString(fmt.Sprintf("%-*s %*s %*s\n", labelWidth, label, numWidth, FormatCurrency(a), numWidth, FormatCurrency(b)))
	}

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s\n", labelWidth, "", numWidth, "Baseline", numWidth, "Strategy"))
	sb.WriteString(strings.Repeat("-", labelWidth+2*numWidth+2) + "\n")
	row("Lifetime tax + IRMAA", r.BaselineLifetimeTax, r.StrategyLifetimeTax)
	row("Lifetime IRMAA", domain.LifetimeIRMAA(r.Baseline), domain.LifetimeIRMAA(r.Strategy))
	row("Total converted", domain.TotalConversions(r.Baseline), domain.TotalConversions(r.Strategy))
	row("Ending tax-deferred", base.IRAEnd, strat.IRAEnd)
	row("Ending Roth", base.RothEnd, strat.RothEnd)
	row("Ending taxable", base.TaxableEnd, strat.TaxableEnd)
	sb.WriteString(strings.Repeat("-", labelWidth+2*numWidth+2) + "\n")

	symbol := "+"
	if r.LifetimeSavings.IsNegative() {
		symbol = ""
	}
	sb.WriteString(fmt.Sprintf("Lifetime savings: %s%s (%s of baseline)\n",
		symbol, FormatCurrency(r.LifetimeSavings), FormatPercentage(calculation.SavingsRate(r))))
}

func (tf *TableFormatter) writeScenario(sb *strings.Builder, title string, years []domain.YearRecord) {
	sb.WriteString("\n" + title + "\n")
	sb.WriteString(strings.Repeat("-", 100) + "\n")
	if len(years) == 0 {
		sb.WriteString("  (no years)\n")
		return
	}

	w := 11
	if tf.Verbose {
		sb.WriteString(fmt.Sprintf("%-4s %3s %*s %*s %*s %*s %*s %*s %*s %*s %*s %6s %4s %*s\n",
			"Year", "Age",
			w, "Wages", w, "Pension", w, "Interest", w, "SS Gross", w, "SS Taxable",
			w, "RMD", w, "Conversion", w, "AGI", w, "Taxable", "Rate", "Tier", w, "Burden"))
		for _, y := range years {
			sb.WriteString(fmt.Sprintf("%-4d %3d %*s %*s %*s %*s %*s %*s %*s %*s %*s %6s %4d %*s\n",
				y.Year, y.Age,
				w, FormatCurrency(y.Wages), w, FormatCurrency(y.Pension), w, FormatCurrency(y.Interest),
				w, FormatCurrency(y.SocialSecurityGross), w, FormatCurrency(y.SocialSecurityTaxable),
				w, FormatCurrency(y.RMD), w, FormatCurrency(y.RothConversion), w, FormatCurrency(y.AGI),
				w, FormatCurrency(y.TaxableIncome), FormatPercentage(y.MarginalRate), y.IRMAATier,
				w, FormatCurrency(y.TotalBurden)))
		}
		return
	}

	sb.WriteString(fmt.Sprintf("%-4s %3s %*s %*s %*s %*s %*s %*s %*s %*s\n",
		"Year", "Age", w, "IRA", w, "Roth", w, "RMD", w, "Conversion", w, "AGI", w, "Fed Tax", w, "IRMAA", w, "Burden"))
	for _, y := range years {
		sb.WriteString(fmt.Sprintf("%-4d %3d %*s %*s %*s %*s %*s %*s %*s %*s\n",
			y.Year, y.Age,
			w, FormatCurrency(y.IRAEnd), w, FormatCurrency(y.RothEnd), w, FormatCurrency(y.RMD),
			w, FormatCurrency(y.RothConversion), w, FormatCurrency(y.AGI), w, FormatCurrency(y.FederalTax),
			w, FormatCurrency(y.IRMAASurcharge), w, FormatCurrency(y.TotalBurden)))
	}
}
