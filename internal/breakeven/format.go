package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/rothcalc/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats solver results as a console table
type TableFormatter struct{}

// Format generates a formatted table for a summary
func (tf *TableFormatter) Format(s *Summary) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN CONVERSION ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	if s.BestSavings != nil {
		sb.WriteString(fmt.Sprintf("Conversion Window:   ages %s\n", s.BestSavings.Window))
	}
	sb.WriteString("\n")

	tf.writeResult(&sb, "BEST ANNUAL CONVERSION", s.BestSavings)
	tf.writeResult(&sb, "BREAK-EVEN ANNUAL CONVERSION", s.BreakEven)

	if len(s.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range s.Recommendations {
			sb.WriteString("• " + rec + "\n")
		}
	}
	return sb.String()
}

func (tf *TableFormatter) writeResult(sb *strings.Builder, title string, r *Result) {
	if r == nil {
		return
	}
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(r.Success)))
	sb.WriteString(fmt.Sprintf("Evaluations:         %d\n", r.Evaluations))
	if r.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:         %s\n", r.ConvergenceInfo))
	}
	sb.WriteString(fmt.Sprintf("Annual Conversion:   %s\n", output.FormatCurrency(r.Amount)))
	sb.WriteString(fmt.Sprintf("Total Converted:     %s\n", output.FormatCurrency(r.TotalConverted)))
	sb.WriteString(fmt.Sprintf("Lifetime Tax:        %s (baseline %s)\n",
		output.FormatCurrency(r.LifetimeTax), output.FormatCurrency(r.BaselineTax)))
	sb.WriteString(fmt.Sprintf("Lifetime Savings:    %s%s\n",
		tf.deltaSymbol(r.LifetimeSavings), output.FormatCurrency(r.LifetimeSavings.Abs())))
	sb.WriteString(fmt.Sprintf("Ending Roth:         %s\n", output.FormatCurrency(r.EndingRoth)))
	sb.WriteString("\n")
}

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Found"
	}
	return "✗ Not found"
}

func (tf *TableFormatter) deltaSymbol(v decimal.Decimal) string {
	if v.IsNegative() {
		return "-"
	}
	return "+"
}

// JSONFormatter formats solver results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output for a summary
func (jf *JSONFormatter) Format(s *Summary) (string, error) {
	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(s, "", "  ")
	} else {
		data, err = json.Marshal(s)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
