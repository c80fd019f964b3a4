package output

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Formatter renders a projection result
type Formatter interface {
	Name() string
	Format(result *domain.ProjectionResult) ([]byte, error)
}

// NewFormatter creates a formatter based on the format name
func NewFormatter(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", "table", "console":
		return &TableFormatter{}, nil
	case "verbose":
		return &TableFormatter{Verbose: true}, nil
	case "json":
		return &JSONFormatter{Pretty: true}, nil
	case "csv":
		return &CSVFormatter{}, nil
	case "csv-summary":
		return CSVSummarizer{}, nil
	case "html":
		return HTMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (use table, verbose, json, csv, csv-summary or html)", format)
	}
}

// FormatCurrency formats a decimal as whole dollars with thousands
// separators, e.g. -$1,234
func FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	digits := amount.StringFixed(0)

	var sb strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	return sign + "$" + sb.String()
}

// FormatPercentage formats a fraction as a percentage, e.g. 0.22 -> 22.0%
func FormatPercentage(fraction decimal.Decimal) string {
	return fraction.Mul(hundred).StringFixed(1) + "%"
}
