package output

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/rgehrsitz/rothcalc/internal/domain"
)

// CSVSummarizer writes one row per scenario with lifetime totals
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv-summary" }

func (c CSVSummarizer) Format(result *domain.ProjectionResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("result cannot be nil")
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "LifetimeTax", "LifetimeIRMAA", "TotalConverted", "FinalIRA", "FinalRoth", "FinalTaxable", "LifetimeSavings"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sc := range []struct {
		name    string
		years   []domain.YearRecord
		savings string
	}{
		{"baseline", result.Baseline, "0.00"},
		{"strategy", result.Strategy, result.LifetimeSavings.StringFixed(2)},
	} {
		final := domain.Final(sc.years)
		row := []string{
			sc.name,
			domain.LifetimeTax(sc.years).StringFixed(2),
			domain.LifetimeIRMAA(sc.years).StringFixed(2),
			domain.TotalConversions(sc.years).StringFixed(2),
			final.IRAEnd.StringFixed(2),
			final.RothEnd.StringFixed(2),
			final.TaxableEnd.StringFixed(2),
			sc.savings,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
