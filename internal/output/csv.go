package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/rgehrsitz/rothcalc/internal/domain"
)

// CSVFormatter writes one row per year per scenario
type CSVFormatter struct{}

func (cf *CSVFormatter) Name() string { return "csv" }

var csvHeader = []string{
	"Scenario", "Year", "Age",
	"IRAStart", "IRAEnd", "RothStart", "RothEnd", "TaxableStart", "TaxableEnd",
	"Wages", "Pension", "RMD", "RothConversion", "Interest", "TaxExemptInterest",
	"Dividends", "CapitalGains", "OtherIncome",
	"SocialSecurityGross", "SocialSecurityTaxable",
	"OrdinaryIncome", "AGI", "CombinedIncome", "StandardDeduction", "TaxableIncome",
	"FederalTax", "MarginalRate", "MAGIForIRMAA", "IRMAATier", "IRMAASurcharge", "TotalBurden",
}

func (cf *CSVFormatter) Format(result *domain.ProjectionResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("result cannot be nil")
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, sc := range []struct {
		name  string
		years []domain.YearRecord
	}{{"baseline", result.Baseline}, {"strategy", result.Strategy}} {
		for _, y := range sc.years {
			if err := w.Write(cf.formatRow(sc.name, y)); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (cf *CSVFormatter) formatRow(scenario string, y domain.YearRecord) []string {
	return []string{
		scenario, strconv.Itoa(y.Year), strconv.Itoa(y.Age),
		y.IRAStart.StringFixed(2), y.IRAEnd.StringFixed(2),
		y.RothStart.StringFixed(2), y.RothEnd.StringFixed(2),
		y.TaxableStart.StringFixed(2), y.TaxableEnd.StringFixed(2),
		y.Wages.StringFixed(2), y.Pension.StringFixed(2), y.RMD.StringFixed(2),
		y.RothConversion.StringFixed(2), y.Interest.StringFixed(2), y.TaxExemptInterest.StringFixed(2),
		y.Dividends.StringFixed(2), y.CapitalGains.StringFixed(2), y.OtherIncome.StringFixed(2),
		y.SocialSecurityGross.StringFixed(2), y.SocialSecurityTaxable.StringFixed(2),
		y.OrdinaryIncome.StringFixed(2), y.AGI.StringFixed(2), y.CombinedIncome.StringFixed(2),
		y.StandardDeduction.StringFixed(2), y.TaxableIncome.StringFixed(2),
		y.FederalTax.StringFixed(2), y.MarginalRate.StringFixed(2), y.MAGIForIRMAA.StringFixed(2),
		strconv.Itoa(y.IRMAATier), y.IRMAASurcharge.StringFixed(2), y.TotalBurden.StringFixed(2),
	}
}
