package output

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
)

// HTMLFormatter produces a standalone HTML report of a projection
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"pct":  FormatPercentage,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(result *domain.ProjectionResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("result cannot be nil")
	}
	var buf bytes.Buffer
	data := struct {
		*domain.ProjectionResult
		BaselineIRMAA  decimal.Decimal
		StrategyIRMAA  decimal.Decimal
		TotalConverted decimal.Decimal
		BaselineFinal  domain.YearRecord
		StrategyFinal  domain.YearRecord
		Assumptions    []string
	}{
		ProjectionResult: result,
		BaselineIRMAA:    domain.LifetimeIRMAA(result.Baseline),
		StrategyIRMAA:    domain.LifetimeIRMAA(result.Strategy),
		TotalConverted:   domain.TotalConversions(result.Strategy),
		BaselineFinal:    domain.Final(result.Baseline),
		StrategyFinal:    domain.Final(result.Strategy),
		Assumptions:      DefaultAssumptions,
	}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
