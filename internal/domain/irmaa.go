package domain

import "github.com/shopspring/decimal"

// IRMAARisk classifies a year's MAGI relative to the IRMAA thresholds
type IRMAARisk string

const (
	IRMAARiskSafe    IRMAARisk = "safe"
	IRMAARiskWarning IRMAARisk = "warning"
	IRMAARiskBreach  IRMAARisk = "breach"
)

// IRMAAYearRisk is the risk detail for a single flagged year
type IRMAAYearRisk struct {
	Year          int             `json:"year"`
	Age           int             `json:"age"`
	MAGI          decimal.Decimal `json:"magi"`
	Tier          int             `json:"tier"`
	NextThreshold decimal.Decimal `json:"nextThreshold"`
	// DistanceToNext is how far MAGI sits below the next threshold
	DistanceToNext decimal.Decimal `json:"distanceToNext"`
	RiskStatus     IRMAARisk       `json:"riskStatus"`
	AnnualCost     decimal.Decimal `json:"annualCost"`
}

// IRMAAAnalysis summarizes IRMAA exposure across a scenario
type IRMAAAnalysis struct {
	YearsWithBreaches []int           `json:"yearsWithBreaches"`
	YearsWithWarnings []int           `json:"yearsWithWarnings"`
	FirstBreachYear   int             `json:"firstBreachYear"` // 0 when there is none
	TotalIRMAACost    decimal.Decimal `json:"totalIrmaaCost"`
	HighRiskYears     []IRMAAYearRisk `json:"highRiskYears"`
	Recommendations   []string        `json:"recommendations"`
}

// HasBreaches reports whether any year paid a surcharge
func (a *IRMAAAnalysis) HasBreaches() bool {
	return len(a.YearsWithBreaches) > 0
}
