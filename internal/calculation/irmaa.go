package calculation

import (
	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// IRMAAWarningDistance is the threshold for warning status (within $10K of threshold)
	IRMAAWarningDistance = 10000
)

// MAGIForIRMAA is AGI plus tax-exempt interest. Kept separate from
// MAGIForSSTax so either can pick up add-backs the other does not.
func MAGIForIRMAA(agi, taxExemptInterest decimal.Decimal) decimal.Decimal {
	return agi.Add(taxExemptInterest)
}

// MAGIForSSTax is the MAGI used alongside the Social Security combined
// income test. Currently identical to MAGIForIRMAA.
func MAGIForSSTax(agi, taxExemptInterest decimal.Decimal) decimal.Decimal {
	return agi.Add(taxExemptInterest)
}

// CalculateIRMAARiskStatus classifies one year's MAGI
func CalculateIRMAARiskStatus(magi decimal.Decimal, yearIndex int, inflationRate decimal.Decimal, mc *MedicareCalculator) (domain.IRMAARisk, IRMAAResult) {
	res := mc.LookupTier(magi, yearIndex, inflationRate)
	if res.Tier > 0 {
		return domain.IRMAARiskBreach, res
	}
	if !res.NextThreshold.IsZero() {
		distance := res.NextThreshold.Sub(magi)
		if distance.LessThanOrEqual(decimal.NewFromInt(IRMAAWarningDistance)) {
			return domain.IRMAARiskWarning, res
		}
	}
	return domain.IRMAARiskSafe, res
}

// AnalyzeIRMAARisk performs an IRMAA risk analysis across a scenario.
// Thresholds are indexed from the calculator's table year to each record's
// calendar year; records without a year use their position in years.
func AnalyzeIRMAARisk(years []domain.YearRecord, inflationRate decimal.Decimal, mc *MedicareCalculator) *domain.IRMAAAnalysis {
	analysis := &domain.IRMAAAnalysis{
		YearsWithBreaches: []int{},
		YearsWithWarnings: []int{},
		TotalIRMAACost:    decimal.Zero,
		HighRiskYears:     []domain.IRMAAYearRisk{},
	}

	for i, yr := range years {
		index := i
		if yr.Year != 0 && mc.TableYear != 0 {
			index = max(0, yr.Year-mc.TableYear)
		}
		riskStatus, res := CalculateIRMAARiskStatus(yr.MAGIForIRMAA, index, inflationRate, mc)
		if riskStatus == domain.IRMAARiskSafe {
			continue
		}

		risk := domain.IRMAAYearRisk{
			Year:          yr.Year,
			Age:           yr.Age,
			MAGI:          yr.MAGIForIRMAA,
			Tier:          res.Tier,
			NextThreshold: res.NextThreshold,
			RiskStatus:    riskStatus,
		}
		if !res.NextThreshold.IsZero() {
			risk.DistanceToNext = res.NextThreshold.Sub(yr.MAGIForIRMAA)
		}

		if riskStatus == domain.IRMAARiskBreach {
			analysis.YearsWithBreaches = append(analysis.YearsWithBreaches, yr.Year)
			if analysis.FirstBreachYear == 0 {
				analysis.FirstBreachYear = yr.Year
			}
			risk.AnnualCost = res.AnnualSurcharge
			analysis.TotalIRMAACost = analysis.TotalIRMAACost.Add(res.AnnualSurcharge)
		} else {
			analysis.YearsWithWarnings = append(analysis.YearsWithWarnings, yr.Year)
		}
		analysis.HighRiskYears = append(analysis.HighRiskYears, risk)
	}

	analysis.Recommendations = generateIRMAARecommendations(analysis)
	return analysis
}

// generateIRMAARecommendations generates actionable recommendations based on IRMAA analysis
func generateIRMAARecommendations(analysis *domain.IRMAAAnalysis) []string {
	recommendations := []string{}

	if len(analysis.YearsWithBreaches) > 0 {
		recommendations = append(recommendations,
			"⚠️  IRMAA breaches detected - consider strategies to reduce MAGI")

		recommendations = append(recommendations,
			"💡 Spread Roth conversions over more years to keep each year under a threshold")

		recommendations = append(recommendations,
			"💡 Convert before RMDs and Social Security raise baseline income")
	} else if len(analysis.YearsWithWarnings) > 0 {
		recommendations = append(recommendations,
			"⚠️  Close to IRMAA thresholds - monitor MAGI carefully")

		recommendations = append(recommendations,
			"💡 Trim conversions in warning years to keep a margin below the threshold")
	} else {
		recommendations = append(recommendations,
			"✓ No IRMAA concerns - MAGI remains comfortably below thresholds")
	}

	return recommendations
}
