package calculation

import (
	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
)

func rate(r string) decimal.Decimal { return decimal.RequireFromString(r) }

func bracketTable(rates []string, uppers []int64) []domain.TaxBracket {
	rows := make([]domain.TaxBracket, len(rates))
	lower := decimal.Zero
	for i, r := range rates {
		rows[i] = domain.TaxBracket{Rate: rate(r), Lower: lower}
		if i < len(uppers) {
			rows[i].Upper = domain.Bound(uppers[i])
			lower = *rows[i].Upper
		}
	}
	return rows
}

var ordinaryRates = []string{"0.10", "0.12", "0.22", "0.24", "0.32", "0.35", "0.37"}

type irmaaSurcharge struct{ partB, partD string }

var irmaaSurcharges2025 = []irmaaSurcharge{
	{"0", "0"},
	{"74.00", "13.70"},
	{"185.00", "35.30"},
	{"295.90", "57.00"},
	{"406.90", "78.60"},
	{"443.90", "85.80"},
}

func irmaaTable(thresholds []int64) []domain.IRMAATier {
	tiers := make([]domain.IRMAATier, len(thresholds)+1)
	lower := decimal.Zero
	for i := range tiers {
		tiers[i] = domain.IRMAATier{
			Tier:           i,
			Lower:          lower,
			PartBSurcharge: rate(irmaaSurcharges2025[i].partB),
			PartDSurcharge: rate(irmaaSurcharges2025[i].partD),
		}
		if i < len(thresholds) {
			tiers[i].Upper = domain.Bound(thresholds[i])
			lower = *tiers[i].Upper
		}
	}
	return tiers
}

// separateFilerIRMAA is the married-filing-separately table: one threshold,
// above which the top tier applies.
func separateFilerIRMAA() []domain.IRMAATier {
	top := irmaaSurcharges2025[len(irmaaSurcharges2025)-1]
	return []domain.IRMAATier{
		{Tier: 0, Lower: decimal.Zero, Upper: domain.Bound(106000), PartBSurcharge: decimal.Zero, PartDSurcharge: decimal.Zero},
		{Tier: 5, Lower: decimal.NewFromInt(106000), PartBSurcharge: rate(top.partB), PartDSurcharge: rate(top.partD)},
	}
}

// uniformLifetimeTable contains IRS Uniform Lifetime Table factors
// (Publication 590-B, Table III).
var uniformLifetimeTable = map[int]string{
	72: "27.4", 73: "26.5", 74: "25.5", 75: "24.6", 76: "23.7", 77: "22.9", 78: "22.0", 79: "21.1",
	80: "20.2", 81: "19.4", 82: "18.5", 83: "17.7", 84: "16.8", 85: "16.0", 86: "15.2", 87: "14.4", 88: "13.7", 89: "12.9",
	90: "12.2", 91: "11.5", 92: "10.8", 93: "10.1", 94: "9.5", 95: "8.9", 96: "8.4", 97: "7.8", 98: "7.3", 99: "6.8",
	100: "6.4", 101: "6.0", 102: "5.6", 103: "5.2", 104: "4.9", 105: "4.6", 106: "4.3", 107: "4.1", 108: "3.9", 109: "3.7",
	110: "3.5", 111: "3.4", 112: "3.3", 113: "3.1", 114: "3.0", 115: "2.9", 116: "2.8", 117: "2.7", 118: "2.5", 119: "2.3",
	120: "2.0",
}

// DefaultTables2025 returns the 2025 federal reference tables. Each call
// builds a fresh value.
func DefaultTables2025() *domain.TaxYearTables {
	single := []int64{11925, 48475, 103350, 197300, 250525, 626350}
	joint := []int64{23850, 96950, 206700, 394600, 501050, 751600}
	hoh := []int64{17000, 64850, 103350, 197300, 250500, 626350}
	separate := []int64{11925, 48475, 103350, 197300, 250525, 375800}

	irmaaSingle := []int64{106000, 133000, 167000, 200000, 500000}
	irmaaJoint := []int64{212000, 266000, 334000, 400000, 750000}

	divisors := make(map[int]decimal.Decimal, len(uniformLifetimeTable))
	for age, d := range uniformLifetimeTable {
		divisors[age] = rate(d)
	}

	return &domain.TaxYearTables{
		Metadata: domain.RegulatoryMetadata{
			DataYear:    2025,
			LastUpdated: "2025-01-01",
			Description: "2025 federal brackets, standard deduction, Social Security thresholds, IRMAA tiers and Uniform Lifetime Table",
		},
		Year: 2025,
		Brackets: map[domain.FilingStatus][]domain.TaxBracket{
			domain.FilingStatusSingle:                    bracketTable(ordinaryRates, single),
			domain.FilingStatusMarriedFilingJointly:      bracketTable(ordinaryRates, joint),
			domain.FilingStatusMarriedFilingSeparately:   bracketTable(ordinaryRates, separate),
			domain.FilingStatusHeadOfHousehold:           bracketTable(ordinaryRates, hoh),
			domain.FilingStatusQualifyingSurvivingSpouse: bracketTable(ordinaryRates, joint),
		},
		StandardDeduction: map[domain.FilingStatus]decimal.Decimal{
			domain.FilingStatusSingle:                    decimal.NewFromInt(15000),
			domain.FilingStatusMarriedFilingJointly:      decimal.NewFromInt(30000),
			domain.FilingStatusMarriedFilingSeparately:   decimal.NewFromInt(15000),
			domain.FilingStatusHeadOfHousehold:           decimal.NewFromInt(22500),
			domain.FilingStatusQualifyingSurvivingSpouse: decimal.NewFromInt(30000),
		},
		SocialSecurity: map[domain.FilingStatus]domain.SSTaxThresholds{
			domain.FilingStatusSingle:                    {Base: decimal.NewFromInt(25000), AdjustedBase: decimal.NewFromInt(34000)},
			domain.FilingStatusMarriedFilingJointly:      {Base: decimal.NewFromInt(32000), AdjustedBase: decimal.NewFromInt(44000)},
			domain.FilingStatusMarriedFilingSeparately:   {Base: decimal.Zero, AdjustedBase: decimal.Zero},
			domain.FilingStatusHeadOfHousehold:           {Base: decimal.NewFromInt(25000), AdjustedBase: decimal.NewFromInt(34000)},
			domain.FilingStatusQualifyingSurvivingSpouse: {Base: decimal.NewFromInt(25000), AdjustedBase: decimal.NewFromInt(34000)},
		},
		IRMAA: map[domain.FilingStatus][]domain.IRMAATier{
			domain.FilingStatusSingle:                    irmaaTable(irmaaSingle),
			domain.FilingStatusMarriedFilingJointly:      irmaaTable(irmaaJoint),
			domain.FilingStatusMarriedFilingSeparately:   separateFilerIRMAA(),
			domain.FilingStatusHeadOfHousehold:           irmaaTable(irmaaSingle),
			domain.FilingStatusQualifyingSurvivingSpouse: irmaaTable(irmaaSingle),
		},
		RMDDivisors: divisors,
	}
}

// DefaultTableSet returns a TableSet holding the built-in years
func DefaultTableSet() domain.TableSet {
	return domain.TableSet{2025: DefaultTables2025()}
}
