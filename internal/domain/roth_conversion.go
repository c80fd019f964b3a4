package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ConversionFunc maps (year index, age) to the requested Roth conversion for
// that year. Year index 0 is the first projected year. The engine caps the
// request at what the tax-deferred account can cover after the RMD.
type ConversionFunc func(yearIndex, age int) decimal.Decimal

// NoConversion never converts
func NoConversion() ConversionFunc {
	return func(int, int) decimal.Decimal { return decimal.Zero }
}

// FixedAnnualConversion converts the same amount every year whose age falls
// in window.
func FixedAnnualConversion(amount decimal.Decimal, window AgeRange) ConversionFunc {
	return func(_ int, age int) decimal.Decimal {
		if !window.Contains(age) {
			return decimal.Zero
		}
		return amount
	}
}

// RothConversion is a single scheduled conversion
type RothConversion struct {
	Age    int             `yaml:"age" json:"age"`
	Amount decimal.Decimal `yaml:"amount" json:"amount"`
}

// RothConversionSchedule is a set of conversions keyed by age
type RothConversionSchedule struct {
	Conversions []RothConversion `yaml:"conversions" json:"conversions"`
}

// Total returns the sum of all scheduled conversions
func (s RothConversionSchedule) Total() decimal.Decimal {
	total := decimal.Zero
	for _, c := range s.Conversions {
		total = total.Add(c.Amount)
	}
	return total
}

// Sorted returns the conversions ordered by age
func (s RothConversionSchedule) Sorted() []RothConversion {
	out := make([]RothConversion, len(s.Conversions))
	copy(out, s.Conversions)
	sort.Slice(out, func(i, j int) bool { return out[i].Age < out[j].Age })
	return out
}

// Func returns a ConversionFunc for the schedule. Entries for the same age
// are summed. The schedule is copied so later edits do not leak in.
func (s RothConversionSchedule) Func() ConversionFunc {
	byAge := make(map[int]decimal.Decimal, len(s.Conversions))
	for _, c := range s.Conversions {
		byAge[c.Age] = byAge[c.Age].Add(c.Amount)
	}
	return func(_ int, age int) decimal.Decimal {
		if amt, ok := byAge[age]; ok {
			return amt
		}
		return decimal.Zero
	}
}

// AgeRange is an inclusive range of ages
type AgeRange struct {
	Start int `yaml:"start" json:"start"`
	End   int `yaml:"end" json:"end"`
}

// Contains checks if an age is within the range
func (r AgeRange) Contains(age int) bool {
	return age >= r.Start && age <= r.End
}

// Ages returns all ages in the range
func (r AgeRange) Ages() []int {
	if r.End < r.Start {
		return nil
	}
	ages := make([]int, 0, r.End-r.Start+1)
	for age := r.Start; age <= r.End; age++ {
		ages = append(ages, age)
	}
	return ages
}

// String returns a string representation of the age range
func (r AgeRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// OptimizationObjective defines what to optimize for
type OptimizationObjective int

const (
	MinimizeLifetimeTax OptimizationObjective = iota
	MinimizeLifetimeIRMAA
	MaximizeEndingRoth
)

func (o OptimizationObjective) String() string {
	switch o {
	case MinimizeLifetimeTax:
		return "minimize_lifetime_tax"
	case MinimizeLifetimeIRMAA:
		return "minimize_lifetime_irmaa"
	case MaximizeEndingRoth:
		return "maximize_ending_roth"
	default:
		return "unknown"
	}
}

// ParseOptimizationObjective parses the String form of an objective
func ParseOptimizationObjective(s string) (OptimizationObjective, error) {
	for _, o := range []OptimizationObjective{MinimizeLifetimeTax, MinimizeLifetimeIRMAA, MaximizeEndingRoth} {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown objective %q", s)
}

// RothConversionConstraints defines limits for bracket-fill planning
type RothConversionConstraints struct {
	Window              AgeRange        `json:"window"`
	MinConversionAmount decimal.Decimal `json:"minConversionAmount"`
	MaxConversionAmount decimal.Decimal `json:"maxConversionAmount"`
	MaxTotalConversions decimal.Decimal `json:"maxTotalConversions"`
}

// DefaultRothConversionConstraints returns sensible defaults for a window
func DefaultRothConversionConstraints(window AgeRange) RothConversionConstraints {
	return RothConversionConstraints{
		Window:              window,
		MinConversionAmount: decimal.NewFromInt(1000),    // $1,000 minimum
		MaxConversionAmount: decimal.NewFromInt(200000),  // $200,000 maximum per year
		MaxTotalConversions: decimal.NewFromInt(2000000), // $2M maximum total
	}
}

// Validate checks if the constraints are valid
func (c RothConversionConstraints) Validate() error {
	if c.Window.End < c.Window.Start {
		return fmt.Errorf("conversion window %s is empty", c.Window)
	}

	if c.MinConversionAmount.IsNegative() {
		return fmt.Errorf("min conversion amount cannot be negative")
	}

	if c.MaxConversionAmount.LessThanOrEqual(c.MinConversionAmount) {
		return fmt.Errorf("max conversion amount must be greater than min")
	}

	if c.MaxTotalConversions.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("max total conversions must be positive")
	}

	return nil
}

// BracketRoom is the space left in a target bracket for one year
type BracketRoom struct {
	Year          int             `json:"year"`
	Age           int             `json:"age"`
	BracketIndex  int             `json:"bracketIndex"`
	Rate          decimal.Decimal `json:"rate"`
	TaxableIncome decimal.Decimal `json:"taxableIncome"`
	BracketEdge   decimal.Decimal `json:"bracketEdge"`
	RoomAmount    decimal.Decimal `json:"roomAmount"`
}

// ConversionOutcome is the result of projecting one candidate schedule
type ConversionOutcome struct {
	TargetRate    decimal.Decimal        `json:"targetRate"`
	Schedule      RothConversionSchedule `json:"schedule"`
	Projection    *ProjectionResult      `json:"projection"`
	LifetimeTax   decimal.Decimal        `json:"lifetimeTax"`
	LifetimeIRMAA decimal.Decimal        `json:"lifetimeIrmaa"`
	EndingRoth    decimal.Decimal        `json:"endingRoth"`
	NetBenefit    decimal.Decimal        `json:"netBenefit"`
}

// RothConversionPlan is the full bracket-fill analysis
type RothConversionPlan struct {
	Window       AgeRange              `json:"window"`
	Objective    OptimizationObjective `json:"objective"`
	Baseline     []YearRecord          `json:"baseline"`
	Rooms        []BracketRoom         `json:"rooms"`
	Recommended  *ConversionOutcome    `json:"recommended"`
	Alternatives []ConversionOutcome   `json:"alternatives"`
}

// MarshalText renders the objective by name in JSON and YAML output
func (o OptimizationObjective) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}
