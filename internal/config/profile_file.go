package config

// ProfileFile is the on-disk and over-the-wire shape of a financial
// profile; YAML and JSON use the same snake_case keys. Money is written as
// plain numbers and rates as fractions (0.05 for 5%). Defaults are applied
// before validation.
type ProfileFile struct {
	FilingStatus string `yaml:"filing_status" json:"filing_status" default:"single" validate:"required,filing_status"`
	StartYear    int    `yaml:"start_year" json:"start_year" validate:"omitempty,gte=1900,lte=2200"`

	CurrentAge             int  `yaml:"current_age" json:"current_age" validate:"required,gte=18,lte=120"`
	SpouseAge              *int `yaml:"spouse_age,omitempty" json:"spouse_age,omitempty" validate:"omitempty,gte=18,lte=120"`
	RetirementAge          int  `yaml:"retirement_age" json:"retirement_age" default:"65" validate:"gte=0,lte=100"`
	SocialSecurityStartAge int  `yaml:"social_security_start_age" json:"social_security_start_age" default:"67" validate:"gte=62,lte=70"`
	RMDStartAge            int  `yaml:"rmd_start_age" json:"rmd_start_age" default:"73" validate:"gte=70,lte=75"`
	LifeExpectancyAge      int  `yaml:"life_expectancy_age" json:"life_expectancy_age" default:"90" validate:"gtefield=CurrentAge,lte=120"`

	Balances Balances `yaml:"balances" json:"balances"`
	Income   Income   `yaml:"income" json:"income"`

	GrowthRate    *float64 `yaml:"growth_rate" json:"growth_rate" default:"0.05" validate:"gte=-0.5,lte=0.5"`
	YieldRate     *float64 `yaml:"yield_rate" json:"yield_rate" default:"0.02" validate:"gte=0,lte=0.2"`
	InflationRate *float64 `yaml:"inflation_rate" json:"inflation_rate" default:"0.025" validate:"gte=-0.1,lte=0.2"`

	ModelIRMAA *bool `yaml:"model_irmaa" json:"model_irmaa" default:"true"`
	ModelNIIT  bool  `yaml:"model_niit" json:"model_niit"`

	Conversion ConversionFile `yaml:"conversion" json:"conversion"`
}

// Balances are start-of-projection account values
type Balances struct {
	TaxDeferred float64 `yaml:"tax_deferred" json:"tax_deferred" validate:"gte=0"`
	Roth        float64 `yaml:"roth" json:"roth" validate:"gte=0"`
	Taxable     float64 `yaml:"taxable" json:"taxable" validate:"gte=0"`
}

// Income holds the annual income layers. Social Security is the gross
// annual benefit at the claiming age, in today's dollars.
type Income struct {
	Wages                 float64 `yaml:"wages" json:"wages" validate:"gte=0"`
	TaxableInterest       float64 `yaml:"taxable_interest" json:"taxable_interest" validate:"gte=0"`
	TaxExemptInterest     float64 `yaml:"tax_exempt_interest" json:"tax_exempt_interest" validate:"gte=0"`
	Dividends             float64 `yaml:"dividends" json:"dividends" validate:"gte=0"`
	CapitalGains          float64 `yaml:"capital_gains" json:"capital_gains" validate:"gte=0"`
	Pension               float64 `yaml:"pension" json:"pension" validate:"gte=0"`
	OtherIncome           float64 `yaml:"other" json:"other" validate:"gte=0"`
	SocialSecurityBenefit float64 `yaml:"social_security" json:"social_security" validate:"gte=0"`
}

// Conversion types
const (
	ConversionNone     = "none"
	ConversionFixed    = "fixed"
	ConversionSchedule = "schedule"
)

// ConversionFile describes the strategy scenario's Roth conversions.
// "fixed" converts Amount every year from StartAge through EndAge (zero
// ages default to the projection's first and last age); "schedule" lists
// explicit amounts by age.
type ConversionFile struct {
	Type     string                `yaml:"type" json:"type" default:"none" validate:"oneof=none fixed schedule"`
	Amount   float64               `yaml:"amount,omitempty" json:"amount,omitempty" validate:"gte=0"`
	StartAge int                   `yaml:"start_age,omitempty" json:"start_age,omitempty" validate:"gte=0,lte=120"`
	EndAge   int                   `yaml:"end_age,omitempty" json:"end_age,omitempty" validate:"gte=0,lte=120"`
	Schedule []ScheduledConversion `yaml:"schedule,omitempty" json:"schedule,omitempty" validate:"dive"`
}

// ScheduledConversion is one explicit conversion
type ScheduledConversion struct {
	Age    int     `yaml:"age" json:"age" validate:"gte=0,lte=120"`
	Amount float64 `yaml:"amount" json:"amount" validate:"gte=0"`
}
