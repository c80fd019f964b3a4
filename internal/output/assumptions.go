package output

// DefaultAssumptions lists the modeling assumptions rendered under detailed
// reports.
var DefaultAssumptions = []string{
	"Brackets, standard deduction and IRMAA thresholds indexed by inflation from the base year",
	"Social Security thresholds are statutory and never indexed",
	"Social Security benefit receives a COLA equal to the inflation rate",
	"Wages, pension, dividends and other income are held flat",
	"Growth applied to end-of-year balances after RMD and conversion",
	"Conversion taxes are paid from outside the projected accounts",
}
