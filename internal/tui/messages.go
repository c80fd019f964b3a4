package tui

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/rothcalc/internal/config"
	"github.com/rgehrsitz/rothcalc/internal/domain"
)

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// profileLoadedMsg carries the parsed profile and its conversion section
type profileLoadedMsg struct {
	profile    domain.FinancialProfile
	conversion config.ConversionFile
}

// projectionMsg carries a finished projection. amount identifies the slider
// value it was requested for.
type projectionMsg struct {
	amount decimal.Decimal
	result *domain.ProjectionResult
	err    error
}
