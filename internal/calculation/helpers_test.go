package calculation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, want.Equal(got), "want %s, got %s %s", want, got, fmt.Sprint(msgAndArgs...))
}

// retireeProfile is a single filer retiring now with Social Security at 67
// and RMDs at 73.
func retireeProfile() domain.FinancialProfile {
	return domain.FinancialProfile{
		FilingStatus:           domain.FilingStatusSingle,
		StartYear:              2025,
		CurrentAge:             65,
		RetirementAge:          65,
		SocialSecurityStartAge: 67,
		RMDStartAge:            73,
		LifeExpectancyAge:      90,

		TaxDeferredBalance: d("500000"),
		RothBalance:        d("50000"),
		TaxableBalance:     d("100000"),

		TaxableInterest:       d("1000"),
		Dividends:             d("2000"),
		Pension:               d("20000"),
		SocialSecurityBenefit: d("30000"),

		GrowthRate:    d("0.05"),
		YieldRate:     d("0.02"),
		InflationRate: d("0.025"),

		ModelIRMAA: true,
	}
}

func newTestEngine(t *testing.T, opts ...Option) *ProjectionEngine {
	t.Helper()
	e, err := NewProjectionEngine(DefaultTableSet(), opts...)
	require.NoError(t, err)
	return e
}

type recordingLogger struct {
	mu    sync.Mutex
	debug []string
}

func (l *recordingLogger) Debugf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = append(l.debug, fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Infof(format string, args ...any)  {}
func (l *recordingLogger) Warnf(format string, args ...any)  {}
func (l *recordingLogger) Errorf(format string, args ...any) {}

func (l *recordingLogger) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.debug...)
}
