package calculation

import (
	"testing"

	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInflationMultiplier(t *testing.T) {
	tests := []struct {
		name      string
		rate      string
		yearIndex int
		want      string
	}{
		{"year zero", "0.03", 0, "1"},
		{"zero rate", "0", 5, "1"},
		{"negative rate", "-0.01", 3, "1"},
		{"negative index", "0.03", -1, "1"},
		{"one year", "0.03", 1, "1.03"},
		{"two years", "0.03", 2, "1.0609"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimal(t, d(tt.want), InflationMultiplier(d(tt.rate), tt.yearIndex))
		})
	}
}

func TestIndexBrackets(t *testing.T) {
	base := DefaultTables2025().BracketsFor(domain.FilingStatusSingle)

	indexed := IndexBrackets(base, d("1.03"))
	require.Len(t, indexed, len(base))

	// 11925 * 1.03 = 12282.75
	assertDecimal(t, d("12283"), *indexed[0].Upper)
	assertDecimal(t, d("12283"), indexed[1].Lower)
	assert.True(t, indexed[len(indexed)-1].Unbounded(), "top row must stay unbounded")

	// input untouched
	assertDecimal(t, d("11925"), *base[0].Upper)

	for i := 1; i < len(indexed); i++ {
		assert.True(t, indexed[i].Lower.Equal(*indexed[i-1].Upper), "row %d must stay contiguous", i)
		assert.True(t, indexed[i].Rate.Equal(base[i].Rate))
	}
}

func TestIndexAmount(t *testing.T) {
	t.Run("unit multiplier keeps cents", func(t *testing.T) {
		assertDecimal(t, d("100.5"), IndexAmount(d("100.5"), d("1")))
	})
	t.Run("rounds to whole dollars", func(t *testing.T) {
		// 15000 * 1.025 = 15375, 15000 * 1.0333 = 15499.5
		assertDecimal(t, d("15375"), IndexAmount(d("15000"), d("1.025")))
		assertDecimal(t, d("15500"), IndexAmount(d("15000"), d("1.0333")))
	})
}

func TestIndexIRMAATiers(t *testing.T) {
	base := DefaultTables2025().IRMAAFor(domain.FilingStatusSingle)
	indexed := IndexIRMAATiers(base, d("1.03"))

	assert.True(t, indexed[0].Lower.IsZero())
	assertDecimal(t, d("109180"), *indexed[0].Upper)
	assertDecimal(t, base[1].PartBSurcharge, indexed[1].PartBSurcharge, "surcharges are not indexed")
	assert.Nil(t, indexed[len(indexed)-1].Upper)
	assertDecimal(t, d("106000"), *base[0].Upper)
}
