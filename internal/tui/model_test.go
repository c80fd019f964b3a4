package tui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/rothcalc/internal/calculation"
)

const profileYAML = `
filing_status: mfj
start_year: 2025
current_age: 65
retirement_age: 65
social_security_start_age: 67
rmd_start_age: 73
life_expectancy_age: 85
balances:
  tax_deferred: 800000
  roth: 20000
  taxable: 100000
income:
  pension: 25000
  social_security: 30000
conversion:
  type: fixed
  amount: 40000
  start_age: 65
  end_age: 70
`

func newTestModel(t *testing.T, doc string) Model {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	engine, err := calculation.NewProjectionEngine(calculation.DefaultTableSet())
	require.NoError(t, err)
	return NewModel(path, engine)
}

// drive feeds msg to the model and runs the returned command chain
// synchronously until it settles.
func drive(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	for msg != nil {
		next, cmd := m.Update(msg)
		m = next.(Model)
		if cmd == nil {
			break
		}
		msg = cmd()
	}
	return m
}

func loaded(t *testing.T) Model {
	t.Helper()
	m := newTestModel(t, profileYAML)
	return drive(t, m, m.Init()())
}

func TestModel_LoadsAndProjects(t *testing.T) {
	m := loaded(t)

	require.NoError(t, m.Err())
	require.NotNil(t, m.Result())
	assert.Equal(t, "40000", m.Amount().String())
	assert.Len(t, m.Result().Strategy, 21)
	assert.Equal(t, "40000", m.Result().Strategy[0].RothConversion.String())
	assert.True(t, m.Result().Strategy[6].RothConversion.IsZero(), "age 71 is outside the window")
	assert.False(t, m.loading)

	view := m.View()
	assert.Contains(t, view, "Roth Conversion Projection")
	assert.Contains(t, view, "converting ages 65-70")
	assert.Contains(t, view, "Lifetime savings")
	assert.Contains(t, view, "$40,000")
}

func TestModel_AdjustConversion(t *testing.T) {
	m := loaded(t)

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "45000", m.Amount().String())
	assert.Equal(t, "45000", m.Result().Strategy[0].RothConversion.String())

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, "35000", m.Amount().String())
	assert.Equal(t, "35000", m.Result().Strategy[0].RothConversion.String())
}

func TestModel_IgnoresStaleProjection(t *testing.T) {
	m := loaded(t)
	before := m.Result()

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	require.NotNil(t, cmd)
	stale := cmd()

	// the user moves again before the first projection lands
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)

	next, _ = m.Update(stale)
	m = next.(Model)
	assert.Same(t, before, m.Result())
	assert.True(t, m.loading)
}

func TestModel_Scroll(t *testing.T) {
	m := loaded(t)
	m = drive(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.offset)

	for i := 0; i < 50; i++ {
		m = drive(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 21-m.visibleRows(), m.offset)
}

func TestModel_Quit(t *testing.T) {
	m := loaded(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_Errors(t *testing.T) {
	t.Run("invalid profile", func(t *testing.T) {
		m := newTestModel(t, "filing_status: single\ncurrent_age: 10\n")
		m = drive(t, m, m.Init()())
		require.Error(t, m.Err())
		assert.Nil(t, m.Result())
		assert.Contains(t, m.View(), "Error:")
	})

	t.Run("keys before load", func(t *testing.T) {
		m := newTestModel(t, profileYAML)
		next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
		assert.Nil(t, cmd)
		assert.True(t, next.(Model).Amount().IsZero())
	})

	t.Run("projection error", func(t *testing.T) {
		m := loaded(t)
		m = drive(t, m, projectionMsg{amount: m.Amount(), err: errors.New("boom")})
		assert.EqualError(t, m.Err(), "boom")
		assert.NotNil(t, m.Result(), "keeps the last good result")
	})
}
