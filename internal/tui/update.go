package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/rothcalc/internal/config"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.slider.WithWidth(max(10, min(50, msg.Width-20)))
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		m.loading = false
		return m, nil

	case profileLoadedMsg:
		p := msg.profile
		m.profile = &p
		m.window = config.PlanWindow(p, msg.conversion.StartAge, msg.conversion.EndAge)
		// start from the document's fixed amount when it has one
		if msg.conversion.Type == config.ConversionFixed {
			m.slider.SetValue(decimal.NewFromFloat(msg.conversion.Amount).Round(0))
		}
		m.slider.SetFocused(true)
		m.loading = true
		return m, projectCmd(m.engine, p, m.window, m.slider.Value)

	case projectionMsg:
		// a newer amount was requested while this one ran
		if !msg.amount.Equal(m.slider.Value) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.result = msg.result
		m.resultAmount = msg.amount
		m.clampOffset()
		return m, nil
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Increase):
		if m.profile != nil && m.slider.Increment() {
			return m.reproject()
		}

	case key.Matches(msg, m.keys.Decrease):
		if m.profile != nil && m.slider.Decrement() {
			return m.reproject()
		}

	case key.Matches(msg, m.keys.Up):
		if m.offset > 0 {
			m.offset--
		}

	case key.Matches(msg, m.keys.Down):
		m.offset++
		m.clampOffset()
	}
	return m, nil
}

func (m Model) reproject() (tea.Model, tea.Cmd) {
	m.loading = true
	return m, projectCmd(m.engine, *m.profile, m.window, m.slider.Value)
}

func (m *Model) clampOffset() {
	if m.result == nil {
		m.offset = 0
		return
	}
	last := len(m.result.Strategy) - m.visibleRows()
	if last < 0 {
		last = 0
	}
	if m.offset > last {
		m.offset = last
	}
}
