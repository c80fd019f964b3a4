package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/rothcalc/internal/calculation"
	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/rgehrsitz/rothcalc/internal/output"
	"github.com/rgehrsitz/rothcalc/internal/tui/components"
	"github.com/rgehrsitz/rothcalc/internal/tui/tuistyles"
)

// View renders the current state of the application
func (m Model) View() string {
	sections := []string{m.renderTitleBar()}

	switch {
	case m.profile == nil && m.err != nil:
		sections = append(sections, m.renderError())
	case m.profile == nil:
		sections = append(sections, tuistyles.InfoStyle.Render("Loading "+m.profilePath+"..."))
	default:
		sections = append(sections, m.slider.Render(), "")
		if m.err != nil {
			sections = append(sections, m.renderError())
		}
		if m.result != nil {
			sections = append(sections, m.renderMetrics(), m.renderYears())
		}
	}

	sections = append(sections, m.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderTitleBar renders the application title and the conversion window
func (m Model) renderTitleBar() string {
	title := tuistyles.TitleStyle.Render("Roth Conversion Projection")
	subtitle := m.profilePath
	if m.profile != nil {
		subtitle = fmt.Sprintf("%s · %s · converting ages %s",
			m.profilePath, m.profile.FilingStatus, m.window)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, tuistyles.SubtitleStyle.Render(subtitle), "")
}

func (m Model) renderMetrics() string {
	r := m.result
	baseEnd := domain.Final(r.Baseline)
	stratEnd := domain.Final(r.Strategy)

	cards := []*components.MetricCard{
		components.NewCurrencyCard("Baseline lifetime tax", r.BaselineLifetimeTax),
		components.NewCurrencyCard("Strategy lifetime tax", r.StrategyLifetimeTax).
			WithDelta(r.StrategyLifetimeTax.Sub(r.BaselineLifetimeTax), true),
		components.NewCurrencyCard("Lifetime savings", r.LifetimeSavings).
			WithDescription(output.FormatPercentage(calculation.SavingsRate(r)) + " of baseline"),
		components.NewCurrencyCard("Ending Roth", stratEnd.RothBalance).
			WithDelta(stratEnd.RothBalance.Sub(baseEnd.RothBalance), false),
		components.NewCurrencyCard("Ending IRA", stratEnd.IRABalance).
			WithDelta(stratEnd.IRABalance.Sub(baseEnd.IRABalance), true),
		components.NewCurrencyCard("Lifetime IRMAA", domain.LifetimeIRMAA(r.Strategy)).
			WithDelta(domain.LifetimeIRMAA(r.Strategy).Sub(domain.LifetimeIRMAA(r.Baseline)), true),
	}
	columns := 3
	if m.width < 90 {
		columns = 2
	}
	return components.MetricGrid(cards, columns)
}

// renderYears renders the visible slice of the year-by-year comparison
func (m Model) renderYears() string {
	var b strings.Builder
	header := fmt.Sprintf("%-6s %4s %12s %12s %12s %12s %6s %5s",
		"Year", "Age", "Conversion", "Base Tax", "Strat Tax", "Roth End", "Rate", "IRMAA")
	b.WriteString(tuistyles.TableHeaderStyle.Render(header))
	b.WriteString("\n")

	rows := m.result.Strategy
	end := min(len(rows), m.offset+m.visibleRows())
	for i := m.offset; i < end; i++ {
		s := rows[i]
		base := m.result.Baseline[i]
		line := fmt.Sprintf("%-6d %4d %12s %12s %12s %12s %6s %5d",
			s.Year, s.Age,
			output.FormatCurrency(s.RothConversion),
			output.FormatCurrency(base.FederalTax),
			output.FormatCurrency(s.FederalTax),
			output.FormatCurrency(s.RothBalance),
			output.FormatPercentage(s.MarginalRate),
			s.IRMAATier)
		b.WriteString(tuistyles.TableCellStyle.Render(line))
		b.WriteString("\n")
	}
	return tuistyles.BorderStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// visibleRows is how many year rows fit below the metrics
func (m Model) visibleRows() int {
	return max(3, m.height-24)
}

func (m Model) renderError() string {
	return tuistyles.ErrorStyle.Render("Error: " + m.err.Error())
}

// renderStatusBar renders the bottom status bar with key hints
func (m Model) renderStatusBar() string {
	bindings := []struct{ key, desc string }{
		{m.keys.Decrease.Help().Key, m.keys.Decrease.Help().Desc},
		{m.keys.Increase.Help().Key, m.keys.Increase.Help().Desc},
		{"↑/↓", "scroll"},
		{m.keys.Quit.Help().Key, m.keys.Quit.Help().Desc},
	}
	parts := make([]string, 0, len(bindings)+1)
	for _, kb := range bindings {
		parts = append(parts, tuistyles.StatusKeyStyle.Render(kb.key)+" "+kb.desc)
	}
	if m.loading {
		parts = append(parts, "calculating...")
	}
	return tuistyles.StatusBarStyle.Render(strings.Join(parts, "  "))
}
