package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/rothcalc/internal/calculation"
	"github.com/rgehrsitz/rothcalc/internal/config"
	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/rgehrsitz/rothcalc/internal/tui/components"
)

var (
	conversionStep = decimal.NewFromInt(5000)
	conversionMax  = decimal.NewFromInt(500000)
)

// keyMap holds the key bindings
type keyMap struct {
	Increase key.Binding
	Decrease key.Binding
	Up       key.Binding
	Down     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Increase: key.NewBinding(key.WithKeys("right", "l", "+"), key.WithHelp("→", "convert more")),
		Decrease: key.NewBinding(key.WithKeys("left", "h", "-"), key.WithHelp("←", "convert less")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "scroll up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "scroll down")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model represents the entire application state: one profile, a fixed
// annual conversion amount the user adjusts, and the latest projection for
// that amount.
type Model struct {
	profilePath string
	engine      *calculation.ProjectionEngine

	profile *domain.FinancialProfile
	window  domain.AgeRange
	slider  *components.ParameterSlider

	result *domain.ProjectionResult
	// amount the current result was projected for
	resultAmount decimal.Decimal
	loading      bool

	// Terminal dimensions
	width  int
	height int
	offset int

	keys keyMap
	err  error
}

// NewModel creates a new application model
func NewModel(profilePath string, engine *calculation.ProjectionEngine) Model {
	return Model{
		profilePath: profilePath,
		engine:      engine,
		slider: components.NewParameterSlider("Annual conversion",
			decimal.Zero, decimal.Zero, conversionMax, conversionStep),
		keys:    defaultKeyMap(),
		loading: true,
		width:   80,
		height:  24,
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return loadProfileCmd(m.profilePath)
}

// Amount returns the conversion amount currently selected
func (m Model) Amount() decimal.Decimal {
	return m.slider.Value
}

// Result returns the most recent projection, nil before the first one
func (m Model) Result() *domain.ProjectionResult {
	return m.result
}

// Err returns the last error shown to the user
func (m Model) Err() error {
	return m.err
}

// loadProfileCmd reads the profile document from disk
func loadProfileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		doc, err := config.NewInputParser().LoadDocument(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		profile, err := doc.ToProfile()
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return profileLoadedMsg{profile: profile, conversion: doc.Conversion}
	}
}

// projectCmd projects the profile with a fixed annual conversion over window
func projectCmd(engine *calculation.ProjectionEngine, profile domain.FinancialProfile, window domain.AgeRange, amount decimal.Decimal) tea.Cmd {
	return func() tea.Msg {
		p := profile.WithConversion(domain.FixedAnnualConversion(amount, window))
		res, err := engine.Project(context.Background(), p)
		return projectionMsg{amount: amount, result: res, err: err}
	}
}
