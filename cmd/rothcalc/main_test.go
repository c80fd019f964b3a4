package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileYAML = `
filing_status: mfj
start_year: 2025
current_age: 63
retirement_age: 63
social_security_start_age: 67
rmd_start_age: 73
life_expectancy_age: 85
balances:
  tax_deferred: 1200000
  roth: 40000
  taxable: 150000
income:
  pension: 30000
  dividends: 4000
  social_security: 42000
conversion:
  type: fixed
  amount: 60000
  start_age: 63
  end_age: 72
`

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// run executes the CLI with args and returns stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "rothcalc", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"project", "plan", "compare", "breakeven", "validate", "tables", "serve", "version"} {
		assert.Contains(t, names, want)
	}

	out, err := run(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Roth conversion")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "rothcalc dev (commit none, built unknown)"))
}

func TestProjectCommand(t *testing.T) {
	path := writeProfile(t, profileYAML)

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, out string)
	}{
		{
			name: "table",
			args: []string{"project", path},
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "BASELINE (no conversions)")
				assert.Contains(t, out, "STRATEGY")
				assert.Contains(t, out, "Lifetime savings:")
				assert.NotContains(t, out, "IRMAA RISK")
			},
		},
		{
			name: "irmaa analysis",
			args: []string{"project", path, "--irmaa"},
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "IRMAA RISK: baseline")
				assert.Contains(t, out, "IRMAA RISK: strategy")
			},
		},
		{
			name: "json",
			args: []string{"project", path, "--format", "json"},
			check: func(t *testing.T, out string) {
				var doc map[string]any
				require.NoError(t, json.Unmarshal([]byte(out), &doc))
				assert.Len(t, doc["baseline"], 23)
				assert.Len(t, doc["strategy"], 23)
			},
		},
		{
			name: "csv",
			args: []string{"project", path, "-f", "csv"},
			check: func(t *testing.T, out string) {
				rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
				require.NoError(t, err)
				assert.Len(t, rows, 1+2*23)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			tt.check(t, out)
		})
	}
}

func TestProjectCommand_Errors(t *testing.T) {
	valid := writeProfile(t, profileYAML)
	invalid := writeProfile(t, "filing_status: single\ncurrent_age: 10\n")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing argument", []string{"project"}, "accepts 1 arg(s)"},
		{"missing file", []string{"project", filepath.Join(t.TempDir(), "nope.yaml")}, "no such file"},
		{"invalid profile", []string{"project", invalid}, "current_age"},
		{"unknown format", []string{"project", valid, "--format", "xml"}, "unsupported format"},
		{"bad log level", []string{"project", valid, "--log-level", "loud"}, "invalid log level"},
		{"missing tables", []string{"project", valid, "--tables", filepath.Join(t.TempDir(), "t.yaml")}, "no such file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPlanCommand(t *testing.T) {
	path := writeProfile(t, profileYAML)

	out, err := run(t, "plan", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ROTH CONVERSION ANALYSIS")
	assert.Contains(t, out, "CANDIDATES:")
	assert.Contains(t, out, "RECOMMENDATION: ")

	out, err = run(t, "plan", path, "--target", "22", "--window", "63-70", "--max-amount", "80000", "-f", "json")
	require.NoError(t, err)
	var plan struct {
		Window struct {
			Start int `json:"start"`
			End   int `json:"end"`
		} `json:"window"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.Equal(t, 63, plan.Window.Start)
	assert.Equal(t, 70, plan.Window.End)
}

func TestPlanCommand_Errors(t *testing.T) {
	path := writeProfile(t, profileYAML)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"malformed window", []string{"plan", path, "--window", "63"}, "invalid window"},
		{"reversed window", []string{"plan", path, "--window", "70-63"}, "must not be after"},
		{"top bracket", []string{"plan", path, "--target", "37"}, "top bracket"},
		{"unknown bracket", []string{"plan", path, "--target", "23"}, "no 23% bracket"},
		{"bad objective", []string{"plan", path, "--objective", "fastest"}, "objective"},
		{"csv unsupported", []string{"plan", path, "-f", "csv"}, "csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCompareCommand(t *testing.T) {
	path := writeProfile(t, profileYAML)

	out, err := run(t, "compare", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ROTH CONVERSION STRATEGY COMPARISON")
	assert.Contains(t, out, "no_conversion (base)")
	assert.Contains(t, out, "fixed_50000")
	assert.Contains(t, out, "profile")
	assert.Contains(t, out, "RECOMMENDATIONS")

	out, err = run(t, "compare", path, "--amounts", "20000,40000", "--window", "63-70", "-f", "csv")
	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	// header, base, two fixed amounts, the profile's own strategy
	require.Len(t, rows, 5)
	assert.Equal(t, "no_conversion", rows[1][0])
	assert.Equal(t, "fixed_20000", rows[2][0])
	assert.Equal(t, "160000.00", rows[2][4])
	assert.Equal(t, "profile", rows[4][0])

	out, err = run(t, "compare", path, "--amounts", "30000", "-f", "json")
	require.NoError(t, err)
	var set struct {
		BaseScenarioName   string `json:"baseScenarioName"`
		AlternativeResults []struct {
			ScenarioName string `json:"scenarioName"`
		} `json:"alternativeResults"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &set))
	assert.Equal(t, "no_conversion", set.BaseScenarioName)
	assert.Len(t, set.AlternativeResults, 2)
}

func TestCompareCommand_Errors(t *testing.T) {
	path := writeProfile(t, profileYAML)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"duplicate amounts", []string{"compare", path, "--amounts", "1000,1000"}, "appears more than once"},
		{"negative amount", []string{"compare", path, "--amounts=-5"}, "must not be negative"},
		{"bad window", []string{"compare", path, "--window", "x-y"}, "invalid window"},
		{"unknown format", []string{"compare", path, "-f", "html"}, "unsupported comparison format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBreakevenCommand(t *testing.T) {
	path := writeProfile(t, profileYAML)

	out, err := run(t, "breakeven", path, "--max-amount", "100000")
	require.NoError(t, err)
	assert.Contains(t, out, "BREAK-EVEN CONVERSION ANALYSIS")
	assert.Contains(t, out, "Conversion Window:   ages 63-72")
	assert.Contains(t, out, "BEST ANNUAL CONVERSION")
	assert.Contains(t, out, "BREAK-EVEN ANNUAL CONVERSION")

	out, err = run(t, "breakeven", path, "--window", "63-68", "--max-amount", "50000", "-f", "json")
	require.NoError(t, err)
	var summary struct {
		BestSavings struct {
			Goal string `json:"goal"`
		} `json:"best_savings"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "maximize_savings", summary.BestSavings.Goal)

	_, err = run(t, "breakeven", path, "--min-amount", "50000", "--max-amount", "10000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_amount must be greater than min_amount")

	_, err = run(t, "breakeven", path, "-f", "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported break-even format")
}

func TestValidateCommand(t *testing.T) {
	path := writeProfile(t, profileYAML)

	out, err := run(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid: married_filing_jointly, ages 63-85 (23 years)")

	out, err = run(t, "validate", path, "--print")
	require.NoError(t, err)
	assert.Contains(t, out, "filing_status: married_filing_jointly")
	assert.Contains(t, out, "growth_rate: 0.05")

	// the printed document is itself a valid profile
	again := writeProfile(t, out)
	_, err = run(t, "validate", again)
	require.NoError(t, err)
}

func TestTablesCommand(t *testing.T) {
	out, err := run(t, "tables", "years")
	require.NoError(t, err)
	assert.Equal(t, "2025\n", out)

	out, err = run(t, "tables", "--year", "2030")
	require.NoError(t, err)
	assert.Contains(t, out, "tables:")
	assert.Contains(t, out, "year: 2025")

	// the dump is accepted back as an override file
	tablesPath := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(tablesPath, []byte(out), 0o644))
	_, err = run(t, "project", writeProfile(t, profileYAML), "--tables", tablesPath)
	require.NoError(t, err)

	_, err = run(t, "tables", "--year", "1999")
	require.Error(t, err)
}

func TestParseAgeRange(t *testing.T) {
	tests := []struct {
		in         string
		start, end int
		wantErr    bool
	}{
		{"", 0, 0, false},
		{"63-72", 63, 72, false},
		{" 65 - 65 ", 65, 65, false},
		{"63", 0, 0, true},
		{"a-72", 0, 0, true},
		{"63-b", 0, 0, true},
		{"72-63", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			start, end, err := parseAgeRange(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}
