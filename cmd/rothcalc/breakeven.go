package main

import (
	"fmt"

	"github.com/rgehrsitz/rothcalc/internal/breakeven"
	"github.com/rgehrsitz/rothcalc/internal/calculation"
	"github.com/rgehrsitz/rothcalc/internal/config"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func breakevenCmd(g *globalFlags) *cobra.Command {
	var (
		window    string
		format    string
		minAmount float64
		maxAmount float64
	)
	cmd := &cobra.Command{
		Use:   "breakeven [profile-file]",
		Short: "Find the best and the break-even fixed annual conversion",
		Long: `Search fixed annual conversion amounts for the one with the largest lifetime
tax savings and for the largest amount that still does not cost more tax than
it saves.

Examples:
  rothcalc breakeven profile.yaml
  rothcalc breakeven profile.yaml --window 63-70 --max-amount 150000 -f json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := g.logger()
			if err != nil {
				return err
			}
			var formatter interface {
				Format(*breakeven.Summary) (string, error)
			}
			switch format {
			case "table", "":
				formatter = tableSummary{}
			case "json":
				formatter = &breakeven.JSONFormatter{Pretty: true}
			default:
				return fmt.Errorf("unsupported break-even format: %s (use table or json)", format)
			}

			profile, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			start, end, err := parseAgeRange(window)
			if err != nil {
				return err
			}
			constraints := breakeven.DefaultConstraints(config.PlanWindow(profile, start, end))
			if cmd.Flags().Changed("min-amount") {
				constraints.MinAmount = decimal.NewFromFloat(minAmount).Round(2)
			}
			if cmd.Flags().Changed("max-amount") {
				constraints.MaxAmount = decimal.NewFromFloat(maxAmount).Round(2)
			}

			engine, err := g.engine(log, calculation.NewResultCache(0))
			if err != nil {
				return err
			}
			summary, err := breakeven.NewDefaultSolver(engine).SolveAll(cmd.Context(), profile, constraints)
			if err != nil {
				return fmt.Errorf("break-even search failed: %w", err)
			}

			text, err := formatter.Format(summary)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&window, "window", "w", "", "Conversion ages, e.g. 63-72 (default: current age until the year before RMDs)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	cmd.Flags().Float64Var(&minAmount, "min-amount", 0, "Smallest annual conversion to consider")
	cmd.Flags().Float64Var(&maxAmount, "max-amount", 200000, "Largest annual conversion to consider")
	return cmd
}

// tableSummary adapts breakeven.TableFormatter to the error-returning signature
type tableSummary struct{}

func (tableSummary) Format(s *breakeven.Summary) (string, error) {
	return (&breakeven.TableFormatter{}).Format(s), nil
}
