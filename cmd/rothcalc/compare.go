package main

import (
	"fmt"

	"github.com/rgehrsitz/rothcalc/internal/calculation"
	"github.com/rgehrsitz/rothcalc/internal/compare"
	"github.com/rgehrsitz/rothcalc/internal/config"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func compareCmd(g *globalFlags) *cobra.Command {
	var (
		amounts []float64
		window  string
		format  string
	)
	cmd := &cobra.Command{
		Use:   "compare [profile-file]",
		Short: "Compare fixed annual conversion amounts against no conversions",
		Long: `Compare several fixed annual Roth conversion amounts, plus the profile's own
strategy when it has one, against the no-conversion baseline.

Examples:
  rothcalc compare profile.yaml
  rothcalc compare profile.yaml --amounts 20000,40000,80000 --window 63-70
  rothcalc compare profile.yaml -f csv > strategies.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := g.logger()
			if err != nil {
				return err
			}
			formatter, err := compare.NewFormatter(format)
			if err != nil {
				return err
			}
			doc, err := config.NewInputParser().LoadDocument(args[0])
			if err != nil {
				return err
			}
			profile, err := doc.ToProfile()
			if err != nil {
				return err
			}
			start, end, err := parseAgeRange(window)
			if err != nil {
				return err
			}
			ages := config.PlanWindow(profile, start, end)

			values := make([]decimal.Decimal, 0, len(amounts))
			for _, a := range amounts {
				if a < 0 {
					return fmt.Errorf("conversion amounts must not be negative: %v", a)
				}
				values = append(values, decimal.NewFromFloat(a).Round(2))
			}
			strategies := compare.FixedAmountStrategies(values, ages)
			if t := doc.Conversion.Type; t != "" && t != config.ConversionNone {
				strategies = append(strategies, compare.Strategy{
					Name:        "profile",
					Description: fmt.Sprintf("The profile's %s conversion strategy", doc.Conversion.Type),
					Conversion:  profile.Conversion,
				})
			}

			engine, err := g.engine(log, calculation.NewResultCache(0))
			if err != nil {
				return err
			}
			set, err := compare.NewCompareEngine(engine).Compare(cmd.Context(), profile, strategies)
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}
			set.ProfilePath = args[0]
			log.Infof("compared %d strategies over ages %s", len(strategies), ages)

			text, err := formatter.Format(set)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().Float64SliceVarP(&amounts, "amounts", "a", []float64{25000, 50000, 75000, 100000}, "Fixed annual conversion amounts")
	cmd.Flags().StringVarP(&window, "window", "w", "", "Conversion ages, e.g. 63-72 (default: current age until the year before RMDs)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json, csv)")
	return cmd
}
