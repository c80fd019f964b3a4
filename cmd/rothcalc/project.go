package main

import (
	"fmt"

	"github.com/rgehrsitz/rothcalc/internal/calculation"
	"github.com/rgehrsitz/rothcalc/internal/config"
	"github.com/rgehrsitz/rothcalc/internal/output"
	"github.com/spf13/cobra"
)

func projectCmd(g *globalFlags) *cobra.Command {
	var (
		format string
		irmaa  bool
	)
	cmd := &cobra.Command{
		Use:   "project [profile-file]",
		Short: "Project baseline and conversion strategy year by year",
		Long: `Project a financial profile from the current age through life expectancy,
once without conversions and once with the profile's conversion strategy.

Examples:
  rothcalc project profile.yaml
  rothcalc project profile.yaml --format csv > years.csv
  rothcalc project profile.yaml --format html > report.html
  rothcalc project profile.yaml --format verbose --irmaa`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := g.logger()
			if err != nil {
				return err
			}
			formatter, err := output.NewFormatter(format)
			if err != nil {
				return err
			}
			profile, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			engine, err := g.engine(log, nil)
			if err != nil {
				return err
			}

			result, err := engine.Project(cmd.Context(), profile)
			if err != nil {
				return fmt.Errorf("projection failed: %w", err)
			}
			log.Infof("projected %d years, lifetime savings %s", len(result.Strategy), result.LifetimeSavings.StringFixed(2))

			data, err := formatter.Format(result)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := out.Write(data); err != nil {
				return err
			}

			if irmaa && formatter.Name() == "table" {
				if !profile.ModelIRMAA {
					fmt.Fprint(out, output.FormatIRMAAAnalysis("baseline", nil))
					return nil
				}
				tables, err := engine.TablesFor(profile)
				if err != nil {
					return err
				}
				mc := calculation.NewMedicareCalculator(tables, profile.FilingStatus)
				fmt.Fprint(out, output.FormatIRMAAAnalysis("baseline",
					calculation.AnalyzeIRMAARisk(result.Baseline, profile.InflationRate, mc)))
				fmt.Fprint(out, output.FormatIRMAAAnalysis("strategy",
					calculation.AnalyzeIRMAARisk(result.Strategy, profile.InflationRate, mc)))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, verbose, json, csv, csv-summary, html)")
	cmd.Flags().BoolVar(&irmaa, "irmaa", false, "Append an IRMAA risk analysis (table formats only)")
	return cmd
}
