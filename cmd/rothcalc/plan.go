package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rgehrsitz/rothcalc/internal/calculation"
	"github.com/rgehrsitz/rothcalc/internal/config"
	"github.com/rgehrsitz/rothcalc/internal/output"
	"github.com/spf13/cobra"
)

func planCmd(g *globalFlags) *cobra.Command {
	var (
		window    string
		targets   []int
		objective string
		format    string
		minAmount float64
		maxAmount float64
		maxTotal  float64
	)
	cmd := &cobra.Command{
		Use:   "plan [profile-file]",
		Short: "Plan bracket-fill Roth conversions",
		Long: `Plan Roth conversions that fill the room left in a target tax bracket each
year of the conversion window, and recommend the best target.

Examples:
  # Compare filling the 12%, 22% and 24% brackets before RMDs start
  rothcalc plan profile.yaml

  # Fill only the 22% bracket from 63 to 70, capped at $80,000 a year
  rothcalc plan profile.yaml --target 22 --window 63-70 --max-amount 80000

  # Prefer the strategy with the least IRMAA
  rothcalc plan profile.yaml --objective minimize_lifetime_irmaa`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := g.logger()
			if err != nil {
				return err
			}
			formatter, err := output.NewPlanFormatter(format)
			if err != nil {
				return err
			}
			doc, err := config.NewInputParser().LoadDocument(args[0])
			if err != nil {
				return err
			}

			req := config.PlanRequest{Profile: *doc, Objective: objective}
			if req.WindowStart, req.WindowEnd, err = parseAgeRange(window); err != nil {
				return err
			}
			for _, t := range targets {
				req.TargetRates = append(req.TargetRates, float64(t)/100)
			}
			flags := cmd.Flags()
			if flags.Changed("min-amount") {
				req.MinConversion = &minAmount
			}
			if flags.Changed("max-amount") {
				req.MaxConversion = &maxAmount
			}
			if flags.Changed("max-total") {
				req.MaxTotal = &maxTotal
			}

			in, err := req.Inputs()
			if err != nil {
				return err
			}
			engine, err := g.engine(log, calculation.NewResultCache(0))
			if err != nil {
				return err
			}
			plan, err := calculation.NewRothConversionPlanner(engine).
				PlanRothConversions(cmd.Context(), in.Profile, in.TargetRates, in.Objective, in.Constraints)
			if err != nil {
				return fmt.Errorf("planning Roth conversions: %w", err)
			}

			text, err := formatter.FormatRothConversionPlan(plan)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&window, "window", "w", "", "Conversion ages, e.g. 63-72 (default: current age until the year before RMDs)")
	cmd.Flags().IntSliceVarP(&targets, "target", "t", []int{12, 22, 24}, "Target bracket rates in percent")
	cmd.Flags().StringVarP(&objective, "objective", "o", "minimize_lifetime_tax", "Objective (minimize_lifetime_tax, minimize_lifetime_irmaa, maximize_ending_roth)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	cmd.Flags().Float64Var(&minAmount, "min-amount", 0, "Skip years with less room than this")
	cmd.Flags().Float64Var(&maxAmount, "max-amount", 0, "Maximum conversion per year")
	cmd.Flags().Float64Var(&maxTotal, "max-total", 0, "Maximum total conversions across all years")
	return cmd
}

// parseAgeRange parses "63-72"; an empty string means both bounds default
func parseAgeRange(s string) (int, int, error) {
	if s == "" {
		return 0, 0, nil
	}
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid window %q (expected START-END ages)", s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid window start age: %s", parts[0])
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid window end age: %s", parts[1])
	}
	if end < start {
		return 0, 0, fmt.Errorf("window start age must not be after end age")
	}
	return start, end, nil
}
