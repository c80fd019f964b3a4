package main

import (
	"fmt"

	"github.com/rgehrsitz/rothcalc/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func validateCmd() *cobra.Command {
	var normalized bool
	cmd := &cobra.Command{
		Use:   "validate [profile-file]",
		Short: "Validate a profile and optionally print it with defaults applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			doc, err := parser.LoadDocument(args[0])
			if err != nil {
				return err
			}
			profile, err := doc.ToProfile()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !normalized {
				fmt.Fprintf(out, "✓ %s is valid: %s, ages %d-%d (%d years)\n",
					args[0], profile.FilingStatus, profile.CurrentAge, profile.LifeExpectancyAge, profile.Years())
				return nil
			}

			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(config.FromProfile(profile, doc.Conversion))
		},
	}
	cmd.Flags().BoolVar(&normalized, "print", false, "Print the profile with every default filled in")
	return cmd
}
