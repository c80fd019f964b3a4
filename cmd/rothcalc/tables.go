package main

import (
	"fmt"

	"github.com/rgehrsitz/rothcalc/internal/config"
	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/spf13/cobra"
)

func tablesCmd(g *globalFlags) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Print the reference tax tables as YAML",
		Long: `Print the reference tables in the same YAML schema --tables accepts, so the
output can be edited and passed back as an override file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := g.tables()
			if err != nil {
				return err
			}
			if year != 0 {
				t, err := set.ForYear(year)
				if err != nil {
					return err
				}
				set = domain.TableSet{t.Year: t}
			}
			data, err := config.MarshalTables(set)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Only print the tables that apply to this tax year")
	cmd.AddCommand(&cobra.Command{
		Use:   "years",
		Short: "List the tax years with tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := g.tables()
			if err != nil {
				return err
			}
			for _, y := range set.Years() {
				fmt.Fprintln(cmd.OutOrStdout(), y)
			}
			return nil
		},
	})
	return cmd
}
