package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/rgehrsitz/rothcalc/internal/calculation"
	"github.com/rgehrsitz/rothcalc/internal/config"
	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/rgehrsitz/rothcalc/internal/logging"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are the persistent flags shared by every subcommand
type globalFlags struct {
	tablesFile string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "rothcalc",
		Short: "Multi-year federal tax projection for Roth conversions",
		Long: `Project federal income tax, IRMAA surcharges and account balances year by
year, comparing a no-conversion baseline against a Roth conversion strategy.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.tablesFile, "tables", "", "YAML file with reference tax tables (defaults to the built-in years)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", envOr("ROTHCALC_LOG_LEVEL", "warn"), "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "console", "Log format (console, json)")

	root.AddCommand(
		projectCmd(g),
		planCmd(g),
		compareCmd(g),
		breakevenCmd(g),
		validateCmd(),
		tablesCmd(g),
		serveCmd(g),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rothcalc %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

func (g *globalFlags) logger() (*logging.Logger, error) {
	return logging.New(logging.Config{Level: g.logLevel, Format: g.logFormat, Output: "stderr"})
}

// tables returns the built-in tables or the --tables override
func (g *globalFlags) tables() (domain.TableSet, error) {
	if g.tablesFile == "" {
		return calculation.DefaultTableSet(), nil
	}
	return config.NewInputParser().LoadTablesFromFile(g.tablesFile)
}

// engine builds a projection engine from the global flags. cache may be nil.
func (g *globalFlags) engine(log calculation.Logger, cache *calculation.ResultCache) (*calculation.ProjectionEngine, error) {
	tables, err := g.tables()
	if err != nil {
		return nil, err
	}
	opts := []calculation.Option{calculation.WithLogger(log)}
	if cache != nil {
		opts = append(opts, calculation.WithCache(cache))
	}
	return calculation.NewProjectionEngine(tables, opts...)
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
