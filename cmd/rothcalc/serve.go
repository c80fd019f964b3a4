package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rgehrsitz/rothcalc/internal/api"
	"github.com/rgehrsitz/rothcalc/internal/calculation"
	"github.com/spf13/cobra"
)

func serveCmd(g *globalFlags) *cobra.Command {
	var (
		addr     string
		cacheTTL time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve projections over HTTP",
		Long: `Serve the projection engine over HTTP.

Settings come from flags, then the environment (ROTHCALC_ADDR,
ROTHCALC_LOG_LEVEL, ROTHCALC_CACHE_TTL), with a .env file in the working
directory loaded first when present.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("addr") {
				addr = envOr("ROTHCALC_ADDR", addr)
			}
			if !flags.Changed("cache-ttl") {
				cacheTTL = envDuration("ROTHCALC_CACHE_TTL", cacheTTL)
			}
			if !cmd.Root().PersistentFlags().Changed("log-level") {
				g.logLevel = envOr("ROTHCALC_LOG_LEVEL", "info")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := g.logger()
			if err != nil {
				return err
			}
			cache := calculation.NewResultCache(cacheTTL)
			engine, err := g.engine(log, cache)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := api.NewServer(engine,
				api.WithAddr(addr),
				api.WithLogger(log.With("component", "http")),
				api.WithCache(cache),
			)
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().DurationVar(&cacheTTL, "cache-ttl", 10*time.Minute, "How long projection results stay cached")
	return cmd
}
