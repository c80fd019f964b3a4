// Package api exposes the projection engine over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rgehrsitz/rothcalc/internal/calculation"
)

// ServerOption configures Server.
type ServerOption func(*ServerConfig)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Logger          calculation.Logger
	Cache           *calculation.ResultCache
}

// Server wraps the Echo HTTP server.
type Server struct {
	echo    *echo.Echo
	config  *ServerConfig
	metrics *Metrics
}

// NewServer creates the HTTP server for engine.
func NewServer(engine *calculation.ProjectionEngine, opts ...ServerOption) *Server {
	cfg := &ServerConfig{
		Addr:            ":8080",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		Logger:          calculation.NopLogger{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	metrics := NewMetrics(cfg.Cache)

	e.Use(Recover(cfg.Logger))
	e.Use(RequestLogging(cfg.Logger))
	e.Use(metrics.Middleware())

	NewHandler(engine, metrics, cfg.Logger).RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	return &Server{echo: e, config: cfg, metrics: metrics}
}

// ServeHTTP lets the server be driven directly, e.g. by httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on the configured address and blocks until the server stops.
func (s *Server) Start() error {
	s.config.Logger.Infof("http server: listening on %s", s.config.Addr)
	if err := s.echo.Start(s.config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Run starts the server and shuts it down when ctx is done.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.config.Logger.Infof("http server: stopped gracefully")
	return <-errCh
}

// WithAddr sets the listen address.
func WithAddr(addr string) ServerOption {
	return func(c *ServerConfig) {
		if addr != "" {
			c.Addr = addr
		}
	}
}

// WithTimeouts sets read/write/shutdown timeouts.
func WithTimeouts(read, write, shutdown time.Duration) ServerOption {
	return func(c *ServerConfig) {
		c.ReadTimeout = read
		c.WriteTimeout = write
		c.ShutdownTimeout = shutdown
	}
}

// WithLogger sets the server logger.
func WithLogger(l calculation.Logger) ServerOption {
	return func(c *ServerConfig) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithCache exports the engine's cache counters as metrics.
func WithCache(cache *calculation.ResultCache) ServerOption {
	return func(c *ServerConfig) {
		c.Cache = cache
	}
}

// Recover returns recovery middleware.
func Recover(l calculation.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					l.Errorf("PANIC: %v\n%s", r, debug.Stack())
					err = ErrorResponse(c, http.StatusInternalServerError, "ERR_INTERNAL", "Internal Server Error")
				}
			}()
			return next(c)
		}
	}
}

// RequestLogging logs HTTP requests.
func RequestLogging(l calculation.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := time.Now()

			err := next(c)

			l.Infof("[%s] %s - %d (%s)", req.Method, req.RequestURI, c.Response().Status, time.Since(start))
			return err
		}
	}
}
