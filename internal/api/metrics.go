package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rgehrsitz/rothcalc/internal/calculation"
)

// Metrics records request and projection metrics on a private registry so
// that several servers can live in one process.
type Metrics struct {
	registry    *prometheus.Registry
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	projections *prometheus.HistogramVec
}

// NewMetrics registers the collectors. cache may be nil.
func NewMetrics(cache *calculation.ResultCache) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rothcalc_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rothcalc_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"route", "method"},
		),
		projections: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rothcalc_projection_duration_seconds",
				Help:    "Duration of projection and planning runs in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}

	if cache != nil {
		factory.NewCounterFunc(prometheus.CounterOpts{
			Name: "rothcalc_projection_cache_hits_total",
			Help: "Projections served from the result cache",
		}, func() float64 { return float64(cache.Hits()) })
		factory.NewCounterFunc(prometheus.CounterOpts{
			Name: "rothcalc_projection_cache_misses_total",
			Help: "Projections that had to be computed",
		}, func() float64 { return float64(cache.Misses()) })
	}
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveProjection records how long one engine operation took
func (m *Metrics) ObserveProjection(operation string, d time.Duration) {
	m.projections.WithLabelValues(operation).Observe(d.Seconds())
}

// Middleware counts requests by route template and final status
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := c.Response().Status
			var he *echo.HTTPError
			if err != nil && errors.As(err, &he) {
				status = he.Code
			}

			method := c.Request().Method
			m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
			m.duration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
