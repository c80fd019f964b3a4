package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rgehrsitz/rothcalc/internal/calculation"
	"github.com/rgehrsitz/rothcalc/internal/config"
	"github.com/rgehrsitz/rothcalc/internal/domain"
)

// Handler serves the projection and planning endpoints
type Handler struct {
	engine  *calculation.ProjectionEngine
	planner *calculation.RothConversionPlanner
	metrics *Metrics
	logger  calculation.Logger
}

// NewHandler creates a handler around engine
func NewHandler(engine *calculation.ProjectionEngine, metrics *Metrics, logger calculation.Logger) *Handler {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &Handler{
		engine:  engine,
		planner: calculation.NewRothConversionPlanner(engine),
		metrics: metrics,
		logger:  logger,
	}
}

// RegisterRoutes attaches the API routes to e
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	v1 := e.Group("/v1")
	v1.POST("/projections", h.CreateProjection)
	v1.POST("/plans", h.CreatePlan)
}

// Health reports liveness and the tax years loaded
func (h *Handler) Health(c echo.Context) error {
	return SuccessResponse(c, map[string]any{
		"status":    "ok",
		"tax_years": h.engine.Years(),
	})
}

// CreateProjection projects the posted profile
func (h *Handler) CreateProjection(c echo.Context) error {
	var req config.ProfileFile
	if errs := readAndValidateRequest(c, &req, config.Validate); errs != nil {
		return BadRequestResponse(c, errs)
	}
	profile, err := req.ToProfile()
	if err != nil {
		return BadRequestResponse(c, validationErrors(err))
	}

	start := time.Now()
	result, err := h.engine.Project(c.Request().Context(), profile)
	h.metrics.ObserveProjection("projection", time.Since(start))
	if err != nil {
		return h.engineError(c, "projection", err)
	}
	return SuccessResponse(c, result)
}

// CreatePlan runs the bracket-fill planner for the posted request
func (h *Handler) CreatePlan(c echo.Context) error {
	var req config.PlanRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, bindErrors(err))
	}
	in, err := req.Inputs()
	if err != nil {
		return BadRequestResponse(c, validationErrors(err))
	}

	start := time.Now()
	plan, err := h.planner.PlanRothConversions(c.Request().Context(), in.Profile, in.TargetRates, in.Objective, in.Constraints)
	h.metrics.ObserveProjection("plan", time.Since(start))
	if err != nil {
		return h.engineError(c, "plan", err)
	}
	return SuccessResponse(c, plan)
}

func (h *Handler) engineError(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, calculation.ErrInvalidPlan):
		return ErrorResponse(c, http.StatusBadRequest, "ERR_INVALID_PLAN", err.Error())
	case errors.Is(err, domain.ErrNoTablesForYear):
		return ErrorResponse(c, http.StatusUnprocessableEntity, "ERR_NO_TABLES", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorResponse(c, http.StatusServiceUnavailable, "ERR_CANCELED", err.Error())
	}
	h.logger.Errorf("%s failed: %v", op, err)
	return ErrorResponse(c, http.StatusUnprocessableEntity, "ERR_UNPROCESSABLE", err.Error())
}

// readAndValidateRequest binds the body and runs validate. It returns the
// client-facing errors, or nil when the request is usable.
func readAndValidateRequest[T any](c echo.Context, req *T, validate func(*T) error) []AppError {
	if err := c.Bind(req); err != nil {
		return bindErrors(err)
	}
	if err := validate(req); err != nil {
		return validationErrors(err)
	}
	return nil
}

func bindErrors(err error) []AppError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		return []AppError{{Code: "ERR_BIND", Message: msg}}
	}
	return []AppError{{Code: "ERR_BIND", Message: err.Error()}}
}

func validationErrors(err error) []AppError {
	var ve *config.ValidationError
	if !errors.As(err, &ve) {
		return []AppError{{Code: "ERR_UNKNOWN", Message: err.Error()}}
	}
	out := make([]AppError, len(ve.Fields))
	for i, f := range ve.Fields {
		out[i] = AppError{Code: f.Code, Message: f.Message, Field: f.Field, Params: f.Params}
	}
	return out
}
