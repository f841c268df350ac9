// Package http exposes the pricing engine as a JSON API on echo.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"pricing/internal/core/application/engine"
	"pricing/internal/core/domain/model/demand"
	"pricing/internal/core/domain/model/kernel"
	"pricing/internal/core/domain/model/parcel"
	"pricing/internal/core/domain/model/tier"
	"pricing/internal/core/domain/services"
	"pricing/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

// MaxBatchLocations caps the size of a demand batch request.
const MaxBatchLocations = 100

type (
	// PricingEngine is the part of engine.Engine served over HTTP.
	PricingEngine interface {
		Suggest(ctx context.Context, req engine.SuggestRequest) ([]services.Suggestion, error)
		RefreshDemand(ctx context.Context, loc kernel.Location, force bool) (*demand.Record, error)
		BatchDemand(ctx context.Context, locs []kernel.Location) ([]*demand.Record, error)
		DemandHistory(ctx context.Context, loc kernel.Location, days int) (demand.History, error)
		SeedDefaultTiers(ctx context.Context) (int, error)
		ListActiveTiers(ctx context.Context) ([]*tier.Tier, error)
		IsFresh(rec *demand.Record) bool
	}

	// CourierAvailability is the write side of the courier directory.
	CourierAvailability interface {
		MarkAvailable(ctx context.Context, courierID string, loc kernel.Location) error
		MarkUnavailable(ctx context.Context, courierID string) error
	}
)

// Server translates HTTP requests into engine calls.
type Server struct {
	engine   PricingEngine
	couriers CourierAvailability
	logger   *slog.Logger
}

// NewServer creates a Server.
func NewServer(engine PricingEngine, couriers CourierAvailability, logger *slog.Logger) *Server {
	return &Server{
		engine:   engine,
		couriers: couriers,
		logger:   logger.With("component", "http_server"),
	}
}

// RegisterRoutes mounts all handlers on e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/pricing/suggestions", s.SuggestPricing)
	api.POST("/demand/refresh", s.RefreshDemand)
	api.POST("/demand/batch", s.BatchDemand)
	api.GET("/demand/history", s.DemandHistory)
	api.GET("/tiers", s.ListTiers)
	api.POST("/tiers/seed", s.SeedTiers)
	api.PUT("/couriers/:id/availability", s.MarkCourierAvailable)
	api.DELETE("/couriers/:id/availability", s.MarkCourierUnavailable)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// SuggestPricing handles POST /api/v1/pricing/suggestions.
func (s *Server) SuggestPricing(ctx echo.Context) error {
	var body SuggestPricingRequest
	if err := ctx.Bind(&body); err != nil {
		return badBody(ctx)
	}

	req, err := suggestRequest(body)
	if err != nil {
		return s.fail(ctx, err)
	}

	suggestions, err := s.engine.Suggest(ctx.Request().Context(), req)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, SuggestPricingResponse{Suggestions: suggestionsFromDomain(suggestions)})
}

// RefreshDemand handles POST /api/v1/demand/refresh.
func (s *Server) RefreshDemand(ctx echo.Context) error {
	var body RefreshDemandRequest
	if err := ctx.Bind(&body); err != nil {
		return badBody(ctx)
	}

	loc, err := body.Location.toDomain("location")
	if err != nil {
		return s.fail(ctx, err)
	}

	rec, err := s.engine.RefreshDemand(ctx.Request().Context(), loc, body.ForceUpdate)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, demandFromDomain(rec, s.engine.IsFresh(rec)))
}

// BatchDemand handles POST /api/v1/demand/batch.
func (s *Server) BatchDemand(ctx echo.Context) error {
	var body DemandBatchRequest
	if err := ctx.Bind(&body); err != nil {
		return badBody(ctx)
	}
	if len(body.Locations) > MaxBatchLocations {
		return s.fail(ctx, errs.NewValueIsOutOfRangeError("locations", len(body.Locations), 0, MaxBatchLocations))
	}

	locs := make([]kernel.Location, 0, len(body.Locations))
	for i, l := range body.Locations {
		loc, err := l.toDomain(fmt.Sprintf("locations[%d]", i))
		if err != nil {
			return s.fail(ctx, err)
		}
		locs = append(locs, loc)
	}

	records, err := s.engine.BatchDemand(ctx.Request().Context(), locs)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, DemandBatchResponse{
		Records: lo.Map(records, func(r *demand.Record, _ int) DemandRecord {
			return demandFromDomain(r, s.engine.IsFresh(r))
		}),
	})
}

// DemandHistory handles GET /api/v1/demand/history?longitude=&latitude=&days=.
func (s *Server) DemandHistory(ctx echo.Context) error {
	var lon, lat float64
	var days int
	if err := echo.QueryParamsBinder(ctx).
		MustFloat64("longitude", &lon).
		MustFloat64("latitude", &lat).
		Int("days", &days).
		BindError(); err != nil {
		return s.fail(ctx, errs.NewValueIsInvalidErrorWithCause("query", err))
	}

	loc, err := kernel.NewLocation(lon, lat)
	if err != nil {
		return s.fail(ctx, errs.NewValueIsInvalidErrorWithCause("location", err))
	}

	h, err := s.engine.DemandHistory(ctx.Request().Context(), loc, days)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, historyFromDomain(h))
}

// ListTiers handles GET /api/v1/tiers.
func (s *Server) ListTiers(ctx echo.Context) error {
	tiers, err := s.engine.ListActiveTiers(ctx.Request().Context())
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, lo.Map(tiers, func(t *tier.Tier, _ int) Tier {
		return tierFromDomain(t)
	}))
}

// SeedTiers handles POST /api/v1/tiers/seed.
func (s *Server) SeedTiers(ctx echo.Context) error {
	created, err := s.engine.SeedDefaultTiers(ctx.Request().Context())
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, SeedTiersResponse{Created: created})
}

// MarkCourierAvailable handles PUT /api/v1/couriers/:id/availability.
func (s *Server) MarkCourierAvailable(ctx echo.Context) error {
	id, err := courierID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body CourierAvailabilityRequest
	if err := ctx.Bind(&body); err != nil {
		return badBody(ctx)
	}

	loc, err := body.Location.toDomain("location")
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.couriers.MarkAvailable(ctx.Request().Context(), id.String(), loc); err != nil {
		return s.fail(ctx, errs.NewUpstreamQueryError("mark courier available", err))
	}

	return ctx.NoContent(http.StatusNoContent)
}

// MarkCourierUnavailable handles DELETE /api/v1/couriers/:id/availability.
func (s *Server) MarkCourierUnavailable(ctx echo.Context) error {
	id, err := courierID(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.couriers.MarkUnavailable(ctx.Request().Context(), id.String()); err != nil {
		return s.fail(ctx, errs.NewUpstreamQueryError("mark courier unavailable", err))
	}

	return ctx.NoContent(http.StatusNoContent)
}

func courierID(ctx echo.Context) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("courier id", err)
	}
	return id, nil
}

func suggestRequest(body SuggestPricingRequest) (engine.SuggestRequest, error) {
	pickup, pickupErr := body.Pickup.toDomain("pickup")
	dropoff, dropoffErr := body.Dropoff.toDomain("dropoff")
	size, sizeErr := parcel.ParseSize(body.PackageSize)
	if err := errors.Join(pickupErr, dropoffErr, sizeErr); err != nil {
		return engine.SuggestRequest{}, err
	}

	return engine.SuggestRequest{
		Pickup:     pickup,
		Dropoff:    dropoff,
		DistanceKm: body.DistanceKm,
		Parcel: parcel.Parcel{
			Size:     size,
			Fragile:  body.IsFragile,
			Valuable: body.IsValuable,
		},
		RequestedAt: body.RequestedDeliveryTime,
	}, nil
}

// fail maps err to a status code: upstream failures are transient (503), input
// errors are the caller's fault (400), anything else is a bug (500).
func (s *Server) fail(ctx echo.Context, err error) error {
	switch {
	case errs.IsRetryable(err):
		s.logger.WarnContext(ctx.Request().Context(), "Upstream query failed",
			"path", ctx.Path(), "error", err)
		return ctx.JSON(http.StatusServiceUnavailable, Error{
			Code:    http.StatusServiceUnavailable,
			Message: "Pricing data is temporarily unavailable, retry later",
		})
	case errs.IsInputError(err):
		return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: err.Error()})
	default:
		s.logger.ErrorContext(ctx.Request().Context(), "Request failed",
			"path", ctx.Path(), "error", err)
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
}

func badBody(ctx echo.Context) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: "Invalid request body",
	})
}
