package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	portssvc "github.com/bluestar-trading/erp_backend/internal/core/ports/services"
	"github.com/bluestar-trading/erp_backend/internal/dto"
	"github.com/bluestar-trading/erp_backend/internal/middleware"
	"github.com/bluestar-trading/erp_backend/internal/tracking"
	"github.com/gin-gonic/gin"
)

// streamKeepAlive is how often an idle location stream sends a ping event.
const streamKeepAlive = 25 * time.Second

// tripHandler handles trips and their live location stream.
type tripHandler struct {
	tripService portssvc.TripSvcFacade
	registry    *tracking.Registry
}

func newTripHandler(ts portssvc.TripSvcFacade, registry *tracking.Registry) *tripHandler {
	return &tripHandler{
		tripService: ts,
		registry:    registry,
	}
}

// registerTripRoutes registers routes related to trips.
func registerTripRoutes(rg *gin.RouterGroup, ts portssvc.TripSvcFacade, registry *tracking.Registry, policy middleware.Policy) {
	h := newTripHandler(ts, registry)

	trips := rg.Group("/trips")
	{
		trips.POST("", h.createTrip)
		trips.GET("", h.listTrips)
		trips.GET("/:id", h.getTrip)
		trips.PATCH("/:id", policy.RequirePolicy("trips", middleware.ActionUpdate), h.updateTripStatus)
		trips.POST("/:id/location", policy.RequirePolicy("trips", middleware.ActionAdjust), h.publishLocation)
		trips.GET("/:id/stream", h.streamLocation)
	}
}

// createTrip godoc
// @Summary Create a trip
// @Description Plans a vehicle run. The trip number (TRP-YYYYMMDD-NNN) is generated.
// @Tags trips
// @Accept json
// @Produce json
// @Param trip body dto.CreateTripRequest true "Trip details"
// @Success 201 {object} dto.TripResponse
// @Failure 400 {object} ErrorResponse "Invalid input format"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to create trip"
// @Security BearerAuth
// @Router /trips [post]
func (h *tripHandler) createTrip(c *gin.Context) {
	var req dto.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create trip")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTripResponse(trip))
}

// getTrip godoc
// @Summary Get a trip by ID
// @Tags trips
// @Produce json
// @Param id path string true "Trip ID"
// @Success 200 {object} dto.TripResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Trip not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve trip"
// @Security BearerAuth
// @Router /trips/{id} [get]
func (h *tripHandler) getTrip(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve trip")
		return
	}
	c.JSON(http.StatusOK, dto.ToTripResponse(trip))
}

// listTrips godoc
// @Summary List trips
// @Tags trips
// @Produce json
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size" default(20)
// @Param status query string false "Trip status" Enums(planned, in_transit, completed, cancelled)
// @Success 200 {array} dto.TripResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list trips"
// @Security BearerAuth
// @Router /trips [get]
func (h *tripHandler) listTrips(c *gin.Context) {
	var params dto.ListTripsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	if params.Limit == 0 {
		params.Limit = defaultPageSize
	}

	var status *domain.TripStatus
	if params.Status != "" {
		s := domain.TripStatus(params.Status)
		status = &s
	}

	trips, err := h.tripService.ListTrips(c.Request.Context(), status, params.Limit, params.Skip)
	if err != nil {
		respondError(c, err, "Failed to list trips")
		return
	}
	c.JSON(http.StatusOK, dto.ToTripResponses(trips))
}

// updateTripStatus godoc
// @Summary Update trip status
// @Tags trips
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param status body dto.UpdateTripStatusRequest true "New status"
// @Success 200 {object} dto.TripResponse
// @Failure 400 {object} ErrorResponse "Invalid input format"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Trip not found"
// @Failure 500 {object} ErrorResponse "Failed to update trip"
// @Security BearerAuth
// @Router /trips/{id} [patch]
func (h *tripHandler) updateTripStatus(c *gin.Context) {
	var req dto.UpdateTripStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	trip, err := h.tripService.UpdateTripStatus(c.Request.Context(), c.Param("id"), req.Status, userID)
	if err != nil {
		respondError(c, err, "Failed to update trip")
		return
	}
	c.JSON(http.StatusOK, dto.ToTripResponse(trip))
}

// publishLocation godoc
// @Summary Publish a location fix
// @Description Relays the driver's position to everyone streaming the trip. Fixes are not stored.
// @Tags trips
// @Accept json
// @Produce json
// @Param id path string true "Trip ID"
// @Param location body dto.LocationUpdateRequest true "Position"
// @Success 202 {object} dto.LocationUpdateResponse
// @Failure 400 {object} ErrorResponse "Invalid input format"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Trip not found"
// @Failure 422 {object} ErrorResponse "Trip already finished"
// @Failure 500 {object} ErrorResponse "Failed to publish location"
// @Security BearerAuth
// @Router /trips/{id}/location [post]
func (h *tripHandler) publishLocation(c *gin.Context) {
	var req dto.LocationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	delivered, err := h.tripService.PublishLocation(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to publish location")
		return
	}
	c.JSON(http.StatusAccepted, dto.LocationUpdateResponse{Delivered: delivered})
}

// streamLocation godoc
// @Summary Stream live locations
// @Description Server-sent events: one "location" event per fix, "ping" while idle
// @Tags trips
// @Produce text/event-stream
// @Param id path string true "Trip ID"
// @Success 200 {object} domain.TripLocation
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Trip not found"
// @Security BearerAuth
// @Router /trips/{id}/stream [get]
func (h *tripHandler) streamLocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tripID := c.Param("id")

	if _, err := h.tripService.GetTrip(c.Request.Context(), tripID); err != nil {
		respondError(c, err, "Failed to open location stream")
		return
	}

	sub := h.registry.Subscribe(tripID)
	defer h.registry.Unsubscribe(sub)
	logger.Info("Location stream opened", slog.String("trip_id", tripID), slog.String("subscription_id", sub.ID))

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case loc, ok := <-sub.Updates():
			if !ok {
				return false
			}
			c.SSEvent("location", loc)
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		}
	})
	logger.Info("Location stream closed", slog.String("trip_id", tripID))
}
