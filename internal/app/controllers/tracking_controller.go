package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholarship/internal/app/models/dto"
	"github.com/yigit/scholarship/internal/app/services"
	"github.com/yigit/scholarship/internal/middleware"
	"github.com/yigit/scholarship/internal/pkg/logger"
)

// TrackingController handles application status lookups
type TrackingController struct {
	trackingService services.TrackingService
}

// NewTrackingController creates a new TrackingController
func NewTrackingController(trackingService services.TrackingService) *TrackingController {
	return &TrackingController{
		trackingService: trackingService,
	}
}

// Track returns the tracked view of an application
// @Summary Track application
// @Description Retrieves an application by its numeric ID
// @Tags applications
// @Produce json
// @Param id query string true "Application ID (digits only)"
// @Success 200 {object} dto.ApplicationView "Application found"
// @Failure 400 {object} dto.ErrorResponse "VALIDATION_ERROR"
// @Failure 404 {object} dto.ErrorResponse "NOT_FOUND"
// @Failure 500 {object} dto.ErrorResponse "CONFIG_ERROR, TABLE_ERROR, AUTH_ERROR, DATA_ERROR or UNKNOWN_ERROR"
// @Failure 503 {object} dto.ErrorResponse "CONNECTION_ERROR"
// @Router /track [get]
func (c *TrackingController) Track(ctx *gin.Context) {
	view, err := c.trackingService.Track(ctx.Request.Context(), ctx.Query("id"))
	if err != nil {
		logger.Ctx(ctx.Request.Context()).Error().Err(err).Str("id", ctx.Query("id")).Msg("Error tracking application")
		middleware.HandleAPIError(ctx, err, "Failed to fetch application details")
		return
	}

	ctx.JSON(http.StatusOK, view)
}

// Pinger checks that the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports service health
type HealthController struct {
	db Pinger
}

// NewHealthController creates a new HealthController
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Health pings the database
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service and database are up"
// @Failure 503 {object} dto.HealthResponse "Database unreachable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.db.Ping(pingCtx); err != nil {
		logger.Ctx(ctx.Request.Context()).Warn().Err(err).Msg("Health check failed")
		ctx.JSON(http.StatusServiceUnavailable, dto.HealthResponse{Status: "degraded", Database: "down"})
		return
	}

	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Database: "up"})
}
