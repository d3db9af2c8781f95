package handler

import (
	"errors"
	"net/http"

	"github.com/CFITire/nexus-sub001/internal/core/dynamics"
	"github.com/CFITire/nexus-sub001/internal/core/logger"
	"github.com/CFITire/nexus-sub001/internal/features/analytics/domain"
	"github.com/CFITire/nexus-sub001/internal/features/analytics/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AnalyticsHandler handles HTTP requests for shipment analytics.
type AnalyticsHandler struct {
	service *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(s *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: s,
	}
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}

// SnapshotResponse wraps the snapshot in the envelope shape the dashboard
// already consumes.
type SnapshotResponse struct {
	Value domain.Snapshot `json:"value"`
}

// Snapshot godoc
// @Summary Shipment performance analytics
// @Description Computes delivery performance metrics over shipment records, optionally bounded by an order-date window.
// @Tags analytics
// @Produce json
// @Param startDate query string false "Window start (YYYY-MM-DD)"
// @Param endDate query string false "Window end (YYYY-MM-DD)"
// @Success 200 {object} SnapshotResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /shipment-analytics [get]
func (h *AnalyticsHandler) Snapshot(c *fiber.Ctx) error {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		rayID = "unknown"
	}

	window, err := parseWindow(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID,
		})
	}

	snapshot, err := h.service.Snapshot(c.UserContext(), window)
	if err != nil {
		logger.Get().Error("Analytics computation failed",
			zap.String("ray_id", rayID),
			zap.Error(err),
		)
		return c.Status(http.StatusBadGateway).JSON(ErrorResponse{
			Message: "upstream shipment data unavailable",
			RayID:   rayID,
		})
	}

	return c.Status(http.StatusOK).JSON(SnapshotResponse{Value: snapshot})
}

// parseWindow builds an optional window from the date parameters. Either
// bound may be omitted; malformed input is a validation error.
func parseWindow(startDate, endDate string) (*domain.Window, error) {
	if startDate == "" && endDate == "" {
		return nil, nil
	}

	window := &domain.Window{}
	if startDate != "" {
		window.Start = dynamics.ParseDate(startDate)
		if !window.Start.Valid() {
			return nil, errors.New("invalid startDate, expected YYYY-MM-DD")
		}
	}
	if endDate != "" {
		window.End = dynamics.ParseDate(endDate)
		if !window.End.Valid() {
			return nil, errors.New("invalid endDate, expected YYYY-MM-DD")
		}
	}
	return window, nil
}
