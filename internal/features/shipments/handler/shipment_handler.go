package handler

import (
	"errors"
	"net/http"

	"github.com/CFITire/nexus-sub001/internal/core/logger"
	"github.com/CFITire/nexus-sub001/internal/features/shipments/domain"
	"github.com/CFITire/nexus-sub001/internal/features/shipments/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ShipmentHandler handles HTTP requests for shipment records.
type ShipmentHandler struct {
	service *service.ShipmentService
}

// NewShipmentHandler creates a new ShipmentHandler.
func NewShipmentHandler(s *service.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{
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

// ShipmentResponse wraps the shipment result set in the upstream envelope
// shape the dashboard already consumes.
type ShipmentResponse struct {
	Value []domain.Shipment `json:"value"`
}

// List godoc
// @Summary List shipments
// @Description Returns shipment records for a date selection. Precedence: startDate+endDate range, startDate exact day, legacy date (±1 day), default trailing week.
// @Tags shipments
// @Produce json
// @Param startDate query string false "Range start or exact day (YYYY-MM-DD)"
// @Param endDate query string false "Range end (YYYY-MM-DD)"
// @Param date query string false "Legacy single date, matched one day either side (YYYY-MM-DD)"
// @Success 200 {object} ShipmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /shipments [get]
func (h *ShipmentHandler) List(c *fiber.Ctx) error {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		rayID = "unknown"
	}

	shipments, err := h.service.List(
		c.UserContext(),
		c.Query("startDate"),
		c.Query("endDate"),
		c.Query("date"),
	)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Message: err.Error(),
				RayID:   rayID,
			})
		}

		logger.Get().Error("Shipment fetch failed",
			zap.String("ray_id", rayID),
			zap.Error(err),
		)
		return c.Status(http.StatusBadGateway).JSON(ErrorResponse{
			Message: "upstream shipment data unavailable",
			RayID:   rayID,
		})
	}

	return c.Status(http.StatusOK).JSON(ShipmentResponse{Value: shipments})
}
