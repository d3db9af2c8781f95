package handler

import (
	"net/http"

	"github.com/CFITire/nexus-sub001/internal/core/logger"
	"github.com/CFITire/nexus-sub001/internal/features/locations/domain"
	"github.com/CFITire/nexus-sub001/internal/features/locations/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LocationHandler handles HTTP requests for the location directory.
type LocationHandler struct {
	service *service.LocationService
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(s *service.LocationService) *LocationHandler {
	return &LocationHandler{
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

// LocationResponse wraps the location result set.
type LocationResponse struct {
	Locations []domain.Location `json:"locations"`
}

// Search godoc
// @Summary List or search locations
// @Description Returns the location directory, optionally filtered by a case-insensitive substring on code or name.
// @Tags locations
// @Produce json
// @Param search query string false "Search term"
// @Success 200 {object} LocationResponse
// @Failure 502 {object} ErrorResponse
// @Router /locations [get]
func (h *LocationHandler) Search(c *fiber.Ctx) error {
	term := c.Query("search")

	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		rayID = "unknown"
	}

	locations, err := h.service.Search(c.UserContext(), term)
	if err != nil {
		logger.Get().Error("Location search failed",
			zap.String("ray_id", rayID),
			zap.Error(err),
		)
		return c.Status(http.StatusBadGateway).JSON(ErrorResponse{
			Message: "upstream location directory unavailable",
			RayID:   rayID,
		})
	}

	return c.Status(http.StatusOK).JSON(LocationResponse{Locations: locations})
}
