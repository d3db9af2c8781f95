package handler

import (
	"net/http"

	"github.com/CFITire/nexus-sub001/internal/core/logger"
	"github.com/CFITire/nexus-sub001/internal/features/orders/domain"
	"github.com/CFITire/nexus-sub001/internal/features/orders/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for order search.
type OrderHandler struct {
	service *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(s *service.OrderService) *OrderHandler {
	return &OrderHandler{
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

// PurchaseOrderResponse wraps the purchase order result set.
type PurchaseOrderResponse struct {
	PurchaseOrders []domain.Order `json:"purchaseOrders"`
}

// SalesOrderResponse wraps the sales order result set.
type SalesOrderResponse struct {
	SalesOrders []domain.Order `json:"salesOrders"`
}

// SearchPurchaseOrders godoc
// @Summary Search purchase orders
// @Description Searches purchase orders by document number or vendor name. Terms shorter than 2 characters return an empty set.
// @Tags orders
// @Produce json
// @Param search query string false "Search term"
// @Success 200 {object} PurchaseOrderResponse
// @Failure 502 {object} ErrorResponse
// @Router /purchase-orders [get]
func (h *OrderHandler) SearchPurchaseOrders(c *fiber.Ctx) error {
	term := c.Query("search")
	rayID := rayID(c)

	orders, err := h.service.SearchPurchaseOrders(c.UserContext(), term)
	if err != nil {
		logger.Get().Error("Purchase order search failed",
			zap.String("ray_id", rayID),
			zap.Error(err),
		)
		return c.Status(http.StatusBadGateway).JSON(ErrorResponse{
			Message: "upstream order system unavailable",
			RayID:   rayID,
		})
	}

	return c.Status(http.StatusOK).JSON(PurchaseOrderResponse{PurchaseOrders: orders})
}

// SearchSalesOrders godoc
// @Summary Search sales orders
// @Description Searches sales orders by document number or customer name. Serves a substitute dataset in degraded mode.
// @Tags orders
// @Produce json
// @Param search query string false "Search term"
// @Success 200 {object} SalesOrderResponse
// @Failure 502 {object} ErrorResponse
// @Router /sales-orders [get]
func (h *OrderHandler) SearchSalesOrders(c *fiber.Ctx) error {
	term := c.Query("search")
	rayID := rayID(c)

	orders, err := h.service.SearchSalesOrders(c.UserContext(), term)
	if err != nil {
		logger.Get().Error("Sales order search failed",
			zap.String("ray_id", rayID),
			zap.Error(err),
		)
		return c.Status(http.StatusBadGateway).JSON(ErrorResponse{
			Message: "upstream order system unavailable",
			RayID:   rayID,
		})
	}

	return c.Status(http.StatusOK).JSON(SalesOrderResponse{SalesOrders: orders})
}

// rayID extracts the request id set by the requestid middleware.
func rayID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return "unknown"
}
