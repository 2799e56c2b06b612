package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fruitfulhq/storefront-backend/internal/app/service"
	apperrors "github.com/fruitfulhq/storefront-backend/internal/errors"
	"github.com/fruitfulhq/storefront-backend/internal/middleware"
	"github.com/fruitfulhq/storefront-backend/pkg/commerce"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

func orderListRequest(c *gin.Context) commerce.ListOrdersRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	return commerce.ListOrdersRequest{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}
}

// ListOrders returns a page of orders from the commerce backend
// GET /api/v1/admin/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token, _ := middleware.GetAuthToken(c)
	req := orderListRequest(c)

	orders, total, err := ctrl.orderService.ListOrders(c.Request.Context(), token, req)
	if err != nil {
		log.Error("Failed to list orders", err, map[string]interface{}{
			"status": req.Status,
		})
		apperrors.BadGateway(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   req.Page,
		"limit":  req.Limit,
	})
}

// GetOrder returns one order
// GET /api/v1/admin/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token, _ := middleware.GetAuthToken(c)
	orderID := c.Param("id")

	order, err := ctrl.orderService.GetOrder(c.Request.Context(), token, orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		apperrors.BadGateway(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdateOrderStatus moves an order to a new status
// PUT /api/v1/admin/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token, _ := middleware.GetAuthToken(c)
	orderID := c.Param("id")

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	err := ctrl.orderService.UpdateOrderStatus(c.Request.Context(), token, orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderInvalidStatus):
			apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "Unknown order status")
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		default:
			log.Error("Failed to update order status", err, map[string]interface{}{
				"order_id": orderID,
				"status":   req.Status,
			})
			apperrors.BadGateway(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
}

// ExportOrders streams an XLSX workbook of the matching orders
// GET /api/v1/admin/orders/export
func (ctrl *OrderController) ExportOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token, _ := middleware.GetAuthToken(c)
	req := orderListRequest(c)
	// Exports ignore pagination - the whole filtered set goes in
	req.Page = 0
	req.Limit = 0

	workbook, err := ctrl.orderService.ExportOrders(c.Request.Context(), token, req)
	if err != nil {
		log.Error("Failed to export orders", err, map[string]interface{}{
			"status": req.Status,
		})
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.OrderExportFailed, "Failed to export orders")
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}
